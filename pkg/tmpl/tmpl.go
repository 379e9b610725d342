// Package tmpl renders hook command templates.
package tmpl

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

// shellQuote wraps s in single quotes, escaping any embedded single
// quotes, so templated values are safe to splice into sh -c strings.
func shellQuote(s string) string {
	if s == "" {
		return "''"
	}
	escaped := strings.ReplaceAll(s, "'", `'\''`)
	return "'" + escaped + "'"
}

var funcs = template.FuncMap{
	"shq": shellQuote,
}

// Render executes a Go template string with the given data. Referencing
// an undefined key is an error so misspelled hook variables fail at
// validation time instead of expanding to nothing.
//
// Available template functions:
//   - shq: Shell-quote a string for safe use in shell commands
func Render(tmpl string, data any) (string, error) {
	t, err := template.New("hook").Funcs(funcs).Option("missingkey=error").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute template: %w", err)
	}

	return buf.String(), nil
}
