package config

import (
	"fmt"
	"os"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hay-kot/criterio"

	"github.com/timebox-sh/timebox/pkg/tmpl"
)

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// HookTemplateData defines available fields for hook command templates.
type HookTemplateData struct {
	Event    string
	Budget   string
	Elapsed  string
	Activity string
}

// ValidateDeep performs comprehensive validation of the configuration.
// Unlike Validate(), this checks template syntax, glob patterns, and
// file access, collecting every problem as a field error.
func (c *Config) ValidateDeep(configPath string) error {
	var errs criterio.FieldErrorsBuilder

	if configPath != "" {
		if info, err := os.Stat(configPath); err == nil && info.IsDir() {
			errs = errs.Append("config", fmt.Errorf("%s is a directory, not a file", configPath))
		}
	}

	if c.DataDir == "" {
		errs = errs.Append("data_dir", fmt.Errorf("cannot be empty"))
	} else if info, err := os.Stat(c.DataDir); err == nil && !info.IsDir() {
		errs = errs.Append("data_dir", fmt.Errorf("%s exists but is not a directory", c.DataDir))
	}

	if !isValidTheme(c.Theme) {
		errs = errs.Append("theme", fmt.Errorf("invalid theme %q, use auto, light, or dark", c.Theme))
	}

	if c.DefaultBudget < 0 {
		errs = errs.Append("default_budget", fmt.Errorf("cannot be negative"))
	}

	for i, pattern := range c.CleanupGlobs {
		if !doublestar.ValidatePattern(pattern) {
			errs = errs.Append(
				fmt.Sprintf("cleanup_globs[%d]", i),
				fmt.Errorf("invalid glob pattern %q", pattern),
			)
		}
	}

	for i, hook := range c.Hooks {
		field := fmt.Sprintf("hooks[%d]", i)

		if !isValidEvent(hook.Event) {
			errs = errs.Append(field+".event", fmt.Errorf("invalid event %q, use %s or %s", hook.Event, EventComplete, EventTimeUp))
		}

		for j, command := range hook.Commands {
			if _, err := tmpl.Render(command, HookTemplateData{}); err != nil {
				errs = errs.Append(
					fmt.Sprintf("%s.commands[%d]", field, j),
					fmt.Errorf("template error: %v", err),
				)
			}
		}
	}

	return errs.ToError()
}

// Warnings returns non-fatal configuration issues worth surfacing.
func (c *Config) Warnings() []ValidationWarning {
	var out []ValidationWarning

	for i, hook := range c.Hooks {
		if len(hook.Commands) == 0 {
			out = append(out, ValidationWarning{
				Field:   fmt.Sprintf("hooks[%d]", i),
				Message: "hook has no commands defined",
			})
		}
	}

	if len(c.CleanupGlobs) == 0 {
		out = append(out, ValidationWarning{
			Field:   "cleanup_globs",
			Message: "no disposable keys configured; a full state store cannot self-heal",
		})
	}

	return out
}
