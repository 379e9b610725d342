package tmpl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name    string
		tmpl    string
		data    any
		want    string
		wantErr bool
	}{
		{
			name: "simple substitution",
			tmpl: "notify {{ .Event }}",
			data: map[string]string{"Event": "complete"},
			want: "notify complete",
		},
		{
			name: "multiple variables",
			tmpl: `echo "{{ .Event }} after {{ .Elapsed }}"`,
			data: map[string]string{
				"Event":   "time_up",
				"Elapsed": "45m12s",
			},
			want: `echo "time_up after 45m12s"`,
		},
		{
			name: "struct data",
			tmpl: "{{ .Event }} during {{ .Activity }}",
			data: struct {
				Event    string
				Activity string
			}{Event: "time_up", Activity: "deep work"},
			want: "time_up during deep work",
		},
		{
			name: "no variables",
			tmpl: "static string",
			data: nil,
			want: "static string",
		},
		{
			name:    "missing key errors",
			tmpl:    "{{ .Missing }}",
			data:    map[string]string{"Event": "complete"},
			wantErr: true,
		},
		{
			name:    "invalid template syntax",
			tmpl:    "{{ .Event }",
			data:    map[string]string{"Event": "complete"},
			wantErr: true,
		},
		{
			name: "empty value is valid",
			tmpl: "prefix{{ .Activity }}suffix",
			data: map[string]string{"Activity": ""},
			want: "prefixsuffix",
		},
		{
			name: "shq function with spaces",
			tmpl: "notify-send {{ .Activity | shq }}",
			data: map[string]string{"Activity": "deep work"},
			want: "notify-send 'deep work'",
		},
		{
			name: "shq function with single quotes",
			tmpl: "echo {{ .Activity | shq }}",
			data: map[string]string{"Activity": "it's done"},
			want: `echo 'it'\''s done'`,
		},
		{
			name: "shq function with double quotes",
			tmpl: "echo {{ .Activity | shq }}",
			data: map[string]string{"Activity": `say "done"`},
			want: `echo 'say "done"'`,
		},
		{
			name: "shq function with empty string",
			tmpl: "echo {{ .Activity | shq }}",
			data: map[string]string{"Activity": ""},
			want: "echo ''",
		},
		{
			name: "shq function with special chars",
			tmpl: "echo {{ .Activity | shq }}",
			data: map[string]string{"Activity": "$(whoami) && rm -rf /"},
			want: "echo '$(whoami) && rm -rf /'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Render(tt.tmpl, tt.data)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
