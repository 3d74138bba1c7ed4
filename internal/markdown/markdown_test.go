package markdown

import (
	"strings"
	"testing"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"heading", "# Match Report", "<h1"},
		{"gfm table", "| Team | Pts |\n|---|---|\n| Lions | 42 |", "<table>"},
		{"raw html passes through", `<iframe src="https://example.com/ticker"></iframe>`, "<iframe"},
		{"fenced code highlighted", "```go\npackage main\n```", "chroma"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Render(tt.in)
			if err != nil {
				t.Fatalf("Render: %v", err)
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("output %q does not contain %q", got, tt.want)
			}
		})
	}
}
