package ui

import (
	"strings"
	"testing"
)

func TestRenderMarkdownWithStyleDark(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		width        int
		wantContains []string
	}{
		{
			name:         "plain text",
			input:        "Hello world",
			width:        80,
			wantContains: []string{"Hello world"},
		},
		{
			name:         "markdown heading",
			input:        "# Main Title",
			width:        80,
			wantContains: []string{"Main Title"},
		},
		{
			name:         "markdown list",
			input:        "- Item 1\n- Item 2\n- Item 3",
			width:        80,
			wantContains: []string{"Item 1", "Item 2", "Item 3"},
		},
		{
			name: "diary entry body",
			input: `Walked along the canal.

**Note**: buy more coffee.

- [x] stretch
- [ ] call mum`,
			width:        80,
			wantContains: []string{"Walked along the canal", "Note", "coffee", "stretch", "call mum"},
		},
		{
			name:         "handles small width",
			input:        "This is a longer line of text that should wrap",
			width:        20,
			wantContains: []string{"This is a longer"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := stripANSI(RenderMarkdownWithStyle(tt.input, tt.width, "dark"))
			for _, want := range tt.wantContains {
				if !strings.Contains(got, want) {
					t.Errorf("output should contain %q, got:\n%s", want, got)
				}
			}
		})
	}
}

func TestRenderMarkdownEmpty(t *testing.T) {
	if got := RenderMarkdownWithStyle("", 80, "dark"); got != "" {
		t.Errorf("expected empty output, got %q", got)
	}
}

func TestRenderMarkdownUnknownStyleFallsBack(t *testing.T) {
	got := RenderMarkdownWithStyle("Some content", 80, "/no/such/style.json")
	if got != "Some content" {
		t.Errorf("expected raw content on renderer failure, got %q", got)
	}
}

func TestRenderMarkdownCachesPerStyle(t *testing.T) {
	content := "# Test"

	dark := RenderMarkdownWithStyle(content, 80, "dark")
	notty := RenderMarkdownWithStyle(content, 80, "notty")
	if dark == notty {
		t.Error("expected different output for different styles")
	}
	if _, ok := renderers[rendererKey{width: 80, style: "notty"}]; !ok {
		t.Error("expected notty renderer to be cached")
	}
	if again := RenderMarkdownWithStyle(content, 80, "dark"); again != dark {
		t.Error("cached renderer should produce identical output")
	}
}
