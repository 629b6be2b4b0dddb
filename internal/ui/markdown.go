package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

const (
	defaultRenderWidth = 80
	defaultRenderStyle = "dark"
)

type rendererKey struct {
	width int
	style string
}

// renderers caches glamour renderers per width and style. Rendering happens
// on a single goroutine so the map is unguarded.
var renderers = map[rendererKey]*glamour.TermRenderer{}

func rendererFor(width int, style string) (*glamour.TermRenderer, error) {
	if width < 1 {
		width = defaultRenderWidth
	}
	if style == "" {
		style = defaultRenderStyle
	}
	key := rendererKey{width: width, style: style}
	if r, ok := renderers[key]; ok {
		return r, nil
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	renderers[key] = r
	return r, nil
}

// RenderMarkdownWithStyle renders markdown content using the given glamour
// style ("dark", "light", "notty", ...). The input is returned unchanged if
// rendering fails.
func RenderMarkdownWithStyle(content string, width int, style string) string {
	if content == "" {
		return ""
	}
	r, err := rendererFor(width, style)
	if err != nil {
		return content
	}
	rendered, err := r.Render(content)
	if err != nil {
		return content
	}
	return strings.Trim(rendered, "\n")
}
