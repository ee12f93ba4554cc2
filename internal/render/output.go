package render

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/charmbracelet/glamour"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Terminal renders markdown for a terminal of the given width. An empty style picks one from the
// terminal background.
func Terminal(markdown string, width int, style string) (string, error) {
	options := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if style == "" {
		options = append(options, glamour.WithAutoStyle())
	} else {
		options = append(options, glamour.WithStandardStyle(style))
	}

	renderer, err := glamour.NewTermRenderer(options...)
	if err != nil {
		return "", fmt.Errorf("glamour.NewTermRenderer > %w", err)
	}
	out, err := renderer.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("renderer.Render > %w", err)
	}
	return out, nil
}

var (
	markdownConverter = goldmark.New(goldmark.WithExtensions(extension.GFM))
	htmlPolicy        = bluemonday.UGCPolicy()
)

// HTML converts markdown into sanitized HTML.
func HTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := markdownConverter.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("goldmark.Convert > %w", err)
	}
	return htmlPolicy.Sanitize(buf.String()), nil
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; margin: 2rem; }
table { border-collapse: collapse; }
th, td { border: 1px solid #ccc; padding: 0.4rem 0.8rem; text-align: left; vertical-align: top; }
th { background: #f4f4f4; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
{{.Body}}
</body>
</html>
`))

// HTMLPage converts markdown into a standalone HTML document.
func HTMLPage(title, markdown string) ([]byte, error) {
	body, err := HTML(markdown)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, struct {
		Title string
		Body  template.HTML
	}{
		Title: title,
		// sanitized by bluemonday above
		Body: template.HTML(body),
	}); err != nil {
		return nil, fmt.Errorf("pageTemplate.Execute > %w", err)
	}
	return buf.Bytes(), nil
}
