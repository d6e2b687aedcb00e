package web

import (
	"bytes"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var (
	md = goldmark.New(goldmark.WithExtensions(extension.GFM))

	// UGCPolicy allows the formatting editors actually use (lists, links,
	// emphasis, tables) and strips scripts, styles and event handlers.
	sanitizer = bluemonday.UGCPolicy()
)

// RenderMarkdown converts a case summary written in Markdown to sanitized
// HTML. Input that fails to convert is shown escaped as plain text.
func RenderMarkdown(src string) template.HTML {
	if src == "" {
		return ""
	}

	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return template.HTML("<p>" + template.HTMLEscapeString(src) + "</p>")
	}
	return template.HTML(sanitizer.SanitizeBytes(buf.Bytes()))
}
