// Package web holds the HTML presentation layer: the embedded template set
// and the helpers the templates call. Handlers build view models and hand
// them to a Renderer; nothing in this package touches the database.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pkordes/legal-digest/internal/domain"
)

// SiteName is shown in the page header and title of every page.
const SiteName = "AI and Human Rights Hub"

//go:embed templates
var templateFS embed.FS

// Renderer executes named pages. Each page is parsed together with the
// shared layout so every page can define its own "content" block.
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses the embedded templates. It fails on any template error,
// so a broken template stops the server at startup instead of on first use.
func NewRenderer() (*Renderer, error) {
	base, err := template.New("").Funcs(funcs()).ParseFS(templateFS, "templates/layout/*.html")
	if err != nil {
		return nil, fmt.Errorf("web: parse layout: %w", err)
	}

	files, err := fs.Glob(templateFS, "templates/pages/*.html")
	if err != nil {
		return nil, fmt.Errorf("web: list pages: %w", err)
	}

	r := &Renderer{pages: make(map[string]*template.Template, len(files))}
	for _, file := range files {
		t, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("web: clone layout: %w", err)
		}
		if _, err := t.ParseFS(templateFS, file); err != nil {
			return nil, fmt.Errorf("web: parse %s: %w", file, err)
		}
		r.pages[strings.TrimSuffix(path.Base(file), ".html")] = t
	}
	return r, nil
}

// Render executes page name with data into w. Callers writing to an
// http.ResponseWriter should render into a buffer first so that a template
// error does not leave a half-written page behind.
func (r *Renderer) Render(w io.Writer, name string, data any) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("web: unknown page %q", name)
	}
	if err := t.ExecuteTemplate(w, "layout", data); err != nil {
		return fmt.Errorf("web: render %s: %w", name, err)
	}
	return nil
}

// Has reports whether a page with the given name exists.
func (r *Renderer) Has(name string) bool {
	_, ok := r.pages[name]
	return ok
}

func funcs() template.FuncMap {
	return template.FuncMap{
		"siteName": func() string { return SiteName },
		"date":     FormatDate,
		"datetime": func(t time.Time) string { return t.Local().Format("Jan 2, 2006 15:04") },
		"markdown": RenderMarkdown,
		"truncate": Truncate,
		"statuses": func() []domain.CaseStatus { return domain.CaseStatuses },
		"year":     func() int { return time.Now().Year() },
	}
}

// FormatDate renders an optional decision date for display.
func FormatDate(t *time.Time) string {
	if t == nil {
		return "Unknown"
	}
	return t.Format("January 2, 2006")
}

// Truncate shortens s to at most n runes, cutting at a word boundary when
// possible and appending an ellipsis.
func Truncate(n int, s string) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	cut := string(runes[:n])
	if i := strings.LastIndexByte(cut, ' '); i > n/2 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,.;:") + "…"
}
