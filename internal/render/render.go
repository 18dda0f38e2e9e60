// Package render turns page data into HTML using the embedded templates.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

// Placeholder is shown for projects without a cover image
const Placeholder = "/placeholder.png"

var partials = []string{
	"templates/layout.html",
	"templates/sidebar.html",
	"templates/grid.html",
}

var pageNames = []string{"index", "project", "about", "error"}

// Renderer executes page and fragment templates
type Renderer struct {
	base   *template.Template
	pages  map[string]*template.Template
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

// New parses the embedded templates
func New() (*Renderer, error) {
	r := &Renderer{
		pages: make(map[string]*template.Template),
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(html.WithHardWraps()),
		),
		policy: bluemonday.UGCPolicy(),
	}

	funcs := template.FuncMap{
		"markdown": r.Markdown,
		"cover":    cover,
		"inc":      func(i int) int { return i + 1 },
	}

	base, err := template.New("base").Funcs(funcs).ParseFS(templatesFS, partials...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	for _, name := range pageNames {
		t, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := t.ParseFS(templatesFS, "templates/"+name+".html"); err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", name, err)
		}
		r.pages[name] = t
	}
	r.base = base

	return r, nil
}

// Page renders a full page. Output is buffered so a failing template writes nothing.
func (r *Renderer) Page(w io.Writer, name string, data Page) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// Fragment renders one of the shared partial templates on its own
func (r *Renderer) Fragment(w io.Writer, name string, data any) error {
	var buf bytes.Buffer
	if err := r.base.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("render fragment %s: %w", name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// Markdown converts src to sanitized HTML
func (r *Renderer) Markdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(r.policy.SanitizeBytes(buf.Bytes()))
}

// Static returns the embedded CSS and JS served under /static/
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

func cover(src string) string {
	if src == "" {
		return Placeholder
	}
	return src
}
