package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"metromap/pkg/editor"
	"metromap/pkg/surface"
)

//go:embed templates/*.html
var templateFS embed.FS

// DefaultMapImage is the schematic the overlay is drawn on.
const DefaultMapImage = "/static/map-light.png"

// DefaultRefresh is how often the map page reloads its frame.
const DefaultRefresh = 10 * time.Second

// PageView is the full map page.
type PageView struct {
	FrameView
	RefreshMillis int64
}

// Renderer executes the embedded page templates.
type Renderer struct {
	tmpl    *template.Template
	opts    Options
	refresh time.Duration
}

// New parses the embedded templates.
func New(opts Options, refresh time.Duration) (*Renderer, error) {
	if opts.MapImage == "" {
		opts.MapImage = DefaultMapImage
	}
	if refresh <= 0 {
		refresh = DefaultRefresh
	}
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl, opts: opts, refresh: refresh}, nil
}

// Page writes the full map page for a frame.
func (r *Renderer) Page(w io.Writer, f surface.Frame) error {
	return r.tmpl.ExecuteTemplate(w, "map.html", PageView{
		FrameView:     BuildFrame(f, r.opts),
		RefreshMillis: r.refresh.Milliseconds(),
	})
}

// Frame writes only the map fragment, for in-place refresh.
func (r *Renderer) Frame(w io.Writer, f surface.Frame) error {
	return r.tmpl.ExecuteTemplate(w, "frame", BuildFrame(f, r.opts))
}

// Editor writes the full editor page.
func (r *Renderer) Editor(w io.Writer, st editor.State) error {
	return r.tmpl.ExecuteTemplate(w, "editor.html", BuildEditor(st, r.opts.MapImage))
}

// EditorFragment writes the editor body, for in-place refresh.
func (r *Renderer) EditorFragment(w io.Writer, st editor.State) error {
	return r.tmpl.ExecuteTemplate(w, "editor", BuildEditor(st, r.opts.MapImage))
}

// EditorDisabled writes the notice shown when editing is switched off.
func (r *Renderer) EditorDisabled(w io.Writer) error {
	return r.tmpl.ExecuteTemplate(w, "disabled.html", nil)
}
