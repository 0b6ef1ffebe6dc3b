package mailer

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"sync"
	texttemplate "text/template"

	"github.com/yuin/goldmark"
)

// Renderer turns markdown templates into HTML wrapped in a layout.
// Parsed templates and layouts are cached; output is not.
type Renderer struct {
	fsys        fs.FS
	md          goldmark.Markdown
	bodies      map[string]*parsedBody
	layouts     map[string]*template.Template
	templateDir string
	layoutDir   string
	mu          sync.RWMutex
}

type parsedBody struct {
	metadata map[string]any
	tmpl     *texttemplate.Template
}

type RendererConfig struct {
	TemplateDir string // default "."
	LayoutDir   string // default "layouts"
}

func NewRenderer(fsys fs.FS) *Renderer {
	return NewRendererWithConfig(fsys, RendererConfig{})
}

func NewRendererWithConfig(fsys fs.FS, cfg RendererConfig) *Renderer {
	if cfg.TemplateDir == "" {
		cfg.TemplateDir = "."
	}
	if cfg.LayoutDir == "" {
		cfg.LayoutDir = "layouts"
	}
	return &Renderer{
		fsys:        fsys,
		md:          goldmark.New(goldmark.WithExtensions(ButtonExtension())),
		bodies:      make(map[string]*parsedBody),
		layouts:     make(map[string]*template.Template),
		templateDir: cfg.TemplateDir,
		layoutDir:   cfg.LayoutDir,
	}
}

// RenderResult holds the layout HTML, the processed markdown as plain text
// and the template frontmatter.
type RenderResult struct {
	Metadata map[string]any
	HTML     string
	Text     string
}

func (r *Renderer) Render(layout, name string, data any) (*RenderResult, error) {
	body, err := r.body(name)
	if err != nil {
		return nil, err
	}

	var md bytes.Buffer
	if err := body.tmpl.Execute(&md, data); err != nil {
		return nil, errors.Join(ErrRenderFailed, err)
	}

	var content bytes.Buffer
	if err := r.md.Convert(md.Bytes(), &content); err != nil {
		return nil, errors.Join(ErrRenderFailed, err)
	}

	lt, err := r.layout(layout)
	if err != nil {
		return nil, err
	}

	var out bytes.Buffer
	if err := lt.Execute(&out, map[string]any{
		"Content":  template.HTML(content.String()), //nolint:gosec // goldmark output, raw HTML disabled
		"Metadata": body.metadata,
	}); err != nil {
		return nil, errors.Join(ErrRenderFailed, err)
	}

	return &RenderResult{
		HTML:     out.String(),
		Text:     md.String(),
		Metadata: body.metadata,
	}, nil
}

func (r *Renderer) body(name string) (*parsedBody, error) {
	r.mu.RLock()
	b, ok := r.bodies[name]
	r.mu.RUnlock()
	if ok {
		return b, nil
	}

	raw, err := fs.ReadFile(r.fsys, path.Join(r.templateDir, name))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrTemplateNotFound, name, err)
	}
	parsed, err := ParseTemplate(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	tmpl, err := texttemplate.New(name).Option("missingkey=error").Parse(parsed.Body)
	if err != nil {
		return nil, errors.Join(ErrRenderFailed, err)
	}

	b = &parsedBody{metadata: parsed.Metadata, tmpl: tmpl}
	r.mu.Lock()
	r.bodies[name] = b
	r.mu.Unlock()
	return b, nil
}

func (r *Renderer) layout(name string) (*template.Template, error) {
	r.mu.RLock()
	lt, ok := r.layouts[name]
	r.mu.RUnlock()
	if ok {
		return lt, nil
	}

	raw, err := fs.ReadFile(r.fsys, path.Join(r.layoutDir, name))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrLayoutNotFound, name, err)
	}
	lt, err = template.New(name).Parse(string(raw))
	if err != nil {
		return nil, errors.Join(ErrRenderFailed, err)
	}

	r.mu.Lock()
	r.layouts[name] = lt
	r.mu.Unlock()
	return lt, nil
}
