// Package view resolves and renders html/template views stored in an fs.FS.
//
// Views live at "<controller>/<action><ext>" where the controller part is
// the underscored controller name, so the "index" action of NotesController
// renders "notes_controller/index.html". An optional layout wraps every view
// and includes it with {{template "content" .}}.
//
// Parsed templates are cached in an LRU bounded memory cache and concurrent
// first renders of one view parse it once.
package view

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"strings"
	"time"
	"unicode"

	"github.com/dmitrymomot/actionpack/pkg/cache"
)

// Errors.
var (
	ErrTemplateNotFound = errors.New("view: template not found")
	ErrParse            = errors.New("view: failed to parse template")
	ErrExecute          = errors.New("view: failed to execute template")
)

// Data holds the values a view can reference.
type Data map[string]any

// Resolver maps a controller and action to a template path.
type Resolver interface {
	Resolve(controller, action string) (string, error)
}

// Renderer renders a template path with data.
type Renderer interface {
	Render(ctx context.Context, name string, data Data) (string, error)
}

// Engine implements Resolver and Renderer.
type Engine struct {
	fsys    fs.FS
	ext     string
	layout  string
	funcs   template.FuncMap
	parsed  *cache.Memory[*template.Template]
	group   *cache.Group[*template.Template]
	noCache bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithExtension sets the view file extension. Default ".html".
func WithExtension(ext string) Option {
	return func(e *Engine) {
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		e.ext = ext
	}
}

// WithLayout wraps every view in the template at name.
func WithLayout(name string) Option {
	return func(e *Engine) {
		e.layout = name
	}
}

// WithFuncs adds template functions. They override the built-in ones.
func WithFuncs(funcs template.FuncMap) Option {
	return func(e *Engine) {
		for k, v := range funcs {
			e.funcs[k] = v
		}
	}
}

// WithoutCache parses templates on every render. Meant for development.
func WithoutCache() Option {
	return func(e *Engine) {
		e.noCache = true
	}
}

// WithCacheSize bounds the number of parsed views kept. Default 256.
func WithCacheSize(n int) Option {
	return func(e *Engine) {
		if e.parsed != nil {
			_ = e.parsed.Close()
		}
		e.parsed = cache.NewMemory[*template.Template](cache.WithMaxEntries(n), cache.WithSweepInterval(0))
	}
}

// New creates an Engine over fsys. Call Close to release the cache.
func New(fsys fs.FS, opts ...Option) *Engine {
	e := &Engine{
		fsys:  fsys,
		ext:   ".html",
		funcs: builtinFuncs(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.parsed == nil {
		e.parsed = cache.NewMemory[*template.Template](cache.WithMaxEntries(256), cache.WithSweepInterval(0))
	}
	e.group = cache.NewGroup[*template.Template](e.parsed)
	return e
}

// Resolve returns the view path for an action and checks that it exists.
func (e *Engine) Resolve(controller, action string) (string, error) {
	name := path.Join(Underscore(controller), action+e.ext)
	if _, err := fs.Stat(e.fsys, name); err != nil {
		return "", notFound(name, err)
	}
	return name, nil
}

// Render executes the view at name, inside the layout when one is set.
func (e *Engine) Render(ctx context.Context, name string, data Data) (string, error) {
	var (
		t   *template.Template
		err error
	)
	if e.noCache {
		t, err = e.parse(name)
	} else {
		t, err = e.group.Get(ctx, name, func(context.Context) (*template.Template, time.Duration, error) {
			t, err := e.parse(name)
			return t, -1, err
		})
	}
	if err != nil {
		return "", err
	}

	entry := "content"
	if e.layout != "" {
		entry = "layout"
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, entry, data); err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrExecute, name, err)
	}
	return buf.String(), nil
}

// Close releases the template cache.
func (e *Engine) Close() error {
	return e.parsed.Close()
}

func (e *Engine) parse(name string) (*template.Template, error) {
	src, err := fs.ReadFile(e.fsys, name)
	if err != nil {
		return nil, notFound(name, err)
	}

	t, err := template.New("content").Funcs(e.funcs).Parse(string(src))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrParse, name, err)
	}

	if e.layout != "" {
		layout, err := fs.ReadFile(e.fsys, e.layout)
		if err != nil {
			return nil, notFound(e.layout, err)
		}
		if _, err := t.New("layout").Parse(string(layout)); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrParse, e.layout, err)
		}
	}
	return t, nil
}

func notFound(name string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s: %w", ErrTemplateNotFound, name, fs.ErrNotExist)
	}
	return fmt.Errorf("read template %s: %w", name, err)
}

// Underscore converts a CamelCase name to snake_case. Acronyms stay
// together ("HTTPNotes" becomes "http_notes") and "::" or "." separators
// become path segments.
func Underscore(name string) string {
	name = strings.NewReplacer("::", "/", ".", "/").Replace(name)
	runes := []rune(name)

	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && runes[i-1] != '/' && runes[i-1] != '_' {
				prevLower := unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1])
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if prevLower || (unicode.IsUpper(runes[i-1]) && nextLower) {
					b.WriteByte('_')
				}
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		if r == '-' {
			r = '_'
		}
		b.WriteRune(r)
	}
	return b.String()
}

var (
	_ Resolver = (*Engine)(nil)
	_ Renderer = (*Engine)(nil)
)
