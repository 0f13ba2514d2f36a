package gotemplate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"reflect"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-multiform/pkg/plan"
	"github.com/goliatone/go-multiform/pkg/render/template"
)

const extension = ".html"

// Option configures an Engine.
type Option func(*config)

type config struct {
	baseDir    string
	files      fs.FS
	funcs      map[string]any
	trimBlocks bool
}

// WithBaseDir loads templates from dir on disk. Files found there shadow the
// ones provided through WithFS.
func WithBaseDir(dir string) Option {
	return func(cfg *config) {
		cfg.baseDir = strings.TrimSpace(dir)
	}
}

// WithFS loads templates from files.
func WithFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.files = files
	}
}

// WithTemplateFunc exposes funcs to every template. pongo2 filter functions
// become filters; other functions become globals callable from templates.
func WithTemplateFunc(funcs map[string]any) Option {
	return func(cfg *config) {
		for name, fn := range funcs {
			name = strings.TrimSpace(name)
			if name == "" || fn == nil {
				continue
			}
			if cfg.funcs == nil {
				cfg.funcs = make(map[string]any, len(funcs))
			}
			cfg.funcs[name] = fn
		}
	}
}

// WithTrimBlocks drops the newline after block tags and the indentation
// before them.
func WithTrimBlocks() Option {
	return func(cfg *config) {
		cfg.trimBlocks = true
	}
}

// Engine implements template.TemplateRenderer on a pongo2 template set.
// Parsed templates are cached by path.
type Engine struct {
	mu    sync.RWMutex
	set   *pongo2.TemplateSet
	cache map[string]*pongo2.Template
}

var _ template.TemplateRenderer = (*Engine)(nil)

// New builds an Engine. At least one of WithBaseDir or WithFS is required.
func New(options ...Option) (*Engine, error) {
	var cfg config
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	var loaders []pongo2.TemplateLoader
	if cfg.baseDir != "" {
		loader, err := pongo2.NewLocalFileSystemLoader(cfg.baseDir)
		if err != nil {
			return nil, fmt.Errorf("gotemplate: base dir %q: %w", cfg.baseDir, err)
		}
		loaders = append(loaders, loader)
	}
	if cfg.files != nil {
		loaders = append(loaders, pongo2.NewFSLoader(cfg.files))
	}
	if len(loaders) == 0 {
		return nil, errors.New("gotemplate: a base dir or an fs.FS is required")
	}

	set := pongo2.NewSet("multiform", loaders...)
	set.Options.TrimBlocks = cfg.trimBlocks
	set.Options.LStripBlocks = cfg.trimBlocks
	set.Globals = pongo2.Context{}

	registerBuiltinFilters()
	for name, fn := range cfg.funcs {
		if filter, ok := fn.(pongo2.FilterFunction); ok {
			if !pongo2.FilterExists(name) {
				if err := pongo2.RegisterFilter(name, filter); err != nil {
					return nil, fmt.Errorf("gotemplate: filter %q: %w", name, err)
				}
			}
			continue
		}
		if reflect.TypeOf(fn).Kind() != reflect.Func {
			return nil, fmt.Errorf("gotemplate: template func %q is %T, not a function", name, fn)
		}
		set.Globals[name] = fn
	}

	return &Engine{set: set, cache: make(map[string]*pongo2.Template)}, nil
}

// Render renders name as inline source when it contains template tags and
// as a template path otherwise.
func (e *Engine) Render(name string, data any, out ...io.Writer) (string, error) {
	if strings.Contains(name, "{{") || strings.Contains(name, "{%") {
		return e.RenderString(name, data, out...)
	}
	return e.RenderTemplate(name, data, out...)
}

// RenderTemplate renders the template at name, adding the .html extension
// when missing, and copies the output to every writer in out.
func (e *Engine) RenderTemplate(name string, data any, out ...io.Writer) (string, error) {
	if !strings.HasSuffix(name, extension) {
		name += extension
	}
	tmpl, err := e.load(name)
	if err != nil {
		return "", err
	}
	return e.execute(tmpl, name, data, out)
}

// RenderString renders inline template source.
func (e *Engine) RenderString(source string, data any, out ...io.Writer) (string, error) {
	tmpl, err := e.set.FromString(source)
	if err != nil {
		return "", fmt.Errorf("gotemplate: parse inline template: %w", err)
	}
	return e.execute(tmpl, "inline template", data, out)
}

// RegisterFilter adds a process-wide pongo2 filter. Names already taken are
// rejected.
func (e *Engine) RegisterFilter(name string, fn func(input any, param any) (any, error)) error {
	name = strings.TrimSpace(name)
	if name == "" || fn == nil {
		return errors.New("gotemplate: filter name and function are required")
	}
	if pongo2.FilterExists(name) {
		return fmt.Errorf("gotemplate: filter %q already exists", name)
	}
	return pongo2.RegisterFilter(name, func(in, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
		var arg any
		if param != nil {
			arg = param.Interface()
		}
		value, err := fn(in.Interface(), arg)
		if err != nil {
			return nil, &pongo2.Error{Sender: "filter:" + name, OrigError: err}
		}
		return pongo2.AsValue(value), nil
	})
}

// GlobalContext merges data into the values every template sees.
func (e *Engine) GlobalContext(data any) error {
	if data == nil {
		return nil
	}
	globals, err := toContext(data)
	if err != nil {
		return fmt.Errorf("gotemplate: global context: %w", err)
	}
	e.mu.Lock()
	e.set.Globals.Update(globals)
	e.mu.Unlock()
	return nil
}

func (e *Engine) load(path string) (*pongo2.Template, error) {
	e.mu.RLock()
	tmpl, ok := e.cache[path]
	e.mu.RUnlock()
	if ok {
		return tmpl, nil
	}

	tmpl, err := e.set.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("gotemplate: load %q: %w", path, err)
	}
	e.mu.Lock()
	e.cache[path] = tmpl
	e.mu.Unlock()
	return tmpl, nil
}

func (e *Engine) execute(tmpl *pongo2.Template, label string, data any, out []io.Writer) (string, error) {
	ctx, err := toContext(data)
	if err != nil {
		return "", fmt.Errorf("gotemplate: %s: %w", label, err)
	}

	var buf bytes.Buffer
	e.mu.RLock()
	err = tmpl.ExecuteWriter(ctx, &buf)
	e.mu.RUnlock()
	if err != nil {
		return "", fmt.Errorf("gotemplate: execute %s: %w", label, err)
	}

	for _, w := range out {
		if _, err := w.Write(buf.Bytes()); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

// toContext turns view data into a pongo2 context. Functions at the top
// level pass through untouched; everything else is normalised through JSON
// so templates address struct fields by their json names.
func toContext(data any) (pongo2.Context, error) {
	if data == nil {
		return pongo2.Context{}, nil
	}

	values := data
	funcs := map[string]any{}
	if m, ok := asMap(data); ok {
		plain := make(map[string]any, len(m))
		for key, value := range m {
			key = strings.TrimSpace(key)
			if key == "" {
				continue
			}
			if value != nil && reflect.TypeOf(value).Kind() == reflect.Func {
				funcs[key] = value
				continue
			}
			plain[key] = value
		}
		values = plain
	}

	raw, err := json.Marshal(values)
	if err != nil {
		return nil, err
	}
	ctx := pongo2.Context{}
	if err := json.Unmarshal(raw, &ctx); err != nil {
		return nil, fmt.Errorf("data must encode as a JSON object: %w", err)
	}
	for key, fn := range funcs {
		ctx[key] = fn
	}
	return ctx, nil
}

func asMap(data any) (map[string]any, bool) {
	switch m := data.(type) {
	case map[string]any:
		return m, true
	case pongo2.Context:
		return m, true
	default:
		return nil, false
	}
}

func registerBuiltinFilters() {
	builtins := map[string]pongo2.FilterFunction{
		"trim":        filterTrim,
		"submit_name": filterSubmitName,
	}
	for name, fn := range builtins {
		if !pongo2.FilterExists(name) {
			_ = pongo2.RegisterFilter(name, fn)
		}
	}
}

func filterTrim(in, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	return pongo2.AsValue(strings.TrimSpace(in.String())), nil
}

// filterSubmitName maps an entry name to its submission marker key:
// {{ "comment"|submit_name }} renders comment_submit.
func filterSubmitName(in, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	name := strings.TrimSpace(in.String())
	if name == "" {
		return pongo2.AsValue(""), nil
	}
	return pongo2.AsValue(plan.SubmitName(name)), nil
}
