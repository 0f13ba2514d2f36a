package httpform

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-multiform/pkg/render"
	"github.com/goliatone/go-multiform/pkg/render/template"
)

const (
	defaultRoutePath    = "/"
	defaultTemplate     = "forms"
	defaultMaxMemory    = 32 << 20
	defaultMaxBodyBytes = 10 << 20
	requestIDHeader     = "X-Request-ID"
)

// GuardFunc rejects requests before they reach the controller. Returning an
// HTTPError selects the status code; other errors map to 403.
type GuardFunc func(r *http.Request) error

// ContextFunc adds page data to the template context of one request.
type ContextFunc func(r *http.Request, ctx render.Context)

// Options configures the handler.
type Options struct {
	RoutePath string
	// Template is the page template name, or the theme template key when a
	// ThemeSelector is configured.
	Template       string
	Engine         template.TemplateRenderer
	Builder        *render.Builder
	MaxMemory      int64
	MaxBodyBytes   int64
	RedirectStatus int
	Guard          GuardFunc
	Context        ContextFunc
	Logger         *zap.Logger

	Theme        ThemeSelector
	ThemeName    string
	ThemeVariant string
}

// OptionFn mutates Options.
type OptionFn func(*Options)

// DefaultOptions returns the defaults applied by NewOptions.
func DefaultOptions() Options {
	return Options{
		RoutePath:      defaultRoutePath,
		Template:       defaultTemplate,
		MaxMemory:      defaultMaxMemory,
		MaxBodyBytes:   defaultMaxBodyBytes,
		RedirectStatus: http.StatusFound,
		Logger:         zap.NewNop(),
	}
}

// NewOptions applies fns over the defaults and restores defaults for zeroed
// values.
func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	if strings.TrimSpace(opts.RoutePath) == "" {
		opts.RoutePath = defaultRoutePath
	}
	if strings.TrimSpace(opts.Template) == "" {
		opts.Template = defaultTemplate
	}
	if opts.MaxMemory <= 0 {
		opts.MaxMemory = defaultMaxMemory
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = defaultMaxBodyBytes
	}
	if opts.RedirectStatus < 300 || opts.RedirectStatus > 399 {
		opts.RedirectStatus = http.StatusFound
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Builder == nil {
		opts.Builder = render.NewBuilder()
	}
	return opts
}

// WithRoutePath sets the path RegisterRoutes mounts the handler on.
func WithRoutePath(path string) OptionFn {
	return func(o *Options) {
		o.RoutePath = path
	}
}

// WithTemplate sets the page template name or theme template key.
func WithTemplate(name string) OptionFn {
	return func(o *Options) {
		o.Template = strings.TrimSpace(name)
	}
}

// WithEngine sets the template engine used for Render results.
func WithEngine(engine template.TemplateRenderer) OptionFn {
	return func(o *Options) {
		o.Engine = engine
	}
}

// WithBuilder sets the render context builder.
func WithBuilder(builder *render.Builder) OptionFn {
	return func(o *Options) {
		o.Builder = builder
	}
}

// WithMaxMemory bounds the multipart bytes kept in memory; the rest spills
// to temporary files.
func WithMaxMemory(n int64) OptionFn {
	return func(o *Options) {
		o.MaxMemory = n
	}
}

// WithMaxBodyBytes bounds the request body size. Larger bodies get 413.
func WithMaxBodyBytes(n int64) OptionFn {
	return func(o *Options) {
		o.MaxBodyBytes = n
	}
}

// WithRedirectStatus overrides the 302 used for Redirect results.
func WithRedirectStatus(code int) OptionFn {
	return func(o *Options) {
		o.RedirectStatus = code
	}
}

// WithGuard installs a pre-controller check.
func WithGuard(guard GuardFunc) OptionFn {
	return func(o *Options) {
		o.Guard = guard
	}
}

// WithContext installs a ContextFunc.
func WithContext(fn ContextFunc) OptionFn {
	return func(o *Options) {
		o.Context = fn
	}
}

// WithLogger sets the logger. Request logs carry a request_id field.
func WithLogger(logger *zap.Logger) OptionFn {
	return func(o *Options) {
		o.Logger = logger
	}
}

// WithTheme selects page templates and theme data through selector.
func WithTheme(selector ThemeSelector, name, variant string) OptionFn {
	return func(o *Options) {
		o.Theme = selector
		o.ThemeName = strings.TrimSpace(name)
		o.ThemeVariant = strings.TrimSpace(variant)
	}
}
