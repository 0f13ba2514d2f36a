package demo

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-multiform/pkg/config"
	"github.com/goliatone/go-multiform/pkg/controller"
	"github.com/goliatone/go-multiform/pkg/httpform"
	"github.com/goliatone/go-multiform/pkg/render"
	"github.com/goliatone/go-multiform/pkg/render/template"
	"github.com/goliatone/go-multiform/pkg/render/template/gotemplate"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Templates returns the embedded page templates.
func Templates() fs.FS {
	sub, err := fs.Sub(templatesFS, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}

// NewEngine loads templates from dir, falling back to the embedded set for
// names dir does not provide. An empty dir uses the embedded set only.
func NewEngine(dir string) (*gotemplate.Engine, error) {
	opts := []gotemplate.Option{
		gotemplate.WithFS(Templates()),
		gotemplate.WithTrimBlocks(),
		gotemplate.WithTemplateFunc(render.TemplateFuncs(nil, nil)),
	}
	if dir = strings.TrimSpace(dir); dir != "" {
		opts = append(opts, gotemplate.WithBaseDir(dir))
	}
	return gotemplate.New(opts...)
}

// Options configures Mount.
type Options struct {
	Logger   *zap.Logger
	Observer controller.Observer
	Engine   template.TemplateRenderer
	// Document adds controllers built from a config document; they resolve
	// form kinds against Registry.
	Document *config.Document
	Wiring   map[string]config.Wiring

	Theme        httpform.ThemeSelector
	ThemeName    string
	ThemeVariant string
	MaxMemory    int64
}

// Link is a navigation entry on the landing pages.
type Link struct {
	Path  string `json:"path"`
	Title string `json:"title"`
}

// Mount registers the demo views, the document controllers and the landing
// pages on mux. It returns the registered links.
func Mount(mux httpform.Mux, opts Options) ([]Link, error) {
	if mux == nil {
		return nil, fmt.Errorf("demo: missing mux")
	}
	logger := orNop(opts.Logger)
	if opts.Engine == nil {
		engine, err := NewEngine("")
		if err != nil {
			return nil, err
		}
		opts.Engine = engine
	}

	var ctrlOpts []controller.Option
	if opts.Observer != nil {
		ctrlOpts = append(ctrlOpts, controller.WithObserver(opts.Observer))
	}

	views, err := Views(logger, ctrlOpts...)
	if err != nil {
		return nil, err
	}
	if opts.Document != nil {
		ctrlOpts = append(ctrlOpts, controller.WithLogger(logger))
		built, err := opts.Document.Build(Registry(), opts.Wiring, ctrlOpts...)
		if err != nil {
			return nil, err
		}
		for _, b := range built {
			path := b.Spec.Path
			if strings.TrimSpace(path) == "" {
				path = "/" + b.Spec.Name
			}
			views = append(views, View{Name: b.Spec.Name, Path: path, Template: b.Spec.Template, Controller: b.Controller})
		}
	}

	links := make([]Link, 0, len(views))
	for _, view := range views {
		fns := []httpform.OptionFn{
			httpform.WithEngine(opts.Engine),
			httpform.WithTemplate(view.Template),
			httpform.WithRoutePath(view.Path),
			httpform.WithLogger(logger.With(zap.String("view", view.Name))),
			httpform.WithMaxMemory(opts.MaxMemory),
			httpform.WithContext(func(_ *http.Request, ctx render.Context) {
				ctx["title"] = view.Name
			}),
		}
		if opts.Theme != nil {
			fns = append(fns, httpform.WithTheme(opts.Theme, opts.ThemeName, opts.ThemeVariant))
		}
		if _, err := httpform.RegisterRoutes(mux, "", view.Controller, fns...); err != nil {
			return nil, err
		}
		links = append(links, Link{Path: view.Path, Title: view.Name})
	}

	landing := map[string]string{
		PathQwe:    "qwe",
		PathAsd:    "asd",
		PathQweAsd: "qweasd",
	}
	for path, title := range landing {
		mux.Handle(path, landingHandler(opts.Engine, logger, title, links))
	}
	return links, nil
}

func landingHandler(engine template.TemplateRenderer, logger *zap.Logger, title string, links []Link) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}
		body, err := engine.RenderTemplate("landing", map[string]any{"title": title, "links": links})
		if err != nil {
			logger.Error("render landing page", zap.String("title", title), zap.Error(err))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if r.Method == http.MethodHead {
			return
		}
		_, _ = w.Write([]byte(body))
	})
}
