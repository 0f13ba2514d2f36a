package demo

import (
	"context"

	"go.uber.org/zap"

	"github.com/goliatone/go-multiform/pkg/controller"
	"github.com/goliatone/go-multiform/pkg/form"
	"github.com/goliatone/go-multiform/pkg/plan"
)

// View is a controller with the path and template it is served under.
type View struct {
	Name       string
	Path       string
	Template   string
	Controller controller.Controller
}

// Landing pages the views redirect to.
const (
	PathQwe    = "/qwe"
	PathAsd    = "/asd"
	PathQweAsd = "/qweasd"
)

// NewRegisterAndComment builds the atomic view: both forms must validate,
// after which it answers with a JSON document instead of redirecting.
func NewRegisterAndComment(logger *zap.Logger, options ...controller.Option) (*controller.Atomic, error) {
	logger = orNop(logger)
	p, err := plan.New(
		plan.Single(plan.Descriptor{
			Name:    "register",
			Schema:  RegisterSchema(),
			Initial: map[string]any{"username": "qwe", "password": "qweqwe"},
		}),
		plan.Single(plan.Descriptor{
			Name:    "comment",
			Schema:  CommentSchema(),
			Initial: map[string]any{"name": "asd", "message": "Asd asd asd asd asd asd asd asd asd."},
			Prefix:  "asd",
		}),
	)
	if err != nil {
		return nil, err
	}

	options = append([]controller.Option{controller.WithName("register_and_comment"), controller.WithLogger(logger)}, options...)
	return controller.NewAtomic(controller.AtomicConfig{
		Plan:       p,
		SuccessURL: PathQweAsd,
		FormsValid: func(_ context.Context, forms controller.FormSet) (controller.Result, error) {
			logger.Info("forms valid", zap.Strings("forms", forms.Names()))
			return controller.JSON{Value: map[string]int{"qwe": 123, "asd": 456}}, nil
		},
	}, options...)
}

// NewCommentOrRequest builds the alternative view. A valid comment answers
// with JSON; a valid request redirects through the request success hook.
func NewCommentOrRequest(logger *zap.Logger, options ...controller.Option) (*controller.Alternative, error) {
	logger = orNop(logger)
	p, err := plan.New(
		plan.Single(plan.Descriptor{
			Name:    "comment",
			Schema:  CommentSchema(),
			Initial: map[string]any{"name": "qwe", "message": "Qwe qwe qwe qwe qwe qwe qwe qwe qwe qwe qwe."},
			Prefix:  "zxc",
		}),
		plan.Single(plan.Descriptor{Name: "request", Schema: RequestSchema()}),
	)
	if err != nil {
		return nil, err
	}

	hooks := controller.NewHooks().
		FormKwargs("request", func(context.Context, controller.Request) (controller.Kwargs, error) {
			return controller.Kwargs{Initial: map[string]any{"email": "asd@asd.asd", "request": "Asd asd asd asd."}}, nil
		}).
		OnFormValid("comment", func(_ context.Context, f form.Form) (controller.Result, error) {
			logForm(logger, "comment form valid", f)
			return controller.JSON{Value: map[string]int{"qwe": 123}}, nil
		}).
		OnFormInvalid("comment", logHook(logger, "comment form invalid")).
		OnFormValid("request", logHook(logger, "request form valid")).
		OnFormInvalid("request", logHook(logger, "request form invalid")).
		SuccessURL("request", func(context.Context) (string, error) {
			return PathQwe, nil
		})

	options = append([]controller.Option{controller.WithName("comment_or_request"), controller.WithLogger(logger)}, options...)
	return controller.NewAlternative(controller.DispatchConfig{
		Plan:        p,
		SuccessURLs: map[string]string{"comment": PathQwe, "request": PathAsd},
		Hooks:       hooks,
	}, options...)
}

// NewFirstCommentOrRequest builds the hybrid view: register and comment are
// submitted together as first_comment, or request on its own.
func NewFirstCommentOrRequest(logger *zap.Logger, options ...controller.Option) (*controller.Hybrid, error) {
	logger = orNop(logger)
	p, err := plan.New(
		plan.Group("first_comment",
			plan.Descriptor{
				Name:    "register",
				Schema:  RegisterSchema(),
				Initial: map[string]any{"username": "qwe", "password": "qweqwe"},
				Prefix:  "qwe",
			},
			plan.Descriptor{
				Name:    "comment",
				Schema:  CommentSchema(),
				Initial: map[string]any{"name": "asd", "message": "Asd asd asd asd asd asd asd asd."},
			},
		),
		plan.Single(plan.Descriptor{
			Name:    "request",
			Schema:  RequestSchema(),
			Initial: map[string]any{"email": "zxc@zxc.zxc", "request": "Zxc zxc zxc zxc zxc zxc."},
		}),
	)
	if err != nil {
		return nil, err
	}

	hooks := controller.NewHooks().
		OnFormsValid("first_comment", func(_ context.Context, forms controller.FormSet) (controller.Result, error) {
			logger.Info("first_comment forms valid", zap.Strings("forms", forms.Names()))
			return nil, nil
		}).
		OnFormValid("request", logHook(logger, "request form valid"))

	options = append([]controller.Option{controller.WithName("first_comment_or_request"), controller.WithLogger(logger)}, options...)
	return controller.NewHybrid(controller.DispatchConfig{
		Plan:        p,
		SuccessURLs: map[string]string{"first_comment": PathQweAsd, "request": PathQwe},
		Hooks:       hooks,
	}, options...)
}

// Views builds the three demo views.
func Views(logger *zap.Logger, options ...controller.Option) ([]View, error) {
	atomic, err := NewRegisterAndComment(logger, options...)
	if err != nil {
		return nil, err
	}
	alternative, err := NewCommentOrRequest(logger, options...)
	if err != nil {
		return nil, err
	}
	hybrid, err := NewFirstCommentOrRequest(logger, options...)
	if err != nil {
		return nil, err
	}
	return []View{
		{Name: "register_and_comment", Path: "/qwe-and-asd", Template: "qwe_and_asd", Controller: atomic},
		{Name: "comment_or_request", Path: "/qwe-or-asd", Template: "qwe_or_asd", Controller: alternative},
		{Name: "first_comment_or_request", Path: "/qwe-and-asd-or-zxc", Template: "qwe_and_asd_or_zxc", Controller: hybrid},
	}, nil
}

func logHook(logger *zap.Logger, msg string) controller.FormHook {
	return func(_ context.Context, f form.Form) (controller.Result, error) {
		logForm(logger, msg, f)
		return nil, nil
	}
}

func logForm(logger *zap.Logger, msg string, f form.Form) {
	fields := []zap.Field{zap.Bool("bound", f.IsBound())}
	if errs := f.Errors(); len(errs) > 0 {
		fields = append(fields, zap.Any("errors", errs))
	}
	logger.Info(msg, fields...)
}

func orNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
