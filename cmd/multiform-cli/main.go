package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-multiform/internal/demo"
	"github.com/goliatone/go-multiform/internal/prompt"
	"github.com/goliatone/go-multiform/pkg/config"
	"github.com/goliatone/go-multiform/pkg/controller"
)

func main() {
	viewName := flag.String("view", "comment_or_request", "demo view or config controller to submit")
	configPath := flag.String("config", "", "controller document (YAML or JSON)")
	attempts := flag.Int("attempts", 3, "invalid submissions to re-prompt before giving up")
	list := flag.Bool("list", false, "list available views and exit")
	verbose := flag.Bool("v", false, "log controller activity to stderr")
	flag.Parse()

	logger := zap.NewNop()
	if *verbose {
		dev, err := zap.NewDevelopment()
		if err != nil {
			log.Fatalf("logger: %v", err)
		}
		logger = dev
	}
	defer func() { _ = logger.Sync() }()

	views, err := loadViews(*configPath, logger)
	if err != nil {
		log.Fatalf("load views: %v", err)
	}

	if *list {
		names := make([]string, 0, len(views))
		for name := range views {
			names = append(names, name)
		}
		sort.Strings(names)
		fmt.Println(strings.Join(names, "\n"))
		return
	}

	ctrl, ok := views[*viewName]
	if !ok {
		log.Fatalf("unknown view %q (use -list)", *viewName)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	session := prompt.NewSession(ctrl, prompt.NewSurveyDriver(os.Stdout),
		prompt.WithLogger(logger),
		prompt.WithMaxAttempts(*attempts),
	)
	if _, err := session.Run(ctx); err != nil {
		if errors.Is(err, prompt.ErrAborted) {
			os.Exit(130)
		}
		log.Fatalf("submit: %v", err)
	}
}

func loadViews(path string, logger *zap.Logger) (map[string]controller.Controller, error) {
	views, err := demo.Views(logger)
	if err != nil {
		return nil, err
	}
	out := make(map[string]controller.Controller, len(views))
	for _, v := range views {
		out[v.Name] = v.Controller
	}

	if strings.TrimSpace(path) == "" {
		return out, nil
	}
	doc, err := config.LoadFile(path)
	if err != nil {
		return nil, err
	}
	built, err := doc.Build(demo.Registry(), nil, controller.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	for _, b := range built {
		out[b.Spec.Name] = b.Controller
	}
	return out, nil
}
