package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/TzzJokerzzT/article-manager/article"
	"github.com/TzzJokerzzT/article-manager/catalog"
	"github.com/TzzJokerzzT/article-manager/config"
	"github.com/TzzJokerzzT/article-manager/event"
	"github.com/TzzJokerzzT/article-manager/favorite"
	"github.com/TzzJokerzzT/article-manager/logging"
	"github.com/TzzJokerzzT/article-manager/model"
	"github.com/TzzJokerzzT/article-manager/rating"
	"github.com/TzzJokerzzT/article-manager/store"
	"github.com/TzzJokerzzT/article-manager/usecase"
)

const (
	ExitSuccess      = 0
	ExitGeneralError = 1
	ExitUsageError   = 2
	ExitDataError    = 3
)

func main() {
	app := newApp(os.Stdout, os.Stderr)

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		var ec cli.ExitCoder
		if errors.As(err, &ec) {
			os.Exit(ec.ExitCode())
		}
		os.Exit(ExitGeneralError)
	}
}

func newApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      "article-cli",
		Usage:     "Manage, rate and favorite articles from the command line",
		Version:   "0.1.0",
		Writer:    stdout,
		ErrWriter: stderr,
		// main reports errors and picks the exit code.
		ExitErrHandler: func(*cli.Context, error) {},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "YAML config file",
				EnvVars: []string{"ARTICLES_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "env-file",
				Value: ".env",
				Usage: "Optional .env file with ARTICLES_* variables",
			},
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Database file path (overrides storage.path)",
			},
			&cli.StringFlag{
				Name:    "user",
				Aliases: []string{"u"},
				Usage:   "User id for favorites and ratings (overrides user.default)",
			},
		},
		Commands: commands(),
	}
}

// env is everything a command needs, opened from the global flags.
type env struct {
	conf    *config.Config
	logger  zerolog.Logger
	catalog *catalog.Catalog
	slots   *store.Store
	svc     *usecase.Service
	user    string
}

func (e *env) Close() error {
	return e.slots.Close()
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	conf, err := config.Load(c.String("config"), c.String("env-file"))
	if err != nil {
		return nil, err
	}
	if c.IsSet("db") {
		conf.Storage.Path = c.String("db")
	}
	if c.IsSet("user") {
		conf.User.Default = c.String("user")
	}
	return conf, conf.Validate()
}

func getStore(path string) (*store.Store, error) {
	if path != ":memory:" {
		// Create directory if it doesn't exist
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	s, err := store.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return s, nil
}

func openEnv(c *cli.Context) (*env, error) {
	conf, err := loadConfig(c)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(c.App.ErrWriter, conf.Log.Level, conf.Log.Format)
	if err != nil {
		return nil, err
	}

	cat, err := catalog.Load(conf.Catalog.Path)
	if err != nil {
		return nil, err
	}

	slots, err := getStore(conf.Storage.Path)
	if err != nil {
		return nil, err
	}

	svc, err := buildService(c.Context, slots, cat, conf, logger)
	if err != nil {
		slots.Close()
		return nil, err
	}

	return &env{
		conf:    conf,
		logger:  logger,
		catalog: cat,
		slots:   slots,
		svc:     svc,
		user:    conf.User.Default,
	}, nil
}

func buildService(ctx context.Context, slots *store.Store, cat *catalog.Catalog, conf *config.Config, logger zerolog.Logger) (*usecase.Service, error) {
	articleOpts := []article.Option{article.WithLogger(logger)}
	if conf.Seed.Enabled {
		articleOpts = append(articleOpts, article.WithSeed(cat))
	}

	articles, err := article.NewStore(ctx, slots, articleOpts...)
	if err != nil {
		return nil, err
	}
	ratings, err := rating.NewAggregator(ctx, slots, rating.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	favorites, err := favorite.NewTracker(ctx, slots, favorite.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	bus := event.NewBus()
	bus.Subscribe(func(e event.Event) {
		logger.Debug().Str("kind", string(e.Kind)).Str("article_id", e.ArticleID).Str("user_id", e.UserID).Msg("event")
	})

	return usecase.New(articles, ratings, favorites,
		usecase.WithPublisher(bus),
		usecase.WithDefaultUser(conf.User.Default),
		usecase.WithLogger(logger),
	), nil
}

func outputJSON(c *cli.Context, v interface{}) error {
	encoder := json.NewEncoder(c.App.Writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// fail maps err to the exit code scripts can branch on.
func fail(err error) error {
	switch {
	case errors.Is(err, model.ErrValidation), errors.Is(err, model.ErrNotFound):
		return cli.Exit(err.Error(), ExitDataError)
	default:
		return cli.Exit(err.Error(), ExitGeneralError)
	}
}

func usage(c *cli.Context) error {
	return cli.Exit(fmt.Sprintf("Usage: article-cli %s %s", c.Command.Name, c.Command.ArgsUsage), ExitUsageError)
}
