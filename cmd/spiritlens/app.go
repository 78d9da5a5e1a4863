package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/vakkila/spiritlens/internal/authority"
	"github.com/vakkila/spiritlens/internal/envstruct"
	"github.com/vakkila/spiritlens/internal/errors"
	"github.com/vakkila/spiritlens/internal/game"
	"github.com/vakkila/spiritlens/internal/sqlite"
	"github.com/vakkila/spiritlens/internal/store"
)

type config struct {
	AuthorityURL string `env:"SPIRITLENS_AUTHORITY_URL" envDefault:"http://localhost:8000/api"`
	DBPath       string `env:"SPIRITLENS_DB_PATH" envDefault:"./spiritlens.sqlite"`
	PlayerName   string `env:"SPIRITLENS_PLAYER_NAME" envDefault:"Detective"`
}

type app struct {
	cfg        config
	logger     *slog.Logger
	db         *sqlite.Database
	controller *game.Controller
}

func newApp(ctx context.Context) (*app, error) {
	var cfg config
	if err := envstruct.Populate(&cfg, os.LookupEnv); err != nil {
		return nil, errors.Wrap(err, "read configuration")
	}

	logger := newLogger()

	db, err := sqlite.NewDatabase(ctx, cfg.DBPath, logger)
	if err != nil {
		return nil, errors.Wrap(err, "open database", slog.String("path", cfg.DBPath))
	}

	st := store.NewStore(db, logger)
	client := authority.NewClient(cfg.AuthorityURL, logger)

	return &app{
		cfg:        cfg,
		logger:     logger,
		db:         db,
		controller: game.NewController(client, st, logger),
	}, nil
}

func (a *app) close() {
	if err := a.db.Close(); err != nil {
		a.logger.Warn("closing database", "error", err)
	}
}

// resume bootstraps the controller and fails with guidance when no session
// exists yet.
func (a *app) resume(ctx context.Context) error {
	outcome, err := a.controller.Bootstrap(ctx)
	switch outcome {
	case game.OutcomeResumed:
		return nil
	case game.OutcomeNeedsCreation:
		return errors.New("no active investigation, run 'spiritlens start' first")
	default:
		return errors.Wrap(err, "restore session")
	}
}
