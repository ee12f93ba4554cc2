package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/fatih/color"
	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/phonecompare/internal/app"
	"github.com/at-ishikawa/phonecompare/internal/catalog"
	"github.com/at-ishikawa/phonecompare/internal/config"
	"github.com/at-ishikawa/phonecompare/internal/database"
	"github.com/at-ishikawa/phonecompare/internal/dataset"
	"github.com/at-ishikawa/phonecompare/internal/storage"
	"github.com/at-ishikawa/phonecompare/schemas"
)

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create config loader: %w", err)
	}
	return loader.Load()
}

// session is a loaded catalog together with the resources that back it.
type session struct {
	cfg     *config.Config
	app     *app.App
	closers []io.Closer
}

func (s *session) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// openSession loads the config, opens the configured store and loads the catalog.
func openSession(ctx context.Context) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("loadConfig() > %w", err)
	}
	s := &session{cfg: cfg}

	store, err := s.openStore(ctx)
	if err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("openStore() > %w", err)
	}

	fetcher, err := dataset.NewFetcher(cfg.Dataset.Source, cfg.Dataset.Timeout(), uint(cfg.Dataset.RetryAttempts))
	if err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("dataset.NewFetcher() > %w", err)
	}
	if closer, ok := fetcher.(io.Closer); ok {
		defer func() {
			_ = closer.Close()
		}()
	}

	c, err := catalog.Load(ctx, fetcher, store, catalog.WithDefaultCategory(cfg.Catalog.DefaultCategory))
	if err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("catalog.Load() > %w", err)
	}
	s.app = app.New(c)
	return s, nil
}

func (s *session) openStore(ctx context.Context) (storage.Store, error) {
	switch s.cfg.Storage.Driver {
	case config.StorageDriverSQLite:
		db, err := database.OpenSQLite(s.cfg.Storage.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("database.OpenSQLite() > %w", err)
		}
		s.closers = append(s.closers, db)
		if err := migrate(ctx, db); err != nil {
			return nil, err
		}
		return storage.NewSQLStore(db), nil
	case config.StorageDriverMySQL:
		db, err := database.Open(s.cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("database.Open() > %w", err)
		}
		s.closers = append(s.closers, db)
		if err := migrate(ctx, db); err != nil {
			return nil, err
		}
		return storage.NewSQLStore(db), nil
	}
	return storage.NewFileStore(s.cfg.Storage.Directory), nil
}

func migrate(ctx context.Context, db *sqlx.DB) error {
	applied, err := database.Migrate(ctx, db, schemas.Migrations)
	if err != nil {
		return fmt.Errorf("database.Migrate() > %w", err)
	}
	for _, version := range applied {
		slog.Debug("applied migration", "version", version)
	}
	return nil
}

// printNotice writes a notice colored by its level.
func printNotice(w io.Writer, notice app.Notice) {
	if notice.IsZero() {
		return
	}
	c := color.New(color.Reset)
	switch notice.Level {
	case app.LevelSuccess:
		c = color.New(color.FgGreen)
	case app.LevelWarning:
		c = color.New(color.FgYellow)
	case app.LevelError:
		c = color.New(color.FgRed)
	}
	_, _ = c.Fprintln(w, notice.Message)
}
