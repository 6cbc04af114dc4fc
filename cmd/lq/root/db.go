package root

import (
	"context"

	"levelquest/internal/config"
	"levelquest/internal/engine"
	"levelquest/internal/logging"
	"levelquest/internal/storage"
)

func loadConfig() (config.Config, error) {
	return config.Load(configPath)
}

func openService(ctx context.Context) (*engine.Service, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	path := cfg.DBPath
	if path == "" {
		path, err = storage.DefaultDBPath()
		if err != nil {
			return nil, nil, err
		}
	}
	db, err := storage.Open(ctx, path)
	if err != nil {
		return nil, nil, err
	}

	svc := engine.NewService(db,
		engine.WithTimezone(cfg.Location()),
		engine.WithLogger(logging.New(cfg.LogLevel)),
	)
	if err := svc.Init(ctx); err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	cleanup := func() {
		_ = db.Close()
	}
	return svc, cleanup, nil
}
