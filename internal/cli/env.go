package cli

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/netlab/netlabctl/internal/api"
	"github.com/netlab/netlabctl/internal/config"
	"github.com/netlab/netlabctl/internal/logging"
	"github.com/netlab/netlabctl/internal/session"
	"github.com/netlab/netlabctl/internal/storage"
)

// env is everything a command needs, built from config and the global flags.
type env struct {
	cfg    config.Config
	logger *zap.Logger
	store  *session.Store
	client *api.Client

	closeStorage func() error
}

func loadConfig(opts *RootOptions) (config.Config, error) {
	if opts.ConfigPath != "" {
		return config.LoadFile(opts.ConfigPath)
	}
	return config.Load()
}

func openEnv(opts *RootOptions) (*env, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}
	if opts.Ephemeral {
		cfg.Storage.Backend = config.BackendMemory
	}

	if _, err := logging.ParseLevel(cfg.Log.Level); err != nil {
		return nil, err
	}
	// The log file and the sqlite file usually share a data dir. When it is not
	// writable the client still runs, without logs and with a session-only identity.
	logger, err := logging.New(logging.Options{Path: cfg.Log.Path, Level: cfg.Log.Level, Verbose: opts.Verbose})
	if err != nil {
		logger = zap.NewNop()
	}

	backend, closeStorage, err := storage.Open(cfg.Storage)
	if err != nil {
		logger.Warn("storage unavailable, identity is session-only", zap.String("backend", cfg.Storage.Backend), zap.Error(err))
		backend, closeStorage = nil, func() error { return nil }
	} else {
		logger.Debug("storage opened", zap.String("backend", cfg.Storage.Backend), zap.String("path", cfg.Storage.Path))
	}

	return &env{
		cfg:    cfg,
		logger: logger,
		store:  session.New(backend, session.WithKey(cfg.Storage.Key), session.WithLogger(logger)),
		client: api.New(api.Options{
			BaseURL: cfg.API.BaseURL,
			Timeout: cfg.API.Timeout,
			Logger:  logger,
		}),
		closeStorage: closeStorage,
	}, nil
}

func (e *env) Close() error {
	err := e.closeStorage()
	// Sync fails on ttys and pipes.
	_ = e.logger.Sync()
	if err != nil {
		return fmt.Errorf("close storage: %w", err)
	}
	return nil
}
