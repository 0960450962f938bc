package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/GCLCMentor/CherryCourtTimer/internal/config"
	"github.com/GCLCMentor/CherryCourtTimer/internal/domain"
)

// Store persists the single game state record.
//
// Load returns domain.ErrConfigMissing when nothing is stored under the key and
// an error wrapping domain.ErrUnreadable when the stored value cannot be used.
// Save overwrites the whole record; readers never observe a partial write.
type Store interface {
	Load(ctx context.Context) (domain.GameState, error)
	Save(ctx context.Context, state domain.GameState) error
	Close() error
}

// Watcher is implemented by stores that can signal changes to the record.
// Each receive on the returned channel means the record may have changed.
type Watcher interface {
	Watch(ctx context.Context) (<-chan struct{}, error)
}

// Open builds the store selected by the configuration
func Open(ctx context.Context, cfg config.StoreConfig, logger *slog.Logger) (Store, error) {
	logger = logger.With("backend", cfg.Backend, "key", cfg.Key)

	switch cfg.Backend {
	case "memory":
		logger.Info("using in-memory store")
		return NewMemoryStore(cfg.Key), nil
	case "file", "":
		logger.Info("using file store", "dir", cfg.Dir)
		return NewFileStore(cfg.Dir, cfg.Key)
	case "nats":
		logger.Info("using NATS key-value store", "url", cfg.NATS.URL, "bucket", cfg.NATS.Bucket)
		return NewNATSStore(ctx, cfg.NATS, cfg.Key, logger)
	case "postgres":
		logger.Info("using postgres store", "host", cfg.Postgres.Host, "table", cfg.Postgres.Table)
		return NewPostgresStore(ctx, cfg.Postgres, cfg.Key)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
