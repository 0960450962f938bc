package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/GCLCMentor/CherryCourtTimer/internal/config"
	"github.com/GCLCMentor/CherryCourtTimer/internal/domain"
)

// NATSStore keeps the record in a JetStream KeyValue bucket
type NATSStore struct {
	nc     *nats.Conn
	kv     jetstream.KeyValue
	key    string
	logger *slog.Logger
}

// NewNATSStore connects to NATS and ensures the bucket exists
func NewNATSStore(ctx context.Context, cfg config.NATSConfig, key string, logger *slog.Logger) (*NATSStore, error) {
	opts := []nats.Option{
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			logger.Error("NATS disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("NATS reconnected", "url", nc.ConnectedUrl())
		}),
		nats.ErrorHandler(func(nc *nats.Conn, sub *nats.Subscription, err error) {
			logger.Error("NATS error", "error", err)
		}),
	}

	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("create JetStream context: %w", err)
	}

	kv, err := ensureBucket(ctx, js, cfg.Bucket, logger)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("ensure bucket: %w", err)
	}

	return &NATSStore{nc: nc, kv: kv, key: key, logger: logger}, nil
}

func ensureBucket(ctx context.Context, js jetstream.JetStream, bucket string, logger *slog.Logger) (jetstream.KeyValue, error) {
	kv, err := js.KeyValue(ctx, bucket)
	if err == nil {
		return kv, nil
	}
	if !errors.Is(err, jetstream.ErrBucketNotFound) {
		return nil, err
	}

	kv, err = js.CreateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      bucket,
		Description: "Scoreboard game state",
		History:     1,
		Storage:     jetstream.FileStorage,
	})
	if err != nil {
		return nil, fmt.Errorf("create bucket: %w", err)
	}
	logger.Info("created key-value bucket", "bucket", bucket)
	return kv, nil
}

// Load implements Store
func (n *NATSStore) Load(ctx context.Context) (domain.GameState, error) {
	entry, err := n.kv.Get(ctx, n.key)
	if errors.Is(err, jetstream.ErrKeyNotFound) {
		return domain.GameState{}, domain.ErrConfigMissing
	}
	if err != nil {
		return domain.GameState{}, fmt.Errorf("%w: %v", domain.ErrUnreadable, err)
	}
	return Decode(entry.Value())
}

// Save implements Store
func (n *NATSStore) Save(ctx context.Context, state domain.GameState) error {
	raw, err := Encode(state)
	if err != nil {
		return err
	}
	if _, err := n.kv.Put(ctx, n.key, raw); err != nil {
		return fmt.Errorf("put %s: %w", n.key, err)
	}
	return nil
}

// Watch implements Watcher. The channel is closed when ctx is done.
func (n *NATSStore) Watch(ctx context.Context) (<-chan struct{}, error) {
	w, err := n.kv.Watch(ctx, n.key, jetstream.UpdatesOnly())
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", n.key, err)
	}

	changes := make(chan struct{}, 1)
	go func() {
		defer close(changes)
		defer w.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case entry, ok := <-w.Updates():
				if !ok {
					return
				}
				if entry == nil {
					continue
				}
				select {
				case changes <- struct{}{}:
				default:
				}
			}
		}
	}()

	return changes, nil
}

// Close implements Store
func (n *NATSStore) Close() error {
	n.nc.Close()
	return nil
}
