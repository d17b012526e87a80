package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/lamorinda/sportsball/config"
	"github.com/lamorinda/sportsball/models"
)

// Store holds the latest snapshot. Save replaces the previous snapshot
// atomically: a concurrent Load observes either the old or the new data.
type Store interface {
	Save(ctx context.Context, data []byte) (models.Snapshot, error)
	Load(ctx context.Context) (models.Snapshot, error)
	Close() error
}

// Open returns the backend selected by cfg.
func Open(cfg config.StorageConfig) (Store, error) {
	switch cfg.Backend {
	case config.BackendFile:
		return NewFileStorage(cfg.SnapshotPath), nil
	case config.BackendBolt:
		return NewBoltStorage(cfg.DatabasePath)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

func newSnapshot(data []byte, fetchedAt time.Time) models.Snapshot {
	sum := sha256.Sum256(data)
	return models.Snapshot{
		Data:      data,
		FetchedAt: fetchedAt,
		Size:      len(data),
		Checksum:  hex.EncodeToString(sum[:]),
	}
}
