package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lamorinda/sportsball/models"
	bolt "go.etcd.io/bbolt"
)

const (
	bucketSnapshots = "snapshots"

	keyLatest     = "latest"
	keyLatestMeta = "latest_meta"
)

type BoltStorage struct {
	db *bolt.DB
}

func NewBoltStorage(dbPath string) (*BoltStorage, error) {
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketSnapshots))
		if err != nil {
			return fmt.Errorf("creating snapshots bucket: %w", err)
		}
		return nil
	})

	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStorage{db: db}, nil
}

func (s *BoltStorage) Close() error {
	return s.db.Close()
}

// Save replaces the data and metadata in one write transaction.
func (s *BoltStorage) Save(ctx context.Context, data []byte) (models.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return models.Snapshot{}, err
	}

	snapshot := newSnapshot(data, time.Now())

	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketSnapshots))

		meta, err := json.Marshal(snapshot)
		if err != nil {
			return fmt.Errorf("marshaling snapshot metadata: %w", err)
		}

		if err := b.Put([]byte(keyLatest), data); err != nil {
			return fmt.Errorf("storing snapshot: %w", err)
		}

		return b.Put([]byte(keyLatestMeta), meta)
	})
	if err != nil {
		return models.Snapshot{}, err
	}

	return snapshot, nil
}

func (s *BoltStorage) Load(ctx context.Context) (models.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return models.Snapshot{}, err
	}

	var snapshot models.Snapshot
	found := false

	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketSnapshots))
		data := b.Get([]byte(keyLatest))

		if data == nil {
			return nil
		}
		found = true

		if meta := b.Get([]byte(keyLatestMeta)); meta != nil {
			if err := json.Unmarshal(meta, &snapshot); err != nil {
				return fmt.Errorf("unmarshaling snapshot metadata: %w", err)
			}
		}

		// Values returned by bolt are only valid inside the transaction.
		snapshot.Data = append([]byte(nil), data...)
		return nil
	})

	if err != nil {
		return models.Snapshot{}, err
	}

	if !found {
		return models.Snapshot{}, models.ErrNoSnapshot
	}

	if snapshot.Checksum == "" {
		snapshot = newSnapshot(snapshot.Data, snapshot.FetchedAt)
	}

	return snapshot, nil
}
