package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/lamorinda/sportsball/models"
	"github.com/lamorinda/sportsball/storage"
)

// Fetcher returns the raw CSV export.
type Fetcher interface {
	FetchCSV(ctx context.Context) ([]byte, error)
}

// Refresher copies the spreadsheet export into the snapshot store.
type Refresher struct {
	fetcher  Fetcher
	storage  storage.Store
	interval time.Duration
}

type RefresherConfig struct {
	Fetcher  Fetcher
	Storage  storage.Store
	Interval time.Duration
}

func NewRefresher(config RefresherConfig) *Refresher {
	return &Refresher{
		fetcher:  config.Fetcher,
		storage:  config.Storage,
		interval: config.Interval,
	}
}

// Refresh fetches the export once and replaces the stored snapshot. On error
// the previous snapshot is left untouched.
func (r *Refresher) Refresh(ctx context.Context) (models.Snapshot, error) {
	data, err := r.fetcher.FetchCSV(ctx)
	if err != nil {
		return models.Snapshot{}, err
	}

	snapshot, err := r.storage.Save(ctx, data)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("saving snapshot: %w", err)
	}

	return snapshot, nil
}

// Start refreshes immediately and then on every tick until ctx is done.
func (r *Refresher) Start(ctx context.Context) {
	log.Println("Starting snapshot refresher...")

	r.refresh(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Snapshot refresher stopped")
			return
		case <-ticker.C:
			r.refresh(ctx)
		}
	}
}

func (r *Refresher) refresh(ctx context.Context) {
	snapshot, err := r.Refresh(ctx)
	if err != nil {
		log.Printf("Error refreshing schedule: %v", err)
		return
	}

	log.Printf("Refreshed schedule snapshot (%d bytes, sha256 %.12s)", snapshot.Size, snapshot.Checksum)
}
