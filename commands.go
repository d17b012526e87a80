package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/lamorinda/sportsball/calendar"
	"github.com/lamorinda/sportsball/client"
	"github.com/lamorinda/sportsball/config"
	"github.com/lamorinda/sportsball/models"
	"github.com/lamorinda/sportsball/parser"
	"github.com/lamorinda/sportsball/scheduler"
	"github.com/lamorinda/sportsball/storage"
	"github.com/lamorinda/sportsball/web"
)

func loadConfig(cCtx *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(cCtx.String(configFlag))
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func newRefresher(cfg *config.Config, store storage.Store) *scheduler.Refresher {
	return scheduler.NewRefresher(scheduler.RefresherConfig{
		Fetcher:  client.NewSheetClient(cfg.Source.URL, cfg.GetFetchTimeout()),
		Storage:  store,
		Interval: cfg.GetRefreshInterval(),
	})
}

func serveAction(cCtx *cli.Context) error {
	cfg, err := loadConfig(cCtx)
	if err != nil {
		return err
	}

	store, err := storage.Open(cfg.Storage)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}
	defer store.Close()

	refresher := newRefresher(cfg, store)

	server, err := web.NewServer(web.ServerConfig{
		Storage:          store,
		Refresher:        refresher,
		Emitter:          calendar.NewEmitter(cfg.Calendar.Name),
		RefreshOnRequest: cfg.Schedule.RefreshOnRequest,
		Title:            cfg.Calendar.Name,
		Port:             cfg.Web.Port,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Printf("Source: %s", cfg.Source.URL)
	log.Printf("Snapshot backend: %s", cfg.Storage.Backend)

	if cfg.Schedule.RefreshOnRequest {
		log.Println("Refreshing the snapshot on every request")
	} else {
		log.Printf("Refresh interval: %s", cfg.Schedule.RefreshInterval)
		go refresher.Start(ctx)
	}

	if err := server.Run(ctx); err != nil {
		return err
	}

	log.Println("Shutting down sportsball...")
	return nil
}

func refreshAction(cCtx *cli.Context) error {
	cfg, err := loadConfig(cCtx)
	if err != nil {
		return err
	}

	store, err := storage.Open(cfg.Storage)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}
	defer store.Close()

	snapshot, err := newRefresher(cfg, store).Refresh(cCtx.Context)
	if err != nil {
		return err
	}

	fmt.Fprintf(cCtx.App.Writer, "Stored %d bytes (sha256 %s)\n", snapshot.Size, snapshot.Checksum)
	return nil
}

func loadRows(cCtx *cli.Context) ([]models.GameRow, error) {
	cfg, err := loadConfig(cCtx)
	if err != nil {
		return nil, err
	}

	store, err := storage.Open(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("initializing storage: %w", err)
	}
	defer store.Close()

	snapshot, err := store.Load(cCtx.Context)
	if err != nil {
		return nil, fmt.Errorf("loading snapshot (run \"sportsball refresh\" first?): %w", err)
	}

	return parser.ParseRows(snapshot.Data)
}

func divisionsAction(cCtx *cli.Context) error {
	rows, err := loadRows(cCtx)
	if err != nil {
		return err
	}

	index, skipped := parser.BuildIndex(rows)
	for _, err := range skipped {
		log.Printf("Skipping malformed row: %v", err)
	}

	return writeIndex(cCtx.App.Writer, index, cCtx.String(formatFlag))
}

func writeIndex(w io.Writer, index models.ScheduleIndex, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(index)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(index); err != nil {
			return fmt.Errorf("encoding to YAML: %w", err)
		}
		return enc.Close()
	case "text":
		for _, division := range index.Divisions() {
			fmt.Fprintln(w, division)
			for _, team := range index.Teams(division) {
				fmt.Fprintf(w, "  %s\n", team)
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func calendarAction(cCtx *cli.Context) error {
	cfg, err := loadConfig(cCtx)
	if err != nil {
		return err
	}

	rows, err := loadRows(cCtx)
	if err != nil {
		return err
	}

	games := parser.FilterGames(rows, cCtx.String(divisionFlag), cCtx.String(teamFlag))

	data, err := calendar.NewEmitter(cfg.Calendar.Name).Emit(games)
	if err != nil {
		return err
	}

	output := cCtx.String(outputFlag)
	if output == stdoutName {
		_, err = cCtx.App.Writer.Write(data)
		return err
	}

	if err := os.WriteFile(output, data, 0644); err != nil {
		return fmt.Errorf("writing calendar: %w", err)
	}
	log.Printf("Wrote %d games to %s", len(games), output)
	return nil
}
