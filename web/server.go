package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lamorinda/sportsball/calendar"
	"github.com/lamorinda/sportsball/models"
	"github.com/lamorinda/sportsball/parser"
	"github.com/lamorinda/sportsball/storage"
)

//go:embed templates/*
var templates embed.FS

// Refresher replaces the stored snapshot with a fresh export.
type Refresher interface {
	Refresh(ctx context.Context) (models.Snapshot, error)
}

type Server struct {
	router           *gin.Engine
	storage          storage.Store
	refresher        Refresher
	emitter          *calendar.Emitter
	refreshOnRequest bool
	title            string
	port             string
}

type ServerConfig struct {
	Storage   storage.Store
	Refresher Refresher
	Emitter   *calendar.Emitter
	// RefreshOnRequest fetches the export before serving every data request.
	RefreshOnRequest bool
	Title            string
	Port             string
}

type PageData struct {
	Title     string
	Divisions []DivisionView
	FetchedAt time.Time
}

type DivisionView struct {
	Name  string
	Teams []TeamView
}

type TeamView struct {
	Name string
	Href string
}

func NewServer(config ServerConfig) (*Server, error) {
	tmpl, err := template.ParseFS(templates, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}

	s := &Server{
		router:           gin.New(),
		storage:          config.Storage,
		refresher:        config.Refresher,
		emitter:          config.Emitter,
		refreshOnRequest: config.RefreshOnRequest,
		title:            config.Title,
		port:             config.Port,
	}
	if s.title == "" {
		s.title = "Sports Schedule"
	}

	s.router.Use(gin.Logger(), gin.Recovery())
	s.router.SetHTMLTemplate(tmpl)
	s.setupRoutes()

	return s, nil
}

func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleIndex)
	s.router.GET("/healthz", s.handleHealth)
	s.router.GET("/api/divisions", s.handleAPIDivisions)
	s.router.GET("/:division/:team", s.handleCalendar)
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + s.port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting web server on http://localhost:%s", s.port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("web server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down web server: %w", err)
	}
	return nil
}

func (s *Server) handleIndex(c *gin.Context) {
	snapshot, rows, err := s.loadRows(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}

	index := buildIndex(rows)

	data := PageData{
		Title:     s.title,
		FetchedAt: snapshot.FetchedAt,
	}
	for _, division := range index.Divisions() {
		view := DivisionView{Name: division}
		for _, team := range index.Teams(division) {
			view.Teams = append(view.Teams, TeamView{
				Name: team,
				Href: "/" + EncodeSegment(division) + "/" + EncodeSegment(team),
			})
		}
		data.Divisions = append(data.Divisions, view)
	}

	c.HTML(http.StatusOK, "index.html", data)
}

func (s *Server) handleCalendar(c *gin.Context) {
	division, err := DecodeSegment(c.Param("division"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	team, err := DecodeSegment(c.Param("team"))
	if err != nil {
		s.writeError(c, err)
		return
	}

	_, rows, err := s.loadRows(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}

	games := parser.FilterGames(rows, division, team)

	ics, err := s.emitter.Emit(games)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", calendarFilename(division, team)))
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", ics)
}

func (s *Server) handleAPIDivisions(c *gin.Context) {
	snapshot, rows, err := s.loadRows(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}

	index, skipped := parser.BuildIndex(rows)

	c.JSON(http.StatusOK, gin.H{
		"fetched_at":   snapshot.FetchedAt,
		"checksum":     snapshot.Checksum,
		"divisions":    index,
		"skipped_rows": len(skipped),
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	snapshot, err := s.storage.Load(c.Request.Context())
	if errors.Is(err, models.ErrNoSnapshot) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "waiting for first snapshot"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"fetched_at": snapshot.FetchedAt,
		"checksum":   snapshot.Checksum,
		"size":       snapshot.Size,
	})
}

// loadRows reads the current snapshot, refreshing it first when configured to.
func (s *Server) loadRows(ctx context.Context) (models.Snapshot, []models.GameRow, error) {
	if s.refreshOnRequest && s.refresher != nil {
		if _, err := s.refresher.Refresh(ctx); err != nil {
			return models.Snapshot{}, nil, err
		}
	}

	snapshot, err := s.storage.Load(ctx)
	if err != nil {
		return models.Snapshot{}, nil, err
	}

	rows, err := parser.ParseRows(snapshot.Data)
	if err != nil {
		return models.Snapshot{}, nil, fmt.Errorf("parsing snapshot: %w", err)
	}

	return snapshot, rows, nil
}

func buildIndex(rows []models.GameRow) models.ScheduleIndex {
	index, skipped := parser.BuildIndex(rows)
	for _, err := range skipped {
		log.Printf("Skipping malformed row: %v", err)
	}
	return index
}

func (s *Server) writeError(c *gin.Context, err error) {
	var (
		decodeErr *models.DecodeError
		fetchErr  *models.FetchError
	)

	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &decodeErr):
		status = http.StatusBadRequest
	case errors.Is(err, models.ErrNoSnapshot):
		status = http.StatusServiceUnavailable
	case errors.As(err, &fetchErr):
		status = http.StatusBadGateway
	}

	if status >= http.StatusInternalServerError {
		log.Printf("Error serving %s: %v", c.Request.URL.Path, err)
	}
	c.String(status, "%s: %v", http.StatusText(status), err)
}

var unsafeFilename = regexp.MustCompile(`[^A-Za-z0-9]+`)

func calendarFilename(division, team string) string {
	name := strings.Trim(unsafeFilename.ReplaceAllString(division+"-"+team, "-"), "-")
	if name == "" {
		name = "schedule"
	}
	return name + ".ics"
}
