// Package server provides the hosted ledger backend: a JSON HTTP API over a
// ledger.Store, authenticated with bearer tokens.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/theirongolddev/mealbook/internal/api"
	"github.com/theirongolddev/mealbook/internal/auth"
	"github.com/theirongolddev/mealbook/internal/ledger"
)

// Config controls the server runtime behavior.
type Config struct {
	Addr           string
	RequestsPerMin int
	EventsBuffer   int
	AllowOrigins   []string
}

type ownedEvent struct {
	owner string
	api.Event
}

// Server serves the ledger API.
type Server struct {
	cfg      Config
	store    ledger.Store
	issuer   *auth.Issuer
	log      *zap.Logger
	limiters *limiterStore

	mu          sync.RWMutex
	startedAt   time.Time
	nextEventID int64
	events      []ownedEvent
}

// New returns a server over store that trusts tokens signed by issuer.
func New(cfg Config, store ledger.Store, issuer *auth.Issuer, log *zap.Logger) *Server {
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8740"
	}
	if cfg.RequestsPerMin < 1 {
		cfg.RequestsPerMin = 120
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if len(cfg.AllowOrigins) == 0 {
		cfg.AllowOrigins = []string{"*"}
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Server{
		cfg:       cfg,
		store:     store,
		issuer:    issuer,
		log:       log,
		limiters:  newLimiterStore(cfg.RequestsPerMin),
		startedAt: time.Now(),
	}
}

// Handler builds the gin engine with all routes and middleware.
func (s *Server) Handler() http.Handler {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(s.requestLogger())
	router.Use(cors.New(cors.Config{
		AllowOrigins:  s.cfg.AllowOrigins,
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
		AllowHeaders:  []string{"Authorization", "Content-Type"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))

	router.GET("/healthz", s.handleHealth)

	v1 := router.Group("/v1")
	v1.Use(s.authMiddleware(), s.rateLimit())
	v1.GET("/auth/user", s.handleUser)
	v1.GET("/meals", s.handleSelect)
	v1.POST("/meals", s.handleInsert)
	v1.PATCH("/meals/:id", s.handleUpdate)
	v1.DELETE("/meals", s.handleDelete)
	v1.GET("/events", s.handleEvents)

	return router
}

// Run serves HTTP until ctx is canceled.
func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	s.log.Info("ledger server listening", zap.String("addr", s.cfg.Addr))

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return fmt.Errorf("ledger http server: %w", err)
	}
}

func (s *Server) publishEvent(owner string, ev api.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextEventID++
	ev.ID = s.nextEventID
	ev.Timestamp = time.Now().UTC()
	s.events = append(s.events, ownedEvent{owner: owner, Event: ev})
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}
}

// eventsFor returns owner's buffered events with an id greater than since.
func (s *Server) eventsFor(owner string, since int64) []api.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []api.Event{}
	for _, ev := range s.events {
		if ev.owner == owner && ev.ID > since {
			out = append(out, ev.Event)
		}
	}
	return out
}
