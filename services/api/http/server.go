package http

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/02loveslollipop/yakchatja/internal/datago"
	"github.com/02loveslollipop/yakchatja/internal/logging"
	"github.com/02loveslollipop/yakchatja/internal/models"
	"github.com/02loveslollipop/yakchatja/services/api/config"
	"github.com/02loveslollipop/yakchatja/services/api/db"
)

// PharmacySource fetches pharmacy records for a region query.
type PharmacySource interface {
	FetchPharmacies(ctx context.Context, q datago.Query) ([]models.Pharmacy, error)
}

// Store is the persistence used by the handlers.
type Store interface {
	Ping(ctx context.Context) error
	RegionPharmacies(ctx context.Context, sido, sigungu string) (db.RegionSnapshot, error)
	PharmacyByID(ctx context.Context, id string) (*models.Pharmacy, error)
	ListFavorites(ctx context.Context, clientID uuid.UUID) ([]db.Favorite, error)
	PutFavorite(ctx context.Context, clientID uuid.UUID, p models.Pharmacy) (string, error)
	DeleteFavorite(ctx context.Context, clientID uuid.UUID, pharmacyID string) (bool, error)
	ToggleFavorite(ctx context.Context, clientID uuid.UUID, p models.Pharmacy) (bool, error)
}

// Server bundles router and dependencies for the REST API.
type Server struct {
	cfg    config.Config
	store  Store
	source PharmacySource
	engine *gin.Engine
	now    func() time.Time
}

// New constructs a server with routes and middleware.
func New(cfg config.Config, store Store, source PharmacySource) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(logging.GinLogger())
	engine.Use(corsMiddleware())

	if cfg.BearerToken != "" {
		engine.Use(bearerAuthMiddleware(cfg.BearerToken))
	}

	server := &Server{cfg: cfg, store: store, source: source, engine: engine, now: time.Now}
	server.registerRoutes()
	return server
}

// Engine exposes the underlying gin engine (for tests).
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// SetClock replaces the wall clock (for tests).
func (s *Server) SetClock(now func() time.Time) {
	s.now = now
}

// localNow is the current instant in the configured time zone.
func (s *Server) localNow() time.Time {
	now := s.now()
	if s.cfg.Location != nil {
		return now.In(s.cfg.Location)
	}
	return now
}

// Run starts the HTTP server and blocks until shutdown.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.cfg.ListenAddr(),
		Handler: s.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) registerRoutes() {
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	s.engine.GET("/readyz", s.handleReady)

	s.registerV1Routes()
}

func (s *Server) handleReady(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	if err := s.store.Ping(ctx); err != nil {
		log.Error().Err(err).Msg("readiness check failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func bearerAuthMiddleware(expected string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions || c.Request.URL.Path == "/healthz" {
			c.Next()
			return
		}
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
		if token != expected {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		c.Next()
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, "+clientIDHeader)

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
