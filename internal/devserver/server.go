package devserver

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pawmate/pawmate/internal/config"
	"github.com/pawmate/pawmate/internal/security"
)

// Server bundles the stub backend: sqlite or postgres storage, the
// token endpoint, the four resource services and the websocket feed.
type Server struct {
	cfg    config.DevServerConfig
	logger *slog.Logger
	store  *Store
	http   *http.Server
}

func NewServer(ctx context.Context, cfg config.DevServerConfig, logger *slog.Logger) (*Server, error) {
	db, err := OpenDB(cfg)
	if err != nil {
		return nil, fmt.Errorf("open devserver db: %w", err)
	}
	store := NewStore(db)

	var photos PhotoStore
	if cfg.Photos.S3Enabled {
		photos, err = NewS3PhotoStore(ctx, cfg.Photos)
	} else {
		photos, err = NewLocalPhotoStore(cfg.Photos)
	}
	if err != nil {
		return nil, fmt.Errorf("init photo store: %w", err)
	}

	jwtMgr := security.NewJWTManager(cfg.JWTIssuer, cfg.JWTAudience, cfg.AccessSecret, cfg.RefreshSecret)
	hub := NewHub(logger)
	handlers := NewHandlers(store, hub, photos, logger)
	auth := NewAuthService(store, jwtMgr, cfg.AccessTTL, cfg.RefreshTTL)

	localDir := ""
	if !cfg.Photos.S3Enabled {
		localDir = cfg.Photos.LocalDir
	}
	router := NewRouter(handlers, auth, hub, jwtMgr, localDir, logger)

	return &Server{
		cfg:    cfg,
		logger: logger,
		store:  store,
		http: &http.Server{
			Addr:              fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}, nil
}

// Store exposes the backing store, used by seeding and tests.
func (s *Server) Store() *Store { return s.store }

// Run serves until ctx is canceled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("devserver listening", "addr", s.http.Addr)
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
