// Package app wires the editor runtime and HTTP lifecycle.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/fotom-studio/fotom/internal/platform/timeouts"
	"github.com/fotom-studio/fotom/internal/services/editor/api/httpapi"
	"github.com/fotom-studio/fotom/internal/services/editor/catalog"
	"github.com/fotom-studio/fotom/internal/services/editor/service"
	"github.com/fotom-studio/fotom/internal/services/editor/storage/sqlite"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Config carries the runtime settings for the editor server.
type Config struct {
	// Addr is the HTTP listen address, e.g. ":8080".
	Addr string
	// DBPath is the SQLite database file path.
	DBPath string
	// JWTSecret signs and verifies user access tokens.
	JWTSecret string
	// SeedCatalog loads the bundled template catalog at startup.
	SeedCatalog bool
}

// Server hosts the editor HTTP API and storage lifecycle.
type Server struct {
	httpAddr   string
	httpServer *http.Server
	store      *sqlite.Store
}

// New creates a configured editor server.
func New(cfg Config) (*Server, error) {
	if strings.TrimSpace(cfg.Addr) == "" {
		return nil, errors.New("listen address is required")
	}
	if strings.TrimSpace(cfg.JWTSecret) == "" {
		return nil, errors.New("jwt secret is required")
	}

	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open editor store: %w", err)
	}

	if cfg.SeedCatalog {
		seedCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := catalog.Seed(seedCtx, store, nil)
		cancel()
		if err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("seed template catalog: %w", err)
		}
	}

	svc := service.New(service.Deps{
		Projects:   store,
		Templates:  store,
		PageStates: store,
	})
	identity := httpapi.NewIdentityMiddleware([]byte(cfg.JWTSecret))
	handler := httpapi.NewHandler(svc, identity).Routes()

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           otelhttp.NewHandler(handler, "editor"),
		ReadHeaderTimeout: timeouts.ReadHeader,
	}

	return &Server{
		httpAddr:   cfg.Addr,
		httpServer: httpServer,
		store:      store,
	}, nil
}

// ListenAndServe serves the HTTP API until context cancellation.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("editor server is nil")
	}
	if ctx == nil {
		return errors.New("context is required")
	}

	serveErr := make(chan error, 1)
	log.Printf("editor listening on %s", s.httpAddr)
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}

// Close releases the storage held by the server.
func (s *Server) Close() {
	if s == nil {
		return
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			log.Printf("close editor store: %v", err)
		}
	}
}
