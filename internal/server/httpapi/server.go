// Package httpapi exposes the jar vault over HTTP using a chi router.
package httpapi

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrijs2005/jarvault/internal/logging"
	"github.com/dmitrijs2005/jarvault/internal/server/models"
	"github.com/dmitrijs2005/jarvault/internal/server/services"
)

// APIPrefix is where the jar routes are mounted. /health stays at the root.
const APIPrefix = "/api"

// JarService is the part of services.JarService the handlers need.
type JarService interface {
	Upload(ctx context.Context, filename string, content io.ReadSeeker) (*models.Jar, error)
	UploadBulk(ctx context.Context, uploads []services.Upload) ([]*models.Jar, error)
	List(ctx context.Context) ([]*models.Jar, error)
	Get(ctx context.Context, id string) (*models.Jar, error)
	Open(ctx context.Context, id string) (*models.Jar, *os.File, error)
	Delete(ctx context.Context, id, password string) error
}

type HTTPServer struct {
	address         string
	jars            JarService
	logger          logging.Logger
	shutdownTimeout time.Duration
}

func NewHTTPServer(a string, l logging.Logger, js JarService, shutdownTimeout time.Duration) *HTTPServer {
	return &HTTPServer{
		address:         a,
		jars:            js,
		logger:          l.With("module", "http_server"),
		shutdownTimeout: shutdownTimeout,
	}
}

// Router builds the route table with its middleware stack.
func (s *HTTPServer) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.health)

	r.Route(APIPrefix+"/jars", func(r chi.Router) {
		r.Post("/", s.uploadJar)
		r.Get("/", s.listJars)
		r.Post("/bulk", s.uploadJarsBulk)
		r.Get("/{id}", s.getJar)
		r.Get("/{id}/download", s.downloadJar)
		r.Delete("/{id}", s.deleteJar)
	})

	return r
}

// Run listens on the configured address and serves until ctx is cancelled,
// then shuts down, letting in-flight requests finish within the timeout.
func (s *HTTPServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve is Run on an existing listener.
func (s *HTTPServer) Serve(ctx context.Context, listen net.Listener) error {
	srv := &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shCtx); err != nil {
			s.logger.Error(ctx, "HTTP server forced to shutdown", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-done
	return nil
}
