// Package server initializes and runs the vault server: it opens the
// metadata database, prepares the storage root, and serves the HTTP API and
// the gRPC health service until shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/jarvault/internal/dbx"
	"github.com/dmitrijs2005/jarvault/internal/filex"
	"github.com/dmitrijs2005/jarvault/internal/logging"
	"github.com/dmitrijs2005/jarvault/internal/server/config"
	"github.com/dmitrijs2005/jarvault/internal/server/httpapi"
	"github.com/dmitrijs2005/jarvault/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/jarvault/internal/server/services"
	"github.com/dmitrijs2005/jarvault/internal/server/storage"

	gs "github.com/dmitrijs2005/jarvault/internal/server/grpc"
)

type App struct {
	config     *config.Config
	logger     logging.Logger
	db         *sql.DB
	jarService *services.JarService
}

// NewApp prepares storage and the database (including migrations). The
// returned App owns the database handle; Run closes it on exit.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	return newApp(ctx, c, logging.NewJSONLogger(os.Stdout, slog.LevelInfo))
}

func newApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	root, err := filex.EnsureDir(c.StorageDir)
	if err != nil {
		return nil, fmt.Errorf("storage dir error: %w", err)
	}

	engine, err := storage.New(root, storage.WithMaxProbes(c.MaxNameProbes))
	if err != nil {
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	db, dialect, err := dbx.Open(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm, err := repomanager.NewSQLRepositoryManager(dialect)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	logger.Info(ctx, "storage ready", "root", engine.Root(), "dialect", string(dialect))

	js := services.NewJarService(db, rm, engine, c, logger)

	if c.DeletePassword == "" {
		logger.Warn(ctx, "delete password is not set, deletes will be refused")
	}

	return &App{config: c, logger: logger, db: db, jarService: js}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := httpapi.NewHTTPServer(app.config.EndpointAddrHTTP, app.logger, app.jarService, app.config.ShutdownTimeout)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc, s *gs.GRPCServer) {
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is cancelled, a termination signal arrives, or a
// server fails to start.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	health := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc, health)
	}()

	// Storage and database were prepared in NewApp.
	health.SetServing(true)

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
