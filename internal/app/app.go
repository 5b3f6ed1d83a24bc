package app

import (
	"context"
	"fmt"
	"os"

	"gorm.io/gorm"

	"github.com/avaraper/calily-backend/internal/db"
	internalhttp "github.com/avaraper/calily-backend/internal/http"
	"github.com/avaraper/calily-backend/internal/observability"
	"github.com/avaraper/calily-backend/internal/pkg/logger"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Server   *internalhttp.Server
	Cfg      Config
	Repos    Repos
	Clients  Clients
	Services Services

	traceShutdown func(context.Context) error
}

func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	traceShutdown, err := observability.InitTracing(context.Background(), log)
	if err != nil {
		log.Warn("Tracing init failed (continuing)", "error", err.Error())
		traceShutdown = func(context.Context) error { return nil }
	}

	pg, err := db.NewPostgresService(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init postgres: %w", err)
	}
	if err := pg.AutoMigrateAll(); err != nil {
		log.Sync()
		return nil, fmt.Errorf("postgres automigrate: %w", err)
	}
	theDB := pg.DB()

	clients, err := wireClients(cfg, log)
	if err != nil {
		log.Sync()
		return nil, err
	}

	reposet := wireRepos(theDB, log)

	serviceset, err := wireServices(theDB, log, cfg, reposet, clients)
	if err != nil {
		log.Sync()
		return nil, err
	}

	handlerset := wireHandlers(log, serviceset)
	authMW := wireMiddleware(log, serviceset)
	server := wireRouter(log, handlerset, authMW)

	return &App{
		Log:           log,
		DB:            theDB,
		Server:        server,
		Cfg:           cfg,
		Repos:         reposet,
		Clients:       clients,
		Services:      serviceset,
		traceShutdown: traceShutdown,
	}, nil
}

func (a *App) Run() error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	return a.Server.Run(":" + a.Cfg.Port)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.traceShutdown != nil {
		_ = a.traceShutdown(context.Background())
	}
	if a.Clients.Redis != nil {
		_ = a.Clients.Redis.Close()
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
