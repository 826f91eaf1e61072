package app

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/openvault/filevault/internal/cache"
	"github.com/openvault/filevault/internal/config"
	"github.com/openvault/filevault/internal/db"
	"github.com/openvault/filevault/internal/repository"
	"github.com/openvault/filevault/internal/service"
	"github.com/openvault/filevault/internal/storage"
)

// App holds the explicitly constructed service handles. Everything is
// initialized once at startup and torn down via Close; nothing hides in
// package globals.
type App struct {
	Cfg            *config.Config
	DB             *sqlx.DB
	Cache          *cache.Cache
	UserService    *service.UserService
	SessionService *service.SessionService
	FileService    *service.FileService
}

func New(cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %v", err)
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %v", err)
	}

	// Session cache
	sessionCache, err := cache.New(cfg.CachePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cache: %v", err)
	}

	// Repositories
	userRepository := repository.NewUserRepository(database)
	fileRepository := repository.NewFileRepository(database)

	// Blob storage
	blobStorage, err := storage.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %v", err)
	}

	// Services
	userService := service.NewUserService(userRepository, fileRepository)
	sessionService := service.NewSessionService(sessionCache, cfg.SessionTTL)
	fileService := service.NewFileService(fileRepository, blobStorage)

	return &App{
		Cfg:            cfg,
		DB:             database,
		Cache:          sessionCache,
		UserService:    userService,
		SessionService: sessionService,
		FileService:    fileService,
	}, nil
}

func (a *App) Close() error {
	if a.Cache != nil {
		err := a.Cache.Close()
		if err != nil {
			return err
		}
	}
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
