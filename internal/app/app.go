package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/templui/tagbox/internal/config"
	"github.com/templui/tagbox/internal/db"
	"github.com/templui/tagbox/internal/middleware"
	"github.com/templui/tagbox/internal/repository"
	"github.com/templui/tagbox/internal/service"
	"github.com/templui/tagbox/internal/storage"
)

// Login and register attempts allowed per client IP
const (
	authRateLimit  = 5
	authRateWindow = 15 * time.Minute
)

type App struct {
	Cfg            *config.Config
	DB             *sqlx.DB
	Storage        storage.Storage
	AuthLimiter    *middleware.RateLimiter // nil when AUTH_RATE_LIMIT is off
	AuthService    *service.AuthService
	UserService    *service.UserService
	FileService    *service.FileService
	TagService     *service.TagService
	FileTagService *service.FileTagService
	UploadService  *service.UploadService
}

func New(cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	// Storage
	fileStorage, err := storage.New(cfg)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	// Repositories
	repos := repository.NewRepositories(database)
	txRunner := repository.NewTxRunner(database)

	// Services
	authService := service.NewAuthService(repos.Users, cfg.JWTSecret, cfg.JWTExpiry)
	userService := service.NewUserService(repos.Users, authService)
	tagService := service.NewTagService(repos, txRunner, cfg.DefaultTagColor)
	fileService := service.NewFileService(repos, txRunner, fileStorage)
	fileTagService := service.NewFileTagService(repos)
	uploadService := service.NewUploadService(txRunner, fileStorage, tagService)

	var authLimiter *middleware.RateLimiter
	if cfg.AuthRateLimit {
		authLimiter = middleware.NewRateLimiter(authRateLimit, authRateWindow)
	}

	return &App{
		Cfg:            cfg,
		DB:             database,
		Storage:        fileStorage,
		AuthLimiter:    authLimiter,
		AuthService:    authService,
		UserService:    userService,
		FileService:    fileService,
		TagService:     tagService,
		FileTagService: fileTagService,
		UploadService:  uploadService,
	}, nil
}

func (a *App) Close() error {
	var errs []error
	if a.AuthLimiter != nil {
		a.AuthLimiter.Stop()
	}
	if a.DB != nil {
		errs = append(errs, a.DB.Close())
	}
	return errors.Join(errs...)
}
