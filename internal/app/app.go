// Package app wires configuration, storage and HTTP routes into a server.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/goliatone/go-formbuilder/internal/builder"
	"github.com/goliatone/go-formbuilder/internal/config"
	"github.com/goliatone/go-formbuilder/internal/database"
	"github.com/goliatone/go-formbuilder/internal/forms"
	"github.com/goliatone/go-formbuilder/internal/middleware"
	"github.com/goliatone/go-formbuilder/internal/session"
	"github.com/goliatone/go-formbuilder/internal/store"
	"github.com/goliatone/go-formbuilder/pkg/components"
	"github.com/goliatone/go-formbuilder/pkg/drafts"
	"github.com/goliatone/go-formbuilder/pkg/renderers/html"
)

const stylesheetPath = "/assets/" + html.StylesheetName

// App holds all application dependencies.
type App struct {
	cfg    *config.AppConfig
	router *gin.Engine
	db     *gorm.DB
	redis  *redis.Client
	logger *zap.Logger
}

// New initializes the application: config → DB → Redis → routes.
func New(logger *zap.Logger, cfg *config.AppConfig) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &App{cfg: cfg, logger: logger}

	st, err := a.openStore()
	if err != nil {
		return nil, err
	}
	draftStore, err := a.openDrafts()
	if err != nil {
		a.Shutdown()
		return nil, err
	}

	if cfg.IsDev() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))
	router.Use(cors.New(corsConfig(cfg)))
	a.router = router

	if err := a.registerRoutes(st, draftStore); err != nil {
		a.Shutdown()
		return nil, err
	}
	return a, nil
}

func (a *App) openStore() (store.Store, error) {
	if a.cfg.Database.Driver == "memory" {
		a.logger.Warn("using in-memory store, data is lost on restart")
		return store.NewMemory(), nil
	}
	db, err := database.Connect(a.cfg, true)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}
	a.db = db
	return store.NewGorm(db), nil
}

// openDrafts uses redis when configured so drafts survive restarts and are
// shared between instances.
func (a *App) openDrafts() (drafts.Store, error) {
	if a.cfg.Redis.URL == "" {
		return drafts.NewMemory(a.cfg.Drafts.TTL), nil
	}
	opts, err := redis.ParseURL(a.cfg.Redis.URL)
	if err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}
	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: %w", err)
	}
	a.redis = client
	return drafts.NewRedis(client, a.cfg.Drafts.TTL)
}

func (a *App) registerRoutes(st store.Store, draftStore drafts.Store) error {
	cfg := a.cfg
	registry := components.NewDefaultRegistry(components.WithPolicy(cfg.ComponentPolicy()))
	admin := middleware.NewAdmin(cfg.AdminPassword)
	if !admin.Enabled() {
		a.logger.Warn("admin_password is empty, admin endpoints are disabled")
	}
	identity := session.Hourly{}

	page, err := html.New(html.WithStrategies(registry), html.WithStylesheet(stylesheetPath))
	if err != nil {
		return fmt.Errorf("renderer: %w", err)
	}

	svc := forms.NewService(st, registry,
		forms.WithPolicy(cfg.ValidationPolicy()),
		forms.WithStrictContract(cfg.Policy.StrictContract),
		forms.WithAdmin(admin),
		forms.WithBaseURL(cfg.BaseURL),
		forms.WithLogger(a.logger),
	)
	formsHandler, err := forms.NewHandler(svc, identity, admin, page, a.logger)
	if err != nil {
		return err
	}
	builderHandler := builder.NewHandler(builder.NewManager(registry, 0), svc, identity, draftStore, page, a.logger)

	var limiter redis.Cmdable
	if a.redis != nil {
		limiter = a.redis
	}

	root := &a.router.RouterGroup
	api := a.router.Group("/api")
	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	formsHandler.RegisterRoutes(root, api, middleware.RateLimit(limiter, cfg.RateLimit.SubmitPerMinute, "submit", a.logger))
	builderHandler.RegisterRoutes(root, api)
	a.router.StaticFS("/assets", http.FS(html.AssetsFS()))
	return nil
}

// Addr returns the listen address.
func (a *App) Addr() string { return fmt.Sprintf(":%d", a.cfg.Port) }

// Router returns the HTTP handler.
func (a *App) Router() http.Handler { return a.router }

// Shutdown closes the redis and database connections.
func (a *App) Shutdown() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("close redis", zap.Error(err))
		}
	}
	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}
