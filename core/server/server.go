package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"meetpoll-api/core/cache"
	"meetpoll-api/core/config"
	"meetpoll-api/core/database"
	"meetpoll-api/core/logger"
	"meetpoll-api/core/middleware"
	"meetpoll-api/core/worker"

	"meetpoll-api/modules/meeting"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// CustomValidator plugs validator/v10 into echo's Validate hook
type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i any) error {
	return cv.validator.Struct(i)
}

// Run wires the whole application together and blocks until shutdown.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger.Init(cfg.App.LogLevel, cfg.App.Env == "local")

	db, err := database.InitDB(database.DatabaseConfig{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
	})
	if err != nil {
		return err
	}
	defer db.Close()

	var c cache.ICache = cache.NoopCache{}
	redisUp := false
	if redisCache, redisErr := cache.NewRedisCache(cache.RedisConfig{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}); redisErr != nil {
		logger.Warn("redis unavailable, result caching disabled", "error", redisErr)
	} else {
		c = redisCache
		redisUp = true
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = &CustomValidator{validator: validator.New()}

	mw := middleware.NewMiddleware(cfg.JWT.Secret)
	e.Use(mw.RequestLogger())
	e.Use(mw.CORS())

	e.GET("/health", func(ctx echo.Context) error {
		return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	meetingSvc := meeting.Init(e, &db, c, cfg, mw)

	var w *worker.Worker
	if redisUp {
		w = worker.New(cfg, meetingSvc)
		w.Start()
	} else {
		logger.Warn("retention cleanup disabled without redis")
	}

	go func() {
		addr := fmt.Sprintf(":%d", cfg.App.Port)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Error("server stopped", err)
		}
	}()
	logger.Info("server started", "port", cfg.App.Port, "env", cfg.App.Env)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down...")
	if w != nil {
		w.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(ctx)
}
