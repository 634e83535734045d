package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"confhub/core/cache"
	"confhub/core/config"
	"confhub/core/database"
	"confhub/core/logger"
	"confhub/core/middleware"
	"confhub/core/storage"
	"confhub/modules/auth"
	"confhub/modules/notification"
	notificationservice "confhub/modules/notification/service"
	"confhub/modules/room"
	"confhub/modules/schedule"
	"confhub/modules/talk"

	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// Run loads configuration, wires every module and serves until SIGINT or
// SIGTERM.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger.Init(cfg.Logger.Level, cfg.Logger.Format)

	db, err := database.InitDB(cfg.Database)
	if err != nil {
		return err
	}

	redisCache, err := cache.NewCache(cfg.Redis)
	if err != nil {
		return err
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echomw.CORS())

	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	mw := middleware.NewMiddleware(redisCache)

	asynqOpt := asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}
	asynqClient := asynq.NewClient(asynqOpt)
	defer asynqClient.Close()

	// Modules. Order only matters for the cross-module handles.
	auth.Init(e, &db, redisCache, mw)

	v1Private := e.Group("/api/v1/private")
	notifSvc, notifRepo := notification.Init(v1Private, &db, asynqClient, mw)

	roomSvc := room.Init(e, &db, mw)
	roomRepo := room.NewRepository(&db)

	talkRepo := talk.NewRepository(&db)
	scheduleSvc, err := schedule.Init(e, &db, redisCache, mw, talkRepo, roomRepo, roomSvc, notifSvc)
	if err != nil {
		return err
	}

	store := storage.NewS3Storage(cfg.Storage)
	talk.Init(e, talkRepo, store, mw, scheduleSvc, notifSvc)

	// Background worker for queued notification delivery.
	worker := asynq.NewServer(asynqOpt, asynq.Config{Concurrency: 5})
	go func() {
		if err := worker.Run(notificationservice.Mux(notifRepo, nil)); err != nil {
			logger.Error("Server:AsynqWorker:Error:", err)
		}
	}()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	go func() {
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Error("Server:Start:Error:", err)
		}
	}()
	logger.Info("Server started", "addr", addr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down...")

	worker.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(ctx)
}
