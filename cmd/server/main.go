package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"supply_chain/internal/auth"
	"supply_chain/internal/config"
	"supply_chain/internal/controllers"
	"supply_chain/internal/logger"
	"supply_chain/internal/middleware"
	"supply_chain/internal/models"
	"supply_chain/internal/repository"
	"supply_chain/internal/routes"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}

	// Initialize structured logging to file
	accessLog := logger.Setup(logger.Options{
		File:       cfg.Log.File,
		Level:      cfg.Log.Level,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
	})
	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := config.InitDB(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("database unavailable")
	}

	var revoker auth.Revoker = auth.NopRevoker{}
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			logrus.WithError(err).Fatal("redis unavailable")
		}
		defer rdb.Close()
		revoker = auth.NewRedisRevoker(rdb, "")
		logrus.WithField("addr", cfg.Redis.Addr).Info("session revocation backed by redis")
	}

	managers := repository.NewManagerRepository(db)
	drivers := repository.NewDriverRepository(db)
	hasher := auth.NewPasswordHasher(cfg.BcryptCost)
	sessions := auth.NewSessionManager(auth.SessionConfig{
		Secret:     cfg.Session.Secret,
		TTL:        cfg.Session.TTL,
		CookieName: cfg.Session.CookieName,
		Secure:     cfg.Production(),
	}, revoker)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	feed := controllers.NewOrderHub(cfg.Server.AllowedOrigins)
	defer feed.Close()

	handler := routes.NewHandler(routes.Dependencies{
		Managers:    managers,
		Drivers:     drivers,
		Stores:      repository.NewGormRepository[models.Store](db),
		Routes:      repository.NewGormRepository[models.Route](db),
		Orders:      repository.NewGormRepository[models.Orders](db),
		ManagerAuth: auth.NewService(auth.KindManager, managers, hasher, sessions),
		DriverAuth:  auth.NewService(auth.KindDriver, drivers, hasher, sessions),
		Sessions:    sessions,
		CSRF:        auth.NewCSRF(cfg.Session.Secret),
		Hasher:      hasher,
		Feed:        feed,
		Metrics:     middleware.NewMetrics(reg),
		AccessLog:   accessLog,
	}, cfg.Server.AllowedOrigins)

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logrus.WithField("addr", srv.Addr).Info("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Fatal("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.WithError(err).Error("forced shutdown")
	}
}
