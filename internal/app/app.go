// Package app wires configuration, storage, background jobs and the HTTP
// server together.
package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"github.com/nimbus-apps/adminpanel/internal/config"
	"github.com/nimbus-apps/adminpanel/internal/db"
	internalhttp "github.com/nimbus-apps/adminpanel/internal/http"
	"github.com/nimbus-apps/adminpanel/internal/ratelimit"
	"github.com/nimbus-apps/adminpanel/internal/session"
	"github.com/nimbus-apps/adminpanel/internal/settings"
	"github.com/nimbus-apps/adminpanel/internal/store"
)

// Migrate opens the database and runs migrations, then exits.
func Migrate(ctx context.Context, cfg *config.Config) error {
	conn, errOpen := db.Open(cfg.Database.ResolveDSN())
	if errOpen != nil {
		return errOpen
	}
	return db.Migrate(conn)
}

// RunServer boots the admin panel API server and blocks until ctx is
// cancelled.
func RunServer(ctx context.Context, cfg *config.Config) error {
	conn, errOpen := db.Open(cfg.Database.ResolveDSN())
	if errOpen != nil {
		return errOpen
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		return errMigrate
	}

	if errRefresh := settings.Refresh(ctx, conn); errRefresh != nil {
		return errRefresh
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		errPing := redisClient.Ping(pingCtx).Err()
		cancel()
		if errPing != nil {
			log.WithError(errPing).Warn("redis unreachable, login rate limiting disabled")
			redisClient = nil
		}
	}
	limiter := ratelimit.NewLoginLimiter(redisClient, 10, 15*time.Minute)

	sessions := session.NewManager(cfg.JWT.Secret, cfg.JWT.Expiry(), cfg.Production)

	otps := store.NewOTPStore(conn)
	sweeper := cron.New()
	if _, errCron := sweeper.AddFunc("@hourly", func() {
		sweepCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		removed, errSweep := otps.DeleteExpired(sweepCtx)
		if errSweep != nil {
			log.WithError(errSweep).Warn("otp sweep failed")
			return
		}
		if removed > 0 {
			log.WithField("removed", removed).Info("expired one-time codes swept")
		}
	}); errCron != nil {
		return errCron
	}
	sweeper.Start()
	defer sweeper.Stop()

	if cfg.Production {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := internalhttp.NewRouter(conn, cfg, sessions, limiter)

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", server.Addr).Info("admin panel server listening")
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if errShutdown := server.Shutdown(shutdownCtx); errShutdown != nil {
			return errShutdown
		}
		return nil
	case errServe := <-errCh:
		if errors.Is(errServe, http.ErrServerClosed) {
			return nil
		}
		return errServe
	}
}
