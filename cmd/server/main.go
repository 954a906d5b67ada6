// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jason-s-yu/majlis/internal/auth"
	"github.com/jason-s-yu/majlis/internal/cache"
	"github.com/jason-s-yu/majlis/internal/config"
	"github.com/jason-s-yu/majlis/internal/database"
	"github.com/jason-s-yu/majlis/internal/game"
	"github.com/jason-s-yu/majlis/internal/handlers"
	"github.com/jason-s-yu/majlis/internal/quizbank"
	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg := config.Load()

	logger := logrus.New()
	if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(lvl)
	} else {
		logger.Warnf("unknown LOG_LEVEL %q, using info", cfg.LogLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bank := loadBank(ctx, cfg, logger)

	storeCfg := game.StoreConfig{
		Timing:        game.DefaultTiming(),
		Hockey:        game.DefaultHockeyConfig(),
		IdleTimeout:   cfg.RoomIdleTimeout,
		SweepInterval: cfg.RoomSweepInterval,
	}
	storeCfg.Timing.StopGrace = cfg.StopGrace

	if cfg.Redis.Addr != "" {
		rdb, err := cache.ConnectRedis(ctx, cfg.Redis)
		if err != nil {
			logger.Warnf("journal disabled: %v", err)
		} else {
			defer rdb.Close()
			storeCfg.Journal = cache.NewRedisJournal(rdb, cfg.Redis)
			logger.Infof("journaling room events to %s", cfg.Redis.Addr)
		}
	}

	rooms := game.NewRoomStore(bank, storeCfg, logger)
	defer rooms.Close()

	issuer, err := auth.NewIssuer(cfg.TokenExpire)
	if err != nil {
		logger.Fatalf("session issuer: %v", err)
	}

	// allow only configured origins in production mode
	allowed := []string{"https://*", "http://*"}
	var wsOrigins []string
	if cfg.IsProduction() {
		allowed = cfg.AllowedOrigins
		wsOrigins = originHosts(cfg.AllowedOrigins)
	} else {
		wsOrigins = []string{"*"}
	}

	gs := handlers.NewGameServer(rooms, issuer, logger, wsOrigins)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           gs.Routes(allowed),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Infof("Running on %s (%s)", srv.Addr, cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server exited: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("shutdown: %v", err)
	}
}

// loadBank reads the quiz bank from the configured source. Any failure leaves an empty bank;
// the other games do not need one.
func loadBank(ctx context.Context, cfg config.Config, logger *logrus.Logger) *quizbank.Bank {
	switch cfg.QuizBankSource {
	case "postgres":
		pool, err := database.Connect(ctx, cfg.Postgres)
		if err != nil {
			logger.Warnf("quiz bank unavailable: %v", err)
			return quizbank.New(nil)
		}
		// the bank is read once at start-up
		defer pool.Close()
		return quizbank.Load(ctx, quizbank.PostgresSource{Pool: pool}, logger)
	default:
		return quizbank.Load(ctx, quizbank.FileSource{Path: cfg.QuizBankPath}, logger)
	}
}
