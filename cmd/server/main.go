package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mrpaaradox/ai-monopoly/internal/cache"
	"github.com/mrpaaradox/ai-monopoly/internal/config"
	"github.com/mrpaaradox/ai-monopoly/internal/database"
	"github.com/mrpaaradox/ai-monopoly/internal/oracle"
	"github.com/mrpaaradox/ai-monopoly/internal/ws"
)

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("configuration")
	}

	ctx := context.Background()
	if err := cache.Init(ctx, cfg.RedisAddr); err != nil {
		logrus.WithError(err).Warn("redis unavailable, action history disabled")
	}
	if err := database.Init(ctx, cfg.DatabaseURL); err != nil {
		logrus.WithError(err).Warn("postgres unavailable, persistence disabled")
	}

	orc, err := oracle.New(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		logrus.WithError(err).Warn("oracle unavailable, AI seats use local heuristics")
	}
	if orc == nil {
		logrus.Info("no GEMINI_API_KEY set, AI seats use local heuristics")
	} else {
		defer orc.Close()
	}

	server, err := ws.NewServer(cfg, orc)
	if err != nil {
		logrus.WithError(err).Fatal("server setup")
	}

	mux := http.NewServeMux()
	server.Routes(mux)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logrus.Infof("listening on %s", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("http server")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("shutdown")
	}
	if database.DB != nil {
		database.DB.Close()
	}
	if cache.Rdb != nil {
		_ = cache.Rdb.Close()
	}
	logrus.Info("bye")
}
