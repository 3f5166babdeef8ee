package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lokke174/Neimark-hackathon/internal/chat"
	"github.com/lokke174/Neimark-hackathon/internal/config"
	"github.com/lokke174/Neimark-hackathon/internal/db"
	"github.com/lokke174/Neimark-hackathon/internal/httpapi"
	"github.com/lokke174/Neimark-hackathon/internal/store/redisstore"
	"github.com/lokke174/Neimark-hackathon/internal/upstream"
	"github.com/lokke174/Neimark-hackathon/pkg/log"
)

func main() {
	cfg := config.Load()

	log.Init(cfg.LogLevel, cfg.LogFormat)
	defer log.Sync()

	gdb, err := db.Connect(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Fatal("open database", err)
	}

	var rds *redisstore.Store
	if cfg.RedisAddr != "" {
		rds = redisstore.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := rds.Ping(context.Background()); err != nil {
			log.Error("redis unavailable, rate limiting disabled", err)
			_ = rds.Close()
			rds = nil
		}
	}

	provider := upstream.NewLangflowClient(cfg.LangflowEndpoint, cfg.APIKey, cfg.UpstreamTimeout)
	svc := chat.NewService(chat.NewRepo(gdb), provider)

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: httpapi.NewRouter(cfg, svc, rds),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Infof("server listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("listen", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", err)
	}
	if rds != nil {
		_ = rds.Close()
	}
}
