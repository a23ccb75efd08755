package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/GregMSThompson/lithic-dashboard/internal/bootstrap"
	"github.com/GregMSThompson/lithic-dashboard/internal/config"
	"github.com/GregMSThompson/lithic-dashboard/internal/handlers"
	"github.com/GregMSThompson/lithic-dashboard/internal/response"
	"github.com/GregMSThompson/lithic-dashboard/internal/router"
	"github.com/GregMSThompson/lithic-dashboard/internal/services"
	"github.com/GregMSThompson/lithic-dashboard/internal/store"
)

func exitOnError(message string, err error, log *slog.Logger) {
	if err != nil {
		log.Error(message, "error", err)
		os.Exit(1)
	}
}

func main() {
	// bootstrap
	cfg := config.New()
	bs, err := bootstrap.Run(cfg)
	exitOnError("bootstrap failed", err, bs.Log)
	defer bs.Close()

	// stores
	rstore := store.NewRecordStore(cfg.CacheTTL)

	// services
	tserv := services.NewTransactionsService(bs.Lithic, rstore, services.TransactionsOptions{
		DefaultCardToken: cfg.DefaultCardToken,
		MaxRecords:       cfg.MaxRecords,
	})

	// response handler
	rh := response.New(bs.Log)

	// dependancies
	deps := new(handlers.Deps)
	deps.Log = bs.Log
	deps.ResponseHandler = rh
	deps.TransactionsSvc = tserv

	// router
	r := router.NewRouter(deps, router.Options{
		AllowedOrigins: cfg.FrontendURLs,
		RateLimitRPS:   cfg.RateLimitRPS,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			bs.Log.Error("server shutdown failed", "error", err)
		}
	}()

	bs.Log.Info("server listening", "port", cfg.Port)
	err = srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		err = nil
	}
	exitOnError("server start failed", err, bs.Log)
}
