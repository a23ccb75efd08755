package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/GregMSThompson/lithic-dashboard/internal/bootstrap"
	"github.com/GregMSThompson/lithic-dashboard/internal/commands"
	"github.com/GregMSThompson/lithic-dashboard/internal/config"
	"github.com/GregMSThompson/lithic-dashboard/internal/services"
	"github.com/GregMSThompson/lithic-dashboard/internal/store"
)

func main() {
	cfg := config.New()
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}

	newService := func(ctx context.Context) (commands.Service, io.Closer, error) {
		bs, err := bootstrap.Run(cfg)
		if err != nil {
			return nil, bs, err
		}
		slog.SetDefault(bs.Log)
		rstore := store.NewRecordStore(cfg.CacheTTL)
		tserv := services.NewTransactionsService(bs.Lithic, rstore, services.TransactionsOptions{
			DefaultCardToken: cfg.DefaultCardToken,
			MaxRecords:       cfg.MaxRecords,
		})
		return tserv, bs, nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := commands.Execute(ctx, newService, os.Args[1:]); err != nil {
		stop()
		os.Exit(1)
	}
}
