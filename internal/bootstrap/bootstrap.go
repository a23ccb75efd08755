package bootstrap

import (
	"context"
	"errors"
	"log/slog"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"

	lithicclient "github.com/GregMSThompson/lithic-dashboard/internal/client/lithic"
	"github.com/GregMSThompson/lithic-dashboard/internal/config"
	"github.com/GregMSThompson/lithic-dashboard/internal/store"
	"github.com/GregMSThompson/lithic-dashboard/pkg/logger"
)

type Bootstrap struct {
	Log     *slog.Logger
	Secrets *secretmanager.Client
	Lithic  *lithicclient.Adapter
}

func Run(cfg *config.Config) (*Bootstrap, error) {
	var err error
	applicationCtx := context.Background()
	bs := new(Bootstrap)

	bs.Log = logger.New(cfg.LogLevel, logger.HandlerFor(cfg.LogFormat))
	ctx := logger.ToContext(applicationCtx, bs.Log)

	apiKey := cfg.LithicAPIKey
	if cfg.LithicAPIKeySecret != "" {
		bs.Secrets, err = InitSecretManager(ctx)
		if err != nil {
			return bs, err
		}
		apiKey, err = store.NewSecretsStore(bs.Secrets, cfg.ProjectID).GetAPIKey(ctx, cfg.LithicAPIKeySecret)
		if err != nil {
			return bs, err
		}
	}
	if apiKey == "" {
		return bs, errors.New("lithic api key is not configured: set LITHICAPIKEY or LITHICAPIKEYSECRET")
	}

	bs.Lithic = lithicclient.NewAdapter(apiKey, cfg.LithicEnvironment, lithicclient.Options{
		BaseURL: cfg.LithicBaseURL,
		Timeout: cfg.UpstreamTimeout,
		RPS:     cfg.UpstreamRPS,
	})
	bs.Log.Info("bootstrap complete",
		"lithic_env", cfg.LithicEnvironment,
		"default_card", cfg.DefaultCardToken != "",
		"cache_ttl", cfg.CacheTTL.String(),
		"max_records", cfg.MaxRecords)
	return bs, nil
}

func (bs *Bootstrap) Close() error {
	if bs.Secrets != nil {
		return bs.Secrets.Close()
	}
	return nil
}
