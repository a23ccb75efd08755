package config

import (
	"testing"
	"time"

	"github.com/GregMSThompson/lithic-dashboard/internal/dto"
)

func TestNewDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "FRONTENDURL", "LITHICENVIRONMENT", "UPSTREAMTIMEOUT", "UPSTREAMRPS", "CACHETTL", "MAXRECORDS", "RATELIMITRPS", "LITHICCARDTOKEN"} {
		t.Setenv(key, "")
	}

	cfg := New()

	if cfg.Port != "3030" {
		t.Fatalf("port = %q", cfg.Port)
	}
	if len(cfg.FrontendURLs) != 1 || cfg.FrontendURLs[0] != "http://localhost:3000" {
		t.Fatalf("frontend urls = %v", cfg.FrontendURLs)
	}
	if cfg.LithicEnvironment != dto.LithicSandbox {
		t.Fatalf("environment = %q", cfg.LithicEnvironment)
	}
	if cfg.UpstreamTimeout != 15*time.Second {
		t.Fatalf("timeout = %v", cfg.UpstreamTimeout)
	}
	if cfg.CacheTTL != 0 {
		t.Fatalf("cache ttl = %v", cfg.CacheTTL)
	}
	if cfg.MaxRecords != dto.MaxTransactions {
		t.Fatalf("max records = %d", cfg.MaxRecords)
	}
}

func TestNewReadsEnvironment(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("FRONTENDURL", "http://a.test, http://b.test ,")
	t.Setenv("LITHICENVIRONMENT", "PRODUCTION")
	t.Setenv("LITHICCARDTOKEN", "card-1")
	t.Setenv("UPSTREAMTIMEOUT", "3s")
	t.Setenv("CACHETTL", "30s")
	t.Setenv("MAXRECORDS", "500")

	cfg := New()

	if cfg.Port != "8080" {
		t.Fatalf("port = %q", cfg.Port)
	}
	if len(cfg.FrontendURLs) != 2 || cfg.FrontendURLs[1] != "http://b.test" {
		t.Fatalf("frontend urls = %v", cfg.FrontendURLs)
	}
	if cfg.LithicEnvironment != dto.LithicProduction {
		t.Fatalf("environment = %q", cfg.LithicEnvironment)
	}
	if cfg.DefaultCardToken != "card-1" {
		t.Fatalf("card token = %q", cfg.DefaultCardToken)
	}
	if cfg.UpstreamTimeout != 3*time.Second || cfg.CacheTTL != 30*time.Second {
		t.Fatalf("durations = %v %v", cfg.UpstreamTimeout, cfg.CacheTTL)
	}
	if cfg.MaxRecords != 500 {
		t.Fatalf("max records = %d", cfg.MaxRecords)
	}
}

func TestMaxRecordsCannotExceedCeiling(t *testing.T) {
	if got := getMaxRecords("50000"); got != dto.MaxTransactions {
		t.Fatalf("got %d", got)
	}
	if got := getMaxRecords("nope"); got != dto.MaxTransactions {
		t.Fatalf("got %d", got)
	}
}
