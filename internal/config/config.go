package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/GregMSThompson/lithic-dashboard/internal/dto"
)

type Config struct {
	ProjectID          string
	LogLevel           string
	LogFormat          string
	Port               string
	FrontendURLs       []string
	LithicAPIKey       string
	LithicAPIKeySecret string
	LithicEnvironment  dto.LithicEnvironment
	LithicBaseURL      string
	DefaultCardToken   string
	UpstreamTimeout    time.Duration
	UpstreamRPS        float64
	CacheTTL           time.Duration
	MaxRecords         int
	RateLimitRPS       float64
}

func New() *Config {
	// A .env file is optional; deployed environments set real variables.
	_ = godotenv.Load()

	return &Config{
		ProjectID:          os.Getenv("PROJECTID"),
		LogLevel:           os.Getenv("LOGLEVEL"),
		LogFormat:          os.Getenv("LOGFORMAT"),
		Port:               getString("PORT", "3030"),
		FrontendURLs:       getList("FRONTENDURL", []string{"http://localhost:3000"}),
		LithicAPIKey:       os.Getenv("LITHICAPIKEY"),
		LithicAPIKeySecret: os.Getenv("LITHICAPIKEYSECRET"),
		LithicEnvironment:  getLithicEnvironment(os.Getenv("LITHICENVIRONMENT")),
		LithicBaseURL:      os.Getenv("LITHICBASEURL"),
		DefaultCardToken:   os.Getenv("LITHICCARDTOKEN"),
		UpstreamTimeout:    getDuration("UPSTREAMTIMEOUT", 15*time.Second),
		UpstreamRPS:        getFloat("UPSTREAMRPS", 5),
		CacheTTL:           getDuration("CACHETTL", 0),
		MaxRecords:         getMaxRecords(os.Getenv("MAXRECORDS")),
		RateLimitRPS:       getFloat("RATELIMITRPS", 20),
	}
}

func getLithicEnvironment(env string) dto.LithicEnvironment {
	switch strings.ToLower(env) {
	case "production":
		return dto.LithicProduction
	default: // "sandbox"
		return dto.LithicSandbox
	}
}

// getMaxRecords never lets configuration raise the ceiling above
// dto.MaxTransactions.
func getMaxRecords(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 || n > dto.MaxTransactions {
		return dto.MaxTransactions
	}
	return n
}

// ---- Helpers ----

func getString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getList(key string, fallback []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

func getDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d < 0 {
		return fallback
	}
	return d
}

func getFloat(key string, fallback float64) float64 {
	f, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil || f <= 0 {
		return fallback
	}
	return f
}
