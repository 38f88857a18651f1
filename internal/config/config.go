package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
)

// AppConfig holds the environment configuration shared by the desktop game
// and the fundraiser web server. Fields unused by one binary are simply
// ignored by it.
type AppConfig struct {
	// Engine.
	StockfishPath string
	PresetFile    string

	// Web server.
	Port         int
	PublicDomain string

	// Stripe.
	StripeSecretKey     string
	StripeWebhookSecret string
	EnableSimulation    bool

	// Game launcher.
	GameBinary string

	// Optional payment-session store backend.
	RedisURL string
}

// Load reads the configuration from the environment. Stripe credentials are
// only required when the simulation mode is disabled.
func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		Port:             4242,
		PublicDomain:     "http://localhost:4242",
		EnableSimulation: true,
		GameBinary:       "./chesschamp",
	}

	cfg.StockfishPath = strings.TrimSpace(os.Getenv("STOCKFISH_PATH"))
	if cfg.StockfishPath == "" {
		cfg.StockfishPath = "stockfish"
	}
	cfg.PresetFile = strings.TrimSpace(os.Getenv("CHESSCHAMP_PRESETS"))

	if v := strings.TrimSpace(os.Getenv("PORT")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Port = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("PUBLIC_DOMAIN")); v != "" {
		cfg.PublicDomain = strings.TrimRight(v, "/")
	}

	cfg.StripeSecretKey = strings.TrimSpace(os.Getenv("STRIPE_SECRET_KEY"))
	cfg.StripeWebhookSecret = strings.TrimSpace(os.Getenv("STRIPE_WEBHOOK_SECRET"))
	if v := strings.TrimSpace(os.Getenv("ENABLE_SIMULATION")); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.EnableSimulation = b
		}
	}

	if v := strings.TrimSpace(os.Getenv("GAME_BINARY")); v != "" {
		cfg.GameBinary = v
	}
	cfg.RedisURL = strings.TrimSpace(os.Getenv("REDIS_URL"))

	if !cfg.EnableSimulation && cfg.StripeSecretKey == "" {
		return nil, errors.New("STRIPE_SECRET_KEY is required when ENABLE_SIMULATION is false")
	}

	return cfg, nil
}
