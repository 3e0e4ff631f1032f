package config

import (
	"errors"
	"os"
	"time"
)

type Mode string

const (
	ModeDemo       Mode = "demo"
	ModeProduction Mode = "production"
)

// Historic deployments exported the Razorpay keys under several different
// names; all of them are still accepted. First non-empty wins.
var (
	keyIDAliases = []string{
		"RZP_KEY_ID",
		"RAZORPAY_KEY_ID",
		"RAZORPAY_key_id",
		"RAZORPAY_KEYID",
		"RAZORPAY_ID",
		"RAZORPAY_KEY",
	}
	keySecretAliases = []string{
		"RZP_KEY_SECRET",
		"RAZORPAY_KEY_SECRET",
		"RAZORPAY_live_key_secret",
		"RAZORPAY_key_secret",
		"RAZORPAY_SECRET",
	}
)

type Config struct {
	HTTP_PORT     string
	DB_STRING     string
	KAFKA_BROKERS string
	KAFKA_TOPIC   string

	Mode           Mode
	RzpKeyID       string
	RzpKeySecret   string
	GatewayURL     string
	GatewayTimeout time.Duration

	JWTSecret    string
	OpenAIKey    string
	OpenAIURL    string
	PingMessage  string
	DeliveryTick time.Duration
}

func firstEnv(names []string) string {
	for _, n := range names {
		if v := os.Getenv(n); v != "" {
			return v
		}
	}
	return ""
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		HTTP_PORT:     os.Getenv("HTTP_PORT"),
		DB_STRING:     os.Getenv("DB_STRING"),
		KAFKA_BROKERS: os.Getenv("KAFKA_BROKERS"),
		KAFKA_TOPIC:   os.Getenv("KAFKA_TOPIC"),

		Mode:         Mode(os.Getenv("APP_MODE")),
		RzpKeyID:     firstEnv(keyIDAliases),
		RzpKeySecret: firstEnv(keySecretAliases),
		GatewayURL:   os.Getenv("GATEWAY_URL"),

		JWTSecret:   os.Getenv("JWT_SECRET"),
		OpenAIKey:   os.Getenv("OPENAI_API_KEY"),
		OpenAIURL:   os.Getenv("OPENAI_API_URL"),
		PingMessage: os.Getenv("PING_MESSAGE"),
	}

	if cfg.HTTP_PORT == "" {
		cfg.HTTP_PORT = "8080"
	}
	if cfg.KAFKA_TOPIC == "" {
		cfg.KAFKA_TOPIC = "order-events"
	}
	if cfg.GatewayURL == "" {
		cfg.GatewayURL = "https://api.razorpay.com"
	}
	if cfg.OpenAIURL == "" {
		cfg.OpenAIURL = "https://api.openai.com"
	}
	if cfg.PingMessage == "" {
		cfg.PingMessage = "ping"
	}
	if cfg.JWTSecret == "" {
		// Dev fallback carried over from the original deployment.
		cfg.JWTSecret = "8sdf67df78df7dfsd98f7dsa9"
	}
	cfg.GatewayTimeout = 10 * time.Second
	cfg.DeliveryTick = 10 * time.Second

	// The mode is always explicit: key presence alone never switches the
	// service into production behavior.
	switch cfg.Mode {
	case "":
		cfg.Mode = ModeDemo
	case ModeDemo:
	case ModeProduction:
		if cfg.RzpKeyID == "" || cfg.RzpKeySecret == "" {
			return nil, errors.New("APP_MODE=production requires gateway key id and secret")
		}
	default:
		return nil, errors.New("APP_MODE must be demo or production")
	}

	return cfg, nil
}

// EnvPresence reports which well-known payment/auth env vars are set.
// Values are never included.
func EnvPresence() map[string]bool {
	keys := append(append([]string{}, keyIDAliases...), keySecretAliases...)
	keys = append(keys, "JWT_SECRET")
	present := make(map[string]bool, len(keys))
	for _, k := range keys {
		present[k] = os.Getenv(k) != ""
	}
	return present
}
