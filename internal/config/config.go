package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string

	// SiteURL is the public base URL used to build absolute links
	// (product images, deep links) in outbound notifications.
	SiteURL string

	HTTPAddr string

	OTLPEndpoint string

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int
	DBConnMaxIdleTime int

	Telegram TelegramConfig

	// RestockAmount is the number of units added per row by the bulk
	// restock action when the request does not carry an explicit amount.
	RestockAmount int64
}

// TelegramConfig configures the channel notification dispatcher.
type TelegramConfig struct {
	Enabled   bool
	BotToken  string
	ChannelID string
	// DeepLinkBase is the bot deep-link prefix; the product id is appended
	// as a startapp parameter.
	DeepLinkBase string
	// PollInterval is the outbox drain interval in seconds.
	PollInterval int
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		AppName:     getenv("APP_SERVICE", "backoffice"),
		AppVersion:  getenv("APP_VERSION", "0.1.0"),
		Environment: getenv("ENVIRONMENT", "development"),

		SiteURL:  strings.TrimRight(getenv("SITE_URL", "http://localhost:8080"), "/"),
		HTTPAddr: getenv("HTTP_ADDR", ":8080"),

		OTLPEndpoint: getenv("OTLP_ENDPOINT", "localhost:4317"),

		DBType:            getenv("DATABASE_TYPE", "postgres"),
		DBHost:            getenv("DATABASE_HOST", "localhost"),
		DBPort:            getenv("DATABASE_PORT", "5432"),
		DBName:            getenv("DATABASE_NAME", "backoffice"),
		DBUser:            getenv("DATABASE_USER", "postgres"),
		DBPassword:        getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:         getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn:     getenvInt("DATABASE_MAX_IDLE_CONN", 10),
		DBMaxOpenConn:     getenvInt("DATABASE_MAX_OPEN_CONN", 50),
		DBConnMaxLifetime: getenvInt("DATABASE_CONN_MAX_LIFETIME", 3600),
		DBConnMaxIdleTime: getenvInt("DATABASE_CONN_MAX_IDLE_TIME", 600),

		Telegram: TelegramConfig{
			Enabled:      getenvBool("TELEGRAM_ENABLED", false),
			BotToken:     strings.TrimSpace(getenv("TELEGRAM_BOT_TOKEN", "")),
			ChannelID:    strings.TrimSpace(getenv("TELEGRAM_CHANNEL_ID", "")),
			DeepLinkBase: strings.TrimSpace(getenv("TELEGRAM_DEEPLINK_BASE", "")),
			PollInterval: getenvInt("TELEGRAM_POLL_INTERVAL", 5),
		},

		RestockAmount: getenvInt64("RESTOCK_AMOUNT", 10),
	}

	if cfg.Telegram.Enabled && cfg.Telegram.BotToken == "" {
		cfg.Telegram.Enabled = false
	}

	return cfg
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func getenvInt64(key string, def int64) int64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return def
	}
	return parsed
}
