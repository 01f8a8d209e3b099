package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	DBMaxConns     int32
	Port           string
	IsProduction   bool
	JWTSecret      string
	RunMigrations  bool
	MigrationsPath string

	// Ledger
	LedgerTxTimeout  time.Duration
	LedgerMaxRetries int
	LedgerRetryDelay time.Duration

	// Cash register
	StaleSessionAfter         time.Duration
	StaleSessionCheckSchedule string

	// Events
	RedisAddr           string
	RedisPassword       string
	RedisDB             int
	EventsChannelPrefix string

	// HTTP
	RateLimit          string
	CORSAllowedOrigins []string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("RUN_MIGRATIONS", true)
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations")
	viper.SetDefault("LEDGER_TX_TIMEOUT", "5s")
	viper.SetDefault("LEDGER_MAX_RETRIES", 3)
	viper.SetDefault("LEDGER_RETRY_DELAY", "50ms")
	viper.SetDefault("STALE_SESSION_AFTER", "24h")
	viper.SetDefault("STALE_SESSION_CHECK_SCHEDULE", "0 */15 * * * *")
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("EVENTS_CHANNEL_PREFIX", "pos.ledger")
	viper.SetDefault("RATE_LIMIT", "300-M")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}
	cfg.DBMaxConns = viper.GetInt32("DB_MAX_CONNS")
	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	cfg.RunMigrations = viper.GetBool("RUN_MIGRATIONS")
	cfg.MigrationsPath = viper.GetString("MIGRATIONS_PATH")

	cfg.LedgerTxTimeout = durationOrDefault("LEDGER_TX_TIMEOUT", 5*time.Second)
	cfg.LedgerMaxRetries = viper.GetInt("LEDGER_MAX_RETRIES")
	if cfg.LedgerMaxRetries < 0 {
		log.Printf("Warning: LEDGER_MAX_RETRIES is negative (%d). Disabling retries.\n", cfg.LedgerMaxRetries)
		cfg.LedgerMaxRetries = 0
	}
	cfg.LedgerRetryDelay = durationOrDefault("LEDGER_RETRY_DELAY", 50*time.Millisecond)

	cfg.StaleSessionAfter = durationOrDefault("STALE_SESSION_AFTER", 24*time.Hour)
	cfg.StaleSessionCheckSchedule = viper.GetString("STALE_SESSION_CHECK_SCHEDULE")

	cfg.RedisAddr = viper.GetString("REDIS_ADDR")
	cfg.RedisPassword = viper.GetString("REDIS_PASSWORD")
	cfg.RedisDB = viper.GetInt("REDIS_DB")
	cfg.EventsChannelPrefix = viper.GetString("EVENTS_CHANNEL_PREFIX")
	if cfg.RedisAddr == "" {
		log.Println("Warning: REDIS_ADDR not set. Ledger events will only be logged.")
	}

	cfg.RateLimit = viper.GetString("RATE_LIMIT")
	cfg.CORSAllowedOrigins = splitList(viper.GetString("CORS_ALLOWED_ORIGINS"))

	return cfg, nil
}

// durationOrDefault parses key as a duration (e.g. "5s", "24h").
func durationOrDefault(key string, def time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, def.String())
		}
		return def
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
