package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Storage drivers accepted by STORAGE_DRIVER.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	StorageDriver string
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string
	AdminLogin        string
	AdminPasswordHash string `mapstructure:"ADMIN_PASSWORD_HASH"`

	LogFile  string
	LogLevel string

	// Economy
	MinTotalWealth         decimal.Decimal
	BaseReferencePrice     decimal.Decimal
	MarketNormalization    decimal.Decimal
	InverseQueryCap        int64
	MinutesPerGameDay      int
	InitialTreasuryBalance decimal.Decimal
	DefaultClientBalance   decimal.Decimal
	MaturityScanInterval   time.Duration
	SeedFile               string

	PublicRateLimit string
	CORSOrigins     []string
}

// GameDay is the wall-clock length of one in-game day.
func (c *Config) GameDay() time.Duration {
	return time.Duration(c.MinutesPerGameDay) * time.Minute
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("STORAGE_DRIVER", StoragePostgres)
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "resource-bank")
	viper.SetDefault("ADMIN_LOGIN", "admin")
	viper.SetDefault("ADMIN_PASSWORD_HASH", "")
	viper.SetDefault("LOG_FILE", "")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MIN_TOTAL_WEALTH", "1000")
	viper.SetDefault("BASE_REFERENCE_PRICE", "10")
	viper.SetDefault("MARKET_NORMALIZATION", "100")
	viper.SetDefault("INVERSE_QUERY_CAP", 100000)
	viper.SetDefault("MINUTES_PER_GAME_DAY", 17)
	viper.SetDefault("INITIAL_TREASURY_BALANCE", "50000")
	viper.SetDefault("DEFAULT_CLIENT_BALANCE", "50")
	viper.SetDefault("MATURITY_SCAN_INTERVAL", "1m")
	viper.SetDefault("SEED_FILE", "")
	viper.SetDefault("PUBLIC_RATE_LIMIT", "60-M")
	viper.SetDefault("CORS_ORIGINS", "*")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	cfg.StorageDriver = strings.ToLower(viper.GetString("STORAGE_DRIVER"))
	switch cfg.StorageDriver {
	case StoragePostgres:
		if cfg.DatabaseURL == "" {
			log.Println("Warning: PGSQL_URL environment variable not set.")
		}
	case StorageMemory:
	default:
		log.Printf("Warning: Unknown STORAGE_DRIVER ('%s'). Defaulting to %s.\n", cfg.StorageDriver, StoragePostgres)
		cfg.StorageDriver = StoragePostgres
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}
	cfg.JWTExpiryDuration = durationOrDefault("JWT_EXPIRY_DURATION", time.Hour)
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	cfg.AdminLogin = viper.GetString("ADMIN_LOGIN")
	cfg.AdminPasswordHash = viper.GetString("ADMIN_PASSWORD_HASH")
	if cfg.AdminPasswordHash == "" {
		log.Println("Warning: ADMIN_PASSWORD_HASH not set. Admin login is disabled.")
	}

	cfg.LogFile = viper.GetString("LOG_FILE")
	cfg.LogLevel = viper.GetString("LOG_LEVEL")

	cfg.MinTotalWealth = positiveDecimalOrDefault("MIN_TOTAL_WEALTH", decimal.NewFromInt(1000))
	cfg.BaseReferencePrice = positiveDecimalOrDefault("BASE_REFERENCE_PRICE", decimal.NewFromInt(10))
	cfg.MarketNormalization = positiveDecimalOrDefault("MARKET_NORMALIZATION", decimal.NewFromInt(100))
	cfg.InitialTreasuryBalance = nonNegativeDecimalOrDefault("INITIAL_TREASURY_BALANCE", decimal.NewFromInt(50000))
	cfg.DefaultClientBalance = nonNegativeDecimalOrDefault("DEFAULT_CLIENT_BALANCE", decimal.NewFromInt(50))

	cfg.InverseQueryCap = viper.GetInt64("INVERSE_QUERY_CAP")
	if cfg.InverseQueryCap <= 0 {
		log.Printf("Warning: Invalid value for INVERSE_QUERY_CAP (%d). Defaulting to 100000.\n", cfg.InverseQueryCap)
		cfg.InverseQueryCap = 100000
	}
	cfg.MinutesPerGameDay = viper.GetInt("MINUTES_PER_GAME_DAY")
	if cfg.MinutesPerGameDay <= 0 {
		log.Printf("Warning: Invalid value for MINUTES_PER_GAME_DAY (%d). Defaulting to 17.\n", cfg.MinutesPerGameDay)
		cfg.MinutesPerGameDay = 17
	}
	cfg.MaturityScanInterval = durationOrDefault("MATURITY_SCAN_INTERVAL", time.Minute)
	cfg.SeedFile = viper.GetString("SEED_FILE")

	cfg.PublicRateLimit = viper.GetString("PUBLIC_RATE_LIMIT")
	for _, origin := range strings.Split(viper.GetString("CORS_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, origin)
		}
	}

	return cfg, nil
}

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

func positiveDecimalOrDefault(key string, def decimal.Decimal) decimal.Decimal {
	raw := viper.GetString(key)
	d, err := decimal.NewFromString(raw)
	if err != nil || !d.IsPositive() {
		log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, def.String())
		return def
	}
	return d
}

func nonNegativeDecimalOrDefault(key string, def decimal.Decimal) decimal.Decimal {
	raw := viper.GetString(key)
	d, err := decimal.NewFromString(raw)
	if err != nil || d.IsNegative() {
		log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, def.String())
		return def
	}
	return d
}
