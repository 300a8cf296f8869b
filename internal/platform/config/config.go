package config

import (
	"fmt"
	"log"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
)

const defaultJWTSecret = "a-very-secret-key-should-be-longer-and-random"

// Config holds application configuration.
type Config struct {
	DatabaseURL       string
	Port              string
	IsProduction      bool
	EnableDBCheck     bool
	JWTSecret         string
	JWTExpiryDuration time.Duration
	LogLevel          string
	MigrationsPath    string

	RateLimit          string   // ulule/limiter formatted rate, e.g. "30-M"
	CORSAllowedOrigins []string // empty disables CORS handling

	ReconcileConcurrency   int
	ReconcileBackfillLinks bool

	EntryBalanceTolerance  decimal.Decimal
	ReportBalanceTolerance decimal.Decimal
	ReportRoundingPlaces   int32

	// RoleAccountCodes is the account code tried for a role before heuristics.
	RoleAccountCodes map[domain.AccountRole]string
}

var roleKeys = map[domain.AccountRole]string{
	domain.RolePrimaryCash:        "ACCOUNT_CODE_PRIMARY_CASH",
	domain.RoleSupplierPayable:    "ACCOUNT_CODE_SUPPLIER_PAYABLE",
	domain.RoleCustomerReceivable: "ACCOUNT_CODE_CUSTOMER_RECEIVABLE",
	domain.RolePurchases:          "ACCOUNT_CODE_PURCHASES",
	domain.RoleSales:              "ACCOUNT_CODE_SALES",
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("JWT_SECRET", defaultJWTSecret)
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations")
	viper.SetDefault("RATE_LIMIT", "120-M")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "")
	viper.SetDefault("RECONCILE_CONCURRENCY", 4)
	viper.SetDefault("RECONCILE_BACKFILL_LINKS", false)
	viper.SetDefault("ENTRY_BALANCE_TOLERANCE", "0.01")
	viper.SetDefault("REPORT_BALANCE_TOLERANCE", "1")
	viper.SetDefault("REPORT_ROUNDING_PLACES", 2)
	viper.SetDefault("ACCOUNT_CODE_PRIMARY_CASH", "1101")
	viper.SetDefault("ACCOUNT_CODE_SUPPLIER_PAYABLE", "2101")
	viper.SetDefault("ACCOUNT_CODE_CUSTOMER_RECEIVABLE", "1301")
	viper.SetDefault("ACCOUNT_CODE_PURCHASES", "5101")
	viper.SetDefault("ACCOUNT_CODE_SALES", "4101")

	viper.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:            viper.GetString("PGSQL_URL"),
		Port:                   viper.GetString("PORT"),
		IsProduction:           viper.GetBool("IS_PRODUCTION"),
		EnableDBCheck:          viper.GetBool("ENABLE_DB_CHECK"),
		JWTSecret:              viper.GetString("JWT_SECRET"),
		LogLevel:               strings.ToLower(viper.GetString("LOG_LEVEL")),
		MigrationsPath:         viper.GetString("MIGRATIONS_PATH"),
		RateLimit:              viper.GetString("RATE_LIMIT"),
		CORSAllowedOrigins:     splitList(viper.GetString("CORS_ALLOWED_ORIGINS")),
		ReconcileConcurrency:   viper.GetInt("RECONCILE_CONCURRENCY"),
		ReconcileBackfillLinks: viper.GetBool("RECONCILE_BACKFILL_LINKS"),
		ReportRoundingPlaces:   viper.GetInt32("REPORT_ROUNDING_PLACES"),
		RoleAccountCodes:       make(map[domain.AccountRole]string, len(roleKeys)),
	}

	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}
	if cfg.JWTSecret == "" || cfg.JWTSecret == defaultJWTSecret {
		if cfg.IsProduction {
			return nil, fmt.Errorf("JWT_SECRET must be set in production")
		}
		cfg.JWTSecret = defaultJWTSecret
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	expiry := viper.GetString("JWT_EXPIRY_DURATION")
	d, err := time.ParseDuration(expiry)
	if err != nil || d <= 0 {
		d = time.Hour
		log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", expiry, d)
	}
	cfg.JWTExpiryDuration = d

	if cfg.ReconcileConcurrency < 1 {
		return nil, fmt.Errorf("RECONCILE_CONCURRENCY must be at least 1, got %d", cfg.ReconcileConcurrency)
	}

	if cfg.EntryBalanceTolerance, err = positiveDecimal("ENTRY_BALANCE_TOLERANCE"); err != nil {
		return nil, err
	}
	if cfg.ReportBalanceTolerance, err = positiveDecimal("REPORT_BALANCE_TOLERANCE"); err != nil {
		return nil, err
	}

	for role, key := range roleKeys {
		cfg.RoleAccountCodes[role] = strings.TrimSpace(viper.GetString(key))
	}

	return cfg, nil
}

// SlogLevel maps LogLevel onto a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func positiveDecimal(key string) (decimal.Decimal, error) {
	raw := viper.GetString(key)
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	if !v.IsPositive() {
		return decimal.Zero, fmt.Errorf("%s must be positive, got %s", key, raw)
	}
	return v, nil
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
