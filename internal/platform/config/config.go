package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Addr                 string        `mapstructure:"APP_ADDR"`
	Environment          string        `mapstructure:"APP_ENV"`
	DatabaseURL          string        `mapstructure:"DATABASE_URL"`
	MigrationsDir        string        `mapstructure:"MIGRATIONS_DIR"`
	RunMigrations        bool          `mapstructure:"RUN_MIGRATIONS"`
	JWTSecret            string        `mapstructure:"JWT_SECRET"`
	DataEncryptionKey    string        `mapstructure:"DATA_ENCRYPTION_KEY"`
	FrontendDir          string        `mapstructure:"FRONTEND_DIR"`
	SeedAdminEmail       string        `mapstructure:"SEED_ADMIN_EMAIL"`
	SeedAdminPassword    string        `mapstructure:"SEED_ADMIN_PASSWORD"`
	SeedEmployeeEmail    string        `mapstructure:"SEED_EMPLOYEE_EMAIL"`
	SeedEmployeePassword string        `mapstructure:"SEED_EMPLOYEE_PASSWORD"`
	BcryptCost           int           `mapstructure:"BCRYPT_COST"`
	PasscodeTTL          time.Duration `mapstructure:"PASSCODE_TTL"`
	PasscodeMaxAttempts  int           `mapstructure:"PASSCODE_MAX_ATTEMPTS"`
	PasscodeDisclose     bool          `mapstructure:"PASSCODE_DISCLOSE"`
	EmailFrom            string        `mapstructure:"EMAIL_FROM"`
	EmailEnabled         bool          `mapstructure:"EMAIL_ENABLED"`
	SMTPHost             string        `mapstructure:"SMTP_HOST"`
	SMTPPort             int           `mapstructure:"SMTP_PORT"`
	SMTPUser             string        `mapstructure:"SMTP_USER"`
	SMTPPassword         string        `mapstructure:"SMTP_PASSWORD"`
	SMTPUseTLS           bool          `mapstructure:"SMTP_USE_TLS"`
	MaxBodyBytes         int64         `mapstructure:"MAX_BODY_BYTES"`
	RateLimitPerMinute   int           `mapstructure:"RATE_LIMIT_PER_MINUTE"`
	TabTokenTTL          time.Duration `mapstructure:"TAB_TOKEN_TTL"`
	TabIdleTTL           time.Duration `mapstructure:"TAB_IDLE_TTL"`
	TabSweepInterval     time.Duration `mapstructure:"TAB_SWEEP_INTERVAL"`
	MetricsEnabled       bool          `mapstructure:"METRICS_ENABLED"`
}

var defaults = map[string]any{
	"APP_ADDR":               ":8080",
	"APP_ENV":                "development",
	"DATABASE_URL":           "",
	"MIGRATIONS_DIR":         "migrations",
	"RUN_MIGRATIONS":         true,
	"JWT_SECRET":             "",
	"DATA_ENCRYPTION_KEY":    "",
	"FRONTEND_DIR":           "frontend/dist",
	"SEED_ADMIN_EMAIL":       "admin@example.com",
	"SEED_ADMIN_PASSWORD":    "password",
	"SEED_EMPLOYEE_EMAIL":    "employee@example.com",
	"SEED_EMPLOYEE_PASSWORD": "password",
	"BCRYPT_COST":            10,
	"PASSCODE_TTL":           "0s",
	"PASSCODE_MAX_ATTEMPTS":  0,
	"PASSCODE_DISCLOSE":      true,
	"EMAIL_FROM":             "no-reply@example.com",
	"EMAIL_ENABLED":          false,
	"SMTP_HOST":              "",
	"SMTP_PORT":              587,
	"SMTP_USER":              "",
	"SMTP_PASSWORD":          "",
	"SMTP_USE_TLS":           true,
	"MAX_BODY_BYTES":         1048576,
	"RATE_LIMIT_PER_MINUTE":  60,
	"TAB_TOKEN_TTL":          "720h",
	"TAB_IDLE_TTL":           "1h",
	"TAB_SWEEP_INTERVAL":     "10m",
	"METRICS_ENABLED":        true,
}

// Load reads an optional .env file, then the environment. Env vars win.
func Load() (Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("APP_ADDR is required")
	}
	if c.IsProduction() {
		if strings.TrimSpace(c.JWTSecret) == "" {
			return fmt.Errorf("JWT_SECRET must be set to a strong value in production")
		}
		if c.PasscodeDisclose {
			return fmt.Errorf("PASSCODE_DISCLOSE must not be true when APP_ENV=production")
		}
		if !c.EmailEnabled {
			return fmt.Errorf("EMAIL_ENABLED must be true in production so passcodes can be delivered")
		}
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 31")
	}
	if c.PasscodeTTL < 0 {
		return fmt.Errorf("PASSCODE_TTL must not be negative")
	}
	if c.PasscodeMaxAttempts < 0 {
		return fmt.Errorf("PASSCODE_MAX_ATTEMPTS must not be negative")
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	if c.RateLimitPerMinute < 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must not be negative")
	}
	if c.TabTokenTTL <= 0 {
		return fmt.Errorf("TAB_TOKEN_TTL must be positive")
	}
	if c.EmailEnabled && c.SMTPHost == "" {
		return fmt.Errorf("SMTP_HOST must be set when EMAIL_ENABLED is true")
	}
	return nil
}
