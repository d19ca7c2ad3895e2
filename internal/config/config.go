package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database   DatabaseConfig
	App        AppConfig
	Derivation DerivationConfig
	Jobs       JobsConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
}

// DerivationConfig holds the business thresholds of the punch classification and
// hour derivation pipeline. The defaults are the production values; they are
// load-bearing and should only be changed together with the payroll rules.
type DerivationConfig struct {
	// Early-morning window (minutes since midnight). A punch inside this
	// window is treated as the tail of a night shift.
	EarlyMorningStartMin int // 05:50
	EarlyMorningEndMin   int // 06:10

	// A punch at or after this hour can open a night shift.
	NightStartHour int

	// An OUT before this hour closes a night shift.
	NightEndHour int

	// Minimum gap since the previous punch before a night-start punch is
	// taken as a new night shift rather than a mid-shift event.
	NightGapMinutes int

	// Regular-shift pairing window (minutes since midnight, inclusive).
	RegularStartMin int // 06:16
	RegularEndMin   int // 20:59

	// Window used for the odd-punch-count anomaly check.
	OddCountWindowStartHour int // 06
	OddCountWindowEndHour   int // 22

	NightHoursCap float64 // max credited night hours per shift
	MaxShiftHours float64 // pairs longer than this are data errors

	WeeklyOvertimeThreshold float64 // weekly hours above this count as overtime

	// Number of employees processed in parallel during batch runs.
	Concurrency int
}

// JobsConfig holds the intervals of the periodic background jobs.
type JobsConfig struct {
	DownloadInterval time.Duration
	ClassifyInterval time.Duration
	DeriveInterval   time.Duration
	RebuildInterval  time.Duration
	DeriveDaysBack   int
}

func Load() (*Config, error) {
	// .env is optional; env vars win either way.
	_ = godotenv.Load()

	config := &Config{}

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "aventuratime"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	config.Derivation = DefaultDerivation()
	if v, err := getEnvInt("DERIVE_CONCURRENCY"); err != nil {
		return nil, err
	} else if v > 0 {
		config.Derivation.Concurrency = v
	}

	downloadEvery, err := getEnvDuration("JOB_DOWNLOAD_INTERVAL", 10*time.Minute)
	if err != nil {
		return nil, err
	}
	classifyEvery, err := getEnvDuration("JOB_CLASSIFY_INTERVAL", 15*time.Minute)
	if err != nil {
		return nil, err
	}
	deriveEvery, err := getEnvDuration("JOB_DERIVE_INTERVAL", time.Hour)
	if err != nil {
		return nil, err
	}
	rebuildEvery, err := getEnvDuration("JOB_REBUILD_INTERVAL", 6*time.Hour)
	if err != nil {
		return nil, err
	}
	daysBack, err := getEnvInt("JOB_DERIVE_DAYS_BACK")
	if err != nil {
		return nil, err
	}
	if daysBack == 0 {
		daysBack = 3
	}

	config.Jobs = JobsConfig{
		DownloadInterval: downloadEvery,
		ClassifyInterval: classifyEvery,
		DeriveInterval:   deriveEvery,
		RebuildInterval:  rebuildEvery,
		DeriveDaysBack:   daysBack,
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// DefaultDerivation returns the production derivation thresholds.
func DefaultDerivation() DerivationConfig {
	return DerivationConfig{
		EarlyMorningStartMin:    5*60 + 50,
		EarlyMorningEndMin:      6*60 + 10,
		NightStartHour:          21,
		NightEndHour:            6,
		NightGapMinutes:         60,
		RegularStartMin:         6*60 + 16,
		RegularEndMin:           20*60 + 59,
		OddCountWindowStartHour: 6,
		OddCountWindowEndHour:   22,
		NightHoursCap:           8,
		MaxShiftHours:           24,
		WeeklyOvertimeThreshold: 48,
		Concurrency:             5,
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.Derivation.Concurrency <= 0 {
		return fmt.Errorf("DERIVE_CONCURRENCY must be positive")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
