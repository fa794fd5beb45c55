package config

import (
	"fmt"
	"os"
	"strconv"

	"Mudcheck/internal/calc/treatment"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Driver string

const (
	DriverNone     Driver = ""
	DriverPostgres Driver = "postgres"
	DriverSQLite   Driver = "sqlite"
)

type Config struct {
	Addr            string
	TLSCert         string
	TLSKey          string
	LogLevel        string
	LogFormat       string
	Driver          Driver
	DatabaseURL     string
	SQLitePath      string
	CalibrationFile string
	TokenKey        string
	AdminHash       string
	RateLimitRPS    float64
	RateLimitBurst  int
	BatchWorkers    int
	// DotenvLoaded is false when no .env file was found.
	DotenvLoaded bool
}

// TLS reports whether both certificate and key are configured.
func (c Config) TLS() bool {
	return c.TLSCert != "" && c.TLSKey != ""
}

// Load reads .env (if present) and then the process environment.
func Load() (Config, error) {
	loaded := godotenv.Load() == nil
	cfg, err := FromEnv(os.Getenv)
	cfg.DotenvLoaded = loaded
	return cfg, err
}

// FromEnv builds a Config from a getenv-style lookup.
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Config{
		Addr:            or(getenv("ADDR"), ":8080"),
		TLSCert:         getenv("TLS_CERT"),
		TLSKey:          getenv("TLS_KEY"),
		LogLevel:        or(getenv("LOG_LEVEL"), "info"),
		LogFormat:       or(getenv("LOG_FORMAT"), "json"),
		Driver:          Driver(getenv("CALIBRATION_DRIVER")),
		DatabaseURL:     getenv("DATABASE_URL"),
		SQLitePath:      or(getenv("SQLITE_PATH"), "mudcheck.db"),
		CalibrationFile: getenv("CALIBRATION_FILE"),
		TokenKey:        getenv("TOKEN_KEY"),
		AdminHash:       getenv("ADMIN_PASSWORD_HASH"),
	}
	switch cfg.Driver {
	case DriverNone, DriverPostgres, DriverSQLite:
	default:
		return Config{}, fmt.Errorf("CALIBRATION_DRIVER: unknown driver %q", cfg.Driver)
	}

	var err error
	if cfg.RateLimitRPS, err = floatEnv(getenv, "RATE_LIMIT_RPS", 5); err != nil {
		return Config{}, err
	}
	if cfg.RateLimitBurst, err = intEnv(getenv, "RATE_LIMIT_BURST", 20); err != nil {
		return Config{}, err
	}
	if cfg.BatchWorkers, err = intEnv(getenv, "BATCH_WORKERS", 0); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadCalibrations reads a YAML list of calibration profiles. Fields left
// out of a profile take the built-in defaults.
func LoadCalibrations(path string) ([]treatment.Calibration, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read calibration file: %w", err)
	}
	var raw struct {
		Calibrations []yaml.Node `yaml:"calibrations"`
	}
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("parse calibration file: %w", err)
	}
	out := make([]treatment.Calibration, 0, len(raw.Calibrations))
	for i := range raw.Calibrations {
		cal := treatment.DefaultCalibration()
		cal.Name, cal.Source = "", path
		if err := raw.Calibrations[i].Decode(&cal); err != nil {
			return nil, fmt.Errorf("calibration %d: %w", i+1, err)
		}
		if err := cal.Validate(); err != nil {
			return nil, err
		}
		out = append(out, cal)
	}
	return out, nil
}

func or(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func floatEnv(getenv func(string) string, key string, def float64) (float64, error) {
	s := getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}

func intEnv(getenv func(string) string, key string, def int) (int, error) {
	s := getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}
