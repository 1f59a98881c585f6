package config

import (
	"os"
	"strconv"
	"time"
)

// Config collects the environment-driven settings. Policy flags gate behavior
// the engines otherwise forbid (overdraft) or add on top of the base rules
// (close-time fuel write-off).
type Config struct {
	DatabaseDSN string
	Port        string

	// AllowOverdraft permits expenses that drive a budget balance negative.
	AllowOverdraft bool

	// FuelCloseWriteOff records a synthetic usage when an entry is closed so
	// the tank's reporting level matches the physical reading. Leftover fuel
	// is abandoned either way; carry-over to the next entry is not supported.
	FuelCloseWriteOff bool

	// LockWait bounds how long a transaction waits for a contended row lock
	// before the call fails as Busy.
	LockWait time.Duration
}

// Load reads the configuration from environment variables, falling back to
// development defaults.
func Load() Config {
	cfg := Config{
		DatabaseDSN:       buildDSN(),
		Port:              getenv("PORT", "8080"),
		AllowOverdraft:    getbool("ALLOW_OVERDRAFT", false),
		FuelCloseWriteOff: getbool("FUEL_CLOSE_WRITEOFF", false),
		LockWait:          5 * time.Second,
	}

	if ms, err := strconv.Atoi(os.Getenv("LOCK_TIMEOUT_MS")); err == nil && ms > 0 {
		cfg.LockWait = time.Duration(ms) * time.Millisecond
	}

	return cfg
}

func buildDSN() string {
	host := getenv("DB_HOST", "localhost")
	port := getenv("DB_PORT", "5432")
	user := getenv("DB_USER", "postgres")
	password := getenv("DB_PASSWORD", "postgres")
	name := getenv("DB_NAME", "postgres")
	sslMode := getenv("DB_SSLMODE", "disable")

	return "postgres://" + user + ":" + password + "@" + host + ":" + port + "/" + name + "?sslmode=" + sslMode
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getbool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
