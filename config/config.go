package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"

	"hostel-backend/utils"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	AppName     string
	Port        string
	DBDriver    string
	DatabaseURL string
	CORSOrigins []string
	RedisURL    string
	RoomLockTTL time.Duration
	SeedData    bool
	LogSQL      bool
}

// Load reads .env when present; real environment variables win.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		utils.Logger.Debug(".env not found; using process environment")
	}

	cfg := Config{
		AppName:     utils.EnvOrDefault("APP_NAME", "hostel-backend"),
		Port:        utils.EnvOrDefault("PORT", "8080"),
		DatabaseURL: firstEnv("DATABASE_URL", "MYSQL_URL"),
		CORSOrigins: parseCorsOrigins(utils.EnvOrDefault("CORS_ORIGINS", "")),
		RedisURL:    utils.EnvOrDefault("REDIS_URL", ""),
		RoomLockTTL: utils.EnvDuration("ROOM_LOCK_TTL", 10*time.Second),
		SeedData:    utils.EnvBool("SEED_DATA", false),
		LogSQL:      utils.EnvBool("LOG_SQL", false),
	}

	driver, err := resolveDriver(utils.EnvOrDefault("DB_DRIVER", ""), cfg.DatabaseURL, utils.EnvOrDefault("DB_HOST", ""))
	if err != nil {
		return Config{}, err
	}
	cfg.DBDriver = driver
	return cfg, nil
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := utils.EnvOrDefault(k, ""); v != "" {
			return v
		}
	}
	return ""
}

// resolveDriver picks the store backend. Without an explicit DB_DRIVER the
// URL scheme decides, and with no database configured at all the in-memory
// store is used.
func resolveDriver(explicit, databaseURL, dbHost string) (string, error) {
	switch strings.ToLower(explicit) {
	case DriverMySQL, DriverPostgres, DriverMemory:
		return strings.ToLower(explicit), nil
	case "postgresql":
		return DriverPostgres, nil
	case "":
	default:
		return "", &UnsupportedDriverError{Driver: explicit}
	}

	lower := strings.ToLower(databaseURL)
	switch {
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"):
		return DriverPostgres, nil
	case databaseURL != "" || dbHost != "":
		return DriverMySQL, nil
	}
	return DriverMemory, nil
}

type UnsupportedDriverError struct {
	Driver string
}

func (e *UnsupportedDriverError) Error() string {
	return "unsupported DB_DRIVER " + e.Driver + " (want mysql, postgres or memory)"
}

// parseCorsOrigins splits a comma-separated list; empty means any origin.
func parseCorsOrigins(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
