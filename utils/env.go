package utils

import (
	"os"
	"strconv"
	"strings"
	"time"
)

func EnvOrDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func EnvBool(key string, def bool) bool {
	v, err := strconv.ParseBool(EnvOrDefault(key, ""))
	if err != nil {
		return def
	}
	return v
}

// EnvDuration accepts Go durations ("5s") or a plain number of seconds.
func EnvDuration(key string, def time.Duration) time.Duration {
	raw := EnvOrDefault(key, "")
	if raw == "" {
		return def
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second
	}
	return def
}
