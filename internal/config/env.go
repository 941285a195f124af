package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fdg312/meal-planner/internal/weekdates"
)

func envString(key, defaultVal string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return defaultVal
}

// envInt reads an int env var with a default value.
func envInt(key string, defaultVal int) int {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		warnFallback(key, s, strconv.Itoa(defaultVal))
		return defaultVal
	}
	return v
}

// envPositiveSeconds reads a positive number of seconds.
func envPositiveSeconds(key string, defaultVal int) time.Duration {
	v := envInt(key, defaultVal)
	if v <= 0 {
		log.Printf("WARNING: %s=%d must be positive, fallback to %d", key, v, defaultVal)
		v = defaultVal
	}
	return time.Duration(v) * time.Second
}

func parseBoolEnv(key string) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	return v == "1" || v == "true" || v == "yes" || v == "on"
}

func parseWeekStart(key string, defaultVal time.Weekday) time.Weekday {
	raw := envString(key, "")
	if raw == "" {
		return defaultVal
	}
	day, ok := weekdates.ParseWeekday(raw)
	if !ok || (day != time.Monday && day != time.Sunday) {
		warnFallback(key, raw, strings.ToLower(defaultVal.String()))
		return defaultVal
	}
	return day
}

// parseCORSOrigins parses CORS_ALLOWED_ORIGINS.
// In local mode, defaults to localhost origins if empty.
func parseCORSOrigins(raw, env string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		if env == "local" {
			return []string{"http://localhost:3000", "http://localhost:8081"}
		}
		return nil // prod: deny by default
	}

	var origins []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}

func warnFallback(key, value, fallback string) {
	log.Printf("WARNING: unknown %s=%q, fallback to %s", key, value, fallback)
}

func nonEmptyOrDash(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "-"
	}
	return v
}

func setOrNot(v string) string {
	if strings.TrimSpace(v) == "" {
		return "not set"
	}
	return "set"
}
