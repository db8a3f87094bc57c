package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// envValue parses a trimmed variable and falls back to defaultVal when it
// is unset or does not parse.
func envValue[T any](key string, defaultVal T, parse func(string) (T, error)) T {
	raw, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal
	}
	value, err := parse(strings.TrimSpace(raw))
	if err != nil {
		return defaultVal
	}
	return value
}

func getEnvAsString(key string, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	return envValue(key, defaultVal, strconv.Atoi)
}

func getEnvAsBool(key string, defaultVal bool) bool {
	return envValue(key, defaultVal, strconv.ParseBool)
}

// getEnvAsTimeDuration accepts Go durations ("90s", "15m") and bare integers as seconds.
func getEnvAsTimeDuration(key string, defaultVal time.Duration) time.Duration {
	return envValue(key, defaultVal, func(s string) (time.Duration, error) {
		if seconds, err := strconv.Atoi(s); err == nil {
			return time.Duration(seconds) * time.Second, nil
		}
		return time.ParseDuration(s)
	})
}

// getEnvAsSlice splits on commas and drops empty entries.
func getEnvAsSlice(key string, defaultVal []string) []string {
	return envValue(key, defaultVal, func(s string) ([]string, error) {
		result := []string{}
		for _, part := range strings.Split(s, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result, nil
	})
}
