package util

import (
	"os"
	"strings"
)

func GetEnvironmentVariables() map[string]string {
	environmentVariables := map[string]string{}

	for _, variable := range os.Environ() {
		key, value, _ := strings.Cut(variable, "=")

		environmentVariables[key] = value
	}

	return environmentVariables
}

// FirstEnvironmentVariable returns the first non-empty value among keys
func FirstEnvironmentVariable(env map[string]string, keys ...string) string {
	for _, key := range keys {
		if env[key] != "" {
			return env[key]
		}
	}

	return ""
}
