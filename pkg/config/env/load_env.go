package env

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads environment variables from a .env file. INDEXBENCH_ENV_PATH
// overrides defaultPath. A missing file is an error only in local mode
// (env "local" or empty); variables already set in the process win.
func LoadDotEnv(env string, defaultPath string) error {
	envPath := os.Getenv("INDEXBENCH_ENV_PATH")
	if envPath == "" {
		slog.Debug("INDEXBENCH_ENV_PATH is not set, using default path", "defaultPath", defaultPath)
		envPath = defaultPath
	}

	if err := godotenv.Load(envPath); err != nil {
		if env == "local" || env == "" {
			return err
		}
		slog.Debug("Skipping .env ...", "path", envPath)
	}

	return nil
}

// Lookup returns the value of key, or fallback when it is unset or empty.
func Lookup(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
