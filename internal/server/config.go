package server

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/DjordjeVuckovic/indexbench/pkg/config/env"
)

type Config struct {
	Port     string
	UseHttp2 bool
	// DataFolder is scanned for <experiment>/ledger.yaml files.
	DataFolder string
}

// LoadConfig reads INDEXBENCH_* variables; .env files are loaded by the caller.
func LoadConfig(dataFolder string) (*Config, error) {
	port := env.Lookup("INDEXBENCH_PORT", "8080")
	if err := validatePort(port); err != nil {
		return nil, fmt.Errorf("invalid port: %w", err)
	}

	if dataFolder == "" {
		dataFolder = env.Lookup("INDEXBENCH_DATA", "")
	}
	if dataFolder == "" {
		return nil, errors.New("data folder is required")
	}

	return &Config{
		Port:       port,
		UseHttp2:   os.Getenv("INDEXBENCH_HTTP2") == "true",
		DataFolder: dataFolder,
	}, nil
}

func validatePort(port string) error {
	portNum, err := strconv.Atoi(port)

	if err != nil {
		return errors.New("port must be a number")
	}

	if portNum < 1 || portNum > 65535 {
		return errors.New("port must be between 1 and 65535")
	}

	return nil
}
