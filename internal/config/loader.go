package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Load reads configuration for every command of the service.
//
// Sources, highest priority first: process environment, the env file, the
// YAML file, env-default tags. The env file is ENV_FILE (fallback "./.env")
// and only adds variables that are not already set. The YAML file is
// CONFIG_PATH (fallback "./config.yaml"). A fallback file that does not
// exist is ignored; an explicitly named one must exist.
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, err
	}

	var cfg Config

	path, explicit := lookupPath("CONFIG_PATH", "./config.yaml")
	_, statErr := os.Stat(path)
	switch {
	case statErr == nil:
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	case explicit:
		return nil, fmt.Errorf("config: file %s: %w", path, statErr)
	default:
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config: read env: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}

	return &cfg, nil
}

func loadEnvFile() error {
	path, explicit := lookupPath("ENV_FILE", "./.env")
	err := godotenv.Load(path)
	if err == nil || (!explicit && errors.Is(err, fs.ErrNotExist)) {
		return nil
	}
	return fmt.Errorf("config: env file %s: %w", path, err)
}

func lookupPath(env, fallback string) (path string, explicit bool) {
	if p := os.Getenv(env); p != "" {
		return p, true
	}
	return fallback, false
}
