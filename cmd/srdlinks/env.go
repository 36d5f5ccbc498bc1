package main

import (
	"path/filepath"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/myrrys/srdlinks/internal/core"
	"github.com/myrrys/srdlinks/internal/logging"
)

// setup loads the vault's .env file and srdlinks.yaml and builds the logger.
func setup(vault string) (core.Config, *zap.Logger, error) {
	// A missing .env is not an error.
	_ = godotenv.Load(filepath.Join(vault, ".env"))

	cfg, err := core.LoadConfig(vault)
	if err != nil {
		return core.Config{}, nil, err
	}
	logger, err := logging.New(cfg.Log.Level)
	if err != nil {
		return core.Config{}, nil, err
	}
	return cfg, logger, nil
}
