package storage

import (
	"context"
	"fmt"

	"github.com/yungbote/mentoro/internal/config"
	"github.com/yungbote/mentoro/internal/platform/logger"
)

// Open builds the Blob selected by cfg.Driver.
func Open(ctx context.Context, cfg config.StoreConfig, log *logger.Logger) (Blob, error) {
	var (
		b   Blob
		err error
	)
	switch cfg.Driver {
	case "memory":
		b = NewMemory()
	case "file":
		b, err = NewFile(cfg.DSN)
	case "sqlite", "postgres":
		b, err = OpenGorm(cfg.Driver, cfg.DSN)
	case "redis":
		b, err = OpenRedis(ctx, cfg.DSN)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}
	log.Info("snapshot storage ready", "driver", cfg.Driver, "key", cfg.Key)
	return b, nil
}
