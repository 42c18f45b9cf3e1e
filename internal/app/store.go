package app

import (
	"context"
	"fmt"

	"github.com/yungbote/mentoro/internal/config"
	"github.com/yungbote/mentoro/internal/platform/logger"
	"github.com/yungbote/mentoro/internal/progression"
	"github.com/yungbote/mentoro/internal/services"
	"github.com/yungbote/mentoro/internal/storage"
)

func wireStore(ctx context.Context, log *logger.Logger, cfg config.StoreConfig, events Events) (*progression.Store, storage.Blob, error) {
	log.Info("Wiring progression store...")
	blob, err := storage.Open(ctx, cfg, log)
	if err != nil {
		return nil, nil, fmt.Errorf("open snapshot storage: %w", err)
	}

	notifier := services.NewProgressNotifier(events.Emitter)
	store, err := progression.NewStore(
		progression.WithLogger(log),
		progression.WithRankLadder(progression.LadderByName(cfg.RankLadder)),
		progression.WithPersister(storage.KeyPersister{Blob: blob, Key: cfg.Key}),
		progression.WithListener(notifier.OnChange),
	)
	if err != nil {
		_ = blob.Close()
		return nil, nil, fmt.Errorf("init progression store: %w", err)
	}
	notifier.Bind(store)

	if err := store.Rehydrate(ctx); err != nil {
		// Unreadable storage starts from fresh state; the next save overwrites it.
		log.Warn("snapshot rehydrate failed", "error", err)
	}
	return store, blob, nil
}
