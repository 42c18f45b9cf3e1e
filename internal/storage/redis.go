package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

type redisBlob struct {
	rdb    *goredis.Client
	prefix string
}

// OpenRedis accepts a redis:// URL or a bare host:port.
func OpenRedis(ctx context.Context, dsn string) (Blob, error) {
	dsn = strings.TrimSpace(dsn)
	var opts *goredis.Options
	if strings.Contains(dsn, "://") {
		o, err := goredis.ParseURL(dsn)
		if err != nil {
			return nil, fmt.Errorf("redis storage: %w", err)
		}
		opts = o
	} else {
		opts = &goredis.Options{Addr: dsn}
	}
	opts.DialTimeout = 5 * time.Second
	rdb := goredis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &redisBlob{rdb: rdb, prefix: "mentoro:"}, nil
}

func (r *redisBlob) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := r.rdb.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, ErrNotFound
	}
	return b, err
}

func (r *redisBlob) Put(ctx context.Context, key string, data []byte) error {
	return r.rdb.Set(ctx, r.prefix+key, data, 0).Err()
}

func (r *redisBlob) Delete(ctx context.Context, key string) error {
	return r.rdb.Del(ctx, r.prefix+key).Err()
}

func (r *redisBlob) Close() error { return r.rdb.Close() }
