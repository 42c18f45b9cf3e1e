package storage

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("storage: key not found")

// Blob is a small keyed document store. Implementations are safe for
// concurrent use.
type Blob interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// KeyPersister binds a Blob to one key. Load reports a missing key as
// (nil, nil).
type KeyPersister struct {
	Blob Blob
	Key  string
}

func (p KeyPersister) Load(ctx context.Context) ([]byte, error) {
	b, err := p.Blob.Get(ctx, p.Key)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return b, err
}

func (p KeyPersister) Save(ctx context.Context, data []byte) error {
	return p.Blob.Put(ctx, p.Key, data)
}
