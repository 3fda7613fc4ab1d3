package recommend

import (
	"context"
	"errors"
)

// ErrCorruptStore is wrapped by stores whose persisted rows cannot be decoded.
var ErrCorruptStore = errors.New("log store is corrupt")

// Store is the append-only log of classification records. Implementations
// must serialise Append and All against each other.
type Store interface {
	Append(ctx context.Context, r Record) error
	All(ctx context.Context) ([]Record, error)
	Close() error
}
