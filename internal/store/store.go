package store

import (
	"context"
	"errors"

	"github.com/spiritnsoul/couponart/internal/coupon"
)

var (
	ErrNotFound    = errors.New("coupon not found")
	ErrStorageFull = errors.New("storage is full, clear some old records")
)

// Store persists generated vouchers. List returns newest first.
type Store interface {
	Save(ctx context.Context, c coupon.Generated) error
	List(ctx context.Context) ([]coupon.Generated, error)
	Get(ctx context.Context, serial string) (coupon.Generated, error)
	Delete(ctx context.Context, serial string) error
	Clear(ctx context.Context) error
}
