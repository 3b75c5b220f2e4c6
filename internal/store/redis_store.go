package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/spiritnsoul/couponart/internal/coupon"
)

// RedisStore keeps records in a hash keyed by serial, ordered by a sorted
// set scored on creation time in microseconds. Records created in the same
// microsecond fall back to reverse serial order.
type RedisStore struct {
	client *redis.Client
	hash   string
	index  string
}

func NewRedisStore(client *redis.Client, key string) *RedisStore {
	return &RedisStore{client: client, hash: key + ":records", index: key + ":created"}
}

func (s *RedisStore) Save(ctx context.Context, c coupon.Generated) error {
	data, err := json.Marshal(c)
	if err != nil {
		return err
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, s.hash, c.Data.SerialNumber, data)
		pipe.ZAdd(ctx, s.index, redis.Z{Score: float64(c.CreatedAt.UnixMicro()), Member: c.Data.SerialNumber})
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis save: %w", err)
	}
	return nil
}

func (s *RedisStore) List(ctx context.Context) ([]coupon.Generated, error) {
	serials, err := s.client.ZRevRange(ctx, s.index, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis list: %w", err)
	}
	records := make([]coupon.Generated, 0, len(serials))
	if len(serials) == 0 {
		return records, nil
	}
	values, err := s.client.HMGet(ctx, s.hash, serials...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis list: %w", err)
	}
	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue // index entry without a record
		}
		var c coupon.Generated
		if err := json.Unmarshal([]byte(raw), &c); err != nil {
			return nil, fmt.Errorf("redis decode: %w", err)
		}
		records = append(records, c)
	}
	return records, nil
}

func (s *RedisStore) Get(ctx context.Context, serial string) (coupon.Generated, error) {
	raw, err := s.client.HGet(ctx, s.hash, serial).Result()
	if errors.Is(err, redis.Nil) {
		return coupon.Generated{}, ErrNotFound
	}
	if err != nil {
		return coupon.Generated{}, fmt.Errorf("redis get: %w", err)
	}
	var c coupon.Generated
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return coupon.Generated{}, fmt.Errorf("redis decode: %w", err)
	}
	return c, nil
}

func (s *RedisStore) Delete(ctx context.Context, serial string) error {
	var del *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		del = pipe.HDel(ctx, s.hash, serial)
		pipe.ZRem(ctx, s.index, serial)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis delete: %w", err)
	}
	if del.Val() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.hash, s.index).Err(); err != nil {
		return fmt.Errorf("redis clear: %w", err)
	}
	return nil
}
