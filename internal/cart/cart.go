// Package cart stores per-user shopping carts in Redis. A cart is a hash
// keyed by user id; each field is one product variant, so the same product
// in two sizes occupies two lines.
package cart

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mercadero/storefront/internal/apperr"
)

type Item struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	Quantity  int    `json:"quantity"`
	Size      string `json:"size,omitempty"`
	Color     string `json:"color,omitempty"`
	ImageURL  string `json:"image_url,omitempty"`
}

// Key identifies the item's slot in the cart. Two lines with the same
// product but different size or color coexist.
func (it Item) Key() string {
	parts := []string{it.ProductID}
	if it.Size != "" {
		parts = append(parts, it.Size)
	}
	if it.Color != "" {
		parts = append(parts, it.Color)
	}
	return strings.Join(parts, "|")
}

type Store interface {
	Get(ctx context.Context, userID string) ([]Item, error)
	Put(ctx context.Context, userID string, it Item) error
	Remove(ctx context.Context, userID, key string) error
	Clear(ctx context.Context, userID string) error
}

type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func cartKey(userID string) string { return "cart:" + userID }

func (s *RedisStore) Get(ctx context.Context, userID string) ([]Item, error) {
	fields, err := s.rdb.HGetAll(ctx, cartKey(userID)).Result()
	if err != nil {
		return nil, apperr.Dependency("could not load cart", err)
	}
	items := make([]Item, 0, len(fields))
	for _, raw := range fields {
		var it Item
		if err := json.Unmarshal([]byte(raw), &it); err != nil {
			return nil, apperr.Dependency("could not decode cart item", err)
		}
		items = append(items, it)
	}
	return items, nil
}

func (s *RedisStore) Put(ctx context.Context, userID string, it Item) error {
	raw, err := json.Marshal(it)
	if err != nil {
		return apperr.Dependency("could not encode cart item", err)
	}
	key := cartKey(userID)
	pipe := s.rdb.TxPipeline()
	pipe.HSet(ctx, key, it.Key(), raw)
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return apperr.Dependency("could not save cart item", err)
	}
	return nil
}

func (s *RedisStore) Remove(ctx context.Context, userID, key string) error {
	n, err := s.rdb.HDel(ctx, cartKey(userID), key).Result()
	if err != nil {
		return apperr.Dependency("could not remove cart item", err)
	}
	if n == 0 {
		return apperr.NotFound("cart item not found")
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context, userID string) error {
	if err := s.rdb.Del(ctx, cartKey(userID)).Err(); err != nil {
		return apperr.Dependency("could not clear cart", err)
	}
	return nil
}
