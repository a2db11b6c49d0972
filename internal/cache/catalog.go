// Package cache holds the optional Redis-backed product listing cache.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/models"
	"github.com/go-redis/redis/v8"
)

const versionKey = "catalog:version"

// CatalogCache caches product listings per filter. Every admin write bumps a
// version counter, which orphans all cached listings at once; orphans expire
// through their TTL.
type CatalogCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisClient(addr, password string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
}

func NewCatalogCache(rdb *redis.Client, ttl time.Duration) *CatalogCache {
	return &CatalogCache{rdb: rdb, ttl: ttl}
}

// GetList looks up the listing for filter. The returned key pins the catalog
// version read here; callers fill a miss with SetList under that same key so a
// listing read before an Invalidate can never land under the newer version.
// key is empty when Redis is unreachable.
func (c *CatalogCache) GetList(ctx context.Context, filter dto.ProductFilter) ([]models.Product, string, bool) {
	key, err := c.listKey(ctx, filter)
	if err != nil {
		return nil, "", false
	}

	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Warn("catalog cache read failed", "error", err)
		}
		return nil, key, false
	}

	var products []models.Product
	if err := json.Unmarshal(raw, &products); err != nil {
		slog.Warn("catalog cache entry corrupt", "key", key, "error", err)
		return nil, key, false
	}
	return products, key, true
}

func (c *CatalogCache) SetList(ctx context.Context, key string, products []models.Product) {
	if key == "" {
		return
	}
	raw, err := json.Marshal(products)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		slog.Warn("catalog cache write failed", "error", err)
	}
}

func (c *CatalogCache) Invalidate(ctx context.Context) {
	if err := c.rdb.Incr(ctx, versionKey).Err(); err != nil {
		slog.Warn("catalog cache invalidation failed", "error", err)
	}
}

func (c *CatalogCache) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *CatalogCache) listKey(ctx context.Context, filter dto.ProductFilter) (string, error) {
	version, err := c.rdb.Get(ctx, versionKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		slog.Warn("catalog cache version read failed", "error", err)
		return "", err
	}
	return fmt.Sprintf("catalog:v%d:list:%s", version, filterKey(filter)), nil
}

func filterKey(filter dto.ProductFilter) string {
	category := "*"
	if filter.Category != nil {
		category = *filter.Category
	}
	featured := "*"
	if filter.Featured != nil {
		featured = strconv.FormatBool(*filter.Featured)
	}
	return "category=" + category + ":featured=" + featured
}
