// Package rediscache puts a Redis read-through cache in front of a
// category store. The category select list is read on every form render,
// while categories themselves change rarely.
package rediscache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/mytheresa/product-catalog/models"
	"go.uber.org/zap"
)

const (
	CategoryListKey      = "catalog:categories"
	CategoryDetailPrefix = "catalog:category:"
	DefaultTTL           = 10 * time.Minute
)

// CategoryStore is the store being cached.
type CategoryStore interface {
	FindAll(ctx context.Context) ([]models.Category, error)
	FindByID(ctx context.Context, id string) (*models.Category, error)
	Save(ctx context.Context, c *models.Category) (*models.Category, error)
}

// Categories serves categories from Redis when possible. Redis failures are
// logged and the call falls through to the wrapped store.
type Categories struct {
	next   CategoryStore
	redis  *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewCategories(next CategoryStore, rdb *redis.Client, logger *zap.Logger) *Categories {
	return &Categories{
		next:   next,
		redis:  rdb,
		ttl:    DefaultTTL,
		logger: logger,
	}
}

func (c *Categories) FindAll(ctx context.Context) ([]models.Category, error) {
	var cached []models.Category
	if c.get(ctx, CategoryListKey, &cached) {
		return cached, nil
	}

	categories, err := c.next.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	c.set(ctx, CategoryListKey, categories)
	return categories, nil
}

func (c *Categories) FindByID(ctx context.Context, id string) (*models.Category, error) {
	key := CategoryDetailPrefix + id

	var cached models.Category
	if c.get(ctx, key, &cached) {
		return &cached, nil
	}

	category, err := c.next.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.set(ctx, key, category)
	return category, nil
}

// Save writes through and drops the list and the entry for the saved id.
func (c *Categories) Save(ctx context.Context, category *models.Category) (*models.Category, error) {
	saved, err := c.next.Save(ctx, category)
	if err != nil {
		return nil, err
	}
	if err := c.redis.Del(ctx, CategoryListKey, CategoryDetailPrefix+saved.ID).Err(); err != nil {
		c.logger.Warn("Failed to invalidate category cache", zap.Error(err), zap.String("category_id", saved.ID))
	}
	return saved, nil
}

func (c *Categories) get(ctx context.Context, key string, dst any) bool {
	data, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("Category cache read failed", zap.Error(err), zap.String("key", key))
		}
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		c.logger.Warn("Failed to unmarshal cached categories", zap.Error(err), zap.String("key", key))
		return false
	}
	return true
}

func (c *Categories) set(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		c.logger.Warn("Failed to marshal categories for cache", zap.Error(err), zap.String("key", key))
		return
	}
	if err := c.redis.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("Failed to cache categories", zap.Error(err), zap.String("key", key))
	}
}
