package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/mytheresa/product-catalog/app/catalog"
	"github.com/mytheresa/product-catalog/config"
	"github.com/mytheresa/product-catalog/models"
	"github.com/mytheresa/product-catalog/models/mongodb"
	"github.com/mytheresa/product-catalog/models/rediscache"
	"go.uber.org/zap"
)

type stores struct {
	products   catalog.ProductStore
	categories catalog.CategoryStore
	close      func() error
}

// openStores connects the backend named by cfg.StoreDriver and, when
// REDIS_URL is set, puts the category cache in front of it.
func openStores(ctx context.Context, cfg *config.Config, log *zap.Logger) (*stores, error) {
	var s *stores

	switch cfg.StoreDriver {
	case config.DriverPostgres:
		db, err := models.OpenPostgres(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("postgres pool: %w", err)
		}
		s = &stores{
			products:   models.NewProductsRepository(db),
			categories: models.NewCategoriesRepository(db),
			close:      sqlDB.Close,
		}
	default:
		db, err := mongodb.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		s = &stores{
			products:   mongodb.NewProductsRepository(db),
			categories: mongodb.NewCategoriesRepository(db),
			close:      func() error { return mongodb.Disconnect(db) },
		}
	}

	if cfg.RedisURL == "" {
		return s, nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		s.close()
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn("Redis unavailable, category cache disabled", zap.Error(err))
		rdb.Close()
		return s, nil
	}

	s.categories = rediscache.NewCategories(s.categories, rdb, log)
	closeStore := s.close
	s.close = func() error {
		return errors.Join(rdb.Close(), closeStore())
	}
	return s, nil
}
