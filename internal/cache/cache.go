// Package cache puts a read-through cache in front of a catalog repository.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/iselbouch1/bouchauto-showcase/internal/models"
	"github.com/iselbouch1/bouchauto-showcase/internal/repo"
	"go.uber.org/zap"
)

// ErrMiss is returned by a Store when the key is absent.
var ErrMiss = errors.New("cache miss")

// Store is the subset of a key-value server the cache needs.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Incr(ctx context.Context, key string) (int64, error)
}

const versionKey = "catalog:version"

// CatalogCache serves catalog reads from the store and falls back to the wrapped
// repository on a miss or a store failure. Writes go straight to the repository and
// invalidate every cached entry by bumping the catalog version.
type CatalogCache struct {
	next   repo.CatalogRepository
	store  Store
	ttl    time.Duration
	logger *zap.Logger
}

func NewCatalogCache(next repo.CatalogRepository, store Store, ttl time.Duration, logger *zap.Logger) *CatalogCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogCache{next: next, store: store, ttl: ttl, logger: logger.Named("cache")}
}

func (c *CatalogCache) version(ctx context.Context) (string, bool) {
	raw, err := c.store.Get(ctx, versionKey)
	if errors.Is(err, ErrMiss) {
		return "0", true
	}
	if err != nil {
		c.logger.Warn("failed to read catalog version", zap.Error(err))
		return "", false
	}
	return string(raw), true
}

func (c *CatalogCache) key(version, op string, args ...any) string {
	raw, _ := json.Marshal(args)
	sum := sha256.Sum256(raw)
	return fmt.Sprintf("catalog:v%s:%s:%s", version, op, hex.EncodeToString(sum[:12]))
}

// cached runs load on a miss and stores its result. Errors from load are never cached.
func cached[T any](ctx context.Context, c *CatalogCache, op string, load func() (T, error), args ...any) (T, error) {
	version, ok := c.version(ctx)
	if !ok {
		return load()
	}
	key := c.key(version, op, args...)

	raw, err := c.store.Get(ctx, key)
	if err == nil {
		var v T
		if err := json.Unmarshal(raw, &v); err == nil {
			return v, nil
		}
		c.logger.Warn("discarding undecodable cache entry", zap.String("key", key))
	} else if !errors.Is(err, ErrMiss) {
		c.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
	}

	v, err := load()
	if err != nil {
		return v, err
	}

	if raw, err := json.Marshal(v); err == nil {
		if err := c.store.Set(ctx, key, raw, c.ttl); err != nil {
			c.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return v, nil
}

func (c *CatalogCache) GetCategories(ctx context.Context) ([]models.Category, error) {
	return cached(ctx, c, "categories", func() ([]models.Category, error) {
		return c.next.GetCategories(ctx)
	})
}

func (c *CatalogCache) GetCategoryBySlug(ctx context.Context, slug string) (models.Category, error) {
	return cached(ctx, c, "category", func() (models.Category, error) {
		return c.next.GetCategoryBySlug(ctx, slug)
	}, slug)
}

func (c *CatalogCache) GetProducts(ctx context.Context, filters models.FilterParams) (models.PaginatedResponse[models.Product], error) {
	return cached(ctx, c, "products", func() (models.PaginatedResponse[models.Product], error) {
		return c.next.GetProducts(ctx, filters)
	}, filters)
}

func (c *CatalogCache) GetProductBySlug(ctx context.Context, slug string) (models.Product, error) {
	return cached(ctx, c, "product", func() (models.Product, error) {
		return c.next.GetProductBySlug(ctx, slug)
	}, slug)
}

func (c *CatalogCache) GetRelatedProducts(ctx context.Context, productID string, limit int) ([]models.Product, error) {
	return cached(ctx, c, "related", func() ([]models.Product, error) {
		return c.next.GetRelatedProducts(ctx, productID, limit)
	}, productID, limit)
}

func (c *CatalogCache) GetTagFacets(ctx context.Context, filters models.FilterParams) ([]models.TagFacet, error) {
	return cached(ctx, c, "tags", func() ([]models.TagFacet, error) {
		return c.next.GetTagFacets(ctx, filters)
	}, filters)
}

// Invalidate drops every cached entry.
func (c *CatalogCache) Invalidate(ctx context.Context) {
	if _, err := c.store.Incr(ctx, versionKey); err != nil {
		c.logger.Error("failed to invalidate catalog cache", zap.Error(err))
	}
}

func (c *CatalogCache) writer() (repo.CatalogWriter, error) {
	w, ok := c.next.(repo.CatalogWriter)
	if !ok {
		return nil, repo.ErrReadOnly
	}
	return w, nil
}

func (c *CatalogCache) GetProductByID(ctx context.Context, id string) (models.Product, error) {
	w, err := c.writer()
	if err != nil {
		return models.Product{}, err
	}
	return w.GetProductByID(ctx, id)
}

func (c *CatalogCache) CreateCategory(ctx context.Context, cat models.Category) (models.Category, error) {
	w, err := c.writer()
	if err != nil {
		return models.Category{}, err
	}
	created, err := w.CreateCategory(ctx, cat)
	if err == nil {
		c.Invalidate(ctx)
	}
	return created, err
}

func (c *CatalogCache) CreateProduct(ctx context.Context, p models.Product) (models.Product, error) {
	w, err := c.writer()
	if err != nil {
		return models.Product{}, err
	}
	created, err := w.CreateProduct(ctx, p)
	if err == nil {
		c.Invalidate(ctx)
	}
	return created, err
}

func (c *CatalogCache) UpdateProduct(ctx context.Context, p models.Product) (models.Product, error) {
	w, err := c.writer()
	if err != nil {
		return models.Product{}, err
	}
	updated, err := w.UpdateProduct(ctx, p)
	if err == nil {
		c.Invalidate(ctx)
	}
	return updated, err
}

func (c *CatalogCache) DeleteProduct(ctx context.Context, id string) error {
	w, err := c.writer()
	if err != nil {
		return err
	}
	if err := w.DeleteProduct(ctx, id); err != nil {
		return err
	}
	c.Invalidate(ctx)
	return nil
}
