package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/angelmondragon/sgr-storefront/pkg/backend"
	apperrors "github.com/angelmondragon/sgr-storefront/pkg/errors"
	"github.com/angelmondragon/sgr-storefront/pkg/logger"
	"github.com/angelmondragon/sgr-storefront/pkg/redis"
)

const defaultCategoryTTL = time.Hour

type categoryClient interface {
	ListCategories(ctx context.Context) ([]backend.Category, error)
	CreateCategory(ctx context.Context, req backend.CreateCategoryRequest) error
}

type categoryCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CategoriesKey() string
}

// Directory holds the category list every page needs: filter checkboxes, the
// create/update dialogs, the category creation form. It keeps an in-memory
// copy and optionally reads through a Redis cache.
type Directory struct {
	client categoryClient
	cache  categoryCache
	ttl    time.Duration
	logg   *logger.Logger

	mu         sync.RWMutex
	categories []backend.Category
	loaded     bool
}

// DirectoryOption configures optional directory behavior.
type DirectoryOption func(*Directory)

// WithCache reads categories through Redis before hitting the backend.
func WithCache(cache *redis.Client, ttl time.Duration) DirectoryOption {
	return func(d *Directory) {
		if cache == nil {
			return
		}
		d.cache = cache
		if ttl > 0 {
			d.ttl = ttl
		}
	}
}

func NewDirectory(client categoryClient, logg *logger.Logger, opts ...DirectoryOption) (*Directory, error) {
	if client == nil {
		return nil, fmt.Errorf("category client required")
	}
	directory := &Directory{
		client: client,
		ttl:    defaultCategoryTTL,
		logg:   logg,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(directory)
		}
	}
	return directory, nil
}

// Categories returns the known category list, loading it on first use.
func (d *Directory) Categories(ctx context.Context) ([]backend.Category, error) {
	d.mu.RLock()
	if d.loaded {
		cached := d.categories
		d.mu.RUnlock()
		return cached, nil
	}
	d.mu.RUnlock()

	return d.Refresh(ctx)
}

// Names returns just the category names, in directory order.
func (d *Directory) Names(ctx context.Context) ([]string, error) {
	categories, err := d.Categories(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(categories))
	for _, category := range categories {
		names = append(names, category.Name)
	}
	return names, nil
}

// Refresh reloads the category list, preferring the cache when present.
func (d *Directory) Refresh(ctx context.Context) ([]backend.Category, error) {
	if categories, ok := d.fromCache(ctx); ok {
		d.store(categories)
		return categories, nil
	}

	categories, err := d.client.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	d.store(categories)
	d.fillCache(ctx, categories)
	return categories, nil
}

// CreateCategory registers a new category and refreshes the directory so the
// new entry is immediately selectable.
func (d *Directory) CreateCategory(ctx context.Context, name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return apperrors.New(apperrors.CodeValidation, "category name is required")
	}

	if err := d.client.CreateCategory(ctx, backend.CreateCategoryRequest{Name: trimmed}); err != nil {
		return err
	}

	d.invalidateCache(ctx)
	if _, err := d.Refresh(ctx); err != nil {
		// The create itself succeeded; the stale list self-heals on the
		// next refresh.
		if d.logg != nil {
			d.logg.Warn(ctx, "category list refresh failed after create")
		}
	}
	return nil
}

func (d *Directory) store(categories []backend.Category) {
	d.mu.Lock()
	d.categories = categories
	d.loaded = true
	d.mu.Unlock()
}

func (d *Directory) fromCache(ctx context.Context) ([]backend.Category, bool) {
	if d.cache == nil {
		return nil, false
	}
	raw, err := d.cache.Get(ctx, d.cache.CategoriesKey())
	if err != nil {
		if !errors.Is(err, redis.ErrCacheMiss) && d.logg != nil {
			d.logg.Warn(ctx, "category cache read failed")
		}
		return nil, false
	}
	var categories []backend.Category
	if err := json.Unmarshal([]byte(raw), &categories); err != nil {
		if d.logg != nil {
			d.logg.Warn(ctx, "category cache entry corrupt, dropping")
		}
		_ = d.cache.Del(ctx, d.cache.CategoriesKey())
		return nil, false
	}
	return categories, true
}

func (d *Directory) fillCache(ctx context.Context, categories []backend.Category) {
	if d.cache == nil {
		return
	}
	encoded, err := json.Marshal(categories)
	if err != nil {
		return
	}
	if err := d.cache.Set(ctx, d.cache.CategoriesKey(), string(encoded), d.ttl); err != nil && d.logg != nil {
		d.logg.Warn(ctx, "category cache write failed")
	}
}

func (d *Directory) invalidateCache(ctx context.Context) {
	if d.cache == nil {
		return
	}
	if err := d.cache.Del(ctx, d.cache.CategoriesKey()); err != nil && d.logg != nil {
		d.logg.Warn(ctx, "category cache invalidation failed")
	}
}
