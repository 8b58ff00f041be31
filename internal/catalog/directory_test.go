package catalog

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/angelmondragon/sgr-storefront/pkg/backend"
	"github.com/angelmondragon/sgr-storefront/pkg/config"
	"github.com/angelmondragon/sgr-storefront/pkg/redis"
)

type fakeCategoryClient struct {
	mu         sync.Mutex
	categories []backend.Category
	listCalls  int
	created    []string
	listErr    error
}

func (f *fakeCategoryClient) ListCategories(context.Context) ([]backend.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.categories, nil
}

func (f *fakeCategoryClient) CreateCategory(_ context.Context, req backend.CreateCategoryRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, req.Name)
	f.categories = append(f.categories, backend.Category{ID: int64(len(f.categories) + 1), Name: req.Name})
	return nil
}

func newCacheClient(t *testing.T) *redis.Client {
	t.Helper()
	srv := miniredis.RunT(t)
	client, err := redis.New(context.Background(), config.RedisConfig{Address: srv.Addr()})
	if err != nil {
		t.Fatalf("new redis client: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestCategoriesLoadOnceAndMemoize(t *testing.T) {
	client := &fakeCategoryClient{categories: []backend.Category{{ID: 1, Name: "Lighting"}}}
	directory, err := NewDirectory(client, nil)
	if err != nil {
		t.Fatalf("new directory: %v", err)
	}
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		categories, err := directory.Categories(ctx)
		if err != nil {
			t.Fatalf("categories: %v", err)
		}
		if len(categories) != 1 || categories[0].Name != "Lighting" {
			t.Fatalf("unexpected categories %+v", categories)
		}
	}
	if client.listCalls != 1 {
		t.Fatalf("expected one backend call, got %d", client.listCalls)
	}
}

func TestCategoriesReadThroughCache(t *testing.T) {
	cache := newCacheClient(t)
	ctx := context.Background()

	first := &fakeCategoryClient{categories: []backend.Category{{ID: 1, Name: "Lighting"}}}
	directory, err := NewDirectory(first, nil, WithCache(cache, time.Hour))
	if err != nil {
		t.Fatalf("new directory: %v", err)
	}
	if _, err := directory.Categories(ctx); err != nil {
		t.Fatalf("categories: %v", err)
	}

	// A fresh directory over the same cache must not touch the backend.
	second := &fakeCategoryClient{listErr: errors.New("backend down")}
	cached, err := NewDirectory(second, nil, WithCache(cache, time.Hour))
	if err != nil {
		t.Fatalf("new directory: %v", err)
	}
	categories, err := cached.Categories(ctx)
	if err != nil {
		t.Fatalf("categories from cache: %v", err)
	}
	if len(categories) != 1 || categories[0].Name != "Lighting" {
		t.Fatalf("unexpected cached categories %+v", categories)
	}
	if second.listCalls != 0 {
		t.Fatalf("cache hit must skip the backend, got %d calls", second.listCalls)
	}
}

func TestCreateCategoryInvalidatesCacheAndRefreshes(t *testing.T) {
	cache := newCacheClient(t)
	ctx := context.Background()

	client := &fakeCategoryClient{categories: []backend.Category{{ID: 1, Name: "Lighting"}}}
	directory, err := NewDirectory(client, nil, WithCache(cache, time.Hour))
	if err != nil {
		t.Fatalf("new directory: %v", err)
	}
	if _, err := directory.Categories(ctx); err != nil {
		t.Fatalf("categories: %v", err)
	}

	if err := directory.CreateCategory(ctx, "  Tables  "); err != nil {
		t.Fatalf("create category: %v", err)
	}
	if len(client.created) != 1 || client.created[0] != "Tables" {
		t.Fatalf("expected trimmed name sent, got %v", client.created)
	}

	names, err := directory.Names(ctx)
	if err != nil {
		t.Fatalf("names: %v", err)
	}
	if len(names) != 2 || names[1] != "Tables" {
		t.Fatalf("new category must be selectable immediately, got %v", names)
	}
}

func TestCreateCategoryRequiresName(t *testing.T) {
	client := &fakeCategoryClient{}
	directory, err := NewDirectory(client, nil)
	if err != nil {
		t.Fatalf("new directory: %v", err)
	}
	if err := directory.CreateCategory(context.Background(), "   "); err == nil {
		t.Fatal("expected validation error for blank name")
	}
	if len(client.created) != 0 {
		t.Fatalf("backend must not be called, got %v", client.created)
	}
}
