package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/angelmondragon/sgr-storefront/pkg/config"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()

	srv := miniredis.RunT(t)
	client, err := New(context.Background(), config.RedisConfig{Address: srv.Addr()})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client, srv
}

func TestSetGetDel(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	key := client.CategoriesKey()
	if key != "sgr:cache:categories" {
		t.Fatalf("unexpected categories key %q", key)
	}

	if err := client.Set(ctx, key, `[{"id":1,"name":"Lighting"}]`, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, err := client.Get(ctx, key)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != `[{"id":1,"name":"Lighting"}]` {
		t.Fatalf("unexpected value %q", got)
	}

	if err := client.Del(ctx, key); err != nil {
		t.Fatalf("del: %v", err)
	}
	if _, err := client.Get(ctx, key); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected cache miss after delete, got %v", err)
	}
}

func TestGetExpiredKeyMisses(t *testing.T) {
	client, srv := newTestClient(t)
	ctx := context.Background()

	if err := client.Set(ctx, "sgr:cache:x", "v", time.Second); err != nil {
		t.Fatalf("set: %v", err)
	}
	srv.FastForward(2 * time.Second)

	if _, err := client.Get(ctx, "sgr:cache:x"); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected cache miss after TTL, got %v", err)
	}
}

func TestNewRequiresEndpoint(t *testing.T) {
	if _, err := New(context.Background(), config.RedisConfig{}); err == nil {
		t.Fatal("expected error without url or address")
	}
}

func TestUninitializedClientErrors(t *testing.T) {
	var client *Client
	if err := client.Ping(context.Background()); err == nil {
		t.Fatal("expected error from nil client")
	}
	if err := client.Close(); err != nil {
		t.Fatalf("close on nil client should be a no-op, got %v", err)
	}
}
