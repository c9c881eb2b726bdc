package kvstore

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/angelmondragon/storefront-client/pkg/config"
	"github.com/redis/go-redis/v9"
)

func TestRedisLifecycle(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	store := &Redis{store: mock}

	if err := store.Set(ctx, TokenKey, "token-value"); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if _, ok := mock.data["sf:"+TokenKey]; !ok {
		t.Fatalf("expected namespaced key, have %v", mock.data)
	}

	value, err := store.Get(ctx, TokenKey)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if value != "token-value" {
		t.Fatalf("unexpected value %q", value)
	}

	if err := store.Remove(ctx, TokenKey); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if _, err := store.Get(ctx, TokenKey); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after remove, got %v", err)
	}

	// Removing again must stay error-free.
	if err := store.Remove(ctx, TokenKey); err != nil {
		t.Fatalf("second remove failed: %v", err)
	}
}

func TestOptionsFromConfigRequiresTarget(t *testing.T) {
	if _, err := optionsFromConfig(config.RedisConfig{}); err == nil {
		t.Fatal("expected error when neither url nor address is set")
	}

	opts, err := optionsFromConfig(config.RedisConfig{Address: "localhost:6379", PoolSize: 4, DialTimeout: time.Second})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Addr != "localhost:6379" || opts.PoolSize != 4 {
		t.Fatalf("options not applied: %+v", opts)
	}

	if _, err := optionsFromConfig(config.RedisConfig{URL: "://broken"}); err == nil {
		t.Fatal("expected error for malformed url")
	}
}

type mockCmdable struct {
	data map[string]string
}

func newMockCmdable() *mockCmdable {
	return &mockCmdable{data: make(map[string]string)}
}

func (m *mockCmdable) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (m *mockCmdable) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	m.data[key] = fmt.Sprint(value)
	return redis.NewStatusResult("OK", nil)
}

func (m *mockCmdable) Get(ctx context.Context, key string) *redis.StringCmd {
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *mockCmdable) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	for _, key := range keys {
		delete(m.data, key)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}
