package cache

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	// Set does nothing (no error)
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	if _, hit, _ := c.Get(ctx, "missing"); hit {
		t.Error("Get(missing) should miss")
	}

	if err := c.Set(ctx, "k", []byte{0x89, 'P', 'N', 'G'}, 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit {
		t.Fatalf("Get = hit %v, err %v, want hit", hit, err)
	}
	if string(data) != "\x89PNG" {
		t.Errorf("Get data = %q, want %q", data, "\x89PNG")
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("Get after Delete should miss")
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete of missing key error: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	if err := c.Set(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry should miss")
	}
	if _, err := os.Stat(c.path("k")); !os.IsNotExist(err) {
		t.Error("expired entry should be removed from disk")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	_ = c.Set(ctx, "k", []byte("v"), 0)
	if err := os.WriteFile(c.path("k"), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("corrupt entry: hit=%v err=%v, want miss without error", hit, err)
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	for _, k := range []string{"a", "b", "c"} {
		_ = c.Set(ctx, k, []byte(k), 0)
	}

	n, err := c.Clear(ctx)
	if err != nil {
		t.Fatalf("Clear error: %v", err)
	}
	if n != 3 {
		t.Errorf("Clear() = %d, want 3", n)
	}
	entries, _ := os.ReadDir(c.Dir())
	if len(entries) != 0 {
		t.Errorf("cache dir has %d entries after Clear, want 0", len(entries))
	}
}

func TestHash(t *testing.T) {
	// Test determinism
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	// Test different inputs produce different hashes
	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// Test hash length (SHA-256 produces 64 hex chars)
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	k1 := k.ImageKey("https://example.com/a.png")
	k2 := k.ImageKey("https://example.com/b.png")
	if k1 == k2 {
		t.Error("Different URLs should produce different keys")
	}
	if !strings.HasPrefix(k1, "image:") {
		t.Errorf("ImageKey should be prefixed with image:, got %s", k1)
	}
	if k1 != k.ImageKey("https://example.com/a.png") {
		t.Error("ImageKey should be deterministic")
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "layerpaste:")

	key := scoped.ImageKey("https://example.com/a.png")
	if key != "layerpaste:"+inner.ImageKey("https://example.com/a.png") {
		t.Errorf("ScopedKeyer ImageKey unexpected: %s", key)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	// Should use DefaultKeyer when inner is nil
	scoped := NewScopedKeyer(nil, "prefix:")
	key := scoped.ImageKey("u")
	if key != "prefix:"+NewDefaultKeyer().ImageKey("u") {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}

func TestRedisCache(t *testing.T) {
	addr := os.Getenv("LAYERPASTE_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("LAYERPASTE_TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()
	c, err := NewRedisCache(ctx, RedisConfig{Addr: addr})
	if err != nil {
		t.Fatalf("NewRedisCache error: %v", err)
	}
	defer c.Close()

	key := "layerpaste-test:" + Hash([]byte(t.Name()))
	defer c.Delete(ctx, key)

	if _, hit, err := c.Get(ctx, key); hit || err != nil {
		t.Fatalf("Get(missing) = hit %v, err %v", hit, err)
	}
	if err := c.Set(ctx, key, []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, key)
	if err != nil || !hit || string(data) != "v" {
		t.Errorf("Get = %q, %v, %v, want \"v\", true, nil", data, hit, err)
	}
}

func TestNewRedisCacheUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	if _, err := NewRedisCache(ctx, RedisConfig{Addr: "127.0.0.1:1"}); err == nil {
		t.Error("NewRedisCache to closed port should fail")
	}
}
