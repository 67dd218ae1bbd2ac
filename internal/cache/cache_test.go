package cache

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestKey_NamespacedAndStable(t *testing.T) {
	a := Key("invoice automation")
	b := Key("invoice automation")
	c := Key("invoice automation ")

	if a != b {
		t.Errorf("same input produced different keys: %q vs %q", a, b)
	}
	if a == c {
		t.Error("distinct inputs should not collide")
	}
	if !strings.HasPrefix(a, "ideascout:v1:") {
		t.Errorf("key missing namespace prefix: %q", a)
	}
}

func TestDiskCache_RoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	c := NewDiskCache(dir, time.Hour)

	key := Key("roundtrip")
	if err := c.Set(key, []byte("payload"), 0); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	got, found := c.Get(key)
	if !found {
		t.Fatal("expected cache hit")
	}
	if string(got) != "payload" {
		t.Errorf("got %q, want payload", got)
	}

	// The namespace uses colons, which must not reach the filesystem
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read cache dir: %v", err)
	}
	for _, entry := range entries {
		if strings.Contains(entry.Name(), ":") {
			t.Errorf("cache file name contains a colon: %q", entry.Name())
		}
	}
}

func TestDiskCache_ExpiredEntryMisses(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Hour)

	key := Key("stale")
	if err := c.Set(key, []byte("old"), -time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if _, found := c.Get(key); found {
		t.Error("expired entry should miss")
	}
}

func TestDiskCache_MissingKeyMisses(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Hour)
	if _, found := c.Get(Key("never-set")); found {
		t.Error("unexpected hit for a key that was never set")
	}
}

func TestLayeredCache_PromotesDiskHits(t *testing.T) {
	dir := t.TempDir()
	c := NewLayeredCache(time.Hour, dir, time.Hour)

	key := Key("promoted")
	if err := c.Set(key, []byte("value"), 0); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	// A fresh layered cache over the same directory simulates a new
	// process: memory is cold, disk is warm
	restarted := NewLayeredCache(time.Hour, dir, time.Hour)
	got, found := restarted.Get(key)
	if !found {
		t.Fatal("disk layer should survive a restart")
	}
	if string(got) != "value" {
		t.Errorf("got %q, want value", got)
	}

	// After promotion the memory layer answers directly
	if _, found := restarted.memory.Get(key); !found {
		t.Error("disk hit was not promoted to memory")
	}
}

func TestLayeredCache_DeleteRemovesBothLayers(t *testing.T) {
	c := NewLayeredCache(time.Hour, t.TempDir(), time.Hour)

	key := Key("doomed")
	if err := c.Set(key, []byte("x"), 0); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if err := c.Delete(key); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, found := c.Get(key); found {
		t.Error("deleted key should miss in both layers")
	}
}

func TestMemoryCache_TTLOverride(t *testing.T) {
	c := NewMemoryCache(time.Hour, time.Hour)

	key := Key("short-lived")
	if err := c.Set(key, []byte("x"), time.Nanosecond); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, found := c.Get(key); found {
		t.Error("per-entry TTL should override the default")
	}
}
