package cache

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/citewatch/internal/model"
)

func TestKey(t *testing.T) {
	a := Key("https://example.com/a")
	b := Key("https://example.com/b")

	if !strings.HasPrefix(a, "citewatch:v1:") {
		t.Errorf("Expected versioned prefix, got %s", a)
	}
	if a == b {
		t.Error("Expected distinct keys for distinct URLs")
	}
	if a != Key("https://example.com/a") {
		t.Error("Expected stable keys")
	}
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if _, ok := c.Get("missing"); ok {
		t.Error("Expected miss for unknown key")
	}

	_ = c.Set("k", []byte("v"), 0)
	val, ok := c.Get("k")
	if !ok || string(val) != "v" {
		t.Errorf("Expected hit with v, got %q (%v)", val, ok)
	}
	if c.Len() != 1 {
		t.Errorf("Expected 1 entry, got %d", c.Len())
	}

	_ = c.Delete("k")
	if _, ok := c.Get("k"); ok {
		t.Error("Expected miss after delete")
	}
}

func TestDiskCache_RoundTripAndExpiry(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Hour)

	key := Key("https://example.com/page")
	if err := c.Set(key, []byte("payload"), 0); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	val, ok := c.Get(key)
	if !ok || string(val) != "payload" {
		t.Errorf("Expected payload, got %q (%v)", val, ok)
	}

	// Entries are sharded by hash prefix
	name := strings.TrimPrefix(key, "citewatch:v1:")
	if _, err := os.Stat(filepath.Join(dir, name[:2], name+".json")); err != nil {
		t.Errorf("Expected sharded cache file, got %v", err)
	}

	c.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, ok := c.Get(key); ok {
		t.Error("Expected expired entry to miss")
	}
	if _, err := os.Stat(filepath.Join(dir, name[:2], name+".json")); !os.IsNotExist(err) {
		t.Error("Expected expired entry to be removed")
	}
}

func TestDiskCache_DeleteMissing(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Hour)
	if err := c.Delete(Key("nothing")); err != nil {
		t.Errorf("Expected no error deleting a missing entry, got %v", err)
	}
}

func TestLayeredCache_PromotesDiskHits(t *testing.T) {
	dir := t.TempDir()
	key := Key("https://example.com/promote")

	// Populate disk through a first instance
	first := NewLayeredCache(time.Minute, dir, time.Hour)
	if err := first.Set(key, []byte("doc"), 0); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// A fresh instance has an empty memory layer
	second := NewLayeredCache(time.Minute, dir, time.Hour)
	val, ok := second.Get(key)
	if !ok || string(val) != "doc" {
		t.Fatalf("Expected disk hit, got %q (%v)", val, ok)
	}
	if _, ok := second.memory.Get(key); !ok {
		t.Error("Expected disk hit to be promoted to memory")
	}

	if err := second.Clear(); err != nil {
		t.Errorf("Expected no error clearing, got %v", err)
	}
	if _, ok := second.Get(key); ok {
		t.Error("Expected miss after clear")
	}

	stats := second.Stats()
	if stats.DiskHits != 1 || stats.MemoryHits != 0 || stats.Misses != 1 {
		t.Errorf("Expected 1 disk hit and 1 miss, got %+v", stats)
	}
}

func TestLayeredCache_CountsMemoryHits(t *testing.T) {
	c := NewLayeredCache(time.Minute, t.TempDir(), time.Hour)
	_ = c.Set("k", []byte("v"), 0)

	for i := 0; i < 3; i++ {
		if _, ok := c.Get("k"); !ok {
			t.Fatal("Expected hit")
		}
	}

	var reporter StatsReporter = c
	if got := reporter.Stats().MemoryHits; got != 3 {
		t.Errorf("Expected 3 memory hits, got %d", got)
	}
}

func TestJSONHelpers(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	type doc struct {
		Title string `json:"title"`
	}

	if err := SetJSON(c, "doc", doc{Title: "Acme"}, 0); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	var got doc
	if !GetJSON(c, "doc", &got) || got.Title != "Acme" {
		t.Errorf("Expected decoded doc, got %+v", got)
	}

	_ = c.Set("bad", []byte("{not json"), 0)
	if GetJSON(c, "bad", &got) {
		t.Error("Expected undecodable entry to miss")
	}
	if _, ok := c.Get("bad"); ok {
		t.Error("Expected undecodable entry to be dropped")
	}
}

func TestNew(t *testing.T) {
	disabled := New(model.CacheConfig{Enabled: false})
	_ = disabled.Set("k", []byte("v"), 0)
	if _, ok := disabled.Get("k"); ok {
		t.Error("Expected disabled cache to store nothing")
	}

	enabled := New(model.CacheConfig{Enabled: true, Dir: t.TempDir(), MemoryTTL: time.Minute, DiskTTL: time.Hour})
	_ = enabled.Set("k", []byte("v"), 0)
	if _, ok := enabled.Get("k"); !ok {
		t.Error("Expected enabled cache to store values")
	}
}
