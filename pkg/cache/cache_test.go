package cache

import (
	"context"
	"testing"
	"time"
)

func TestFileCache_RoundTrip(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error = %v", err)
	}
	defer c.Close()
	ctx := context.Background()

	if _, hit, err := c.Get(ctx, "missing"); err != nil || hit {
		t.Errorf("Get(missing) = hit %v, err %v, want miss", hit, err)
	}

	if err := c.Set(ctx, "k", []byte("payload"), 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit {
		t.Fatalf("Get() = hit %v, err %v, want hit", hit, err)
	}
	if string(data) != "payload" {
		t.Errorf("Get() = %q, want %q", data, "payload")
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("Get() after Delete() should miss")
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete(missing) error = %v, want nil", err)
	}
}

func TestFileCache_Expiry(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error = %v", err)
	}
	defer c.Close()
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry should miss")
	}
}

func TestNullCache_AlwaysMisses(t *testing.T) {
	c := NewNullCache()
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if _, hit, err := c.Get(ctx, "k"); err != nil || hit {
		t.Errorf("Get() = hit %v, err %v, want miss", hit, err)
	}
}

func TestKeys_DeterministicAndDistinct(t *testing.T) {
	zmax := 0.0
	a := DomainKey("coast.asc", nil, &zmax, 256, 2)
	b := DomainKey("coast.asc", nil, &zmax, 256, 2)
	if a != b {
		t.Error("same parameters must produce the same key")
	}

	c := DomainKey("coast.asc", nil, &zmax, 512, 2)
	if a == c {
		t.Error("different parameters must produce different keys")
	}

	d := FieldKey("coast.asc", nil, nil, "contour", 0.0, 50.0, 0.01)
	if a == d || d == FieldKey("coast.asc", nil, nil) {
		t.Error("field keys must differ by prefix and constraints")
	}
}
