package gleif

import (
	"testing"
	"time"
)

func TestRecordCache(t *testing.T) {
	cache := NewRecordCache(&CacheConfig{Enabled: true, TTL: time.Minute})
	rec := FlatRecord{FieldLEI: "5493001KJTIIGC8Y1R12", FieldLegalName: "ACME CORP"}

	if _, ok := cache.Get("5493001KJTIIGC8Y1R12"); ok {
		t.Fatal("empty cache returned a record")
	}

	cache.Set("5493001KJTIIGC8Y1R12", rec)
	got, ok := cache.Get("5493001KJTIIGC8Y1R12")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if got[FieldLegalName] != "ACME CORP" {
		t.Errorf("unexpected cached record: %v", got)
	}

	stats := cache.Stats()
	if stats.Hits != 1 || stats.Misses != 1 || stats.Size != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestRecordCacheTTL(t *testing.T) {
	cache := NewRecordCache(&CacheConfig{Enabled: true, TTL: time.Nanosecond})
	cache.Set("X", FlatRecord{FieldLEI: "X"})

	time.Sleep(time.Millisecond)
	if _, ok := cache.Get("X"); ok {
		t.Error("expired entry returned")
	}
}

func TestRecordCacheDisabled(t *testing.T) {
	cache := NewRecordCache(&CacheConfig{Enabled: false})
	cache.Set("X", FlatRecord{FieldLEI: "X"})
	if _, ok := cache.Get("X"); ok {
		t.Error("disabled cache returned a record")
	}
}

func TestRecordCacheIgnoresSentinelKeys(t *testing.T) {
	cache := NewRecordCache(&CacheConfig{Enabled: true, TTL: time.Minute})
	cache.Set("", FlatRecord{})
	cache.Set(Sentinel, FlatRecord{})
	if stats := cache.Stats(); stats.Size != 0 {
		t.Errorf("sentinel keys must not be cached, size = %d", stats.Size)
	}
}
