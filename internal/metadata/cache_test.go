package metadata

import (
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time            { return f.t }
func (f *fakeClock) advance(d time.Duration) { f.t = f.t.Add(d) }

func newClockedCache(maxItems int) (*Cache, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	cache := NewCache(CacheConfig{TTL: time.Minute, MaxItems: maxItems})
	cache.now = clock.now
	return cache, clock
}

func TestCache_SetGet(t *testing.T) {
	cache := NewCache(CacheConfig{TTL: time.Minute, MaxItems: 100})

	cache.Set("key1", "value1")

	val, ok := cache.Get("key1")
	if !ok {
		t.Error("expected key1 to exist")
	}
	if val != "value1" {
		t.Errorf("expected value1, got %v", val)
	}
}

func TestCache_GetMissing(t *testing.T) {
	cache := NewCache(CacheConfig{TTL: time.Minute, MaxItems: 100})

	if _, ok := cache.Get("nonexistent"); ok {
		t.Error("expected key to not exist")
	}
}

func TestCache_Expiration(t *testing.T) {
	cache, clock := newClockedCache(100)

	cache.Set("key1", "value1")

	if _, ok := cache.Get("key1"); !ok {
		t.Error("expected key1 to exist immediately")
	}

	clock.advance(2 * time.Minute)

	if _, ok := cache.Get("key1"); ok {
		t.Error("expected key1 to be expired")
	}
}

func TestCache_SetWithTTL(t *testing.T) {
	cache, clock := newClockedCache(100)

	cache.SetWithTTL("short", "value1", 10*time.Second)
	cache.Set("long", "value2")

	clock.advance(30 * time.Second)

	if _, ok := cache.Get("short"); ok {
		t.Error("expected short to be expired")
	}
	if _, ok := cache.Get("long"); !ok {
		t.Error("expected long to still exist")
	}
}

func TestCache_Delete(t *testing.T) {
	cache := NewCache(CacheConfig{TTL: time.Minute, MaxItems: 100})

	cache.Set("key1", "value1")
	cache.Delete("key1")

	if _, ok := cache.Get("key1"); ok {
		t.Error("expected key1 to be deleted")
	}
}

func TestCache_Clear(t *testing.T) {
	cache := NewCache(CacheConfig{TTL: time.Minute, MaxItems: 100})

	cache.Set("key1", "value1")
	cache.Set("key2", "value2")
	cache.Clear()

	if cache.Len() != 0 {
		t.Errorf("expected empty cache, got %d items", cache.Len())
	}
}

func TestCache_Prune(t *testing.T) {
	cache, clock := newClockedCache(100)

	cache.SetWithTTL("a", 1, 10*time.Second)
	cache.SetWithTTL("b", 2, 10*time.Second)
	cache.Set("c", 3)

	clock.advance(20 * time.Second)

	if dropped := cache.Prune(); dropped != 2 {
		t.Errorf("Prune() = %d, want 2", dropped)
	}
	if cache.Len() != 1 {
		t.Errorf("expected 1 item after prune, got %d", cache.Len())
	}
}

func TestCache_Eviction(t *testing.T) {
	cache := NewCache(CacheConfig{TTL: time.Minute, MaxItems: 5})

	for i := 0; i < 10; i++ {
		cache.Set(string(rune('a'+i)), i)
	}

	if cache.Len() > 5 {
		t.Errorf("expected at most 5 items, got %d", cache.Len())
	}
	if _, ok := cache.Get("j"); !ok {
		t.Error("expected most recent insert to survive eviction")
	}
}

func TestCache_EvictionPrefersSoonestExpiry(t *testing.T) {
	cache, _ := newClockedCache(2)

	cache.SetWithTTL("soon", 1, time.Second)
	cache.SetWithTTL("late", 2, time.Hour)
	cache.Set("new", 3)

	if _, ok := cache.Get("soon"); ok {
		t.Error("expected soonest-expiring item to be evicted")
	}
	if _, ok := cache.Get("late"); !ok {
		t.Error("expected late item to survive")
	}
}

func TestCache_GetMovies(t *testing.T) {
	cache := NewCache(CacheConfig{TTL: time.Minute, MaxItems: 100})

	cache.Set("movies:search:test", []MovieSummary{
		{ID: 1, Title: "Movie 1"},
		{ID: 2, Title: "Movie 2"},
	})

	got, ok := cache.GetMovies("movies:search:test")
	if !ok {
		t.Fatal("expected results to exist")
	}
	if len(got) != 2 {
		t.Errorf("expected 2 results, got %d", len(got))
	}
	if got[0].Title != "Movie 1" {
		t.Errorf("expected Movie 1, got %s", got[0].Title)
	}
}

func TestCache_GetGenres(t *testing.T) {
	cache := NewCache(CacheConfig{TTL: time.Minute, MaxItems: 100})

	cache.Set(genresCacheKey, []Genre{{ID: 28, Name: "Action"}})

	got, ok := cache.GetGenres(genresCacheKey)
	if !ok || len(got) != 1 || got[0].Name != "Action" {
		t.Errorf("GetGenres() = %v, %v", got, ok)
	}
}

func TestCache_TypeMismatch(t *testing.T) {
	cache := NewCache(CacheConfig{TTL: time.Minute, MaxItems: 100})

	cache.Set("key", "string value")

	if _, ok := cache.GetMovies("key"); ok {
		t.Error("expected type mismatch to return false")
	}
}
