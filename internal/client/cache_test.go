package client

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"
)

func TestRefCache_SingleUpstreamHitWithinTTL(t *testing.T) {
	cache := NewRefCache(time.Minute)
	calls := 0
	fetch := func(context.Context) (any, error) {
		calls++
		return []string{"Bo", "Kenema"}, nil
	}

	for i := 0; i < 3; i++ {
		value, err := cache.GetOrFetch(context.Background(), "/api/locations/regions", fetch)
		if err != nil {
			t.Fatal(err)
		}
		if got := value.([]string); len(got) != 2 {
			t.Fatalf("value = %v", got)
		}
	}
	if calls != 1 {
		t.Fatalf("expected 1 upstream hit, got %d", calls)
	}
}

func TestRefCache_ExpiresAndRefetches(t *testing.T) {
	cache := NewRefCache(time.Minute)
	now := time.Now()
	cache.now = func() time.Time { return now }

	calls := 0
	fetch := func(context.Context) (any, error) {
		calls++
		return calls, nil
	}

	if _, err := cache.GetOrFetch(context.Background(), "k", fetch); err != nil {
		t.Fatal(err)
	}
	now = now.Add(2 * time.Minute)
	value, err := cache.GetOrFetch(context.Background(), "k", fetch)
	if err != nil {
		t.Fatal(err)
	}
	if calls != 2 || value.(int) != 2 {
		t.Fatalf("calls=%d value=%v", calls, value)
	}
}

func TestRefCache_ErrorsAreNotCached(t *testing.T) {
	cache := NewRefCache(time.Minute)
	calls := 0
	fetch := func(context.Context) (any, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("upstream down")
		}
		return "ok", nil
	}

	if _, err := cache.GetOrFetch(context.Background(), "k", fetch); err == nil {
		t.Fatal("expected error")
	}
	value, err := cache.GetOrFetch(context.Background(), "k", fetch)
	if err != nil || value != "ok" {
		t.Fatalf("value=%v err=%v", value, err)
	}
}

func TestCacheKey_IncludesParams(t *testing.T) {
	params := url.Values{}
	params.Set("pathway", "ARTISAN")

	plain := CacheKey("/api/freelancers/available", nil)
	filtered := CacheKey("/api/freelancers/available", params)
	if plain == filtered {
		t.Fatal("params must change the key")
	}
	if filtered != "/api/freelancers/available?pathway=ARTISAN" {
		t.Fatalf("key = %q", filtered)
	}
}
