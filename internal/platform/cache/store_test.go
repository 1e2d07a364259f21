package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestStoreGetSet(t *testing.T) {
	ctx := context.Background()
	s := NewStore(time.Minute)

	if _, ok := s.Get(ctx, "standings:L1"); ok {
		t.Fatal("empty store should miss")
	}
	s.Set(ctx, "standings:L1", []int{1, 2, 3})
	got, ok := s.Get(ctx, "standings:L1")
	if !ok {
		t.Fatal("expected hit")
	}
	if len(got.([]int)) != 3 {
		t.Fatalf("unexpected value %v", got)
	}
}

func TestStoreExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	s := NewStore(time.Minute).WithClock(func() time.Time { return now })

	s.Set(ctx, "injuries:L1", "payload")
	now = now.Add(2 * time.Minute)
	if _, ok := s.Get(ctx, "injuries:L1"); ok {
		t.Fatal("entry should have expired")
	}
}

func TestStoreSetTTLOverridesDefault(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	s := NewStore(time.Minute).WithClock(func() time.Time { return now })

	s.SetTTL(ctx, "pool:L1", "payload", time.Hour)
	now = now.Add(30 * time.Minute)
	if _, ok := s.Get(ctx, "pool:L1"); !ok {
		t.Fatal("long-ttl entry should survive the default window")
	}
}

func TestStoreDeletePrefix(t *testing.T) {
	ctx := context.Background()
	s := NewStore(0)
	s.Set(ctx, "feeds:L1:standings", 1)
	s.Set(ctx, "feeds:L1:injuries", 2)
	s.Set(ctx, "feeds:L2:standings", 3)

	s.DeletePrefix(ctx, "feeds:L1:")

	if _, ok := s.Get(ctx, "feeds:L1:standings"); ok {
		t.Fatal("prefixed entry should be gone")
	}
	if _, ok := s.Get(ctx, "feeds:L2:standings"); !ok {
		t.Fatal("other championship should survive")
	}
}

func TestStoreGetOrLoad(t *testing.T) {
	ctx := context.Background()
	s := NewStore(time.Minute)

	calls := 0
	loader := func(context.Context) (any, error) {
		calls++
		return "loaded", nil
	}
	for i := 0; i < 3; i++ {
		v, err := s.GetOrLoad(ctx, "fixtures:L1", loader)
		if err != nil || v != "loaded" {
			t.Fatalf("GetOrLoad = %v, %v", v, err)
		}
	}
	if calls != 1 {
		t.Fatalf("loader ran %d times, want 1", calls)
	}
}

func TestStoreGetOrLoadError(t *testing.T) {
	ctx := context.Background()
	s := NewStore(time.Minute)

	boom := errors.New("feed down")
	_, err := s.GetOrLoad(ctx, "fixtures:L1", func(context.Context) (any, error) { return nil, boom })
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
	// errors are not cached
	v, err := s.GetOrLoad(ctx, "fixtures:L1", func(context.Context) (any, error) { return "ok", nil })
	if err != nil || v != "ok" {
		t.Fatalf("retry = %v, %v", v, err)
	}
}
