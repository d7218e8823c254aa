package cache

import (
	"context"
	"errors"
	"testing"
)

// The default cache is a singleton: callers share one instance, and
// SetDefault is rejected once it is initialized. Not parallel; the
// singleton is process-wide state.
func TestDefault_Singleton(t *testing.T) {
	c := Default()
	if c == nil {
		t.Fatal("Default must construct a cache on first use")
	}
	if Default() != c {
		t.Fatal("Default must return the same instance")
	}

	if err := SetDefault(New(Options{})); !errors.Is(err, ErrDefaultInitialized) {
		t.Fatalf("SetDefault after init: want ErrDefaultInitialized, got %v", err)
	}
	if Default() != c {
		t.Fatal("rejected SetDefault must leave the existing cache in place")
	}

	ctx := context.Background()
	if err := c.Set(ctx, &Item{Key: "k", Value: "v"}); err != nil {
		t.Fatal(err)
	}
	if v, ok, _ := Default().Get(ctx, "k"); !ok || v != "v" {
		t.Fatalf("value written through the default cache must be readable: %v %v", v, ok)
	}
}
