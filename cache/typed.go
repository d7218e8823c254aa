package cache

import (
	"context"

	"github.com/vimiix/vcache/codec"
)

// Get retrieves a typed value from c. This is the type-hinted decode path:
// msgpack payloads (structs, maps, numbers) decode directly into T instead
// of the generic any shapes returned by Cache.Get.
func Get[T any](ctx context.Context, c *Cache, key string) (T, bool, error) {
	var v T
	b, ok, err := c.getBytes(ctx, key, false)
	if err != nil || !ok {
		return v, false, err
	}
	if err := codec.UnmarshalInto(b, &v); err != nil {
		c.codecError()
		var zero T
		return zero, false, err
	}
	return v, true, nil
}

// Once is the typed counterpart of Cache.Once: the cached or computed
// payload decodes into T.
func Once[T any](ctx context.Context, c *Cache, item *Item) (T, error) {
	var v T
	b, err := c.onceBytes(ctx, item)
	if err != nil {
		return v, err
	}
	if err := codec.UnmarshalInto(b, &v); err != nil {
		c.codecError()
		var zero T
		return zero, err
	}
	return v, nil
}
