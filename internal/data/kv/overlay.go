package kv

import (
	"context"
	"slices"

	"github.com/wallet-ledger/internal/platform/kvstore"
)

// overlay is a persisted list of entities identified by id, read on top of a seed list.
// Seed entries come first; a persisted entry replaces the seed entry with the same id
// and the remaining persisted entries are appended.
type overlay[T any] struct {
	store kvstore.Store
	key   string
	id    func(T) string
}

func (o overlay[T]) load(ctx context.Context) ([]T, error) {
	return kvstore.GetJSON(ctx, o.store, o.key, []T{})
}

func (o overlay[T]) save(ctx context.Context, items []T) error {
	return kvstore.SetJSON(ctx, o.store, o.key, items)
}

func (o overlay[T]) merge(seedItems, persisted []T) []T {
	merged := slices.Clone(seedItems)
	for _, item := range persisted {
		idx := slices.IndexFunc(merged, func(existing T) bool { return o.id(existing) == o.id(item) })
		if idx >= 0 {
			merged[idx] = item
			continue
		}
		merged = append(merged, item)
	}
	return merged
}

// upsert replaces the persisted entry with the same id or appends item
func (o overlay[T]) upsert(ctx context.Context, item T) error {
	items, err := o.load(ctx)
	if err != nil {
		return err
	}
	idx := slices.IndexFunc(items, func(existing T) bool { return o.id(existing) == o.id(item) })
	if idx >= 0 {
		items[idx] = item
	} else {
		items = append(items, item)
	}
	return o.save(ctx, items)
}

func (o overlay[T]) contains(ctx context.Context, id string) (bool, error) {
	items, err := o.load(ctx)
	if err != nil {
		return false, err
	}
	return slices.ContainsFunc(items, func(item T) bool { return o.id(item) == id }), nil
}
