package scoring

import (
	"cmp"
	"slices"
)

type keyed[T any] struct {
	key  int
	item T
}

// splitByKey stable-sorts items by their keys and cuts the result into runs
// of equal key. keys[i] belongs to items[i].
func splitByKey[T any](items []T, keys []int) [][]keyed[T] {
	pairs := make([]keyed[T], len(items))
	for i, item := range items {
		pairs[i] = keyed[T]{key: keys[i], item: item}
	}
	slices.SortStableFunc(pairs, func(a, b keyed[T]) int {
		return cmp.Compare(a.key, b.key)
	})

	var runs [][]keyed[T]
	start := 0
	for i := 1; i <= len(pairs); i++ {
		if i == len(pairs) || pairs[i].key != pairs[start].key {
			runs = append(runs, pairs[start:i])
			start = i
		}
	}
	return runs
}

func unzip[T any](pairs []keyed[T]) []T {
	out := make([]T, len(pairs))
	for i, p := range pairs {
		out[i] = p.item
	}
	return out
}
