package main

import (
	"math/rand"
	"sort"
)

// ChooseWeighted picks a key with probability proportional to its weight.
// Keys are visited in sorted order so a seeded source replays the same picks.
func ChooseWeighted[Key ~string](r *rand.Rand, weights map[Key]int) Key {
	keys := make([]Key, 0, len(weights))
	var sum int
	for k, w := range weights {
		if w <= 0 {
			continue
		}
		keys = append(keys, k)
		sum += w
	}
	if sum == 0 {
		return *new(Key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	i := r.Intn(sum)
	var s int
	for _, k := range keys {
		s += weights[k]
		if s > i {
			return k
		}
	}
	panic("shouldn't get here")
}
