package selector

import "github.com/lox/genericpoker/internal/card"

// forEachCombo invokes fn once per distinct k-card combination of items, in
// lexicographic index order. The slice passed to fn is reused between calls
// and must not be retained.
func forEachCombo(items []card.Card, k int, fn func(combo []card.Card)) {
	n := len(items)
	if k < 0 || k > n {
		return
	}
	if k == 0 {
		fn(nil)
		return
	}
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	combo := make([]card.Card, k)
	for {
		for i, j := range idx {
			combo[i] = items[j]
		}
		fn(combo)

		i := k - 1
		for i >= 0 && idx[i] == i+n-k {
			i--
		}
		if i < 0 {
			return
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}

// forEachRegionCombination enumerates every way to pick counts[i] cards from
// regionPools[i] for each region independently, concatenating the per-region
// picks into one combined combo per call to fn. fn may return an error to
// abort enumeration early.
func forEachRegionCombination(regionPools [][]card.Card, counts []int, fn func(combo []card.Card) error) error {
	combo := make([]card.Card, 0, sumInts(counts))
	var recurse func(i int) error
	recurse = func(i int) error {
		if i == len(regionPools) {
			return fn(combo)
		}
		n := counts[i]
		var inner error
		forEachCombo(regionPools[i], n, func(pick []card.Card) {
			if inner != nil {
				return
			}
			base := len(combo)
			combo = append(combo, pick...)
			inner = recurse(i + 1)
			combo = combo[:base]
		})
		return inner
	}
	return recurse(0)
}

func sumInts(xs []int) int {
	total := 0
	for _, x := range xs {
		total += x
	}
	return total
}
