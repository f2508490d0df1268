package library

import "github.com/soocke/assetpicker-go/domain/collection"

// ComputeDiff describes how before became after. Assets match by ID. Items
// whose relative order changed are reported as moves, chosen so that the
// longest run of items keeping their order stays put. Moved items are not
// also reported as changed.
func ComputeDiff(before, after []Asset) collection.Diff {
	d := collection.Diff{Incremental: true}

	oldIndex := make(map[string]int, len(before))
	for i, a := range before {
		oldIndex[a.ID] = i
	}
	newIndex := make(map[string]int, len(after))
	for i, a := range after {
		newIndex[a.ID] = i
	}

	for i, a := range before {
		if _, ok := newIndex[a.ID]; !ok {
			d.Removed = append(d.Removed, i)
		}
	}

	// old indexes of common items, in new order
	var common []int
	var commonNew []int
	for j, a := range after {
		i, ok := oldIndex[a.ID]
		if !ok {
			d.Inserted = append(d.Inserted, j)
			continue
		}
		common = append(common, i)
		commonNew = append(commonNew, j)
	}

	stay := longestIncreasing(common)
	for k, i := range common {
		j := commonNew[k]
		if !stay[k] {
			d.Moves = append(d.Moves, collection.Move{From: i, To: j})
			continue
		}
		if assetChanged(before[i], after[j]) {
			d.Changed = append(d.Changed, i)
		}
	}
	return d
}

func assetChanged(a, b Asset) bool {
	return a.Kind != b.Kind || a.Size != b.Size || !a.Modified.Equal(b.Modified) ||
		a.Path != b.Path || a.PairedMovie != b.PairedMovie
}

// longestIncreasing marks the members of one longest strictly increasing
// subsequence of seq.
func longestIncreasing(seq []int) []bool {
	keep := make([]bool, len(seq))
	if len(seq) == 0 {
		return keep
	}
	tails := make([]int, 0, len(seq)) // positions in seq
	prev := make([]int, len(seq))
	for k, v := range seq {
		lo, hi := 0, len(tails)
		for lo < hi {
			mid := (lo + hi) / 2
			if seq[tails[mid]] < v {
				lo = mid + 1
			} else {
				hi = mid
			}
		}
		if lo > 0 {
			prev[k] = tails[lo-1]
		} else {
			prev[k] = -1
		}
		if lo == len(tails) {
			tails = append(tails, k)
		} else {
			tails[lo] = k
		}
	}
	for k := tails[len(tails)-1]; k >= 0; k = prev[k] {
		keep[k] = true
	}
	return keep
}
