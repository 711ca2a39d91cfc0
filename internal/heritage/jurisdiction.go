package heritage

import "slices"

// JurisdictionChange is the difference between a site's persisted countries
// and a newly submitted set. All slices are sorted and free of duplicates.
type JurisdictionChange struct {
	Added     []int64
	Removed   []int64
	Unchanged []int64
}

// Empty reports whether applying the change would touch no rows.
func (c JurisdictionChange) Empty() bool {
	return len(c.Added) == 0 && len(c.Removed) == 0
}

// DiffJurisdictions returns the inserts and deletes that turn previous into
// submitted. IDs present in both sets are reported as unchanged.
func DiffJurisdictions(previous, submitted []int64) JurisdictionChange {
	old := UniqueIDs(previous)
	next := UniqueIDs(submitted)

	change := JurisdictionChange{
		Added:     []int64{},
		Removed:   []int64{},
		Unchanged: []int64{},
	}

	// Both inputs are sorted: walk them together.
	i, j := 0, 0
	for i < len(old) || j < len(next) {
		switch {
		case j == len(next) || (i < len(old) && old[i] < next[j]):
			change.Removed = append(change.Removed, old[i])
			i++
		case i == len(old) || next[j] < old[i]:
			change.Added = append(change.Added, next[j])
			j++
		default:
			change.Unchanged = append(change.Unchanged, old[i])
			i++
			j++
		}
	}
	return change
}

// UniqueIDs returns ids sorted ascending with duplicates removed.
func UniqueIDs(ids []int64) []int64 {
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}
