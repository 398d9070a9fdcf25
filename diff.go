package gameloc

import "sort"

// UnitDiff represents the difference between two versions of a unit list.
type UnitDiff struct {
	// Added contains units whose text is not in the previous version.
	Added []TranslationUnit

	// Removed contains units whose text is not in the new version.
	Removed []TranslationUnit

	// Unchanged contains units whose text exists in both versions.
	Unchanged []TranslationUnit

	// Modified pairs units at the same location whose text changed.
	Modified []ModifiedUnit
}

// ModifiedUnit represents a unit whose text changed in place.
type ModifiedUnit struct {
	Old TranslationUnit
	New TranslationUnit
}

// DiffStats contains summary statistics for a diff.
type DiffStats struct {
	Added     int `json:"added"`
	Removed   int `json:"removed"`
	Unchanged int `json:"unchanged"`
	Modified  int `json:"modified"`
}

// Stats returns summary statistics for the diff.
func (d *UnitDiff) Stats() DiffStats {
	return DiffStats{
		Added:     len(d.Added),
		Removed:   len(d.Removed),
		Unchanged: len(d.Unchanged),
		Modified:  len(d.Modified),
	}
}

// HasChanges returns true if there are any differences.
func (d *UnitDiff) HasChanges() bool {
	return len(d.Added) > 0 || len(d.Removed) > 0 || len(d.Modified) > 0
}

// NeedsTranslation returns the new and modified units in new-version order.
func (d *UnitDiff) NeedsTranslation() []TranslationUnit {
	result := make([]TranslationUnit, 0, len(d.Added)+len(d.Modified))
	result = append(result, d.Added...)
	for _, m := range d.Modified {
		result = append(result, m.New)
	}
	sortUnits(result)
	return result
}

// DiffUnits compares two unit lists by normalized source text. Texts are
// matched as a multiset, so a line duplicated in the new version counts as
// added once per extra copy. A removed and an added unit at the same
// location are reported as one modification. Every list keeps input order.
func DiffUnits(oldUnits, newUnits []TranslationUnit) *UnitDiff {
	d := &UnitDiff{}

	remaining := make(map[string]int, len(oldUnits))
	for _, u := range oldUnits {
		remaining[HashText(u.SourceText)]++
	}

	var added []TranslationUnit
	seen := make(map[string]int, len(newUnits))
	for _, u := range newUnits {
		h := HashText(u.SourceText)
		if remaining[h] > 0 {
			remaining[h]--
			seen[h]++
			d.Unchanged = append(d.Unchanged, u)
			continue
		}
		added = append(added, u)
	}

	var removed []TranslationUnit
	for _, u := range oldUnits {
		h := HashText(u.SourceText)
		if seen[h] > 0 {
			seen[h]--
			continue
		}
		removed = append(removed, u)
	}

	addedAt := make(map[Location]int, len(added))
	for i, u := range added {
		addedAt[u.Location] = i
	}
	matched := make(map[int]bool)
	for _, old := range removed {
		if i, ok := addedAt[old.Location]; ok && !matched[i] {
			matched[i] = true
			d.Modified = append(d.Modified, ModifiedUnit{Old: old, New: added[i]})
			continue
		}
		d.Removed = append(d.Removed, old)
	}
	for i, u := range added {
		if !matched[i] {
			d.Added = append(d.Added, u)
		}
	}

	return d
}

func sortUnits(units []TranslationUnit) {
	sort.SliceStable(units, func(i, j int) bool {
		a, b := units[i].Location, units[j].Location
		if a.Row != b.Row {
			return a.Row < b.Row
		}
		return a.Column < b.Column
	})
}
