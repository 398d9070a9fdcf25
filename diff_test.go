package gameloc

import (
	"testing"
)

func lines(texts ...string) []TranslationUnit {
	out := make([]TranslationUnit, len(texts))
	for i, text := range texts {
		out[i] = TranslationUnit{Location: Location{Row: i + 1, Column: 1}, SourceText: text}
	}
	return out
}

func TestDiffUnits_NoChanges(t *testing.T) {
	units := lines("Hello", "World")

	diff := DiffUnits(units, units)

	if diff.HasChanges() {
		t.Error("Expected no changes for identical content")
	}

	if len(diff.Unchanged) != 2 {
		t.Errorf("Expected 2 unchanged, got %d", len(diff.Unchanged))
	}
}

func TestDiffUnits_AllNew(t *testing.T) {
	diff := DiffUnits(nil, lines("Hello", "World"))

	if len(diff.Added) != 2 {
		t.Errorf("Expected 2 added, got %d", len(diff.Added))
	}

	if len(diff.Removed) != 0 {
		t.Errorf("Expected 0 removed, got %d", len(diff.Removed))
	}
}

func TestDiffUnits_AllRemoved(t *testing.T) {
	diff := DiffUnits(lines("Hello", "World"), nil)

	if len(diff.Added) != 0 {
		t.Errorf("Expected 0 added, got %d", len(diff.Added))
	}

	if len(diff.Removed) != 2 {
		t.Errorf("Expected 2 removed, got %d", len(diff.Removed))
	}
}

func TestDiffUnits_Mixed(t *testing.T) {
	oldUnits := lines("Hello", "World", "Removed")
	newUnits := []TranslationUnit{
		{Location: Location{Row: 1, Column: 1}, SourceText: "Hello"},
		{Location: Location{Row: 2, Column: 1}, SourceText: "World"},
		{Location: Location{Row: 5, Column: 1}, SourceText: "Added"},
	}

	diff := DiffUnits(oldUnits, newUnits)

	if len(diff.Unchanged) != 2 {
		t.Errorf("Expected 2 unchanged, got %d", len(diff.Unchanged))
	}
	if len(diff.Added) != 1 || diff.Added[0].SourceText != "Added" {
		t.Errorf("Expected 'Added' added, got %v", diff.Added)
	}
	if len(diff.Removed) != 1 || diff.Removed[0].SourceText != "Removed" {
		t.Errorf("Expected 'Removed' removed, got %v", diff.Removed)
	}

	stats := diff.Stats()
	if stats.Added != 1 || stats.Removed != 1 || stats.Unchanged != 2 || stats.Modified != 0 {
		t.Errorf("Unexpected stats: %+v", stats)
	}
}

func TestDiffUnits_ModifiedSameLocation(t *testing.T) {
	diff := DiffUnits(lines("Start Game", "Quit"), lines("Start Game", "Exit"))

	if len(diff.Modified) != 1 {
		t.Fatalf("Expected 1 modified, got %d", len(diff.Modified))
	}
	m := diff.Modified[0]
	if m.Old.SourceText != "Quit" || m.New.SourceText != "Exit" {
		t.Errorf("Unexpected modification: %+v", m)
	}
	if len(diff.Added) != 0 || len(diff.Removed) != 0 {
		t.Errorf("Modified units should not be added or removed: %+v", diff)
	}
}

func TestDiffUnits_MovedTextIsUnchanged(t *testing.T) {
	diff := DiffUnits(lines("A", "B"), lines("B", "A"))

	if diff.HasChanges() {
		t.Errorf("Reordered text should not be a change: %+v", diff.Stats())
	}
}

func TestDiffUnits_Duplicates(t *testing.T) {
	diff := DiffUnits(lines("OK"), lines("OK", "OK"))

	if len(diff.Unchanged) != 1 || len(diff.Added) != 1 {
		t.Errorf("Expected one unchanged and one added copy, got %+v", diff.Stats())
	}
}

func TestDiffUnits_NormalizedText(t *testing.T) {
	diff := DiffUnits(lines("Caf\u00e9"), lines("Cafe\u0301"))

	if diff.HasChanges() {
		t.Error("NFC-equivalent text should be unchanged")
	}
}

func TestDiffUnits_NeedsTranslation(t *testing.T) {
	diff := DiffUnits(lines("A", "B", "C"), lines("A", "X", "C", "D"))

	needs := diff.NeedsTranslation()
	if len(needs) != 2 {
		t.Fatalf("Expected 2 units to translate, got %d", len(needs))
	}
	if needs[0].SourceText != "X" || needs[1].SourceText != "D" {
		t.Errorf("Expected [X D] in location order, got %v", needs)
	}
}
