package correction

import (
	"sort"
	"sync"
	"time"
)

type lookupKey struct {
	text   string
	source string
	target string
}

// Matcher is an immutable view of a Table. It is safe for concurrent use and
// never observes mutations made to the table after it was created.
type Matcher struct {
	normalizer Normalizer
	best       map[lookupKey]Entry
}

// Match returns the winning entry for text in the given language pair.
// A nil Matcher never matches.
func (m *Matcher) Match(text, sourceLang, targetLang string) (Entry, bool) {
	if m == nil || len(m.best) == 0 {
		return Entry{}, false
	}
	entry, ok := m.best[lookupKey{
		text:   m.normalizer.Normalize(text),
		source: NormalizeLang(sourceLang),
		target: NormalizeLang(targetLang),
	}]
	return entry, ok
}

// Len returns the number of distinct lookup keys.
func (m *Matcher) Len() int {
	if m == nil {
		return 0
	}
	return len(m.best)
}

// Table is the mutable correction table. It is safe for concurrent use.
type Table struct {
	mu         sync.RWMutex
	normalizer Normalizer
	entries    map[int64]Entry
	nextID     int64
	seq        uint64
	snapshot   *Matcher
	now        func() time.Time
}

// Option configures a Table.
type Option func(*Table)

// WithNormalizer sets the normalization policy used for matching.
func WithNormalizer(n Normalizer) Option {
	return func(t *Table) {
		t.normalizer = n
	}
}

// WithClock overrides the clock used to stamp AddedAt.
func WithClock(now func() time.Time) Option {
	return func(t *Table) {
		t.now = now
	}
}

// NewTable creates an empty correction table.
func NewTable(opts ...Option) *Table {
	t := &Table{
		entries: make(map[int64]Entry),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Normalizer returns the table's normalization policy.
func (t *Table) Normalizer() Normalizer {
	return t.normalizer
}

// Add inserts an entry and returns it with ID and AddedAt filled in.
// An entry whose ID already exists replaces the stored one and counts as the
// most recently added.
func (t *Table) Add(e Entry) (Entry, error) {
	if err := e.Validate(); err != nil {
		return Entry{}, err
	}
	if e.Category == "" {
		e.Category = CategoryOther
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if e.ID == 0 {
		t.nextID++
		e.ID = t.nextID
	} else if e.ID > t.nextID {
		t.nextID = e.ID
	}
	if e.AddedAt.IsZero() {
		e.AddedAt = t.now()
	}
	t.seq++
	e.seq = t.seq

	t.entries[e.ID] = e
	t.snapshot = nil
	return e, nil
}

// Remove deletes the entry with the given ID.
func (t *Table) Remove(id int64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.entries[id]; !ok {
		return false
	}
	delete(t.entries, id)
	t.snapshot = nil
	return true
}

// Len returns the number of stored entries.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

// List returns entries for a language pair, best first. Empty language codes
// act as wildcards.
func (t *Table) List(sourceLang, targetLang string) []Entry {
	src, tgt := NormalizeLang(sourceLang), NormalizeLang(targetLang)

	t.mu.RLock()
	out := make([]Entry, 0, len(t.entries))
	for _, e := range t.entries {
		if src != "" && NormalizeLang(e.SourceLang) != src {
			continue
		}
		if tgt != "" && NormalizeLang(e.TargetLang) != tgt {
			continue
		}
		out = append(out, e)
	}
	t.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].outranks(out[j])
	})
	return out
}

// Match looks text up against the current contents of the table.
func (t *Table) Match(text, sourceLang, targetLang string) (Entry, bool) {
	return t.Snapshot().Match(text, sourceLang, targetLang)
}

// Snapshot returns an immutable Matcher over the current contents. The
// matcher is rebuilt lazily after a mutation.
func (t *Table) Snapshot() *Matcher {
	t.mu.RLock()
	snap := t.snapshot
	t.mu.RUnlock()
	if snap != nil {
		return snap
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.snapshot == nil {
		t.snapshot = t.buildLocked()
	}
	return t.snapshot
}

func (t *Table) buildLocked() *Matcher {
	best := make(map[lookupKey]Entry, len(t.entries))
	for _, e := range t.entries {
		key := lookupKey{
			text:   t.normalizer.Normalize(e.SourceText),
			source: NormalizeLang(e.SourceLang),
			target: NormalizeLang(e.TargetLang),
		}
		if cur, ok := best[key]; !ok || e.outranks(cur) {
			best[key] = e
		}
	}
	return &Matcher{normalizer: t.normalizer, best: best}
}
