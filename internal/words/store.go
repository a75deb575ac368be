package words

import (
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/example/wordcoach/pkg/models"
)

var (
	// ErrDuplicateWord is returned when the source text already exists
	ErrDuplicateWord = errors.New("word already exists")
	// ErrEmptyText is returned when source or target is blank
	ErrEmptyText = errors.New("source and target must not be empty")
	// ErrWordNotFound is returned when a lookup by source text fails
	ErrWordNotFound = errors.New("word not found")
)

// Store is an in-memory, insertion ordered collection of word entries.
// It owns no business rules beyond uniqueness of the source text.
type Store struct {
	entries []*models.WordEntry
	index   map[string]*models.WordEntry
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{index: make(map[string]*models.WordEntry)}
}

// Restore builds a store from persisted entries. Entries with blank text or a
// source already seen are skipped; the number of skipped entries is returned.
func Restore(entries []models.WordEntry) (*Store, int) {
	s := NewStore()
	skipped := 0
	for _, e := range entries {
		e.SourceText = strings.TrimSpace(e.SourceText)
		e.TargetText = strings.TrimSpace(e.TargetText)
		if e.SourceText == "" || e.TargetText == "" {
			skipped++
			continue
		}
		if _, exists := s.index[e.Key()]; exists {
			skipped++
			continue
		}
		if e.WrongCount < 0 {
			e.WrongCount = 0
		}
		if e.WrongCount == 0 {
			e.LastWrongDate = nil
		}
		if e.RemediationProgress < 0 {
			e.RemediationProgress = 0
		}
		entry := e
		s.insert(&entry)
	}
	return s, skipped
}

// Add creates a new entry added on today
func (s *Store) Add(source, target string, today time.Time) (*models.WordEntry, error) {
	source = strings.TrimSpace(source)
	target = strings.TrimSpace(target)
	if source == "" || target == "" {
		return nil, ErrEmptyText
	}
	if _, exists := s.index[models.WordKey(source)]; exists {
		return nil, errors.Wrapf(ErrDuplicateWord, "%q", source)
	}

	entry := &models.WordEntry{
		SourceText: source,
		TargetText: target,
		AddedOn:    models.Day(today),
	}
	s.insert(entry)
	return entry, nil
}

// Remove deletes the entry with the given source text and returns it.
// Callers must purge it from the remediation list themselves.
func (s *Store) Remove(source string) (*models.WordEntry, error) {
	key := models.WordKey(source)
	entry, ok := s.index[key]
	if !ok {
		return nil, errors.Wrapf(ErrWordNotFound, "%q", source)
	}
	delete(s.index, key)
	for i, e := range s.entries {
		if e == entry {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			break
		}
	}
	return entry, nil
}

// Find looks up an entry by source text, case-insensitively
func (s *Store) Find(source string) (*models.WordEntry, bool) {
	entry, ok := s.index[models.WordKey(source)]
	return entry, ok
}

// All returns the live entries in insertion order
func (s *Store) All() []*models.WordEntry {
	out := make([]*models.WordEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Entries returns copies of all entries in insertion order
func (s *Store) Entries() []models.WordEntry {
	out := make([]models.WordEntry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, copyEntry(e))
	}
	return out
}

// Mistakes returns the entries with a positive wrong counter
func (s *Store) Mistakes() []*models.WordEntry {
	var out []*models.WordEntry
	for _, e := range s.entries {
		if e.WrongCount > 0 {
			out = append(out, e)
		}
	}
	return out
}

// Len returns the number of entries
func (s *Store) Len() int {
	return len(s.entries)
}

// Clone returns a deep copy of the store
func (s *Store) Clone() *Store {
	c := &Store{
		entries: make([]*models.WordEntry, 0, len(s.entries)),
		index:   make(map[string]*models.WordEntry, len(s.entries)),
	}
	for _, e := range s.entries {
		entry := copyEntry(e)
		c.insert(&entry)
	}
	return c
}

func (s *Store) insert(e *models.WordEntry) {
	s.entries = append(s.entries, e)
	s.index[e.Key()] = e
}

func copyEntry(e *models.WordEntry) models.WordEntry {
	c := *e
	if e.LastWrongDate != nil {
		d := *e.LastWrongDate
		c.LastWrongDate = &d
	}
	return c
}
