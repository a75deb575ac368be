package remediation

import (
	"math/rand"

	"github.com/pkg/errors"

	"github.com/example/wordcoach/internal/progress"
	"github.com/example/wordcoach/internal/words"
	"github.com/example/wordcoach/pkg/models"
)

// Target is the number of correct remediation answers that clears a word
const Target = 3

// ErrNoRemediationWords is returned when remediation is requested with an
// empty list
var ErrNoRemediationWords = errors.New("no words pending remediation")

// Manager tracks words answered incorrectly in primary modes until they
// are answered correctly Target times in remediation mode
type Manager struct {
	rng *rand.Rand
}

// NewManager creates a remediation manager drawing from rng
func NewManager(rng *rand.Rand) *Manager {
	return &Manager{rng: rng}
}

// Add puts word on the ledger's remediation list and restarts its progress
func (m *Manager) Add(ledger *progress.Ledger, word *models.WordEntry) {
	ledger.AddRemediation(word.SourceText)
	word.RemediationProgress = 0
}

// Remove takes word off the remediation list and clears its progress
func (m *Manager) Remove(ledger *progress.Ledger, word *models.WordEntry) {
	ledger.RemoveRemediation(word.SourceText)
	word.RemediationProgress = 0
}

// List resolves the remediation ids against store, skipping ids whose word
// no longer exists
func (m *Manager) List(ledger *progress.Ledger, store *words.Store) []*models.WordEntry {
	out := make([]*models.WordEntry, 0, len(ledger.RemediationIDs))
	for _, id := range ledger.RemediationIDs {
		if w, ok := store.Find(id); ok {
			out = append(out, w)
		}
	}
	return out
}

// Pick draws one pending word uniformly
func (m *Manager) Pick(ledger *progress.Ledger, store *words.Store) (*models.WordEntry, error) {
	pending := m.List(ledger, store)
	if len(pending) == 0 {
		return nil, ErrNoRemediationWords
	}
	return pending[m.rng.Intn(len(pending))], nil
}

// HandleAnswer applies remediation follow-up after an answer was scored and
// reports whether the word left the list.
//
// A primary-mode miss puts the word on the list. In remediation mode a
// correct answer advances progress and lowers the wrong counter, while a
// miss restarts progress.
func (m *Manager) HandleAnswer(ledger *progress.Ledger, word *models.WordEntry, mode models.Mode, correct bool) bool {
	if mode.IsPrimary() {
		if !correct {
			m.Add(ledger, word)
		}
		return false
	}
	if mode != models.ModeRemediation {
		return false
	}

	if !correct {
		word.RemediationProgress = 0
		return false
	}

	if word.WrongCount > 0 {
		word.WrongCount--
	}
	if word.WrongCount == 0 {
		word.LastWrongDate = nil
	}
	word.RemediationProgress++
	if word.RemediationProgress >= Target {
		m.Remove(ledger, word)
		return true
	}
	return false
}
