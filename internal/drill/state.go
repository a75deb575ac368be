package drill

import (
	"context"

	"github.com/example/wordcoach/internal/progress"
	"github.com/example/wordcoach/internal/words"
	"github.com/example/wordcoach/pkg/models"
)

// State is everything the engine persists
type State struct {
	Words  *words.Store
	Ledger *progress.Ledger
}

// Repository loads and saves State. Errors it returns are propagated to the
// caller unchanged apart from added context.
type Repository interface {
	Load(ctx context.Context) (*State, error)
	Save(ctx context.Context, state *State) error
}

// NewState builds a normalized state from persisted parts. Missing parts are
// replaced with empty ones.
func NewState(entries []models.WordEntry, ledger *progress.Ledger) *State {
	store, _ := words.Restore(entries)
	if ledger == nil {
		ledger = progress.New()
	}
	ledger.Normalize()
	return &State{Words: store, Ledger: ledger}
}

// Clone returns a deep copy of the state
func (s *State) Clone() *State {
	return &State{Words: s.Words.Clone(), Ledger: s.Ledger.Clone()}
}
