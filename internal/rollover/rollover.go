package rollover

import (
	"time"

	"github.com/example/wordcoach/internal/progress"
	"github.com/example/wordcoach/internal/words"
	"github.com/example/wordcoach/pkg/models"
)

// Rules holds the daily goal and decay constants
type Rules struct {
	// DailyWordTarget is the number of words to add per day
	DailyWordTarget int
	// MissedGoalPenalty is charged to a day that fell short of DailyWordTarget
	MissedGoalPenalty int
	// DecayPerWeek is charged for each full week a mistake stays unaddressed
	DecayPerWeek int
}

// DefaultRules returns the default rollover rules
func DefaultRules() Rules {
	return Rules{
		DailyWordTarget:   10,
		MissedGoalPenalty: -20,
		DecayPerWeek:      2,
	}
}

// Manager reconciles the ledger with the calendar
type Manager struct {
	rules Rules
}

// NewManager creates a rollover manager
func NewManager(rules Rules) *Manager {
	return &Manager{rules: rules}
}

// Rules returns the rules the manager was built with
func (m *Manager) Rules() Rules {
	return m.rules
}

// Reconcile closes the previous day if today is a new one and then applies
// weekly decay. Calling it again on the same day changes nothing.
func (m *Manager) Reconcile(ledger *progress.Ledger, store *words.Store, today time.Time) models.PenaltyReport {
	today = models.Day(today)
	report := models.PenaltyReport{Date: today}

	if ledger.LastRolloverDate == nil || !ledger.LastRolloverDate.Equal(today) {
		report.RolledOver = true
		if prev := ledger.LastRolloverDate; prev != nil {
			p := *prev
			report.PreviousDate = &p
			if rec, ok := ledger.Lookup(p); ok && rec.WordsAdded < m.rules.DailyWordTarget {
				ledger.AddPoints(p, m.rules.MissedGoalPenalty)
				report.MissedGoalPenalty = m.rules.MissedGoalPenalty
			}
		}
		ledger.ResetSession()
		ledger.LastRolloverDate = &today
		ledger.Day(today)
	}

	report.DecayPenalty, report.DecayedWords = m.ApplyWeeklyDecay(ledger, store, today)
	return report
}

// ApplyWeeklyDecay charges every unaddressed mistake for each full week since
// its last wrong date, attributes the charge to today and moves the date to
// today. Wrong counters are left untouched.
func (m *Manager) ApplyWeeklyDecay(ledger *progress.Ledger, store *words.Store, today time.Time) (int, []string) {
	today = models.Day(today)
	total := 0
	var decayed []string
	for _, w := range store.All() {
		if w.WrongCount <= 0 || w.LastWrongDate == nil {
			continue
		}
		weeks := models.DaysBetween(*w.LastWrongDate, today) / 7
		if weeks < 1 {
			continue
		}
		penalty := -m.rules.DecayPerWeek * weeks
		ledger.AddPoints(today, penalty)
		total += penalty
		d := today
		w.LastWrongDate = &d
		decayed = append(decayed, w.SourceText)
	}
	return total, decayed
}
