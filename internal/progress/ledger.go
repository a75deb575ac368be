package progress

import (
	"sort"
	"strings"
	"time"

	"github.com/example/wordcoach/pkg/models"
)

// Combo multiplier thresholds on the correct streak
const (
	DoubleComboStreak = 5
	TripleComboStreak = 10
)

// Ledger holds lifetime and per-day counters of the learner.
//
// TotalScore always equals the sum of PointsDelta over Daily; every score
// change must go through AddPoints to keep that invariant.
type Ledger struct {
	TotalScore       int                          `json:"total_score"`
	Daily            map[string]*models.DayRecord `json:"daily"`
	LastRolloverDate *time.Time                   `json:"last_rollover_date,omitempty"`
	CorrectStreak    int                          `json:"correct_streak"`
	WrongStreak      int                          `json:"wrong_streak"`
	ComboMultiplier  float64                      `json:"combo_multiplier"`
	DirectAnswered   int                          `json:"direct_answered"`
	ReverseAnswered  int                          `json:"reverse_answered"`
	ReviewAnswered   int                          `json:"review_answered"`
	RemediationIDs   []string                     `json:"remediation_ids"`
}

// New creates an empty ledger
func New() *Ledger {
	return &Ledger{
		Daily:           make(map[string]*models.DayRecord),
		ComboMultiplier: 1.0,
	}
}

// MultiplierFor derives the combo multiplier from a correct streak
func MultiplierFor(correctStreak int) float64 {
	switch {
	case correctStreak >= TripleComboStreak:
		return 3.0
	case correctStreak >= DoubleComboStreak:
		return 2.0
	default:
		return 1.0
	}
}

// Day returns the record for date, creating a zeroed one on first touch
func (l *Ledger) Day(date time.Time) *models.DayRecord {
	key := models.DateKey(date)
	rec, ok := l.Daily[key]
	if !ok {
		rec = &models.DayRecord{Date: key}
		l.Daily[key] = rec
	}
	return rec
}

// Lookup returns the record for date without creating it
func (l *Ledger) Lookup(date time.Time) (*models.DayRecord, bool) {
	rec, ok := l.Daily[models.DateKey(date)]
	return rec, ok
}

// AddPoints applies delta to both the total score and the day's points
func (l *Ledger) AddPoints(date time.Time, delta int) {
	l.Day(date).PointsDelta += delta
	l.TotalScore += delta
}

// RegisterCorrect extends the correct streak and recomputes the multiplier
func (l *Ledger) RegisterCorrect() {
	l.CorrectStreak++
	l.WrongStreak = 0
	l.ComboMultiplier = MultiplierFor(l.CorrectStreak)
}

// RegisterWrong extends the wrong streak, resets the combo and returns the
// new wrong streak
func (l *Ledger) RegisterWrong() int {
	l.WrongStreak++
	l.CorrectStreak = 0
	l.ComboMultiplier = 1.0
	return l.WrongStreak
}

// RecordAnswer bumps the day's correct/incorrect counter and, for primary
// modes, the session and daily answered counters of the mode
func (l *Ledger) RecordAnswer(mode models.Mode, correct bool, date time.Time) {
	rec := l.Day(date)
	if correct {
		rec.CorrectCount++
	} else {
		rec.IncorrectCount++
	}

	switch mode {
	case models.ModeDirect:
		l.DirectAnswered++
		rec.DirectAnswered++
	case models.ModeReverse:
		l.ReverseAnswered++
		rec.ReverseAnswered++
	case models.ModeReview:
		l.ReviewAnswered++
		rec.ReviewAnswered++
	}
}

// Answered returns the current answered counter of a primary mode
func (l *Ledger) Answered(mode models.Mode) int {
	switch mode {
	case models.ModeDirect:
		return l.DirectAnswered
	case models.ModeReverse:
		return l.ReverseAnswered
	case models.ModeReview:
		return l.ReviewAnswered
	}
	return 0
}

// GateOpen reports whether every primary answered counter reached target
func (l *Ledger) GateOpen(target int) bool {
	for _, m := range models.PrimaryModes {
		if l.Answered(m) < target {
			return false
		}
	}
	return true
}

// ResetSession clears streaks, the multiplier and the answered counters
func (l *Ledger) ResetSession() {
	l.CorrectStreak = 0
	l.WrongStreak = 0
	l.ComboMultiplier = 1.0
	l.DirectAnswered = 0
	l.ReverseAnswered = 0
	l.ReviewAnswered = 0
}

// InRemediation reports whether id is pending remediation
func (l *Ledger) InRemediation(id string) bool {
	return l.remediationIndex(id) >= 0
}

// AddRemediation inserts id if absent and reports whether it was inserted
func (l *Ledger) AddRemediation(id string) bool {
	if l.InRemediation(id) {
		return false
	}
	l.RemediationIDs = append(l.RemediationIDs, id)
	return true
}

// RemoveRemediation deletes id and reports whether it was present
func (l *Ledger) RemoveRemediation(id string) bool {
	i := l.remediationIndex(id)
	if i < 0 {
		return false
	}
	l.RemediationIDs = append(l.RemediationIDs[:i], l.RemediationIDs[i+1:]...)
	return true
}

func (l *Ledger) remediationIndex(id string) int {
	key := models.WordKey(id)
	for i, existing := range l.RemediationIDs {
		if models.WordKey(existing) == key {
			return i
		}
	}
	return -1
}

// Days returns the daily records ordered by date
func (l *Ledger) Days() []models.DayRecord {
	keys := make([]string, 0, len(l.Daily))
	for k := range l.Daily {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]models.DayRecord, 0, len(keys))
	for _, k := range keys {
		rec := *l.Daily[k]
		rec.Date = k
		out = append(out, rec)
	}
	return out
}

// History returns the ordered daily records with a running score
func (l *Ledger) History() []models.DayStat {
	days := l.Days()
	out := make([]models.DayStat, 0, len(days))
	running := 0
	for _, d := range days {
		running += d.PointsDelta
		out = append(out, models.DayStat{DayRecord: d, CumulativeScore: running})
	}
	return out
}

// Totals returns the lifetime correct and incorrect counts
func (l *Ledger) Totals() (correct, incorrect int) {
	for _, d := range l.Daily {
		correct += d.CorrectCount
		incorrect += d.IncorrectCount
	}
	return correct, incorrect
}

// Clone returns a deep copy of the ledger
func (l *Ledger) Clone() *Ledger {
	c := *l
	c.Daily = make(map[string]*models.DayRecord, len(l.Daily))
	for k, v := range l.Daily {
		rec := *v
		c.Daily[k] = &rec
	}
	if l.LastRolloverDate != nil {
		d := *l.LastRolloverDate
		c.LastRolloverDate = &d
	}
	c.RemediationIDs = append([]string(nil), l.RemediationIDs...)
	return &c
}

// Normalize repairs persisted state that predates or violates the current
// schema: missing maps, negative counters, a stale multiplier, duplicate
// remediation ids and mutually non-exclusive streaks.
func (l *Ledger) Normalize() {
	if l.Daily == nil {
		l.Daily = make(map[string]*models.DayRecord)
	}
	for k, rec := range l.Daily {
		if rec == nil {
			delete(l.Daily, k)
			continue
		}
		if _, err := models.ParseDate(k); err != nil {
			delete(l.Daily, k)
			continue
		}
		rec.Date = k
		rec.WordsAdded = clamp(rec.WordsAdded)
		rec.CorrectCount = clamp(rec.CorrectCount)
		rec.IncorrectCount = clamp(rec.IncorrectCount)
		rec.DirectAnswered = clamp(rec.DirectAnswered)
		rec.ReverseAnswered = clamp(rec.ReverseAnswered)
		rec.ReviewAnswered = clamp(rec.ReviewAnswered)
	}

	l.CorrectStreak = clamp(l.CorrectStreak)
	l.WrongStreak = clamp(l.WrongStreak)
	if l.CorrectStreak > 0 && l.WrongStreak > 0 {
		l.CorrectStreak, l.WrongStreak = 0, 0
	}
	l.ComboMultiplier = MultiplierFor(l.CorrectStreak)
	l.DirectAnswered = clamp(l.DirectAnswered)
	l.ReverseAnswered = clamp(l.ReverseAnswered)
	l.ReviewAnswered = clamp(l.ReviewAnswered)

	if l.LastRolloverDate != nil {
		d := models.Day(*l.LastRolloverDate)
		l.LastRolloverDate = &d
	}

	ids := make([]string, 0, len(l.RemediationIDs))
	seen := make(map[string]bool, len(l.RemediationIDs))
	for _, id := range l.RemediationIDs {
		id = strings.TrimSpace(id)
		key := models.WordKey(id)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		ids = append(ids, id)
	}
	l.RemediationIDs = ids

	// Older data adjusted the score without a matching day entry.
	sum := 0
	for _, rec := range l.Daily {
		sum += rec.PointsDelta
	}
	if diff := l.TotalScore - sum; diff != 0 {
		l.TotalScore = sum
		anchor := time.Unix(0, 0)
		if l.LastRolloverDate != nil {
			anchor = *l.LastRolloverDate
		} else if days := l.Days(); len(days) > 0 {
			anchor, _ = models.ParseDate(days[0].Date)
		}
		l.AddPoints(anchor, diff)
	}
}

func clamp(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
