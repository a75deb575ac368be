package database

import (
	"database/sql"
	"time"

	"github.com/example/wordcoach/pkg/models"
)

// wordRow is the words table layout
type wordRow struct {
	Seq                 int            `db:"seq"`
	SourceKey           string         `db:"source_key"`
	SourceText          string         `db:"source_text"`
	TargetText          string         `db:"target_text"`
	AddedOn             string         `db:"added_on"`
	WrongCount          int            `db:"wrong_count"`
	LastWrongDate       sql.NullString `db:"last_wrong_date"`
	RemediationProgress int            `db:"remediation_progress"`
}

// ledgerRow is the single row of the ledger table
type ledgerRow struct {
	ID               int            `db:"id"`
	TotalScore       int            `db:"total_score"`
	LastRolloverDate sql.NullString `db:"last_rollover_date"`
	CorrectStreak    int            `db:"correct_streak"`
	WrongStreak      int            `db:"wrong_streak"`
	ComboMultiplier  float64        `db:"combo_multiplier"`
	DirectAnswered   int            `db:"direct_answered"`
	ReverseAnswered  int            `db:"reverse_answered"`
	ReviewAnswered   int            `db:"review_answered"`
}

// remediationRow keeps the order of the remediation list
type remediationRow struct {
	Seq        int    `db:"seq"`
	SourceText string `db:"source_text"`
}

func toWordRow(seq int, e models.WordEntry) wordRow {
	return wordRow{
		Seq:                 seq,
		SourceKey:           e.Key(),
		SourceText:          e.SourceText,
		TargetText:          e.TargetText,
		AddedOn:             formatDate(e.AddedOn),
		WrongCount:          e.WrongCount,
		LastWrongDate:       nullDate(e.LastWrongDate),
		RemediationProgress: e.RemediationProgress,
	}
}

func (r wordRow) entry() models.WordEntry {
	added, _ := parseDate(r.AddedOn)
	return models.WordEntry{
		SourceText:          r.SourceText,
		TargetText:          r.TargetText,
		AddedOn:             added,
		WrongCount:          r.WrongCount,
		LastWrongDate:       parseNullDate(r.LastWrongDate),
		RemediationProgress: r.RemediationProgress,
	}
}

// formatDate renders a calendar date, or "" for the zero time
func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return models.DateKey(t)
}

// parseDate is lenient: blank or malformed input yields the zero time,
// which the engine treats as an age of 0 days
func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := models.ParseDate(s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func optionalDate(s string) *time.Time {
	t, ok := parseDate(s)
	if !ok {
		return nil
	}
	return &t
}

func nullDate(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: models.DateKey(*t), Valid: true}
}

func parseNullDate(s sql.NullString) *time.Time {
	if !s.Valid {
		return nil
	}
	return optionalDate(s.String)
}
