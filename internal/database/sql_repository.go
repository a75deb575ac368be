package database

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/example/wordcoach/internal/drill"
	"github.com/example/wordcoach/internal/progress"
	"github.com/example/wordcoach/pkg/models"
)

const ledgerID = 1

// SQLRepository persists drill state in a SQL database through sqlx
type SQLRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewSQLRepository creates a repository on an open connection
func NewSQLRepository(db *sqlx.DB, logger *zap.Logger) *SQLRepository {
	return &SQLRepository{db: db, logger: logger}
}

// Load reads the full state. An empty database yields an empty state.
func (r *SQLRepository) Load(ctx context.Context) (*drill.State, error) {
	var rows []wordRow
	if err := r.db.SelectContext(ctx, &rows, "SELECT * FROM words ORDER BY seq"); err != nil {
		return nil, errors.Wrap(err, "failed to get words")
	}
	entries := make([]models.WordEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, row.entry())
	}

	var days []models.DayRecord
	if err := r.db.SelectContext(ctx, &days, "SELECT * FROM daily_records ORDER BY day"); err != nil {
		return nil, errors.Wrap(err, "failed to get daily records")
	}

	var lr ledgerRow
	err := r.db.GetContext(ctx, &lr, r.db.Rebind("SELECT * FROM ledger WHERE id = ?"), ledgerID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		lr = ledgerRow{ID: ledgerID, ComboMultiplier: 1.0}
	case err != nil:
		return nil, errors.Wrap(err, "failed to get ledger")
	}

	var pending []remediationRow
	if err := r.db.SelectContext(ctx, &pending, "SELECT seq, source_text FROM remediation ORDER BY seq"); err != nil {
		return nil, errors.Wrap(err, "failed to get remediation list")
	}
	ids := make([]string, 0, len(pending))
	for _, row := range pending {
		ids = append(ids, row.SourceText)
	}

	ledger := progress.New()
	ledger.TotalScore = lr.TotalScore
	ledger.LastRolloverDate = parseNullDate(lr.LastRolloverDate)
	ledger.CorrectStreak = lr.CorrectStreak
	ledger.WrongStreak = lr.WrongStreak
	ledger.ComboMultiplier = lr.ComboMultiplier
	ledger.DirectAnswered = lr.DirectAnswered
	ledger.ReverseAnswered = lr.ReverseAnswered
	ledger.ReviewAnswered = lr.ReviewAnswered
	ledger.RemediationIDs = ids
	for i := range days {
		d := days[i]
		ledger.Daily[d.Date] = &d
	}

	return drill.NewState(entries, ledger), nil
}

// Save replaces the stored state in a single transaction
func (r *SQLRepository) Save(ctx context.Context, state *drill.State) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	if err := saveWords(ctx, tx, state); err != nil {
		return err
	}
	if err := saveLedger(ctx, tx, state.Ledger); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit state")
	}
	r.logger.Debug("state saved",
		zap.Int("words", state.Words.Len()),
		zap.Int("days", len(state.Ledger.Daily)))
	return nil
}

func saveWords(ctx context.Context, tx *sqlx.Tx, state *drill.State) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM words"); err != nil {
		return errors.Wrap(err, "failed to clear words")
	}
	for i, e := range state.Words.Entries() {
		_, err := tx.NamedExecContext(ctx, `
			INSERT INTO words (seq, source_key, source_text, target_text, added_on, wrong_count, last_wrong_date, remediation_progress)
			VALUES (:seq, :source_key, :source_text, :target_text, :added_on, :wrong_count, :last_wrong_date, :remediation_progress)`,
			toWordRow(i, e))
		if err != nil {
			return errors.Wrapf(err, "failed to save word %q", e.SourceText)
		}
	}
	return nil
}

func saveLedger(ctx context.Context, tx *sqlx.Tx, l *progress.Ledger) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM daily_records"); err != nil {
		return errors.Wrap(err, "failed to clear daily records")
	}
	for _, d := range l.Days() {
		_, err := tx.NamedExecContext(ctx, `
			INSERT INTO daily_records (day, points_delta, words_added, correct_count, incorrect_count, direct_answered, reverse_answered, review_answered)
			VALUES (:day, :points_delta, :words_added, :correct_count, :incorrect_count, :direct_answered, :reverse_answered, :review_answered)`,
			d)
		if err != nil {
			return errors.Wrapf(err, "failed to save day %s", d.Date)
		}
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM ledger"); err != nil {
		return errors.Wrap(err, "failed to clear ledger")
	}
	_, err := tx.NamedExecContext(ctx, `
		INSERT INTO ledger (id, total_score, last_rollover_date, correct_streak, wrong_streak, combo_multiplier, direct_answered, reverse_answered, review_answered)
		VALUES (:id, :total_score, :last_rollover_date, :correct_streak, :wrong_streak, :combo_multiplier, :direct_answered, :reverse_answered, :review_answered)`,
		ledgerRow{
			ID:               ledgerID,
			TotalScore:       l.TotalScore,
			LastRolloverDate: nullDate(l.LastRolloverDate),
			CorrectStreak:    l.CorrectStreak,
			WrongStreak:      l.WrongStreak,
			ComboMultiplier:  l.ComboMultiplier,
			DirectAnswered:   l.DirectAnswered,
			ReverseAnswered:  l.ReverseAnswered,
			ReviewAnswered:   l.ReviewAnswered,
		})
	if err != nil {
		return errors.Wrap(err, "failed to save ledger")
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM remediation"); err != nil {
		return errors.Wrap(err, "failed to clear remediation list")
	}
	for i, id := range l.RemediationIDs {
		_, err := tx.NamedExecContext(ctx,
			"INSERT INTO remediation (seq, source_text) VALUES (:seq, :source_text)",
			remediationRow{Seq: i, SourceText: id})
		if err != nil {
			return errors.Wrapf(err, "failed to save remediation entry %q", id)
		}
	}
	return nil
}
