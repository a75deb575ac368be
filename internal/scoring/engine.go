package scoring

import (
	"time"

	"github.com/pkg/errors"

	"github.com/example/wordcoach/internal/progress"
	"github.com/example/wordcoach/internal/words"
	"github.com/example/wordcoach/pkg/models"
)

// Engine computes point deltas for answers and commits them to a ledger
type Engine struct {
	rules Rules
}

// NewEngine creates a scoring engine
func NewEngine(rules Rules) *Engine {
	return &Engine{rules: rules}
}

// Rules returns the rules the engine was built with
func (e *Engine) Rules() Rules {
	return e.rules
}

// ScoreAnswer scores one answer and applies it to ledger and word.
//
// The gate is evaluated before the answer is counted, so the answer that
// completes a mode's daily target does not pay out yet. Remediation answers
// are never gated. On an incorrect primary-mode answer the word's wrong
// counter and last wrong date are updated; remediation follow-up is left to
// the caller.
func (e *Engine) ScoreAnswer(word *models.WordEntry, mode models.Mode, correct bool, ledger *progress.Ledger, today time.Time) (models.ScoreOutcome, error) {
	if !mode.IsPrimary() && mode != models.ModeRemediation {
		return models.ScoreOutcome{}, errors.Wrapf(models.ErrInvalidMode, "%q", mode)
	}
	if word == nil || ledger == nil {
		return models.ScoreOutcome{}, errors.New("word and ledger are required")
	}
	today = models.Day(today)

	gateOpen := mode == models.ModeRemediation || ledger.GateOpen(e.rules.DailyAnswerTarget)

	out := models.ScoreOutcome{
		Word:     word.SourceText,
		Mode:     mode,
		Correct:  correct,
		GateOpen: gateOpen,
	}

	if correct {
		ledger.RegisterCorrect()
		out.BaseValue = BaseValue(words.AgeInDays(word, today))
		out.Multiplier = ledger.ComboMultiplier
		if gateOpen {
			out.Delta = int(float64(out.BaseValue) * out.Multiplier)
		}
	} else {
		streak := ledger.RegisterWrong()
		out.BaseValue = e.rules.WrongAnswerPenalty
		out.Multiplier = ledger.ComboMultiplier
		out.StreakPenalty = StreakPenalty(streak)
		out.Delta = out.BaseValue + out.StreakPenalty
	}

	ledger.AddPoints(today, out.Delta)
	ledger.RecordAnswer(mode, correct, today)

	if !correct && mode.IsPrimary() {
		word.WrongCount++
		d := today
		word.LastWrongDate = &d
	}

	out.TotalScore = ledger.TotalScore
	out.CorrectStreak = ledger.CorrectStreak
	out.WrongStreak = ledger.WrongStreak
	return out, nil
}
