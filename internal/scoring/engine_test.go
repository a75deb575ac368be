package scoring

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/wordcoach/internal/progress"
	"github.com/example/wordcoach/pkg/models"
)

var today = time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

func wordAged(days int) *models.WordEntry {
	return &models.WordEntry{
		SourceText: "ad",
		TargetText: "advertisement",
		AddedOn:    today.AddDate(0, 0, -days),
	}
}

func openGate(l *progress.Ledger) {
	l.DirectAnswered = 30
	l.ReverseAnswered = 30
	l.ReviewAnswered = 30
}

func assertBalanced(t *testing.T, l *progress.Ledger) {
	t.Helper()
	sum := 0
	for _, d := range l.Daily {
		sum += d.PointsDelta
	}
	assert.Equal(t, sum, l.TotalScore)
}

func TestBaseValue(t *testing.T) {
	cases := map[int]int{0: 1, 6: 1, 7: 2, 29: 2, 30: 3, 400: 3}
	for age, want := range cases {
		assert.Equal(t, want, BaseValue(age), "age %d", age)
	}
}

func TestStreakPenalty(t *testing.T) {
	cases := map[int]int{0: 0, 1: 0, 4: 0, 5: -5, 9: -5, 10: -10, 25: -10}
	for streak, want := range cases {
		assert.Equal(t, want, StreakPenalty(streak), "streak %d", streak)
	}
}

func TestIncorrectDirectAnswer(t *testing.T) {
	e := NewEngine(DefaultRules())
	l := progress.New()
	w := wordAged(3)

	out, err := e.ScoreAnswer(w, models.ModeDirect, false, l, today)
	require.NoError(t, err)

	assert.Equal(t, -2, out.Delta)
	assert.Equal(t, -2, l.TotalScore)
	assert.Equal(t, 1, w.WrongCount)
	require.NotNil(t, w.LastWrongDate)
	assert.Equal(t, today, *w.LastWrongDate)
	assert.Equal(t, 1, l.WrongStreak)
	assert.Equal(t, 1, l.DirectAnswered)

	rec, ok := l.Lookup(today)
	require.True(t, ok)
	assert.Equal(t, 1, rec.IncorrectCount)
	assert.Equal(t, 1, rec.DirectAnswered)
	assertBalanced(t, l)
}

func TestWrongStreakPenaltyApplies(t *testing.T) {
	e := NewEngine(DefaultRules())
	l := progress.New()
	l.WrongStreak = 4
	w := wordAged(3)

	out, err := e.ScoreAnswer(w, models.ModeReverse, false, l, today)
	require.NoError(t, err)
	assert.Equal(t, 5, out.WrongStreak)
	assert.Equal(t, -5, out.StreakPenalty)
	assert.Equal(t, -7, out.Delta)

	l.WrongStreak = 9
	out, err = e.ScoreAnswer(w, models.ModeReverse, false, l, today)
	require.NoError(t, err)
	assert.Equal(t, -12, out.Delta)
	assertBalanced(t, l)
}

func TestCorrectAnswerGated(t *testing.T) {
	e := NewEngine(DefaultRules())
	l := progress.New()
	l.DirectAnswered = 30
	l.ReverseAnswered = 30
	l.ReviewAnswered = 29
	w := wordAged(40)

	out, err := e.ScoreAnswer(w, models.ModeReview, true, l, today)
	require.NoError(t, err)

	assert.False(t, out.GateOpen)
	assert.Zero(t, out.Delta)
	assert.Zero(t, l.TotalScore)
	assert.Equal(t, 1, l.CorrectStreak)
	assert.Equal(t, 30, l.ReviewAnswered)

	// the answer that completed the target opens the gate for the next one
	out, err = e.ScoreAnswer(w, models.ModeReview, true, l, today)
	require.NoError(t, err)
	assert.True(t, out.GateOpen)
	assert.Equal(t, 3, out.Delta)
}

func TestOldWordWithDoubleCombo(t *testing.T) {
	e := NewEngine(DefaultRules())
	l := progress.New()
	openGate(l)
	l.CorrectStreak = 5
	l.ComboMultiplier = 2.0
	w := wordAged(30)

	out, err := e.ScoreAnswer(w, models.ModeReview, true, l, today)
	require.NoError(t, err)
	assert.Equal(t, 3, out.BaseValue)
	assert.Equal(t, 2.0, out.Multiplier)
	assert.Equal(t, 6, out.Delta)
	assert.Equal(t, 6, l.TotalScore)
	assertBalanced(t, l)
}

func TestComboThresholds(t *testing.T) {
	e := NewEngine(DefaultRules())
	l := progress.New()
	openGate(l)
	w := wordAged(0)

	var deltas []int
	for i := 0; i < 11; i++ {
		out, err := e.ScoreAnswer(w, models.ModeDirect, true, l, today)
		require.NoError(t, err)
		deltas = append(deltas, out.Delta)
	}
	assert.Equal(t, []int{1, 1, 1, 1, 2, 2, 2, 2, 2, 3, 3}, deltas)
	assert.Equal(t, 3.0, l.ComboMultiplier)

	_, err := e.ScoreAnswer(w, models.ModeDirect, false, l, today)
	require.NoError(t, err)
	assert.Equal(t, 1.0, l.ComboMultiplier)
	assert.Zero(t, l.CorrectStreak)
	assertBalanced(t, l)
}

func TestRemediationModeIsUngated(t *testing.T) {
	e := NewEngine(DefaultRules())
	l := progress.New()
	w := wordAged(10)
	w.WrongCount = 2

	out, err := e.ScoreAnswer(w, models.ModeRemediation, true, l, today)
	require.NoError(t, err)
	assert.True(t, out.GateOpen)
	assert.Equal(t, 2, out.Delta)
	assert.Zero(t, l.DirectAnswered+l.ReverseAnswered+l.ReviewAnswered)

	// remediation misses leave the wrong counter to the remediation manager
	_, err = e.ScoreAnswer(w, models.ModeRemediation, false, l, today)
	require.NoError(t, err)
	assert.Equal(t, 2, w.WrongCount)
	assertBalanced(t, l)
}

func TestGatedModesNeverPayBeforeTarget(t *testing.T) {
	e := NewEngine(DefaultRules())
	l := progress.New()
	w := wordAged(50)

	for i := 0; i < 29; i++ {
		for _, m := range models.PrimaryModes {
			before := l.TotalScore
			_, err := e.ScoreAnswer(w, m, true, l, today)
			require.NoError(t, err)
			assert.LessOrEqual(t, l.TotalScore, before)
		}
	}
}

func TestScoreAnswerRejectsUnknownMode(t *testing.T) {
	e := NewEngine(DefaultRules())
	_, err := e.ScoreAnswer(wordAged(1), models.Mode("sideways"), true, progress.New(), today)
	assert.True(t, errors.Is(err, models.ErrInvalidMode))
}
