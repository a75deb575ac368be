package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/wordcoach/pkg/models"
)

var day1 = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

func sumDaily(l *Ledger) int {
	sum := 0
	for _, d := range l.Daily {
		sum += d.PointsDelta
	}
	return sum
}

func TestAddPointsKeepsTotalInSync(t *testing.T) {
	l := New()
	l.AddPoints(day1, 5)
	l.AddPoints(day1.AddDate(0, 0, 1), -12)
	l.AddPoints(day1, 3)

	assert.Equal(t, -4, l.TotalScore)
	assert.Equal(t, l.TotalScore, sumDaily(l))
	assert.Equal(t, 8, l.Daily["2024-06-01"].PointsDelta)
}

func TestMultiplierFor(t *testing.T) {
	tests := []struct {
		streak int
		want   float64
	}{
		{0, 1.0}, {4, 1.0}, {5, 2.0}, {9, 2.0}, {10, 3.0}, {25, 3.0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MultiplierFor(tt.streak), "streak %d", tt.streak)
	}
}

func TestStreaksAreExclusive(t *testing.T) {
	l := New()
	for i := 0; i < 6; i++ {
		l.RegisterCorrect()
	}
	assert.Equal(t, 6, l.CorrectStreak)
	assert.Equal(t, 2.0, l.ComboMultiplier)

	assert.Equal(t, 1, l.RegisterWrong())
	assert.Zero(t, l.CorrectStreak)
	assert.Equal(t, 1.0, l.ComboMultiplier)

	l.RegisterCorrect()
	assert.Zero(t, l.WrongStreak)
}

func TestRecordAnswerAndGate(t *testing.T) {
	l := New()
	for _, m := range models.PrimaryModes {
		for i := 0; i < 2; i++ {
			l.RecordAnswer(m, i == 0, day1)
		}
	}
	l.RecordAnswer(models.ModeRemediation, true, day1)

	rec := l.Daily["2024-06-01"]
	assert.Equal(t, 4, rec.CorrectCount)
	assert.Equal(t, 3, rec.IncorrectCount)
	assert.Equal(t, 2, rec.DirectAnswered)
	assert.Equal(t, 2, l.ReviewAnswered)

	assert.True(t, l.GateOpen(2))
	assert.False(t, l.GateOpen(3))

	l.ResetSession()
	assert.False(t, l.GateOpen(1))
	assert.Equal(t, 2, rec.ReverseAnswered, "daily counters survive a session reset")
}

func TestRemediationSet(t *testing.T) {
	l := New()
	assert.True(t, l.AddRemediation("Ad"))
	assert.False(t, l.AddRemediation("ad"))
	assert.True(t, l.InRemediation("AD"))
	assert.True(t, l.RemoveRemediation("ad"))
	assert.False(t, l.RemoveRemediation("ad"))
	assert.Empty(t, l.RemediationIDs)
}

func TestHistoryIsOrdered(t *testing.T) {
	l := New()
	l.AddPoints(day1.AddDate(0, 0, 2), 4)
	l.AddPoints(day1, 1)
	l.AddPoints(day1.AddDate(0, 0, 1), -3)

	h := l.History()
	require.Len(t, h, 3)
	assert.Equal(t, "2024-06-01", h[0].Date)
	assert.Equal(t, []int{1, -2, 2}, []int{h[0].CumulativeScore, h[1].CumulativeScore, h[2].CumulativeScore})
}

func TestCloneIsDeep(t *testing.T) {
	l := New()
	l.AddPoints(day1, 2)
	l.AddRemediation("x")
	d := day1
	l.LastRolloverDate = &d

	c := l.Clone()
	c.AddPoints(day1, 10)
	c.AddRemediation("y")
	*c.LastRolloverDate = day1.AddDate(0, 0, 1)

	assert.Equal(t, 2, l.TotalScore)
	assert.Equal(t, 2, l.Daily["2024-06-01"].PointsDelta)
	assert.Equal(t, []string{"x"}, l.RemediationIDs)
	assert.Equal(t, day1, *l.LastRolloverDate)
}

func TestNormalize(t *testing.T) {
	rollover := time.Date(2024, 6, 2, 13, 0, 0, 0, time.UTC)
	l := &Ledger{
		TotalScore: 10,
		Daily: map[string]*models.DayRecord{
			"2024-06-01": {PointsDelta: 4, WordsAdded: -1},
			"garbage":    {PointsDelta: 100},
			"2024-06-02": nil,
		},
		LastRolloverDate: &rollover,
		CorrectStreak:    7,
		ComboMultiplier:  9,
		RemediationIDs:   []string{"a", "A", " ", "b"},
	}
	l.Normalize()

	assert.Equal(t, 2.0, l.ComboMultiplier)
	assert.Equal(t, []string{"a", "b"}, l.RemediationIDs)
	assert.Zero(t, l.Daily["2024-06-01"].WordsAdded)
	assert.NotContains(t, l.Daily, "garbage")
	assert.Equal(t, 10, l.TotalScore)
	assert.Equal(t, l.TotalScore, sumDaily(l))
	assert.Equal(t, 6, l.Daily["2024-06-02"].PointsDelta)
	assert.Equal(t, time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC), *l.LastRolloverDate)
}
