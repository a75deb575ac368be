package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/example/wordcoach/internal/drill"
	"github.com/example/wordcoach/internal/progress"
	"github.com/example/wordcoach/internal/words"
	"github.com/example/wordcoach/pkg/models"
)

var today = time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

func sampleState(t *testing.T) *drill.State {
	t.Helper()
	store := words.NewStore()
	ad, err := store.Add("ad", "advertisement", today.AddDate(0, 0, -30))
	require.NoError(t, err)
	ad.WrongCount = 2
	wrong := today.AddDate(0, 0, -3)
	ad.LastWrongDate = &wrong
	ad.RemediationProgress = 1
	_, err = store.Add("Cat", "kedi", today)
	require.NoError(t, err)

	l := progress.New()
	l.AddPoints(today.AddDate(0, 0, -1), -20)
	l.AddPoints(today, 7)
	l.Day(today).WordsAdded = 1
	l.RecordAnswer(models.ModeDirect, true, today)
	l.RecordAnswer(models.ModeReview, false, today)
	for i := 0; i < 6; i++ {
		l.RegisterCorrect()
	}
	rolled := today
	l.LastRolloverDate = &rolled
	l.AddRemediation("ad")

	return &drill.State{Words: store, Ledger: l}
}

func assertSameState(t *testing.T, want, got *drill.State) {
	t.Helper()
	assert.Equal(t, want.Words.Entries(), got.Words.Entries())
	assert.Equal(t, want.Ledger.TotalScore, got.Ledger.TotalScore)
	assert.Equal(t, want.Ledger.Days(), got.Ledger.Days())
	assert.Equal(t, want.Ledger.CorrectStreak, got.Ledger.CorrectStreak)
	assert.Equal(t, want.Ledger.WrongStreak, got.Ledger.WrongStreak)
	assert.Equal(t, want.Ledger.ComboMultiplier, got.Ledger.ComboMultiplier)
	assert.Equal(t, want.Ledger.DirectAnswered, got.Ledger.DirectAnswered)
	assert.Equal(t, want.Ledger.ReviewAnswered, got.Ledger.ReviewAnswered)
	assert.Equal(t, want.Ledger.RemediationIDs, got.Ledger.RemediationIDs)
	require.NotNil(t, got.Ledger.LastRolloverDate)
	assert.Equal(t, *want.Ledger.LastRolloverDate, *got.Ledger.LastRolloverDate)
}

func TestSQLRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	db, err := Connect(DriverSQLite, filepath.Join(t.TempDir(), "data", "wordcoach.db"))
	require.NoError(t, err)
	defer db.Close()
	repo := NewSQLRepository(db, zap.NewNop())

	empty, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Zero(t, empty.Words.Len())
	assert.Equal(t, 1.0, empty.Ledger.ComboMultiplier)

	want := sampleState(t)
	require.NoError(t, repo.Save(ctx, want))
	got, err := repo.Load(ctx)
	require.NoError(t, err)
	assertSameState(t, want, got)

	// saving again replaces rather than appends
	_, err = want.Words.Remove("cat")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, want))
	got, err = repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Words.Len())
}

func TestSQLRepositoryKeepsRemediationOrder(t *testing.T) {
	ctx := context.Background()
	db, err := Connect(DriverSQLite, filepath.Join(t.TempDir(), "wordcoach.db"))
	require.NoError(t, err)
	defer db.Close()
	repo := NewSQLRepository(db, zap.NewNop())

	state := sampleState(t)
	state.Ledger.RemediationIDs = []string{"Cat", "ad"}
	require.NoError(t, repo.Save(ctx, state))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Cat", "ad"}, got.Ledger.RemediationIDs)

	state.Ledger.RemoveRemediation("cat")
	require.NoError(t, repo.Save(ctx, state))
	got, err = repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"ad"}, got.Ledger.RemediationIDs)
}

func TestFileRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "state.json")
	repo := NewFileRepository(path, zap.NewNop())

	empty, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Zero(t, empty.Words.Len())

	want := sampleState(t)
	require.NoError(t, repo.Save(ctx, want))
	got, err := repo.Load(ctx)
	require.NoError(t, err)
	assertSameState(t, want, got)

	leftovers, err := filepath.Glob(filepath.Join(filepath.Dir(path), "*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestFileRepositoryNormalizesLegacyData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	legacy := `{
		"words": [
			{"source_text": " ad ", "target_text": "advertisement", "wrong_count": -3, "last_wrong_date": "2024-06-01"},
			{"source_text": "AD", "target_text": "duplicate"},
			{"source_text": "", "target_text": "blank"}
		],
		"total_score": 15,
		"daily": {"2024-06-14": {"points_delta": 5, "words_added": -1}},
		"correct_streak": 6,
		"combo_multiplier": 1,
		"remediation_ids": ["ad", "Ad", " "]
	}`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o600))

	got, err := NewFileRepository(path, zap.NewNop()).Load(context.Background())
	require.NoError(t, err)

	entries := got.Words.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "ad", entries[0].SourceText)
	assert.True(t, entries[0].AddedOn.IsZero())
	assert.Zero(t, entries[0].WrongCount)
	assert.Nil(t, entries[0].LastWrongDate)

	l := got.Ledger
	assert.Equal(t, 2.0, l.ComboMultiplier)
	assert.Equal(t, []string{"ad"}, l.RemediationIDs)
	assert.Equal(t, 15, l.TotalScore)
	sum := 0
	for _, d := range l.Days() {
		sum += d.PointsDelta
		assert.GreaterOrEqual(t, d.WordsAdded, 0)
	}
	assert.Equal(t, 15, sum)
}

func TestOpenSelectsDriver(t *testing.T) {
	repo, closer, err := Open(DriverFile, filepath.Join(t.TempDir(), "s.json"), zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &FileRepository{}, repo)
	require.NoError(t, closer.Close())

	_, _, err = Open("oracle", "x", zap.NewNop())
	assert.Error(t, err)
}
