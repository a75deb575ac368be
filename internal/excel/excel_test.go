package excel

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/wordcoach/internal/words"
	"github.com/example/wordcoach/pkg/models"
)

type recordingAdder struct {
	got []words.Pair
}

func (a *recordingAdder) AddWords(_ context.Context, pairs []words.Pair) (models.BatchResult, error) {
	a.got = append(a.got, pairs...)
	return models.BatchResult{Added: len(pairs) - 1, Skipped: 1}, nil
}

func TestExportThenImportWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.xlsx")
	added := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	entries := []models.WordEntry{
		{SourceText: "ad", TargetText: "advertisement", AddedOn: added, WrongCount: 2},
		{SourceText: "cat", TargetText: "kedi", AddedOn: added},
	}
	require.NoError(t, ExportWords(path, entries))

	cfg := DefaultImportConfig()
	cfg.FilePath = path
	pairs, res, err := ReadPairs(cfg)
	require.NoError(t, err)
	assert.Equal(t, 2, res.TotalProcessed)
	assert.Equal(t, []words.Pair{
		{Source: "ad", Target: "advertisement"},
		{Source: "cat", Target: "kedi"},
	}, pairs)
}

func TestImportCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.csv")
	data := "source,target\ngo (went; gone),gitmek\n,empty\n\nsun,güneş\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	cfg := DefaultImportConfig()
	cfg.FilePath = path
	adder := &recordingAdder{}
	res, err := ImportWords(context.Background(), adder, cfg)
	require.NoError(t, err)

	assert.Equal(t, []words.Pair{
		{Source: "go", Target: "gitmek"},
		{Source: "sun", Target: "güneş"},
	}, adder.got)
	assert.Equal(t, 3, res.TotalProcessed)
	assert.Equal(t, 1, res.Added)
	assert.Equal(t, 2, res.Skipped)
	assert.Len(t, res.Errors, 1)
}

func TestImportMissingFile(t *testing.T) {
	cfg := DefaultImportConfig()
	cfg.FilePath = filepath.Join(t.TempDir(), "nope.xlsx")
	_, err := ImportWords(context.Background(), &recordingAdder{}, cfg)
	assert.Error(t, err)
}

func TestBadColumn(t *testing.T) {
	cfg := DefaultImportConfig()
	cfg.SourceColumn = "1"
	_, _, err := ReadPairs(cfg)
	assert.Error(t, err)
}
