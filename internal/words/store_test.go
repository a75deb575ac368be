package words

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/wordcoach/pkg/models"
)

var today = time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

func TestAddTrimsAndStamps(t *testing.T) {
	s := NewStore()
	e, err := s.Add("  ad ", " advertisement ", today.Add(15*time.Hour))
	require.NoError(t, err)

	assert.Equal(t, "ad", e.SourceText)
	assert.Equal(t, "advertisement", e.TargetText)
	assert.Equal(t, today, e.AddedOn)
	assert.Zero(t, e.WrongCount)
	assert.Nil(t, e.LastWrongDate)
	assert.Equal(t, 1, s.Len())
}

func TestAddRejectsDuplicatesCaseInsensitive(t *testing.T) {
	s := NewStore()
	_, err := s.Add("Apple", "elma", today)
	require.NoError(t, err)

	_, err = s.Add(" apple", "elma 2", today)
	assert.True(t, errors.Is(err, ErrDuplicateWord))
	assert.Equal(t, 1, s.Len())
}

func TestAddRejectsBlank(t *testing.T) {
	s := NewStore()
	_, err := s.Add("   ", "x", today)
	assert.Equal(t, ErrEmptyText, err)
	_, err = s.Add("x", "", today)
	assert.Equal(t, ErrEmptyText, err)
}

func TestFindAndRemove(t *testing.T) {
	s := NewStore()
	for _, w := range []string{"one", "two", "three"} {
		_, err := s.Add(w, w+"-t", today)
		require.NoError(t, err)
	}

	e, ok := s.Find("TWO")
	require.True(t, ok)
	assert.Equal(t, "two", e.SourceText)

	removed, err := s.Remove("two")
	require.NoError(t, err)
	assert.Equal(t, "two", removed.SourceText)

	_, ok = s.Find("two")
	assert.False(t, ok)
	assert.Equal(t, []string{"one", "three"}, sources(s.All()))

	_, err = s.Remove("two")
	assert.True(t, errors.Is(err, ErrWordNotFound))
}

func TestCloneIsDeep(t *testing.T) {
	s := NewStore()
	e, _ := s.Add("cat", "kedi", today)
	d := today
	e.LastWrongDate = &d
	e.WrongCount = 1

	c := s.Clone()
	ce, _ := c.Find("cat")
	ce.WrongCount = 5
	*ce.LastWrongDate = today.AddDate(0, 0, 3)

	assert.Equal(t, 1, e.WrongCount)
	assert.Equal(t, today, *e.LastWrongDate)
}

func TestRestoreNormalizes(t *testing.T) {
	d := today
	s, skipped := Restore([]models.WordEntry{
		{SourceText: "a", TargetText: "x", WrongCount: -3, LastWrongDate: &d},
		{SourceText: "A ", TargetText: "dup"},
		{SourceText: "", TargetText: "blank"},
		{SourceText: "b", TargetText: "y", RemediationProgress: -1},
	})

	assert.Equal(t, 2, skipped)
	require.Equal(t, 2, s.Len())
	a, _ := s.Find("a")
	assert.Zero(t, a.WrongCount)
	assert.Nil(t, a.LastWrongDate)
	b, _ := s.Find("b")
	assert.Zero(t, b.RemediationProgress)
}

func TestMistakes(t *testing.T) {
	s := NewStore()
	a, _ := s.Add("a", "x", today)
	s.Add("b", "y", today)
	a.WrongCount = 2

	assert.Equal(t, []string{"a"}, sources(s.Mistakes()))
}

func sources(entries []*models.WordEntry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.SourceText)
	}
	return out
}
