package selection

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/wordcoach/internal/words"
	"github.com/example/wordcoach/pkg/models"
)

var today = time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)

func newSelector(seed int64) *Selector {
	return NewSelector(rand.New(rand.NewSource(seed)))
}

// corpus builds one word per requested age in days
func corpus(ages ...int) []*models.WordEntry {
	out := make([]*models.WordEntry, 0, len(ages))
	for i, age := range ages {
		out = append(out, &models.WordEntry{
			SourceText: fmt.Sprintf("src%d", i),
			TargetText: fmt.Sprintf("tgt%d", i),
			AddedOn:    today.AddDate(0, 0, -age),
		})
	}
	return out
}

func TestPickCategory(t *testing.T) {
	direct := DefaultWeights[models.ModeDirect]
	all := [4]int{1, 1, 1, 1}

	tests := []struct {
		name    string
		weights Weights
		sizes   [4]int
		draw    float64
		want    models.AgeCategory
	}{
		{"lowest draw", direct, all, 0.0, models.AgeToday},
		{"tie at boundary picks first", Weights{0.5, 0.25, 0.25, 0}, all, 0.5, models.AgeToday},
		{"just past boundary", direct, all, 0.41, models.AgeRecent},
		{"top draw", direct, all, 0.999, models.AgeOld},
		{"empty today renormalizes", direct, [4]int{0, 1, 1, 1}, 0.45, models.AgeRecent},
		{"empty today renormalizes upper", direct, [4]int{0, 1, 1, 1}, 0.55, models.AgeMedium},
		{"review skips today", DefaultWeights[models.ModeReview], all, 0.0, models.AgeRecent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := PickCategory(tt.weights, tt.sizes, tt.draw)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPickCategoryNoneRemaining(t *testing.T) {
	_, ok := PickCategory(DefaultWeights[models.ModeReview], [4]int{5, 0, 0, 0}, 0.3)
	assert.False(t, ok)
}

func TestSelectWordEmptyCorpus(t *testing.T) {
	_, err := newSelector(1).SelectWord(models.ModeDirect, nil, today)
	assert.True(t, errors.Is(err, ErrEmptyCorpus))
}

func TestSelectWordRejectsRemediationMode(t *testing.T) {
	_, err := newSelector(1).SelectWord(models.ModeRemediation, corpus(0, 1), today)
	assert.True(t, errors.Is(err, models.ErrInvalidMode))
}

func TestReviewNeverPicksTodayWhenOthersExist(t *testing.T) {
	s := newSelector(7)
	entries := corpus(0, 0, 0, 3, 40)
	for i := 0; i < 500; i++ {
		w, err := s.SelectWord(models.ModeReview, entries, today)
		require.NoError(t, err)
		assert.NotEqual(t, models.AgeToday, words.Category(w, today))
	}
}

func TestReviewFallsBackToUniform(t *testing.T) {
	s := newSelector(3)
	entries := corpus(0, 0, 0, 0)
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		w, err := s.SelectWord(models.ModeReview, entries, today)
		require.NoError(t, err)
		seen[w.SourceText] = true
	}
	assert.Len(t, seen, 4)
}

func TestDirectDistributionFollowsWeights(t *testing.T) {
	s := newSelector(42)
	entries := corpus(0, 2, 10, 50)
	counts := map[models.AgeCategory]int{}
	const n = 20000
	for i := 0; i < n; i++ {
		w, err := s.SelectWord(models.ModeDirect, entries, today)
		require.NoError(t, err)
		counts[words.Category(w, today)]++
	}

	want := DefaultWeights[models.ModeDirect]
	for _, c := range models.AgeCategories {
		assert.InDelta(t, want[c], float64(counts[c])/n, 0.02, "category %s", c)
	}
}

func TestBuildQuestionDirect(t *testing.T) {
	s := newSelector(5)
	entries := corpus(0, 1, 2, 3, 4, 5)
	q := s.BuildQuestion(models.ModeDirect, entries[2], entries)

	assert.Equal(t, "src2", q.Prompt)
	assert.Equal(t, "tgt2", q.Answer)
	require.Len(t, q.Options, 4)
	assert.Equal(t, "tgt2", q.Options[q.CorrectIndex])
	for _, o := range q.Options {
		assert.Contains(t, o, "tgt")
	}
}

func TestBuildQuestionReverse(t *testing.T) {
	s := newSelector(5)
	entries := corpus(0, 1, 2, 3)
	q := s.BuildQuestion(models.ModeReverse, entries[0], entries)

	assert.Equal(t, "tgt0", q.Prompt)
	assert.Equal(t, "src0", q.Answer)
	assert.ElementsMatch(t, []string{"src0", "src1", "src2", "src3"}, q.Options)
}

func TestBuildQuestionSmallCorpus(t *testing.T) {
	s := newSelector(5)
	entries := corpus(0, 1)
	q := s.BuildQuestion(models.ModeDirect, entries[0], entries)
	assert.ElementsMatch(t, []string{"tgt0", "tgt1"}, q.Options)
}

func TestBuildQuestionFiltersDuplicateAnswers(t *testing.T) {
	s := newSelector(5)
	entries := corpus(0, 1, 2, 3, 4)
	entries[1].TargetText = "tgt0"
	entries[2].TargetText = "tgt3"

	q := s.BuildQuestion(models.ModeDirect, entries[0], entries)
	assert.ElementsMatch(t, []string{"tgt0", "tgt3", "tgt4"}, q.Options)
}

func TestBuildQuestionFiltersDuplicatesIgnoringCase(t *testing.T) {
	s := newSelector(5)
	entries := corpus(0, 1, 2, 3, 4)
	entries[1].TargetText = "TGT0"
	entries[3].TargetText = " Tgt2"

	q := s.BuildQuestion(models.ModeDirect, entries[0], entries)
	assert.ElementsMatch(t, []string{"tgt0", "tgt2", "tgt4"}, q.Options)
}
