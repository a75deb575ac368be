package selection

import (
	"math/rand"
	"time"

	"github.com/pkg/errors"

	"github.com/example/wordcoach/internal/words"
	"github.com/example/wordcoach/pkg/models"
)

// ErrEmptyCorpus is returned when there are not enough words to ask from
var ErrEmptyCorpus = errors.New("not enough words to build a question")

// Weights assigns a sampling probability to each age category, indexed by
// models.AgeCategory (today, recent, medium, old)
type Weights [4]float64

// DefaultWeights front-loads fresh words in the primary drills and favours
// ageing words in review; review never asks words added today.
var DefaultWeights = map[models.Mode]Weights{
	models.ModeDirect:  {0.40, 0.30, 0.20, 0.10},
	models.ModeReverse: {0.40, 0.30, 0.20, 0.10},
	models.ModeReview:  {0.00, 0.20, 0.30, 0.50},
}

// Selector picks the next word with age-weighted stratified sampling
type Selector struct {
	rng     *rand.Rand
	weights map[models.Mode]Weights
}

// NewSelector creates a selector using rng for every random draw
func NewSelector(rng *rand.Rand) *Selector {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Selector{rng: rng, weights: DefaultWeights}
}

// SelectWord chooses a word for a primary mode
func (s *Selector) SelectWord(mode models.Mode, entries []*models.WordEntry, today time.Time) (*models.WordEntry, error) {
	weights, ok := s.weights[mode]
	if !ok {
		return nil, errors.Wrapf(models.ErrInvalidMode, "no selection weights for %q", mode)
	}
	if len(entries) == 0 {
		return nil, ErrEmptyCorpus
	}

	var buckets [4][]*models.WordEntry
	for _, e := range entries {
		c := words.Category(e, today)
		buckets[c] = append(buckets[c], e)
	}

	var sizes [4]int
	for i := range buckets {
		sizes[i] = len(buckets[i])
	}

	cat, ok := PickCategory(weights, sizes, s.rng.Float64())
	if !ok {
		return entries[s.rng.Intn(len(entries))], nil
	}
	bucket := buckets[cat]
	return bucket[s.rng.Intn(len(bucket))], nil
}

// PickCategory drops empty or zero-weight categories, renormalizes the rest
// and returns the first category whose cumulative weight meets or exceeds
// draw (a uniform value in [0,1)). It returns false when no category remains.
func PickCategory(weights Weights, sizes [4]int, draw float64) (models.AgeCategory, bool) {
	total := 0.0
	last := -1
	for i, w := range weights {
		if w > 0 && sizes[i] > 0 {
			total += w
			last = i
		}
	}
	if last < 0 {
		return 0, false
	}

	cumulative := 0.0
	for i, w := range weights {
		if w <= 0 || sizes[i] == 0 {
			continue
		}
		cumulative += w / total
		if cumulative >= draw {
			return models.AgeCategory(i), true
		}
	}
	// Floating point drift can leave the final cumulative just below draw.
	return models.AgeCategory(last), true
}
