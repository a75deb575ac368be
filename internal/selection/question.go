package selection

import (
	"strings"

	"github.com/example/wordcoach/pkg/models"
)

// MaxDistractors is the number of wrong options offered with each question
const MaxDistractors = 3

// BuildQuestion constructs a multiple choice question for word. Direct and
// remediation questions prompt with the source text, reverse with the target
// text; review follows the direct direction. Distractors are answer-side
// texts of other words, excluding texts equal to the correct answer and
// repeated texts, both compared case-insensitively.
func (s *Selector) BuildQuestion(mode models.Mode, word *models.WordEntry, entries []*models.WordEntry) models.Question {
	prompt, answer := word.SourceText, word.TargetText
	if mode == models.ModeReverse {
		prompt, answer = word.TargetText, word.SourceText
	}

	seen := map[string]bool{optionKey(answer): true}
	pool := make([]string, 0, len(entries))
	for _, e := range entries {
		if e == word || e.Key() == word.Key() {
			continue
		}
		text := e.TargetText
		if mode == models.ModeReverse {
			text = e.SourceText
		}
		key := optionKey(text)
		if seen[key] {
			continue
		}
		seen[key] = true
		pool = append(pool, text)
	}

	// Sample without replacement via a partial Fisher-Yates shuffle.
	n := MaxDistractors
	if len(pool) < n {
		n = len(pool)
	}
	for i := 0; i < n; i++ {
		j := i + s.rng.Intn(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}

	options := append(pool[:n:n], answer)
	s.rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	correct := 0
	for i, o := range options {
		if o == answer {
			correct = i
			break
		}
	}

	return models.Question{
		Mode:         mode,
		Word:         *word,
		Prompt:       prompt,
		Answer:       answer,
		Options:      options,
		CorrectIndex: correct,
	}
}

func optionKey(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}
