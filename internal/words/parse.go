package words

import (
	"fmt"
	"strings"
)

// Pair is a source/target text pair waiting to be added
type Pair struct {
	Source string
	Target string
}

// separators are tried in order so that hyphenated words survive " - "
var separators = []string{" - ", "\t", "-"}

// ParseLines parses one "source - target" pair per line. Blank lines are
// ignored; malformed lines are reported and skipped.
func ParseLines(text string) ([]Pair, []string) {
	var pairs []Pair
	var problems []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		p, ok := parseLine(line)
		if !ok {
			problems = append(problems, fmt.Sprintf("invalid format: %s", line))
			continue
		}
		if p.Source == "" || p.Target == "" {
			problems = append(problems, fmt.Sprintf("empty word or translation: %s", line))
			continue
		}
		pairs = append(pairs, p)
	}
	return pairs, problems
}

func parseLine(line string) (Pair, bool) {
	for _, sep := range separators {
		if src, dst, found := strings.Cut(line, sep); found {
			return Pair{Source: strings.TrimSpace(src), Target: strings.TrimSpace(dst)}, true
		}
	}
	return Pair{}, false
}
