package words

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLines(t *testing.T) {
	text := "ad - advertisement\n\n  well-known - iyi bilinen \ncat-kedi\ndog\tköpek\nnothing here\n - boş\n"

	pairs, problems := ParseLines(text)

	assert.Equal(t, []Pair{
		{Source: "ad", Target: "advertisement"},
		{Source: "well-known", Target: "iyi bilinen"},
		{Source: "cat", Target: "kedi"},
		{Source: "dog", Target: "köpek"},
	}, pairs)
	assert.Len(t, problems, 2)
	assert.Contains(t, problems[0], "invalid format")
	assert.Contains(t, problems[1], "empty word")
}
