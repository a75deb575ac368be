package models

import (
	"strings"

	"github.com/pkg/errors"
)

// ErrInvalidMode is returned for an unrecognized quiz mode token
var ErrInvalidMode = errors.New("invalid mode")

// Mode represents a quiz direction or type
type Mode string

const (
	// ModeDirect asks the source text and expects the target text
	ModeDirect Mode = "direct"
	// ModeReverse asks the target text and expects the source text
	ModeReverse Mode = "reverse"
	// ModeReview is the general review drill weighted towards older words
	ModeReview Mode = "review"
	// ModeRemediation only draws from the remediation list
	ModeRemediation Mode = "remediation"
)

// PrimaryModes lists the modes subject to daily-goal gating
var PrimaryModes = []Mode{ModeDirect, ModeReverse, ModeReview}

// ParseMode converts a user supplied token into a Mode
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	switch m {
	case ModeDirect, ModeReverse, ModeReview, ModeRemediation:
		return m, nil
	}
	return "", errors.Wrapf(ErrInvalidMode, "%q", s)
}

// IsPrimary reports whether the mode counts towards the daily answer goal
func (m Mode) IsPrimary() bool {
	return m == ModeDirect || m == ModeReverse || m == ModeReview
}

// AgeCategory buckets a word by days since it was added
type AgeCategory int

const (
	AgeToday AgeCategory = iota
	AgeRecent
	AgeMedium
	AgeOld
)

// AgeCategories lists every category in sampling order
var AgeCategories = []AgeCategory{AgeToday, AgeRecent, AgeMedium, AgeOld}

func (c AgeCategory) String() string {
	switch c {
	case AgeToday:
		return "today"
	case AgeRecent:
		return "recent"
	case AgeMedium:
		return "medium"
	case AgeOld:
		return "old"
	}
	return "unknown"
}
