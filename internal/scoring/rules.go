package scoring

// Rules holds the tunable constants of the scoring engine
type Rules struct {
	// DailyAnswerTarget is the number of answers each primary mode needs
	// before correct answers in primary modes pay out
	DailyAnswerTarget int
	// WrongAnswerPenalty is the base value of any incorrect answer
	WrongAnswerPenalty int
}

// DefaultRules returns the default scoring rules
func DefaultRules() Rules {
	return Rules{
		DailyAnswerTarget:  30,
		WrongAnswerPenalty: -2,
	}
}

// BaseValue returns the reward of a correct answer for a word of the given age
func BaseValue(ageDays int) int {
	switch {
	case ageDays >= 30:
		return 3
	case ageDays >= 7:
		return 2
	default:
		return 1
	}
}

// StreakPenalty returns the extra penalty for a wrong streak of the given length
func StreakPenalty(wrongStreak int) int {
	switch {
	case wrongStreak >= 10:
		return -10
	case wrongStreak >= 5:
		return -5
	default:
		return 0
	}
}
