package models

// DayStat is a DayRecord with the running total score at the end of that day
type DayStat struct {
	DayRecord
	CumulativeScore int `json:"cumulative_score"`
}

// Stats is a read-only snapshot of the learner's progress
type Stats struct {
	TotalScore       int       `json:"total_score"`
	Today            DayRecord `json:"today"`
	TotalCorrect     int       `json:"total_correct"`
	TotalIncorrect   int       `json:"total_incorrect"`
	DirectAnswered   int       `json:"direct_answered"`
	ReverseAnswered  int       `json:"reverse_answered"`
	ReviewAnswered   int       `json:"review_answered"`
	AnswerTarget     int       `json:"answer_target"`
	GateOpen         bool      `json:"gate_open"`
	WordTarget       int       `json:"word_target"`
	CorrectStreak    int       `json:"correct_streak"`
	WrongStreak      int       `json:"wrong_streak"`
	ComboMultiplier  float64   `json:"combo_multiplier"`
	WordCount        int       `json:"word_count"`
	MistakeCount     int       `json:"mistake_count"`
	RemediationCount int       `json:"remediation_count"`
	History          []DayStat `json:"history"`
}
