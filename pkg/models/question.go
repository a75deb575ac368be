package models

import "time"

// Question is a multiple choice prompt built for a single word
type Question struct {
	Mode         Mode      `json:"mode"`
	Word         WordEntry `json:"word"`
	Prompt       string    `json:"prompt"`
	Answer       string    `json:"answer"`
	Options      []string  `json:"options"`
	CorrectIndex int       `json:"correct_index"`
}

// ScoreOutcome describes the effect of one submitted answer
type ScoreOutcome struct {
	Word          string  `json:"word"`
	Mode          Mode    `json:"mode"`
	Correct       bool    `json:"correct"`
	Selected      string  `json:"selected"`
	Expected      string  `json:"expected"`
	BaseValue     int     `json:"base_value"`
	Multiplier    float64 `json:"multiplier"`
	StreakPenalty int     `json:"streak_penalty"`
	GateOpen      bool    `json:"gate_open"`
	Delta         int     `json:"delta"`
	TotalScore    int     `json:"total_score"`
	CorrectStreak int     `json:"correct_streak"`
	WrongStreak   int     `json:"wrong_streak"`

	// Remediation follow-up
	InRemediation       bool `json:"in_remediation"`
	RemediationProgress int  `json:"remediation_progress"`
	LeftRemediation     bool `json:"left_remediation"`
}

// PenaltyReport summarizes what a daily reconciliation applied
type PenaltyReport struct {
	Date              time.Time  `json:"date"`
	RolledOver        bool       `json:"rolled_over"`
	PreviousDate      *time.Time `json:"previous_date,omitempty"`
	MissedGoalPenalty int        `json:"missed_goal_penalty"`
	DecayPenalty      int        `json:"decay_penalty"`
	DecayedWords      []string   `json:"decayed_words,omitempty"`
}

// Total returns the sum of all penalties in the report
func (r PenaltyReport) Total() int {
	return r.MissedGoalPenalty + r.DecayPenalty
}
