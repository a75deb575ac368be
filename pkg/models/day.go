package models

// DayRecord holds the counters of a single calendar day
type DayRecord struct {
	Date            string `json:"date,omitempty" db:"day"`
	PointsDelta     int    `json:"points_delta" db:"points_delta"`
	WordsAdded      int    `json:"words_added" db:"words_added"`
	CorrectCount    int    `json:"correct_count" db:"correct_count"`
	IncorrectCount  int    `json:"incorrect_count" db:"incorrect_count"`
	DirectAnswered  int    `json:"direct_answered" db:"direct_answered"`
	ReverseAnswered int    `json:"reverse_answered" db:"reverse_answered"`
	ReviewAnswered  int    `json:"review_answered" db:"review_answered"`
}
