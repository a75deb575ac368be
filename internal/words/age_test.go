package words

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/example/wordcoach/pkg/models"
)

func TestAgeInDays(t *testing.T) {
	tests := []struct {
		name    string
		addedOn time.Time
		want    int
	}{
		{"same day", today, 0},
		{"yesterday", today.AddDate(0, 0, -1), 1},
		{"thirty days", today.AddDate(0, 0, -30), 30},
		{"future clamps", today.AddDate(0, 0, 2), 0},
		{"missing date", time.Time{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &models.WordEntry{SourceText: "w", TargetText: "t", AddedOn: tt.addedOn}
			assert.Equal(t, tt.want, AgeInDays(e, today))
		})
	}
}

func TestCategoryForAge(t *testing.T) {
	tests := []struct {
		days int
		want models.AgeCategory
	}{
		{0, models.AgeToday},
		{1, models.AgeRecent},
		{6, models.AgeRecent},
		{7, models.AgeMedium},
		{29, models.AgeMedium},
		{30, models.AgeOld},
		{400, models.AgeOld},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CategoryForAge(tt.days), "age %d", tt.days)
	}
}
