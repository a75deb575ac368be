package words

import (
	"time"

	"github.com/example/wordcoach/pkg/models"
)

// Age thresholds in days
const (
	RecentAfterDays = 1
	MediumAfterDays = 7
	OldAfterDays    = 30
)

// AgeInDays returns the whole days since the entry was added. A missing
// added_on date or a date in the future yields 0.
func AgeInDays(entry *models.WordEntry, today time.Time) int {
	if entry == nil || entry.AddedOn.IsZero() {
		return 0
	}
	days := models.DaysBetween(entry.AddedOn, today)
	if days < 0 {
		return 0
	}
	return days
}

// CategoryForAge buckets an age: 0 today, 1-6 recent, 7-29 medium, 30+ old
func CategoryForAge(days int) models.AgeCategory {
	switch {
	case days >= OldAfterDays:
		return models.AgeOld
	case days >= MediumAfterDays:
		return models.AgeMedium
	case days >= RecentAfterDays:
		return models.AgeRecent
	default:
		return models.AgeToday
	}
}

// Category returns the age category of the entry on the given day
func Category(entry *models.WordEntry, today time.Time) models.AgeCategory {
	return CategoryForAge(AgeInDays(entry, today))
}
