package recurring

import (
	"time"

	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/models"
)

// maxRoll bounds the search for the next reminder occurrence.
const maxRoll = 10000

// RollForward moves a repeating reminder to its first occurrence strictly
// after both the given time and its current due time. Occurrences are counted
// from AnchorAt, so a reminder on the 31st returns to the 31st after a short
// month. One-off reminders are left alone and false is returned.
func RollForward(r *models.Reminder, after int64, loc *time.Location) bool {
	if r.Repeat == "" || !r.Repeat.Valid() {
		return false
	}
	if r.AnchorAt == 0 {
		r.AnchorAt = r.DueAt
	}
	anchor := time.Unix(r.AnchorAt, 0).In(loc)
	after = max(after, r.DueAt)
	for n := 1; n <= maxRoll; n++ {
		next := Occurrence(anchor, r.Repeat, 1, n).Unix()
		if next > after {
			r.DueAt = next
			r.UpdatedAt = time.Now().Unix()
			return true
		}
	}
	return false
}
