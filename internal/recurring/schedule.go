// Package recurring computes recurring-transaction schedules and spawns the
// ledger entries they describe.
package recurring

import (
	"errors"
	"fmt"
	"time"

	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/calculator"
	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/models"
)

var (
	ErrInvalidFrequency = errors.New("invalid frequency")
	ErrInvalidType      = errors.New("type must be income or expense")
	ErrEndBeforeStart   = errors.New("end date must not be before start date")
)

// Occurrence returns the n-th occurrence of a schedule; occurrence 0 is start.
//
// Months are anchored to start's day and clamped to the length of the target
// month, so a schedule starting on Jan 31 runs on Feb 28 (or 29) and Mar 31.
// Yearly schedules starting on Feb 29 run on Feb 28 in common years.
func Occurrence(start time.Time, freq models.Frequency, interval, n int) time.Time {
	if interval < 1 {
		interval = 1
	}
	steps := n * interval
	switch freq {
	case models.FrequencyDaily:
		return start.AddDate(0, 0, steps)
	case models.FrequencyWeekly:
		return start.AddDate(0, 0, 7*steps)
	case models.FrequencyMonthly:
		months := int(start.Month()) - 1 + steps
		return clampDate(start, start.Year()+months/12, time.Month(months%12+1))
	case models.FrequencyYearly:
		return clampDate(start, start.Year()+steps, start.Month())
	default:
		return start
	}
}

// clampDate moves start to year/month keeping its day where the month allows.
func clampDate(start time.Time, year int, month time.Month) time.Time {
	day := start.Day()
	if last := daysIn(year, month); day > last {
		day = last
	}
	h, m, s := start.Clock()
	return time.Date(year, month, day, h, m, s, start.Nanosecond(), start.Location())
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Next returns the execution time that follows the ones already spawned.
func Next(rt *models.RecurringTransaction, loc *time.Location) int64 {
	start := time.Unix(rt.StartDate, 0).In(loc)
	return Occurrence(start, rt.Frequency, rt.Interval, rt.ExecutionCount).Unix()
}

// Preview lists up to count upcoming execution times, stopping at EndDate.
func Preview(rt *models.RecurringTransaction, loc *time.Location, count int) []int64 {
	start := time.Unix(rt.StartDate, 0).In(loc)
	out := make([]int64, 0, count)
	for n := rt.ExecutionCount; len(out) < count; n++ {
		at := Occurrence(start, rt.Frequency, rt.Interval, n).Unix()
		if rt.EndDate != nil && at > *rt.EndDate {
			break
		}
		out = append(out, at)
	}
	return out
}

// Validate checks a template and normalizes its interval.
func Validate(rt *models.RecurringTransaction) error {
	if !rt.Type.Valid() {
		return ErrInvalidType
	}
	if err := calculator.ValidateAmount(rt.Amount); err != nil {
		return err
	}
	if !rt.Frequency.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidFrequency, rt.Frequency)
	}
	if rt.Interval < 1 {
		rt.Interval = 1
	}
	if rt.EndDate != nil && *rt.EndDate < rt.StartDate {
		return ErrEndBeforeStart
	}
	return nil
}

// Reschedule anchors the template at start and restarts its occurrence count.
// It is used on creation and whenever the schedule itself is edited.
func Reschedule(rt *models.RecurringTransaction, start int64) {
	rt.StartDate = start
	rt.ExecutionCount = 0
	rt.NextExecution = start
	rt.Active = rt.EndDate == nil || *rt.EndDate >= start
}

// Advance records one spawned occurrence and computes the next one. It reports
// whether the template ran past its end date and was deactivated.
func Advance(rt *models.RecurringTransaction, executedAt int64, loc *time.Location) bool {
	rt.ExecutionCount++
	rt.LastExecution = &executedAt
	rt.NextExecution = Next(rt, loc)
	rt.UpdatedAt = time.Now().Unix()
	if rt.EndDate != nil && rt.NextExecution > *rt.EndDate {
		rt.Active = false
		return true
	}
	return false
}

// Spawn builds the ledger entry for one occurrence of rt.
func Spawn(rt *models.RecurringTransaction, date int64) *models.Transaction {
	return &models.Transaction{
		UserID:      rt.UserID,
		Type:        rt.Type,
		Amount:      rt.Amount,
		Currency:    rt.Currency,
		Description: rt.Description,
		CategoryID:  rt.CategoryID,
		RecurringID: rt.ID,
		Date:        date,
	}
}
