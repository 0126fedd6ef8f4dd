package core

import "time"

// PeriodStart computes the inclusive start boundary of the current budget
// window as of now, with time-of-day zeroed:
//
//	weekly  -> the most recent Sunday
//	monthly -> the first calendar day of the current month
//	yearly  -> January 1 of the current year
func PeriodStart(p BudgetPeriod, now time.Time) time.Time {
	switch p {
	case Weekly:
		day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		return day.AddDate(0, 0, -int(now.Weekday()))
	case Yearly:
		return time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
	default: // monthly
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	}
}
