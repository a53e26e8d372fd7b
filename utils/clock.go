package utils

import "time"

// KST is the server's date reckoning for daily and weekly rate limits.
var KST = time.FixedZone("KST", 9*60*60)

// DayRangeKST returns the UTC bounds [start, end) of the KST calendar
// day containing t.
func DayRangeKST(t time.Time) (time.Time, time.Time) {
	local := t.In(KST)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, KST)
	return start.UTC(), start.AddDate(0, 0, 1).UTC()
}

// WeekRangeKST returns the UTC bounds [start, end) of the KST calendar
// week containing t. Weeks start on Monday, matching Postgres
// date_trunc('week', ...).
func WeekRangeKST(t time.Time) (time.Time, time.Time) {
	local := t.In(KST)
	weekday := int(local.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday belongs to the week started the prior Monday
	}
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, KST).
		AddDate(0, 0, -(weekday - 1))
	return start.UTC(), start.AddDate(0, 0, 7).UTC()
}

// TodayKST returns the current KST date as "YYYY-MM-DD".
func TodayKST(t time.Time) string {
	return t.In(KST).Format("2006-01-02")
}
