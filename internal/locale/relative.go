package locale

import (
	"math"
	"time"
)

// FromNow renders t relative to now ("3日前", "in 2 hours").
//
// Thresholds follow dayjs' relativeTime plugin: up to 44s is "a few seconds",
// up to 89s "a minute", then minutes up to 44, "an hour" up to 89 minutes,
// hours up to 21, "a day" up to 35 hours, days up to 25, "a month" up to 45
// days, months up to 10, "a year" up to 17 months, then years.
func (l *Localizer) FromNow(t, now time.Time) string {
	d := now.Sub(t)
	if d < 0 {
		return l.Sprintf(future, l.span(-d))
	}
	return l.Sprintf(past, l.span(d))
}

func (l *Localizer) span(d time.Duration) string {
	if round(d.Seconds()) <= 44 {
		return l.Sprintf(fewSeconds)
	}
	if round(d.Seconds()) <= 89 {
		return l.Sprintf(aMinute)
	}
	if m := round(d.Minutes()); m <= 44 {
		return l.Sprintf(minutes, m)
	}
	if round(d.Minutes()) <= 89 {
		return l.Sprintf(anHour)
	}
	if h := round(d.Hours()); h <= 21 {
		return l.Sprintf(hours, h)
	}
	if round(d.Hours()) <= 35 {
		return l.Sprintf(aDay)
	}
	dayCount := d.Hours() / 24
	if n := round(dayCount); n <= 25 {
		return l.Sprintf(days, n)
	}
	if round(dayCount) <= 45 {
		return l.Sprintf(aMonth)
	}
	monthCount := dayCount / 30.4375
	if n := round(monthCount); n <= 10 {
		return l.Sprintf(months, n)
	}
	if round(monthCount) <= 17 {
		return l.Sprintf(aYear)
	}
	return l.Sprintf(years, round(monthCount/12))
}

func round(v float64) int64 {
	return int64(math.Round(v))
}
