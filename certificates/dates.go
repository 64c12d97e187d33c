package certificates

import (
	"fmt"
	"regexp"
	"sort"
	"time"
)

const (
	isoLayout     = "2006-01-02"
	slashLayout   = "2/1/2006"
	displayLayout = "02/01/2006"
	sigilLayout   = "02012006"
)

var (
	isoDateRe   = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
	slashDateRe = regexp.MustCompile(`\d{1,2}/\d{1,2}/\d{4}`)
)

// DateResult is the outcome of ParseDate. When Fallback is set, Date holds
// the substitute day and Reason says why nothing usable was found.
type DateResult struct {
	Date     time.Time
	Fallback bool
	Reason   string
}

// ParseDate scans raw for an ISO date first, then for a DD/MM/YYYY date anywhere in the string.
// It never fails: without a valid match it returns today flagged as a fallback.
func ParseDate(raw string, today time.Time) DateResult {
	for _, m := range isoDateRe.FindAllString(raw, -1) {
		if d, ok := parseCivil(isoLayout, m); ok {
			return DateResult{Date: d}
		}
	}
	for _, m := range slashDateRe.FindAllString(raw, -1) {
		if d, ok := parseSlash(m); ok {
			return DateResult{Date: d}
		}
	}
	return DateResult{
		Date:     Civil(today),
		Fallback: true,
		Reason:   fmt.Sprintf("no valid date in %q", raw),
	}
}

// FindDates returns every valid full date mentioned in text, ISO matches first.
func FindDates(text string) []time.Time {
	var dates []time.Time
	for _, m := range isoDateRe.FindAllString(text, -1) {
		if d, ok := parseCivil(isoLayout, m); ok {
			dates = append(dates, d)
		}
	}
	for _, m := range slashDateRe.FindAllString(text, -1) {
		if d, ok := parseSlash(m); ok {
			dates = append(dates, d)
		}
	}
	return dates
}

// LatestDate returns the latest date among start and every full date found in texts.
func LatestDate(start time.Time, texts ...string) time.Time {
	latest := Civil(start)
	for _, text := range texts {
		dates := FindDates(text)
		sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
		if n := len(dates); n > 0 && dates[n-1].After(latest) {
			latest = dates[n-1]
		}
	}
	return latest
}

// Civil drops the clock part and pins the day to UTC
func Civil(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FormatDisplayDate renders dates as DD/MM/YYYY. ISO strings are converted;
// other strings are returned unchanged and nil values become "".
func FormatDisplayDate(v any) string {
	switch d := v.(type) {
	case nil:
		return ""
	case time.Time:
		if d.IsZero() {
			return ""
		}
		return d.Format(displayLayout)
	case *time.Time:
		if d == nil || d.IsZero() {
			return ""
		}
		return d.Format(displayLayout)
	case string:
		if loc := isoDateRe.FindStringIndex(d); loc != nil && loc[0] == 0 {
			if t, ok := parseCivil(isoLayout, d[:loc[1]]); ok {
				return t.Format(displayLayout)
			}
		}
		return d
	default:
		return fmt.Sprint(v)
	}
}

// parseSlash accepts one or two digit days and months
func parseSlash(s string) (time.Time, bool) {
	return parseCivil(slashLayout, s)
}

func parseCivil(layout, s string) (time.Time, bool) {
	t, err := time.ParseInLocation(layout, s, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
