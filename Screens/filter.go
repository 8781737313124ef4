package Screens

import (
	"strings"
	"time"
)

// All is the select value meaning "no filter".
const All = "all"

// Criteria are the filters of a screen. Dates are ISO YYYY-MM-DD as the date
// inputs submit them.
type Criteria struct {
	Company      string `form:"company"`
	ReturnReason string `form:"returnReason"`
	ReturnBy     string `form:"returnBy"`
	StartDate    string `form:"startDate"`
	EndDate      string `form:"endDate"`
}

func (c Criteria) normalized() Criteria {
	clean := func(v string) string {
		v = strings.TrimSpace(v)
		if v == All {
			return ""
		}
		return v
	}
	return Criteria{
		Company:      clean(c.Company),
		ReturnReason: clean(c.ReturnReason),
		ReturnBy:     clean(c.ReturnBy),
		StartDate:    strings.TrimSpace(c.StartDate),
		EndDate:      strings.TrimSpace(c.EndDate),
	}
}

// HasRange is true when both ends of the date range are set.
func (c Criteria) HasRange() bool {
	return c.StartDate != "" && c.EndDate != ""
}

// Day is a calendar date with no time zone attached.
type Day struct {
	time.Time
}

func dayOf(year int, month time.Month, day int) Day {
	return Day{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseISODay reads YYYY-MM-DD, the format of date inputs.
func ParseISODay(value string) (Day, bool) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(value))
	if err != nil {
		return Day{}, false
	}
	return dayOf(t.Year(), t.Month(), t.Day()), true
}

// ParseDayMonthYear reads DD-MM-YYYY, the format return orders arrive in.
func ParseDayMonthYear(value string) (Day, bool) {
	t, err := time.Parse("02-01-2006", strings.TrimSpace(value))
	if err != nil {
		return Day{}, false
	}
	return dayOf(t.Year(), t.Month(), t.Day()), true
}

func matches[T any](criteria Criteria, record T, acc Accessors[T]) bool {
	if criteria.Company != "" && acc.Company != nil && acc.Company(record) != criteria.Company {
		return false
	}
	if criteria.ReturnReason != "" && acc.ReturnReason != nil && acc.ReturnReason(record) != criteria.ReturnReason {
		return false
	}
	if criteria.ReturnBy != "" && acc.ReturnBy != nil && acc.ReturnBy(record) != criteria.ReturnBy {
		return false
	}
	if criteria.HasRange() && acc.Date != nil && acc.ParseDate != nil {
		day, ok := acc.ParseDate(acc.Date(record))
		return inRange(day, ok, criteria)
	}
	return true
}

func inRange(day Day, ok bool, criteria Criteria) bool {
	start, startOK := ParseISODay(criteria.StartDate)
	end, endOK := ParseISODay(criteria.EndDate)
	if !ok || !startOK || !endOK {
		return false
	}
	return !day.Before(start.Time) && !day.After(end.Time)
}
