package filter

import (
	"errors"
	"strings"
	"time"
)

// DateLayout is the ISO-8601 calendar date layout used for item dates and range bounds.
const DateLayout = "2006-01-02"

// DateRange is an inclusive range of ISO calendar dates with Start <= End.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// RangeError is a date range validation failure. Code is stable and is what
// callers translate into user-facing messages.
type RangeError struct {
	Code string
}

func (e *RangeError) Error() string {
	return "invalid date range: " + e.Code
}

var (
	ErrDateRequired      = &RangeError{Code: "required"}
	ErrDateInvalidFormat = &RangeError{Code: "invalidFormat"}
	ErrEndBeforeStart    = &RangeError{Code: "endBeforeStart"}
)

// RangeErrorCode returns the code of a RangeError, or "" for any other error.
func RangeErrorCode(err error) string {
	var rangeErr *RangeError
	if errors.As(err, &rangeErr) {
		return rangeErr.Code
	}
	return ""
}

// ValidateDateRange checks two ISO dates. Checks run in order: both present,
// both real calendar dates, start not after end.
func ValidateDateRange(start, end string) error {
	start = strings.TrimSpace(start)
	end = strings.TrimSpace(end)

	if start == "" || end == "" {
		return ErrDateRequired
	}
	if !IsCalendarDate(start) || !IsCalendarDate(end) {
		return ErrDateInvalidFormat
	}
	if start > end {
		return ErrEndBeforeStart
	}
	return nil
}

func NewDateRange(start, end string) (DateRange, error) {
	if err := ValidateDateRange(start, end); err != nil {
		return DateRange{}, err
	}
	return DateRange{Start: strings.TrimSpace(start), End: strings.TrimSpace(end)}, nil
}

// Contains reports whether the ISO date falls inside the range, bounds included.
// Dates that are not valid calendar dates are never contained.
func (r DateRange) Contains(date string) bool {
	if !IsCalendarDate(date) {
		return false
	}
	return r.Start <= date && date <= r.End
}

// IsCalendarDate reports whether s is a YYYY-MM-DD string naming a real day.
func IsCalendarDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

type QuickRange string

const (
	QuickToday     QuickRange = "today"
	QuickLast7     QuickRange = "last7"
	QuickThisMonth QuickRange = "thisMonth"
	QuickThisYear  QuickRange = "thisYear"
	QuickCustom    QuickRange = "custom"
)

var QuickRanges = []QuickRange{QuickToday, QuickLast7, QuickThisMonth, QuickThisYear, QuickCustom}

func ParseQuickRange(s string) (QuickRange, bool) {
	for _, option := range QuickRanges {
		if string(option) == s {
			return option, true
		}
	}
	return "", false
}

// ResolveQuickRange computes the concrete range for a named option relative to
// today's calendar date. Custom and unknown options return nil: the caller is
// expected to collect explicit bounds.
func ResolveQuickRange(option QuickRange, today time.Time) *DateRange {
	y, m, d := today.Date()

	var start, end time.Time
	switch option {
	case QuickToday:
		start = civilDate(y, m, d)
		end = start
	case QuickLast7:
		start = civilDate(y, m, d-6)
		end = civilDate(y, m, d)
	case QuickThisMonth:
		start = civilDate(y, m, 1)
		// day 0 of the next month is the last day of this one
		end = civilDate(y, m+1, 0)
	case QuickThisYear:
		start = civilDate(y, time.January, 1)
		end = civilDate(y, time.December, 31)
	default:
		return nil
	}

	return &DateRange{
		Start: start.Format(DateLayout),
		End:   end.Format(DateLayout),
	}
}

func civilDate(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
