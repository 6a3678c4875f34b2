package filter

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/language"
)

type componentOrder int

const (
	monthFirst componentOrder = iota
	dayFirst
)

// Locale describes how a supported language displays calendar dates.
type Locale struct {
	tag   language.Tag
	order componentOrder
	sep   byte
}

var (
	Turkish = Locale{tag: language.Turkish, order: dayFirst, sep: '.'}
	English = Locale{tag: language.English, order: monthFirst, sep: '/'}
	Arabic  = Locale{tag: language.Arabic, order: dayFirst, sep: '/'}
)

// locales is the closed set of supported locales; matcher order follows it.
var locales = []Locale{Turkish, English, Arabic}

var localeMatcher = newLocaleMatcher()

func newLocaleMatcher() language.Matcher {
	tags := make([]language.Tag, len(locales))
	for i, l := range locales {
		tags[i] = l.tag
	}
	return language.NewMatcher(tags)
}

func (l Locale) IsZero() bool {
	return l.sep == 0
}

func (l Locale) String() string {
	return l.tag.String()
}

// Pattern returns the display pattern, e.g. "DD.MM.YYYY".
func (l Locale) Pattern() string {
	sep := string(l.sep)
	if l.order == dayFirst {
		return "DD" + sep + "MM" + sep + "YYYY"
	}
	return "MM" + sep + "DD" + sep + "YYYY"
}

// MatchLocale maps a BCP 47 tag such as "tr-TR" or "en" onto a supported locale.
func MatchLocale(tag string) (Locale, bool) {
	parsed, err := language.Parse(strings.TrimSpace(tag))
	if err != nil {
		return Locale{}, false
	}

	_, index, confidence := localeMatcher.Match(parsed)
	if confidence == language.No {
		return Locale{}, false
	}
	return locales[index], true
}

// MatchAcceptLanguage picks the best supported locale for an Accept-Language header.
func MatchAcceptLanguage(header string) (Locale, bool) {
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return Locale{}, false
	}

	_, index, confidence := localeMatcher.Match(tags...)
	if confidence == language.No {
		return Locale{}, false
	}
	return locales[index], true
}

// LocaleOrDefault matches tag and falls back when it is empty or unsupported.
func LocaleOrDefault(tag string, fallback Locale) Locale {
	if l, ok := MatchLocale(tag); ok {
		return l
	}
	return fallback
}

// FormatForLocale renders an ISO date in the locale's display format.
// Input that is not a valid calendar date is returned unchanged.
func FormatForLocale(isoDate string, l Locale) string {
	if !IsCalendarDate(isoDate) {
		return isoDate
	}

	year, month, day := isoDate[0:4], isoDate[5:7], isoDate[8:10]
	sep := string(l.sep)
	if l.order == dayFirst {
		return day + sep + month + sep + year
	}
	return month + sep + day + sep + year
}

// ParseFromLocale reads a date typed in the locale's format and returns it as
// YYYY-MM-DD. Only the shape is checked here: three numeric components joined
// by one consistent separator ('.', '-' or '/'), a four-digit year, month in
// 1-12 and day in 1-31. A leading four-digit component is read as year-first.
// Whether the day exists in that month is left to ValidateDateRange.
func ParseFromLocale(input string, l Locale) (string, bool) {
	s := strings.TrimSpace(input)

	sepIndex := strings.IndexAny(s, ".-/")
	if sepIndex < 0 {
		return "", false
	}
	parts := strings.Split(s, s[sepIndex:sepIndex+1])
	if len(parts) != 3 {
		return "", false
	}

	var yearPart, monthPart, dayPart string
	switch {
	case len(parts[0]) == 4:
		yearPart, monthPart, dayPart = parts[0], parts[1], parts[2]
	case l.order == dayFirst:
		dayPart, monthPart, yearPart = parts[0], parts[1], parts[2]
	default:
		monthPart, dayPart, yearPart = parts[0], parts[1], parts[2]
	}

	if len(yearPart) != 4 || len(monthPart) == 0 || len(monthPart) > 2 || len(dayPart) == 0 || len(dayPart) > 2 {
		return "", false
	}

	year, ok := digits(yearPart)
	if !ok {
		return "", false
	}
	month, ok := digits(monthPart)
	if !ok || month < 1 || month > 12 {
		return "", false
	}
	day, ok := digits(dayPart)
	if !ok || day < 1 || day > 31 {
		return "", false
	}

	return fmt.Sprintf("%04d-%02d-%02d", year, month, day), true
}

func digits(s string) (int, bool) {
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// ParseLocalRange reads two dates typed in the locale's format and validates
// them as a range. Blank input reports ErrDateRequired, input of the wrong
// shape reports ErrDateInvalidFormat, and the rest is ValidateDateRange.
func ParseLocalRange(start, end string, l Locale) (DateRange, error) {
	if strings.TrimSpace(start) == "" || strings.TrimSpace(end) == "" {
		return DateRange{}, ErrDateRequired
	}

	startISO, ok := ParseFromLocale(start, l)
	if !ok {
		return DateRange{}, ErrDateInvalidFormat
	}
	endISO, ok := ParseFromLocale(end, l)
	if !ok {
		return DateRange{}, ErrDateInvalidFormat
	}

	return NewDateRange(startISO, endISO)
}
