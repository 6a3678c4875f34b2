package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestResolveQuickRange(t *testing.T) {
	today := day("2024-03-15")

	tests := []struct {
		option QuickRange
		want   *DateRange
	}{
		{QuickToday, &DateRange{Start: "2024-03-15", End: "2024-03-15"}},
		{QuickLast7, &DateRange{Start: "2024-03-09", End: "2024-03-15"}},
		{QuickThisMonth, &DateRange{Start: "2024-03-01", End: "2024-03-31"}},
		{QuickThisYear, &DateRange{Start: "2024-01-01", End: "2024-12-31"}},
		{QuickCustom, nil},
		{QuickRange("lastDecade"), nil},
	}

	for _, tt := range tests {
		t.Run(string(tt.option), func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveQuickRange(tt.option, today))
		})
	}
}

func TestResolveQuickRange_MonthBoundaries(t *testing.T) {
	tests := []struct {
		name   string
		option QuickRange
		today  string
		want   DateRange
	}{
		{"leap february", QuickThisMonth, "2024-02-10", DateRange{Start: "2024-02-01", End: "2024-02-29"}},
		{"common february", QuickThisMonth, "2023-02-10", DateRange{Start: "2023-02-01", End: "2023-02-28"}},
		{"december", QuickThisMonth, "2024-12-31", DateRange{Start: "2024-12-01", End: "2024-12-31"}},
		{"april", QuickThisMonth, "2024-04-30", DateRange{Start: "2024-04-01", End: "2024-04-30"}},
		{"last7 across year", QuickLast7, "2024-01-03", DateRange{Start: "2023-12-28", End: "2024-01-03"}},
		{"last7 across leap day", QuickLast7, "2024-03-02", DateRange{Start: "2024-02-25", End: "2024-03-02"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveQuickRange(tt.option, day(tt.today))
			require.NotNil(t, got)
			assert.Equal(t, tt.want, *got)
			assert.LessOrEqual(t, got.Start, got.End)
		})
	}
}

func TestResolveQuickRange_UsesCalendarDateOfLocation(t *testing.T) {
	istanbul := time.FixedZone("TRT", 3*60*60)
	// 22:30 UTC on the 14th is already the 15th in Istanbul
	now := time.Date(2024, 3, 14, 22, 30, 0, 0, time.UTC).In(istanbul)

	got := ResolveQuickRange(QuickToday, now)
	require.NotNil(t, got)
	assert.Equal(t, "2024-03-15", got.Start)
}

func TestParseQuickRange(t *testing.T) {
	option, ok := ParseQuickRange("thisMonth")
	assert.True(t, ok)
	assert.Equal(t, QuickThisMonth, option)

	_, ok = ParseQuickRange("ThisMonth")
	assert.False(t, ok)
}

func TestValidateDateRange(t *testing.T) {
	tests := []struct {
		name       string
		start, end string
		want       error
	}{
		{"valid", "2024-03-01", "2024-03-31", nil},
		{"same day", "2024-03-15", "2024-03-15", nil},
		{"missing start", "", "2024-03-31", ErrDateRequired},
		{"blank end", "2024-03-01", "   ", ErrDateRequired},
		{"impossible day", "2024-02-30", "2024-03-31", ErrDateInvalidFormat},
		{"not leap year", "2023-02-29", "2023-03-01", ErrDateInvalidFormat},
		{"wrong shape", "2024/03/01", "2024-03-31", ErrDateInvalidFormat},
		{"end before start", "2024-03-31", "2024-03-01", ErrEndBeforeStart},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDateRange(tt.start, tt.end)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestRangeErrorCode(t *testing.T) {
	assert.Equal(t, "endBeforeStart", RangeErrorCode(ValidateDateRange("2024-03-02", "2024-03-01")))
	assert.Equal(t, "required", RangeErrorCode(ErrDateRequired))
	assert.Equal(t, "", RangeErrorCode(assert.AnError))
	assert.Equal(t, "", RangeErrorCode(nil))
}

func TestNewDateRange(t *testing.T) {
	r, err := NewDateRange(" 2024-03-01 ", "2024-03-31")
	require.NoError(t, err)
	assert.Equal(t, DateRange{Start: "2024-03-01", End: "2024-03-31"}, r)

	_, err = NewDateRange("2024-04-01", "2024-03-31")
	assert.ErrorIs(t, err, ErrEndBeforeStart)
}

func TestDateRange_Contains(t *testing.T) {
	r := DateRange{Start: "2024-03-01", End: "2024-03-31"}

	assert.True(t, r.Contains("2024-03-01"))
	assert.True(t, r.Contains("2024-03-15"))
	assert.True(t, r.Contains("2024-03-31"))
	assert.False(t, r.Contains("2024-02-29"))
	assert.False(t, r.Contains("2024-04-01"))
	assert.False(t, r.Contains(""))
	assert.False(t, r.Contains("2024-03-32"))
}
