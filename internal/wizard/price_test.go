package wizard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestQuote(t *testing.T) {
	tests := []struct {
		name     string
		nightly  float64
		checkIn  time.Time
		checkOut time.Time
		nights   int
		total    float64
	}{
		{"three nights", 3000, date(t, "2025-06-01"), date(t, "2025-06-04"), 3, 9000},
		{"one day apart", 1500, date(t, "2025-06-01"), date(t, "2025-06-02"), 1, 1500},
		{"same day", 1500, date(t, "2025-06-01"), date(t, "2025-06-01"), 0, 0},
		{"reversed", 1500, date(t, "2025-06-04"), date(t, "2025-06-01"), 0, 0},
		{
			"partial day rounds up",
			1000,
			time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC),
			2, 2000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Quote(tt.nightly, tt.checkIn, tt.checkOut)
			assert.Equal(t, tt.nights, p.Nights)
			assert.Equal(t, tt.total, p.Total)
		})
	}
}

func TestQuoteDates_NotComputable(t *testing.T) {
	_, ok := QuoteDates(1000, "", "2025-06-02")
	assert.False(t, ok)

	_, ok = QuoteDates(1000, "2025-06-01", "someday")
	assert.False(t, ok)

	p, ok := QuoteDates(1000, "2025-06-01", "2025-06-03")
	assert.True(t, ok)
	assert.Equal(t, Price{Nights: 2, Total: 2000}, p)
}

func TestParseDate_Layouts(t *testing.T) {
	want := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	for _, in := range []string{
		"2025-06-01",
		" 2025-06-01 ",
		"2025-06-01T23:30:00+03:00",
		"2025-06-01T10:00:00",
		"2025-06-01 10:00:00",
		"01.06.2025",
	} {
		got, err := ParseDate(in)
		require.NoError(t, err, in)
		assert.True(t, want.Equal(got), "%s parsed as %s", in, got)
	}

	_, err := ParseDate("June 1st")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestParseDate_OffsetsUseUTCDay(t *testing.T) {
	got, err := NormalizeDate("2025-06-01T23:00:00-03:00")
	require.NoError(t, err)
	assert.Equal(t, "2025-06-02", got)

	got, err = NormalizeDate("2025-06-02T01:30:00+05:00")
	require.NoError(t, err)
	assert.Equal(t, "2025-06-01", got)

	got, err = NormalizeDate("2025-06-01T00:00:00.000000Z")
	require.NoError(t, err)
	assert.Equal(t, "2025-06-01", got)
}

func TestNormalizeDate(t *testing.T) {
	got, err := NormalizeDate("01.06.2025")
	require.NoError(t, err)
	assert.Equal(t, "2025-06-01", got)

	got, err = NormalizeDate("  ")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSummarize_TaxIsDisplayOnly(t *testing.T) {
	d := NewDraft()
	d.Room = testRoom(1, 3000)
	d.CheckIn, d.CheckOut = "2025-06-01", "2025-06-04"
	d.recalculate()

	s := Summarize(d, 0.1, false)
	assert.Equal(t, 3, s.Nights)
	assert.Equal(t, 9000.0, s.Subtotal)
	assert.Equal(t, 900.0, s.Tax)
	assert.Equal(t, 9000.0, s.Total)
	assert.Equal(t, 9000.0, d.TotalPrice)

	s = Summarize(d, 0.1, true)
	assert.Equal(t, 9900.0, s.Total)
	assert.Equal(t, 9000.0, d.TotalPrice)
}

func TestSummarize_NoRoom(t *testing.T) {
	s := Summarize(NewDraft(), 0.1, true)
	assert.Zero(t, s.Nights)
	assert.Zero(t, s.Total)
}
