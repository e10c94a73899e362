package wizard

import (
	"fmt"
	"math"
	"strings"
	"time"
)

const (
	DateLayout = "2006-01-02"
	day        = 24 * time.Hour
)

var dateLayouts = []string{
	DateLayout,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"02.01.2006",
}

// Price is the authoritative cost of a stay: nights x nightly rate.
type Price struct {
	Nights int     `json:"nights"`
	Total  float64 `json:"total"`
}

// Quote computes nights = max(0, ceil((checkOut-checkIn)/day)) and the matching total.
func Quote(nightly float64, checkIn, checkOut time.Time) Price {
	diff := checkOut.Sub(checkIn)
	if diff <= 0 {
		return Price{}
	}
	nights := int(math.Ceil(float64(diff) / float64(day)))
	return Price{Nights: nights, Total: float64(nights) * nightly}
}

// QuoteDates is Quote over ISO strings. ok is false when either date is missing or unparseable.
func QuoteDates(nightly float64, checkIn, checkOut string) (Price, bool) {
	if isBlank(checkIn) || isBlank(checkOut) {
		return Price{}, false
	}
	in, err := ParseDate(checkIn)
	if err != nil {
		return Price{}, false
	}
	out, err := ParseDate(checkOut)
	if err != nil {
		return Price{}, false
	}
	return Quote(nightly, in, out), true
}

// ParseDate accepts the date shapes clients send and returns the calendar date at UTC midnight.
// Timestamps with an offset are moved to UTC first, so they land on their UTC day.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			t = t.UTC()
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// NormalizeDate rewrites a date into YYYY-MM-DD. Empty input stays empty.
func NormalizeDate(s string) (string, error) {
	if isBlank(s) {
		return "", nil
	}
	t, err := ParseDate(s)
	if err != nil {
		return "", err
	}
	return t.Format(DateLayout), nil
}

// PriceSummary is the display breakdown. Tax never changes Draft.TotalPrice.
type PriceSummary struct {
	NightlyPrice float64 `json:"nightly_price"`
	Nights       int     `json:"nights"`
	Subtotal     float64 `json:"subtotal"`
	TaxRate      float64 `json:"tax_rate"`
	Tax          float64 `json:"tax"`
	Total        float64 `json:"total"`
	TaxIncluded  bool    `json:"tax_included"`
}

func Summarize(d Draft, taxRate float64, taxInTotal bool) PriceSummary {
	s := PriceSummary{TaxRate: taxRate, TaxIncluded: taxInTotal}
	if d.Room != nil {
		s.NightlyPrice = d.Room.NightlyPrice
	}
	if p, ok := d.Quote(); ok {
		s.Nights = p.Nights
		s.Subtotal = p.Total
	}
	if taxRate > 0 {
		s.Tax = math.Round(s.Subtotal * taxRate)
	}
	s.Total = s.Subtotal
	if taxInTotal {
		s.Total += s.Tax
	}
	return s
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
