package repository

import (
	"fmt"
	"strings"
	"time"
)

// Value-range buckets for project and bid values, in rupiah.
const (
	ValueMediumThreshold = 1_000_000_000  // 1 milyar
	ValueLargeThreshold  = 10_000_000_000 // 10 milyar
)

// Duration buckets, in days.
const (
	DurationMediumDays = 30
	DurationLongDays   = 365
)

// ValueBucket classifies a monetary value into the small/medium/large
// buckets used by the project list filter.
func ValueBucket(value float64) string {
	switch {
	case value >= ValueLargeThreshold:
		return "large"
	case value >= ValueMediumThreshold:
		return "medium"
	default:
		return "small"
	}
}

// DurationBucket classifies a project schedule into short/medium/long.
func DurationBucket(start, end time.Time) string {
	days := DurationDays(start, end)
	switch {
	case days >= DurationLongDays:
		return "long"
	case days >= DurationMediumDays:
		return "medium"
	default:
		return "short"
	}
}

// DurationDays counts whole days between two dates.
func DurationDays(start, end time.Time) int {
	return int(end.Sub(start).Hours() / 24)
}

// DurationLabel renders a schedule length as "N tahun M bulan", "N bulan"
// or "N hari", matching the admin list display.
func DurationLabel(start, end time.Time) string {
	days := DurationDays(start, end)
	switch {
	case days >= DurationLongDays:
		years := days / 365
		months := (days % 365) / 30
		label := fmt.Sprintf("%d tahun", years)
		if months > 0 {
			label += fmt.Sprintf(" %d bulan", months)
		}
		return label
	case days >= DurationMediumDays:
		return fmt.Sprintf("%d bulan", days/30)
	default:
		return fmt.Sprintf("%d hari", days)
	}
}

// FormatRupiah renders a value as "Rp 1.234.567,89" with Indonesian
// thousand separators. Display only; never parsed back.
func FormatRupiah(value float64) string {
	neg := value < 0
	if neg {
		value = -value
	}

	whole := int64(value)
	cents := int64((value-float64(whole))*100 + 0.5)
	if cents >= 100 {
		whole++
		cents -= 100
	}

	digits := fmt.Sprintf("%d", whole)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}

	out := fmt.Sprintf("Rp %s,%02d", b.String(), cents)
	if neg {
		out = "-" + out
	}
	return out
}
