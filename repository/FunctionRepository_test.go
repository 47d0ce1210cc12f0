package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestValueBucket(t *testing.T) {
	tests := []struct {
		value    float64
		expected string
	}{
		{0, "small"},
		{999_999_999, "small"},
		{1_000_000_000, "medium"},
		{9_999_999_999, "medium"},
		{10_000_000_000, "large"},
		{50_000_000_000, "large"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, ValueBucket(tt.value), "value %.0f", tt.value)
	}
}

func TestDurationBucket(t *testing.T) {
	start := date(2026, time.January, 1)

	assert.Equal(t, "short", DurationBucket(start, start.AddDate(0, 0, 29)))
	assert.Equal(t, "medium", DurationBucket(start, start.AddDate(0, 0, 30)))
	assert.Equal(t, "medium", DurationBucket(start, start.AddDate(0, 0, 364)))
	assert.Equal(t, "long", DurationBucket(start, start.AddDate(0, 0, 365)))
}

func TestDurationLabel(t *testing.T) {
	start := date(2026, time.January, 1)

	assert.Equal(t, "10 hari", DurationLabel(start, start.AddDate(0, 0, 10)))
	assert.Equal(t, "3 bulan", DurationLabel(start, start.AddDate(0, 0, 90)))
	assert.Equal(t, "1 tahun", DurationLabel(start, start.AddDate(0, 0, 365)))
	assert.Equal(t, "1 tahun 2 bulan", DurationLabel(start, start.AddDate(0, 0, 365+61)))
}

func TestFormatRupiah(t *testing.T) {
	tests := []struct {
		value    float64
		expected string
	}{
		{0, "Rp 0,00"},
		{1500, "Rp 1.500,00"},
		{1234567.89, "Rp 1.234.567,89"},
		{2_350_000_000, "Rp 2.350.000.000,00"},
		{-500, "-Rp 500,00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, FormatRupiah(tt.value), "value %.2f", tt.value)
	}
}
