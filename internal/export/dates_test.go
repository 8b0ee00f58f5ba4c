package export

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDate_French(t *testing.T) {
	year := time.Now().Year()

	tests := []struct {
		raw  string
		want string
	}{
		{"15 janvier", fmt.Sprintf("%d-01-15", year)},
		{"3 février", fmt.Sprintf("%d-02-03", year)},
		{"3 fev", fmt.Sprintf("%d-02-03", year)},
		{"1 août", fmt.Sprintf("%d-08-01", year)},
		{"1 aout", fmt.Sprintf("%d-08-01", year)},
		{"22 Décembre", fmt.Sprintf("%d-12-22", year)},
		{"  7 mars  ", fmt.Sprintf("%d-03-07", year)},
	}
	for _, tt := range tests {
		got, ok := NormalizeDate(tt.raw, LocaleFrench)
		assert.True(t, ok, tt.raw)
		assert.Equal(t, tt.want, got, tt.raw)
	}
}

func TestNormalizeDate_FrenchUnparseable(t *testing.T) {
	for _, raw := range []string{"", "janvier", "15 brumaire", "pending"} {
		got, ok := NormalizeDate(raw, LocaleFrench)
		assert.False(t, ok, raw)
		assert.Equal(t, raw, got, raw)
	}
}

func TestNormalizeDate_English(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"October 11, 2025", "2025-10-11"},
		{"October 11, 2025 • 8:22 PM • Entertainment", "2025-10-11"},
		{"Jan 5, 2024", "2024-01-05"},
		{"march 31, 2023", "2023-03-31"},
	}
	for _, tt := range tests {
		got, ok := NormalizeDate(tt.raw, LocaleEnglish)
		assert.True(t, ok, tt.raw)
		assert.Equal(t, tt.want, got, tt.raw)
	}
}

func TestNormalizeDate_EnglishUnparseable(t *testing.T) {
	for _, raw := range []string{"", "Pending", "October 2025", "Smarch 5, 2025"} {
		got, ok := NormalizeDate(raw, LocaleEnglish)
		assert.False(t, ok, raw)
		assert.Equal(t, raw, got, raw)
	}
}

func TestNormalizeFrench_YearStamp(t *testing.T) {
	got, ok := normalizeFrench("15 janvier", 2024)
	assert.True(t, ok)
	assert.Equal(t, "2024-01-15", got)
}
