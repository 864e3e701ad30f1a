package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCombineDateTime(t *testing.T) {
	loc := time.FixedZone("clinic", 3*60*60)

	tests := []struct {
		name  string
		date  string
		clock string
		want  time.Time
	}{
		{"seconds", "2026-03-01", "09:30:15", time.Date(2026, 3, 1, 9, 30, 15, 0, loc)},
		{"minutes only", "2026-03-01", "14:05", time.Date(2026, 3, 1, 14, 5, 0, 0, loc)},
		{"surrounding spaces", " 2026-12-31 ", " 23:59 ", time.Date(2026, 12, 31, 23, 59, 0, 0, loc)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CombineDateTime(tt.date, tt.clock, loc)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %v, got %v", tt.want, got)
			assert.Equal(t, loc, got.Location())
		})
	}
}

func TestCombineDateTimeInvalid(t *testing.T) {
	_, err := CombineDateTime("2026-02-30", "10:00", time.UTC)
	assert.Error(t, err)

	_, err = CombineDateTime("2026-02-01", "25:00", time.UTC)
	assert.Error(t, err)

	_, err = CombineDateTime("01/02/2026", "10:00", time.UTC)
	assert.Error(t, err)
}

func TestNormalizeClock(t *testing.T) {
	got, err := NormalizeClock("07:05")
	require.NoError(t, err)
	assert.Equal(t, "07:05:00", got)

	got, err = NormalizeClock("noon")
	assert.Error(t, err)
	assert.Empty(t, got)
}
