package helper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPeriodRange(t *testing.T) {
	now := time.Date(2025, time.March, 15, 14, 30, 0, 0, time.UTC)

	start, end := PeriodRange("today", now)
	assert.Equal(t, time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, now, end)

	start, end = PeriodRange("week", now)
	assert.Equal(t, now.AddDate(0, 0, -7), start)
	assert.Equal(t, now, end)

	start, end = PeriodRange("month", now)
	assert.Equal(t, now.AddDate(0, -1, 0), start)
	assert.Equal(t, now, end)
}

func TestPeriodRangeUnknownDefaultsToToday(t *testing.T) {
	now := time.Date(2025, time.March, 15, 14, 30, 0, 0, time.UTC)

	start, end := PeriodRange("fortnight", now)
	assert.Equal(t, time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, now, end)
}
