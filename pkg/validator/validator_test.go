package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsHHMM(t *testing.T) {
	for _, ok := range []string{"00:00", "09:30", "23:59"} {
		assert.True(t, IsHHMM(ok), ok)
	}
	for _, bad := range []string{"9:30", "24:00", "12:60", "12:3", "", "12-30", "09:30:00"} {
		assert.False(t, IsHHMM(bad), bad)
	}
}

func TestIsISODate(t *testing.T) {
	assert.True(t, IsISODate("2025-06-02"))
	assert.True(t, IsISODate("2024-02-29"))
	for _, bad := range []string{"2025-6-2", "2025-02-29", "02-06-2025", "2025/06/02", ""} {
		assert.False(t, IsISODate(bad), bad)
	}
}

type slotRequest struct {
	DayOfWeek *int   `json:"day_of_week" validate:"required,gte=0,lte=6"`
	StartTime string `json:"start_time" validate:"required,hhmm"`
	Date      string `json:"date" validate:"omitempty,isodate"`
}

func TestFormatValidationErrors(t *testing.T) {
	v := NewValidator()
	day := 9

	err := v.Validate(&slotRequest{DayOfWeek: &day, StartTime: "9am", Date: "tomorrow"})
	require.Error(t, err)

	errs := v.FormatValidationErrors(err)
	assert.Equal(t, "day_of_week must be less than or equal to 6", errs["day_of_week"])
	assert.Equal(t, "start_time must be a time in HH:MM format", errs["start_time"])
	assert.Equal(t, "date must be a date in YYYY-MM-DD format", errs["date"])

	zero := 0
	assert.NoError(t, v.Validate(&slotRequest{DayOfWeek: &zero, StartTime: "08:00"}))

	err = v.Validate(&slotRequest{StartTime: "08:00"})
	require.Error(t, err)
	assert.Equal(t, "day_of_week is required", v.FormatValidationErrors(err)["day_of_week"])
}
