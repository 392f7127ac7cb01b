package usecase

import (
	"testing"
	"time"

	"go-appointment-booking/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveOccurrences(t *testing.T) {
	monday := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	doctorID := uuid.New()

	slots := []entity.TimeSlot{
		{ID: uuid.New(), DoctorID: doctorID, DayOfWeek: 1, StartTime: "09:00", EndTime: "09:30", IsAvailable: true},
		{ID: uuid.New(), DoctorID: doctorID, DayOfWeek: 1, StartTime: "10:00", EndTime: "10:30", IsAvailable: false},
		{ID: uuid.New(), DoctorID: doctorID, DayOfWeek: 2, StartTime: "09:00", EndTime: "09:30", IsAvailable: true},
		{ID: uuid.New(), DoctorID: doctorID, DayOfWeek: 1, StartTime: "14:00", EndTime: "14:30", IsAvailable: true},
	}

	resolved := ResolveOccurrences(slots, monday)
	require.Len(t, resolved, 2)
	assert.Equal(t, slots[0].ID, resolved[0].ID)
	assert.Equal(t, slots[3].ID, resolved[1].ID)

	assert.Equal(t, resolved, ResolveOccurrences(slots, monday), "resolution is repeatable")
	assert.Empty(t, ResolveOccurrences(slots, monday.AddDate(0, 0, 2)))
	assert.Empty(t, ResolveOccurrences(nil, monday))
}

func TestResolveOccurrences_SundayIsZero(t *testing.T) {
	sunday := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	slots := []entity.TimeSlot{{ID: uuid.New(), DayOfWeek: 0, StartTime: "08:00", EndTime: "08:30", IsAvailable: true}}

	assert.Len(t, ResolveOccurrences(slots, sunday), 1)
}

func TestValidateSlotWindow(t *testing.T) {
	tests := []struct {
		name    string
		day     int
		start   string
		end     string
		wantErr bool
	}{
		{"valid", 1, "09:00", "09:30", false},
		{"end of day", 6, "23:00", "23:59", false},
		{"reversed", 1, "10:00", "09:00", true},
		{"equal", 1, "10:00", "10:00", true},
		{"negative day", -1, "09:00", "10:00", true},
		{"hour out of range", 1, "24:00", "24:30", true},
		{"unpadded", 1, "9:00", "10:00", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateSlotWindow(tt.day, tt.start, tt.end)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseDateAndClock(t *testing.T) {
	loc := time.FixedZone("WIB", 7*60*60)

	date, err := parseDate("2025-06-02", loc)
	require.NoError(t, err)
	assert.Equal(t, time.Monday, date.Weekday())
	assert.Equal(t, loc, date.Location())

	at, err := atClock(date, "14:45")
	require.NoError(t, err)
	assert.Equal(t, 14, at.Hour())
	assert.Equal(t, 45, at.Minute())
	assert.Equal(t, 2, at.Day())

	for _, bad := range []string{"2025-6-2", "2025-02-30", "", "02/06/2025"} {
		_, err := parseDate(bad, loc)
		assert.ErrorIs(t, err, ErrValidation, bad)
	}
}
