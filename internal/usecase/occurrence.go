package usecase

import (
	"time"

	"go-appointment-booking/internal/delivery/dto"
	"go-appointment-booking/internal/domain/entity"
	"go-appointment-booking/pkg/validator"
)

const clockLayout = "15:04"

// ResolveOccurrences returns the templates that yield a bookable occurrence on date:
// available rows whose weekday matches. Input order is preserved.
func ResolveOccurrences(slots []entity.TimeSlot, date time.Time) []entity.TimeSlot {
	resolved := make([]entity.TimeSlot, 0, len(slots))
	for _, slot := range slots {
		if slot.OccursOn(date) {
			resolved = append(resolved, slot)
		}
	}
	return resolved
}

// parseDate reads a YYYY-MM-DD calendar date as midnight in loc
func parseDate(value string, loc *time.Location) (time.Time, error) {
	if !validator.IsISODate(value) {
		return time.Time{}, validationError("date must be in YYYY-MM-DD format")
	}
	date, err := time.ParseInLocation(validator.DateLayout, value, loc)
	if err != nil {
		return time.Time{}, validationError("date must be in YYYY-MM-DD format")
	}
	return date, nil
}

// atClock places an HH:MM wall clock time on date, in date's location
func atClock(date time.Time, hhmm string) (time.Time, error) {
	clock, err := time.Parse(clockLayout, hhmm)
	if err != nil {
		return time.Time{}, validationError("time %q must be in HH:MM format", hhmm)
	}
	return time.Date(date.Year(), date.Month(), date.Day(), clock.Hour(), clock.Minute(), 0, 0, date.Location()), nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// validateSlotWindow checks day and clock bounds of a new template
func validateSlotWindow(dayOfWeek int, start, end string) error {
	if dayOfWeek < 0 || dayOfWeek > 6 {
		return validationError("day_of_week must be between 0 (Sunday) and 6 (Saturday)")
	}
	if !validator.IsHHMM(start) {
		return validationError("start_time must be in HH:MM format")
	}
	if !validator.IsHHMM(end) {
		return validationError("end_time must be in HH:MM format")
	}
	// zero-padded HH:MM compares chronologically
	if start >= end {
		return validationError("start_time must be before end_time")
	}
	return nil
}

func occurrencesToResponses(slots []entity.TimeSlot, date time.Time) []dto.OccurrenceResponse {
	responses := make([]dto.OccurrenceResponse, 0, len(slots))
	for _, slot := range slots {
		startsAt, err := atClock(date, slot.StartTime)
		if err != nil {
			continue
		}
		endsAt, err := atClock(date, slot.EndTime)
		if err != nil {
			continue
		}
		responses = append(responses, dto.OccurrenceResponse{
			TimeSlotID: slot.ID,
			DoctorID:   slot.DoctorID,
			Date:       date.Format(validator.DateLayout),
			DayOfWeek:  slot.DayOfWeek,
			StartTime:  slot.StartTime,
			EndTime:    slot.EndTime,
			StartsAt:   startsAt,
			EndsAt:     endsAt,
		})
	}
	return responses
}
