package converter

import (
	"go-appointment-booking/internal/delivery/dto"
	"go-appointment-booking/internal/domain/entity"
)

// AppointmentToResponse converts an Appointment entity to AppointmentResponse DTO.
// Slot times are included when the TimeSlot relation is loaded.
func AppointmentToResponse(appointment *entity.Appointment) *dto.AppointmentResponse {
	if appointment == nil {
		return nil
	}

	response := &dto.AppointmentResponse{
		ID:              appointment.ID,
		PatientID:       appointment.UserID,
		DoctorID:        appointment.DoctorID,
		TimeSlotID:      appointment.TimeSlotID,
		AppointmentDate: appointment.AppointmentDate,
		AppointmentType: appointment.AppointmentType,
		Status:          string(appointment.Status),
		ProviderName:    appointment.ProviderName,
		CreatedAt:       appointment.CreatedAt,
	}

	if appointment.TimeSlot != nil {
		response.StartTime = appointment.TimeSlot.StartTime
		response.EndTime = appointment.TimeSlot.EndTime
	}

	return response
}

func AppointmentsToResponses(appointments []entity.Appointment) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i := range appointments {
		responses[i] = *AppointmentToResponse(&appointments[i])
	}
	return responses
}

// AppointmentToDoctorResponse joins the patient's name and phone; a missing patient renders as "Unknown"
func AppointmentToDoctorResponse(appointment *entity.Appointment) dto.DoctorAppointmentResponse {
	response := dto.DoctorAppointmentResponse{
		AppointmentResponse: *AppointmentToResponse(appointment),
		PatientName:         entity.UnknownName,
	}

	if appointment.Patient != nil {
		if appointment.Patient.FullName != "" {
			response.PatientName = appointment.Patient.FullName
		}
		response.PatientPhone = appointment.Patient.Phone
	}

	return response
}

// AppointmentSnapshot is the audit trail representation of an appointment
func AppointmentSnapshot(appointment *entity.Appointment) map[string]interface{} {
	return map[string]interface{}{
		"user_id":          appointment.UserID.String(),
		"doctor_id":        appointment.DoctorID.String(),
		"time_slot_id":     appointment.TimeSlotID.String(),
		"appointment_date": appointment.AppointmentDate,
		"status":           string(appointment.Status),
	}
}

// TimeSlotSnapshot is the audit trail representation of a slot template
func TimeSlotSnapshot(slot *entity.TimeSlot) map[string]interface{} {
	return map[string]interface{}{
		"doctor_id":    slot.DoctorID.String(),
		"day_of_week":  slot.DayOfWeek,
		"start_time":   slot.StartTime,
		"end_time":     slot.EndTime,
		"is_available": slot.IsAvailable,
	}
}
