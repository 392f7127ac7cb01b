package converter

import (
	"go-appointment-booking/internal/delivery/dto"
	"go-appointment-booking/internal/domain/entity"
)

func DoctorToResponse(doctor *entity.Doctor) *dto.DoctorResponse {
	if doctor == nil {
		return nil
	}

	return &dto.DoctorResponse{
		ID:              doctor.ID,
		UserID:          doctor.UserID,
		FullName:        doctor.DisplayName(),
		Specialization:  doctor.Specialization,
		Qualification:   doctor.Qualification,
		ExperienceYears: doctor.ExperienceYears,
		About:           doctor.About,
	}
}
