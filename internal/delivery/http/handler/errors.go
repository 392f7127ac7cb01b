package handler

import (
	"errors"
	"net/http"

	"go-appointment-booking/internal/delivery/http/middleware"
	"go-appointment-booking/internal/domain/entity"
	"go-appointment-booking/internal/usecase"
	"go-appointment-booking/pkg/response"
)

// writeError maps usecase errors onto HTTP responses. Unknown errors become a
// 500 carrying fallback as the message.
func writeError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, usecase.ErrValidation), errors.Is(err, usecase.ErrBookingDatePast):
		response.BadRequest(w, err.Error())
	case errors.Is(err, usecase.ErrUnauthenticated),
		errors.Is(err, usecase.ErrInvalidCredentials),
		errors.Is(err, usecase.ErrInvalidToken),
		errors.Is(err, usecase.ErrTokenRevoked):
		response.Unauthorized(w, err.Error())
	case errors.Is(err, usecase.ErrNotDoctor),
		errors.Is(err, usecase.ErrSlotNotOwned),
		errors.Is(err, usecase.ErrAppointmentNotOwned),
		errors.Is(err, usecase.ErrUserInactive):
		response.Forbidden(w, err.Error())
	case errors.Is(err, usecase.ErrDoctorNotFound),
		errors.Is(err, usecase.ErrSlotNotFound),
		errors.Is(err, usecase.ErrAppointmentNotFound),
		errors.Is(err, usecase.ErrUserNotFound),
		errors.Is(err, usecase.ErrAuditLogNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, usecase.ErrSlotAlreadyBooked),
		errors.Is(err, usecase.ErrSlotHasAppointments),
		errors.Is(err, usecase.ErrAppointmentAlreadyCancelled),
		errors.Is(err, usecase.ErrEmailAlreadyExists):
		response.Conflict(w, err.Error())
	case errors.Is(err, usecase.ErrStoreUnavailable):
		response.ServiceUnavailable(w, "")
	default:
		response.InternalServerError(w, fallback)
	}
}

func principalFrom(w http.ResponseWriter, r *http.Request) (entity.Principal, bool) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "User not found in context")
	}
	return principal, ok
}
