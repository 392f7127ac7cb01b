package handler

import (
	"net/http"

	"go-appointment-booking/internal/usecase"
	"go-appointment-booking/pkg/response"
	"go-appointment-booking/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// DoctorHandler serves the patient-facing doctor directory and availability
type DoctorHandler struct {
	dashboardUsecase    usecase.DashboardUsecase
	availabilityUsecase usecase.AvailabilityUsecase
}

func NewDoctorHandler(dashboardUsecase usecase.DashboardUsecase, availabilityUsecase usecase.AvailabilityUsecase) *DoctorHandler {
	return &DoctorHandler{
		dashboardUsecase:    dashboardUsecase,
		availabilityUsecase: availabilityUsecase,
	}
}

func (h *DoctorHandler) ListDoctors(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date != "" && !validator.IsISODate(date) {
		response.BadRequest(w, "date must be in YYYY-MM-DD format")
		return
	}

	doctors, err := h.dashboardUsecase.ListDoctors(r.Context(), date)
	if err != nil {
		writeError(w, err, "Failed to get doctors")
		return
	}

	response.Success(w, http.StatusOK, "Doctors retrieved successfully", doctors)
}

func (h *DoctorHandler) ListSlots(w http.ResponseWriter, r *http.Request) {
	doctorID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.BadRequest(w, "Invalid doctor ID")
		return
	}

	slots, err := h.availabilityUsecase.ListSlots(r.Context(), doctorID)
	if err != nil {
		writeError(w, err, "Failed to get time slots")
		return
	}

	response.Success(w, http.StatusOK, "Time slots retrieved successfully", slots)
}

func (h *DoctorHandler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	doctorID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.BadRequest(w, "Invalid doctor ID")
		return
	}

	date := r.URL.Query().Get("date")
	if date == "" {
		response.BadRequest(w, "date query parameter is required")
		return
	}

	availability, err := h.availabilityUsecase.ResolveOccurrences(r.Context(), doctorID, date)
	if err != nil {
		writeError(w, err, "Failed to get availability")
		return
	}

	response.Success(w, http.StatusOK, "Availability retrieved successfully", availability)
}
