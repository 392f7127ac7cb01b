package handler

import (
	"encoding/json"
	"net/http"

	"go-appointment-booking/internal/delivery/dto"
	"go-appointment-booking/internal/usecase"
	"go-appointment-booking/pkg/response"
	"go-appointment-booking/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// TimeSlotHandler serves the doctor's own availability management and dashboard
type TimeSlotHandler struct {
	availabilityUsecase usecase.AvailabilityUsecase
	dashboardUsecase    usecase.DashboardUsecase
	validator           *validator.CustomValidator
}

func NewTimeSlotHandler(availabilityUsecase usecase.AvailabilityUsecase, dashboardUsecase usecase.DashboardUsecase, validator *validator.CustomValidator) *TimeSlotHandler {
	return &TimeSlotHandler{
		availabilityUsecase: availabilityUsecase,
		dashboardUsecase:    dashboardUsecase,
		validator:           validator,
	}
}

func (h *TimeSlotHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}

	dashboard, err := h.dashboardUsecase.DoctorDashboard(r.Context(), principal)
	if err != nil {
		writeError(w, err, "Failed to get dashboard")
		return
	}

	response.Success(w, http.StatusOK, "Dashboard retrieved successfully", dashboard)
}

func (h *TimeSlotHandler) ListMySlots(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}

	slots, err := h.availabilityUsecase.ListMySlots(r.Context(), principal)
	if err != nil {
		writeError(w, err, "Failed to get time slots")
		return
	}

	response.Success(w, http.StatusOK, "Time slots retrieved successfully", slots)
}

func (h *TimeSlotHandler) CreateSlot(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}

	var req dto.CreateTimeSlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	slot, err := h.availabilityUsecase.AddSlot(r.Context(), principal, &req)
	if err != nil {
		writeError(w, err, "Failed to create time slot")
		return
	}

	response.Success(w, http.StatusCreated, "Time slot created successfully", slot)
}

func (h *TimeSlotHandler) DeleteSlot(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}

	slotID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.BadRequest(w, "Invalid time slot ID")
		return
	}

	if err := h.availabilityUsecase.RemoveSlot(r.Context(), principal, slotID); err != nil {
		writeError(w, err, "Failed to delete time slot")
		return
	}

	response.Success(w, http.StatusOK, "Time slot deleted successfully", nil)
}

func (h *TimeSlotHandler) ToggleSlot(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}

	slotID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.BadRequest(w, "Invalid time slot ID")
		return
	}

	slot, err := h.availabilityUsecase.ToggleAvailability(r.Context(), principal, slotID)
	if err != nil {
		writeError(w, err, "Failed to toggle time slot")
		return
	}

	response.Success(w, http.StatusOK, "Time slot updated successfully", slot)
}
