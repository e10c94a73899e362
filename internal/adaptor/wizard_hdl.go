package adaptor

import (
	"net/http"

	"hostel-booking/internal/dto/request"
	"hostel-booking/internal/usecase"
	"hostel-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type WizardHandler struct {
	service usecase.WizardService
	log     *zap.Logger
}

func NewWizardHandler(service usecase.WizardService, log *zap.Logger) *WizardHandler {
	return &WizardHandler{
		service: service,
		log:     log,
	}
}

// Start handles POST /api/wizard?roomId=&checkIn=&checkOut=&guests=
func (h *WizardHandler) Start(w http.ResponseWriter, r *http.Request) {
	state, err := h.service.Start(r.Context(), r.URL.Query())
	if err != nil {
		h.handleServiceError(w, err, "start wizard")
		return
	}

	utils.ResponseCreated(w, "Booking wizard started", state)
}

// Get handles GET /api/wizard/{id}
func (h *WizardHandler) Get(w http.ResponseWriter, r *http.Request) {
	state, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, err, "get wizard")
		return
	}

	utils.ResponseSuccess(w, "Booking wizard retrieved", state)
}

// Rooms handles GET /api/wizard/{id}/rooms
func (h *WizardHandler) Rooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.service.Rooms(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, err, "list wizard rooms")
		return
	}

	utils.ResponseSuccess(w, "Rooms retrieved successfully", rooms)
}

// SelectRoom handles POST /api/wizard/{id}/room
func (h *WizardHandler) SelectRoom(w http.ResponseWriter, r *http.Request) {
	var req request.SelectRoomRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	state, err := h.service.SelectRoom(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		h.handleServiceError(w, err, "select room")
		return
	}

	utils.ResponseSuccess(w, "Room selected", state)
}

// SetDates handles PUT /api/wizard/{id}/dates
func (h *WizardHandler) SetDates(w http.ResponseWriter, r *http.Request) {
	var req request.DatesRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	state, err := h.service.SetDates(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		h.handleServiceError(w, err, "set dates")
		return
	}

	utils.ResponseSuccess(w, "Dates updated", state)
}

// SetGuest handles PUT /api/wizard/{id}/guest
func (h *WizardHandler) SetGuest(w http.ResponseWriter, r *http.Request) {
	var req request.GuestRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	state, err := h.service.SetGuest(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		h.handleServiceError(w, err, "set guest")
		return
	}

	utils.ResponseSuccess(w, "Guest details updated", state)
}

// Prefill handles POST /api/wizard/{id}/prefill
func (h *WizardHandler) Prefill(w http.ResponseWriter, r *http.Request) {
	state, err := h.service.Prefill(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, err, "prefill guest")
		return
	}

	utils.ResponseSuccess(w, "Guest details prefilled", state)
}

// Next handles POST /api/wizard/{id}/next
func (h *WizardHandler) Next(w http.ResponseWriter, r *http.Request) {
	state, err := h.service.Next(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, err, "advance wizard")
		return
	}

	utils.ResponseSuccess(w, "Moved to next step", state)
}

// Prev handles POST /api/wizard/{id}/prev
func (h *WizardHandler) Prev(w http.ResponseWriter, r *http.Request) {
	state, err := h.service.Prev(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, err, "retreat wizard")
		return
	}

	utils.ResponseSuccess(w, "Moved to previous step", state)
}

// Confirm handles POST /api/wizard/{id}/confirm
func (h *WizardHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	var req request.ConfirmRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	booking, err := h.service.Confirm(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		h.handleServiceError(w, err, "confirm booking")
		return
	}

	utils.ResponseCreated(w, "Booking created successfully", booking)
}

// Abandon handles DELETE /api/wizard/{id}
func (h *WizardHandler) Abandon(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Abandon(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.handleServiceError(w, err, "abandon wizard")
		return
	}

	utils.ResponseSuccess(w, "Booking wizard discarded", nil)
}

func (h *WizardHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	writeServiceError(h.log, w, err, operation)
}
