package adaptor

import (
	"net/http"

	"hostel-booking/internal/dto/request"
	"hostel-booking/internal/usecase"
	"hostel-booking/pkg/utils"

	"go.uber.org/zap"
)

type RoomHandler struct {
	service usecase.RoomService
	log     *zap.Logger
}

func NewRoomHandler(service usecase.RoomService, log *zap.Logger) *RoomHandler {
	return &RoomHandler{
		service: service,
		log:     log,
	}
}

func roomQuery(r *http.Request) request.RoomQuery {
	q := r.URL.Query()
	return request.RoomQuery{
		CheckIn:  q.Get("check_in"),
		CheckOut: q.Get("check_out"),
		Guests:   utils.ParseInt(q.Get("guests"), 0),
	}
}

// List handles GET /api/rooms
func (h *RoomHandler) List(w http.ResponseWriter, r *http.Request) {
	q := roomQuery(r)
	rooms, err := h.service.List(r.Context(), &q)
	if err != nil {
		h.handleServiceError(w, err, "list rooms")
		return
	}

	utils.ResponseSuccess(w, "Rooms retrieved successfully", rooms)
}

// Available handles GET /api/rooms/available
func (h *RoomHandler) Available(w http.ResponseWriter, r *http.Request) {
	base := roomQuery(r)
	q := request.AvailableRoomQuery{CheckIn: base.CheckIn, CheckOut: base.CheckOut, Guests: base.Guests}
	rooms, err := h.service.Available(r.Context(), &q)
	if err != nil {
		h.handleServiceError(w, err, "list available rooms")
		return
	}

	utils.ResponseSuccess(w, "Available rooms retrieved successfully", rooms)
}

// Get handles GET /api/rooms/{id}
func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	q := roomQuery(r)
	room, err := h.service.Get(r.Context(), id, &q)
	if err != nil {
		h.handleServiceError(w, err, "get room")
		return
	}

	utils.ResponseSuccess(w, "Room retrieved successfully", room)
}

func (h *RoomHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	writeServiceError(h.log, w, err, operation)
}
