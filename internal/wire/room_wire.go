package wire

import (
	"hostel-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireRoom(r chi.Router, roomHandler *adaptor.RoomHandler) {
	r.Route("/api/rooms", func(r chi.Router) {
		r.Get("/", roomHandler.List)
		r.Get("/available", roomHandler.Available)
		r.Get("/{id}", roomHandler.Get)
	})
}
