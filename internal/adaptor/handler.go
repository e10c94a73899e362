package adaptor

import (
	"hostel-booking/internal/usecase"

	"go.uber.org/zap"
)

type Handler struct {
	Auth    *AuthHandler
	Room    *RoomHandler
	Wizard  *WizardHandler
	Profile *ProfileHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Auth:    NewAuthHandler(service.Auth, log),
		Room:    NewRoomHandler(service.Room, log),
		Wizard:  NewWizardHandler(service.Wizard, log),
		Profile: NewProfileHandler(service.Profile, log),
	}
}
