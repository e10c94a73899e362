package usecase

import (
	"context"

	"hostel-booking/internal/data/repository"
	"hostel-booking/pkg/cache"
	"hostel-booking/pkg/hostelapi"
	"hostel-booking/pkg/utils"

	"go.uber.org/zap"
)

// HostelAPI is the remote hostel REST API as the services use it.
type HostelAPI interface {
	Register(ctx context.Context, req hostelapi.RegisterRequest) (*hostelapi.User, error)
	Login(ctx context.Context, req hostelapi.LoginRequest) (*hostelapi.LoginResponse, error)
	Me(ctx context.Context) (*hostelapi.User, error)
	UpdateProfile(ctx context.Context, req hostelapi.ProfileUpdate) (*hostelapi.User, error)
	Rooms(ctx context.Context, f hostelapi.RoomFilter) ([]hostelapi.Room, error)
	AvailableRooms(ctx context.Context, f hostelapi.RoomFilter) ([]hostelapi.Room, error)
	Room(ctx context.Context, id int64, f hostelapi.RoomFilter) (*hostelapi.Room, error)
	MyBookings(ctx context.Context) ([]hostelapi.Booking, error)
	CreateBooking(ctx context.Context, req hostelapi.BookingRequest) (*hostelapi.Booking, error)
	PayBooking(ctx context.Context, id int64) error
	CancelBooking(ctx context.Context, id int64) error
}

type Service struct {
	Auth    AuthService
	Room    RoomService
	Wizard  WizardService
	Profile ProfileService
}

func NewService(repo *repository.Repository, api HostelAPI, store cache.Cache, config *utils.Config, log *zap.Logger) *Service {
	auth := NewAuthService(api, repo, config, log)
	catalog := newRoomCatalog(api, store, config.App.RoomCacheTTL, log)

	return &Service{
		Auth:    auth,
		Room:    NewRoomService(catalog, log),
		Wizard:  NewWizardService(api, catalog, auth, config, log),
		Profile: NewProfileService(api, auth, log),
	}
}
