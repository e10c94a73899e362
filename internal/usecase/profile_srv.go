package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hostel-booking/internal/dto/request"
	"hostel-booking/internal/dto/response"
	"hostel-booking/internal/wizard"
	"hostel-booking/pkg/hostelapi"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	TabActive = "active"
	TabAll    = "all"
)

const (
	ActionPay    = "pay"
	ActionCancel = "cancel"
	ActionRemove = "remove"
	ActionRebook = "rebook"
)

var statusLabels = map[string]string{
	hostelapi.StatusPendingPayment: "Awaiting payment",
	hostelapi.StatusPaid:           "Paid",
	hostelapi.StatusCancelled:      "Cancelled",
}

type ProfileService interface {
	Me(ctx context.Context) (*response.UserResponse, error)
	Update(ctx context.Context, req *request.UpdateProfileRequest) (*response.UserResponse, error)
	Dashboard(ctx context.Context, tab string) (*response.ProfileResponse, error)
	Pay(ctx context.Context, bookingID int64) error
	Cancel(ctx context.Context, bookingID int64) error
}

type profileService struct {
	api  HostelAPI
	auth AuthService
	log  *zap.Logger
	now  func() time.Time
}

func NewProfileService(api HostelAPI, auth AuthService, log *zap.Logger) ProfileService {
	return &profileService{
		api:  api,
		auth: auth,
		log:  log.With(zap.String("service", "profile")),
		now:  time.Now,
	}
}

func (s *profileService) Me(ctx context.Context) (*response.UserResponse, error) {
	user, err := s.api.Me(ctx)
	if err != nil {
		s.log.Warn("Failed to load profile", zap.Error(err))
		return nil, rejected(ctx, s.auth, fmt.Errorf("load profile: %w", err))
	}
	return response.UserToResponse(user), nil
}

func (s *profileService) Update(ctx context.Context, req *request.UpdateProfileRequest) (*response.UserResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	user, err := s.api.UpdateProfile(ctx, hostelapi.ProfileUpdate{
		Name:       req.Name,
		Surname:    req.Surname,
		SecondName: req.SecondName,
		Birthday:   req.Birthday,
		Phone:      req.Phone,
	})
	if err != nil {
		s.log.Warn("Failed to update profile", zap.Error(err))
		return nil, rejected(ctx, s.auth, fmt.Errorf("update profile: %w", err))
	}
	s.log.Info("Profile updated", zap.Int64("user_id", int64(user.ID)))
	return response.UserToResponse(user), nil
}

func (s *profileService) Dashboard(ctx context.Context, tab string) (*response.ProfileResponse, error) {
	if tab == "" {
		tab = TabActive
	}
	if tab != TabActive && tab != TabAll {
		return nil, fieldError("tab", "Must be one of: active all")
	}

	var (
		user     *hostelapi.User
		bookings []hostelapi.Booking
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		user, err = s.api.Me(gctx)
		if err != nil {
			return fmt.Errorf("load profile: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		bookings, err = s.api.MyBookings(gctx)
		if err != nil {
			return fmt.Errorf("load bookings: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		s.log.Warn("Failed to load dashboard", zap.Error(err))
		return nil, rejected(ctx, s.auth, err)
	}

	today := s.today()
	out := make([]response.BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		if tab == TabActive && b.Status == hostelapi.StatusCancelled {
			continue
		}
		out = append(out, bookingToResponse(b, tab, today))
	}

	return &response.ProfileResponse{
		User:     response.UserToResponse(user),
		Tab:      tab,
		Bookings: out,
	}, nil
}

func (s *profileService) Pay(ctx context.Context, bookingID int64) error {
	if bookingID <= 0 {
		return ErrBookingNotFound
	}
	if err := s.api.PayBooking(ctx, bookingID); err != nil {
		return s.bookingError(ctx, "pay", bookingID, err)
	}
	s.log.Info("Booking paid", zap.Int64("booking_id", bookingID))
	return nil
}

func (s *profileService) Cancel(ctx context.Context, bookingID int64) error {
	if bookingID <= 0 {
		return ErrBookingNotFound
	}
	if err := s.api.CancelBooking(ctx, bookingID); err != nil {
		return s.bookingError(ctx, "cancel", bookingID, err)
	}
	s.log.Info("Booking cancelled", zap.Int64("booking_id", bookingID))
	return nil
}

// ==================== HELPER METHODS ====================

func (s *profileService) bookingError(ctx context.Context, action string, id int64, err error) error {
	if errors.Is(err, hostelapi.ErrNotFound) {
		return ErrBookingNotFound
	}
	s.log.Warn("Booking action failed",
		zap.String("action", action),
		zap.Int64("booking_id", id),
		zap.Error(err))
	return rejected(ctx, s.auth, fmt.Errorf("%s booking %d: %w", action, id, err))
}

// today is the current calendar date at UTC midnight, comparable with parsed booking dates.
func (s *profileService) today() time.Time {
	y, m, d := s.now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func bookingToResponse(b hostelapi.Booking, tab string, today time.Time) response.BookingResponse {
	checkIn, _ := wizard.NormalizeDate(b.CheckInDate)
	checkOut, _ := wizard.NormalizeDate(b.CheckOutDate)
	expired := false
	if out, err := wizard.ParseDate(b.CheckOutDate); err == nil {
		expired = out.Before(today)
	}

	label, ok := statusLabels[b.Status]
	if !ok {
		label = b.Status
	}

	return response.BookingResponse{
		ID:           int64(b.ID),
		RoomID:       int64(b.Room.ID),
		RoomName:     b.Room.Name,
		CheckInDate:  fallback(checkIn, b.CheckInDate),
		CheckOutDate: fallback(checkOut, b.CheckOutDate),
		Status:       b.Status,
		StatusLabel:  label,
		TotalPrice:   float64(b.TotalPrice),
		Expired:      expired,
		Actions:      bookingActions(b.Status, tab, expired),
	}
}

func bookingActions(status, tab string, expired bool) []string {
	actions := []string{}
	switch status {
	case hostelapi.StatusPendingPayment:
		actions = append(actions, ActionPay, ActionCancel)
	case hostelapi.StatusPaid:
		if tab == TabActive {
			actions = append(actions, ActionRemove)
		}
		actions = append(actions, ActionRebook)
	case hostelapi.StatusCancelled:
		actions = append(actions, ActionRebook)
	}
	if tab == TabAll && (status == hostelapi.StatusCancelled || expired) {
		actions = append(actions, ActionRemove)
	}
	return actions
}

func fallback(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
