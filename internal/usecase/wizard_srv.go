package usecase

import (
	"context"
	"errors"
	"net/url"
	"time"

	"hostel-booking/internal/dto/request"
	"hostel-booking/internal/dto/response"
	"hostel-booking/internal/wizard"
	"hostel-booking/pkg/hostelapi"
	"hostel-booking/pkg/utils"

	"go.uber.org/zap"
)

const bookingsRedirect = "/profile"

type WizardService interface {
	Start(ctx context.Context, query url.Values) (*response.WizardResponse, error)
	Get(ctx context.Context, id string) (*response.WizardResponse, error)
	Rooms(ctx context.Context, id string) ([]wizard.RoomSummary, error)
	SelectRoom(ctx context.Context, id string, req *request.SelectRoomRequest) (*response.WizardResponse, error)
	SetDates(ctx context.Context, id string, req *request.DatesRequest) (*response.WizardResponse, error)
	SetGuest(ctx context.Context, id string, req *request.GuestRequest) (*response.WizardResponse, error)
	Prefill(ctx context.Context, id string) (*response.PrefillResponse, error)
	Next(ctx context.Context, id string) (*response.WizardResponse, error)
	Prev(ctx context.Context, id string) (*response.WizardResponse, error)
	Confirm(ctx context.Context, id string, req *request.ConfirmRequest) (*response.ConfirmResponse, error)
	Abandon(ctx context.Context, id string) error
	// RunSweeper drops idle wizards until ctx is done.
	RunSweeper(ctx context.Context, interval time.Duration)
}

type wizardService struct {
	registry *wizard.Registry
	auth     AuthService
	deps     wizard.Deps
	opts     wizard.Options
	log      *zap.Logger
}

func NewWizardService(api HostelAPI, catalog *roomCatalog, auth AuthService, config *utils.Config, log *zap.Logger) WizardService {
	log = log.With(zap.String("service", "wizard"))
	return &wizardService{
		registry: wizard.NewRegistry(config.Wizard.TTL, time.Now),
		auth:     auth,
		deps: wizard.Deps{
			Rooms:     wizardRooms{catalog: catalog},
			Profiles:  profileSource{api: api, auth: auth},
			Submitter: bookingSubmitter{api: api},
			Scheduler: wizard.TimerScheduler{},
		},
		opts: wizard.Options{
			Transition: config.Wizard.Transition,
			TaxRate:    config.Wizard.TaxRate,
			TaxInTotal: config.Wizard.TaxInTotal,
			MaxGuests:  config.Wizard.MaxGuests,
			Logger:     log,
		},
		log: log,
	}
}

func (s *wizardService) Start(ctx context.Context, query url.Values) (*response.WizardResponse, error) {
	c := wizard.New(s.deps, s.opts)
	link := wizard.ParseDeepLink(query)
	if err := c.Resolve(ctx, link); err != nil {
		c.Close()
		s.log.Error("Failed to resolve deep link", zap.Error(err))
		return nil, err
	}
	id := s.registry.Put(c)
	s.log.Info("Wizard started",
		zap.String("wizard_id", id),
		zap.String("room_id", link.RoomID),
		zap.String("step", c.Step().String()))
	return snapshot(id, c), nil
}

func (s *wizardService) Get(ctx context.Context, id string) (*response.WizardResponse, error) {
	c, err := s.registry.Get(id)
	if err != nil {
		return nil, err
	}
	return snapshot(id, c), nil
}

func (s *wizardService) Rooms(ctx context.Context, id string) ([]wizard.RoomSummary, error) {
	c, err := s.registry.Get(id)
	if err != nil {
		return nil, err
	}
	rooms, err := c.Candidates(ctx)
	if err != nil {
		s.log.Warn("Failed to list wizard rooms", zap.String("wizard_id", id), zap.Error(err))
		return nil, err
	}
	return rooms, nil
}

func (s *wizardService) SelectRoom(ctx context.Context, id string, req *request.SelectRoomRequest) (*response.WizardResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	return s.mutate(id, func(c *wizard.Controller) error {
		return c.SelectRoom(ctx, req.RoomID)
	})
}

func (s *wizardService) SetDates(ctx context.Context, id string, req *request.DatesRequest) (*response.WizardResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	return s.mutate(id, func(c *wizard.Controller) error {
		return c.SetDates(wizard.DatesInput{CheckIn: req.CheckIn, CheckOut: req.CheckOut, Guests: req.Guests})
	})
}

func (s *wizardService) SetGuest(ctx context.Context, id string, req *request.GuestRequest) (*response.WizardResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	return s.mutate(id, func(c *wizard.Controller) error {
		return c.SetGuest(wizard.GuestData{
			Name:             req.Name,
			Surname:          req.Surname,
			SecondName:       req.SecondName,
			Birthday:         req.Birthday,
			Phone:            req.Phone,
			Email:            req.Email,
			PassportSeries:   req.PassportSeries,
			PassportNumber:   req.PassportNumber,
			PassportIssuedAt: req.PassportIssuedAt,
			PassportIssuedBy: req.PassportIssuedBy,
			SpecialRequests:  req.SpecialRequests,
		})
	})
}

func (s *wizardService) Prefill(ctx context.Context, id string) (*response.PrefillResponse, error) {
	c, err := s.registry.Get(id)
	if err != nil {
		return nil, err
	}
	applied, err := c.Prefill(ctx)
	if err != nil {
		return nil, err
	}
	return &response.PrefillResponse{Applied: applied, WizardResponse: *snapshot(id, c)}, nil
}

func (s *wizardService) Next(ctx context.Context, id string) (*response.WizardResponse, error) {
	return s.mutate(id, (*wizard.Controller).Advance)
}

func (s *wizardService) Prev(ctx context.Context, id string) (*response.WizardResponse, error) {
	return s.mutate(id, (*wizard.Controller).Retreat)
}

func (s *wizardService) Confirm(ctx context.Context, id string, req *request.ConfirmRequest) (*response.ConfirmResponse, error) {
	if _, ok := utils.GetTokenFromContext(ctx); !ok {
		return nil, ErrUnauthenticated
	}
	if err := validate(req); err != nil {
		return nil, err
	}
	c, err := s.registry.Get(id)
	if err != nil {
		return nil, err
	}

	created, err := c.Submit(ctx, wizard.Confirmation{
		PaymentMethod: req.PaymentMethod,
		AcceptTerms:   req.AcceptTerms,
		Newsletter:    req.Newsletter,
	})
	if err != nil {
		return nil, rejected(ctx, s.auth, err)
	}

	s.registry.Remove(id)
	s.log.Info("Wizard completed",
		zap.String("wizard_id", id),
		zap.Int64("booking_id", created.ID))
	return &response.ConfirmResponse{
		BookingID:  created.ID,
		Status:     created.Status,
		TotalPrice: created.TotalPrice,
		Redirect:   bookingsRedirect,
	}, nil
}

func (s *wizardService) Abandon(ctx context.Context, id string) error {
	if !s.registry.Remove(id) {
		return wizard.ErrNotFound
	}
	s.log.Info("Wizard abandoned", zap.String("wizard_id", id))
	return nil
}

func (s *wizardService) RunSweeper(ctx context.Context, interval time.Duration) {
	s.registry.Run(ctx, interval, func(n int) {
		s.log.Info("Expired wizards dropped", zap.Int("count", n), zap.Int("live", s.registry.Len()))
	})
}

// ==================== HELPER METHODS ====================

func (s *wizardService) mutate(id string, fn func(c *wizard.Controller) error) (*response.WizardResponse, error) {
	c, err := s.registry.Get(id)
	if err != nil {
		return nil, err
	}
	if err := fn(c); err != nil {
		return nil, err
	}
	return snapshot(id, c), nil
}

func snapshot(id string, c *wizard.Controller) *response.WizardResponse {
	return &response.WizardResponse{ID: id, State: c.State()}
}

// profileSource reads the caller's profile for guest prefill.
type profileSource struct {
	api  HostelAPI
	auth AuthService
}

func (p profileSource) Profile(ctx context.Context) (wizard.GuestData, error) {
	if _, ok := utils.GetTokenFromContext(ctx); !ok {
		return wizard.GuestData{}, ErrUnauthenticated
	}
	user, err := p.api.Me(ctx)
	if err != nil {
		return wizard.GuestData{}, rejected(ctx, p.auth, err)
	}
	return wizard.GuestData{
		Name:             user.Name,
		Surname:          user.Surname,
		SecondName:       user.SecondName,
		Birthday:         user.Birthday,
		Phone:            user.Phone,
		Email:            user.Email,
		PassportSeries:   user.PassportSeries,
		PassportNumber:   user.PassportNumber,
		PassportIssuedAt: user.PassportIssuedAt,
		PassportIssuedBy: user.PassportIssuedBy,
	}, nil
}

// bookingSubmitter forwards a finished draft to the hostel API.
type bookingSubmitter struct {
	api HostelAPI
}

func (b bookingSubmitter) CreateBooking(ctx context.Context, p wizard.BookingPayload) (*wizard.CreatedBooking, error) {
	booking, err := b.api.CreateBooking(ctx, hostelapi.BookingRequest{
		RoomID:                p.RoomID,
		CheckInDate:           p.CheckInDate,
		CheckOutDate:          p.CheckOutDate,
		GuestName:             p.GuestName,
		GuestSurname:          p.GuestSurname,
		GuestSecondName:       p.GuestSecondName,
		GuestBirthday:         p.GuestBirthday,
		GuestPhone:            p.GuestPhone,
		GuestPassportSeries:   p.GuestPassportSeries,
		GuestPassportNumber:   p.GuestPassportNumber,
		GuestPassportIssuedAt: p.GuestPassportIssuedAt,
		GuestPassportIssuedBy: p.GuestPassportIssuedBy,
		SpecialRequests:       p.SpecialRequests,
	})
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, errors.New("empty booking response")
	}
	return &wizard.CreatedBooking{
		ID:         int64(booking.ID),
		Status:     booking.Status,
		TotalPrice: float64(booking.TotalPrice),
	}, nil
}
