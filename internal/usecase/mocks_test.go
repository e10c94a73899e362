package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"hostel-booking/internal/data/repository"
	"hostel-booking/pkg/hostelapi"
	"hostel-booking/pkg/utils"

	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type MockHostelAPI struct {
	mock.Mock
}

func (m *MockHostelAPI) Register(ctx context.Context, req hostelapi.RegisterRequest) (*hostelapi.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*hostelapi.User), args.Error(1)
}

func (m *MockHostelAPI) Login(ctx context.Context, req hostelapi.LoginRequest) (*hostelapi.LoginResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*hostelapi.LoginResponse), args.Error(1)
}

func (m *MockHostelAPI) Me(ctx context.Context) (*hostelapi.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*hostelapi.User), args.Error(1)
}

func (m *MockHostelAPI) UpdateProfile(ctx context.Context, req hostelapi.ProfileUpdate) (*hostelapi.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*hostelapi.User), args.Error(1)
}

func (m *MockHostelAPI) Rooms(ctx context.Context, f hostelapi.RoomFilter) ([]hostelapi.Room, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]hostelapi.Room), args.Error(1)
}

func (m *MockHostelAPI) AvailableRooms(ctx context.Context, f hostelapi.RoomFilter) ([]hostelapi.Room, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]hostelapi.Room), args.Error(1)
}

func (m *MockHostelAPI) Room(ctx context.Context, id int64, f hostelapi.RoomFilter) (*hostelapi.Room, error) {
	args := m.Called(ctx, id, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*hostelapi.Room), args.Error(1)
}

func (m *MockHostelAPI) MyBookings(ctx context.Context) ([]hostelapi.Booking, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]hostelapi.Booking), args.Error(1)
}

func (m *MockHostelAPI) CreateBooking(ctx context.Context, req hostelapi.BookingRequest) (*hostelapi.Booking, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*hostelapi.Booking), args.Error(1)
}

func (m *MockHostelAPI) PayBooking(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockHostelAPI) CancelBooking(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

// memoryCache is a map-backed cache that records hits.
type memoryCache struct {
	mu     sync.Mutex
	values map[string]any
	hits   int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{values: make(map[string]any)}
}

func (c *memoryCache) Get(_ context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.values[key]
	if !ok {
		return false, nil
	}
	c.hits++
	switch d := dst.(type) {
	case *[]hostelapi.Room:
		*d = v.([]hostelapi.Room)
	case *hostelapi.Room:
		*d = *v.(*hostelapi.Room)
	}
	return true, nil
}

func (c *memoryCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	c.mu.Lock()
	c.values[key] = value
	c.mu.Unlock()
	return nil
}

func (c *memoryCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	for _, k := range keys {
		delete(c.values, k)
	}
	c.mu.Unlock()
	return nil
}

func (c *memoryCache) Close() error { return nil }

func testConfig() *utils.Config {
	return &utils.Config{
		App:     utils.AppConfig{RoomCacheTTL: time.Minute},
		Session: utils.SessionConfig{ExpiryHours: 24},
		Wizard: utils.WizardConfig{
			TTL:       time.Hour,
			TaxRate:   0.1,
			MaxGuests: 4,
		},
	}
}

func testRepo() *repository.Repository {
	return repository.NewRepository(nil, zap.NewNop())
}

func apiRoom(id int64, price float64) *hostelapi.Room {
	return &hostelapi.Room{
		ID:             id,
		Name:           "Double",
		NightlyPrice:   price,
		Capacity:       2,
		AvailableCount: 3,
		Amenities:      []hostelapi.Amenity{{Name: "Wi-Fi"}},
		Photos:         []string{"http://storage.test/storage/rooms/a.jpg"},
	}
}

// futureDate returns a YYYY-MM-DD date days from now.
func futureDate(days int) string {
	return time.Now().AddDate(0, 0, days).Format("2006-01-02")
}

// loggedIn logs a user in against api and returns a request context carrying the session.
func loggedIn(t *testing.T, auth AuthService, api *MockHostelAPI) context.Context {
	t.Helper()
	api.On("Login", mock.Anything, hostelapi.LoginRequest{Email: "anna@example.com", Password: "secret123"}).
		Return(&hostelapi.LoginResponse{Token: "upstream-token", User: &hostelapi.User{ID: 9, Email: "anna@example.com"}}, nil).Once()

	resp, err := auth.Login(context.Background(), loginReq(), ClientMeta{})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	ctx := utils.SetSessionContext(context.Background(), resp.Token)
	return utils.SetTokenContext(ctx, "upstream-token")
}
