package wizard

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"
)

type MockRoomSource struct {
	mock.Mock
}

func (m *MockRoomSource) AllRooms(ctx context.Context) ([]RoomSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]RoomSummary), args.Error(1)
}

func (m *MockRoomSource) AvailableRooms(ctx context.Context, q RoomQuery) ([]RoomSummary, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]RoomSummary), args.Error(1)
}

func (m *MockRoomSource) Room(ctx context.Context, id int64, q RoomQuery) (*RoomSummary, error) {
	args := m.Called(ctx, id, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*RoomSummary), args.Error(1)
}

type MockProfileSource struct {
	mock.Mock
}

func (m *MockProfileSource) Profile(ctx context.Context) (GuestData, error) {
	args := m.Called(ctx)
	return args.Get(0).(GuestData), args.Error(1)
}

type MockSubmitter struct {
	mock.Mock
}

func (m *MockSubmitter) CreateBooking(ctx context.Context, payload BookingPayload) (*CreatedBooking, error) {
	args := m.Called(ctx, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*CreatedBooking), args.Error(1)
}

// manualScheduler queues callbacks until the test fires them.
type manualScheduler struct {
	mu      sync.Mutex
	pending []func()
}

func (s *manualScheduler) After(_ time.Duration, fn func()) {
	s.mu.Lock()
	s.pending = append(s.pending, fn)
	s.mu.Unlock()
}

func (s *manualScheduler) Tick() bool {
	s.mu.Lock()
	if len(s.pending) == 0 {
		s.mu.Unlock()
		return false
	}
	fn := s.pending[0]
	s.pending = s.pending[1:]
	s.mu.Unlock()
	fn()
	return true
}

func (s *manualScheduler) Flush() {
	for s.Tick() {
	}
}

func (s *manualScheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

var testToday = time.Date(2025, 5, 20, 9, 30, 0, 0, time.UTC)

func fixedNow() time.Time { return testToday }

func testRoom(id int64, price float64) *RoomSummary {
	return &RoomSummary{
		ID:             id,
		Name:           "Dorm",
		NightlyPrice:   price,
		Capacity:       4,
		AvailableCount: 2,
		Amenities:      []string{"wifi"},
		Photos:         []string{"http://cdn/room.jpg"},
	}
}

func completeGuest() GuestData {
	return GuestData{
		Name:           "Ivan",
		Surname:        "Petrov",
		Phone:          "+79990000000",
		PassportSeries: "4510",
		PassportNumber: "123456",
	}
}

type fixture struct {
	c         *Controller
	rooms     *MockRoomSource
	profiles  *MockProfileSource
	submitter *MockSubmitter
	sched     *manualScheduler
}

func newFixture(transition time.Duration) *fixture {
	f := &fixture{
		rooms:     new(MockRoomSource),
		profiles:  new(MockProfileSource),
		submitter: new(MockSubmitter),
		sched:     &manualScheduler{},
	}
	f.c = New(Deps{
		Rooms:     f.rooms,
		Profiles:  f.profiles,
		Submitter: f.submitter,
		Scheduler: f.sched,
	}, Options{
		Transition: transition,
		TaxRate:    0.1,
		MaxGuests:  4,
		Now:        fixedNow,
	})
	return f
}

func strPtr(s string) *string { return &s }

func intPtr(n int) *int { return &n }
