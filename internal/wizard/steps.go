package wizard

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

type Step int

const (
	StepRoom Step = iota + 1
	StepDates
	StepGuest
	StepConfirm
)

func (s Step) String() string {
	switch s {
	case StepRoom:
		return "room-select"
	case StepDates:
		return "dates-and-guests"
	case StepGuest:
		return "guest-details"
	case StepConfirm:
		return "confirmation"
	}
	return fmt.Sprintf("step(%d)", int(s))
}

func (s Step) Valid() bool {
	return s >= StepRoom && s <= StepConfirm
}

// RoomQuery narrows room lookups to a stay. Zero values mean "not known yet".
type RoomQuery struct {
	CheckIn  string
	CheckOut string
	Guests   int
}

func (q RoomQuery) HasDates() bool {
	return !isBlank(q.CheckIn) && !isBlank(q.CheckOut)
}

type RoomSource interface {
	AllRooms(ctx context.Context) ([]RoomSummary, error)
	AvailableRooms(ctx context.Context, q RoomQuery) ([]RoomSummary, error)
	Room(ctx context.Context, id int64, q RoomQuery) (*RoomSummary, error)
}

type ProfileSource interface {
	Profile(ctx context.Context) (GuestData, error)
}

// StepHandler validates the slice of the draft owned by one step.
type StepHandler interface {
	Step() Step
	CanLeave(d *Draft) error
}

func queryOf(d *Draft) RoomQuery {
	return RoomQuery{CheckIn: d.CheckIn, CheckOut: d.CheckOut, Guests: d.Guests}
}

// RoomStep lists candidate rooms. The last list is memoized per query so that
// changing dates or guests triggers a fresh fetch and nothing else does.
type RoomStep struct {
	rooms RoomSource

	mu      sync.Mutex
	fetched bool
	key     RoomQuery
	list    []RoomSummary
}

func NewRoomStep(rooms RoomSource) *RoomStep {
	return &RoomStep{rooms: rooms}
}

func (s *RoomStep) Step() Step { return StepRoom }

func (s *RoomStep) CanLeave(d *Draft) error {
	if d.Room == nil {
		return ErrRoomRequired
	}
	return nil
}

// Candidates returns the rooms for q. A failed fetch yields an empty list and
// is not memoized, so the next call retries.
func (s *RoomStep) Candidates(ctx context.Context, q RoomQuery) ([]RoomSummary, error) {
	s.mu.Lock()
	if s.fetched && s.key == q {
		list := cloneRooms(s.list)
		s.mu.Unlock()
		return list, nil
	}
	s.mu.Unlock()

	var (
		list []RoomSummary
		err  error
	)
	if q.HasDates() {
		list, err = s.rooms.AvailableRooms(ctx, q)
	} else {
		list, err = s.rooms.AllRooms(ctx)
	}
	if err != nil {
		return []RoomSummary{}, fmt.Errorf("fetch rooms: %w", err)
	}
	if list == nil {
		list = []RoomSummary{}
	}

	s.mu.Lock()
	s.fetched, s.key, s.list = true, q, cloneRooms(list)
	s.mu.Unlock()
	return list, nil
}

// Lookup finds id in the memoized list for q.
func (s *RoomStep) Lookup(id int64, q RoomQuery) (*RoomSummary, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.fetched || s.key != q {
		return nil, false
	}
	for i := range s.list {
		if s.list[i].ID == id {
			return s.list[i].clone(), true
		}
	}
	return nil, false
}

func cloneRooms(in []RoomSummary) []RoomSummary {
	out := make([]RoomSummary, len(in))
	for i := range in {
		out[i] = *in[i].clone()
	}
	return out
}

// DatesInput is a partial update; nil fields are left alone.
type DatesInput struct {
	CheckIn  *string
	CheckOut *string
	Guests   *int
}

type DatesStep struct {
	now       func() time.Time
	maxGuests int
}

func NewDatesStep(now func() time.Time, maxGuests int) *DatesStep {
	return &DatesStep{now: now, maxGuests: maxGuests}
}

func (s *DatesStep) Step() Step { return StepDates }

func (s *DatesStep) today() time.Time {
	t := s.now()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Apply validates in against d and commits all of it or none of it.
func (s *DatesStep) Apply(d *Draft, in DatesInput) error {
	next := *d

	if in.CheckIn != nil {
		ci, err := NormalizeDate(*in.CheckIn)
		if err != nil {
			return err
		}
		if ci != "" {
			t, _ := ParseDate(ci)
			if t.Before(s.today()) {
				return ErrCheckInPast
			}
			// an existing check-out that no longer follows check-in is dropped
			if in.CheckOut == nil && next.CheckOut != "" {
				co, err := ParseDate(next.CheckOut)
				if err != nil || !co.After(t) {
					next.CheckOut = ""
				}
			}
		}
		next.CheckIn = ci
	}

	if in.CheckOut != nil {
		co, err := NormalizeDate(*in.CheckOut)
		if err != nil {
			return err
		}
		if co != "" && next.CheckIn != "" {
			ci, _ := ParseDate(next.CheckIn)
			out, _ := ParseDate(co)
			if out.Before(ci.AddDate(0, 0, 1)) {
				return ErrInvalidDateRange
			}
		}
		next.CheckOut = co
	}

	if in.Guests != nil {
		if err := s.checkGuests(*in.Guests); err != nil {
			return err
		}
		next.Guests = *in.Guests
	}

	next.recalculate()
	*d = next
	return nil
}

func (s *DatesStep) checkGuests(n int) error {
	if n < 1 || (s.maxGuests > 0 && n > s.maxGuests) {
		return fmt.Errorf("%w: %d not in 1..%d", ErrGuestsOutOfRange, n, s.maxGuests)
	}
	return nil
}

// checkCheckIn rejects a check-in before today, including one seeded from a deep link.
func (s *DatesStep) checkCheckIn(d *Draft) error {
	t, err := ParseDate(d.CheckIn)
	if err != nil {
		return err
	}
	if t.Before(s.today()) {
		return ErrCheckInPast
	}
	return nil
}

func (s *DatesStep) CanLeave(d *Draft) error {
	if isBlank(d.CheckIn) || isBlank(d.CheckOut) {
		return ErrDatesRequired
	}
	if err := s.checkCheckIn(d); err != nil {
		return err
	}
	if err := s.checkGuests(d.Guests); err != nil {
		return err
	}
	p, ok := d.Quote()
	if !ok || p.Nights <= 0 || p.Total <= 0 {
		return ErrInvalidDateRange
	}
	return nil
}

type GuestStep struct{}

func (GuestStep) Step() Step { return StepGuest }

func (GuestStep) CanLeave(d *Draft) error {
	if missing := d.Guest.Missing(); len(missing) > 0 {
		return &MissingFieldsError{Fields: missing}
	}
	return nil
}

// Prefill merges the profile into the empty fields of current. Any failure
// leaves current untouched; ok reports whether a profile was applied.
func (GuestStep) Prefill(ctx context.Context, profiles ProfileSource, current GuestData) (GuestData, bool) {
	if profiles == nil {
		return current, false
	}
	profile, err := profiles.Profile(ctx)
	if err != nil {
		return current, false
	}
	return current.MergeEmpty(profile), true
}

const (
	PaymentCard     = "card"
	PaymentCash     = "cash"
	PaymentTransfer = "transfer"
)

// Confirmation is what the last step collects besides the draft itself.
type Confirmation struct {
	PaymentMethod string
	AcceptTerms   bool
	Newsletter    bool
}

type ConfirmStep struct {
	dates *DatesStep
}

func (ConfirmStep) Step() Step { return StepConfirm }

func (ConfirmStep) CanLeave(*Draft) error { return ErrLastStep }

// Check re-validates the whole draft before it is submitted.
func (s ConfirmStep) Check(d *Draft, c Confirmation) error {
	switch strings.ToLower(strings.TrimSpace(c.PaymentMethod)) {
	case "", PaymentCard, PaymentCash, PaymentTransfer:
	default:
		return fmt.Errorf("%w: %q", ErrPaymentMethod, c.PaymentMethod)
	}
	if !c.AcceptTerms {
		return ErrTermsNotAccepted
	}
	if d.Room == nil {
		return ErrRoomRequired
	}
	if isBlank(d.CheckIn) || isBlank(d.CheckOut) {
		return ErrDatesRequired
	}
	if s.dates != nil {
		if err := s.dates.checkCheckIn(d); err != nil {
			return err
		}
	}
	if p, ok := d.Quote(); !ok || p.Nights <= 0 {
		return ErrInvalidDateRange
	}
	return GuestStep{}.CanLeave(d)
}
