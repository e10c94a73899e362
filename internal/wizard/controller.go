package wizard

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Phase is the state of the step transition machine.
type Phase string

const (
	PhaseIdle Phase = "idle"
	PhaseOut  Phase = "transitioning-out"
	PhaseIn   Phase = "transitioning-in"
)

// Scheduler runs fn once after d. It is the only clock that moves a transition forward.
type Scheduler interface {
	After(d time.Duration, fn func())
}

type TimerScheduler struct{}

func (TimerScheduler) After(d time.Duration, fn func()) {
	time.AfterFunc(d, fn)
}

type Deps struct {
	Rooms     RoomSource
	Profiles  ProfileSource
	Submitter Submitter
	Scheduler Scheduler
}

type Options struct {
	// Transition is the length of each transition phase. Zero switches steps immediately.
	Transition time.Duration
	TaxRate    float64
	TaxInTotal bool
	MaxGuests  int
	Now        func() time.Time
	Logger     *zap.Logger
}

// State is a read-only snapshot of a wizard.
type State struct {
	Step         Step         `json:"step"`
	StepName     string       `json:"step_name"`
	PreviousStep Step         `json:"previous_step"`
	Phase        Phase        `json:"phase"`
	Loading      bool         `json:"loading"`
	Submitting   bool         `json:"submitting"`
	Completed    bool         `json:"completed"`
	BookingID    int64        `json:"booking_id,omitempty"`
	Warning      string       `json:"warning,omitempty"`
	Draft        Draft        `json:"draft"`
	Price        PriceSummary `json:"price"`
	CanAdvance   bool         `json:"can_advance"`
	BlockedBy    string       `json:"blocked_by,omitempty"`
}

// Controller owns one booking draft and the step it is on.
type Controller struct {
	deps Deps
	opts Options
	log  *zap.Logger

	rooms   *RoomStep
	dates   *DatesStep
	guest   GuestStep
	confirm ConfirmStep

	mu         sync.Mutex
	draft      Draft
	step       Step
	prev       Step
	phase      Phase
	target     Step
	gen        uint64
	resolveSeq uint64
	loading    bool
	submitting bool
	completed  bool
	closed     bool
	bookingID  int64
	warning    string
}

func New(deps Deps, opts Options) *Controller {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.MaxGuests <= 0 {
		opts.MaxGuests = 4
	}
	if deps.Scheduler == nil {
		deps.Scheduler = TimerScheduler{}
	}
	dates := NewDatesStep(opts.Now, opts.MaxGuests)
	return &Controller{
		deps:    deps,
		opts:    opts,
		log:     opts.Logger,
		rooms:   NewRoomStep(deps.Rooms),
		dates:   dates,
		confirm: ConfirmStep{dates: dates},
		draft:   NewDraft(),
		step:    StepRoom,
		phase:   PhaseIdle,
	}
}

func (c *Controller) handler(s Step) StepHandler {
	switch s {
	case StepRoom:
		return c.rooms
	case StepDates:
		return c.dates
	case StepGuest:
		return c.guest
	}
	return c.confirm
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := State{
		Step:         c.step,
		StepName:     c.step.String(),
		PreviousStep: c.prev,
		Phase:        c.phase,
		Loading:      c.loading,
		Submitting:   c.submitting,
		Completed:    c.completed,
		BookingID:    c.bookingID,
		Warning:      c.warning,
		Draft:        c.draft.Clone(),
		Price:        Summarize(c.draft, c.opts.TaxRate, c.opts.TaxInTotal),
	}
	if c.step != StepConfirm {
		if err := c.handler(c.step).CanLeave(&c.draft); err != nil {
			st.BlockedBy = err.Error()
		} else {
			st.CanAdvance = true
		}
	}
	return st
}

func (c *Controller) Step() Step {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.step
}

func (c *Controller) Draft() Draft {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft.Clone()
}

// busy reports why the wizard cannot take a request right now. Must hold mu.
func (c *Controller) busy() error {
	switch {
	case c.closed:
		return ErrClosed
	case c.completed:
		return ErrCompleted
	case c.submitting:
		return ErrSubmitting
	case c.loading:
		return ErrLoading
	}
	return nil
}

// editable checks that the draft slice of step may be written. Must hold mu.
func (c *Controller) editable(step Step) error {
	if err := c.busy(); err != nil {
		return err
	}
	if c.phase == PhaseOut {
		return ErrTransitionInFlight
	}
	if c.step != step {
		return ErrWrongStep
	}
	return nil
}

// Advance leaves the current step after re-validating it.
// A request arriving while a transition is in flight is dropped.
func (c *Controller) Advance() error {
	c.mu.Lock()
	if err := c.busy(); err != nil {
		c.mu.Unlock()
		return err
	}
	if c.phase != PhaseIdle {
		c.mu.Unlock()
		return ErrTransitionInFlight
	}
	if c.step == StepConfirm {
		c.mu.Unlock()
		return ErrLastStep
	}
	if err := c.handler(c.step).CanLeave(&c.draft); err != nil {
		c.mu.Unlock()
		return err
	}
	gen, scheduled := c.beginLocked(c.step + 1)
	c.mu.Unlock()

	c.schedule(gen, scheduled)
	return nil
}

// Retreat moves one step back. Nothing already entered is cleared.
func (c *Controller) Retreat() error {
	c.mu.Lock()
	if err := c.busy(); err != nil {
		c.mu.Unlock()
		return err
	}
	if c.phase != PhaseIdle {
		c.mu.Unlock()
		return ErrTransitionInFlight
	}
	if c.step == StepRoom {
		c.mu.Unlock()
		return ErrFirstStep
	}
	gen, scheduled := c.beginLocked(c.step - 1)
	c.mu.Unlock()

	c.schedule(gen, scheduled)
	return nil
}

// beginLocked starts a move to target. It returns whether a tick must be scheduled.
func (c *Controller) beginLocked(target Step) (uint64, bool) {
	c.prev = c.step
	c.gen++
	if c.opts.Transition <= 0 {
		c.step = target
		c.log.Debug("step changed", zap.Stringer("from", c.prev), zap.Stringer("to", c.step))
		return c.gen, false
	}
	c.phase = PhaseOut
	c.target = target
	return c.gen, true
}

func (c *Controller) schedule(gen uint64, ok bool) {
	if !ok {
		return
	}
	c.deps.Scheduler.After(c.opts.Transition, func() { c.tick(gen) })
}

// tick drives the transition: out -> step change -> in -> idle.
func (c *Controller) tick(gen uint64) {
	c.mu.Lock()
	if c.closed || gen != c.gen {
		c.mu.Unlock()
		return
	}
	again := false
	switch c.phase {
	case PhaseOut:
		c.step = c.target
		c.phase = PhaseIn
		again = true
		c.log.Debug("step changed", zap.Stringer("from", c.prev), zap.Stringer("to", c.step))
	case PhaseIn:
		c.phase = PhaseIdle
	}
	c.mu.Unlock()

	c.schedule(gen, again)
}

// Candidates lists rooms for the draft's current dates and guests.
func (c *Controller) Candidates(ctx context.Context) ([]RoomSummary, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrClosed
	}
	q := queryOf(&c.draft)
	c.mu.Unlock()

	return c.rooms.Candidates(ctx, q)
}

// SelectRoom sets the draft room and advances to the dates step.
func (c *Controller) SelectRoom(ctx context.Context, id int64) error {
	c.mu.Lock()
	if err := c.editable(StepRoom); err != nil {
		c.mu.Unlock()
		return err
	}
	q := queryOf(&c.draft)
	c.mu.Unlock()

	room, ok := c.rooms.Lookup(id, q)
	if !ok {
		fetched, err := c.deps.Rooms.Room(ctx, id, q)
		if err != nil {
			c.log.Warn("room lookup failed", zap.Int64("room_id", id), zap.Error(err))
			return ErrRoomNotFound
		}
		if fetched == nil {
			return ErrRoomNotFound
		}
		room = fetched.clone()
	}

	c.mu.Lock()
	if err := c.editable(StepRoom); err != nil {
		c.mu.Unlock()
		return err
	}
	if c.phase != PhaseIdle {
		c.mu.Unlock()
		return ErrTransitionInFlight
	}
	c.draft.Room = room
	c.draft.recalculate()
	gen, scheduled := c.beginLocked(StepDates)
	c.mu.Unlock()

	c.schedule(gen, scheduled)
	return nil
}

func (c *Controller) SetDates(in DatesInput) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.editable(StepDates); err != nil {
		return err
	}
	return c.dates.Apply(&c.draft, in)
}

// SetGuest replaces the guest record as a whole.
func (c *Controller) SetGuest(g GuestData) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.editable(StepGuest); err != nil {
		return err
	}
	c.draft.Guest = g
	return nil
}

// Prefill merges the caller's profile into empty guest fields. Failures are
// swallowed; applied is false when no profile could be read.
func (c *Controller) Prefill(ctx context.Context) (bool, error) {
	c.mu.Lock()
	if err := c.editable(StepGuest); err != nil {
		c.mu.Unlock()
		return false, err
	}
	c.mu.Unlock()

	profile, ok := c.guest.Prefill(ctx, c.deps.Profiles, GuestData{})
	if !ok {
		return false, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.editable(StepGuest); err != nil {
		return false, err
	}
	// merge against the current record, which may have been edited meanwhile
	c.draft.Guest = c.draft.Guest.MergeEmpty(profile)
	return true, nil
}

// Submit sends the draft from the confirmation step. On failure the draft is kept as is.
func (c *Controller) Submit(ctx context.Context, conf Confirmation) (*CreatedBooking, error) {
	c.mu.Lock()
	if err := c.busy(); err != nil {
		c.mu.Unlock()
		return nil, err
	}
	if c.phase != PhaseIdle {
		c.mu.Unlock()
		return nil, ErrTransitionInFlight
	}
	if c.step != StepConfirm {
		c.mu.Unlock()
		return nil, ErrWrongStep
	}
	if err := c.confirm.Check(&c.draft, conf); err != nil {
		c.mu.Unlock()
		return nil, err
	}
	c.draft.recalculate()
	snapshot := c.draft.Clone()
	c.submitting = true
	c.mu.Unlock()

	created, err := submit(ctx, c.deps.Submitter, snapshot)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.submitting = false
	if err != nil {
		c.log.Warn("booking submission failed", zap.Error(err))
		return nil, err
	}
	c.completed = true
	c.bookingID = created.ID
	c.log.Info("booking created",
		zap.Int64("booking_id", created.ID),
		zap.Int64("room_id", snapshot.Room.ID),
		zap.Float64("total", snapshot.TotalPrice),
		zap.Bool("newsletter", conf.Newsletter),
	)
	return created, nil
}

// Close abandons the wizard. Pending ticks and resolutions become no-ops.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.gen++
	c.resolveSeq++
}
