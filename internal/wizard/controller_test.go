package wizard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// toGuestStep walks a fresh fixture to step 3 without transitions.
func toGuestStep(t *testing.T, f *fixture) {
	t.Helper()
	ctx := context.Background()
	f.rooms.On("Room", mock.Anything, int64(7), mock.Anything).Return(testRoom(7, 1000), nil).Maybe()

	require.NoError(t, f.c.SelectRoom(ctx, 7))
	f.sched.Flush()
	require.NoError(t, f.c.SetDates(DatesInput{
		CheckIn:  strPtr("2025-06-01"),
		CheckOut: strPtr("2025-06-03"),
		Guests:   intPtr(2),
	}))
	require.NoError(t, f.c.Advance())
	f.sched.Flush()
	require.Equal(t, StepGuest, f.c.Step())
}

func TestController_StartsAtRoomStep(t *testing.T) {
	f := newFixture(0)

	st := f.c.State()
	assert.Equal(t, StepRoom, st.Step)
	assert.Equal(t, "room-select", st.StepName)
	assert.Equal(t, PhaseIdle, st.Phase)
	assert.Equal(t, 1, st.Draft.Guests)
	assert.False(t, st.CanAdvance)
	assert.Equal(t, ErrRoomRequired.Error(), st.BlockedBy)
}

func TestController_AdvanceTwiceDuringTransition(t *testing.T) {
	f := newFixture(200 * time.Millisecond)
	f.rooms.On("Room", mock.Anything, int64(7), mock.Anything).Return(testRoom(7, 1000), nil)

	require.NoError(t, f.c.SelectRoom(context.Background(), 7))
	assert.Equal(t, PhaseOut, f.c.State().Phase)
	f.sched.Flush()
	require.Equal(t, StepDates, f.c.Step())

	require.NoError(t, f.c.SetDates(DatesInput{CheckIn: strPtr("2025-06-01"), CheckOut: strPtr("2025-06-02")}))

	require.NoError(t, f.c.Advance())
	assert.ErrorIs(t, f.c.Advance(), ErrTransitionInFlight)
	assert.ErrorIs(t, f.c.Retreat(), ErrTransitionInFlight)

	st := f.c.State()
	assert.Equal(t, StepDates, st.Step)
	assert.Equal(t, PhaseOut, st.Phase)

	require.True(t, f.sched.Tick())
	st = f.c.State()
	assert.Equal(t, StepGuest, st.Step)
	assert.Equal(t, StepDates, st.PreviousStep)
	assert.Equal(t, PhaseIn, st.Phase)
	assert.ErrorIs(t, f.c.Advance(), ErrTransitionInFlight)

	require.True(t, f.sched.Tick())
	assert.Equal(t, PhaseIdle, f.c.State().Phase)
	assert.False(t, f.sched.Tick())
	assert.Equal(t, StepGuest, f.c.Step())
}

func TestController_ZeroTransitionSwitchesImmediately(t *testing.T) {
	f := newFixture(0)
	toGuestStep(t, f)
	assert.Equal(t, 0, f.sched.Len())
	assert.Equal(t, PhaseIdle, f.c.State().Phase)
}

func TestController_Bounds(t *testing.T) {
	f := newFixture(0)
	assert.ErrorIs(t, f.c.Retreat(), ErrFirstStep)
	assert.ErrorIs(t, f.c.Advance(), ErrRoomRequired)

	toGuestStep(t, f)
	require.NoError(t, f.c.SetGuest(completeGuest()))
	require.NoError(t, f.c.Advance())
	assert.Equal(t, StepConfirm, f.c.Step())
	assert.ErrorIs(t, f.c.Advance(), ErrLastStep)
}

func TestController_RetreatKeepsLaterFields(t *testing.T) {
	f := newFixture(0)
	toGuestStep(t, f)
	guest := completeGuest()
	guest.SpecialRequests = "late arrival"
	require.NoError(t, f.c.SetGuest(guest))

	require.NoError(t, f.c.Retreat())
	require.NoError(t, f.c.Retreat())
	assert.Equal(t, StepRoom, f.c.Step())

	d := f.c.Draft()
	require.NotNil(t, d.Room)
	assert.Equal(t, int64(7), d.Room.ID)
	assert.Equal(t, "2025-06-01", d.CheckIn)
	assert.Equal(t, "2025-06-03", d.CheckOut)
	assert.Equal(t, 2, d.Guests)
	assert.Equal(t, 2000.0, d.TotalPrice)
	assert.Equal(t, guest, d.Guest)

	// the room is still set, so the user can walk forward again without retyping
	require.NoError(t, f.c.Advance())
	require.NoError(t, f.c.Advance())
	require.NoError(t, f.c.Advance())
	assert.Equal(t, StepConfirm, f.c.Step())
}

func TestController_MutationsNeedTheirStep(t *testing.T) {
	f := newFixture(0)
	assert.ErrorIs(t, f.c.SetDates(DatesInput{Guests: intPtr(2)}), ErrWrongStep)
	assert.ErrorIs(t, f.c.SetGuest(completeGuest()), ErrWrongStep)

	_, err := f.c.Submit(context.Background(), Confirmation{AcceptTerms: true})
	assert.ErrorIs(t, err, ErrWrongStep)
}

func TestController_SetDates(t *testing.T) {
	f := newFixture(0)
	f.rooms.On("Room", mock.Anything, int64(7), mock.Anything).Return(testRoom(7, 1000), nil)
	require.NoError(t, f.c.SelectRoom(context.Background(), 7))

	t.Run("check-in in the past", func(t *testing.T) {
		err := f.c.SetDates(DatesInput{CheckIn: strPtr("2025-05-19")})
		assert.ErrorIs(t, err, ErrCheckInPast)
	})

	t.Run("check-in today is allowed", func(t *testing.T) {
		require.NoError(t, f.c.SetDates(DatesInput{CheckIn: strPtr("2025-05-20")}))
	})

	t.Run("check-out must follow check-in by a day", func(t *testing.T) {
		require.NoError(t, f.c.SetDates(DatesInput{CheckIn: strPtr("2025-06-01")}))
		err := f.c.SetDates(DatesInput{CheckOut: strPtr("2025-06-01")})
		assert.ErrorIs(t, err, ErrInvalidDateRange)
		assert.Empty(t, f.c.Draft().CheckOut)
		assert.ErrorIs(t, f.c.Advance(), ErrDatesRequired)
	})

	t.Run("rejected update changes nothing", func(t *testing.T) {
		require.NoError(t, f.c.SetDates(DatesInput{CheckOut: strPtr("2025-06-04")}))
		err := f.c.SetDates(DatesInput{CheckOut: strPtr("2025-06-05"), Guests: intPtr(9)})
		assert.ErrorIs(t, err, ErrGuestsOutOfRange)

		d := f.c.Draft()
		assert.Equal(t, "2025-06-04", d.CheckOut)
		assert.Equal(t, 1, d.Guests)
		assert.Equal(t, 3000.0, d.TotalPrice)
	})

	t.Run("moving check-in past check-out clears check-out", func(t *testing.T) {
		require.NoError(t, f.c.SetDates(DatesInput{CheckIn: strPtr("2025-06-04")}))
		d := f.c.Draft()
		assert.Equal(t, "2025-06-04", d.CheckIn)
		assert.Empty(t, d.CheckOut)
		assert.Zero(t, d.TotalPrice)
		assert.False(t, f.c.State().CanAdvance)
	})

	t.Run("valid range unblocks advance", func(t *testing.T) {
		require.NoError(t, f.c.SetDates(DatesInput{CheckOut: strPtr("2025-06-05"), Guests: intPtr(4)}))
		st := f.c.State()
		assert.True(t, st.CanAdvance)
		assert.Equal(t, 1, st.Price.Nights)
		assert.Equal(t, 1000.0, st.Draft.TotalPrice)
	})
}

func TestController_GuestStepBlocksOnMissingFields(t *testing.T) {
	f := newFixture(0)
	toGuestStep(t, f)

	guest := completeGuest()
	guest.PassportSeries = ""
	require.NoError(t, f.c.SetGuest(guest))

	err := f.c.Advance()
	var missing *MissingFieldsError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"passport_series"}, missing.Fields)
	assert.True(t, IsValidation(err))
	assert.Equal(t, StepGuest, f.c.Step())
	f.submitter.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything)
}

func TestController_PrefillMergesIntoEmptyFields(t *testing.T) {
	f := newFixture(0)
	toGuestStep(t, f)
	require.NoError(t, f.c.SetGuest(GuestData{Name: "Typed"}))

	f.profiles.On("Profile", mock.Anything).Return(GuestData{
		Name:    "Stored",
		Surname: "Petrov",
		Phone:   "+79990000000",
		Email:   "ivan@example.com",
	}, nil)

	applied, err := f.c.Prefill(context.Background())
	require.NoError(t, err)
	assert.True(t, applied)

	g := f.c.Draft().Guest
	assert.Equal(t, "Typed", g.Name)
	assert.Equal(t, "Petrov", g.Surname)
	assert.Equal(t, "ivan@example.com", g.Email)
}

func TestController_PrefillFailureIsSilent(t *testing.T) {
	f := newFixture(0)
	toGuestStep(t, f)
	require.NoError(t, f.c.SetGuest(GuestData{Name: "Typed"}))
	f.profiles.On("Profile", mock.Anything).Return(GuestData{}, errors.New("401"))

	applied, err := f.c.Prefill(context.Background())
	require.NoError(t, err)
	assert.False(t, applied)
	assert.Equal(t, GuestData{Name: "Typed"}, f.c.Draft().Guest)
}

func TestController_SelectRoomUsesCandidates(t *testing.T) {
	f := newFixture(0)
	list := []RoomSummary{*testRoom(3, 800), *testRoom(4, 900)}
	f.rooms.On("AllRooms", mock.Anything).Return(list, nil).Once()

	got, err := f.c.Candidates(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 2)

	// served from the memo, no second fetch
	_, err = f.c.Candidates(context.Background())
	require.NoError(t, err)

	require.NoError(t, f.c.SelectRoom(context.Background(), 4))
	assert.Equal(t, StepDates, f.c.Step())
	assert.Equal(t, 900.0, f.c.Draft().Room.NightlyPrice)
	f.rooms.AssertNotCalled(t, "Room", mock.Anything, mock.Anything, mock.Anything)
	f.rooms.AssertNumberOfCalls(t, "AllRooms", 1)
}

func TestController_CandidatesRefetchOnDateChange(t *testing.T) {
	f := newFixture(0)
	f.rooms.On("AllRooms", mock.Anything).Return([]RoomSummary{*testRoom(7, 1000)}, nil)
	f.rooms.On("Room", mock.Anything, int64(7), mock.Anything).Return(testRoom(7, 1000), nil)
	q := RoomQuery{CheckIn: "2025-06-01", CheckOut: "2025-06-03", Guests: 1}
	f.rooms.On("AvailableRooms", mock.Anything, q).Return([]RoomSummary{}, nil)

	_, err := f.c.Candidates(context.Background())
	require.NoError(t, err)
	require.NoError(t, f.c.SelectRoom(context.Background(), 7))
	require.NoError(t, f.c.SetDates(DatesInput{CheckIn: strPtr("2025-06-01"), CheckOut: strPtr("2025-06-03")}))
	require.NoError(t, f.c.Retreat())

	got, err := f.c.Candidates(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
	f.rooms.AssertCalled(t, "AvailableRooms", mock.Anything, q)
}

func TestController_CandidatesFailure(t *testing.T) {
	f := newFixture(0)
	f.rooms.On("AllRooms", mock.Anything).Return(nil, errors.New("connection refused"))

	got, err := f.c.Candidates(context.Background())
	assert.Error(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Equal(t, StepRoom, f.c.Step())
}

func TestController_SelectUnknownRoom(t *testing.T) {
	f := newFixture(0)
	f.rooms.On("Room", mock.Anything, int64(99), mock.Anything).Return(nil, errors.New("404"))

	assert.ErrorIs(t, f.c.SelectRoom(context.Background(), 99), ErrRoomNotFound)
	assert.Equal(t, StepRoom, f.c.Step())
	assert.Nil(t, f.c.Draft().Room)
}

func TestController_SubmitFailureKeepsDraft(t *testing.T) {
	f := newFixture(0)
	toGuestStep(t, f)
	require.NoError(t, f.c.SetGuest(completeGuest()))
	require.NoError(t, f.c.Advance())

	before := f.c.Draft()
	f.submitter.On("CreateBooking", mock.Anything, mock.Anything).
		Return(nil, errors.New("room is no longer available")).Once()

	_, err := f.c.Submit(context.Background(), Confirmation{PaymentMethod: "card", AcceptTerms: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "room is no longer available")

	st := f.c.State()
	assert.False(t, st.Completed)
	assert.False(t, st.Submitting)
	assert.Equal(t, StepConfirm, st.Step)
	assert.Equal(t, before, st.Draft)

	f.submitter.On("CreateBooking", mock.Anything, mock.Anything).
		Return(&CreatedBooking{ID: 55, Status: "pending_payment"}, nil).Once()

	created, err := f.c.Submit(context.Background(), Confirmation{PaymentMethod: "card", AcceptTerms: true})
	require.NoError(t, err)
	assert.Equal(t, int64(55), created.ID)

	st = f.c.State()
	assert.True(t, st.Completed)
	assert.Equal(t, int64(55), st.BookingID)
	assert.ErrorIs(t, f.c.Retreat(), ErrCompleted)

	_, err = f.c.Submit(context.Background(), Confirmation{AcceptTerms: true})
	assert.ErrorIs(t, err, ErrCompleted)
	f.submitter.AssertNumberOfCalls(t, "CreateBooking", 2)
}

func TestController_SubmitPayload(t *testing.T) {
	f := newFixture(0)
	toGuestStep(t, f)
	guest := completeGuest()
	guest.Birthday = "15.03.1990"
	require.NoError(t, f.c.SetGuest(guest))
	require.NoError(t, f.c.Advance())

	want := BookingPayload{
		RoomID:              7,
		CheckInDate:         "2025-06-01",
		CheckOutDate:        "2025-06-03",
		GuestName:           "Ivan",
		GuestSurname:        "Petrov",
		GuestBirthday:       "1990-03-15",
		GuestPhone:          "+79990000000",
		GuestPassportSeries: "4510",
		GuestPassportNumber: "123456",
	}
	f.submitter.On("CreateBooking", mock.Anything, want).Return(&CreatedBooking{ID: 1}, nil)

	_, err := f.c.Submit(context.Background(), Confirmation{AcceptTerms: true})
	require.NoError(t, err)
	f.submitter.AssertExpectations(t)
}

func TestController_SubmitNeedsTermsAndGuest(t *testing.T) {
	f := newFixture(0)
	toGuestStep(t, f)
	require.NoError(t, f.c.SetGuest(completeGuest()))
	require.NoError(t, f.c.Advance())

	_, err := f.c.Submit(context.Background(), Confirmation{PaymentMethod: "card"})
	assert.ErrorIs(t, err, ErrTermsNotAccepted)

	_, err = f.c.Submit(context.Background(), Confirmation{PaymentMethod: "crypto", AcceptTerms: true})
	assert.ErrorIs(t, err, ErrPaymentMethod)

	f.submitter.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything)
}

func TestController_CloseStopsEverything(t *testing.T) {
	f := newFixture(100 * time.Millisecond)
	f.rooms.On("Room", mock.Anything, int64(7), mock.Anything).Return(testRoom(7, 1000), nil)
	require.NoError(t, f.c.SelectRoom(context.Background(), 7))

	f.c.Close()
	f.sched.Flush()

	assert.Equal(t, StepRoom, f.c.Step())
	assert.ErrorIs(t, f.c.Advance(), ErrClosed)
	_, err := f.c.Candidates(context.Background())
	assert.ErrorIs(t, err, ErrClosed)
}

func TestController_CheckInOvertakenByClock(t *testing.T) {
	now := testToday
	f := newFixture(0)
	f.c = New(Deps{
		Rooms:     f.rooms,
		Profiles:  f.profiles,
		Submitter: f.submitter,
		Scheduler: f.sched,
	}, Options{MaxGuests: 4, Now: func() time.Time { return now }})

	toGuestStep(t, f)
	require.NoError(t, f.c.SetGuest(completeGuest()))
	require.NoError(t, f.c.Advance())
	f.sched.Flush()
	require.Equal(t, StepConfirm, f.c.Step())

	// the stay starts 2025-06-01; a day later the draft is stale
	now = time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)

	_, err := f.c.Submit(context.Background(), Confirmation{AcceptTerms: true})
	assert.ErrorIs(t, err, ErrCheckInPast)
	f.submitter.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything)

	require.NoError(t, f.c.Retreat())
	f.sched.Flush()
	require.NoError(t, f.c.Retreat())
	f.sched.Flush()
	require.Equal(t, StepDates, f.c.Step())
	assert.ErrorIs(t, f.c.Advance(), ErrCheckInPast)
}

func TestController_SubmitLogsNewsletterChoice(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	f := newFixture(0)
	f.c = New(Deps{
		Rooms:     f.rooms,
		Submitter: f.submitter,
		Scheduler: f.sched,
	}, Options{MaxGuests: 4, Now: fixedNow, Logger: zap.New(core)})

	toGuestStep(t, f)
	require.NoError(t, f.c.SetGuest(completeGuest()))
	require.NoError(t, f.c.Advance())
	f.submitter.On("CreateBooking", mock.Anything, mock.Anything).Return(&CreatedBooking{ID: 9}, nil)

	_, err := f.c.Submit(context.Background(), Confirmation{AcceptTerms: true, Newsletter: true})
	require.NoError(t, err)

	entries := logs.FilterMessage("booking created").All()
	require.Len(t, entries, 1)
	assert.Equal(t, true, entries[0].ContextMap()["newsletter"])
	assert.Equal(t, int64(9), entries[0].ContextMap()["booking_id"])
}
