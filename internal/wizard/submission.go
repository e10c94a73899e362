package wizard

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// BookingPayload is the booking-creation request accepted by the hostel API.
type BookingPayload struct {
	RoomID                int64  `json:"room_id"`
	CheckInDate           string `json:"check_in_date"`
	CheckOutDate          string `json:"check_out_date"`
	GuestName             string `json:"guest_name"`
	GuestSurname          string `json:"guest_surname"`
	GuestSecondName       string `json:"guest_second_name"`
	GuestBirthday         string `json:"guest_birthday"`
	GuestPhone            string `json:"guest_phone"`
	GuestPassportSeries   string `json:"guest_passport_series"`
	GuestPassportNumber   string `json:"guest_passport_number"`
	GuestPassportIssuedAt string `json:"guest_passport_issued_at"`
	GuestPassportIssuedBy string `json:"guest_passport_issued_by"`
	SpecialRequests       string `json:"special_requests"`
}

type CreatedBooking struct {
	ID         int64   `json:"id"`
	Status     string  `json:"status"`
	TotalPrice float64 `json:"total_price"`
}

type Submitter interface {
	CreateBooking(ctx context.Context, payload BookingPayload) (*CreatedBooking, error)
}

var errNoBookingID = errors.New("booking service returned no booking id")

// BuildPayload serializes a complete draft. Every date goes out as YYYY-MM-DD.
func BuildPayload(d Draft) (BookingPayload, error) {
	if d.Room == nil {
		return BookingPayload{}, ErrRoomRequired
	}
	dates := make([]string, 4)
	for i, raw := range []string{d.CheckIn, d.CheckOut, d.Guest.Birthday, d.Guest.PassportIssuedAt} {
		v, err := NormalizeDate(raw)
		if err != nil {
			return BookingPayload{}, err
		}
		dates[i] = v
	}
	if dates[0] == "" || dates[1] == "" {
		return BookingPayload{}, ErrDatesRequired
	}

	g := d.Guest
	return BookingPayload{
		RoomID:                d.Room.ID,
		CheckInDate:           dates[0],
		CheckOutDate:          dates[1],
		GuestName:             strings.TrimSpace(g.Name),
		GuestSurname:          strings.TrimSpace(g.Surname),
		GuestSecondName:       strings.TrimSpace(g.SecondName),
		GuestBirthday:         dates[2],
		GuestPhone:            strings.TrimSpace(g.Phone),
		GuestPassportSeries:   strings.TrimSpace(g.PassportSeries),
		GuestPassportNumber:   strings.TrimSpace(g.PassportNumber),
		GuestPassportIssuedAt: dates[3],
		GuestPassportIssuedBy: strings.TrimSpace(g.PassportIssuedBy),
		SpecialRequests:       strings.TrimSpace(g.SpecialRequests),
	}, nil
}

// submit sends the payload and insists on a booking id in the answer.
func submit(ctx context.Context, s Submitter, d Draft) (*CreatedBooking, error) {
	payload, err := BuildPayload(d)
	if err != nil {
		return nil, err
	}
	created, err := s.CreateBooking(ctx, payload)
	if err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}
	if created == nil || created.ID == 0 {
		return nil, errNoBookingID
	}
	return created, nil
}
