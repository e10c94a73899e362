package hostelapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// FlexInt decodes a JSON number, a numeric string or null.
type FlexInt int64

func (n *FlexInt) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(bytes.TrimSpace(b)), `"`)
	if s == "" || s == "null" {
		*n = 0
		return nil
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		*n = FlexInt(v)
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("decode integer %s: %w", b, err)
	}
	*n = FlexInt(f)
	return nil
}

// FlexFloat decodes a JSON number, a numeric string or null.
type FlexFloat float64

func (n *FlexFloat) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(bytes.TrimSpace(b)), `"`)
	if s == "" || s == "null" {
		*n = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("decode number %s: %w", b, err)
	}
	*n = FlexFloat(f)
	return nil
}

// Amenity arrives either as a bare name or as {name, icon_class}.
type Amenity struct {
	Name      string `json:"name"`
	IconClass string `json:"icon_class,omitempty"`
}

func (a *Amenity) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); err == nil {
		*a = Amenity{Name: name}
		return nil
	}
	type plain Amenity
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return fmt.Errorf("decode amenity: %w", err)
	}
	*a = Amenity(p)
	return nil
}

// Room is a normalized room type.
type Room struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Slug           string    `json:"slug"`
	NightlyPrice   float64   `json:"nightly_price"`
	Capacity       int       `json:"capacity"`
	AvailableCount int       `json:"available_count"`
	Amenities      []Amenity `json:"amenities"`
	Photos         []string  `json:"photos"`
	Description    string    `json:"description,omitempty"`
}

// rawRoom is the room payload as the API sends it; the listing and detail
// endpoints disagree on field names.
type rawRoom struct {
	ID             FlexInt   `json:"id"`
	CheapestRoomID FlexInt   `json:"cheapest_room_id"`
	TypeName       string    `json:"type_name"`
	Name           string    `json:"name"`
	Slug           string    `json:"slug"`
	CheapestPrice  FlexFloat `json:"cheapest_price"`
	PricePerNight  FlexFloat `json:"price_per_night"`
	Capacity       FlexInt   `json:"capacity"`
	AvailableCount *FlexInt  `json:"available_count"`
	Photos         []string  `json:"photos"`
	Amenities      []Amenity `json:"amenities"`
	Description    *string   `json:"description"`
}

func (r rawRoom) normalize(photos PhotoResolver) Room {
	room := Room{
		ID:             int64(r.CheapestRoomID),
		Name:           r.TypeName,
		Slug:           r.Slug,
		NightlyPrice:   float64(r.CheapestPrice),
		Capacity:       int(r.Capacity),
		AvailableCount: 1,
		Amenities:      r.Amenities,
		Photos:         photos.Resolve(r.Photos),
	}
	if room.ID == 0 {
		room.ID = int64(r.ID)
	}
	if room.Name == "" {
		room.Name = r.Name
	}
	if room.NightlyPrice == 0 {
		room.NightlyPrice = float64(r.PricePerNight)
	}
	if r.AvailableCount != nil {
		room.AvailableCount = int(*r.AvailableCount)
	}
	if r.Description != nil {
		room.Description = *r.Description
	}
	if room.Amenities == nil {
		room.Amenities = []Amenity{}
	}
	return room
}

// RoomFilter narrows room queries. Empty fields are not sent.
type RoomFilter struct {
	CheckIn  string
	CheckOut string
	Guests   int
}

type RegisterRequest struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Phone                string `json:"phone,omitempty"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user,omitempty"`
}

// User is the profile stored by the hostel API.
type User struct {
	ID               FlexInt `json:"id"`
	Name             string  `json:"name"`
	Surname          string  `json:"surname"`
	SecondName       string  `json:"second_name"`
	Email            string  `json:"email"`
	Birthday         string  `json:"birthday"`
	Phone            string  `json:"phone"`
	PassportSeries   string  `json:"passport_series"`
	PassportNumber   string  `json:"passport_number"`
	PassportIssuedAt string  `json:"passport_issued_at"`
	PassportIssuedBy string  `json:"passport_issued_by"`
}

type ProfileUpdate struct {
	Name       string `json:"name,omitempty"`
	Surname    string `json:"surname,omitempty"`
	SecondName string `json:"second_name,omitempty"`
	Birthday   string `json:"birthday,omitempty"`
	Phone      string `json:"phone,omitempty"`
}

type BookingRequest struct {
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

const (
	StatusPendingPayment = "pending_payment"
	StatusPaid           = "paid"
	StatusCancelled      = "cancelled"
)

type BookingRoom struct {
	ID            FlexInt   `json:"id"`
	Name          string    `json:"name"`
	PricePerNight FlexFloat `json:"price_per_night"`
}

type Booking struct {
	ID           FlexInt     `json:"id"`
	Room         BookingRoom `json:"room"`
	CheckInDate  string      `json:"check_in_date"`
	CheckOutDate string      `json:"check_out_date"`
	Status       string      `json:"status"`
	TotalPrice   FlexFloat   `json:"total_price"`
}
