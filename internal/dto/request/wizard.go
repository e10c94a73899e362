package request

type SelectRoomRequest struct {
	RoomID int64 `json:"room_id" validate:"required,min=1"`
}

// DatesRequest is a partial update; omitted fields keep their value.
type DatesRequest struct {
	CheckIn  *string `json:"check_in"`
	CheckOut *string `json:"check_out"`
	Guests   *int    `json:"guests" validate:"omitempty,min=1"`
}

type GuestRequest struct {
	Name             string `json:"name" validate:"max=100"`
	Surname          string `json:"surname" validate:"max=100"`
	SecondName       string `json:"second_name" validate:"max=100"`
	Birthday         string `json:"birthday"`
	Phone            string `json:"phone" validate:"max=20"`
	Email            string `json:"email" validate:"omitempty,email"`
	PassportSeries   string `json:"passport_series" validate:"omitempty,max=10"`
	PassportNumber   string `json:"passport_number" validate:"omitempty,max=20"`
	PassportIssuedAt string `json:"passport_issued_at"`
	PassportIssuedBy string `json:"passport_issued_by" validate:"max=255"`
	SpecialRequests  string `json:"special_requests" validate:"max=1000"`
}

type ConfirmRequest struct {
	PaymentMethod string `json:"payment_method" validate:"omitempty,oneof=card cash transfer"`
	AcceptTerms   bool   `json:"accept_terms"`
	Newsletter    bool   `json:"newsletter"`
}
