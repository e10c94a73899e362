package request

type RoomQuery struct {
	CheckIn  string `json:"check_in" validate:"omitempty,datetime=2006-01-02"`
	CheckOut string `json:"check_out" validate:"omitempty,datetime=2006-01-02"`
	Guests   int    `json:"guests" validate:"omitempty,min=1,max=8"`
}

// AvailableRoomQuery is RoomQuery with both dates mandatory.
type AvailableRoomQuery struct {
	CheckIn  string `json:"check_in" validate:"required,datetime=2006-01-02"`
	CheckOut string `json:"check_out" validate:"required,datetime=2006-01-02"`
	Guests   int    `json:"guests" validate:"omitempty,min=1,max=8"`
}
