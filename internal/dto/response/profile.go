package response

type BookingResponse struct {
	ID           int64    `json:"id"`
	RoomID       int64    `json:"room_id"`
	RoomName     string   `json:"room_name"`
	CheckInDate  string   `json:"check_in_date"`
	CheckOutDate string   `json:"check_out_date"`
	Status       string   `json:"status"`
	StatusLabel  string   `json:"status_label"`
	TotalPrice   float64  `json:"total_price"`
	Expired      bool     `json:"expired"`
	Actions      []string `json:"actions"`
}

type ProfileResponse struct {
	User     *UserResponse     `json:"user"`
	Tab      string            `json:"tab"`
	Bookings []BookingResponse `json:"bookings"`
}
