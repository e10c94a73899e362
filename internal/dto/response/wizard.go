package response

import "hostel-booking/internal/wizard"

type WizardResponse struct {
	ID string `json:"id"`
	wizard.State
}

type PrefillResponse struct {
	Applied bool `json:"applied"`
	WizardResponse
}

type ConfirmResponse struct {
	BookingID  int64   `json:"booking_id"`
	Status     string  `json:"status"`
	TotalPrice float64 `json:"total_price"`
	Redirect   string  `json:"redirect"`
}
