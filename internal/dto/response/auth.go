package response

import (
	"time"

	"hostel-booking/pkg/hostelapi"
)

type AuthResponse struct {
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expires_at"`
	User      *UserResponse `json:"user,omitempty"`
}

type UserResponse struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	Surname          string `json:"surname"`
	SecondName       string `json:"second_name"`
	Email            string `json:"email"`
	Birthday         string `json:"birthday"`
	Phone            string `json:"phone"`
	PassportSeries   string `json:"passport_series"`
	PassportNumber   string `json:"passport_number"`
	PassportIssuedAt string `json:"passport_issued_at"`
	PassportIssuedBy string `json:"passport_issued_by"`
}

func UserToResponse(u *hostelapi.User) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{
		ID:               int64(u.ID),
		Name:             u.Name,
		Surname:          u.Surname,
		SecondName:       u.SecondName,
		Email:            u.Email,
		Birthday:         u.Birthday,
		Phone:            u.Phone,
		PassportSeries:   u.PassportSeries,
		PassportNumber:   u.PassportNumber,
		PassportIssuedAt: u.PassportIssuedAt,
		PassportIssuedBy: u.PassportIssuedBy,
	}
}
