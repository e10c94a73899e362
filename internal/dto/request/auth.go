package request

type RegisterRequest struct {
	Name                 string `json:"name" validate:"required,min=2,max=100"`
	Email                string `json:"email" validate:"required,email"`
	Phone                string `json:"phone,omitempty" validate:"omitempty,min=10,max=20"`
	Password             string `json:"password" validate:"required,min=8"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,eqfield=Password"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateProfileRequest struct {
	Name       string `json:"name,omitempty" validate:"omitempty,max=100"`
	Surname    string `json:"surname,omitempty" validate:"omitempty,max=100"`
	SecondName string `json:"second_name,omitempty" validate:"omitempty,max=100"`
	Birthday   string `json:"birthday,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Phone      string `json:"phone,omitempty" validate:"omitempty,min=10,max=20"`
}
