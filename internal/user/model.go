package user

import (
	"time"

	"github.com/nextgig/job-board/internal/profile"
)

type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

type SignUpRq struct {
	Email           string       `json:"email" validate:"required,email,max=255"`
	Password        string       `json:"password" validate:"required,min=8,max=72"`
	ConfirmPassword string       `json:"confirm_password" validate:"required,eqfield=Password"`
	FullName        string       `json:"full_name" validate:"required,max=255"`
	Role            profile.Role `json:"role" validate:"required,oneof=candidate employer"`
	CompanyName     string       `json:"company_name" validate:"max=255"`
}

type SignInRq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
