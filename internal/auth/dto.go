package auth

import (
	"github.com/google/uuid"
)

// SignupInput carries the registration payload.
type SignupInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Nickname string `json:"nickname" validate:"required,min=1,max=30"`
	Birthday string `json:"birthday" validate:"required,len=5"`
}

// SigninInput carries the login payload.
type SigninInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SessionDTO is returned on successful signup or signin.
type SessionDTO struct {
	UserID      uuid.UUID `json:"user_id"`
	Nickname    string    `json:"nickname"`
	AccessToken string    `json:"access_token"`
}
