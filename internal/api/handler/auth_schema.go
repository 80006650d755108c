package handler

import (
	"github.com/forka/forum-backend/internal/core/domain"
	"github.com/forka/forum-backend/internal/core/ports"
)

type registerRequest struct {
	Username    string `json:"username" validate:"required,min=3,max=30"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required"`
	Password2   string `json:"password2" validate:"required,eqfield=Password"`
	Bio         string `json:"bio,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
}

type registeredUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type registerResponse struct {
	Message                   string         `json:"message"`
	User                      registeredUser `json:"user"`
	EmailVerificationRequired bool           `json:"email_verification_required"`
}

type verifyEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6,numeric"`
}

type sessionResponse struct {
	Message string          `json:"message,omitempty"`
	User    *domain.User    `json:"user"`
	Tokens  ports.TokenPair `json:"tokens"`
}

type emailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type verifyResetCodeRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6,numeric"`
}

type verifyResetCodeResponse struct {
	Message string `json:"message"`
	Email   string `json:"email"`
	Code    string `json:"code"` // echoed back for the reset step
}

type resetPasswordRequest struct {
	Email        string `json:"email" validate:"required,email"`
	Code         string `json:"code" validate:"required,len=6,numeric"`
	NewPassword  string `json:"new_password" validate:"required"`
	NewPassword2 string `json:"new_password2" validate:"required,eqfield=NewPassword"`
}

type refreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

type refreshResponse struct {
	Tokens ports.TokenPair `json:"tokens"`
}

type messageResponse struct {
	Message string `json:"message"`
}
