package users

import "foodgram/internal/domain"

const (
	DefaultPageSize = 6
	MaxPageSize     = 100
)

type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email,max=254"`
	Username  string `json:"username" validate:"required,max=150,username"`
	FirstName string `json:"first_name" validate:"required,max=150"`
	LastName  string `json:"last_name" validate:"required,max=150"`
	Password  string `json:"password" validate:"required,min=8,max=150"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type TokenResponse struct {
	AuthToken string `json:"auth_token"`
}

type UsersPage struct {
	Count   int64                `json:"count"`
	Page    int                  `json:"page"`
	Limit   int                  `json:"limit"`
	Results []domain.UserProfile `json:"results"`
}
