package dto

import "strings"

type GoogleLoginRequest struct {
	IDToken string `json:"idToken" validate:"required"`
}

func (r *GoogleLoginRequest) Normalize() { r.IDToken = strings.TrimSpace(r.IDToken) }

type LoginRequest struct {
	Username string `json:"username" validate:"required,max=60"`
	Password string `json:"password" validate:"required,max=72"`
}

func (r *LoginRequest) Normalize() { r.Username = strings.TrimSpace(r.Username) }

// MeResponse: User is null for anonymous callers.
type MeResponse struct {
	User *Principal `json:"user"`
}

type Principal struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role"`
}
