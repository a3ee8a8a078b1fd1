package dto

import (
	"strings"
)

// UserRequest is shared by create and partial update. An empty string clears
// an optional field. The national ID is write-only.
type UserRequest struct {
	Name     *string `json:"name" validate:"omitempty,max=120"`
	Email    *string `json:"email" validate:"omitempty,email,max=255"`
	Username *string `json:"username" validate:"omitempty,min=3,max=60"`
	Password *string `json:"password" validate:"omitempty,min=6,max=72"`
	Role     *string `json:"role" validate:"omitempty,oneof=admin manager attendee"`
	Group    *string `json:"group" validate:"omitempty,max=120"`
	CCCD     *string `json:"cccd"`
	Status   *string `json:"status" validate:"omitempty,oneof=active disabled"`
}

func (r *UserRequest) Normalize() {
	for _, p := range []*string{r.Name, r.Email, r.Username, r.Group, r.CCCD} {
		if p != nil {
			*p = strings.TrimSpace(*p)
		}
	}
	if r.Role != nil {
		*r.Role = strings.ToLower(strings.TrimSpace(*r.Role))
	}
	if r.Status != nil {
		*r.Status = strings.ToLower(strings.TrimSpace(*r.Status))
	}
}
