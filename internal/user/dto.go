package user

import (
	"errors"
	"net/mail"
	"strings"
	"unicode/utf8"
)

const maxDisplayNameLength = 80

// CreateUserRequest represents the request body for creating a user
type CreateUserRequest struct {
	Email       string `json:"email" validate:"required,email"`
	DisplayName string `json:"displayName" validate:"required,min=1,max=80"`
}

// Validate normalizes and checks the request
func (r *CreateUserRequest) Validate() error {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.DisplayName = strings.TrimSpace(r.DisplayName)

	addr, err := mail.ParseAddress(r.Email)
	if err != nil || addr.Address != r.Email {
		return errors.New("email must be a valid address")
	}
	return validateDisplayName(r.DisplayName)
}

// UpdateUserRequest represents the request body for updating the current user
type UpdateUserRequest struct {
	DisplayName *string `json:"displayName,omitempty" validate:"omitempty,min=1,max=80"`
}

// Validate normalizes and checks the request
func (r *UpdateUserRequest) Validate() error {
	if r.DisplayName == nil {
		return nil
	}
	name := strings.TrimSpace(*r.DisplayName)
	r.DisplayName = &name
	return validateDisplayName(name)
}

func validateDisplayName(name string) error {
	if name == "" || utf8.RuneCountInString(name) > maxDisplayNameLength {
		return errors.New("displayName must be between 1 and 80 characters")
	}
	return nil
}
