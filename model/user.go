package model

import (
	"errors"
	"strings"
)

type User struct {
	Id          int       `json:"id"`
	Email       string    `json:"email"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Phone       string    `json:"phone,omitempty"`
	DateOfBirth string    `json:"date_of_birth,omitempty"`
	CreatedAt   Timestamp `json:"created_at"`
}

func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

type UserRegister struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Phone       string `json:"phone,omitempty"`
	DateOfBirth string `json:"date_of_birth,omitempty"`
}

// Validate checks the sign-up form. confirmPassword must match Password.
func (r UserRegister) Validate(confirmPassword string) error {
	if r.Password != confirmPassword {
		return &ValidationError{Field: "confirm_password", Message: "Passwords do not match"}
	}
	if strings.TrimSpace(r.Email) == "" || r.Password == "" ||
		strings.TrimSpace(r.FirstName) == "" || strings.TrimSpace(r.LastName) == "" {
		return &ValidationError{Message: "Please fill in all required fields"}
	}
	return nil
}

type UserLogin struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (l UserLogin) Validate() error {
	if strings.TrimSpace(l.Email) == "" || l.Password == "" {
		return &ValidationError{Message: "Email and password are required"}
	}
	return nil
}

// UserUpdate is a profile patch; empty fields are omitted.
type UserUpdate struct {
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`
	Phone       string `json:"phone,omitempty"`
	DateOfBirth string `json:"date_of_birth,omitempty"`
}

func (u UserUpdate) IsEmpty() bool {
	return u == UserUpdate{}
}

type AuthResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        User   `json:"user"`
}

// ValidationError is a local form failure detected before any request.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "validation error"
	}
	return e.Message
}

func IsValidationError(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}
