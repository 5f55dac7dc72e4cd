package models

import (
	"errors"
	"strings"
	"time"

	"github.com/oakbank/core-ledger/internal/domain"
)

type CreateUserRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	RoleID         string `json:"roleId"`
	TransactionPin string `json:"transactionPin"`
}

func (r CreateUserRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.Name) == "" {
		errs = append(errs, "name is required")
	}
	email := strings.TrimSpace(r.Email)
	if email == "" {
		errs = append(errs, "email is required")
	} else if !strings.Contains(email, "@") {
		errs = append(errs, "email is not valid")
	}
	if strings.TrimSpace(r.RoleID) == "" {
		errs = append(errs, "roleId is required")
	}
	pin := strings.TrimSpace(r.TransactionPin)
	if len(pin) < 4 || len(pin) > 6 || !digitsOnly(pin) {
		errs = append(errs, "transactionPin must be 4 to 6 digits")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

type VerifyUserPinRequest struct {
	Pin string `json:"pin"`
}

func (r VerifyUserPinRequest) Validate() error {
	if strings.TrimSpace(r.Pin) == "" {
		return errors.New("pin is required")
	}
	return nil
}

type VerifyUserPinResponse struct {
	UserID     string `json:"userId"`
	IsValidPin bool   `json:"isValidPin"`
}

type UserResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	RoleID    string `json:"roleId"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

func NewUserResponse(user domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		RoleID:    user.RoleID,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
		UpdatedAt: user.UpdatedAt.Format(time.RFC3339),
	}
}

func NewUserResponses(users []domain.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, user := range users {
		out = append(out, NewUserResponse(user))
	}
	return out
}

func digitsOnly(value string) bool {
	for _, ch := range value {
		if ch < '0' || ch > '9' {
			return false
		}
	}
	return true
}
