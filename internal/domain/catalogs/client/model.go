// Package client provides the Client catalog: customers buying on account.
package client

import (
	"context"
	"strings"
	"unicode/utf8"

	"autoparts/internal/core/apperror"
	"autoparts/internal/core/entity"
	"autoparts/internal/core/types"
)

// MaxAddressLength matches cat_clients.address.
const MaxAddressLength = 255

// Client is a customer. Balance is the amount the client owes; it is
// moved only by sale items and payments, never written by catalog edits.
type Client struct {
	entity.BaseEntity

	FullName    string      `db:"full_name" json:"fullName"`
	PhoneNumber string      `db:"phone_number" json:"phoneNumber"`
	Address     string      `db:"address" json:"address,omitempty"`
	Balance     types.Money `db:"balance" json:"balance"`
}

// NewClient creates a Client with a zero balance.
func NewClient(fullName, phone string) *Client {
	return &Client{
		BaseEntity:  entity.NewBaseEntity(),
		FullName:    strings.TrimSpace(fullName),
		PhoneNumber: strings.TrimSpace(phone),
		Balance:     types.Zero(),
	}
}

// GetName returns the display name.
func (c *Client) GetName() string {
	return c.FullName
}

// Validate implements entity.Validatable interface.
func (c *Client) Validate(ctx context.Context) error {
	if strings.TrimSpace(c.FullName) == "" {
		return apperror.NewValidation("full name is required").WithDetail("field", "fullName")
	}
	if utf8.RuneCountInString(c.FullName) > 50 {
		return apperror.NewValidation("full name is too long").
			WithDetail("field", "fullName").
			WithDetail("max", 50)
	}
	if strings.TrimSpace(c.PhoneNumber) == "" {
		return apperror.NewValidation("phone number is required").WithDetail("field", "phoneNumber")
	}
	if utf8.RuneCountInString(c.PhoneNumber) > 20 {
		return apperror.NewValidation("phone number is too long").
			WithDetail("field", "phoneNumber").
			WithDetail("max", 20)
	}
	if utf8.RuneCountInString(c.Address) > MaxAddressLength {
		return apperror.NewValidation("address is too long").
			WithDetail("field", "address").
			WithDetail("max", MaxAddressLength)
	}
	return nil
}
