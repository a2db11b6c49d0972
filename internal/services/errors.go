package services

import (
	"errors"
	"fmt"
)

var (
	ErrValidation = errors.New("invalid input")

	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")

	ErrProductNotFound  = errors.New("product not found")
	ErrNoFieldsToUpdate = errors.New("no fields to update")

	ErrCartNotFound = errors.New("cart not found")
	ErrCartEmpty    = errors.New("cart is empty")
	ErrInvalidTotal = errors.New("invalid cart total")

	ErrTransactionNotFound = errors.New("payment session not found")
	ErrPaymentProvider     = errors.New("payment provider unavailable")
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
