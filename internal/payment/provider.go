// Package payment wraps the hosted checkout provider behind a small contract
// so the checkout flow does not depend on a specific SDK.
package payment

import (
	"context"
	"errors"
)

const (
	SessionStatusOpen     = "open"
	SessionStatusComplete = "complete"
	SessionStatusExpired  = "expired"

	PaymentStatusPaid   = "paid"
	PaymentStatusUnpaid = "unpaid"
)

// SessionIDPlaceholder is substituted by the provider with the real session
// id when redirecting to the success URL.
const SessionIDPlaceholder = "{CHECKOUT_SESSION_ID}"

var ErrInvalidSignature = errors.New("webhook signature verification failed")

type SessionRequest struct {
	// AmountMinor is the charge in minor currency units (cents).
	AmountMinor int64
	Currency    string
	SuccessURL  string
	CancelURL   string
	Metadata    map[string]string
}

type Session struct {
	ID  string
	URL string
}

type SessionStatus struct {
	Status        string
	PaymentStatus string
	AmountTotal   int64
	Currency      string
}

// WebhookEvent is the subset of a verified provider event the checkout flow
// acts on.
type WebhookEvent struct {
	ID            string
	Type          string
	SessionID     string
	PaymentStatus string
	AmountTotal   int64
	Currency      string
	Metadata      map[string]string
}

type Provider interface {
	CreateSession(ctx context.Context, req SessionRequest) (*Session, error)
	GetStatus(ctx context.Context, sessionID string) (*SessionStatus, error)
	// ParseWebhook verifies the signature and decodes the event. It returns
	// ErrInvalidSignature (wrapped) for unverifiable payloads.
	ParseWebhook(payload []byte, signature string) (*WebhookEvent, error)
}
