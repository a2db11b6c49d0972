// Package paymenttest provides a scripted payment.Provider for tests.
package paymenttest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/payment"
)

// ValidSignature is the only signature Fake.ParseWebhook accepts.
const ValidSignature = "valid-signature"

var ErrUnavailable = errors.New("provider unavailable")

type Provider struct {
	mu       sync.Mutex
	next     int
	sessions map[string]*fakeSession

	// FailCreate and FailStatus make the next calls error out.
	FailCreate bool
	FailStatus bool

	Requests    []payment.SessionRequest
	StatusCalls int
}

type fakeSession struct {
	req    payment.SessionRequest
	status payment.SessionStatus
}

func New() *Provider {
	return &Provider{sessions: make(map[string]*fakeSession)}
}

func (p *Provider) CreateSession(ctx context.Context, req payment.SessionRequest) (*payment.Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p.FailCreate {
		return nil, ErrUnavailable
	}

	p.next++
	id := fmt.Sprintf("cs_test_%d", p.next)
	p.Requests = append(p.Requests, req)
	p.sessions[id] = &fakeSession{
		req: req,
		status: payment.SessionStatus{
			Status:        payment.SessionStatusOpen,
			PaymentStatus: payment.PaymentStatusUnpaid,
			AmountTotal:   req.AmountMinor,
			Currency:      req.Currency,
		},
	}
	return &payment.Session{ID: id, URL: "https://checkout.test/pay/" + id}, nil
}

func (p *Provider) GetStatus(ctx context.Context, sessionID string) (*payment.SessionStatus, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.StatusCalls++
	if p.FailStatus {
		return nil, ErrUnavailable
	}
	s, ok := p.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("no such session %q", sessionID)
	}
	status := s.status
	return &status, nil
}

// MarkPaid simulates the customer completing the hosted checkout.
func (p *Provider) MarkPaid(sessionID string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if s, ok := p.sessions[sessionID]; ok {
		s.status.Status = payment.SessionStatusComplete
		s.status.PaymentStatus = payment.PaymentStatusPaid
	}
}

// Request returns the create request that opened sessionID.
func (p *Provider) Request(sessionID string) payment.SessionRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sessions[sessionID].req
}

// WebhookPayload builds a body for ParseWebhook describing a completed
// checkout of sessionID.
func WebhookPayload(sessionID, paymentStatus string, amountTotal int64) []byte {
	b, _ := json.Marshal(payment.WebhookEvent{
		ID:            "evt_" + sessionID,
		Type:          "checkout.session.completed",
		SessionID:     sessionID,
		PaymentStatus: paymentStatus,
		AmountTotal:   amountTotal,
		Currency:      "usd",
	})
	return b
}

func (p *Provider) ParseWebhook(payload []byte, signature string) (*payment.WebhookEvent, error) {
	if signature != ValidSignature {
		return nil, payment.ErrInvalidSignature
	}
	var event payment.WebhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, err
	}
	return &event, nil
}
