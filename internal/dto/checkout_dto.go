package dto

type CreateSessionRequest struct {
	OriginURL string `json:"origin_url"`
}

type CheckoutSessionResponse struct {
	URL       string `json:"url"`
	SessionID string `json:"session_id"`
}

// CheckoutStatusResponse echoes the provider's view of the session.
// AmountTotal is in minor units.
type CheckoutStatusResponse struct {
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
	AmountTotal   int64  `json:"amount_total"`
	Currency      string `json:"currency"`
}

type WebhookAck struct {
	Received bool `json:"received"`
}
