// Package notify sends customer-facing order receipts.
package notify

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"strings"

	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/events"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

const storeName = "Shoe Haven"

// ReceiptMailer emails an order receipt when an order is confirmed.
type ReceiptMailer struct {
	from string
	send func(ctx context.Context, msg *mail.SGMailV3) error
}

func NewReceiptMailer(apiKey, from string) *ReceiptMailer {
	client := sendgrid.NewSendClient(apiKey)
	return &ReceiptMailer{
		from: from,
		send: func(ctx context.Context, msg *mail.SGMailV3) error {
			resp, err := client.SendWithContext(ctx, msg)
			if err != nil {
				return fmt.Errorf("sendgrid send error: %w", err)
			}
			if resp.StatusCode >= 400 {
				return fmt.Errorf("sendgrid send failed: status=%d body=%s", resp.StatusCode, resp.Body)
			}
			return nil
		},
	}
}

func (m *ReceiptMailer) Name() string { return "sendgrid" }

func (m *ReceiptMailer) OrderConfirmed(ctx context.Context, ev events.OrderConfirmed) error {
	if ev.Email == "" {
		return fmt.Errorf("order %s has no customer email", ev.OrderID)
	}

	if err := m.send(ctx, m.receipt(ev)); err != nil {
		return err
	}
	slog.Info("order receipt sent", "order_id", ev.OrderID.String(), "to", ev.Email)
	return nil
}

func (m *ReceiptMailer) receipt(ev events.OrderConfirmed) *mail.SGMailV3 {
	subject := fmt.Sprintf("%s order confirmed #%s", storeName, shortID(ev.OrderID.String()))

	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\nThanks for your order.\n\n", greetingName(ev.Name))
	for _, item := range ev.Items {
		fmt.Fprintf(&b, "- %d x %s (size %s, %s)\n", item.Quantity, item.ProductID, item.Size, item.Color)
	}
	fmt.Fprintf(&b, "\nTotal paid: %s\n", ev.Total.StringFixed(2))
	body := b.String()

	return mail.NewSingleEmail(
		mail.NewEmail(storeName, m.from),
		subject,
		mail.NewEmail(ev.Name, ev.Email),
		body,
		"<pre>"+html.EscapeString(body)+"</pre>",
	)
}

func greetingName(name string) string {
	if name == "" {
		return "there"
	}
	return name
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
