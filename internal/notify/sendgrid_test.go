package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/events"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/models"
	"github.com/google/uuid"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMailer(sent *[]*mail.SGMailV3, err error) *ReceiptMailer {
	return &ReceiptMailer{
		from: "orders@shoehaven.com",
		send: func(_ context.Context, msg *mail.SGMailV3) error {
			if err != nil {
				return err
			}
			*sent = append(*sent, msg)
			return nil
		},
	}
}

func TestReceiptMailerSendsReceipt(t *testing.T) {
	var sent []*mail.SGMailV3
	m := testMailer(&sent, nil)

	ev := events.OrderConfirmed{
		OrderID: uuid.New(),
		Email:   "jane@example.com",
		Name:    "Jane",
		Items:   []models.CartItem{{ProductID: uuid.New(), Quantity: 2, Size: "9", Color: "Black"}},
		Total:   decimal.RequireFromString("970"),
	}
	require.NoError(t, m.OrderConfirmed(context.Background(), ev))
	require.Len(t, sent, 1)

	msg := sent[0]
	assert.Contains(t, msg.Subject, "order confirmed")
	assert.Equal(t, "jane@example.com", msg.Personalizations[0].To[0].Address)
	assert.Contains(t, msg.Content[0].Value, "Total paid: 970.00")
	assert.Contains(t, msg.Content[0].Value, "Hi Jane")
}

func TestReceiptMailerRequiresEmail(t *testing.T) {
	var sent []*mail.SGMailV3
	m := testMailer(&sent, nil)

	err := m.OrderConfirmed(context.Background(), events.OrderConfirmed{OrderID: uuid.New()})
	require.Error(t, err)
	assert.Empty(t, sent)
}

func TestReceiptMailerPropagatesSendError(t *testing.T) {
	var sent []*mail.SGMailV3
	m := testMailer(&sent, errors.New("quota exceeded"))

	err := m.OrderConfirmed(context.Background(), events.OrderConfirmed{OrderID: uuid.New(), Email: "a@b.co"})
	assert.ErrorContains(t, err, "quota exceeded")
}

func TestReceiptEscapesCustomerNameInHTML(t *testing.T) {
	m := testMailer(new([]*mail.SGMailV3), nil)

	msg := m.receipt(events.OrderConfirmed{
		OrderID: uuid.New(),
		Email:   "jane@example.com",
		Name:    `<a href="https://evil.example">Claim refund</a>`,
		Total:   decimal.NewFromInt(10),
	})

	var htmlBody string
	for _, c := range msg.Content {
		if c.Type == "text/html" {
			htmlBody = c.Value
		}
	}
	require.NotEmpty(t, htmlBody)
	assert.NotContains(t, htmlBody, "<a href")
	assert.Contains(t, htmlBody, "&lt;a href=&#34;https://evil.example&#34;&gt;")
}
