package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/events"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/payment"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const listenerTimeout = 30 * time.Second

var hundred = decimal.NewFromInt(100)

// CheckoutService turns a cart into a hosted payment session and, once the
// provider reports the session paid, into exactly one confirmed order.
type CheckoutService struct {
	db        *gorm.DB
	cfg       *config.Config
	provider  payment.Provider
	listeners []events.OrderListener

	wg sync.WaitGroup
}

func NewCheckoutService(db *gorm.DB, cfg *config.Config, provider payment.Provider, listeners ...events.OrderListener) *CheckoutService {
	return &CheckoutService{db: db, cfg: cfg, provider: provider, listeners: listeners}
}

// CreateSession prices the cart from the current catalog and opens a
// provider session for it. The local transaction row is written only after
// the provider accepted the session.
func (s *CheckoutService) CreateSession(ctx context.Context, user *models.User, req *dto.CreateSessionRequest) (*dto.CheckoutSessionResponse, error) {
	var cart models.Cart
	if err := s.db.WithContext(ctx).Where("user_id = ?", user.ID).First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartEmpty
		}
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if len(cart.Items) == 0 {
		return nil, ErrCartEmpty
	}

	total, err := s.cartTotal(ctx, cart.Items)
	if err != nil {
		return nil, err
	}
	if !total.IsPositive() {
		return nil, ErrInvalidTotal
	}

	origin := s.cfg.FrontendURL
	if s.cfg.AllowedOrigin(req.OriginURL) {
		origin = strings.TrimRight(strings.TrimSpace(req.OriginURL), "/")
	}

	pctx, cancel := s.providerContext(ctx)
	defer cancel()

	session, err := s.provider.CreateSession(pctx, payment.SessionRequest{
		AmountMinor: total.Mul(hundred).Round(0).IntPart(),
		Currency:    s.cfg.PaymentCurrency,
		SuccessURL:  origin + "/checkout/success?session_id=" + payment.SessionIDPlaceholder,
		CancelURL:   origin + "/cart",
		Metadata: map[string]string{
			"user_id": user.ID.String(),
			"cart_id": cart.ID.String(),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPaymentProvider, err)
	}

	txn := models.PaymentTransaction{
		ID:            uuid.New(),
		SessionID:     session.ID,
		UserID:        user.ID,
		Amount:        total.Round(2),
		Currency:      s.cfg.PaymentCurrency,
		Status:        models.TransactionStatusPending,
		PaymentStatus: models.PaymentStatusInitiated,
		Metadata:      datatypes.NewJSONType(models.TransactionMetadata{CartID: cart.ID}),
	}
	if err := s.db.WithContext(ctx).Create(&txn).Error; err != nil {
		return nil, fmt.Errorf("failed to record payment transaction: %w", err)
	}

	slog.Info("checkout session created",
		"session_id", session.ID,
		"user_id", user.ID.String(),
		"amount", txn.Amount.StringFixed(2),
	)

	return &dto.CheckoutSessionResponse{URL: session.URL, SessionID: session.ID}, nil
}

// CheckStatus asks the provider about one of the caller's sessions and
// confirms the order when it reports paid. Safe to poll repeatedly.
func (s *CheckoutService) CheckStatus(ctx context.Context, user *models.User, sessionID string) (*dto.CheckoutStatusResponse, error) {
	var txn models.PaymentTransaction
	err := s.db.WithContext(ctx).
		Where("session_id = ? AND user_id = ?", sessionID, user.ID).
		First(&txn).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to load payment transaction: %w", err)
	}

	pctx, cancel := s.providerContext(ctx)
	defer cancel()

	status, err := s.provider.GetStatus(pctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPaymentProvider, err)
	}

	if status.PaymentStatus == payment.PaymentStatusPaid {
		if _, err := s.confirmPayment(ctx, sessionID, status.AmountTotal); err != nil {
			return nil, err
		}
	}

	return &dto.CheckoutStatusResponse{
		Status:        status.Status,
		PaymentStatus: status.PaymentStatus,
		AmountTotal:   status.AmountTotal,
		Currency:      status.Currency,
	}, nil
}

// HandleWebhook verifies a provider event and confirms the order for paid
// checkout sessions. Events for unknown sessions are ignored.
func (s *CheckoutService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := s.provider.ParseWebhook(payload, signature)
	if err != nil {
		return err
	}

	slog.Info("payment webhook received",
		"event_id", event.ID,
		"type", event.Type,
		"session_id", event.SessionID,
		"payment_status", event.PaymentStatus,
	)

	if event.SessionID == "" || event.PaymentStatus != payment.PaymentStatusPaid {
		return nil
	}

	_, err = s.confirmPayment(ctx, event.SessionID, event.AmountTotal)
	return err
}

// confirmPayment moves the transaction to paid and materializes its order.
// The conditional update admits exactly one caller per session; everyone
// else gets (nil, nil).
func (s *CheckoutService) confirmPayment(ctx context.Context, sessionID string, amountTotal int64) (*models.Order, error) {
	var (
		order *models.Order
		owner models.User
	)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.PaymentTransaction{}).
			Where("session_id = ? AND payment_status <> ?", sessionID, models.PaymentStatusPaid).
			Updates(map[string]interface{}{
				"status":         models.TransactionStatusComplete,
				"payment_status": models.PaymentStatusPaid,
				"updated_at":     time.Now(),
			})
		if res.Error != nil {
			return fmt.Errorf("failed to mark transaction paid: %w", res.Error)
		}
		if res.RowsAffected != 1 {
			return nil
		}

		var txn models.PaymentTransaction
		if err := tx.Where("session_id = ?", sessionID).First(&txn).Error; err != nil {
			return fmt.Errorf("failed to reload payment transaction: %w", err)
		}

		items := datatypes.JSONSlice[models.CartItem]{}
		var cart models.Cart
		err := tx.Where("user_id = ?", txn.UserID).First(&cart).Error
		switch {
		case err == nil:
			items = cart.Items
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return fmt.Errorf("failed to load cart: %w", err)
		}

		order = &models.Order{
			ID:               uuid.New(),
			UserID:           txn.UserID,
			Items:            items,
			Total:            decimal.New(amountTotal, -2),
			Status:           models.OrderStatusConfirmed,
			PaymentSessionID: sessionID,
		}
		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		if cart.ID != uuid.Nil {
			if err := saveItems(tx, &cart, []models.CartItem{}); err != nil {
				return err
			}
		}

		if err := tx.Where("id = ?", txn.UserID).First(&owner).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to load order owner: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, nil
	}

	slog.Info("order confirmed",
		"order_id", order.ID.String(),
		"user_id", order.UserID.String(),
		"session_id", sessionID,
		"total", order.Total.StringFixed(2),
	)

	s.notify(ctx, events.NewOrderConfirmed(order, &owner))
	return order, nil
}

func (s *CheckoutService) notify(ctx context.Context, ev events.OrderConfirmed) {
	if len(s.listeners) == 0 {
		return
	}

	ctx = context.WithoutCancel(ctx)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for _, l := range s.listeners {
			lctx, cancel := context.WithTimeout(ctx, listenerTimeout)
			if err := l.OrderConfirmed(lctx, ev); err != nil {
				slog.Error("order listener failed",
					"listener", l.Name(),
					"order_id", ev.OrderID.String(),
					"error", err.Error(),
				)
			}
			cancel()
		}
	}()
}

// Wait blocks until in-flight order notifications have finished.
func (s *CheckoutService) Wait() {
	s.wg.Wait()
}

func (s *CheckoutService) cartTotal(ctx context.Context, items []models.CartItem) (decimal.Decimal, error) {
	products, err := productsByID(ctx, s.db, items)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, item := range items {
		product, ok := products[item.ProductID]
		if !ok || item.Quantity < 1 {
			continue
		}
		total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total, nil
}

func (s *CheckoutService) providerContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.PaymentTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.cfg.PaymentTimeout)
}
