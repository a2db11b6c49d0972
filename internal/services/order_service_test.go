package services

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func createOrder(t *testing.T, db *gorm.DB, user *models.User, total string, at time.Time) *models.Order {
	t.Helper()
	order := &models.Order{
		ID:     uuid.New(),
		UserID: user.ID,
		Items: datatypes.JSONSlice[models.CartItem]{
			{ProductID: uuid.New(), Quantity: 2, Size: "9", Color: "Black"},
		},
		Total:            decimal.RequireFromString(total),
		Status:           models.OrderStatusConfirmed,
		PaymentSessionID: "cs_" + uuid.NewString(),
		CreatedAt:        at,
	}
	require.NoError(t, db.Create(order).Error)
	return order
}

func TestOrderListForUser(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewOrderService(db)
	jane := createUser(t, db, "jane@example.com", models.RoleUser)
	bob := createUser(t, db, "bob@example.com", models.RoleUser)
	now := time.Now()

	older := createOrder(t, db, jane, "10.00", now.Add(-time.Hour))
	newer := createOrder(t, db, jane, "20.00", now)
	createOrder(t, db, bob, "30.00", now)

	orders, err := svc.ListForUser(context.Background(), jane)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, newer.ID, orders[0].ID)
	assert.Equal(t, older.ID, orders[1].ID)

	all, err := svc.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestOrderExportAll(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewOrderService(db)
	jane := createUser(t, db, "jane@example.com", models.RoleUser)
	order := createOrder(t, db, jane, "39.98", time.Now())

	var buf bytes.Buffer
	require.NoError(t, svc.ExportAll(context.Background(), &buf))

	file, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, file.Sheets, 1)

	sheet := file.Sheets[0]
	assert.Equal(t, "Orders", sheet.Name)
	require.Len(t, sheet.Rows, 2)
	assert.Equal(t, "ID", sheet.Rows[0].Cells[0].Value)

	row := sheet.Rows[1]
	assert.Equal(t, order.ID.String(), row.Cells[0].Value)
	assert.Equal(t, "jane@example.com", row.Cells[2].Value)
	assert.Equal(t, "39.98", row.Cells[5].Value)
}
