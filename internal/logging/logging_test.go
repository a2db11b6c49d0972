package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPGHandlerStoresErrorsOnly(t *testing.T) {
	db := testutil.NewDB(t)
	h := NewPGHandler(db)
	defer h.Stop()

	logger := slog.New(h).With("request_id", "req-1")
	logger.Info("checkout session created", "session_id", "cs_1")
	logger.Error("order listener failed",
		"user_id", "u-1",
		"action", "order.confirmed",
		"error", "broker down",
		"listener", "kafka",
	)
	h.Flush()

	var logs []models.SystemLog
	require.NoError(t, db.Find(&logs).Error)
	require.Len(t, logs, 1)

	entry := logs[0]
	assert.Equal(t, "ERROR", entry.Level)
	assert.Equal(t, "order listener failed", entry.Message)
	assert.Equal(t, "req-1", entry.TraceID)
	require.NotNil(t, entry.UserID)
	assert.Equal(t, "u-1", *entry.UserID)
	assert.Equal(t, "order.confirmed", entry.Action)
	assert.Equal(t, "broker down", entry.Error)

	var extra map[string]interface{}
	require.NoError(t, json.Unmarshal(entry.Extra, &extra))
	assert.Equal(t, "kafka", extra["listener"])
}

func TestMultiHandlerFansOut(t *testing.T) {
	var a, b bytes.Buffer
	logger := slog.New(NewMultiHandler(NewJSONHandler(&a), NewJSONHandler(&b)))

	logger.Info("hello", "k", "v")

	assert.Contains(t, a.String(), `"msg":"hello"`)
	assert.Contains(t, b.String(), `"k":"v"`)

	errorsOnly := slog.NewJSONHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelError})
	assert.False(t, NewMultiHandler(errorsOnly).Enabled(context.Background(), slog.LevelInfo))
}

func TestPurgeBefore(t *testing.T) {
	db := testutil.NewDB(t)
	now := time.Now()
	old := models.SystemLog{ID: uuid.New(), Timestamp: now.AddDate(0, 0, -40), Level: "ERROR", Message: "old"}
	fresh := models.SystemLog{ID: uuid.New(), Timestamp: now, Level: "ERROR", Message: "fresh"}
	require.NoError(t, db.Create(&old).Error)
	require.NoError(t, db.Create(&fresh).Error)

	deleted, err := PurgeBefore(db, now.AddDate(0, 0, -30))
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)

	var remaining []models.SystemLog
	require.NoError(t, db.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, "fresh", remaining[0].Message)
}

type failingHandler struct{ slog.Handler }

func (failingHandler) Handle(context.Context, slog.Record) error { return assert.AnError }

func TestMultiHandlerKeepsGoingAfterFailure(t *testing.T) {
	var out bytes.Buffer
	failing := failingHandler{NewJSONHandler(&bytes.Buffer{})}
	h := NewMultiHandler(failing, NewJSONHandler(&out))

	record := slog.NewRecord(time.Now(), slog.LevelError, "payment provider call failed", 0)
	err := h.Handle(context.Background(), record)

	assert.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, out.String(), "payment provider call failed")
}
