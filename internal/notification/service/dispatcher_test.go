package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/oklog/ulid/v2"
	"github.com/storenow/backoffice/internal/config"
	"github.com/storenow/backoffice/internal/notification/telegram"
	outboxdomain "github.com/storenow/backoffice/internal/outbox/domain"
	outboxrepo "github.com/storenow/backoffice/internal/outbox/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type fakeSender struct {
	sent []telegram.Message
	err  error
}

func (f *fakeSender) Send(_ context.Context, msg telegram.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func setupDispatcher(t *testing.T, sender *fakeSender) (*Dispatcher, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&outboxdomain.Event{}))

	templates, err := config.NewNotifyTemplatesHolder()
	require.NoError(t, err)

	d := New(Params{
		LC:  fxtest.NewLifecycle(t),
		DB:  db,
		Log: zap.NewNop(),
		Cfg: config.Config{
			SiteURL: "https://shop.example.com",
			Telegram: config.TelegramConfig{
				DeepLinkBase: "https://t.me/shopbot/store",
			},
		},
		Templates: templates,
		Outbox:    outboxrepo.Provide(),
		Sender:    sender,
	})
	return d, db
}

func appendEvent(t *testing.T, db *gorm.DB, eventType string, payload datatypes.JSONMap) string {
	t.Helper()

	event := outboxdomain.Event{
		ID:        ulid.Make().String(),
		EventType: eventType,
		Payload:   payload,
		Status:    outboxdomain.StatusPending,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, db.Create(&event).Error)
	return event.ID
}

func TestDrainSendsProductCreatedWithDeepLink(t *testing.T) {
	sender := &fakeSender{}
	d, db := setupDispatcher(t, sender)

	id := appendEvent(t, db, outboxdomain.EventProductCreated, datatypes.JSONMap{
		"product_id":  "123",
		"name":        "Acme A1",
		"description": "Entry level",
		"price":       "199.99",
		"quantity":    float64(50),
		"image_url":   "uploads/a1.jpg",
	})

	d.Drain(context.Background())

	require.Len(t, sender.sent, 1)
	msg := sender.sent[0]
	assert.Contains(t, msg.Text, "Acme A1")
	assert.Contains(t, msg.Text, "199.99")
	assert.Equal(t, "https://shop.example.com/uploads/a1.jpg", msg.PhotoURL)
	assert.Equal(t, "Order Now", msg.ButtonText)
	assert.Equal(t, "https://t.me/shopbot/store?startapp=123", msg.ButtonURL)

	var stored outboxdomain.Event
	require.NoError(t, db.First(&stored, "id = ?", id).Error)
	assert.Equal(t, outboxdomain.StatusSent, stored.Status)
	assert.NotNil(t, stored.SentAt)
}

func TestDeepLinkFallsBackToWebApp(t *testing.T) {
	sender := &fakeSender{}
	d, db := setupDispatcher(t, sender)
	d.cfg.Telegram.DeepLinkBase = ""

	appendEvent(t, db, outboxdomain.EventStockCreated, datatypes.JSONMap{
		"product_id":        "123",
		"name":              "Acme A1",
		"quantity_in_stock": float64(20),
		"price":             "199.99",
	})

	d.Drain(context.Background())

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "https://shop.example.com/api/webapp?product_id=123", sender.sent[0].ButtonURL)
}

func TestDrainRendersOrderPaid(t *testing.T) {
	sender := &fakeSender{}
	d, db := setupDispatcher(t, sender)

	appendEvent(t, db, outboxdomain.EventOrderPaid, datatypes.JSONMap{
		"product_name":   "Acme A1",
		"quantity":       float64(3),
		"total_price":    "599.97",
		"payment_method": "telebirr",
	})

	d.Drain(context.Background())

	require.Len(t, sender.sent, 1)
	msg := sender.sent[0]
	assert.Contains(t, msg.Text, "Order paid")
	assert.Contains(t, msg.Text, "Acme A1 x3")
	assert.Contains(t, msg.Text, "599.97")
	assert.Contains(t, msg.Text, "telebirr")
	assert.Empty(t, msg.PhotoURL)
}

func TestDrainRetriesFailuresUntilGiveUp(t *testing.T) {
	sender := &fakeSender{err: errors.New("channel unreachable")}
	d, db := setupDispatcher(t, sender)

	id := appendEvent(t, db, outboxdomain.EventOrderPaid, datatypes.JSONMap{
		"product_name": "Acme A1",
	})

	ctx := context.Background()
	for i := 0; i < maxAttempts-1; i++ {
		d.Drain(ctx)

		var stored outboxdomain.Event
		require.NoError(t, db.First(&stored, "id = ?", id).Error)
		assert.Equal(t, outboxdomain.StatusPending, stored.Status)
		assert.Equal(t, i+1, stored.Attempts)
		require.NotNil(t, stored.LastError)
		assert.Equal(t, "channel unreachable", *stored.LastError)
	}

	d.Drain(ctx)

	var stored outboxdomain.Event
	require.NoError(t, db.First(&stored, "id = ?", id).Error)
	assert.Equal(t, outboxdomain.StatusFailed, stored.Status)
	assert.Equal(t, maxAttempts, stored.Attempts)

	// A dead row is never picked up again.
	sender.err = nil
	d.Drain(ctx)
	assert.Empty(t, sender.sent)
}

func TestDrainDeadRowsUnknownEventType(t *testing.T) {
	sender := &fakeSender{}
	d, db := setupDispatcher(t, sender)

	id := appendEvent(t, db, "order.cancelled", datatypes.JSONMap{})

	d.Drain(context.Background())

	assert.Empty(t, sender.sent)
	var stored outboxdomain.Event
	require.NoError(t, db.First(&stored, "id = ?", id).Error)
	assert.Equal(t, outboxdomain.StatusFailed, stored.Status)
}

func TestDrainDeliversOldestFirst(t *testing.T) {
	sender := &fakeSender{}
	d, db := setupDispatcher(t, sender)

	base := time.Now().UTC()
	older := outboxdomain.Event{
		ID:        ulid.Make().String(),
		EventType: outboxdomain.EventOrderPaid,
		Payload:   datatypes.JSONMap{"product_name": "first"},
		Status:    outboxdomain.StatusPending,
		CreatedAt: base.Add(-time.Minute),
	}
	newer := outboxdomain.Event{
		ID:        ulid.Make().String(),
		EventType: outboxdomain.EventOrderPaid,
		Payload:   datatypes.JSONMap{"product_name": "second"},
		Status:    outboxdomain.StatusPending,
		CreatedAt: base,
	}
	require.NoError(t, db.Create(&newer).Error)
	require.NoError(t, db.Create(&older).Error)

	d.Drain(context.Background())

	require.Len(t, sender.sent, 2)
	assert.Contains(t, sender.sent[0].Text, "first")
	assert.Contains(t, sender.sent[1].Text, "second")
}
