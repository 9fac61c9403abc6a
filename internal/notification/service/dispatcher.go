package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/storenow/backoffice/internal/config"
	"github.com/storenow/backoffice/internal/notification/telegram"
	"github.com/storenow/backoffice/internal/observability/metrics"
	outboxdomain "github.com/storenow/backoffice/internal/outbox/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	drainBatchSize = 50
	maxAttempts    = 5
)

type Params struct {
	fx.In

	LC        fx.Lifecycle
	DB        *gorm.DB
	Log       *zap.Logger
	Cfg       config.Config
	Templates *config.NotifyTemplatesHolder
	Outbox    outboxdomain.Repository
	Sender    telegram.Sender
	Metrics   *metrics.StoreMetrics `optional:"true"`
}

// Dispatcher drains pending outbox rows on an interval and posts them to
// the channel. Delivery failures are recorded on the row and retried on
// later passes; they never surface to the request path that wrote the
// event.
type Dispatcher struct {
	db        *gorm.DB
	log       *zap.Logger
	cfg       config.Config
	templates *config.NotifyTemplatesHolder
	outbox    outboxdomain.Repository
	sender    telegram.Sender
	metrics   *metrics.StoreMetrics

	interval time.Duration
	cancel   context.CancelFunc
	done     chan struct{}
}

func New(p Params) *Dispatcher {
	interval := time.Duration(p.Cfg.Telegram.PollInterval) * time.Second
	if interval <= 0 {
		interval = 5 * time.Second
	}

	d := &Dispatcher{
		db:        p.DB,
		log:       p.Log.Named("notification.dispatcher"),
		cfg:       p.Cfg,
		templates: p.Templates,
		outbox:    p.Outbox,
		sender:    p.Sender,
		metrics:   p.Metrics,
		interval:  interval,
		done:      make(chan struct{}),
	}

	p.LC.Append(fx.Hook{
		OnStart: func(context.Context) error {
			if !p.Cfg.Telegram.Enabled {
				d.log.Info("channel notifications disabled")
				return nil
			}
			ctx, cancel := context.WithCancel(context.Background())
			d.cancel = cancel
			go d.run(ctx)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if d.cancel == nil {
				return nil
			}
			d.cancel()
			select {
			case <-d.done:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	})

	return d
}

func (d *Dispatcher) run(ctx context.Context) {
	defer close(d.done)

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.Drain(ctx)
		}
	}
}

// Drain delivers one batch of pending events.
func (d *Dispatcher) Drain(ctx context.Context) {
	events, err := d.outbox.FindPending(ctx, d.db, drainBatchSize)
	if err != nil {
		d.log.Error("outbox fetch failed", zap.Error(err))
		return
	}

	for i := range events {
		event := &events[i]
		msg, ok := d.render(event)
		if !ok {
			// Unknown event types are dead rows, not retries.
			if err := d.outbox.MarkFailed(ctx, d.db, event.ID, "unknown event type", true); err != nil {
				d.log.Error("outbox update failed", zap.Error(err), zap.String("event_id", event.ID))
			}
			continue
		}

		if err := d.sender.Send(ctx, msg); err != nil {
			giveUp := event.Attempts+1 >= maxAttempts
			d.metrics.RecordNotificationFailed(event.EventType)
			d.log.Warn("notification delivery failed",
				zap.String("event_id", event.ID),
				zap.String("event_type", event.EventType),
				zap.Int("attempts", event.Attempts+1),
				zap.Bool("give_up", giveUp),
				zap.Error(err),
			)
			if err := d.outbox.MarkFailed(ctx, d.db, event.ID, err.Error(), giveUp); err != nil {
				d.log.Error("outbox update failed", zap.Error(err), zap.String("event_id", event.ID))
			}
			continue
		}

		d.metrics.RecordNotificationSent(event.EventType)
		if err := d.outbox.MarkSent(ctx, d.db, event.ID); err != nil {
			d.log.Error("outbox update failed", zap.Error(err), zap.String("event_id", event.ID))
		}
	}
}

func (d *Dispatcher) render(event *outboxdomain.Event) (telegram.Message, bool) {
	tpl := d.templates.Get()

	switch event.EventType {
	case outboxdomain.EventProductCreated:
		caption := substitute(tpl.ProductCaption, map[string]string{
			"name":        payloadString(event.Payload, "name"),
			"description": payloadString(event.Payload, "description"),
			"price":       payloadString(event.Payload, "price"),
			"quantity":    payloadString(event.Payload, "quantity"),
		})
		return telegram.Message{
			Text:       caption,
			PhotoURL:   d.absoluteURL(payloadString(event.Payload, "image_url")),
			ButtonText: tpl.OrderButton,
			ButtonURL:  d.deepLink(payloadString(event.Payload, "product_id")),
		}, true

	case outboxdomain.EventStockCreated:
		caption := substitute(tpl.StockCaption, map[string]string{
			"name":     payloadString(event.Payload, "name"),
			"quantity": payloadString(event.Payload, "quantity_in_stock"),
			"price":    payloadString(event.Payload, "price"),
		})
		return telegram.Message{
			Text:       caption,
			PhotoURL:   d.absoluteURL(payloadString(event.Payload, "image_url")),
			ButtonText: tpl.OrderButton,
			ButtonURL:  d.deepLink(payloadString(event.Payload, "product_id")),
		}, true

	case outboxdomain.EventOrderPaid:
		text := fmt.Sprintf(
			"<b>Order paid</b>\n%s x%s for <b>%s</b> via %s.",
			payloadString(event.Payload, "product_name"),
			payloadString(event.Payload, "quantity"),
			payloadString(event.Payload, "total_price"),
			payloadString(event.Payload, "payment_method"),
		)
		return telegram.Message{Text: text}, true
	}

	return telegram.Message{}, false
}

// deepLink points the channel button at the web-app order form.
func (d *Dispatcher) deepLink(productID string) string {
	if productID == "" {
		return ""
	}
	if base := d.cfg.Telegram.DeepLinkBase; base != "" {
		return base + "?startapp=" + productID
	}
	return d.cfg.SiteURL + "/api/webapp?product_id=" + productID
}

func (d *Dispatcher) absoluteURL(raw string) string {
	if raw == "" || strings.Contains(raw, "://") {
		return raw
	}
	return d.cfg.SiteURL + "/" + strings.TrimPrefix(raw, "/")
}

func substitute(template string, values map[string]string) string {
	pairs := make([]string, 0, len(values)*2)
	for key, value := range values {
		pairs = append(pairs, "{{"+key+"}}", value)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

func payloadString(payload map[string]any, key string) string {
	value, ok := payload[key]
	if !ok || value == nil {
		return ""
	}
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
