package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// StoreMetrics exposes domain-level prometheus instruments.
type StoreMetrics struct {
	ordersCreated     prometheus.Counter
	ordersPaid        prometheus.Counter
	stockRestocks     prometheus.Counter
	purchasesAppended prometheus.Counter
	notifySent        *prometheus.CounterVec
	notifyFailed      *prometheus.CounterVec
}

// NewStoreMetrics registers the domain instruments on the default registry.
func NewStoreMetrics() *StoreMetrics {
	return newStoreMetrics(prometheus.DefaultRegisterer)
}

func newStoreMetrics(registerer prometheus.Registerer) *StoreMetrics {
	factory := promauto.With(registerer)
	return &StoreMetrics{
		ordersCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "backoffice_orders_created_total",
			Help: "Count of orders accepted by the order workflow.",
		}),
		ordersPaid: factory.NewCounter(prometheus.CounterOpts{
			Name: "backoffice_orders_paid_total",
			Help: "Count of unpaid to paid order transitions.",
		}),
		stockRestocks: factory.NewCounter(prometheus.CounterOpts{
			Name: "backoffice_stock_restocks_total",
			Help: "Count of rows touched by the bulk restock action.",
		}),
		purchasesAppended: factory.NewCounter(prometheus.CounterOpts{
			Name: "backoffice_purchases_appended_total",
			Help: "Count of purchase ledger entries appended.",
		}),
		notifySent: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "backoffice_notifications_sent_total",
			Help: "Count of channel notifications delivered by event type.",
		}, []string{"event_type"}),
		notifyFailed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "backoffice_notifications_failed_total",
			Help: "Count of channel notification delivery failures by event type.",
		}, []string{"event_type"}),
	}
}

func (m *StoreMetrics) RecordOrderCreated() {
	if m == nil {
		return
	}
	m.ordersCreated.Inc()
}

func (m *StoreMetrics) RecordOrderPaid() {
	if m == nil {
		return
	}
	m.ordersPaid.Inc()
}

func (m *StoreMetrics) RecordRestock(rows int) {
	if m == nil {
		return
	}
	m.stockRestocks.Add(float64(rows))
}

func (m *StoreMetrics) RecordPurchaseAppended() {
	if m == nil {
		return
	}
	m.purchasesAppended.Inc()
}

func (m *StoreMetrics) RecordNotificationSent(eventType string) {
	if m == nil {
		return
	}
	m.notifySent.WithLabelValues(eventType).Inc()
}

func (m *StoreMetrics) RecordNotificationFailed(eventType string) {
	if m == nil {
		return
	}
	m.notifyFailed.WithLabelValues(eventType).Inc()
}
