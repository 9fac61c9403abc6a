package domain

import (
	"time"

	"gorm.io/datatypes"
)

const (
	EventProductCreated = "product.created"
	EventStockCreated   = "stock.created"
	EventOrderPaid      = "order.paid"
)

const (
	StatusPending = "pending"
	StatusSent    = "sent"
	StatusFailed  = "failed"
)

// Event is an outbox row written in the same transaction as the domain
// change it announces. A background dispatcher drains pending rows, so a
// slow or failing delivery never blocks the business write.
type Event struct {
	ID          string            `json:"id" gorm:"primaryKey;type:text"`
	EventType   string            `json:"event_type" gorm:"type:text;not null;index:ix_outbox_status_type,priority:2"`
	AggregateID int64             `json:"aggregate_id" gorm:"not null"`
	Payload     datatypes.JSONMap `json:"payload,omitempty" gorm:"type:jsonb"`
	Status      string            `json:"status" gorm:"type:text;not null;default:'pending';index:ix_outbox_status_type,priority:1"`
	Attempts    int               `json:"attempts" gorm:"not null;default:0"`
	LastError   *string           `json:"last_error,omitempty" gorm:"type:text"`
	CreatedAt   time.Time         `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	SentAt      *time.Time        `json:"sent_at,omitempty"`
}

func (Event) TableName() string { return "outbox_events" }
