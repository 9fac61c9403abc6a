package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Append(ctx context.Context, db *gorm.DB, event *Event) error
	FindPending(ctx context.Context, db *gorm.DB, limit int) ([]Event, error)
	MarkSent(ctx context.Context, db *gorm.DB, id string) error
	MarkFailed(ctx context.Context, db *gorm.DB, id string, cause string, giveUp bool) error
}
