package repository

import (
	"context"
	"time"

	"github.com/storenow/backoffice/internal/outbox/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Append(ctx context.Context, db *gorm.DB, event *domain.Event) error {
	return db.WithContext(ctx).Create(event).Error
}

func (r *repo) FindPending(ctx context.Context, db *gorm.DB, limit int) ([]domain.Event, error) {
	if limit <= 0 {
		limit = 50
	}
	var events []domain.Event
	err := db.WithContext(ctx).
		Where("status = ?", domain.StatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (r *repo) MarkSent(ctx context.Context, db *gorm.DB, id string) error {
	now := time.Now().UTC()
	return db.WithContext(ctx).
		Model(&domain.Event{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":  domain.StatusSent,
			"sent_at": now,
		}).Error
}

func (r *repo) MarkFailed(ctx context.Context, db *gorm.DB, id string, cause string, giveUp bool) error {
	status := domain.StatusPending
	if giveUp {
		status = domain.StatusFailed
	}
	return db.WithContext(ctx).
		Model(&domain.Event{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     status,
			"attempts":   gorm.Expr("attempts + 1"),
			"last_error": cause,
		}).Error
}
