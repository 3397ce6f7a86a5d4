package repository

import (
	"context"
	"fmt"

	"glam-commerce/pkg/database"

	"go.uber.org/zap"
)

type CounterRepository interface {
	// Next atomically increments and returns the counter for key. Used for
	// the display sequence in order/booking numbers; counting rows to derive
	// the next number would race under concurrent creation.
	Next(ctx context.Context, key string) (int64, error)
}

type counterRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewCounterRepository(db database.PgxIface, log *zap.Logger) CounterRepository {
	return &counterRepository{
		db:  db,
		log: log.With(zap.String("repository", "counter")),
	}
}

func (r *counterRepository) Next(ctx context.Context, key string) (int64, error) {
	query := `
		INSERT INTO counters (key, value) VALUES ($1, 1)
		ON CONFLICT (key) DO UPDATE SET value = counters.value + 1
		RETURNING value
	`

	var value int64
	if err := r.db.QueryRow(ctx, query, key).Scan(&value); err != nil {
		r.log.Error("Failed to advance counter",
			zap.Error(err),
			zap.String("key", key),
		)
		return 0, fmt.Errorf("advance counter %s: %w", key, err)
	}

	return value, nil
}
