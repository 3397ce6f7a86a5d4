package repository

import (
	"context"
	"fmt"

	"glam-commerce/internal/data/entity"
	"glam-commerce/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type SalonServiceRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.SalonService, error)
	FindAllActive(ctx context.Context) ([]*entity.SalonService, error)
}

type salonServiceRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewSalonServiceRepository(db database.PgxIface, log *zap.Logger) SalonServiceRepository {
	return &salonServiceRepository{
		db:  db,
		log: log.With(zap.String("repository", "salon_service")),
	}
}

func (r *salonServiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.SalonService, error) {
	query := `
		SELECT id, name, description, duration_min, price, is_active, created_at, updated_at
		FROM salon_services
		WHERE id = $1
	`

	var svc entity.SalonService
	err := r.db.QueryRow(ctx, query, id).Scan(
		&svc.ID,
		&svc.Name,
		&svc.Description,
		&svc.DurationMin,
		&svc.Price,
		&svc.IsActive,
		&svc.CreatedAt,
		&svc.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find salon service by ID",
			zap.Error(err),
			zap.String("service_id", id.String()),
		)
		return nil, fmt.Errorf("find salon service by ID %s: %w", id.String(), err)
	}

	return &svc, nil
}

func (r *salonServiceRepository) FindAllActive(ctx context.Context) ([]*entity.SalonService, error) {
	query := `
		SELECT id, name, description, duration_min, price, is_active, created_at, updated_at
		FROM salon_services
		WHERE is_active = true
		ORDER BY name
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to find salon services", zap.Error(err))
		return nil, fmt.Errorf("find salon services: %w", err)
	}
	defer rows.Close()

	var services []*entity.SalonService
	for rows.Next() {
		var svc entity.SalonService
		err := rows.Scan(
			&svc.ID,
			&svc.Name,
			&svc.Description,
			&svc.DurationMin,
			&svc.Price,
			&svc.IsActive,
			&svc.CreatedAt,
			&svc.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan salon service row: %w", err)
		}
		services = append(services, &svc)
	}

	return services, nil
}
