// Package service репозиторий каталога услуг
// Каталог управляется внешней админкой; движок бронирования только читает
package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/chillthrive/CT-BookingService/internal/domain"
	"github.com/chillthrive/CT-BookingService/pkg/dbmetrics"
	"github.com/chillthrive/CT-BookingService/pkg/psqlbuilder"
)

// DBExecutor интерфейс выполнения запросов (см. pkg/dbmetrics)
type DBExecutor = dbmetrics.DBExecutor

// Repository репозиторий каталога услуг
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория услуг
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает услугу вместе с её ценовыми тарифами
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "slug", "title", "is_active", "created_at").
		From("services").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var svc domain.Service
	var createdAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&svc.ID, &svc.Slug, &svc.Title, &svc.IsActive, &createdAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan service: %v", ErrScanRow, err)
	}

	svc.CreatedAt = createdAt.Time

	prices, err := r.listPrices(ctx, executor, id)
	if err != nil {
		return nil, err
	}
	svc.Prices = prices

	return &svc, nil
}

func (r *Repository) listPrices(ctx context.Context, executor DBExecutor, serviceID uuid.UUID) ([]domain.PriceTier, error) {
	query, args, err := psqlbuilder.Select("duration_minutes", "price").
		From("service_prices").
		Where(squirrel.Eq{"service_id": serviceID}).
		OrderBy("duration_minutes ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: listPrices - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: listPrices - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	prices := make([]domain.PriceTier, 0)
	for rows.Next() {
		var tier domain.PriceTier
		if err := rows.Scan(&tier.DurationMinutes, &tier.Price); err != nil {
			return nil, fmt.Errorf("%w: listPrices - scan row: %v", ErrScanRow, err)
		}
		prices = append(prices, tier)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: listPrices - rows error: %v", ErrScanRow, err)
	}

	return prices, nil
}
