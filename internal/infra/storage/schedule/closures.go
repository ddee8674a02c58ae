package schedule

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/chillthrive/CT-BookingService/internal/domain"
	"github.com/chillthrive/CT-BookingService/pkg/dbmetrics"
	"github.com/chillthrive/CT-BookingService/pkg/psqlbuilder"
)

// CreateClosure создает закрытие дня
func (r *Repository) CreateClosure(ctx context.Context, closure *domain.DateClosure) (*domain.DateClosure, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("blocked_dates").
		Columns("blocked_date", "reason").
		Values(closure.Date, closure.Reason).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreateClosure - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&closure.ID, &createdAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: CreateClosure: %v", ErrDuplicate, err)
		}
		return nil, fmt.Errorf("%w: CreateClosure - execute insert: %v", ErrExecQuery, err)
	}

	closure.CreatedAt = createdAt.Time

	return closure, nil
}

// GetClosureByDate получает закрытие дня на дату, если оно есть
func (r *Repository) GetClosureByDate(ctx context.Context, date time.Time) (*domain.DateClosure, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "blocked_date", "reason", "created_at").
		From("blocked_dates").
		Where(squirrel.Eq{"blocked_date": date}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetClosureByDate - build select query: %v", ErrBuildQuery, err)
	}

	var closure domain.DateClosure
	var createdAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&closure.ID, &closure.Date, &closure.Reason, &createdAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrClosureNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetClosureByDate - scan closure: %v", ErrScanRow, err)
	}

	closure.CreatedAt = createdAt.Time

	return &closure, nil
}

// ListUpcomingClosures получает ближайшие закрытия начиная с from
// Используется операторской панелью (limit 10 как в админке)
func (r *Repository) ListUpcomingClosures(ctx context.Context, from time.Time, limit uint64) ([]*domain.DateClosure, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "blocked_date", "reason", "created_at").
		From("blocked_dates").
		Where(squirrel.GtOrEq{"blocked_date": from}).
		OrderBy("blocked_date ASC").
		Limit(limit).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListUpcomingClosures - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListUpcomingClosures - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	closures := make([]*domain.DateClosure, 0)
	for rows.Next() {
		var closure domain.DateClosure
		var createdAt sql.NullTime

		if err := rows.Scan(&closure.ID, &closure.Date, &closure.Reason, &createdAt); err != nil {
			return nil, fmt.Errorf("%w: ListUpcomingClosures - scan row: %v", ErrScanRow, err)
		}

		closure.CreatedAt = createdAt.Time
		closures = append(closures, &closure)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListUpcomingClosures - rows error: %v", ErrScanRow, err)
	}

	return closures, nil
}

// DeleteClosure удаляет закрытие дня
func (r *Repository) DeleteClosure(ctx context.Context, id uuid.UUID) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("blocked_dates").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DeleteClosure - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DeleteClosure - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DeleteClosure - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrClosureNotFound
	}

	return nil
}
