package schedule

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/chillthrive/CT-BookingService/internal/domain"
	"github.com/chillthrive/CT-BookingService/pkg/dbmetrics"
	"github.com/chillthrive/CT-BookingService/pkg/psqlbuilder"
	"github.com/chillthrive/CT-BookingService/pkg/types"
)

const (
	// Коды ошибок Postgres
	pqForeignKeyViolation = "23503"
	pqUniqueViolation     = "23505"
)

// Repository репозиторий расписания: шаблоны слотов, исключения и закрытия дней
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписания
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// CreateTemplate создает шаблон слота
func (r *Repository) CreateTemplate(ctx context.Context, tpl *domain.SlotTemplate) (*domain.SlotTemplate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("slot_timings").
		Columns("service_id", "start_time", "end_time", "capacity").
		Values(tpl.ServiceID, tpl.StartTime, tpl.EndTime, tpl.Capacity).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreateTemplate - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&tpl.ID, &createdAt, &updatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: CreateTemplate: %v", ErrDuplicate, err)
		}
		return nil, fmt.Errorf("%w: CreateTemplate - execute insert: %v", ErrExecQuery, err)
	}

	tpl.CreatedAt = createdAt.Time
	tpl.UpdatedAt = updatedAt.Time

	return tpl, nil
}

// GetTemplateByID получает шаблон слота по ID
func (r *Repository) GetTemplateByID(ctx context.Context, id uuid.UUID) (*domain.SlotTemplate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id", "service_id", "start_time", "end_time", "capacity", "created_at", "updated_at",
	).
		From("slot_timings").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetTemplateByID - build select query: %v", ErrBuildQuery, err)
	}

	var tpl domain.SlotTemplate
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&tpl.ID, &tpl.ServiceID, &tpl.StartTime, &tpl.EndTime, &tpl.Capacity,
		&createdAt, &updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrTemplateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetTemplateByID - scan template: %v", ErrScanRow, err)
	}

	tpl.CreatedAt = createdAt.Time
	tpl.UpdatedAt = updatedAt.Time

	return &tpl, nil
}

// ListTemplatesByService получает все шаблоны слотов сервиса,
// отсортированные по времени начала
func (r *Repository) ListTemplatesByService(ctx context.Context, serviceID uuid.UUID) ([]*domain.SlotTemplate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id", "service_id", "start_time", "end_time", "capacity", "created_at", "updated_at",
	).
		From("slot_timings").
		Where(squirrel.Eq{"service_id": serviceID}).
		OrderBy("start_time ASC, id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListTemplatesByService - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListTemplatesByService - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	templates := make([]*domain.SlotTemplate, 0)
	for rows.Next() {
		var tpl domain.SlotTemplate
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&tpl.ID, &tpl.ServiceID, &tpl.StartTime, &tpl.EndTime, &tpl.Capacity,
			&createdAt, &updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: ListTemplatesByService - scan row: %v", ErrScanRow, err)
		}

		tpl.CreatedAt = createdAt.Time
		tpl.UpdatedAt = updatedAt.Time
		templates = append(templates, &tpl)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListTemplatesByService - rows error: %v", ErrScanRow, err)
	}

	return templates, nil
}

// TemplateUpdate изменяемые поля шаблона слота (nil = не менять)
type TemplateUpdate struct {
	StartTime *types.TimeString
	EndTime   *types.TimeString
	Capacity  *int
}

// UpdateTemplate обновляет базовые значения шаблона слота
func (r *Repository) UpdateTemplate(ctx context.Context, id uuid.UUID, upd TemplateUpdate) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("slot_timings").
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id})

	if upd.StartTime != nil {
		updateBuilder = updateBuilder.Set("start_time", *upd.StartTime)
	}
	if upd.EndTime != nil {
		updateBuilder = updateBuilder.Set("end_time", *upd.EndTime)
	}
	if upd.Capacity != nil {
		updateBuilder = updateBuilder.Set("capacity", *upd.Capacity)
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateTemplate - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateTemplate - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateTemplate - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrTemplateNotFound
	}

	return nil
}

// DeleteTemplate удаляет шаблон слота
// Возвращает ErrReferenced, если на шаблон ссылаются бронирования (прошлые
// или будущие) - в этом случае оператору следует блокировать даты, а не удалять
func (r *Repository) DeleteTemplate(ctx context.Context, id uuid.UUID) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("slot_timings").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DeleteTemplate - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: DeleteTemplate: %v", ErrReferenced, err)
		}
		return fmt.Errorf("%w: DeleteTemplate - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DeleteTemplate - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrTemplateNotFound
	}

	return nil
}

func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pqForeignKeyViolation
	}
	return false
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pqUniqueViolation
	}
	return false
}
