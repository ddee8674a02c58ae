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
	"github.com/chillthrive/CT-BookingService/pkg/types"
)

const exceptionColumns = "id, service_id, exception_date, slot_id, is_blocked, is_added, " +
	"start_time, end_time, capacity, created_at"

// CreateException создает исключение расписания (block / modify / add)
func (r *Repository) CreateException(ctx context.Context, exc *domain.ScheduleException) (*domain.ScheduleException, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("schedule_exceptions").
		Columns(
			"service_id",
			"exception_date",
			"slot_id",
			"is_blocked",
			"is_added",
			"start_time",
			"end_time",
			"capacity",
		).
		Values(
			exc.ServiceID,
			exc.Date,
			exc.SlotID,
			exc.IsBlocked,
			exc.IsAdded,
			exc.StartTime,
			exc.EndTime,
			exc.Capacity,
		).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreateException - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&exc.ID, &createdAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: CreateException: %v", ErrDuplicate, err)
		}
		return nil, fmt.Errorf("%w: CreateException - execute insert: %v", ErrExecQuery, err)
	}

	exc.CreatedAt = createdAt.Time

	return exc, nil
}

// GetExceptionByID получает исключение по ID
func (r *Repository) GetExceptionByID(ctx context.Context, id uuid.UUID) (*domain.ScheduleException, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(exceptionColumns).
		From("schedule_exceptions").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetExceptionByID - build select query: %v", ErrBuildQuery, err)
	}

	exc, err := scanException(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrExceptionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetExceptionByID - scan exception: %v", ErrScanRow, err)
	}

	return exc, nil
}

// ListExceptionsByServiceAndDate получает все исключения сервиса на дату
func (r *Repository) ListExceptionsByServiceAndDate(ctx context.Context, serviceID uuid.UUID, date time.Time) ([]*domain.ScheduleException, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(exceptionColumns).
		From("schedule_exceptions").
		Where(squirrel.Eq{"service_id": serviceID, "exception_date": date}).
		OrderBy("start_time ASC NULLS FIRST, id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListExceptionsByServiceAndDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListExceptionsByServiceAndDate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	exceptions := make([]*domain.ScheduleException, 0)
	for rows.Next() {
		exc, err := scanException(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListExceptionsByServiceAndDate - scan row: %v", ErrScanRow, err)
		}
		exceptions = append(exceptions, exc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListExceptionsByServiceAndDate - rows error: %v", ErrScanRow, err)
	}

	return exceptions, nil
}

// UpdateExceptionCapacity обновляет ёмкость исключения
// Используется оператором для правки override-а на конкретную дату
func (r *Repository) UpdateExceptionCapacity(ctx context.Context, id uuid.UUID, capacity int) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("schedule_exceptions").
		Set("capacity", capacity).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateExceptionCapacity - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateExceptionCapacity - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateExceptionCapacity - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrExceptionNotFound
	}

	return nil
}

// DeleteException удаляет исключение
// Возвращает ErrReferenced, если на добавленный слот ссылаются бронирования
func (r *Repository) DeleteException(ctx context.Context, id uuid.UUID) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("schedule_exceptions").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DeleteException - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: DeleteException: %v", ErrReferenced, err)
		}
		return fmt.Errorf("%w: DeleteException - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DeleteException - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrExceptionNotFound
	}

	return nil
}

// DeleteExceptionsBySlotAndDate удаляет все исключения шаблона на дату
// Вызывается при изменении базовых значений шаблона ("update master"):
// дата должна чисто вернуться к наследованию нового базового значения,
// не оставляя устаревший override
func (r *Repository) DeleteExceptionsBySlotAndDate(ctx context.Context, slotID uuid.UUID, date time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("schedule_exceptions").
		Where(squirrel.Eq{"slot_id": slotID, "exception_date": date}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DeleteExceptionsBySlotAndDate - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: DeleteExceptionsBySlotAndDate: %v", ErrReferenced, err)
		}
		return fmt.Errorf("%w: DeleteExceptionsBySlotAndDate - execute delete: %v", ErrExecQuery, err)
	}

	return nil
}

func scanException(row rowScanner) (*domain.ScheduleException, error) {
	var exc domain.ScheduleException
	var slotID uuid.NullUUID
	var startTime, endTime types.TimeString
	var startValid, endValid bool
	var capacity sql.NullInt64
	var createdAt sql.NullTime

	// time колонки могут быть NULL для block-исключений
	var rawStart, rawEnd sql.NullString

	err := row.Scan(
		&exc.ID,
		&exc.ServiceID,
		&exc.Date,
		&slotID,
		&exc.IsBlocked,
		&exc.IsAdded,
		&rawStart,
		&rawEnd,
		&capacity,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	if slotID.Valid {
		exc.SlotID = &slotID.UUID
	}
	if rawStart.Valid {
		parsed, err := types.NewTimeStringFromString(rawStart.String)
		if err != nil {
			return nil, err
		}
		startTime, startValid = parsed, true
	}
	if rawEnd.Valid {
		parsed, err := types.NewTimeStringFromString(rawEnd.String)
		if err != nil {
			return nil, err
		}
		endTime, endValid = parsed, true
	}
	if startValid {
		exc.StartTime = &startTime
	}
	if endValid {
		exc.EndTime = &endTime
	}
	if capacity.Valid {
		c := int(capacity.Int64)
		exc.Capacity = &c
	}
	exc.CreatedAt = createdAt.Time

	return &exc, nil
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}
