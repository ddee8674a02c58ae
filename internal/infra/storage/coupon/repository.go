// Package coupon репозиторий купонов
// Купоны управляются внешней админкой; движок бронирования только читает
package coupon

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/chillthrive/CT-BookingService/internal/domain"
	"github.com/chillthrive/CT-BookingService/pkg/dbmetrics"
	"github.com/chillthrive/CT-BookingService/pkg/psqlbuilder"
)

// DBExecutor интерфейс выполнения запросов (см. pkg/dbmetrics)
type DBExecutor = dbmetrics.DBExecutor

const couponColumns = "id, code, discount_amount, is_active, valid_from, valid_until, " +
	"service_id, auto_apply, created_at"

// Repository репозиторий купонов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория купонов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByCode получает купон по коду (без учёта регистра)
func (r *Repository) GetByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(couponColumns).
		From("coupons").
		Where(squirrel.Eq{"code": strings.ToUpper(strings.TrimSpace(code))}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByCode - build select query: %v", ErrBuildQuery, err)
	}

	c, err := scanCoupon(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrCouponNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCode - scan coupon: %v", ErrScanRow, err)
	}

	return c, nil
}

// ListAutoApply получает активные auto-apply купоны, действительные в момент now
// Сортировка по коду даёт детерминированный выбор первого подходящего
func (r *Repository) ListAutoApply(ctx context.Context, now time.Time) ([]*domain.Coupon, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(couponColumns).
		From("coupons").
		Where(squirrel.Eq{"auto_apply": true, "is_active": true}).
		Where(squirrel.Or{
			squirrel.Eq{"valid_from": nil},
			squirrel.LtOrEq{"valid_from": now},
		}).
		Where(squirrel.Or{
			squirrel.Eq{"valid_until": nil},
			squirrel.GtOrEq{"valid_until": now},
		}).
		OrderBy("code ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListAutoApply - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListAutoApply - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	coupons := make([]*domain.Coupon, 0)
	for rows.Next() {
		c, err := scanCoupon(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListAutoApply - scan row: %v", ErrScanRow, err)
		}
		coupons = append(coupons, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListAutoApply - rows error: %v", ErrScanRow, err)
	}

	return coupons, nil
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCoupon(row rowScanner) (*domain.Coupon, error) {
	var c domain.Coupon
	var serviceID uuid.NullUUID
	var validFrom, validUntil, createdAt sql.NullTime

	err := row.Scan(
		&c.ID,
		&c.Code,
		&c.DiscountAmount,
		&c.IsActive,
		&validFrom,
		&validUntil,
		&serviceID,
		&c.AutoApply,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	if serviceID.Valid {
		c.ServiceID = &serviceID.UUID
	}
	if validFrom.Valid {
		c.ValidFrom = &validFrom.Time
	}
	if validUntil.Valid {
		c.ValidUntil = &validUntil.Time
	}
	c.CreatedAt = createdAt.Time

	return &c, nil
}
