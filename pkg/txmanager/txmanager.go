// Package txmanager управление сериализуемыми транзакциями поверх dbmetrics.DB
package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/chillthrive/CT-BookingService/pkg/dbmetrics"
)

const (
	// pqSerializationFailure код Postgres для конфликта сериализации
	pqSerializationFailure = "40001"

	// maxRetries максимальное число повторов при конфликте сериализации
	maxRetries = 3
)

var (
	// ErrSerialization возвращается, когда транзакция не зафиксировалась
	// за maxRetries попыток из-за конкурентных изменений
	ErrSerialization = errors.New("txmanager: serialization failure, retries exhausted")
)

// TransactionManager выполняет функции в сериализуемых транзакциях
type TransactionManager struct {
	db *dbmetrics.DB
}

// NewTransactionManager создает transaction manager поверх обёрнутой метриками БД
func NewTransactionManager(db *dbmetrics.DB) *TransactionManager {
	return &TransactionManager{db: db}
}

// DoSerializable выполняет fn в транзакции с уровнем изоляции SERIALIZABLE
// Транзакция передается в fn через контекст (dbmetrics.WithTransaction);
// репозитории подхватывают её через dbmetrics.GetExecutor.
// При конфликте сериализации (40001) транзакция повторяется до maxRetries раз
func (m *TransactionManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		err := m.runOnce(ctx, fn)
		if err == nil {
			return nil
		}
		if !isSerializationFailure(err) {
			return err
		}
		lastErr = err
	}

	return fmt.Errorf("%w: %v", ErrSerialization, lastErr)
}

func (m *TransactionManager) runOnce(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := m.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("txmanager: begin transaction: %w", err)
	}

	txCtx := dbmetrics.WithTransaction(ctx, tx)

	if err := fn(txCtx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("txmanager: commit transaction: %w", err)
	}

	return nil
}

func isSerializationFailure(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pqSerializationFailure
	}
	return false
}
