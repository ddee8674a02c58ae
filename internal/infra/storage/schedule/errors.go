package schedule

import "errors"

var (
	// ErrTemplateNotFound возвращается, когда шаблон слота не найден
	ErrTemplateNotFound = errors.New("schedule.repository: slot template not found")

	// ErrExceptionNotFound возвращается, когда исключение расписания не найдено
	ErrExceptionNotFound = errors.New("schedule.repository: schedule exception not found")

	// ErrClosureNotFound возвращается, когда закрытие дня не найдено
	ErrClosureNotFound = errors.New("schedule.repository: date closure not found")

	// ErrReferenced возвращается при попытке удалить строку, на которую
	// ссылаются бронирования (нарушение foreign key)
	ErrReferenced = errors.New("schedule.repository: row is referenced by bookings")

	// ErrDuplicate возвращается при нарушении уникальности
	// (повторное исключение на (service, date, slot) или повторное закрытие даты)
	ErrDuplicate = errors.New("schedule.repository: duplicate row")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("schedule.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("schedule.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("schedule.repository: failed to scan row")
)
