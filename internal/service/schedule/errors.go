package schedule

import "errors"

var (
	// ErrTemplateNotFound возвращается, когда шаблон слота не найден
	ErrTemplateNotFound = errors.New("slot template not found")

	// ErrExceptionNotFound возвращается, когда исключение не найдено
	ErrExceptionNotFound = errors.New("schedule exception not found")

	// ErrClosureNotFound возвращается, когда закрытие дня не найдено
	ErrClosureNotFound = errors.New("date closure not found")

	// ErrTemplateInUse возвращается при попытке удалить шаблон,
	// на который ссылаются бронирования
	ErrTemplateInUse = errors.New("template is referenced by bookings")

	// ErrExceptionInUse возвращается при попытке удалить исключение,
	// на которое ссылаются бронирования
	ErrExceptionInUse = errors.New("exception is referenced by bookings")

	// ErrDuplicateException возвращается, когда на (услуга, дата, шаблон)
	// уже есть исключение
	ErrDuplicateException = errors.New("exception already exists for this slot and date")

	// ErrDuplicateClosure возвращается, когда дата уже закрыта
	ErrDuplicateClosure = errors.New("date is already closed")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
