package bookings

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking not found")

	// ErrCannotCancel возвращается, когда бронирование не может быть отменено
	ErrCannotCancel = errors.New("booking cannot be cancelled")

	// ErrCannotConfirm возвращается, когда бронирование не может быть подтверждено
	ErrCannotConfirm = errors.New("booking cannot be confirmed")

	// ErrCannotDelete возвращается при попытке удалить неотменённое бронирование
	ErrCannotDelete = errors.New("only cancelled bookings can be deleted")

	// ErrNotOnlinePayment возвращается при верификации платежа для cash-бронирования
	ErrNotOnlinePayment = errors.New("booking was not paid online")

	// ErrInvalidSignature возвращается при неверной подписи платежа
	ErrInvalidSignature = errors.New("invalid payment signature")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
