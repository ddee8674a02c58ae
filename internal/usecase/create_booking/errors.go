package create_booking

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("create_booking: service not found")

	// ErrServiceInactive возвращается, когда услуга выключена в каталоге
	ErrServiceInactive = errors.New("create_booking: service is inactive")

	// ErrInvalidDate возвращается при попытке бронирования на прошедшую дату
	ErrInvalidDate = errors.New("create_booking: invalid booking date")

	// ErrDayClosed возвращается, когда дата полностью закрыта
	ErrDayClosed = errors.New("create_booking: this date is closed")

	// ErrSlotNotFound возвращается, когда выбранный слот не существует на эту дату
	ErrSlotNotFound = errors.New("create_booking: slot not found on this date")

	// ErrSlotNotAvailable возвращается, когда слот заблокирован, заполнен
	// или его время начала уже прошло
	ErrSlotNotAvailable = errors.New("create_booking: slot is not available")

	// ErrInvalidDuration возвращается, когда у услуги нет тарифа на длительность
	ErrInvalidDuration = errors.New("create_booking: no price for requested duration")

	// ErrCapacityRace возвращается, когда конкурирующие бронирования
	// исчерпали повторы сериализуемой транзакции
	ErrCapacityRace = errors.New("create_booking: slot was taken by a concurrent booking")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
