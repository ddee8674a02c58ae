package domain

// Business validation constants
const (
	MinSlotCapacity = 1
	MaxSlotCapacity = 100

	MaxCustomerNameLength       = 120
	MaxCustomerPhoneLength      = 20
	MaxCustomerEmailLength      = 254
	MaxClosureReasonLength      = 200
	MaxCancellationReasonLength = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// DefaultBusinessTimezone используется, если таймзона не задана в конфигурации
// Все вычисления "сегодня/сейчас" ведутся в таймзоне бизнеса, не сервера
const DefaultBusinessTimezone = "Asia/Kolkata"

// InactiveStatuses список статусов, не занимающих место в слоте
// Используется при подсчёте занятости слотов
var InactiveStatuses = []BookingStatus{
	StatusCancelled,
}

// ActiveStatuses список статусов, занимающих место в слоте
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
}
