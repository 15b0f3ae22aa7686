package cancel_appointment

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена или принадлежит другому салону
	ErrAppointmentNotFound = errors.New("cancel_appointment: appointment not found")

	// ErrNotCancellable возвращается при попытке отменить запись в финальном или активном статусе
	ErrNotCancellable = errors.New("cancel_appointment: appointment is not cancellable in its current status")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("cancel_appointment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("cancel_appointment: internal error")
)
