package create_appointment

import "errors"

var (
	// ErrStaffNotFound возвращается, когда мастер не найден
	ErrStaffNotFound = errors.New("create_appointment: staff member not found")

	// ErrStaffNotInTenant возвращается, когда мастер не принадлежит салону
	ErrStaffNotInTenant = errors.New("create_appointment: staff member does not belong to tenant")

	// ErrOutsideWorkingHours возвращается, когда слот не помещается в рабочие часы мастера
	ErrOutsideWorkingHours = errors.New("create_appointment: slot is outside working hours")

	// ErrSlotConflict возвращается, когда интервал пересекается с существующей записью.
	// Исчерпание повторов сериализуемой транзакции выглядит для вызывающего так же:
	// contention и настоящий конфликт неразличимы снаружи
	ErrSlotConflict = errors.New("create_appointment: slot conflict")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_appointment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_appointment: internal error")
)
