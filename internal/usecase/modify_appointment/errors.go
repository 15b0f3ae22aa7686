package modify_appointment

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена или принадлежит другому салону
	ErrAppointmentNotFound = errors.New("modify_appointment: appointment not found")

	// ErrNotModifiable возвращается при попытке изменить запись в финальном или активном статусе
	ErrNotModifiable = errors.New("modify_appointment: appointment is not modifiable in its current status")

	// ErrStaffNotFound возвращается, когда целевой мастер не найден
	ErrStaffNotFound = errors.New("modify_appointment: staff member not found")

	// ErrStaffNotInTenant возвращается, когда целевой мастер не принадлежит салону
	ErrStaffNotInTenant = errors.New("modify_appointment: staff member does not belong to tenant")

	// ErrOutsideWorkingHours возвращается, когда новый интервал не помещается в рабочие часы
	ErrOutsideWorkingHours = errors.New("modify_appointment: slot is outside working hours")

	// ErrSlotConflict возвращается, когда целевой интервал пересекается с другой записью
	ErrSlotConflict = errors.New("modify_appointment: slot conflict")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("modify_appointment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("modify_appointment: internal error")
)
