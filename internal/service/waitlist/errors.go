package waitlist

import "errors"

var (
	// ErrAlreadyQueued возвращается, когда клиент уже стоит в листе ожидания
	// этого салона с сегодняшнего дня
	ErrAlreadyQueued = errors.New("customer is already queued for this tenant today")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("waitlist service: internal error")
)
