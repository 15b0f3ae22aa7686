package notifyservice

import "errors"

var (
	// ErrSendFailed возвращается, когда уведомление не удалось доставить
	ErrSendFailed = errors.New("notifyservice client: send failed")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("notifyservice client: internal error")
)
