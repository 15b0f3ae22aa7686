package modify_appointment

import (
	"context"

	modifyAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/modify_appointment"
)

type ModifyAppointmentUseCase interface {
	Execute(ctx context.Context, req *modifyAppointment.Request) (*modifyAppointment.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
