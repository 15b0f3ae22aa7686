package respond_waitlist

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/service/waitlist/models"
)

type WaitlistService interface {
	HandleResponse(ctx context.Context, req *models.RespondRequest) (*models.RespondResult, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
