package join_waitlist

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/service/waitlist/models"
)

type WaitlistService interface {
	Enqueue(ctx context.Context, req *models.EnqueueRequest) (*models.EntryResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
