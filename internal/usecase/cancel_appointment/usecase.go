package cancel_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
)

// UseCase use case отмены записи
type UseCase struct {
	appointmentRepo AppointmentRepository
	cascadeEngine   CascadeEngine
	txManager       TransactionManager
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	cascadeEngine CascadeEngine,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		cascadeEngine:   cascadeEngine,
		txManager:       txManager,
		logger:          logger,
	}
}

// Execute выполняет use case отмены записи.
//
// Отмена и публикация события каскаду разнесены: событие об
// освободившемся слоте уходит в лист ожидания только после коммита
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CancelAppointment: id=%d, tenant=%d", req.AppointmentID, req.TenantID)

	// 1. Валидация входных данных
	if err := req.Validate(); err != nil {
		uc.logger.Warn("CancelAppointment: validation failed: %v", err)
		return nil, err
	}

	var cancelled *domain.Appointment

	// 2. Гейт по статусу и отмена в одной транзакции
	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 2.1. Читаем запись с блокировкой (FOR UPDATE)
		appt, err := uc.appointmentRepo.GetByID(txCtx, req.AppointmentID)
		if err != nil {
			if errors.Is(err, appointment.ErrAppointmentNotFound) {
				uc.logger.Warn("CancelAppointment: appointment id=%d not found", req.AppointmentID)
				return ErrAppointmentNotFound
			}
			uc.logger.Error("CancelAppointment: failed to get appointment id=%d: %v", req.AppointmentID, err)
			return fmt.Errorf("%w: failed to get appointment: %v", ErrInternal, err)
		}

		// Запись чужого салона неотличима от несуществующей
		if appt.TenantID != req.TenantID {
			uc.logger.Warn("CancelAppointment: appointment id=%d belongs to tenant=%d, not tenant=%d",
				req.AppointmentID, appt.TenantID, req.TenantID)
			return ErrAppointmentNotFound
		}

		if !appt.CanBeCancelled() {
			uc.logger.Warn("CancelAppointment: appointment id=%d in status=%s is not cancellable",
				req.AppointmentID, appt.Status)
			return fmt.Errorf("%w: status is %s", ErrNotCancellable, appt.Status)
		}

		// 2.2. Условный update: статус проверяется еще раз на уровне SQL
		if err := uc.appointmentRepo.Cancel(txCtx, req.AppointmentID, req.Reason); err != nil {
			if errors.Is(err, appointment.ErrAppointmentNotFound) {
				return fmt.Errorf("%w: status changed concurrently", ErrNotCancellable)
			}
			uc.logger.Error("CancelAppointment: failed to cancel appointment id=%d: %v", req.AppointmentID, err)
			return fmt.Errorf("%w: failed to cancel appointment: %v", ErrInternal, err)
		}

		now := time.Now()
		appt.Status = domain.StatusCancelled
		appt.CancellationReason = &req.Reason
		appt.CancelledAt = &now
		cancelled = appt
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CancelAppointment: successfully cancelled appointment id=%d", cancelled.ID)

	// 3. Слот освободился, коммит прошел: отдаем событие каскаду
	uc.cascadeEngine.HandleCancellation(ctx, domain.CancellationEvent{
		TenantID:        cancelled.TenantID,
		StaffID:         cancelled.StaffID,
		Date:            cancelled.Date,
		SlotStart:       cancelled.StartTime.At(cancelled.Date),
		DurationMinutes: cancelled.TotalDurationMinutes,
	})

	return FromDomain(cancelled), nil
}
