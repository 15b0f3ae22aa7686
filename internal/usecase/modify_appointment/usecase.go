package modify_appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	staffClient "github.com/m04kA/SMC-AppointmentService/internal/integrations/staffservice"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
	"github.com/m04kA/SMC-AppointmentService/pkg/txmanager"
)

// UseCase use case изменения записи (перенос, смена мастера, смена доп. услуг)
type UseCase struct {
	appointmentRepo AppointmentRepository
	staffClient     StaffServiceClient
	txManager       TransactionManager
	policyProvider  PolicyProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	staffClient StaffServiceClient,
	txManager TransactionManager,
	policyProvider PolicyProvider,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		staffClient:     staffClient,
		txManager:       txManager,
		policyProvider:  policyProvider,
		logger:          logger,
	}
}

// Execute выполняет use case изменения записи.
//
// Рабочие часы целевого мастера проверяются до транзакции: HTTP-вызов
// StaffService не должен выполняться под блокировками. Admission check
// против целевого мастера и интервала и сам update идут в одной
// сериализуемой транзакции, сама запись исключается из поиска пересечений
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ModifyAppointment: id=%d, tenant=%d", req.AppointmentID, req.TenantID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ModifyAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Читаем запись без блокировки, чтобы вычислить целевые значения
	current, err := uc.appointmentRepo.GetByID(ctx, req.AppointmentID)
	if err != nil {
		if errors.Is(err, appointment.ErrAppointmentNotFound) {
			uc.logger.Warn("ModifyAppointment: appointment id=%d not found", req.AppointmentID)
			return nil, ErrAppointmentNotFound
		}
		uc.logger.Error("ModifyAppointment: failed to get appointment id=%d: %v", req.AppointmentID, err)
		return nil, fmt.Errorf("%w: failed to get appointment: %v", ErrInternal, err)
	}

	// Запись чужого салона неотличима от несуществующей
	if current.TenantID != req.TenantID {
		uc.logger.Warn("ModifyAppointment: appointment id=%d belongs to tenant=%d, not tenant=%d",
			req.AppointmentID, current.TenantID, req.TenantID)
		return nil, ErrAppointmentNotFound
	}

	if !current.CanBeModified() {
		uc.logger.Warn("ModifyAppointment: appointment id=%d in status=%s is not modifiable",
			req.AppointmentID, current.Status)
		return nil, fmt.Errorf("%w: status is %s", ErrNotModifiable, current.Status)
	}

	// 3. Целевые значения: невыставленные поля наследуются от текущей записи
	targetStaffID := current.StaffID
	if req.NewStaffID != nil {
		targetStaffID = *req.NewStaffID
	}

	targetDate := current.Date
	if req.NewDate != nil {
		targetDate = *req.NewDate
	}

	targetStart := current.StartTime
	if req.NewStartTime != nil {
		targetStart = *req.NewStartTime
	}

	targetDuration := current.TotalDurationMinutes
	targetAddOns := current.AddOnIDs
	if req.NewAddOnIDs != nil {
		targetDuration = req.ServiceDurationMinutes
		for _, d := range req.NewAddOnDurationMinutes {
			targetDuration += d
		}
		targetAddOns = req.NewAddOnIDs
	}

	if targetDuration > domain.MaxDurationMinutes {
		return nil, fmt.Errorf("%w: total duration must not exceed %d minutes", ErrInvalidInput, domain.MaxDurationMinutes)
	}

	// 4. Целевой мастер: существование, принадлежность салону, рабочие часы
	staff, err := uc.staffClient.GetStaff(ctx, targetStaffID)
	if err != nil {
		if errors.Is(err, staffClient.ErrStaffNotFound) {
			uc.logger.Warn("ModifyAppointment: staff id=%d not found", targetStaffID)
			return nil, ErrStaffNotFound
		}
		uc.logger.Error("ModifyAppointment: failed to get staff id=%d: %v", targetStaffID, err)
		return nil, fmt.Errorf("%w: failed to get staff: %v", ErrInternal, err)
	}

	if staff.TenantID != req.TenantID {
		uc.logger.Warn("ModifyAppointment: staff id=%d belongs to tenant=%d, not tenant=%d",
			targetStaffID, staff.TenantID, req.TenantID)
		return nil, ErrStaffNotInTenant
	}

	schedule := staff.ScheduleForWeekday(targetDate.Weekday())
	if err := validateWithinWorkingHours(schedule, targetStart, targetDuration); err != nil {
		uc.logger.Warn("ModifyAppointment: slot outside working hours: staff=%d, date=%s, time=%s",
			targetStaffID, targetDate.Format(domain.DateFormat), targetStart)
		return nil, err
	}

	// 5. Буфер между записями берём из политики салона
	policy, err := uc.policyProvider.ResolvePolicy(ctx, req.TenantID)
	if err != nil {
		uc.logger.Error("ModifyAppointment: failed to resolve policy for tenant=%d: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: failed to resolve policy: %v", ErrInternal, err)
	}
	bufferMinutes := policy.BufferMinutes

	var result *domain.Appointment

	// 6. Admission check + update в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 6.1. Перечитываем запись с блокировкой и повторяем гейт по статусу:
		// между чтением выше и началом транзакции запись могли отменить
		locked, err := uc.appointmentRepo.GetByID(txCtx, req.AppointmentID)
		if err != nil {
			if errors.Is(err, appointment.ErrAppointmentNotFound) {
				return ErrAppointmentNotFound
			}
			uc.logger.Error("ModifyAppointment: failed to lock appointment id=%d: %v", req.AppointmentID, err)
			return fmt.Errorf("%w: failed to lock appointment: %w", ErrInternal, err)
		}

		if !locked.CanBeModified() {
			return fmt.Errorf("%w: status is %s", ErrNotModifiable, locked.Status)
		}

		// 6.2. Активные записи целевого мастера на целевую дату (FOR UPDATE)
		filter := domain.AppointmentsFilter{
			StaffID:         ptr.Ptr(targetStaffID),
			StartDate:       &targetDate,
			EndDate:         &targetDate,
			IncludeInactive: false,
		}

		existing, err := uc.appointmentRepo.GetWithFilter(txCtx, filter)
		if err != nil {
			uc.logger.Error("ModifyAppointment: failed to get appointments: %v", err)
			return fmt.Errorf("%w: failed to get appointments: %w", ErrInternal, err)
		}

		// 6.3. Пересечения, исключая саму переносимую запись
		if conflict := findOverlapping(existing, targetStart, targetDuration, bufferMinutes, req.AppointmentID); conflict != nil {
			uc.logger.Warn("ModifyAppointment: slot conflict with appointment id=%d (staff=%d, %s %s)",
				conflict.ID, targetStaffID, targetDate.Format(domain.DateFormat), targetStart)
			return fmt.Errorf("%w: interval %s+%dm is taken by appointment %d",
				ErrSlotConflict, targetStart, targetDuration, conflict.ID)
		}

		// 6.4. Применяем изменения
		locked.StaffID = targetStaffID
		locked.Date = targetDate
		locked.StartTime = targetStart
		locked.TotalDurationMinutes = targetDuration
		locked.AddOnIDs = targetAddOns
		if req.NewNotes != nil {
			locked.Notes = req.NewNotes
		}

		if err := uc.appointmentRepo.Update(txCtx, locked); err != nil {
			uc.logger.Error("ModifyAppointment: failed to update appointment id=%d: %v", req.AppointmentID, err)
			return fmt.Errorf("%w: failed to update appointment: %w", ErrInternal, err)
		}

		result = locked
		return nil
	})

	if err != nil {
		if errors.Is(err, txmanager.ErrSerializationFailure) {
			uc.logger.Warn("ModifyAppointment: serialization retries exhausted for staff=%d, date=%s",
				targetStaffID, targetDate.Format(domain.DateFormat))
			return nil, fmt.Errorf("%w: concurrent booking contention", ErrSlotConflict)
		}
		return nil, err
	}

	uc.logger.Info("ModifyAppointment: successfully modified appointment id=%d", result.ID)

	return FromDomain(result), nil
}
