package create_appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	staffClient "github.com/m04kA/SMC-AppointmentService/internal/integrations/staffservice"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
	"github.com/m04kA/SMC-AppointmentService/pkg/txmanager"
)

// UseCase use case создания записи
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

// Execute выполняет use case создания записи.
//
// Admission check (поиск пересечений) и вставка выполняются в одной
// сериализуемой транзакции с блокировкой записей мастера на эту дату:
// два конкурентных запроса на пересекающиеся интервалы не могут пройти
// проверку одновременно. Это центральный инвариант всего движка
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateAppointment: tenant=%d, staff=%d, service=%d, date=%s, time=%s",
		req.TenantID, req.StaffID, req.ServiceID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}

	totalDuration := req.TotalDurationMinutes()

	// 2. Получаем мастера с расписанием
	staff, err := uc.staffClient.GetStaff(ctx, req.StaffID)
	if err != nil {
		if errors.Is(err, staffClient.ErrStaffNotFound) {
			uc.logger.Warn("CreateAppointment: staff id=%d not found", req.StaffID)
			return nil, ErrStaffNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get staff id=%d: %v", req.StaffID, err)
		return nil, fmt.Errorf("%w: failed to get staff: %v", ErrInternal, err)
	}

	// 3. Мастер обязан принадлежать салону из запроса
	if staff.TenantID != req.TenantID {
		uc.logger.Warn("CreateAppointment: staff id=%d belongs to tenant=%d, not tenant=%d",
			req.StaffID, staff.TenantID, req.TenantID)
		return nil, ErrStaffNotInTenant
	}

	// 4. Слот обязан помещаться в рабочие часы
	schedule := staff.ScheduleForWeekday(req.Date.Weekday())
	if err := validateWithinWorkingHours(schedule, req.StartTime, totalDuration); err != nil {
		uc.logger.Warn("CreateAppointment: slot outside working hours: staff=%d, date=%s, time=%s",
			req.StaffID, req.Date.Format(domain.DateFormat), req.StartTime)
		return nil, err
	}

	// 5. Буфер между записями берём из политики салона
	policy, err := uc.policyProvider.ResolvePolicy(ctx, req.TenantID)
	if err != nil {
		uc.logger.Error("CreateAppointment: failed to resolve policy for tenant=%d: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: failed to resolve policy: %v", ErrInternal, err)
	}
	bufferMinutes := policy.BufferMinutes

	// Переменная для хранения результата
	var result *domain.Appointment

	// 6. Admission check + вставка в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 6.1. Активные записи мастера на эту дату с блокировкой (FOR UPDATE)
		filter := domain.AppointmentsFilter{
			StaffID:         ptr.Ptr(req.StaffID),
			StartDate:       &req.Date,
			EndDate:         &req.Date,
			IncludeInactive: false,
		}

		existing, err := uc.appointmentRepo.GetWithFilter(txCtx, filter)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to get appointments: %v", err)
			return fmt.Errorf("%w: failed to get appointments: %w", ErrInternal, err)
		}

		// 6.2. Проверяем пересечения
		if conflict := findOverlapping(existing, req.StartTime, totalDuration, bufferMinutes, 0); conflict != nil {
			uc.logger.Warn("CreateAppointment: slot conflict with appointment id=%d (staff=%d, %s %s)",
				conflict.ID, req.StaffID, req.Date.Format(domain.DateFormat), req.StartTime)
			return fmt.Errorf("%w: interval %s+%dm is taken by appointment %d",
				ErrSlotConflict, req.StartTime, totalDuration, conflict.ID)
		}

		// 6.3. Создаем запись
		appt := &domain.Appointment{
			TenantID:             req.TenantID,
			StaffID:              req.StaffID,
			ServiceID:            req.ServiceID,
			Date:                 req.Date,
			StartTime:            req.StartTime,
			TotalDurationMinutes: totalDuration,
			AddOnIDs:             req.AddOnIDs,
			Status:               domain.StatusScheduled,
			CustomerContact:      req.CustomerContact,
			Notes:                req.Notes,
		}

		created, err := uc.appointmentRepo.Create(txCtx, appt)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to create appointment: %v", err)
			return fmt.Errorf("%w: failed to create appointment: %w", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		// Исчерпанные повторы сериализации для вызывающего - тот же конфликт слота
		if errors.Is(err, txmanager.ErrSerializationFailure) {
			uc.logger.Warn("CreateAppointment: serialization retries exhausted for staff=%d, date=%s",
				req.StaffID, req.Date.Format(domain.DateFormat))
			return nil, fmt.Errorf("%w: concurrent booking contention", ErrSlotConflict)
		}
		return nil, err
	}

	uc.logger.Info("CreateAppointment: successfully created appointment id=%d", result.ID)

	return FromDomain(result), nil
}
