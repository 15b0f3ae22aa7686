package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	staffClient "github.com/m04kA/SMC-AppointmentService/internal/integrations/staffservice"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

// UseCase use case построения сетки доступных слотов
type UseCase struct {
	appointmentRepo AppointmentRepository
	staffClient     StaffServiceClient
	policyProvider  PolicyProvider
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	staffClient StaffServiceClient,
	policyProvider PolicyProvider,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		staffClient:     staffClient,
		policyProvider:  policyProvider,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute строит сетку слотов мастера на один день
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: staff=%d, date=%s, duration=%d",
		req.StaffID, req.Date.Format(domain.DateFormat), req.DurationMinutes)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем мастера с его недельным расписанием
	staff, err := uc.staffClient.GetStaff(ctx, req.StaffID)
	if err != nil {
		if errors.Is(err, staffClient.ErrStaffNotFound) {
			uc.logger.Warn("GetAvailableSlots: staff id=%d not found", req.StaffID)
			return nil, ErrStaffNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get staff id=%d: %v", req.StaffID, err)
		return nil, fmt.Errorf("%w: failed to get staff: %v", ErrInternal, err)
	}

	// 4. Политика салона мастера, параметры запроса имеют приоритет
	policy, err := uc.policyProvider.ResolvePolicy(ctx, staff.TenantID)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to resolve policy for tenant=%d: %v", staff.TenantID, err)
		return nil, fmt.Errorf("%w: failed to resolve policy: %v", ErrInternal, err)
	}

	interval := req.IntervalMinutes
	if interval == 0 {
		interval = policy.IntervalMinutes
	}
	buffer := req.BufferMinutes
	if buffer == 0 {
		buffer = policy.BufferMinutes
	}

	// 5. Рабочие часы на запрошенный день недели
	schedule := staff.ScheduleForWeekday(req.Date.Weekday())
	if !schedule.Enabled {
		uc.logger.Info("GetAvailableSlots: staff id=%d does not work on %s",
			req.StaffID, req.Date.Format(domain.DateFormat))
		return &Response{StaffID: req.StaffID, Date: req.Date, Slots: []domain.Slot{}}, nil
	}

	// 6. Активные записи мастера на эту дату
	filter := domain.AppointmentsFilter{
		StaffID:         ptr.Ptr(req.StaffID),
		StartDate:       &req.Date,
		EndDate:         &req.Date,
		IncludeInactive: false, // Только записи, занимающие слот
	}

	appointments, err := uc.appointmentRepo.GetWithFilter(ctx, filter)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get appointments: %v", err)
		return nil, fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
	}

	// 7. Строим сетку
	slots, err := buildDayGrid(
		schedule,
		req.DurationMinutes,
		interval,
		buffer,
		req.Date,
		now,
		policy.LookaheadMinutes,
		appointments,
	)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to build day grid: %v", err)
		return nil, fmt.Errorf("%w: failed to build day grid: %v", ErrInternal, err)
	}

	uc.logger.Info("GetAvailableSlots: built %d slots for staff=%d, date=%s",
		len(slots), req.StaffID, req.Date.Format(domain.DateFormat))

	return &Response{
		StaffID: req.StaffID,
		Date:    req.Date,
		Slots:   slots,
	}, nil
}

// ExecuteRange строит сетки слотов на каждый день периода.
// Отдельного алгоритма нет - Execute вызывается день за днём
func (uc *UseCase) ExecuteRange(ctx context.Context, req *RangeRequest) (*RangeResponse, error) {
	if err := validateRangeRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: range validation failed: %v", err)
		return nil, err
	}

	days := make([]Response, 0)
	for day := req.DateFrom; !day.After(req.DateTo); day = day.AddDate(0, 0, 1) {
		dayResp, err := uc.Execute(ctx, &Request{
			StaffID:         req.StaffID,
			Date:            day,
			DurationMinutes: req.DurationMinutes,
			IntervalMinutes: req.IntervalMinutes,
			BufferMinutes:   req.BufferMinutes,
		})
		if err != nil {
			return nil, err
		}
		days = append(days, *dayResp)
	}

	return &RangeResponse{StaffID: req.StaffID, Days: days}, nil
}
