package get_available_slots

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/staffservice"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Моки зависимостей

type fakeAppointmentRepo struct {
	appointments []*domain.Appointment
	err          error
}

func (f *fakeAppointmentRepo) GetWithFilter(_ context.Context, _ domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	return f.appointments, f.err
}

type fakeStaffClient struct {
	staff *staffservice.Staff
	err   error
}

func (f *fakeStaffClient) GetStaff(_ context.Context, _ int64) (*staffservice.Staff, error) {
	return f.staff, f.err
}

type fakePolicyProvider struct {
	policy *domain.TenantPolicy
	err    error
}

func (f *fakePolicyProvider) ResolvePolicy(_ context.Context, tenantID int64) (*domain.TenantPolicy, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.policy != nil {
		return f.policy, nil
	}
	return domain.DefaultTenantPolicy(tenantID), nil
}

type fixedTimeProvider struct {
	now time.Time
}

func (f *fixedTimeProvider) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func workingStaff(start, end string) *staffservice.Staff {
	day := staffservice.DaySchedule{
		Enabled:   true,
		StartTime: &start,
		EndTime:   &end,
	}
	return &staffservice.Staff{
		ID:       1,
		TenantID: 10,
		Name:     "Анна",
		Active:   true,
		WorkingHours: staffservice.WeekSchedule{
			Sunday:    day,
			Monday:    day,
			Tuesday:   day,
			Wednesday: day,
			Thursday:  day,
			Friday:    day,
			Saturday:  day,
		},
	}
}

func newTestUseCase(repo *fakeAppointmentRepo, staff *fakeStaffClient, provider *fakePolicyProvider, now time.Time) *UseCase {
	uc := NewUseCase(repo, staff, provider, nopLogger{})
	uc.timeProvider = &fixedTimeProvider{now: now}
	return uc
}

func appt(start types.TimeString, duration int, status domain.AppointmentStatus) *domain.Appointment {
	return &domain.Appointment{
		ID:                   100,
		TenantID:             10,
		StaffID:              1,
		StartTime:            start,
		TotalDurationMinutes: duration,
		Status:               status,
	}
}

func TestExecute_FullDayGrid(t *testing.T) {
	// Завтрашний день, рабочие часы 09:00-12:00, услуга 60 минут, шаг 30
	now := time.Date(2026, 3, 16, 10, 0, 0, 0, time.UTC)
	date := now.AddDate(0, 0, 1)

	uc := newTestUseCase(
		&fakeAppointmentRepo{},
		&fakeStaffClient{staff: workingStaff("09:00", "12:00")},
		&fakePolicyProvider{policy: &domain.TenantPolicy{TenantID: 10, IntervalMinutes: 30, LookaheadMinutes: 15}},
		now,
	)

	resp, err := uc.Execute(context.Background(), &Request{
		StaffID:         1,
		Date:            date,
		DurationMinutes: 60,
	})
	require.NoError(t, err)

	// Кандидаты: 09:00, 09:30, 10:00, 10:30, 11:00. Слот 11:30+60 вышел бы за 12:00
	require.Len(t, resp.Slots, 5)
	assert.Equal(t, types.TimeString("09:00"), resp.Slots[0].StartTime)
	assert.Equal(t, types.TimeString("11:00"), resp.Slots[4].StartTime)
	for _, s := range resp.Slots {
		assert.True(t, s.Available)
	}
}

func TestExecute_BusySlotsMarkedUnavailable(t *testing.T) {
	now := time.Date(2026, 3, 16, 10, 0, 0, 0, time.UTC)
	date := now.AddDate(0, 0, 1)

	uc := newTestUseCase(
		&fakeAppointmentRepo{appointments: []*domain.Appointment{
			appt("10:00", 60, domain.StatusScheduled),
		}},
		&fakeStaffClient{staff: workingStaff("09:00", "13:00")},
		&fakePolicyProvider{policy: &domain.TenantPolicy{TenantID: 10, IntervalMinutes: 60, LookaheadMinutes: 15}},
		now,
	)

	resp, err := uc.Execute(context.Background(), &Request{
		StaffID:         1,
		Date:            date,
		DurationMinutes: 60,
	})
	require.NoError(t, err)

	// 09:00 свободен, 10:00 занят, 11:00 свободен (полуоткрытые интервалы), 12:00 свободен
	require.Len(t, resp.Slots, 4)
	assert.True(t, resp.Slots[0].Available)
	assert.False(t, resp.Slots[1].Available)
	assert.True(t, resp.Slots[2].Available)
	assert.True(t, resp.Slots[3].Available)
}

func TestExecute_BufferExtendsBusyInterval(t *testing.T) {
	now := time.Date(2026, 3, 16, 10, 0, 0, 0, time.UTC)
	date := now.AddDate(0, 0, 1)

	uc := newTestUseCase(
		&fakeAppointmentRepo{appointments: []*domain.Appointment{
			appt("10:00", 60, domain.StatusScheduled),
		}},
		&fakeStaffClient{staff: workingStaff("09:00", "13:00")},
		&fakePolicyProvider{policy: &domain.TenantPolicy{TenantID: 10, IntervalMinutes: 60, LookaheadMinutes: 15}},
		now,
	)

	// Буфер 15 минут: запись 10:00-11:00 занимает интервал до 11:15
	resp, err := uc.Execute(context.Background(), &Request{
		StaffID:         1,
		Date:            date,
		DurationMinutes: 60,
		BufferMinutes:   15,
	})
	require.NoError(t, err)

	require.Len(t, resp.Slots, 4)
	assert.False(t, resp.Slots[1].Available, "10:00 занят записью")
	assert.False(t, resp.Slots[2].Available, "11:00 пересекается с буфером до 11:15")
	assert.True(t, resp.Slots[3].Available, "12:00 свободен")
}

func TestExecute_CancelledAppointmentsFreeTheSlot(t *testing.T) {
	now := time.Date(2026, 3, 16, 10, 0, 0, 0, time.UTC)
	date := now.AddDate(0, 0, 1)

	uc := newTestUseCase(
		&fakeAppointmentRepo{appointments: []*domain.Appointment{
			appt("10:00", 60, domain.StatusCancelled),
			appt("11:00", 60, domain.StatusNoShow),
		}},
		&fakeStaffClient{staff: workingStaff("09:00", "13:00")},
		&fakePolicyProvider{policy: &domain.TenantPolicy{TenantID: 10, IntervalMinutes: 60, LookaheadMinutes: 15}},
		now,
	)

	resp, err := uc.Execute(context.Background(), &Request{
		StaffID:         1,
		Date:            date,
		DurationMinutes: 60,
	})
	require.NoError(t, err)

	for _, s := range resp.Slots {
		assert.True(t, s.Available)
	}
}

func TestExecute_TodayCutoffAndRounding(t *testing.T) {
	// Сегодня 10:07, lookahead 15 минут, шаг 30: первый кандидат 10:30
	now := time.Date(2026, 3, 16, 10, 7, 0, 0, time.UTC)

	uc := newTestUseCase(
		&fakeAppointmentRepo{},
		&fakeStaffClient{staff: workingStaff("09:00", "12:00")},
		&fakePolicyProvider{policy: &domain.TenantPolicy{TenantID: 10, IntervalMinutes: 30, LookaheadMinutes: 15}},
		now,
	)

	resp, err := uc.Execute(context.Background(), &Request{
		StaffID:         1,
		Date:            now,
		DurationMinutes: 60,
	})
	require.NoError(t, err)

	// 10:07 + 15 = 10:22, округление вверх до шага 30 = 10:30. Кандидаты: 10:30, 11:00
	require.Len(t, resp.Slots, 2)
	assert.Equal(t, types.TimeString("10:30"), resp.Slots[0].StartTime)
	assert.Equal(t, types.TimeString("11:00"), resp.Slots[1].StartTime)
}

func TestExecute_PastDateReturnsEmptyGrid(t *testing.T) {
	now := time.Date(2026, 3, 16, 10, 0, 0, 0, time.UTC)

	uc := newTestUseCase(
		&fakeAppointmentRepo{},
		&fakeStaffClient{staff: workingStaff("09:00", "18:00")},
		&fakePolicyProvider{},
		now,
	)

	resp, err := uc.Execute(context.Background(), &Request{
		StaffID:         1,
		Date:            now.AddDate(0, 0, -1),
		DurationMinutes: 60,
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_DisabledDayReturnsEmptyGrid(t *testing.T) {
	now := time.Date(2026, 3, 16, 10, 0, 0, 0, time.UTC)

	staff := workingStaff("09:00", "18:00")
	staff.WorkingHours.Tuesday = staffservice.DaySchedule{Enabled: false}

	uc := newTestUseCase(
		&fakeAppointmentRepo{},
		&fakeStaffClient{staff: staff},
		&fakePolicyProvider{},
		now,
	)

	// 17 марта 2026 - вторник
	resp, err := uc.Execute(context.Background(), &Request{
		StaffID:         1,
		Date:            time.Date(2026, 3, 17, 0, 0, 0, 0, time.UTC),
		DurationMinutes: 60,
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_StaffNotFound(t *testing.T) {
	now := time.Date(2026, 3, 16, 10, 0, 0, 0, time.UTC)

	uc := newTestUseCase(
		&fakeAppointmentRepo{},
		&fakeStaffClient{err: staffservice.ErrStaffNotFound},
		&fakePolicyProvider{},
		now,
	)

	_, err := uc.Execute(context.Background(), &Request{
		StaffID:         42,
		Date:            now.AddDate(0, 0, 1),
		DurationMinutes: 60,
	})
	assert.ErrorIs(t, err, ErrStaffNotFound)
}

func TestExecute_ValidationErrors(t *testing.T) {
	now := time.Date(2026, 3, 16, 10, 0, 0, 0, time.UTC)
	uc := newTestUseCase(&fakeAppointmentRepo{}, &fakeStaffClient{}, &fakePolicyProvider{}, now)

	tests := []struct {
		name string
		req  *Request
	}{
		{name: "zero staff id", req: &Request{Date: now, DurationMinutes: 60}},
		{name: "zero duration", req: &Request{StaffID: 1, Date: now}},
		{name: "duration too long", req: &Request{StaffID: 1, Date: now, DurationMinutes: domain.MaxDurationMinutes + 1}},
		{name: "negative buffer", req: &Request{StaffID: 1, Date: now, DurationMinutes: 60, BufferMinutes: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestExecute_RepoErrorWrapsInternal(t *testing.T) {
	now := time.Date(2026, 3, 16, 10, 0, 0, 0, time.UTC)

	uc := newTestUseCase(
		&fakeAppointmentRepo{err: errors.New("connection refused")},
		&fakeStaffClient{staff: workingStaff("09:00", "18:00")},
		&fakePolicyProvider{},
		now,
	)

	_, err := uc.Execute(context.Background(), &Request{
		StaffID:         1,
		Date:            now.AddDate(0, 0, 1),
		DurationMinutes: 60,
	})
	assert.ErrorIs(t, err, ErrInternal)
}

func TestExecuteRange_OneGridPerDay(t *testing.T) {
	now := time.Date(2026, 3, 16, 10, 0, 0, 0, time.UTC)

	uc := newTestUseCase(
		&fakeAppointmentRepo{},
		&fakeStaffClient{staff: workingStaff("09:00", "11:00")},
		&fakePolicyProvider{policy: &domain.TenantPolicy{TenantID: 10, IntervalMinutes: 60, LookaheadMinutes: 15}},
		now,
	)

	resp, err := uc.ExecuteRange(context.Background(), &RangeRequest{
		StaffID:         1,
		DateFrom:        now.AddDate(0, 0, 1),
		DateTo:          now.AddDate(0, 0, 3),
		DurationMinutes: 60,
	})
	require.NoError(t, err)

	require.Len(t, resp.Days, 3)
	for i, day := range resp.Days {
		assert.Equal(t, now.AddDate(0, 0, i+1).Day(), day.Date.Day())
		assert.Len(t, day.Slots, 2)
	}
}

func TestExecuteRange_InvalidPeriod(t *testing.T) {
	now := time.Date(2026, 3, 16, 10, 0, 0, 0, time.UTC)
	uc := newTestUseCase(&fakeAppointmentRepo{}, &fakeStaffClient{}, &fakePolicyProvider{}, now)

	_, err := uc.ExecuteRange(context.Background(), &RangeRequest{
		StaffID:         1,
		DateFrom:        now.AddDate(0, 0, 3),
		DateTo:          now.AddDate(0, 0, 1),
		DurationMinutes: 60,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecuteRange_TooLongPeriod(t *testing.T) {
	now := time.Date(2026, 3, 16, 10, 0, 0, 0, time.UTC)
	uc := newTestUseCase(
		&fakeAppointmentRepo{},
		&fakeStaffClient{staff: workingStaff("09:00", "11:00")},
		&fakePolicyProvider{},
		now,
	)

	_, err := uc.ExecuteRange(context.Background(), &RangeRequest{
		StaffID:         1,
		DateFrom:        now,
		DateTo:          now.AddDate(0, 0, 60),
		DurationMinutes: 60,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	// Ровно maxRangeDays дней - еще допустимо
	resp, err := uc.ExecuteRange(context.Background(), &RangeRequest{
		StaffID:         1,
		DateFrom:        now.AddDate(0, 0, 1),
		DateTo:          now.AddDate(0, 0, maxRangeDays),
		DurationMinutes: 60,
	})
	require.NoError(t, err)
	assert.Len(t, resp.Days, maxRangeDays)
}
