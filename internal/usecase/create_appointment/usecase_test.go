package create_appointment

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/staffservice"
	"github.com/m04kA/SMC-AppointmentService/pkg/txmanager"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Моки зависимостей

type fakeAppointmentRepo struct {
	existing  []*domain.Appointment
	created   *domain.Appointment
	createErr error
	getErr    error
}

func (f *fakeAppointmentRepo) Create(_ context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	out := *appt
	out.ID = 777
	out.CreatedAt = time.Now()
	out.UpdatedAt = out.CreatedAt
	f.created = &out
	return &out, nil
}

func (f *fakeAppointmentRepo) GetWithFilter(_ context.Context, _ domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	return f.existing, f.getErr
}

type fakeStaffClient struct {
	staff *staffservice.Staff
	err   error
}

func (f *fakeStaffClient) GetStaff(_ context.Context, _ int64) (*staffservice.Staff, error) {
	return f.staff, f.err
}

// passthroughTxManager выполняет функцию без транзакции
type passthroughTxManager struct {
	err error
}

func (f *passthroughTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	if f.err != nil {
		return f.err
	}
	return fn(ctx)
}

// serializingTxManager выстраивает транзакционные колбэки в очередь -
// модель поведения SERIALIZABLE + FOR UPDATE: admission check и вставка
// конкурентов никогда не перемешиваются
type serializingTxManager struct {
	mu sync.Mutex
}

func (m *serializingTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(ctx)
}

// memoryAppointmentRepo хранит созданные записи и отдает их следующему
// admission check'у, как это делает реальная таблица
type memoryAppointmentRepo struct {
	mu     sync.Mutex
	nextID int64
	rows   []*domain.Appointment
}

func (r *memoryAppointmentRepo) Create(_ context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *appt
	r.nextID++
	stored.ID = r.nextID
	r.rows = append(r.rows, &stored)

	out := stored
	return &out, nil
}

func (r *memoryAppointmentRepo) GetWithFilter(_ context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*domain.Appointment, 0, len(r.rows))
	for _, row := range r.rows {
		if filter.StaffID != nil && row.StaffID != *filter.StaffID {
			continue
		}
		cp := *row
		out = append(out, &cp)
	}
	return out, nil
}

type fakePolicyProvider struct {
	policy *domain.TenantPolicy
}

func (f *fakePolicyProvider) ResolvePolicy(_ context.Context, tenantID int64) (*domain.TenantPolicy, error) {
	if f.policy != nil {
		return f.policy, nil
	}
	return domain.DefaultTenantPolicy(tenantID), nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func workingStaff(tenantID int64, start, end string) *staffservice.Staff {
	day := staffservice.DaySchedule{
		Enabled:   true,
		StartTime: &start,
		EndTime:   &end,
	}
	return &staffservice.Staff{
		ID:       1,
		TenantID: tenantID,
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

func validRequest() *Request {
	return &Request{
		TenantID:               10,
		StaffID:                1,
		ServiceID:              5,
		Date:                   time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC),
		StartTime:              "10:00",
		ServiceDurationMinutes: 60,
		CustomerContact:        "+79991234567",
	}
}

func existingAppt(start types.TimeString, duration int) *domain.Appointment {
	return &domain.Appointment{
		ID:                   100,
		TenantID:             10,
		StaffID:              1,
		StartTime:            start,
		TotalDurationMinutes: duration,
		Status:               domain.StatusScheduled,
	}
}

func TestExecute_Success(t *testing.T) {
	repo := &fakeAppointmentRepo{}
	uc := NewUseCase(
		repo,
		&fakeStaffClient{staff: workingStaff(10, "09:00", "18:00")},
		&passthroughTxManager{},
		&fakePolicyProvider{},
		nopLogger{},
	)

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, int64(777), resp.ID)
	assert.Equal(t, string(domain.StatusScheduled), resp.Status)
	assert.Equal(t, types.TimeString("10:00"), resp.StartTime)
	assert.Equal(t, types.TimeString("11:00"), resp.EndTime)
	assert.Equal(t, 60, resp.TotalDurationMinutes)

	require.NotNil(t, repo.created)
	assert.Equal(t, domain.StatusScheduled, repo.created.Status)
}

func TestExecute_AddOnsExtendDuration(t *testing.T) {
	repo := &fakeAppointmentRepo{}
	uc := NewUseCase(
		repo,
		&fakeStaffClient{staff: workingStaff(10, "09:00", "18:00")},
		&passthroughTxManager{},
		&fakePolicyProvider{},
		nopLogger{},
	)

	req := validRequest()
	req.AddOnIDs = []int64{21, 22}
	req.AddOnDurationMinutes = []int{15, 30}

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 105, resp.TotalDurationMinutes)
	assert.Equal(t, types.TimeString("11:45"), resp.EndTime)
}

func TestExecute_SlotConflict(t *testing.T) {
	repo := &fakeAppointmentRepo{existing: []*domain.Appointment{
		existingAppt("10:30", 60),
	}}
	uc := NewUseCase(
		repo,
		&fakeStaffClient{staff: workingStaff(10, "09:00", "18:00")},
		&passthroughTxManager{},
		&fakePolicyProvider{},
		nopLogger{},
	)

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotConflict)
	assert.Nil(t, repo.created)
}

func TestExecute_AdjacentAppointmentIsNotAConflict(t *testing.T) {
	// Запись 09:00-10:00, новая 10:00-11:00: полуоткрытые интервалы не пересекаются
	repo := &fakeAppointmentRepo{existing: []*domain.Appointment{
		existingAppt("09:00", 60),
	}}
	uc := NewUseCase(
		repo,
		&fakeStaffClient{staff: workingStaff(10, "09:00", "18:00")},
		&passthroughTxManager{},
		&fakePolicyProvider{},
		nopLogger{},
	)

	_, err := uc.Execute(context.Background(), validRequest())
	assert.NoError(t, err)
}

func TestExecute_BufferFromPolicyCreatesConflict(t *testing.T) {
	// Буфер 15 минут: запись 09:00-10:00 занимает до 10:15, новая 10:00 конфликтует
	repo := &fakeAppointmentRepo{existing: []*domain.Appointment{
		existingAppt("09:00", 60),
	}}
	uc := NewUseCase(
		repo,
		&fakeStaffClient{staff: workingStaff(10, "09:00", "18:00")},
		&passthroughTxManager{},
		&fakePolicyProvider{policy: &domain.TenantPolicy{TenantID: 10, IntervalMinutes: 15, BufferMinutes: 15, LookaheadMinutes: 15}},
		nopLogger{},
	)

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotConflict)
}

func TestExecute_OutsideWorkingHours(t *testing.T) {
	uc := NewUseCase(
		&fakeAppointmentRepo{},
		&fakeStaffClient{staff: workingStaff(10, "09:00", "10:30")},
		&passthroughTxManager{},
		&fakePolicyProvider{},
		nopLogger{},
	)

	// Слот 10:00-11:00 не помещается в рабочие часы до 10:30
	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrOutsideWorkingHours)
}

func TestExecute_StaffNotFound(t *testing.T) {
	uc := NewUseCase(
		&fakeAppointmentRepo{},
		&fakeStaffClient{err: staffservice.ErrStaffNotFound},
		&passthroughTxManager{},
		&fakePolicyProvider{},
		nopLogger{},
	)

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrStaffNotFound)
}

func TestExecute_StaffFromAnotherTenant(t *testing.T) {
	uc := NewUseCase(
		&fakeAppointmentRepo{},
		&fakeStaffClient{staff: workingStaff(99, "09:00", "18:00")},
		&passthroughTxManager{},
		&fakePolicyProvider{},
		nopLogger{},
	)

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrStaffNotInTenant)
}

func TestExecute_SerializationRetriesExhaustedLooksLikeConflict(t *testing.T) {
	uc := NewUseCase(
		&fakeAppointmentRepo{},
		&fakeStaffClient{staff: workingStaff(10, "09:00", "18:00")},
		&passthroughTxManager{err: txmanager.ErrSerializationFailure},
		&fakePolicyProvider{},
		nopLogger{},
	)

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotConflict)
}

func TestExecute_ConcurrentCreatesForSameInterval(t *testing.T) {
	repo := &memoryAppointmentRepo{}
	uc := NewUseCase(
		repo,
		&fakeStaffClient{staff: workingStaff(10, "09:00", "18:00")},
		&serializingTxManager{},
		&fakePolicyProvider{},
		nopLogger{},
	)

	// Два конкурентных запроса на один и тот же интервал: admission check
	// второго обязан увидеть вставку первого
	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.Execute(context.Background(), validRequest())
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var successes, conflicts int
	for err := range errs {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, ErrSlotConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, conflicts)
	require.Len(t, repo.rows, 1)
	assert.Equal(t, types.TimeString("10:00"), repo.rows[0].StartTime)
}

func TestExecute_ValidationErrors(t *testing.T) {
	uc := NewUseCase(
		&fakeAppointmentRepo{},
		&fakeStaffClient{staff: workingStaff(10, "09:00", "18:00")},
		&passthroughTxManager{},
		&fakePolicyProvider{},
		nopLogger{},
	)

	tests := []struct {
		name   string
		mutate func(*Request)
	}{
		{name: "zero tenant", mutate: func(r *Request) { r.TenantID = 0 }},
		{name: "zero staff", mutate: func(r *Request) { r.StaffID = 0 }},
		{name: "bad time format", mutate: func(r *Request) { r.StartTime = "10am" }},
		{name: "duration too short", mutate: func(r *Request) { r.ServiceDurationMinutes = 1 }},
		{name: "mismatched add-on slices", mutate: func(r *Request) {
			r.AddOnIDs = []int64{1}
			r.AddOnDurationMinutes = nil
		}},
		{name: "empty contact", mutate: func(r *Request) { r.CustomerContact = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)
			_, err := uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
