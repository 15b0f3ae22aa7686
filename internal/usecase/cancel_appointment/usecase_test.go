package cancel_appointment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
)

// Моки зависимостей

type fakeAppointmentRepo struct {
	byID      *domain.Appointment
	byIDErr   error
	cancelErr error
	cancelled bool
}

func (f *fakeAppointmentRepo) GetByID(_ context.Context, _ int64) (*domain.Appointment, error) {
	if f.byIDErr != nil {
		return nil, f.byIDErr
	}
	out := *f.byID
	return &out, nil
}

func (f *fakeAppointmentRepo) Cancel(_ context.Context, _ int64, _ string) error {
	if f.cancelErr != nil {
		return f.cancelErr
	}
	f.cancelled = true
	return nil
}

// recordingCascade фиксирует полученные события и момент вызова
type recordingCascade struct {
	events       []domain.CancellationEvent
	calledDuring bool // событие пришло до завершения транзакции
}

func (r *recordingCascade) HandleCancellation(_ context.Context, event domain.CancellationEvent) {
	r.events = append(r.events, event)
}

// trackingTxManager отмечает, был ли каскад вызван внутри транзакции
type trackingTxManager struct {
	cascade  *recordingCascade
	inFlight bool
}

func (m *trackingTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	m.inFlight = true
	err := fn(ctx)
	if len(m.cascade.events) > 0 {
		m.cascade.calledDuring = true
	}
	m.inFlight = false
	return err
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func scheduledAppt() *domain.Appointment {
	return &domain.Appointment{
		ID:                   50,
		TenantID:             10,
		StaffID:              1,
		ServiceID:            5,
		Date:                 time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC),
		StartTime:            "10:00",
		TotalDurationMinutes: 60,
		Status:               domain.StatusScheduled,
		CustomerContact:      "+79991234567",
	}
}

func TestExecute_CancelEmitsEventAfterCommit(t *testing.T) {
	repo := &fakeAppointmentRepo{byID: scheduledAppt()}
	cascade := &recordingCascade{}
	txMgr := &trackingTxManager{cascade: cascade}
	uc := NewUseCase(repo, cascade, txMgr, nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{
		AppointmentID: 50,
		TenantID:      10,
		Reason:        "клиент попросил отменить",
	})
	require.NoError(t, err)

	assert.True(t, repo.cancelled)
	assert.Equal(t, string(domain.StatusCancelled), resp.Status)
	require.NotNil(t, resp.CancellationReason)
	assert.Equal(t, "клиент попросил отменить", *resp.CancellationReason)
	assert.NotNil(t, resp.CancelledAt)

	// Событие каскада: ровно одно, после коммита, с координатами слота
	require.Len(t, cascade.events, 1)
	assert.False(t, cascade.calledDuring, "каскад не должен вызываться внутри транзакции")

	event := cascade.events[0]
	assert.Equal(t, int64(10), event.TenantID)
	assert.Equal(t, int64(1), event.StaffID)
	assert.Equal(t, 60, event.DurationMinutes)
	assert.Equal(t, time.Date(2026, 3, 16, 10, 0, 0, 0, time.UTC), event.SlotStart)
}

func TestExecute_NotFound(t *testing.T) {
	repo := &fakeAppointmentRepo{byIDErr: appointment.ErrAppointmentNotFound}
	cascade := &recordingCascade{}
	uc := NewUseCase(repo, cascade, &trackingTxManager{cascade: cascade}, nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{
		AppointmentID: 50,
		TenantID:      10,
		Reason:        "причина",
	})
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
	assert.Empty(t, cascade.events)
}

func TestExecute_ForeignTenantLooksLikeNotFound(t *testing.T) {
	repo := &fakeAppointmentRepo{byID: scheduledAppt()}
	cascade := &recordingCascade{}
	uc := NewUseCase(repo, cascade, &trackingTxManager{cascade: cascade}, nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{
		AppointmentID: 50,
		TenantID:      99,
		Reason:        "причина",
	})
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
	assert.False(t, repo.cancelled)
	assert.Empty(t, cascade.events)
}

func TestExecute_TerminalStatusNotCancellable(t *testing.T) {
	for _, status := range []domain.AppointmentStatus{
		domain.StatusCompleted,
		domain.StatusCancelled,
		domain.StatusNoShow,
	} {
		t.Run(string(status), func(t *testing.T) {
			current := scheduledAppt()
			current.Status = status

			repo := &fakeAppointmentRepo{byID: current}
			cascade := &recordingCascade{}
			uc := NewUseCase(repo, cascade, &trackingTxManager{cascade: cascade}, nopLogger{})

			_, err := uc.Execute(context.Background(), &Request{
				AppointmentID: 50,
				TenantID:      10,
				Reason:        "причина",
			})
			assert.ErrorIs(t, err, ErrNotCancellable)
			assert.Empty(t, cascade.events)
		})
	}
}

func TestExecute_ConcurrentStatusChange(t *testing.T) {
	// Условный UPDATE не нашел строку в отменяемом статусе
	repo := &fakeAppointmentRepo{
		byID:      scheduledAppt(),
		cancelErr: appointment.ErrAppointmentNotFound,
	}
	cascade := &recordingCascade{}
	uc := NewUseCase(repo, cascade, &trackingTxManager{cascade: cascade}, nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{
		AppointmentID: 50,
		TenantID:      10,
		Reason:        "причина",
	})
	assert.ErrorIs(t, err, ErrNotCancellable)
	assert.Empty(t, cascade.events)
}

func TestRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     Request
		wantErr bool
	}{
		{name: "valid", req: Request{AppointmentID: 1, TenantID: 1, Reason: "причина"}},
		{name: "zero appointment id", req: Request{TenantID: 1, Reason: "причина"}, wantErr: true},
		{name: "zero tenant id", req: Request{AppointmentID: 1, Reason: "причина"}, wantErr: true},
		{name: "empty reason", req: Request{AppointmentID: 1, TenantID: 1}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInput)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
