package waitlist

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// WaitlistRepository интерфейс репозитория листа ожидания
type WaitlistRepository interface {
	Create(ctx context.Context, entry *domain.WaitlistEntry) (*domain.WaitlistEntry, error)
	GetByID(ctx context.Context, id int64) (*domain.WaitlistEntry, error)
	HasWaitingSince(ctx context.Context, tenantID int64, contact string, since time.Time) (bool, error)
	GetOldestWaitingMatch(ctx context.Context, tenantID int64, slotMinutes int) (*domain.WaitlistEntry, error)
	GetLatestNotifiedByContact(ctx context.Context, contact string) (*domain.WaitlistEntry, error)
	MarkNotified(ctx context.Context, id int64, notifiedAt, slotStart time.Time, staffID int64, slotMinutes int, deadline time.Time) (bool, error)
	CompleteOffer(ctx context.Context, id int64, status domain.WaitlistStatus, bookedAppointmentID *int64) (bool, error)
	MarkExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error)
	DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// NotifyServiceClient интерфейс клиента NotifyService
type NotifyServiceClient interface {
	Send(ctx context.Context, contact, message string) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

// MetricsCollector интерфейс для метрик каскада
type MetricsCollector interface {
	IncWaitlistOffer(tenantID string)
	IncWaitlistOutcome(outcome string)
}

// NoopMetrics заглушка метрик для окружений с выключенным prometheus
type NoopMetrics struct{}

func (NoopMetrics) IncWaitlistOffer(tenantID string) {}

func (NoopMetrics) IncWaitlistOutcome(outcome string) {}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
