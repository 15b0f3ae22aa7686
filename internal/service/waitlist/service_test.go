package waitlist

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	waitlistRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/waitlist"
	"github.com/m04kA/SMC-AppointmentService/internal/service/waitlist/models"
)

// Моки зависимостей

// memoryRepo репозиторий листа ожидания в памяти с той же семантикой
// условных переходов, что и SQL-реализация
type memoryRepo struct {
	mu      sync.Mutex
	nextID  int64
	entries map[int64]*domain.WaitlistEntry
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{nextID: 1, entries: make(map[int64]*domain.WaitlistEntry)}
}

func (r *memoryRepo) Create(_ context.Context, entry *domain.WaitlistEntry) (*domain.WaitlistEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *entry
	stored.ID = r.nextID
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}
	r.nextID++
	r.entries[stored.ID] = &stored

	out := stored
	return &out, nil
}

func (r *memoryRepo) GetByID(_ context.Context, id int64) (*domain.WaitlistEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[id]
	if !ok {
		return nil, waitlistRepo.ErrEntryNotFound
	}
	out := *entry
	return &out, nil
}

func (r *memoryRepo) HasWaitingSince(_ context.Context, tenantID int64, contact string, since time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.entries {
		if e.TenantID == tenantID && e.CustomerContact == contact &&
			e.Status == domain.WaitlistStatusWaiting && !e.CreatedAt.Before(since) {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryRepo) GetOldestWaitingMatch(_ context.Context, tenantID int64, slotMinutes int) (*domain.WaitlistEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var candidates []*domain.WaitlistEntry
	for _, e := range r.entries {
		if e.TenantID == tenantID && e.Status == domain.WaitlistStatusWaiting && e.ServiceDurationMinutes <= slotMinutes {
			candidates = append(candidates, e)
		}
	}
	if len(candidates) == 0 {
		return nil, waitlistRepo.ErrEntryNotFound
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].CreatedAt.Equal(candidates[j].CreatedAt) {
			return candidates[i].ID < candidates[j].ID
		}
		return candidates[i].CreatedAt.Before(candidates[j].CreatedAt)
	})

	out := *candidates[0]
	return &out, nil
}

func (r *memoryRepo) GetLatestNotifiedByContact(_ context.Context, contact string) (*domain.WaitlistEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var latest *domain.WaitlistEntry
	for _, e := range r.entries {
		if e.CustomerContact != contact || e.Status != domain.WaitlistStatusNotified {
			continue
		}
		if latest == nil || e.NotifiedAt.After(*latest.NotifiedAt) {
			latest = e
		}
	}
	if latest == nil {
		return nil, waitlistRepo.ErrEntryNotFound
	}
	out := *latest
	return &out, nil
}

func (r *memoryRepo) MarkNotified(_ context.Context, id int64, notifiedAt, slotStart time.Time, staffID int64, slotMinutes int, deadline time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[id]
	if !ok || entry.Status != domain.WaitlistStatusWaiting {
		return false, nil
	}

	entry.Status = domain.WaitlistStatusNotified
	entry.NotifiedAt = &notifiedAt
	entry.NotifiedSlotStart = &slotStart
	entry.NotifiedStaffID = &staffID
	entry.NotifiedSlotMinutes = &slotMinutes
	entry.ResponseDeadline = &deadline
	return true, nil
}

func (r *memoryRepo) CompleteOffer(_ context.Context, id int64, status domain.WaitlistStatus, bookedAppointmentID *int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[id]
	if !ok || entry.Status != domain.WaitlistStatusNotified {
		return false, nil
	}

	entry.Status = status
	entry.BookedAppointmentID = bookedAppointmentID
	return true, nil
}

func (r *memoryRepo) MarkExpiredBefore(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for _, e := range r.entries {
		open := e.Status == domain.WaitlistStatusWaiting || e.Status == domain.WaitlistStatusNotified
		if open && e.CreatedAt.Before(cutoff) {
			e.Status = domain.WaitlistStatusExpired
			n++
		}
	}
	return n, nil
}

func (r *memoryRepo) DeleteCreatedBefore(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for id, e := range r.entries {
		if e.CreatedAt.Before(cutoff) {
			delete(r.entries, id)
			n++
		}
	}
	return n, nil
}

func (r *memoryRepo) status(id int64) domain.WaitlistStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.entries[id].Status
}

type fakeNotifyClient struct {
	mu       sync.Mutex
	messages []string
	contacts []string
	err      error
}

func (f *fakeNotifyClient) Send(_ context.Context, contact, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.contacts = append(f.contacts, contact)
	f.messages = append(f.messages, message)
	return nil
}

type passthroughTxManager struct{}

func (passthroughTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedTimeProvider struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fixedTimeProvider) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newTestService(repo *memoryRepo, notify *fakeNotifyClient, now time.Time) (*Service, *fixedTimeProvider) {
	tp := &fixedTimeProvider{now: now}
	svc := NewService(repo, notify, passthroughTxManager{}, tp, nil, nopLogger{})
	return svc, tp
}

func enqueue(t *testing.T, svc *Service, tenantID int64, contact string, duration int) int64 {
	t.Helper()
	resp, err := svc.Enqueue(context.Background(), &models.EnqueueRequest{
		TenantID:               tenantID,
		CustomerContact:        contact,
		ServiceDurationMinutes: duration,
	})
	require.NoError(t, err)
	return resp.ID
}

func freedSlot(now time.Time, leadMinutes, durationMinutes int) domain.CancellationEvent {
	start := now.Add(time.Duration(leadMinutes) * time.Minute)
	return domain.CancellationEvent{
		TenantID:        10,
		StaffID:         1,
		Date:            time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location()),
		SlotStart:       start,
		DurationMinutes: durationMinutes,
	}
}

func TestEnqueue_DuplicateSameDayRejected(t *testing.T) {
	now := time.Date(2026, 3, 16, 10, 0, 0, 0, time.UTC)
	repo := newMemoryRepo()
	svc, _ := newTestService(repo, &fakeNotifyClient{}, now)
	defer svc.Shutdown()

	enqueue(t, svc, 10, "+79991234567", 60)

	_, err := svc.Enqueue(context.Background(), &models.EnqueueRequest{
		TenantID:               10,
		CustomerContact:        "+79991234567",
		ServiceDurationMinutes: 30,
	})
	assert.ErrorIs(t, err, ErrAlreadyQueued)

	// Тот же контакт в другом салоне - не дубликат
	_, err = svc.Enqueue(context.Background(), &models.EnqueueRequest{
		TenantID:               20,
		CustomerContact:        "+79991234567",
		ServiceDurationMinutes: 30,
	})
	assert.NoError(t, err)
}

func TestEnqueue_Validation(t *testing.T) {
	now := time.Date(2026, 3, 16, 10, 0, 0, 0, time.UTC)
	svc, _ := newTestService(newMemoryRepo(), &fakeNotifyClient{}, now)
	defer svc.Shutdown()

	tests := []struct {
		name string
		req  *models.EnqueueRequest
	}{
		{name: "zero tenant", req: &models.EnqueueRequest{CustomerContact: "+7999", ServiceDurationMinutes: 60}},
		{name: "empty contact", req: &models.EnqueueRequest{TenantID: 10, ServiceDurationMinutes: 60}},
		{name: "duration too short", req: &models.EnqueueRequest{TenantID: 10, CustomerContact: "+7999", ServiceDurationMinutes: 1}},
		{name: "duration too long", req: &models.EnqueueRequest{TenantID: 10, CustomerContact: "+7999", ServiceDurationMinutes: 999}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Enqueue(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestHandleCancellation_StrictFCFS(t *testing.T) {
	// Очередь: 30 минут (старейшая), 45 минут, 20 минут. Слот на 40 минут:
	// подходят записи на 30 и 20, выбирается самая старая, а не лучшая по длительности
	now := time.Date(2026, 3, 16, 10, 0, 0, 0, time.UTC)
	repo := newMemoryRepo()
	notify := &fakeNotifyClient{}
	svc, _ := newTestService(repo, notify, now)
	defer svc.Shutdown()

	first := enqueue(t, svc, 10, "+7999000001", 30)
	second := enqueue(t, svc, 10, "+7999000002", 45)
	third := enqueue(t, svc, 10, "+7999000003", 20)

	svc.HandleCancellation(context.Background(), freedSlot(now, 180, 40))

	assert.Equal(t, domain.WaitlistStatusNotified, repo.status(first))
	assert.Equal(t, domain.WaitlistStatusWaiting, repo.status(second))
	assert.Equal(t, domain.WaitlistStatusWaiting, repo.status(third))

	require.Len(t, notify.contacts, 1)
	assert.Equal(t, "+7999000001", notify.contacts[0])
}

func TestHandleCancellation_NoMatchingDuration(t *testing.T) {
	// Единственная запись требует 90 минут, слот всего на 60: предложения нет
	now := time.Date(2026, 3, 16, 10, 0, 0, 0, time.UTC)
	repo := newMemoryRepo()
	notify := &fakeNotifyClient{}
	svc, _ := newTestService(repo, notify, now)
	defer svc.Shutdown()

	id := enqueue(t, svc, 10, "+7999000001", 90)

	svc.HandleCancellation(context.Background(), freedSlot(now, 180, 60))

	assert.Equal(t, domain.WaitlistStatusWaiting, repo.status(id))
	assert.Empty(t, notify.contacts)
}

func TestHandleCancellation_EmptyQueueIsNoop(t *testing.T) {
	now := time.Date(2026, 3, 16, 10, 0, 0, 0, time.UTC)
	notify := &fakeNotifyClient{}
	svc, _ := newTestService(newMemoryRepo(), notify, now)
	defer svc.Shutdown()

	svc.HandleCancellation(context.Background(), freedSlot(now, 180, 60))
	assert.Empty(t, notify.contacts)
}

func TestHandleCancellation_PastSlotSkipsCascade(t *testing.T) {
	now := time.Date(2026, 3, 16, 10, 0, 0, 0, time.UTC)
	repo := newMemoryRepo()
	notify := &fakeNotifyClient{}
	svc, _ := newTestService(repo, notify, now)
	defer svc.Shutdown()

	id := enqueue(t, svc, 10, "+7999000001", 30)

	svc.HandleCancellation(context.Background(), freedSlot(now, -30, 60))

	assert.Equal(t, domain.WaitlistStatusWaiting, repo.status(id))
	assert.Empty(t, notify.contacts)
}

func TestHandleCancellation_ResponseDeadlineTiers(t *testing.T) {
	// Чем ближе слот, тем короче окно ответа
	tests := []struct {
		leadMinutes   int
		windowMinutes int
	}{
		{leadMinutes: 20, windowMinutes: 10},
		{leadMinutes: 90, windowMinutes: 20},
		{leadMinutes: 200, windowMinutes: 45},
		{leadMinutes: 300, windowMinutes: 120},
	}

	for _, tt := range tests {
		now := time.Date(2026, 3, 16, 10, 0, 0, 0, time.UTC)
		repo := newMemoryRepo()
		svc, _ := newTestService(repo, &fakeNotifyClient{}, now)

		id := enqueue(t, svc, 10, "+7999000001", 30)
		svc.HandleCancellation(context.Background(), freedSlot(now, tt.leadMinutes, 60))

		entry, err := repo.GetByID(context.Background(), id)
		require.NoError(t, err)
		require.NotNil(t, entry.ResponseDeadline)

		want := now.Add(time.Duration(tt.windowMinutes) * time.Minute)
		assert.Equal(t, want, *entry.ResponseDeadline, "lead=%d", tt.leadMinutes)

		svc.Shutdown()
	}
}

func TestHandleResponse_Accept(t *testing.T) {
	now := time.Date(2026, 3, 16, 10, 0, 0, 0, time.UTC)
	repo := newMemoryRepo()
	svc, _ := newTestService(repo, &fakeNotifyClient{}, now)
	defer svc.Shutdown()

	id := enqueue(t, svc, 10, "+7999000001", 30)
	svc.HandleCancellation(context.Background(), freedSlot(now, 180, 60))

	result, err := svc.HandleResponse(context.Background(), &models.RespondRequest{
		CustomerContact: "+7999000001",
		Accepted:        true,
	})
	require.NoError(t, err)

	assert.True(t, result.Found)
	assert.Equal(t, models.OutcomeBooked, result.Outcome)
	assert.Equal(t, domain.WaitlistStatusBooked, repo.status(id))
}

func TestHandleResponse_DeclineCascadesToNext(t *testing.T) {
	now := time.Date(2026, 3, 16, 10, 0, 0, 0, time.UTC)
	repo := newMemoryRepo()
	notify := &fakeNotifyClient{}
	svc, _ := newTestService(repo, notify, now)
	defer svc.Shutdown()

	first := enqueue(t, svc, 10, "+7999000001", 30)
	second := enqueue(t, svc, 10, "+7999000002", 30)

	svc.HandleCancellation(context.Background(), freedSlot(now, 180, 60))
	require.Equal(t, domain.WaitlistStatusNotified, repo.status(first))

	result, err := svc.HandleResponse(context.Background(), &models.RespondRequest{
		CustomerContact: "+7999000001",
		Accepted:        false,
	})
	require.NoError(t, err)

	assert.True(t, result.Found)
	assert.Equal(t, models.OutcomeDeclined, result.Outcome)
	assert.Equal(t, domain.WaitlistStatusNoResponse, repo.status(first))

	// Слот ушел следующему в очереди
	assert.Equal(t, domain.WaitlistStatusNotified, repo.status(second))
	require.Len(t, notify.contacts, 2)
	assert.Equal(t, "+7999000002", notify.contacts[1])
}

func TestHandleResponse_NoPendingOffer(t *testing.T) {
	now := time.Date(2026, 3, 16, 10, 0, 0, 0, time.UTC)
	svc, _ := newTestService(newMemoryRepo(), &fakeNotifyClient{}, now)
	defer svc.Shutdown()

	result, err := svc.HandleResponse(context.Background(), &models.RespondRequest{
		CustomerContact: "+7999000001",
		Accepted:        true,
	})
	require.NoError(t, err)
	assert.False(t, result.Found)
}

func TestHandleResponse_LosesRaceToTimer(t *testing.T) {
	// Таймер успел закрыть предложение первым: условный переход не проходит,
	// ответ выглядит как отсутствие предложения
	now := time.Date(2026, 3, 16, 10, 0, 0, 0, time.UTC)
	repo := newMemoryRepo()
	svc, _ := newTestService(repo, &fakeNotifyClient{}, now)
	defer svc.Shutdown()

	id := enqueue(t, svc, 10, "+7999000001", 30)
	event := freedSlot(now, 180, 60)
	svc.HandleCancellation(context.Background(), event)

	// Имитируем срабатывание таймера до прихода ответа
	svc.onDeadline(id, event)
	require.Equal(t, domain.WaitlistStatusNoResponse, repo.status(id))

	result, err := svc.HandleResponse(context.Background(), &models.RespondRequest{
		CustomerContact: "+7999000001",
		Accepted:        true,
	})
	require.NoError(t, err)
	assert.False(t, result.Found)
	assert.Equal(t, domain.WaitlistStatusNoResponse, repo.status(id))
}

func TestOnDeadline_LapsedOfferCascadesToNext(t *testing.T) {
	now := time.Date(2026, 3, 16, 10, 0, 0, 0, time.UTC)
	repo := newMemoryRepo()
	notify := &fakeNotifyClient{}
	svc, _ := newTestService(repo, notify, now)
	defer svc.Shutdown()

	first := enqueue(t, svc, 10, "+7999000001", 30)
	second := enqueue(t, svc, 10, "+7999000002", 30)

	event := freedSlot(now, 180, 60)
	svc.HandleCancellation(context.Background(), event)
	require.Equal(t, domain.WaitlistStatusNotified, repo.status(first))

	svc.onDeadline(first, event)

	assert.Equal(t, domain.WaitlistStatusNoResponse, repo.status(first))
	assert.Equal(t, domain.WaitlistStatusNotified, repo.status(second))

	// Сообщения: оффер первому, сгоревший оффер первому, оффер второму
	require.Len(t, notify.contacts, 3)
	assert.Equal(t, []string{"+7999000001", "+7999000001", "+7999000002"}, notify.contacts)
}

func TestOnDeadline_AfterAcceptIsNoop(t *testing.T) {
	now := time.Date(2026, 3, 16, 10, 0, 0, 0, time.UTC)
	repo := newMemoryRepo()
	svc, _ := newTestService(repo, &fakeNotifyClient{}, now)
	defer svc.Shutdown()

	id := enqueue(t, svc, 10, "+7999000001", 30)
	event := freedSlot(now, 180, 60)
	svc.HandleCancellation(context.Background(), event)

	_, err := svc.HandleResponse(context.Background(), &models.RespondRequest{
		CustomerContact: "+7999000001",
		Accepted:        true,
	})
	require.NoError(t, err)

	svc.onDeadline(id, event)
	assert.Equal(t, domain.WaitlistStatusBooked, repo.status(id))
}

func TestSweepExpired(t *testing.T) {
	now := time.Date(2026, 3, 16, 10, 0, 0, 0, time.UTC)
	repo := newMemoryRepo()
	svc, _ := newTestService(repo, &fakeNotifyClient{}, now)
	defer svc.Shutdown()

	// Вчерашняя waiting-запись: должна стать expired
	stale, err := repo.Create(context.Background(), &domain.WaitlistEntry{
		TenantID:               10,
		CustomerContact:        "+7999000001",
		ServiceDurationMinutes: 30,
		Status:                 domain.WaitlistStatusWaiting,
		CreatedAt:              now.AddDate(0, 0, -1),
	})
	require.NoError(t, err)

	// Запись старше срока хранения: должна быть удалена
	_, err = repo.Create(context.Background(), &domain.WaitlistEntry{
		TenantID:               10,
		CustomerContact:        "+7999000002",
		ServiceDurationMinutes: 30,
		Status:                 domain.WaitlistStatusExpired,
		CreatedAt:              now.AddDate(0, 0, -10),
	})
	require.NoError(t, err)

	// Сегодняшняя запись: не трогается
	fresh, err := repo.Create(context.Background(), &domain.WaitlistEntry{
		TenantID:               10,
		CustomerContact:        "+7999000003",
		ServiceDurationMinutes: 30,
		Status:                 domain.WaitlistStatusWaiting,
		CreatedAt:              now.Add(-time.Hour),
	})
	require.NoError(t, err)

	expired, err := svc.SweepExpired(context.Background())
	require.NoError(t, err)

	// Вчерашняя и недельной давности записи были waiting/старыми:
	// просроченных waiting две быть не может, старая уже expired
	assert.Equal(t, int64(1), expired)
	assert.Equal(t, domain.WaitlistStatusExpired, repo.status(stale.ID))
	assert.Equal(t, domain.WaitlistStatusWaiting, repo.status(fresh.ID))

	_, err = repo.GetByID(context.Background(), 2)
	assert.ErrorIs(t, err, waitlistRepo.ErrEntryNotFound)
}

func TestSweepExpired_StaleNotifiedOffer(t *testing.T) {
	now := time.Date(2026, 3, 16, 10, 0, 0, 0, time.UTC)
	repo := newMemoryRepo()

	// Позавчерашнее предложение, чей таймер умер вместе с процессом:
	// новый экземпляр сервиса про него ничего не знает
	notifiedAt := now.AddDate(0, 0, -2)
	slotStart := notifiedAt.Add(2 * time.Hour)
	deadline := notifiedAt.Add(20 * time.Minute)
	staffID := int64(1)
	slotMinutes := 60

	stale, err := repo.Create(context.Background(), &domain.WaitlistEntry{
		TenantID:               10,
		CustomerContact:        "+7999000001",
		ServiceDurationMinutes: 30,
		Status:                 domain.WaitlistStatusNotified,
		CreatedAt:              notifiedAt,
		NotifiedAt:             &notifiedAt,
		NotifiedSlotStart:      &slotStart,
		NotifiedStaffID:        &staffID,
		NotifiedSlotMinutes:    &slotMinutes,
		ResponseDeadline:       &deadline,
	})
	require.NoError(t, err)

	svc, _ := newTestService(repo, &fakeNotifyClient{}, now)
	defer svc.Shutdown()

	expired, err := svc.SweepExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), expired)
	assert.Equal(t, domain.WaitlistStatusExpired, repo.status(stale.ID))

	// Запоздалое согласие на давно прошедший слот больше ничего не бронирует
	result, err := svc.HandleResponse(context.Background(), &models.RespondRequest{
		CustomerContact: "+7999000001",
		Accepted:        true,
	})
	require.NoError(t, err)
	assert.False(t, result.Found)
	assert.Equal(t, domain.WaitlistStatusExpired, repo.status(stale.ID))
}

func TestShutdown_BlocksNewTimers(t *testing.T) {
	reg := newTimerRegistry()

	fired := make(chan struct{}, 1)
	reg.Arm(1, time.Hour, func() { fired <- struct{}{} })
	reg.Shutdown()

	// После Shutdown таймеры не взводятся
	reg.Arm(2, time.Millisecond, func() { fired <- struct{}{} })

	select {
	case <-fired:
		t.Fatal("timer fired after shutdown")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestTimerRegistry_CancelStopsTimer(t *testing.T) {
	reg := newTimerRegistry()

	fired := make(chan struct{}, 1)
	reg.Arm(1, 10*time.Millisecond, func() { fired <- struct{}{} })
	reg.Cancel(1)

	select {
	case <-fired:
		t.Fatal("cancelled timer fired")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestResponseWindowMinutes(t *testing.T) {
	assert.Equal(t, 10, domain.ResponseWindowMinutes(20*time.Minute))
	assert.Equal(t, 20, domain.ResponseWindowMinutes(90*time.Minute))
	assert.Equal(t, 45, domain.ResponseWindowMinutes(200*time.Minute))
	assert.Equal(t, 120, domain.ResponseWindowMinutes(300*time.Minute))

	// Границы ярусов
	assert.Equal(t, 20, domain.ResponseWindowMinutes(30*time.Minute))
	assert.Equal(t, 45, domain.ResponseWindowMinutes(120*time.Minute))
	assert.Equal(t, 120, domain.ResponseWindowMinutes(240*time.Minute))
}
