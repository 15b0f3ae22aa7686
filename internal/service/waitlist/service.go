package waitlist

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	waitlistRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/waitlist"
	"github.com/m04kA/SMC-AppointmentService/internal/service/waitlist/models"
)

const (
	// Записи старше этого срока физически удаляются ежедневной зачисткой
	sweepRetentionDays = 7

	// Зачистка запускается с небольшим отступом после местной полуночи
	sweepStartDelay = 5 * time.Minute

	msgSlotOffer   = "Освободилось время %s. Ответьте в течение %d минут, чтобы забрать его"
	msgOfferLapsed = "Время ожидания ответа на предложение истекло, слот передан следующему в очереди"
)

// Service движок каскада листа ожидания.
//
// Жизненный цикл предложения: отмена записи освобождает слот, слот
// предлагается самой старой подходящей записи очереди, взводится таймер
// дедлайна. Предложение закрывает ровно одно из событий: явный ответ
// клиента или срабатывание таймера. Разрешение гонки между ними лежит
// на условном переходе notified → {booked | no_response} в репозитории:
// кто первым застал статус notified, тот и выполняет переход
type Service struct {
	repo         WaitlistRepository
	notifyClient NotifyServiceClient
	txManager    TransactionManager
	timeProvider TimeProvider
	metrics      MetricsCollector
	logger       Logger

	timers   *timerRegistry
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewService создает новый экземпляр движка каскада
func NewService(
	repo WaitlistRepository,
	notifyClient NotifyServiceClient,
	txManager TransactionManager,
	timeProvider TimeProvider,
	metrics MetricsCollector,
	logger Logger,
) *Service {
	if timeProvider == nil {
		timeProvider = &RealTimeProvider{}
	}
	if metrics == nil {
		metrics = NoopMetrics{}
	}

	return &Service{
		repo:         repo,
		notifyClient: notifyClient,
		txManager:    txManager,
		timeProvider: timeProvider,
		metrics:      metrics,
		logger:       logger,
		timers:       newTimerRegistry(),
		stopCh:       make(chan struct{}),
	}
}

// Enqueue ставит клиента в лист ожидания салона.
// Один клиент может стоять в очереди салона не больше одного раза
// с местной полуночи текущего дня
func (s *Service) Enqueue(ctx context.Context, req *models.EnqueueRequest) (*models.EntryResponse, error) {
	s.logger.Info("Enqueue: tenant=%d, contact=%s, duration=%d",
		req.TenantID, req.CustomerContact, req.ServiceDurationMinutes)

	if err := validateEnqueueRequest(req); err != nil {
		s.logger.Warn("Enqueue: validation failed: %v", err)
		return nil, err
	}

	since := localMidnight(s.timeProvider.Now())

	queued, err := s.repo.HasWaitingSince(ctx, req.TenantID, req.CustomerContact, since)
	if err != nil {
		s.logger.Error("Enqueue: failed to check existing entries: %v", err)
		return nil, fmt.Errorf("%w: Enqueue - repository error: %v", ErrInternal, err)
	}
	if queued {
		s.logger.Warn("Enqueue: contact=%s is already queued for tenant=%d today",
			req.CustomerContact, req.TenantID)
		return nil, ErrAlreadyQueued
	}

	created, err := s.repo.Create(ctx, &domain.WaitlistEntry{
		TenantID:               req.TenantID,
		CustomerContact:        req.CustomerContact,
		ServiceDurationMinutes: req.ServiceDurationMinutes,
		Status:                 domain.WaitlistStatusWaiting,
	})
	if err != nil {
		s.logger.Error("Enqueue: failed to create entry: %v", err)
		return nil, fmt.Errorf("%w: Enqueue - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Enqueue: created entry id=%d for tenant=%d", created.ID, created.TenantID)
	return models.FromDomainEntry(created), nil
}

// HandleCancellation обрабатывает освободившийся слот: выбирает самую
// старую подходящую по длительности запись очереди (строгий FCFS),
// переводит ее в notified и взводит таймер дедлайна ответа.
// Пустая очередь - штатный no-op. Ошибки здесь не возвращаются:
// каскад - побочный эффект отмены, сама отмена уже закоммичена
func (s *Service) HandleCancellation(ctx context.Context, event domain.CancellationEvent) {
	now := s.timeProvider.Now()

	// Слот, который уже начался, предлагать некому
	if !event.SlotStart.After(now) {
		s.logger.Info("HandleCancellation: slot %s already started, skipping cascade",
			event.SlotStart.Format(time.RFC3339))
		return
	}

	windowMinutes := domain.ResponseWindowMinutes(event.SlotStart.Sub(now))
	deadline := now.Add(time.Duration(windowMinutes) * time.Minute)

	var selected *domain.WaitlistEntry

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		// Кандидат берется с блокировкой (FOR UPDATE): конкурентные
		// каскады не могут предложить два слота одной записи
		entry, err := s.repo.GetOldestWaitingMatch(txCtx, event.TenantID, event.DurationMinutes)
		if err != nil {
			if errors.Is(err, waitlistRepo.ErrEntryNotFound) {
				return nil
			}
			return fmt.Errorf("%w: HandleCancellation - select candidate: %v", ErrInternal, err)
		}

		ok, err := s.repo.MarkNotified(txCtx, entry.ID, now, event.SlotStart,
			event.StaffID, event.DurationMinutes, deadline)
		if err != nil {
			return fmt.Errorf("%w: HandleCancellation - mark notified: %v", ErrInternal, err)
		}
		if !ok {
			// Статус ушел из waiting между select и update
			return nil
		}

		selected = entry
		return nil
	})

	if err != nil {
		s.logger.Error("HandleCancellation: tenant=%d, slot=%s: %v",
			event.TenantID, event.SlotStart.Format(time.RFC3339), err)
		return
	}

	if selected == nil {
		s.logger.Info("HandleCancellation: no matching waiting entry for tenant=%d, duration=%d",
			event.TenantID, event.DurationMinutes)
		return
	}

	s.metrics.IncWaitlistOffer(strconv.FormatInt(event.TenantID, 10))
	s.logger.Info("HandleCancellation: offered slot %s to entry id=%d, deadline=%s",
		event.SlotStart.Format(time.RFC3339), selected.ID, deadline.Format(time.RFC3339))

	// Уведомление best-effort: неудача отправки не откатывает переход
	// и не останавливает таймер
	msg := fmt.Sprintf(msgSlotOffer, event.SlotStart.Format("02.01.2006 15:04"), windowMinutes)
	if err := s.notifyClient.Send(ctx, selected.CustomerContact, msg); err != nil {
		s.logger.Warn("HandleCancellation: failed to notify contact=%s: %v",
			selected.CustomerContact, err)
	}

	entryID := selected.ID
	s.timers.Arm(entryID, deadline.Sub(now), func() {
		s.onDeadline(entryID, event)
	})
}

// HandleResponse обрабатывает ответ клиента на предложение слота.
// Отсутствие действующего предложения - штатный no-op (Found=false):
// поздние и повторные ответы ожидаемы. Проигрыш гонки таймеру выглядит
// для клиента так же, как отсутствие предложения
func (s *Service) HandleResponse(ctx context.Context, req *models.RespondRequest) (*models.RespondResult, error) {
	s.logger.Info("HandleResponse: contact=%s, accepted=%v", req.CustomerContact, req.Accepted)

	if req.CustomerContact == "" {
		return nil, fmt.Errorf("%w: customerContact is required", ErrInvalidInput)
	}

	entry, err := s.repo.GetLatestNotifiedByContact(ctx, req.CustomerContact)
	if err != nil {
		if errors.Is(err, waitlistRepo.ErrEntryNotFound) {
			s.logger.Info("HandleResponse: no pending offer for contact=%s", req.CustomerContact)
			return &models.RespondResult{Found: false}, nil
		}
		s.logger.Error("HandleResponse: failed to find entry for contact=%s: %v", req.CustomerContact, err)
		return nil, fmt.Errorf("%w: HandleResponse - repository error: %v", ErrInternal, err)
	}

	target := domain.WaitlistStatusNoResponse
	outcome := models.OutcomeDeclined
	if req.Accepted {
		target = domain.WaitlistStatusBooked
		outcome = models.OutcomeBooked
	}

	won, err := s.repo.CompleteOffer(ctx, entry.ID, target, nil)
	if err != nil {
		s.logger.Error("HandleResponse: failed to complete offer id=%d: %v", entry.ID, err)
		return nil, fmt.Errorf("%w: HandleResponse - repository error: %v", ErrInternal, err)
	}
	if !won {
		// Таймер сработал раньше и уже закрыл предложение
		s.logger.Info("HandleResponse: offer id=%d was already resolved", entry.ID)
		return &models.RespondResult{Found: false}, nil
	}

	s.timers.Cancel(entry.ID)
	s.metrics.IncWaitlistOutcome(outcome)
	entry.Status = target

	s.logger.Info("HandleResponse: entry id=%d resolved as %s", entry.ID, outcome)

	// Отказ отдает слот следующему в очереди, если он еще в будущем
	if !req.Accepted {
		if event, ok := offerEvent(entry); ok {
			s.HandleCancellation(ctx, event)
		}
	}

	return &models.RespondResult{
		Found:   true,
		Outcome: outcome,
		Entry:   models.FromDomainEntry(entry),
	}, nil
}

// onDeadline срабатывание таймера дедлайна: неявный отказ.
// Условный переход в репозитории гарантирует, что конкурентный явный
// ответ и таймер не закроют предложение дважды
func (s *Service) onDeadline(entryID int64, event domain.CancellationEvent) {
	ctx := context.Background()

	won, err := s.repo.CompleteOffer(ctx, entryID, domain.WaitlistStatusNoResponse, nil)
	if err != nil {
		s.logger.Error("onDeadline: failed to complete offer id=%d: %v", entryID, err)
		return
	}
	if !won {
		// Явный ответ успел раньше
		return
	}

	s.metrics.IncWaitlistOutcome(models.OutcomeLapsed)
	s.logger.Info("onDeadline: offer id=%d lapsed without response", entryID)

	// Сообщаем клиенту, что предложение сгорело (best-effort)
	entry, err := s.repo.GetByID(ctx, entryID)
	if err != nil {
		s.logger.Warn("onDeadline: failed to load entry id=%d for notification: %v", entryID, err)
	} else if err := s.notifyClient.Send(ctx, entry.CustomerContact, msgOfferLapsed); err != nil {
		s.logger.Warn("onDeadline: failed to notify contact=%s: %v", entry.CustomerContact, err)
	}

	// Каскад к следующему в очереди, если слот еще в будущем
	if event.SlotStart.After(s.timeProvider.Now()) {
		s.HandleCancellation(ctx, event)
	}
}

// SweepExpired переводит в expired все незакрытые записи (waiting и
// notified), созданные до местной полуночи текущего дня, и удаляет записи
// старше срока хранения. Истечение notified-записей подбирает предложения,
// чьи таймеры пропали при рестарте процесса.
// Возвращает число записей, переведенных в expired
func (s *Service) SweepExpired(ctx context.Context) (int64, error) {
	midnight := localMidnight(s.timeProvider.Now())

	expired, err := s.repo.MarkExpiredBefore(ctx, midnight)
	if err != nil {
		s.logger.Error("SweepExpired: failed to expire entries: %v", err)
		return 0, fmt.Errorf("%w: SweepExpired - repository error: %v", ErrInternal, err)
	}

	purgeCutoff := midnight.AddDate(0, 0, -sweepRetentionDays)
	deleted, err := s.repo.DeleteCreatedBefore(ctx, purgeCutoff)
	if err != nil {
		// Неудачная очистка истории не мешает основной работе зачистки
		s.logger.Warn("SweepExpired: failed to purge old entries: %v", err)
		deleted = 0
	}

	s.logger.Info("SweepExpired: expired=%d, purged=%d", expired, deleted)
	return expired, nil
}

// StartSweeper запускает фоновую ежедневную зачистку листа ожидания
func (s *Service) StartSweeper() {
	go s.runSweeper()
}

func (s *Service) runSweeper() {
	for {
		now := s.timeProvider.Now()
		next := localMidnight(now).AddDate(0, 0, 1).Add(sweepStartDelay)

		timer := time.NewTimer(next.Sub(now))
		select {
		case <-s.stopCh:
			timer.Stop()
			return
		case <-timer.C:
			if _, err := s.SweepExpired(context.Background()); err != nil {
				s.logger.Error("runSweeper: sweep failed: %v", err)
			}
		}
	}
}

// Shutdown останавливает зачистку и снимает все таймеры дедлайнов.
// Снятие таймеров не оставляет побочных эффектов: записи в статусе
// notified доберет условный переход при следующем ответе или зачистке
func (s *Service) Shutdown() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
	})
	s.timers.Shutdown()
}

func validateEnqueueRequest(req *models.EnqueueRequest) error {
	if req.TenantID <= 0 {
		return fmt.Errorf("%w: tenantID must be positive", ErrInvalidInput)
	}
	if req.CustomerContact == "" {
		return fmt.Errorf("%w: customerContact is required", ErrInvalidInput)
	}
	if len(req.CustomerContact) > domain.MaxCustomerContactLength {
		return fmt.Errorf("%w: customerContact is too long", ErrInvalidInput)
	}
	if req.ServiceDurationMinutes < domain.MinDurationMinutes || req.ServiceDurationMinutes > domain.MaxDurationMinutes {
		return fmt.Errorf("%w: serviceDurationMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinDurationMinutes, domain.MaxDurationMinutes)
	}
	return nil
}

// offerEvent восстанавливает событие освободившегося слота из полей
// предложения записи. Возвращает false, если предложение неполное.
// Слот в прошлом отсеет сам HandleCancellation
func offerEvent(entry *domain.WaitlistEntry) (domain.CancellationEvent, bool) {
	if entry.NotifiedSlotStart == nil || entry.NotifiedStaffID == nil || entry.NotifiedSlotMinutes == nil {
		return domain.CancellationEvent{}, false
	}

	slotStart := *entry.NotifiedSlotStart
	return domain.CancellationEvent{
		TenantID:        entry.TenantID,
		StaffID:         *entry.NotifiedStaffID,
		Date:            localMidnight(slotStart),
		SlotStart:       slotStart,
		DurationMinutes: *entry.NotifiedSlotMinutes,
	}, true
}

// localMidnight обрезает время до местной полуночи того же дня
func localMidnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
