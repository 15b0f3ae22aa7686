package waitlist

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
)

var entryColumns = []string{
	"id",
	"tenant_id",
	"customer_contact",
	"service_duration_minutes",
	"status",
	"created_at",
	"notified_at",
	"notified_slot_start",
	"notified_staff_id",
	"notified_slot_minutes",
	"response_deadline",
	"booked_appointment_id",
}

// Repository репозиторий для работы с листом ожидания
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория листа ожидания
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую запись листа ожидания в статусе waiting
func (r *Repository) Create(ctx context.Context, entry *domain.WaitlistEntry) (*domain.WaitlistEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("waitlist_entries").
		Columns(
			"tenant_id",
			"customer_contact",
			"service_duration_minutes",
			"status",
		).
		Values(
			entry.TenantID,
			entry.CustomerContact,
			entry.ServiceDurationMinutes,
			entry.Status,
		).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %w", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&entry.ID, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	entry.CreatedAt = createdAt.Time
	return entry, nil
}

// GetByID получает запись листа ожидания по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.WaitlistEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(entryColumns...).
		From("waitlist_entries").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %w", ErrBuildQuery, err)
	}

	row := executor.QueryRowContext(ctx, query, args...)
	entry, err := scanEntryRow(row.Scan)
	if err == sql.ErrNoRows {
		return nil, ErrEntryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan entry: %w", ErrScanRow, err)
	}

	return entry, nil
}

// HasWaitingSince проверяет, есть ли у клиента запись в статусе waiting,
// созданная начиная с указанного момента (локальная полночь) -
// инвариант "не более одной записи в день на клиента"
func (r *Repository) HasWaitingSince(ctx context.Context, tenantID int64, contact string, since time.Time) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From("waitlist_entries").
		Where(squirrel.Eq{"tenant_id": tenantID}).
		Where(squirrel.Eq{"customer_contact": contact}).
		Where(squirrel.Eq{"status": domain.WaitlistStatusWaiting}).
		Where(squirrel.GtOrEq{"created_at": since}).
		Limit(1).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: HasWaitingSince - build select query: %w", ErrBuildQuery, err)
	}

	var one int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: HasWaitingSince - scan: %w", ErrScanRow, err)
	}

	return true, nil
}

// GetOldestWaitingMatch выбирает самую раннюю (FCFS: created_at, затем id)
// запись салона в статусе waiting, чья длительность услуги помещается
// в освободившийся слот. Возвращает ErrEntryNotFound, если подходящих нет
//
// Внутри транзакции строка блокируется FOR UPDATE, чтобы два каскада
// не выбрали одного и того же кандидата
func (r *Repository) GetOldestWaitingMatch(ctx context.Context, tenantID int64, slotMinutes int) (*domain.WaitlistEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(entryColumns...).
		From("waitlist_entries").
		Where(squirrel.Eq{"tenant_id": tenantID}).
		Where(squirrel.Eq{"status": domain.WaitlistStatusWaiting}).
		Where(squirrel.LtOrEq{"service_duration_minutes": slotMinutes}).
		OrderBy("created_at ASC, id ASC").
		Limit(1)

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetOldestWaitingMatch - build select query: %w", ErrBuildQuery, err)
	}

	row := executor.QueryRowContext(ctx, query, args...)
	entry, err := scanEntryRow(row.Scan)
	if err == sql.ErrNoRows {
		return nil, ErrEntryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetOldestWaitingMatch - scan entry: %w", ErrScanRow, err)
	}

	return entry, nil
}

// GetLatestNotifiedByContact находит последнюю (по notified_at) запись
// клиента с действующим предложением слота
func (r *Repository) GetLatestNotifiedByContact(ctx context.Context, contact string) (*domain.WaitlistEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(entryColumns...).
		From("waitlist_entries").
		Where(squirrel.Eq{"customer_contact": contact}).
		Where(squirrel.Eq{"status": domain.WaitlistStatusNotified}).
		OrderBy("notified_at DESC, id DESC").
		Limit(1).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetLatestNotifiedByContact - build select query: %w", ErrBuildQuery, err)
	}

	row := executor.QueryRowContext(ctx, query, args...)
	entry, err := scanEntryRow(row.Scan)
	if err == sql.ErrNoRows {
		return nil, ErrEntryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetLatestNotifiedByContact - scan entry: %w", ErrScanRow, err)
	}

	return entry, nil
}

// MarkNotified переводит запись waiting → notified и фиксирует предложенный слот.
// Условие по статусу гарантирует, что запись с действующим предложением
// не получит второе уведомление. Возвращает false, если переход не состоялся
func (r *Repository) MarkNotified(
	ctx context.Context,
	id int64,
	notifiedAt time.Time,
	slotStart time.Time,
	staffID int64,
	slotMinutes int,
	deadline time.Time,
) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("waitlist_entries").
		Set("status", domain.WaitlistStatusNotified).
		Set("notified_at", notifiedAt).
		Set("notified_slot_start", slotStart).
		Set("notified_staff_id", staffID).
		Set("notified_slot_minutes", slotMinutes).
		Set("response_deadline", deadline).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": domain.WaitlistStatusWaiting}).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: MarkNotified - build update query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%w: MarkNotified - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: MarkNotified - get rows affected: %w", ErrExecQuery, err)
	}

	return rowsAffected > 0, nil
}

// CompleteOffer переводит запись notified → {booked | no_response}.
// Условие по статусу - разрешение гонки между явным ответом клиента и
// срабатыванием таймера: переход выполнит только первый наблюдатель
// статуса notified, второй получит false и обязан стать no-op
func (r *Repository) CompleteOffer(
	ctx context.Context,
	id int64,
	status domain.WaitlistStatus,
	bookedAppointmentID *int64,
) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("waitlist_entries").
		Set("status", status).
		Set("booked_appointment_id", bookedAppointmentID).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": domain.WaitlistStatusNotified}).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: CompleteOffer - build update query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%w: CompleteOffer - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: CompleteOffer - get rows affected: %w", ErrExecQuery, err)
	}

	return rowsAffected > 0, nil
}

// MarkExpiredBefore переводит устаревшие незакрытые записи в статус expired.
// Лист ожидания живёт один день, поэтому истекают и waiting-записи, и
// notified-записи: предложение, чей таймер пропал при рестарте процесса,
// не должно пережить зачистку. Используется ежедневной зачисткой
func (r *Repository) MarkExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	open := []string{string(domain.WaitlistStatusWaiting), string(domain.WaitlistStatusNotified)}

	query, args, err := psqlbuilder.Update("waitlist_entries").
		Set("status", domain.WaitlistStatusExpired).
		Where(squirrel.Eq{"status": open}).
		Where(squirrel.Lt{"created_at": cutoff}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: MarkExpiredBefore - build update query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: MarkExpiredBefore - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: MarkExpiredBefore - get rows affected: %w", ErrExecQuery, err)
	}

	return rowsAffected, nil
}

// DeleteCreatedBefore удаляет все записи, созданные до указанного момента
// (локальная полночь текущего дня) - лист ожидания живёт один день
func (r *Repository) DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("waitlist_entries").
		Where(squirrel.Lt{"created_at": cutoff}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: DeleteCreatedBefore - build delete query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteCreatedBefore - execute delete: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteCreatedBefore - get rows affected: %w", ErrExecQuery, err)
	}

	return rowsAffected, nil
}

// scanEntryRow сканирует одну строку в домен, порядок колонок - entryColumns
func scanEntryRow(scan func(dest ...interface{}) error) (*domain.WaitlistEntry, error) {
	var entry domain.WaitlistEntry
	var createdAt sql.NullTime

	err := scan(
		&entry.ID,
		&entry.TenantID,
		&entry.CustomerContact,
		&entry.ServiceDurationMinutes,
		&entry.Status,
		&createdAt,
		&entry.NotifiedAt,
		&entry.NotifiedSlotStart,
		&entry.NotifiedStaffID,
		&entry.NotifiedSlotMinutes,
		&entry.ResponseDeadline,
		&entry.BookedAppointmentID,
	)
	if err != nil {
		return nil, err
	}

	entry.CreatedAt = createdAt.Time
	return &entry, nil
}
