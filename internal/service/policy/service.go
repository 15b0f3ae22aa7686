package policy

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	policyRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/policy"
	"github.com/m04kA/SMC-AppointmentService/internal/service/policy/models"
)

// Service сервис для работы с политиками планирования тенантов
type Service struct {
	policyRepo PolicyRepository
	logger     Logger
}

// NewService создает новый экземпляр сервиса политик
func NewService(policyRepo PolicyRepository, logger Logger) *Service {
	return &Service{
		policyRepo: policyRepo,
		logger:     logger,
	}
}

// GetEffective возвращает действующую политику тенанта
// Если сохранённой политики нет, возвращаются общие значения по умолчанию
func (s *Service) GetEffective(ctx context.Context, tenantID int64) (*models.PolicyResponse, error) {
	s.logger.Info("GetEffective: fetching policy for tenant=%d", tenantID)

	policy, err := s.policyRepo.GetByTenant(ctx, tenantID)
	if err != nil {
		if errors.Is(err, policyRepo.ErrPolicyNotFound) {
			s.logger.Info("GetEffective: no stored policy for tenant=%d, using defaults", tenantID)
			return models.FromDomainPolicy(domain.DefaultTenantPolicy(tenantID), true), nil
		}
		s.logger.Error("GetEffective: repository error for tenant=%d: %v", tenantID, err)
		return nil, fmt.Errorf("%w: GetEffective - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainPolicy(policy, false), nil
}

// ResolvePolicy возвращает действующую политику тенанта как domain модель
// Используется сценариями бронирования и расчёта слотов
func (s *Service) ResolvePolicy(ctx context.Context, tenantID int64) (*domain.TenantPolicy, error) {
	policy, err := s.policyRepo.GetByTenant(ctx, tenantID)
	if err != nil {
		if errors.Is(err, policyRepo.ErrPolicyNotFound) {
			return domain.DefaultTenantPolicy(tenantID), nil
		}
		s.logger.Error("ResolvePolicy: repository error for tenant=%d: %v", tenantID, err)
		return nil, fmt.Errorf("%w: ResolvePolicy - repository error: %v", ErrInternal, err)
	}

	return policy, nil
}

// Update обновляет политику планирования тенанта
// Поддерживает частичное обновление - обновляются только указанные поля
// Если сохранённой политики нет, создаётся новая на основе значений по умолчанию
func (s *Service) Update(ctx context.Context, tenantID int64, req *models.UpdatePolicyRequest) (*models.PolicyResponse, error) {
	s.logger.Info("Update: updating policy for tenant=%d", tenantID)

	// 1. Получаем текущую политику (или значения по умолчанию)
	policy, err := s.policyRepo.GetByTenant(ctx, tenantID)
	if err != nil {
		if errors.Is(err, policyRepo.ErrPolicyNotFound) {
			policy = domain.DefaultTenantPolicy(tenantID)
		} else {
			s.logger.Error("Update: repository error for tenant=%d: %v", tenantID, err)
			return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
		}
	}

	// 2. Применяем обновления
	req.ApplyToPolicy(policy)

	// 3. Валидируем обновлённые данные
	if err := s.validatePolicyData(policy.IntervalMinutes, policy.BufferMinutes, policy.LookaheadMinutes); err != nil {
		s.logger.Warn("Update: validation failed for tenant=%d: %v", tenantID, err)
		return nil, err
	}

	// 4. Сохраняем политику (insert или update)
	updated, err := s.policyRepo.Upsert(ctx, policy)
	if err != nil {
		s.logger.Error("Update: repository error for tenant=%d: %v", tenantID, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Update: successfully updated policy for tenant=%d", tenantID)
	return models.FromDomainPolicy(updated, false), nil
}

// Reset удаляет сохранённую политику тенанта, возвращая его к значениям по умолчанию
func (s *Service) Reset(ctx context.Context, tenantID int64) error {
	s.logger.Info("Reset: resetting policy for tenant=%d", tenantID)

	if err := s.policyRepo.Delete(ctx, tenantID); err != nil {
		if errors.Is(err, policyRepo.ErrPolicyNotFound) {
			s.logger.Warn("Reset: no stored policy for tenant=%d", tenantID)
			return ErrPolicyNotFound
		}
		s.logger.Error("Reset: repository error for tenant=%d: %v", tenantID, err)
		return fmt.Errorf("%w: Reset - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Reset: successfully reset policy for tenant=%d", tenantID)
	return nil
}

// validatePolicyData валидирует параметры политики планирования
func (s *Service) validatePolicyData(interval, buffer, lookahead int) error {
	if interval < domain.MinIntervalMinutes || interval > domain.MaxIntervalMinutes {
		return fmt.Errorf("%w: intervalMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinIntervalMinutes, domain.MaxIntervalMinutes)
	}

	if buffer < 0 || buffer > domain.MaxBufferMinutes {
		return fmt.Errorf("%w: bufferMinutes must be between 0 and %d",
			ErrInvalidInput, domain.MaxBufferMinutes)
	}

	if lookahead < 0 || lookahead > 1440 { // максимум сутки
		return fmt.Errorf("%w: lookaheadMinutes must be between 0 and 1440", ErrInvalidInput)
	}

	return nil
}
