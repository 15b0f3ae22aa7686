package models

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Request модели

// UpdatePolicyRequest запрос на обновление политики планирования тенанта
// Все поля опциональны - обновляются только переданные значения
type UpdatePolicyRequest struct {
	IntervalMinutes  *int `json:"intervalMinutes,omitempty"`
	BufferMinutes    *int `json:"bufferMinutes,omitempty"`
	LookaheadMinutes *int `json:"lookaheadMinutes,omitempty"`
}

// Response модели

// PolicyResponse ответ с данными политики планирования
type PolicyResponse struct {
	TenantID         int64      `json:"tenantId"`
	IntervalMinutes  int        `json:"intervalMinutes"`
	BufferMinutes    int        `json:"bufferMinutes"`
	LookaheadMinutes int        `json:"lookaheadMinutes"`
	IsDefault        bool       `json:"isDefault"`
	CreatedAt        *time.Time `json:"createdAt,omitempty"`
	UpdatedAt        *time.Time `json:"updatedAt,omitempty"`
}

// Методы конвертации

// FromDomainPolicy конвертирует domain модель в DTO
// isDefault = true означает, что для тенанта нет сохранённой политики
func FromDomainPolicy(p *domain.TenantPolicy, isDefault bool) *PolicyResponse {
	if p == nil {
		return nil
	}

	resp := &PolicyResponse{
		TenantID:         p.TenantID,
		IntervalMinutes:  p.IntervalMinutes,
		BufferMinutes:    p.BufferMinutes,
		LookaheadMinutes: p.LookaheadMinutes,
		IsDefault:        isDefault,
	}
	if !isDefault {
		createdAt := p.CreatedAt
		updatedAt := p.UpdatedAt
		resp.CreatedAt = &createdAt
		resp.UpdatedAt = &updatedAt
	}

	return resp
}

// ApplyToPolicy применяет обновления к существующей политике
// Обновляются только непустые (not nil) поля из request
func (r *UpdatePolicyRequest) ApplyToPolicy(policy *domain.TenantPolicy) {
	if r.IntervalMinutes != nil {
		policy.IntervalMinutes = *r.IntervalMinutes
	}
	if r.BufferMinutes != nil {
		policy.BufferMinutes = *r.BufferMinutes
	}
	if r.LookaheadMinutes != nil {
		policy.LookaheadMinutes = *r.LookaheadMinutes
	}
}
