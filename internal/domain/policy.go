package domain

import "time"

// TenantPolicy holds per-tenant scheduling policy overrides. A tenant
// without a stored policy uses the service-wide defaults.
type TenantPolicy struct {
	TenantID         int64
	IntervalMinutes  int // Step between candidate slot starts
	BufferMinutes    int // Trailing buffer after each appointment
	LookaheadMinutes int // Same-day bookings must start at least this far ahead
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// DefaultTenantPolicy returns the service-wide scheduling defaults
func DefaultTenantPolicy(tenantID int64) *TenantPolicy {
	return &TenantPolicy{
		TenantID:         tenantID,
		IntervalMinutes:  DefaultSlotIntervalMinutes,
		BufferMinutes:    DefaultBufferMinutes,
		LookaheadMinutes: DefaultLookaheadMinutes,
	}
}
