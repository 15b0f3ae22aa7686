package domain

import "time"

// WaitlistStatus represents the status of a waiting list entry
type WaitlistStatus string

const (
	WaitlistStatusWaiting    WaitlistStatus = "waiting"
	WaitlistStatusNotified   WaitlistStatus = "notified"
	WaitlistStatusBooked     WaitlistStatus = "booked"
	WaitlistStatusNoResponse WaitlistStatus = "no_response"
	WaitlistStatusExpired    WaitlistStatus = "expired"
)

// IsTerminal returns true if the status has no outgoing transitions
func (s WaitlistStatus) IsTerminal() bool {
	return s == WaitlistStatusBooked || s == WaitlistStatusNoResponse || s == WaitlistStatusExpired
}

// WaitlistEntry represents a customer queued for a same-day opening.
//
// Lifecycle: waiting → notified → {booked | no_response}; waiting → expired
// via the daily sweep. At most one waiting entry may exist per
// (tenant, customer contact) created since local midnight, and a notified
// entry is never re-notified while its response deadline is pending.
type WaitlistEntry struct {
	ID                     int64
	TenantID               int64
	CustomerContact        string
	ServiceDurationMinutes int
	Status                 WaitlistStatus
	CreatedAt              time.Time

	// Offer state, set on the waiting → notified transition. The staff and
	// duration of the offered slot are kept alongside the start so the
	// cascade event can be rebuilt on decline or timer fire.
	NotifiedAt          *time.Time
	NotifiedSlotStart   *time.Time
	NotifiedStaffID     *int64
	NotifiedSlotMinutes *int
	ResponseDeadline    *time.Time

	BookedAppointmentID *int64
}

// CanBeNotified returns true if the entry may receive a slot offer
func (e *WaitlistEntry) CanBeNotified() bool {
	return e.Status == WaitlistStatusWaiting
}

// HasPendingOffer returns true while a response deadline is armed
func (e *WaitlistEntry) HasPendingOffer() bool {
	return e.Status == WaitlistStatusNotified
}

// MatchesDuration reports whether the entry's requested service fits
// into a freed slot of the given length.
func (e *WaitlistEntry) MatchesDuration(slotMinutes int) bool {
	return e.ServiceDurationMinutes <= slotMinutes
}

// CancellationEvent is emitted by the booking engine after a cancellation is
// durably committed and carries the freed slot to the waiting list cascade.
type CancellationEvent struct {
	TenantID        int64
	StaffID         int64
	Date            time.Time // Date of the freed slot, time part is zero
	SlotStart       time.Time // Absolute start of the freed interval
	DurationMinutes int
}

// Response window tiers: the closer the freed slot, the less time the
// customer gets to claim it.
const (
	responseWindowShortLeadMinutes  = 30
	responseWindowMediumLeadMinutes = 120
	responseWindowLongLeadMinutes   = 240

	ResponseWindowShortMinutes   = 10
	ResponseWindowMediumMinutes  = 20
	ResponseWindowLongMinutes    = 45
	ResponseWindowDefaultMinutes = 120
)

// ResponseWindowMinutes returns the response window for an offer given the
// lead time until the offered slot starts.
func ResponseWindowMinutes(lead time.Duration) int {
	leadMinutes := int(lead / time.Minute)
	switch {
	case leadMinutes < responseWindowShortLeadMinutes:
		return ResponseWindowShortMinutes
	case leadMinutes < responseWindowMediumLeadMinutes:
		return ResponseWindowMediumMinutes
	case leadMinutes < responseWindowLongLeadMinutes:
		return ResponseWindowLongMinutes
	default:
		return ResponseWindowDefaultMinutes
	}
}
