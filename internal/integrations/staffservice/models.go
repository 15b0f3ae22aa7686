package staffservice

// Staff модель сотрудника (ресурса расписания) из StaffService
type Staff struct {
	ID           int64        `json:"id"`
	TenantID     int64        `json:"tenant_id"`
	Name         string       `json:"name"`
	Active       bool         `json:"active"`
	WorkingHours WeekSchedule `json:"working_hours"`
}

// WeekSchedule расписание работы сотрудника по дням недели
type WeekSchedule struct {
	Sunday    DaySchedule `json:"sunday"`
	Monday    DaySchedule `json:"monday"`
	Tuesday   DaySchedule `json:"tuesday"`
	Wednesday DaySchedule `json:"wednesday"`
	Thursday  DaySchedule `json:"thursday"`
	Friday    DaySchedule `json:"friday"`
	Saturday  DaySchedule `json:"saturday"`
}

// DaySchedule рабочие часы одного дня недели
// Если Enabled = false, сотрудник в этот день не принимает записи
type DaySchedule struct {
	Enabled   bool    `json:"enabled"`
	StartTime *string `json:"start_time,omitempty"` // "HH:MM"
	EndTime   *string `json:"end_time,omitempty"`   // "HH:MM"
}

// ErrorResponse модель ошибки от StaffService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
