package domain

type PerDiemStatus string

const (
	PerDiemStatusAccruing PerDiemStatus = "ACCRUING"
	PerDiemStatusStopped  PerDiemStatus = "STOPPED"
	PerDiemStatusBilled   PerDiemStatus = "BILLED"
)

// PerDiemResult is a derived charge statement for one piece of equipment.
// It is embedded in a completed move or produced standalone for equipment
// still in the field.
type PerDiemResult struct {
	EquipmentID      string        `json:"equipment_id"`
	OperatorCode     string        `json:"operator_code"`
	ElapsedDays      int           `json:"elapsed_days"`
	ExemptDays       int           `json:"exempt_days"` // weekend days inside the span
	FreeDays         int           `json:"free_days"`
	ChargeableDays   int           `json:"chargeable_days"`
	DailyRateCents   int64         `json:"daily_rate_cents"`
	TotalChargeCents int64         `json:"total_charge_cents"`
	Status           PerDiemStatus `json:"status"`
}
