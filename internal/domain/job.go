package domain

// JobCostBreakdown aggregates every move attached to one transportation job
// into a customer-billable total. Derived on demand, never persisted.
type JobCostBreakdown struct {
	JobID                 string `json:"job_id"`
	ContainerPerDiemCents int64  `json:"container_perdiem_cents"`
	ChassisRentalCents    int64  `json:"chassis_rental_cents"`
	PortFeesCents         int64  `json:"port_fees_cents"`
	FuelSurchargeCents    int64  `json:"fuel_surcharge_cents"`
	GrandTotalCents       int64  `json:"grand_total_cents"`
	MarkupBps             int32  `json:"markup_bps"` // 2000 = 20%
	BillableCents         int64  `json:"billable_cents"`
	ProfitCents           int64  `json:"profit_cents"`
	MoveCount             int    `json:"move_count"`
}
