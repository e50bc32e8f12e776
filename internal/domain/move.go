package domain

import "time"

type MoveStatus string

const (
	MoveStatusActive    MoveStatus = "ACTIVE"
	MoveStatusCompleted MoveStatus = "COMPLETED"
	MoveStatusCancelled MoveStatus = "CANCELLED"
)

type MoveType string

const (
	MoveTypePickup      MoveType = "PICKUP"
	MoveTypeDelivery    MoveType = "DELIVERY"
	MoveTypeEmptyReturn MoveType = "EMPTY_RETURN"
)

// Location is an opaque facility descriptor; the engine never interprets it.
type Location struct {
	FacilityType string `json:"facility_type"`
	Name         string `json:"name"`
	Address      string `json:"address"`
}

// DriverRef identifies the dispatched driver, for audit only.
type DriverRef struct {
	Name      string `json:"name"`
	LicenseID string `json:"license_id"`
	VehicleID string `json:"vehicle_id"`
}

type MoveCosts struct {
	ContainerPerDiemCents int64 `json:"container_perdiem_cents"`
	ChassisRentalCents    int64 `json:"chassis_rental_cents"`
	PortFeesCents         int64 `json:"port_fees_cents"`
	FuelSurchargeCents    int64 `json:"fuel_surcharge_cents"`
	TotalCents            int64 `json:"total_cents"`
}

// Move is one custody event pairing a container with a chassis for a
// pickup, delivery or empty-return operation.
type Move struct {
	ID              string   `json:"id"`
	JobID           string   `json:"job_id"`
	ContainerID     string   `json:"container_id"`
	ChassisID       string   `json:"chassis_id"`
	ChassisProvider string   `json:"chassis_provider"`
	ContainerLine   string   `json:"container_line"`
	MoveType        MoveType `json:"move_type"`

	PickupLocation   Location  `json:"pickup_location"`
	DeliveryLocation Location  `json:"delivery_location"`
	Driver           DriverRef `json:"driver"`

	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`

	// Free-time allowances captured from the rate tables at move creation.
	// Cost calculations use these snapshots, not live allowances, so a
	// rate-table change never reprices an open move.
	ContainerFreeDays int `json:"container_free_days"`
	ChassisFreeDays   int `json:"chassis_free_days"`

	Costs             MoveCosts `json:"costs"`
	ContainerUsedDays int       `json:"container_used_days"`
	ChassisUsedDays   int       `json:"chassis_used_days"`

	Status    MoveStatus `json:"status"`
	CreatedOn time.Time  `json:"created_on"`
	UpdatedOn time.Time  `json:"updated_on"`
}
