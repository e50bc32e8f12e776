package domain

import "time"

type EquipmentSubtype string

const (
	EquipmentSubtypeContainer EquipmentSubtype = "CONTAINER"
	EquipmentSubtypeChassis   EquipmentSubtype = "CHASSIS"
)

type CustodyState string

const (
	CustodyStateAtOriginFacility CustodyState = "AT_ORIGIN_FACILITY"
	CustodyStateAvailable        CustodyState = "AVAILABLE"
	CustodyStateOutWithCustomer  CustodyState = "OUT_WITH_CUSTOMER"
	CustodyStateInTransitRail    CustodyState = "IN_TRANSIT_RAIL"
	CustodyStateReturned         CustodyState = "RETURNED"
)

// EquipmentStatus is the latest known snapshot for one container or chassis,
// pushed by the upstream feed adapter. Last write wins per equipment id.
type EquipmentStatus struct {
	EquipmentID    string           `json:"equipment_id"`
	Subtype        EquipmentSubtype `json:"subtype"`
	OperatorCode   string           `json:"operator_code"`
	CustodyState   CustodyState     `json:"custody_state"`
	AssignedTo     *string          `json:"assigned_to,omitempty"` // counterpart equipment id while paired in an active move
	Location       string           `json:"location"`              // facility/yard/block, opaque to the engine
	LastStatusAt   time.Time        `json:"last_status_at"`
	LastCustodyEnd *time.Time       `json:"last_custody_end,omitempty"`
}
