package model

// Slot statuses and type eligibility values as stored in slots.status and
// slots.type_allowed.
const (
	SlotFree     = "free"
	SlotOccupied = "occupied"

	TypeCar        = "Car"
	TypeMotorcycle = "Motorcycle"
	TypeBoth       = "Both"
)

// Slot describes a physical parking slot. TypeAllowed restricts which
// vehicle types may occupy it; "Both" is a wildcard. A positive
// HourlyRate overrides the type-based default rate during billing.
//
// Fields:
//
//	ID          – primary key identifier.
//	Name        – unique slot name (e.g. A1).
//	TypeAllowed – Car, Motorcycle or Both.
//	Status      – free or occupied.
//	HourlyRate  – custom rate; 0 means "use the type default".
type Slot struct {
	ID          uint64  // slots.id
	Name        string  // slots.name
	TypeAllowed string  // slots.type_allowed
	Status      string  // slots.status
	HourlyRate  float64 // slots.hourly_rate
}
