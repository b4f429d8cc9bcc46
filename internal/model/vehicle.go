package model

// VehicleSession records one park→exit lifecycle instance for a vehicle
// number. A number is not unique across rows; it accumulates one row per
// visit. A session is open while ExitTime is nil, and a vehicle number
// has at most one open session at a time.
//
// Fields:
//
//	ID            – primary key identifier, monotonically increasing.
//	Number        – vehicle registration number.
//	Type          – vehicle type (Car or Motorcycle).
//	Username      – operator who recorded the entry.
//	SlotID        – slot occupied by this session (nil after slot deletion).
//	EntryTime     – entry timestamp, "YYYY-MM-DD HH:MM:SS" UTC.
//	ExitTime      – exit timestamp; nil while the session is open.
//	PaymentMethod – payment method chosen at entry (default cash).
type VehicleSession struct {
	ID            uint64  // vehicles.id
	Number        string  // vehicles.number
	Type          string  // vehicles.type
	Username      string  // vehicles.username
	SlotID        *uint64 // vehicles.slot_id (nullable)
	EntryTime     string  // vehicles.entry_time
	ExitTime      *string // vehicles.exit_time (nullable)
	PaymentMethod string  // vehicles.payment_method
}
