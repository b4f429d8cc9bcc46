package model

// Payment is an append-only billing record tied to a vehicle number.
// Multiple payments can reference the same number across different
// sessions. DurationHours stores the ceiling-at-hundredths of the true
// elapsed hours, independent of how the amount was derived.
type Payment struct {
	ID            uint64  // payments.id
	VehicleNumber string  // payments.vehicle_number
	Amount        float64 // payments.amount
	PaidAt        string  // payments.paid_at
	DurationHours float64 // payments.duration_hours
	GeneratedBy   string  // payments.generated_by (operator username)
	ReceiptPath   string  // payments.receipt_path
	PaymentMethod string  // payments.payment_method
}
