// Package queue defines message payloads exchanged over the message broker.
package queue

// ReceiptIssuedEvent is published when a payment is recorded and its
// receipt generated. It carries enough information for downstream
// consumers to log and email the receipt without querying the primary
// database.
type ReceiptIssuedEvent struct {
	PaymentID      uint64  `json:"payment_id"`
	VehicleNumber  string  `json:"vehicle_number"`
	VehicleType    string  `json:"vehicle_type"`
	EntryTime      string  `json:"entry_time"`
	ExitTime       string  `json:"exit_time"`
	DurationHours  float64 `json:"duration_hours"`
	Amount         float64 `json:"amount"`
	PaymentMethod  string  `json:"payment_method"`
	Operator       string  `json:"operator"`
	RecipientEmail string  `json:"recipient_email"`
	RecipientName  string  `json:"recipient_name"`
	ReceiptPath    string  `json:"receipt_path"`
	IssuedAt       string  `json:"issued_at"`
}
