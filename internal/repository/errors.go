// Package repository defines the data access layer and the sentinel error
// values reused across repositories. Sentinels let handlers distinguish
// failure scenarios: uniqueness conflicts map to HTTP 409, "not found"
// conditions to 404, and lifecycle violations such as parking a vehicle
// that is already parked to 409 as well.
package repository

import "errors"

// ErrUserExists is returned when creating a user whose username is taken.
var ErrUserExists = errors.New("username already exists")

// ErrSlotNameExists is returned when creating or renaming a slot to a name
// that is already in use.
var ErrSlotNameExists = errors.New("slot name already exists")

// ErrSlotNotFound is returned when a slot lookup yields no rows.
var ErrSlotNotFound = errors.New("slot not found")

// ErrVehicleNotFound is returned when no session exists for a vehicle
// number.
var ErrVehicleNotFound = errors.New("vehicle not found")

// ErrAlreadyParked is returned by ParkTx when the vehicle number already
// has an open session.
var ErrAlreadyParked = errors.New("vehicle already parked")

// ErrSlotUnavailable is returned by ParkTx when the chosen slot is no
// longer free by the time the transaction runs.
var ErrSlotUnavailable = errors.New("slot is not free")

// ErrNoOpenSession is returned by ExitTx when there is nothing to exit;
// it corresponds to the zero-affected-rows signal and guarantees no slot
// was altered.
var ErrNoOpenSession = errors.New("no open session for vehicle")
