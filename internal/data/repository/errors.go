package repository

import "errors"

// Conflict outcomes detected at the storage layer, where the atomic
// check-and-set actually happens.
var (
	// ErrInsufficientStock: the conditional decrement found less stock than requested.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrSlotTaken: another active booking already holds the slot.
	ErrSlotTaken = errors.New("slot already taken")
	// ErrDuplicateReference: a transaction with this gateway reference already exists.
	ErrDuplicateReference = errors.New("duplicate transaction reference")
)
