package entity

import (
	"time"

	"github.com/google/uuid"
)

type TransactionStatus string

const (
	TransactionStatusPending TransactionStatus = "pending"
	TransactionStatusSuccess TransactionStatus = "success"
	TransactionStatusFailed  TransactionStatus = "failed"
)

// PaymentPurpose is carried explicitly in gateway metadata so the reconciler
// never has to infer what a payment was for from its amount.
type PaymentPurpose string

const (
	PurposeOrder   PaymentPurpose = "order"
	PurposeDeposit PaymentPurpose = "deposit"
	PurposeBalance PaymentPurpose = "balance"
)

// Transaction records one gateway payment attempt. Reference is unique; a
// reference maps to at most one completed state transition, which is what
// makes reconciliation idempotent under duplicate webhook delivery.
type Transaction struct {
	BaseNoDelete
	Reference  string            `db:"reference"`
	TargetType string            `db:"target_type"` // "order" | "booking"
	TargetID   uuid.UUID         `db:"target_id"`
	Purpose    PaymentPurpose    `db:"purpose"`
	Amount     int64             `db:"amount"` // kobo
	Currency   string            `db:"currency"`
	Status     TransactionStatus `db:"status"`
	RawPayload []byte            `db:"raw_payload"`
	VerifiedAt *time.Time        `db:"verified_at"`
}
