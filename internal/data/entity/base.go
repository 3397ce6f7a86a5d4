package entity

import (
	"time"

	"github.com/google/uuid"
)

// BaseNoDelete is embedded by mutable aggregates. Nothing here soft-deletes:
// catalog rows deactivate via is_active, orders and bookings cancel.
type BaseNoDelete struct {
	ID        uuid.UUID `db:"id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Stamp assigns a fresh id and sets both timestamps. Services call this
// before handing a new row to the repository layer.
func (b *BaseNoDelete) Stamp(now time.Time) {
	b.ID = uuid.New()
	b.CreatedAt = now
	b.UpdatedAt = now
}

// BaseSimple is for append-only rows (order items, history, usages).
type BaseSimple struct {
	ID        uuid.UUID `db:"id"`
	CreatedAt time.Time `db:"created_at"`
}

// Stamp assigns a fresh id and records when the row was written.
func (b *BaseSimple) Stamp(now time.Time) {
	b.ID = uuid.New()
	b.CreatedAt = now
}
