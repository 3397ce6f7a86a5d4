package entity

// SalonService is a bookable service offering (makeup session, gele styling).
// Price is kobo; bookings freeze a snapshot of these fields at creation time.
type SalonService struct {
	BaseNoDelete
	Name        string `db:"name"`
	Description string `db:"description"`
	DurationMin int    `db:"duration_min"`
	Price       int64  `db:"price"`
	IsActive    bool   `db:"is_active"`
}
