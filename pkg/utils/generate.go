package utils

import (
	"fmt"
	"time"
)

// FormatOrderNumber builds the human-readable order number from the day's
// atomically incremented counter value. The number is for display; uniqueness
// is enforced by the unique key on orders.order_number.
func FormatOrderNumber(t time.Time, seq int64) string {
	return fmt.Sprintf("GLM-%s-%04d", t.Format("20060102"), seq)
}

// FormatBookingNumber mirrors FormatOrderNumber for bookings.
func FormatBookingNumber(t time.Time, seq int64) string {
	return fmt.Sprintf("BKG-%s-%04d", t.Format("20060102"), seq)
}
