package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatNumbers(t *testing.T) {
	day := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "GLM-20260830-0007", FormatOrderNumber(day, 7))
	assert.Equal(t, "BKG-20260830-0123", FormatBookingNumber(day, 123))
	// The display sequence wrapping past four digits stays parseable.
	assert.Equal(t, "GLM-20260830-10001", FormatOrderNumber(day, 10001))
}
