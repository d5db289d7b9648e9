package models

import (
	"fmt"
	"time"
)

// GenerateRecordID builds a prefixed, time-ordered identifier for
// bookings and sessions. Prefixes keep the two identifier spaces
// visually distinct ("PB" regular bookings, "RS" recurring sessions,
// "RP" recurring plans).
func GenerateRecordID(prefix string) string {
	return fmt.Sprintf("%s%d%03d", prefix, time.Now().Unix(), time.Now().Nanosecond()%1000)
}
