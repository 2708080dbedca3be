package domain

import (
	"fmt"
	"math/rand"
	"time"
)

// TrackingPrefix is prepended to every generated tracking number.
const TrackingPrefix = "RK"

// NewTrackingNumber generates a customer-facing tracking number: the prefix,
// the last 8 digits of the current unix-millisecond timestamp, and a 3-digit
// random suffix. Collisions are possible; callers rely on the store's
// uniqueness constraint and regenerate on conflict.
func NewTrackingNumber() string {
	millis := time.Now().UnixMilli()
	return fmt.Sprintf("%s%08d%03d", TrackingPrefix, millis%1e8, rand.Intn(1000))
}
