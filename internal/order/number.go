package order

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// NewNumber generates a human-facing order number: a UTC timestamp plus a
// random suffix. Collisions are negligible at this scale, and the store
// enforces UNIQUE(order_number) as a backstop.
func NewNumber() string {
	buf := make([]byte, 3)
	_, _ = rand.Read(buf)
	return fmt.Sprintf("ORD-%s-%s",
		time.Now().UTC().Format("20060102150405"),
		hex.EncodeToString(buf),
	)
}
