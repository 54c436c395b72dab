package order

import (
	"regexp"
	"testing"
)

func TestNewNumberFormat(t *testing.T) {
	re := regexp.MustCompile(`^ORD-\d{14}-[0-9a-f]{6}$`)
	n := NewNumber()
	if !re.MatchString(n) {
		t.Fatalf("order number %q does not match expected format", n)
	}
}

func TestNewNumberUniqueness(t *testing.T) {
	seen := make(map[string]struct{}, 10000)
	for i := 0; i < 10000; i++ {
		n := NewNumber()
		if _, dup := seen[n]; dup {
			t.Fatalf("duplicate order number after %d draws: %s", i, n)
		}
		seen[n] = struct{}{}
	}
}
