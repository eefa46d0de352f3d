package clock

import (
	"testing"
	"time"
)

func TestFixed(t *testing.T) {
	instant := time.Date(2026, time.June, 10, 12, 0, 0, 0, time.UTC)
	var c Clock = Fixed{Instant: instant}
	if !c.Now().Equal(instant) {
		t.Errorf("Fixed.Now() = %v, want %v", c.Now(), instant)
	}
}

func TestSystem(t *testing.T) {
	var c Clock = System{}
	before := time.Now().Add(-time.Minute)
	after := time.Now().Add(time.Minute)
	now := c.Now()
	if now.Before(before) || now.After(after) {
		t.Errorf("System.Now() = %v, not near current time", now)
	}
}
