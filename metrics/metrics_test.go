package metrics

import (
	"testing"
	"time"
)

func TestTimersAndCounters(t *testing.T) {
	UpdateSince("test/timer", time.Now().Add(-time.Second))
	UpdateSince("test/timer", time.Now())
	if n := TimerCount("test/timer"); n != 2 {
		t.Errorf("want 2 timer events, got %d", n)
	}
	Inc("test/counter", 3)
	if n := Count("test/counter"); n != 3 {
		t.Errorf("want 3, got %d", n)
	}
	if _, ok := Summary()["test/counter"]; !ok {
		t.Error("summary missing counter")
	}
}
