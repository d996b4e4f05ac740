package sim

import (
	"testing"
	"time"
)

func TestDropScheduler(t *testing.T) {
	d := NewDropScheduler(time.Second, true)

	if d.Advance(600 * time.Millisecond) {
		t.Error("fired before interval")
	}
	if d.Advance(400 * time.Millisecond) {
		t.Error("should fire only once strictly more than the interval has passed")
	}
	if !d.Advance(time.Millisecond) {
		t.Error("expected drop after interval")
	}
	if d.Advance(500 * time.Millisecond) {
		t.Error("schedule should restart after a drop")
	}
}

func TestDropSchedulerDisabled(t *testing.T) {
	d := NewDropScheduler(time.Millisecond, false)
	if d.Advance(time.Hour) {
		t.Error("disabled scheduler fired")
	}
	d.SetEnabled(true)
	if !d.Advance(time.Hour) {
		t.Error("enabled scheduler did not fire")
	}
}

func TestStepClock(t *testing.T) {
	start := time.Unix(100, 0)
	clock := StepClock(start, 10*time.Millisecond)
	if got := clock().Sub(start); got != 10*time.Millisecond {
		t.Errorf("first tick = %v", got)
	}
	if got := clock().Sub(start); got != 20*time.Millisecond {
		t.Errorf("second tick = %v", got)
	}
}
