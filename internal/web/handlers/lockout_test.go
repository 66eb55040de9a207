package handlers

import (
	"context"
	"testing"
	"time"
)

func TestLockoutTracker(t *testing.T) {
	tr := NewLockoutTracker(2, time.Minute)

	if tr.RecordFailure("bob") {
		t.Error("locked after one failure")
	}
	if !tr.RecordFailure("bob") {
		t.Error("not locked at threshold")
	}
	if !tr.IsLocked("bob") {
		t.Error("IsLocked = false")
	}
	if tr.IsLocked("alice") {
		t.Error("unrelated key locked")
	}

	tr.ClearFailures("bob")
	if tr.IsLocked("bob") {
		t.Error("still locked after clear")
	}
}

func TestLockoutTracker_Expires(t *testing.T) {
	tr := NewLockoutTracker(1, time.Millisecond)
	tr.RecordFailure("bob")
	time.Sleep(5 * time.Millisecond)

	if tr.IsLocked("bob") {
		t.Error("lockout did not expire")
	}
	tr.cleanup()
	if len(tr.entries) != 0 {
		t.Errorf("entries = %d after cleanup", len(tr.entries))
	}
}

func TestLockoutTracker_RunStops(t *testing.T) {
	tr := NewLockoutTracker(1, time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- tr.Run(ctx, time.Millisecond) }()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not stop")
	}
}
