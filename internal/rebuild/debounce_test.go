package rebuild

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestTriggerFiresAfterWindow(t *testing.T) {
	var fired int32
	d := NewDebouncer(20*time.Millisecond, func() { atomic.AddInt32(&fired, 1) })
	d.Trigger()

	time.Sleep(100 * time.Millisecond)
	if atomic.LoadInt32(&fired) != 1 {
		t.Errorf("fired = %d, want 1", fired)
	}
}

func TestTriggerCoalescesRapidCalls(t *testing.T) {
	var fired int32
	d := NewDebouncer(40*time.Millisecond, func() { atomic.AddInt32(&fired, 1) })

	for i := 0; i < 5; i++ {
		d.Trigger()
		time.Sleep(10 * time.Millisecond)
	}
	time.Sleep(100 * time.Millisecond)

	if atomic.LoadInt32(&fired) != 1 {
		t.Errorf("fired = %d, want exactly 1 (rapid triggers should coalesce)", fired)
	}
}

func TestCancelPreventsFire(t *testing.T) {
	var fired int32
	d := NewDebouncer(20*time.Millisecond, func() { atomic.AddInt32(&fired, 1) })
	d.Trigger()
	d.Cancel()

	time.Sleep(100 * time.Millisecond)
	if atomic.LoadInt32(&fired) != 0 {
		t.Errorf("fired = %d, want 0 after Cancel", fired)
	}
}

func TestNewDebouncerDefaultsNonPositiveWindow(t *testing.T) {
	d := NewDebouncer(0, func() {})
	if d.window != DefaultWindow {
		t.Errorf("window = %v, want DefaultWindow", d.window)
	}
}
