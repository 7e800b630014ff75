package timer

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestManager_ScheduleFires(t *testing.T) {
	m := NewManager()
	defer m.Stop()

	var fired int32
	m.Schedule(60*time.Millisecond, func() {
		atomic.AddInt32(&fired, 1)
	})

	time.Sleep(300 * time.Millisecond)

	if atomic.LoadInt32(&fired) != 1 {
		t.Errorf("Expected callback to fire exactly once, fired %d times", fired)
	}
}

func TestManager_Cancel(t *testing.T) {
	m := NewManager()
	defer m.Stop()

	var fired int32
	id := m.Schedule(100*time.Millisecond, func() {
		atomic.AddInt32(&fired, 1)
	})
	m.Cancel(id)

	time.Sleep(300 * time.Millisecond)

	if atomic.LoadInt32(&fired) != 0 {
		t.Error("Canceled callback must not fire")
	}
}

func TestManager_OrderIndependentOfScheduling(t *testing.T) {
	m := NewManager()
	defer m.Stop()

	var fired int32
	// Scheduled out of order; the earlier task must not be blocked by the
	// later one sitting at the head of the queue.
	m.Schedule(500*time.Millisecond, func() { atomic.AddInt32(&fired, 100) })
	m.Schedule(50*time.Millisecond, func() { atomic.AddInt32(&fired, 1) })

	time.Sleep(250 * time.Millisecond)

	if atomic.LoadInt32(&fired) != 1 {
		t.Errorf("Expected only the short task to have fired, counter is %d", fired)
	}
}

func TestManager_StopDropsPending(t *testing.T) {
	m := NewManager()

	var fired int32
	m.Schedule(100*time.Millisecond, func() {
		atomic.AddInt32(&fired, 1)
	})
	m.Stop()

	time.Sleep(300 * time.Millisecond)

	if atomic.LoadInt32(&fired) != 0 {
		t.Error("Tasks must not fire after Stop")
	}
}
