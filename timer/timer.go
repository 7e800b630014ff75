// timer/timer.go
package timer

import (
	"container/heap"
	"sync"
	"time"
)

// task is one scheduled one-shot callback.
type task struct {
	id    int64
	runAt time.Time
	fn    func()
	index int
}

type taskQueue []*task

func (q taskQueue) Len() int { return len(q) }

func (q taskQueue) Less(i, j int) bool {
	return q[i].runAt.Before(q[j].runAt)
}

func (q taskQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *taskQueue) Push(x interface{}) {
	n := len(*q)
	t := x.(*task)
	t.index = n
	*q = append(*q, t)
}

func (q *taskQueue) Pop() interface{} {
	old := *q
	n := len(old)
	t := old[n-1]
	t.index = -1
	*q = old[0 : n-1]
	return t
}

// Manager runs one-shot callbacks after a delay, with cancellation. Firing
// resolution is the tick interval, which is fine for the coarse delays used
// here (the vote-resolution debounce). Callbacks run on their own goroutine.
type Manager struct {
	queue    taskQueue
	mutex    sync.Mutex
	nextID   int64
	stop     chan struct{}
	stopOnce sync.Once
}

func NewManager() *Manager {
	m := &Manager{
		queue:  make(taskQueue, 0),
		nextID: 1,
		stop:   make(chan struct{}),
	}
	heap.Init(&m.queue)
	go m.run()
	return m
}

// Schedule runs fn once after delay and returns a handle usable with Cancel.
func (m *Manager) Schedule(delay time.Duration, fn func()) int64 {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	t := &task{
		id:    m.nextID,
		runAt: time.Now().Add(delay),
		fn:    fn,
	}
	m.nextID++

	heap.Push(&m.queue, t)
	return t.id
}

// Cancel removes a pending task. Canceling an already-fired or unknown id
// is a no-op.
func (m *Manager) Cancel(id int64) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for i, t := range m.queue {
		if t.id == id {
			heap.Remove(&m.queue, i)
			break
		}
	}
}

// Stop shuts the manager down; pending tasks never fire.
func (m *Manager) Stop() {
	m.stopOnce.Do(func() {
		close(m.stop)
	})
}

func (m *Manager) run() {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			for _, fn := range m.due(time.Now()) {
				go fn()
			}
		case <-m.stop:
			return
		}
	}
}

func (m *Manager) due(now time.Time) []func() {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	var fns []func()
	for m.queue.Len() > 0 {
		t := m.queue[0]
		if t.runAt.After(now) {
			break
		}
		heap.Pop(&m.queue)
		fns = append(fns, t.fn)
	}
	return fns
}
