package sharc

import (
	"sync"
	"time"
)

// Scheduler drives a stage's frames. Schedule must not block: it arranges
// for tick to be called once per host refresh until stop is closed.
type Scheduler interface {
	Schedule(stop <-chan struct{}, tick func(now time.Time))
}

// TickerScheduler ticks from its own goroutine at a fixed refresh interval.
type TickerScheduler struct {
	Refresh time.Duration
}

func (t *TickerScheduler) Schedule(stop <-chan struct{}, tick func(time.Time)) {
	refresh := t.Refresh
	if refresh <= 0 {
		refresh = time.Second / 60
	}
	go func() {
		tk := time.NewTicker(refresh)
		defer tk.Stop()
		for {
			select {
			case <-stop:
				return
			case now := <-tk.C:
				tick(now)
			}
		}
	}()
}

// ManualScheduler ticks only when its owner calls Tick, e.g. from a game
// loop's update callback or a test.
type ManualScheduler struct {
	mu   sync.Mutex
	stop <-chan struct{}
	tick func(time.Time)
}

func (m *ManualScheduler) Schedule(stop <-chan struct{}, tick func(time.Time)) {
	m.mu.Lock()
	m.stop, m.tick = stop, tick
	m.mu.Unlock()
}

// Tick runs one scheduled tick at now. It reports false when nothing is
// scheduled or the loop has stopped.
func (m *ManualScheduler) Tick(now time.Time) bool {
	m.mu.Lock()
	stop, tick := m.stop, m.tick
	m.mu.Unlock()
	if tick == nil {
		return false
	}
	select {
	case <-stop:
		return false
	default:
	}
	tick(now)
	return true
}
