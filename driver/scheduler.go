package driver

import (
	"runtime"
	"time"
)

// Scheduler runs a callback once per period on a dedicated, thread-locked goroutine.
// The timer is re-armed only after the callback returns, so two cycles never overlap.
//
// Start, Stop and Quiesce are not safe for concurrent use; Driver calls them with
// its lifecycle lock held.
type Scheduler struct {
	period  time.Duration
	fn      func()
	running bool
	stop    chan struct{}
	done    chan struct{}
	sync    chan chan struct{}
}

// NewScheduler returns a stopped scheduler.
func NewScheduler(period time.Duration, fn func()) *Scheduler {
	return &Scheduler{period: period, fn: fn}
}

// Start arms the first callback one period from now.
func (s *Scheduler) Start() {
	if s.running {
		return
	}
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	s.sync = make(chan chan struct{})
	s.running = true
	go s.loop(s.stop, s.done, s.sync)
}

// Stop cancels the timer and waits for an in-flight callback to return.
func (s *Scheduler) Stop() {
	if !s.running {
		return
	}
	close(s.stop)
	<-s.done
	s.running = false
}

// Quiesce returns once no callback is running. A callback started afterwards
// observes every write made before Quiesce was called.
func (s *Scheduler) Quiesce() {
	if !s.running {
		return
	}
	ack := make(chan struct{})
	s.sync <- ack
	<-ack
}

// Running reports whether the scheduler is armed.
func (s *Scheduler) Running() bool { return s.running }

func (s *Scheduler) loop(stop <-chan struct{}, done chan<- struct{}, sync <-chan chan struct{}) {
	defer close(done)
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	t := time.NewTimer(s.period)
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case ack := <-sync:
			close(ack)
		case <-t.C:
			s.fn()
			t.Reset(s.period)
		}
	}
}
