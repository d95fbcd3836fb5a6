// Package sched abstracts wall-clock time and periodic jobs so timer driven
// behaviour can run against a virtual clock in tests.
package sched

import (
	"sort"
	"sync"
	"time"
)

type Clock interface {
	Now() time.Time
}

// Scheduler runs fn every d until the returned stop func is called. A
// non-positive d schedules nothing.
type Scheduler interface {
	Every(d time.Duration, fn func()) (stop func())
}

// System is the real clock, with one ticker goroutine per job.
type System struct{}

func (System) Now() time.Time { return time.Now() }

func (System) Every(d time.Duration, fn func()) func() {
	if d <= 0 {
		return func() {}
	}
	t := time.NewTicker(d)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-t.C:
				fn()
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			t.Stop()
			close(done)
		})
	}
}

type job struct {
	every   time.Duration
	next    time.Time
	fn      func()
	stopped bool
}

// Manual is a virtual clock. Jobs only fire from Advance, on the calling
// goroutine, in due-time order.
type Manual struct {
	mu   sync.Mutex
	now  time.Time
	jobs []*job
}

func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *Manual) Every(d time.Duration, fn func()) func() {
	if d <= 0 {
		return func() {}
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	j := &job{every: d, next: m.now.Add(d), fn: fn}
	m.jobs = append(m.jobs, j)
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		j.stopped = true
	}
}

// Set moves the clock to t without firing jobs.
func (m *Manual) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = t
	for _, j := range m.jobs {
		j.next = t.Add(j.every)
	}
}

// Advance moves the clock forward by d, firing each job once per elapsed
// interval.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now.Add(d)
	m.mu.Unlock()

	for {
		m.mu.Lock()
		due := m.dueLocked(target)
		if due == nil {
			m.now = target
			m.mu.Unlock()
			return
		}
		m.now = due.next
		due.next = due.next.Add(due.every)
		fn := due.fn
		m.mu.Unlock()

		fn()
	}
}

// Jobs returns the number of active jobs.
func (m *Manual) Jobs() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, j := range m.jobs {
		if !j.stopped {
			n++
		}
	}
	return n
}

func (m *Manual) dueLocked(target time.Time) *job {
	var active []*job
	for _, j := range m.jobs {
		if !j.stopped && !j.next.After(target) {
			active = append(active, j)
		}
	}
	if len(active) == 0 {
		return nil
	}
	sort.SliceStable(active, func(a, b int) bool { return active[a].next.Before(active[b].next) })
	return active[0]
}
