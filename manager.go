// Licensed to the Apache Software Foundation (ASF) under one
// or more contributor license agreements.  See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership.  The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License.  You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

package tickwheel

import (
	"math"
	"sync/atomic"
)

// ID identifies a timer for the lifetime of the process. Identifiers are
// assigned monotonically and never reused, even when the underlying slot
// storage is recycled.
type ID = uint64

// UnsetDuration is reported by Duration for a timer that was never
// configured with Set.
const UnsetDuration uint32 = math.MaxUint32

type state uint8

const (
	stateStopped state = iota
	stateRunning
	stateExpired
)

// timerSlot is the storage record for one timer. Its fields are
// partitioned by role: frontend fields are touched only from the owning
// handle's context (and from the expiry closure, which runs there too),
// backend fields only from the tick context. The epoch counter is the one
// cross-context field and is atomic; every frontend state change bumps it,
// and the backend uses it to discard superseded commands and expirations.
type timerSlot struct {
	id    ID
	epoch atomic.Uint64

	// frontend
	fState    state
	fDuration uint32
	fCallback func(ID)

	// backend
	bEpoch    uint64
	bState    state
	bDeadline uint64
	exec      Executor
	linked    bool
	prev      *timerSlot
	next      *timerSlot

	nextFree *timerSlot
}

// Manager owns the timing wheel, the slot pool and the command mailbox.
// Any number of goroutines may create timers and operate their handles;
// exactly one goroutine must drive Tick.
type Manager struct {
	wheel   wheel
	cursor  uint64
	pool    slotPool
	cmds    mailbox
	running atomic.Int64
	logger  Logger
}

// New creates a timer manager.
//
// Example:
//
//	m := tickwheel.New(tickwheel.WithWheelSize(8192))
//	t := m.NewTimer(exec)
//	t.Set(3, func(id tickwheel.ID) { ... })
//	t.Run()
//	// once per logical time unit:
//	m.Tick()
func New(opts ...Option) *Manager {
	options := NewOptions(opts...)
	m := &Manager{
		wheel:  newWheel(ceilPow2(options.WheelSize)),
		logger: options.Logger,
	}
	m.pool.reserve(options.Capacity)
	return m
}

// NewTimer creates a timer whose expiry callback will be dispatched on
// exec. The returned handle is the unique owner of the timer; it must be
// operated from a single goroutine and released when no longer needed.
func (m *Manager) NewTimer(exec Executor) *Timer {
	return &Timer{mgr: m, slot: m.pool.alloc(exec)}
}

// ActiveTimers returns the number of timers currently running from the
// backend's point of view.
func (m *Manager) ActiveTimers() int {
	return int(m.running.Load())
}

// Tick advances logical time by one unit: it drains the commands posted
// since the previous tick, moves the cursor, and fires every running
// timer whose deadline lands on the new cursor value. It must only ever
// be called from one goroutine, and never from inside an expiry callback.
func (m *Manager) Tick() {
	batch := m.cmds.swap()
	for i := range batch {
		m.apply(&batch[i])
	}
	m.cursor++
	m.expireBucket()
}

func (m *Manager) apply(c *command) {
	s := c.slot
	if s.id != c.id {
		// slot was destroyed and recycled; command came from a dangling
		// generation
		return
	}
	if c.epoch < s.bEpoch {
		// superseded by a later command from the same handle
		return
	}
	s.bEpoch = c.epoch

	switch c.action {
	case cmdStart:
		if s.linked {
			m.wheel.remove(s)
		}
		if s.bState != stateRunning {
			m.running.Add(1)
		}
		s.bDeadline = m.cursor + uint64(c.duration)
		if c.duration == 0 {
			// zero-duration runs fire on the tick that drains them
			s.bDeadline = m.cursor + 1
		}
		s.bState = stateRunning
		m.wheel.insert(s)
	case cmdStop:
		if s.linked {
			m.wheel.remove(s)
		}
		if s.bState == stateRunning {
			m.running.Add(-1)
		}
		s.bState = stateStopped
	case cmdDestroy:
		if s.linked {
			m.wheel.remove(s)
		}
		if s.bState == stateRunning {
			m.running.Add(-1)
		}
		s.bState = stateStopped
		s.exec = nil
		m.pool.recycle(s)
	}
}

// expireBucket walks the bucket the cursor landed on. Slots whose full
// deadline is still in a future rotation stay linked and are skipped.
func (m *Manager) expireBucket() {
	b := m.wheel.bucketAt(m.cursor)
	for s := b.head; s != nil; {
		next := s.next
		if s.bDeadline == m.cursor {
			m.expire(s)
		}
		s = next
	}
}

func (m *Manager) expire(s *timerSlot) {
	m.wheel.remove(s)
	s.bState = stateExpired
	m.running.Add(-1)
	if s.exec == nil {
		return
	}
	ep := s.bEpoch
	ok := s.exec.Dispatch(func() {
		// a re-arm, stop or release between expiry and dispatch bumped the
		// epoch; the run this expiry belongs to no longer exists
		if s.epoch.Load() != ep {
			return
		}
		s.fState = stateExpired
		if cb := s.fCallback; cb != nil {
			cb(s.id)
		}
	})
	if !ok {
		m.logger.Printf("tickwheel: expiry dispatch refused for timer %d\n", s.id)
	}
}
