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

// Package tickwheel provides a tick-driven timing wheel for workloads
// that arm, cancel and expire tens of thousands of short-lived timers
// per second from multiple goroutines.
//
// Time is logical: some external loop calls Manager.Tick once per time
// unit, and all durations are counted in ticks. The package maps no
// wall-clock semantics onto ticks by itself; the optional Clock adapter
// derives ticks from monotonic time for callers that want that.
//
// # Frontends and the backend
//
// Timer handles are frontends: they mutate handle-local state and post
// start/stop/destroy commands into a double-buffered mailbox. The single
// goroutine that calls Tick is the backend: it drains the mailbox once
// per tick, reconciles the timing wheel, advances the cursor and fires
// expirations. No per-timer lock exists anywhere; a per-slot atomic epoch
// counter is the only synchronization between the two sides, and it is
// what guarantees that a stopped or re-armed timer never delivers a stale
// callback, even when the expiry was already in flight.
//
// # Concurrency
//
// Any number of goroutines may create timers and operate their own
// handles, but each individual handle must be driven from a single
// goroutine, and expiry callbacks run on the Executor the timer was
// created with, which should belong to that same goroutine. Exactly one
// goroutine calls Tick, and never from inside an expiry callback.
//
// # Example
//
//	exec := tickwheel.NewSerialExecutor(128)
//	go exec.Run()
//
//	m := tickwheel.New()
//	t := m.NewTimer(exec)
//	t.Set(50, func(id tickwheel.ID) {
//		// retransmission timeout
//	})
//	t.Run()
//
//	for range tickSource {
//		m.Tick()
//	}
package tickwheel

// Timer is the owning handle for one timer slot. It is a unique owner:
// hand the pointer over to transfer ownership, and call Release exactly
// once when done. A released handle rejects further operations.
type Timer struct {
	mgr  *Manager
	slot *timerSlot
}

// Valid reports whether the handle still owns its timer. It returns
// false after Release.
func (t *Timer) Valid() bool {
	return t != nil && t.slot != nil
}

// Set configures the duration, in ticks, for subsequent runs, and
// optionally the callback invoked on expiry. It posts nothing to the
// backend and does not change the duration of a run already in progress;
// a callback given here replaces the one that run invokes on expiry.
func (t *Timer) Set(duration uint32, callback ...func(ID)) error {
	if !t.Valid() {
		return ErrInvalidHandle
	}
	t.slot.fDuration = duration
	if len(callback) > 0 {
		t.slot.fCallback = callback[0]
	}
	return nil
}

// Run arms the timer with the configured duration. Running an already
// armed timer supersedes the previous run: its expiry, even if already in
// flight, will be discarded.
func (t *Timer) Run() error {
	if !t.Valid() {
		return ErrInvalidHandle
	}
	s := t.slot
	if s.fDuration == UnsetDuration {
		return ErrDurationUnset
	}
	ep := s.epoch.Add(1)
	s.fState = stateRunning
	t.mgr.cmds.push(command{
		slot:     s,
		id:       s.id,
		epoch:    ep,
		action:   cmdStart,
		duration: s.fDuration,
	})
	return nil
}

// Stop cancels the current run. After Stop returns, the expiry callback
// for that run is guaranteed not to fire. Stopping a timer that is not
// running is a no-op.
func (t *Timer) Stop() error {
	if !t.Valid() {
		return ErrInvalidHandle
	}
	s := t.slot
	if s.fState != stateRunning {
		return nil
	}
	ep := s.epoch.Add(1)
	s.fState = stateStopped
	t.mgr.cmds.push(command{slot: s, id: s.id, epoch: ep, action: cmdStop})
	return nil
}

// Release gives the timer back to the manager. Pending and in-flight
// expirations are discarded; the slot returns to the pool once the
// backend drains the destroy command. Safe to call on an already released
// handle. Must not be called from inside this timer's expiry callback.
func (t *Timer) Release() {
	if !t.Valid() {
		return
	}
	s := t.slot
	t.slot = nil
	ep := s.epoch.Add(1)
	t.mgr.cmds.push(command{slot: s, id: s.id, epoch: ep, action: cmdDestroy})
}

// IsSet reports whether a duration has been configured.
func (t *Timer) IsSet() bool {
	return t.Valid() && t.slot.fDuration != UnsetDuration
}

// IsRunning reports whether the timer is armed, from the handle's point
// of view.
func (t *Timer) IsRunning() bool {
	return t.Valid() && t.slot.fState == stateRunning
}

// HasExpired reports whether the last run completed with an expiry.
func (t *Timer) HasExpired() bool {
	return t.Valid() && t.slot.fState == stateExpired
}

// ID returns the timer identifier, or 0 for a released handle.
func (t *Timer) ID() ID {
	if !t.Valid() {
		return 0
	}
	return t.slot.id
}

// Duration returns the configured duration in ticks, or UnsetDuration.
func (t *Timer) Duration() uint32 {
	if !t.Valid() {
		return UnsetDuration
	}
	return t.slot.fDuration
}
