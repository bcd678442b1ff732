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

// poolChunkSize is the number of slots per storage chunk.
const poolChunkSize = 64

// slotPool is the grow-only storage for timer slots. Slots live inside
// fixed-size chunks that are never moved or released, so the backend can
// hold raw slot pointers across ticks. Recycled slots are chained on an
// intrusive free list; the free list is pushed only by the backend when a
// destroy command drains, and popped by any frontend under the pool lock.
type slotPool struct {
	lock   spinLock
	chunks []*[poolChunkSize]timerSlot
	used   int
	free   *timerSlot
	nextID ID
}

// reserve grows the chunk storage until at least n slots are addressable,
// chaining the new slots onto the free list.
func (p *slotPool) reserve(n int) {
	p.lock.lock()
	defer p.lock.unlock()
	for p.used < n {
		p.free = p.grow(p.free)
	}
}

// grow appends one chunk and returns its slots chained onto next.
// Caller holds the pool lock.
func (p *slotPool) grow(next *timerSlot) *timerSlot {
	chunk := new([poolChunkSize]timerSlot)
	p.chunks = append(p.chunks, chunk)
	p.used += poolChunkSize
	for i := poolChunkSize - 1; i >= 0; i-- {
		chunk[i].nextFree = next
		next = &chunk[i]
	}
	return next
}

// alloc hands out a slot with a fresh identifier bound to the given
// executor. Frontend-owned fields are reset; backend-owned fields were
// left in their quiescent state by the destroy that recycled the slot.
// The slot epoch is deliberately not reset, so expiry closures dispatched
// against a previous incarnation can never match a later one.
func (p *slotPool) alloc(exec Executor) *timerSlot {
	p.lock.lock()
	if p.free == nil {
		p.free = p.grow(nil)
	}
	s := p.free
	p.free = s.nextFree
	s.nextFree = nil
	p.nextID++
	s.id = p.nextID
	p.lock.unlock()

	s.exec = exec
	s.fState = stateStopped
	s.fDuration = UnsetDuration
	s.fCallback = nil
	return s
}

// recycle returns a slot to the free list. Backend only, and only after
// the slot has been unlinked from the wheel and its executor cleared.
func (p *slotPool) recycle(s *timerSlot) {
	p.lock.lock()
	s.nextFree = p.free
	p.free = s
	p.lock.unlock()
}
