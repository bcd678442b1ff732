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

type cmdAction uint8

const (
	cmdStart cmdAction = iota
	cmdStop
	cmdDestroy
)

// command is the record a frontend posts to the backend. It carries the
// slot identifier captured at post time: if the slot was destroyed and
// recycled before the command drains, the identifiers no longer match and
// the backend drops the command.
type command struct {
	slot     *timerSlot
	id       ID
	epoch    uint64
	action   cmdAction
	duration uint32
}

// mailbox is the double-buffered command channel between frontends and
// the backend. Writers append to pending under the lock; once per tick the
// backend swaps the buffers under the same lock and processes the drained
// batch lock-free. Commands posted through a single handle are observed
// in program order.
type mailbox struct {
	lock     spinLock
	pending  []command
	draining []command
}

func (mb *mailbox) push(c command) {
	mb.lock.lock()
	mb.pending = append(mb.pending, c)
	mb.lock.unlock()
}

// swap exchanges the buffers and returns the batch to process. Backend only.
func (mb *mailbox) swap() []command {
	mb.lock.lock()
	mb.pending, mb.draining = mb.draining[:0], mb.pending
	mb.lock.unlock()
	return mb.draining
}
