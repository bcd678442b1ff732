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
	"time"

	"github.com/aristanetworks/goarista/monotime"
)

// Clock drives a Manager from monotonic wall-clock time, mapping one tick
// to one precision interval. It is an optional adapter: the manager core
// knows nothing about wall time.
type Clock struct {
	m            *Manager
	precis       time.Duration
	currentPoint uint64
}

// NewClock creates a clock for the given manager.
//
// The optional precision parameter specifies the tick duration. If
// omitted or non-positive, the default precision is 10 milliseconds.
func NewClock(m *Manager, precision ...time.Duration) *Clock {
	// default precision is centiseconds
	precis := time.Millisecond * 10
	if len(precision) > 0 && precision[0] > 0 {
		precis = precision[0]
	}
	c := &Clock{m: m, precis: precis}
	c.currentPoint = c.point()
	return c
}

func (c *Clock) point() uint64 {
	return monotime.Now() / uint64(c.precis.Nanoseconds())
}

// Sync advances the manager by however many precision intervals have
// elapsed since the previous Sync. Call it periodically, typically from a
// ticker running at the clock's precision; calls within the same interval
// are no-ops. Sync must be called from the backend goroutine, since it
// invokes Tick.
func (c *Clock) Sync() {
	cp := c.point()
	if cp < c.currentPoint {
		c.currentPoint = cp
		return
	}
	diff := cp - c.currentPoint
	c.currentPoint = cp
	for range diff {
		c.m.Tick()
	}
}
