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

package tickwheel_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.yuchanns.xyz/tickwheel"
)

// Growing the pool past its pre-reserved capacity must not disturb timers
// that are already armed: the backend keeps raw slot references across
// growth.
func TestPoolGrowthKeepsArmedTimers(t *testing.T) {
	t.Parallel()
	assert := require.New(t)

	const count = 500 // well past the pre-reserved capacity

	m := tickwheel.New(tickwheel.WithCapacity(1))

	fired := 0
	timers := make([]*tickwheel.Timer, count)
	for i := range timers {
		tm := m.NewTimer(inline)
		assert.NoError(tm.Set(uint32(count-i), func(tickwheel.ID) { fired++ }))
		assert.NoError(tm.Run())
		timers[i] = tm
	}
	for range count {
		m.Tick()
	}

	assert.Equal(count, fired)
	assert.Equal(0, m.ActiveTimers())
	for _, tm := range timers {
		assert.True(tm.HasExpired())
	}
}

func TestPoolRecyclesSlots(t *testing.T) {
	t.Parallel()
	assert := require.New(t)

	m := tickwheel.New(tickwheel.WithCapacity(8))

	seen := map[tickwheel.ID]bool{}
	for round := 0; round < 4; round++ {
		timers := make([]*tickwheel.Timer, 8)
		for i := range timers {
			timers[i] = m.NewTimer(inline)
			// identifiers are never reused, even when storage is
			assert.False(seen[timers[i].ID()])
			seen[timers[i].ID()] = true
		}
		for _, tm := range timers {
			tm.Release()
		}
		m.Tick()
	}

	// recycled slots still work end to end
	tm := m.NewTimer(inline)
	fired := 0
	assert.NoError(tm.Set(2, func(tickwheel.ID) { fired++ }))
	assert.NoError(tm.Run())
	m.Tick()
	m.Tick()
	assert.Equal(1, fired)
}
