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
	"time"

	"github.com/stretchr/testify/require"
	"go.yuchanns.xyz/tickwheel"
)

func TestClockSync(t *testing.T) {
	t.Parallel()
	assert := require.New(t)

	const precision = time.Millisecond

	m := tickwheel.New()
	c := tickwheel.NewClock(m, precision)

	tm := m.NewTimer(inline)
	fired := make(chan struct{})
	start := time.Now()
	assert.NoError(tm.Set(10, func(tickwheel.ID) { close(fired) }))
	assert.NoError(tm.Run())

	ticker := time.NewTicker(precision)
	defer ticker.Stop()

	deadline := time.After(5 * time.Second)
	for {
		select {
		case <-fired:
			// at least the configured 10 ticks must have passed
			assert.GreaterOrEqual(time.Since(start), 10*precision)
			assert.True(tm.HasExpired())
			return
		case <-deadline:
			t.Fatal("timer did not fire")
		case <-ticker.C:
			c.Sync()
		}
	}
}
