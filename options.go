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

const (
	defaultWheelSize = 1024
	defaultCapacity  = 64
)

// Options is common options.
type Options struct {
	// WheelSize is the number of wheel buckets. Rounded up to a power of
	// two. Timers with durations beyond WheelSize-1 ticks are supported;
	// they simply share buckets across rotations.
	WheelSize int
	// Capacity is the number of timer slots to pre-reserve, avoiding
	// allocation on the first Capacity timer creations.
	Capacity int
	// Logger receives dispatch-failure notices. Pool growth is not
	// logged. Silent by default.
	Logger Logger
}

// NewOptions creates options with defaults.
func NewOptions(opts ...Option) Options {
	options := Options{
		WheelSize: defaultWheelSize,
		Capacity:  defaultCapacity,
		Logger:    defaultLogger,
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}

// Option is for setting options.
type Option func(*Options)

// WithWheelSize sets the bucket count, must be greater than 0.
// If not, it will be ignored.
func WithWheelSize(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.WheelSize = n
		}
	}
}

// WithCapacity sets the pre-reserved slot count, must be greater than 0.
// If not, it will be ignored.
func WithCapacity(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.Capacity = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}
