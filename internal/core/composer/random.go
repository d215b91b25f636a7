// Copyright 2024 Google, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package composer is the scene composition engine. It turns a climate, a seed
// and a snapshot of the media catalog into a playable SceneDescriptor without
// performing any I/O.
//
// This file implements the seeded random source: a Park-Miller minimal standard
// generator (multiplier 16807, modulus 2^31-1). Two sources built from the same
// seed yield the same infinite sequence, which is what makes a persisted seed
// enough to replay a composition.
package composer

import (
	"math/rand/v2"
	"time"
)

const (
	lcgModulus    int64 = 2147483647
	lcgMultiplier int64 = 16807
)

// Random yields values in [0, 1) from a seeded recurrence. It is not safe for
// concurrent use; every composition owns its own instance.
type Random struct {
	state int64
}

// NormalizeSeed maps any seed onto the generator's state space [1, 2^31-2].
// Non-positive seeds are replaced by a fresh time-based seed. A seed that
// reduces to zero is moved to 1 because zero is a fixed point of the recurrence.
func NormalizeSeed(seed int64) int64 {
	if seed <= 0 {
		seed = NewSeed()
	}
	s := seed % lcgModulus
	if s == 0 {
		s = 1
	}
	return s
}

// NewSeed returns a seed built from the wall clock plus a random component so
// that two requests in the same millisecond still diverge.
func NewSeed() int64 {
	s := (time.Now().UnixMilli() + rand.Int64N(1_000_000)) % lcgModulus
	if s == 0 {
		s = 1
	}
	return s
}

// NewRandom returns a source positioned at the normalised seed.
func NewRandom(seed int64) *Random {
	return &Random{state: NormalizeSeed(seed)}
}

// Float64 advances the recurrence and returns the next value in [0, 1).
func (r *Random) Float64() float64 {
	r.state = (r.state * lcgMultiplier) % lcgModulus
	return float64(r.state) / float64(lcgModulus)
}

// IntN returns a value in [0, n). It panics if n <= 0.
func (r *Random) IntN(n int) int {
	if n <= 0 {
		panic("composer: IntN called with non-positive n")
	}
	i := int(r.Float64() * float64(n))
	if i >= n {
		i = n - 1
	}
	return i
}

// Between returns a value in [lo, hi).
func (r *Random) Between(lo, hi float64) float64 {
	return lo + r.Float64()*(hi-lo)
}
