/*
Copyright 2026 jr42.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package dhcp6

import (
	"testing"
	"time"
)

// fakeClock is a deterministic Clock for tests: Now() is fixed at
// construction and advances only when explicitly asked; Float64 replays
// a scripted sequence of samples (defaulting to 0 once exhausted).
type fakeClock struct {
	now     time.Time
	samples []float64
	next    int
}

func newFakeClock(samples ...float64) *fakeClock {
	return &fakeClock{now: time.Unix(0, 0), samples: samples}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Float64() float64 {
	if c.next >= len(c.samples) {
		return 0
	}
	v := c.samples[c.next]
	c.next++
	return v
}

func (c *fakeClock) advance(d time.Duration) { c.now = c.now.Add(d) }

// spec.md §8 boundary scenario 3: 1000ms delay, 100ms jitter ->
// randomizeDelay(1000ms, 100ms) with Float64()==0.37 yields 1037ms.
func TestRandomizeDelay_Scenario3(t *testing.T) {
	clock := newFakeClock(0.37)
	got := randomizeDelay(clock, 1000*time.Millisecond, 100*time.Millisecond)
	want := 1037 * time.Millisecond
	if got != want {
		t.Fatalf("got %v, want %v", got, want)
	}
}

// RFC 3315 §17.1.2: the first Solicit's RAND is strictly in (0, 0.1].
func TestRandDurationExcludingZero_StrictlyPositive(t *testing.T) {
	for _, sample := range []float64{0, 0.0001, 0.5, 0.999, 0.99999} {
		clock := newFakeClock(sample)
		irt := time.Second
		rt := randDurationExcludingZero(clock, irt, jitterFraction)
		if rt <= irt {
			t.Fatalf("sample=%v: rt=%v must be strictly greater than irt=%v", sample, rt, irt)
		}
		if rt > irt+time.Duration(float64(irt)*jitterFraction) {
			t.Fatalf("sample=%v: rt=%v exceeds irt*(1+jitterFraction)=%v", sample, rt, irt+time.Duration(float64(irt)*jitterFraction))
		}
	}
}
