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

// spec.md §4.6 "Uptime": zero before any transmission, then monotonic
// centiseconds since Retrans.Start once one has happened.
func TestDevice_UptimeMonotonic(t *testing.T) {
	clock := newFakeClock()
	dev := newTestDevice(clock)

	if u := dev.Uptime(0); u != 0 {
		t.Fatalf("expected 0 before any transmission, got %v", u)
	}

	dev.Retrans.Start = clock.now
	u0 := dev.Uptime(0)
	clock.advance(5 * time.Second)
	u1 := dev.Uptime(0)
	clock.advance(5 * time.Second)
	u2 := dev.Uptime(0)

	if u0 > u1 || u1 > u2 {
		t.Fatalf("uptime not monotonic: %v, %v, %v", u0, u1, u2)
	}
	if u2-u0 != 10*time.Second {
		t.Fatalf("expected 10s elapsed, got %v", u2-u0)
	}
}

func TestDevice_UptimeClampsToMax(t *testing.T) {
	clock := newFakeClock()
	dev := newTestDevice(clock)
	dev.Retrans.Start = clock.now
	clock.advance(10 * time.Second)

	if got := dev.Uptime(2 * time.Second); got != 2*time.Second {
		t.Fatalf("expected clamp to 2s, got %v", got)
	}
}

// spec.md §4.2 "stop": drops lease/best-offer/config/request silently,
// with no network Release exchange, and is idempotent.
func TestDevice_StopDropsLeaseSilently(t *testing.T) {
	clock := newFakeClock()
	dev := newTestDevice(clock)
	dev.Lease = &Lease{Ifname: dev.Ifname}
	dev.Config = &Config{}
	dev.Request = &Request{}
	dev.FSMState = StateBound

	fsm := &recordingFSM{}
	dev.Stop(fsm)

	if dev.FSMState != StateInit {
		t.Fatalf("expected StateInit, got %v", dev.FSMState)
	}
	if dev.Lease != nil {
		t.Fatal("expected lease to be dropped")
	}
	if dev.Config != nil {
		t.Fatal("expected config to be cleared")
	}
	if dev.Request != nil {
		t.Fatal("expected request to be cleared")
	}
	if fsm.starts != 0 {
		t.Fatalf("expected no FSM exchange started (no network Release), got %d starts", fsm.starts)
	}
	if !fsm.canceled {
		t.Fatal("expected pending fsm timer to be canceled")
	}

	// Idempotent: a second Stop is a no-op observable state change.
	dev.Stop(fsm)
	if dev.FSMState != StateInit || dev.Lease != nil {
		t.Fatalf("second Stop changed observable state: state=%v lease=%v", dev.FSMState, dev.Lease)
	}
}

func TestDevice_StopWithoutLease(t *testing.T) {
	clock := newFakeClock()
	dev := newTestDevice(clock)

	fsm := &recordingFSM{}
	dev.Stop(fsm)

	if dev.FSMState != StateInit {
		t.Fatalf("expected StateInit, got %v", dev.FSMState)
	}
}
