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
	"context"
	"testing"
	"time"
)

func TestScheduler_FireDueRunsExpiredEntriesInOrder(t *testing.T) {
	clock := newFakeClock()
	sched := NewScheduler(clock)

	var order []uint32
	sched.Schedule(1, 2*time.Second, func() { order = append(order, 1) })
	sched.Schedule(2, 1*time.Second, func() { order = append(order, 2) })
	sched.Schedule(3, 3*time.Second, func() { order = append(order, 3) })

	clock.advance(2 * time.Second)
	fired := sched.fireDue()
	if fired != 2 {
		t.Fatalf("expected 2 entries to fire, got %d", fired)
	}
	if len(order) != 2 || order[0] != 2 || order[1] != 1 {
		t.Fatalf("expected fire order [2 1], got %v", order)
	}
}

func TestScheduler_ScheduleReplacesPriorTimerForSameIfindex(t *testing.T) {
	clock := newFakeClock()
	sched := NewScheduler(clock)

	fired := false
	sched.Schedule(7, 1*time.Second, func() { fired = true })
	sched.Schedule(7, 5*time.Second, func() { fired = true })

	clock.advance(2 * time.Second)
	if n := sched.fireDue(); n != 0 {
		t.Fatalf("expected the earlier timer to have been replaced, but %d fired", n)
	}
	if fired {
		t.Fatal("replaced timer must not fire")
	}

	clock.advance(3 * time.Second)
	if n := sched.fireDue(); n != 1 {
		t.Fatalf("expected the replacement timer to fire, got %d", n)
	}
}

func TestScheduler_CancelPreventsFiring(t *testing.T) {
	clock := newFakeClock()
	sched := NewScheduler(clock)

	fired := false
	sched.Schedule(4, 1*time.Second, func() { fired = true })
	if ok := sched.Cancel(4); !ok {
		t.Fatal("expected Cancel to report a timer was armed")
	}
	if ok := sched.Cancel(4); ok {
		t.Fatal("expected a second Cancel to report nothing armed")
	}

	clock.advance(10 * time.Second)
	sched.fireDue()
	if fired {
		t.Fatal("canceled timer must not fire")
	}
}

func TestScheduler_NextDeadline(t *testing.T) {
	clock := newFakeClock()
	sched := NewScheduler(clock)

	if _, ok := sched.NextDeadline(); ok {
		t.Fatal("expected no deadline on an empty scheduler")
	}

	sched.Schedule(1, 5*time.Second, func() {})
	sched.Schedule(2, 1*time.Second, func() {})

	deadline, ok := sched.NextDeadline()
	if !ok {
		t.Fatal("expected a deadline once a timer is armed")
	}
	if want := clock.Now().Add(1 * time.Second); !deadline.Equal(want) {
		t.Fatalf("got deadline %v, want %v", deadline, want)
	}

	sched.Cancel(2)
	deadline, ok = sched.NextDeadline()
	if !ok {
		t.Fatal("expected the remaining timer's deadline")
	}
	if want := clock.Now().Add(5 * time.Second); !deadline.Equal(want) {
		t.Fatalf("got deadline %v, want %v", deadline, want)
	}
}

func TestScheduler_RunDispatchesEventsAndStopsOnCancel(t *testing.T) {
	clock := newFakeClock()
	sched := NewScheduler(clock)
	reg := &Registry{Log: discardLogger(), Clock: clock, devices: map[uint32]*Device{}}
	dev := reg.Create("eth0", 9)

	events := make(chan Event, 1)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		sched.Run(ctx, events, reg, &recordingFSM{})
		close(done)
	}()

	events <- Event{Kind: EventDeviceUp, Ifindex: dev.Ifindex, Ifname: "eth0-renamed"}

	select {
	case <-done:
		t.Fatal("Run returned before cancellation")
	case <-time.After(20 * time.Millisecond):
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after context cancellation")
	}
	if dev.Ifname != "eth0-renamed" {
		t.Fatalf("expected the DEVICE_UP event to be dispatched (rename), got ifname %q", dev.Ifname)
	}
}
