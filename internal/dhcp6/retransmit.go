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
	"time"
)

// jitterFraction is RFC 3315 §14's RAND magnitude: ±10% of the current
// timeout. The same fraction underlies both the initial-delay randomized
// window (§4.5 "Arm initial delay") and the per-retransmission RT
// recurrence — wicked's C source tracks the two uses through a single
// "jitter_base" field expressed in absolute milliseconds of the current
// timeout; we keep JitterBase only for diagnostics/logging and derive the
// actual randomization directly from this fraction, which avoids the
// original's ambiguous "tenths of a percent" unit.
const jitterFraction = 0.10

// RetransmitState is the per-exchange RFC 3315 §14 retransmission
// bookkeeping (spec.md §3 "Retransmission state").
//
// Invariant: either Delay > 0 and Start is zero (not yet transmitted), or
// Delay == 0 and Start is set (retransmitting).
type RetransmitState struct {
	Delay      time.Duration // initial delay; nonzero only before first transmission
	Start      time.Time     // monotonic time of first transmission of current message
	Count      int           // transmissions so far, 0 before any
	JitterBase time.Duration // magnitude of the current jitter window (diagnostics only)
	Params     TimeoutParams
	Deadline   time.Time // absolute time of next retransmission/timeout
	Duration   time.Duration // MRD
}

// armed reports whether the first transmission of the current exchange has
// happened (Start is set).
func (r *RetransmitState) armed() bool {
	return !r.Start.IsZero()
}

// transmitArmDelay implements spec.md §4.5 "Arm initial delay". It returns
// true ("delay scheduled") when an FSM timeout was armed, false ("no delay
// scheduled") when retrans.Delay was already zero.
func (dev *Device) transmitArmDelay(fsm FSM) bool {
	if dev.Retrans.Delay == 0 {
		return false
	}

	jitter := time.Duration(float64(dev.Retrans.Delay) * jitterFraction)
	dev.Retrans.JitterBase = jitter

	delay := randomizeDelay(dev.clock, dev.Retrans.Delay, jitter)

	dev.logger().V(1).Info("setting initial transmit delay",
		"ifname", dev.Ifname, "delayMsec", delay.Milliseconds(),
		"jitterMinMsec", -jitter.Milliseconds(), "jitterMaxMsec", jitter.Milliseconds())

	fsm.SetTimeoutMsec(dev, delay)
	return true
}

// retransmitArm implements spec.md §4.5 "Arm retransmission", called when
// the initial delay has expired or none was required.
func (dev *Device) retransmitArm(fsm FSM) {
	dev.Retrans.Delay = 0
	dev.Retrans.Start = dev.clock.Now()

	if dev.Retrans.Params.NRetries == 0 {
		return
	}

	firstSolicit := dev.FSMState == StateSelecting && dev.Retrans.Count == 1

	irt := dev.Retrans.Params.Timeout
	var rt time.Duration
	if firstSolicit {
		// RFC 3315 §17.1.2: RAND strictly greater than 0 for the first
		// Solicit transmission, so Advertise collection has a nonzero
		// window.
		rt = randDurationExcludingZero(dev.clock, irt, jitterFraction)
		dev.Retrans.Params.Jitter = IntRange{Min: 0, Max: int(jitterFraction * 1000)}
	} else {
		rt = randDuration(dev.clock, irt, -jitterFraction, jitterFraction)
		dev.Retrans.Params.Jitter = IntRange{Min: -int(jitterFraction * 1000), Max: int(jitterFraction * 1000)}
	}

	dev.Retrans.Params.Timeout = rt
	dev.Retrans.Deadline = dev.Retrans.Start.Add(rt)
	dev.Retrans.JitterBase = time.Duration(float64(rt) * jitterFraction)

	if firstSolicit {
		// Collect Advertise messages until the first RT has elapsed;
		// there is no MRD for Solicit, so the duration timer is reused
		// purely to signal "stop collecting".
		fsm.SetTimeoutMsec(dev, rt)
		return
	}

	if dev.Retrans.Duration > 0 {
		fsm.SetTimeoutMsec(dev, dev.Retrans.Duration)
	}
}

// retransmitAdvance implements spec.md §4.5 "Advance". It returns false
// when the timeout policy (MRC/MRD) says to stop.
func (dev *Device) retransmitAdvance() bool {
	if !dev.timeoutRecompute() {
		return false
	}

	prev := dev.Retrans.Params.Timeout
	rand := -jitterFraction + dev.clock.Float64()*2*jitterFraction // RFC 3315 §14: RAND in [-0.1, +0.1]
	next := 2*prev + time.Duration(float64(prev)*rand)

	if dev.Retrans.Params.MaxTimeout > 0 && next > dev.Retrans.Params.MaxTimeout {
		next = dev.Retrans.Params.MaxTimeout
	}

	dev.Retrans.Params.Jitter = IntRange{Min: -int(jitterFraction * 1000), Max: int(jitterFraction * 1000)}
	dev.Retrans.Params.Timeout = next
	dev.Retrans.Deadline = dev.clock.Now().Add(next)
	dev.Retrans.JitterBase = time.Duration(float64(next) * jitterFraction)

	dev.logger().V(1).Info("increased retransmission timeout",
		"ifname", dev.Ifname, "fromMsec", prev.Milliseconds(), "toMsec", next.Milliseconds())

	return true
}

// timeoutRecompute reports whether another retransmission is permitted,
// respecting MRC (NRetries) and MRD (Duration).
func (dev *Device) timeoutRecompute() bool {
	r := &dev.Retrans
	if r.Params.NRetries > 0 && uint(r.Count) >= r.Params.NRetries {
		return false
	}
	if r.Duration > 0 && dev.clock.Now().Sub(r.Start) >= r.Duration {
		return false
	}
	return true
}

// Disarm implements spec.md §4.5 "Disarm": zero the entire retransmission
// block and clear Xid.
func (dev *Device) Disarm() {
	dev.logger().V(1).Info("disarming retransmission", "ifname", dev.Ifname, "at", dev.clock.Now())
	dev.Retrans = RetransmitState{}
	dev.Xid = 0
}

// Retransmit implements spec.md §4.5 "Retransmit driver": advance the
// timer; on exhaustion disarm and report ErrRetransmitExhausted; otherwise
// ask the FSM to rebuild and retransmit the message. Every retransmission
// attempt, a failed send included, adds one to Retrans.Count, which is
// what timeoutRecompute compares against MRC.
func (dev *Device) Retransmit(fsm FSM) error {
	if !dev.retransmitAdvance() {
		dev.Disarm()
		return ErrRetransmitExhausted
	}
	err := fsm.Retransmit(dev)
	dev.Retrans.Count++
	return err
}
