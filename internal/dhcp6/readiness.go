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

import "time"

// ReadinessTimeout is how long Acquire waits in StateWaitReady for a
// usable link-local address before giving up (spec.md §4.9 "Readiness
// Gate"; device.c:512 NI_DHCP6_WAIT_READY_TIMEOUT, the literal 2000ms
// used by spec.md §8 boundary scenario 6).
const ReadinessTimeout = 2000 * time.Millisecond

// EnterWaitReady transitions dev into StateWaitReady and arms a
// ReadinessTimeout timer, per spec.md §4.9: "an interface with only
// tentative addresses enters WAIT_READY and arms a readiness timeout".
func (dev *Device) EnterWaitReady(fsm FSM) {
	dev.FSMState = StateWaitReady
	dev.logger().V(1).Info("waiting for link-local address", "timeout", ReadinessTimeout)
	fsm.SetTimeoutMsec(dev, ReadinessTimeout)
}

// ReadinessTimedOut implements the "fail on timeout" half of spec.md §4.9:
// if no usable link-local address has appeared when the WAIT_READY timer
// fires, Acquire fails with ErrReadinessTimeout.
func (dev *Device) ReadinessTimedOut(fsm FSM) error {
	if dev.FSMState != StateWaitReady {
		return nil
	}
	dev.FSMState = StateInit
	dev.logger().Info("timed out waiting for link-local address")
	return ErrReadinessTimeout
}

// onReady implements the other half: once a usable link-local address is
// adopted while waiting, cancel the readiness timer and let the FSM begin
// Solicit (spec.md §8 boundary scenario 6: "ADDRESS_UPDATE promotes and
// starts FSM").
func (dev *Device) onReady(fsm FSM) {
	if dev.FSMState != StateWaitReady {
		return
	}
	fsm.CancelTimeout(dev)
	dev.FSMState = dev.acquireState()
	if err := fsm.Start(dev); err != nil {
		dev.logger().Info("failed to start acquisition after becoming ready", "error", err)
	}
}

// IsReady reports whether dev currently has a usable source address to
// send DHCPv6 messages from: the kernel must report the network layer up
// and the device must have recorded a link-local source address
// (spec.md §4.7 "Readiness Gate").
func (dev *Device) IsReady() bool {
	return dev.Link.NetworkUp && dev.Link.Addr.IsValid()
}
