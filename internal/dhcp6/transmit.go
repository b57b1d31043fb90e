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
	"math/rand/v2"
	"time"
)

// AllDHCPRelayAgentsAndServers is the well-known DHCPv6 multicast
// destination (ff02::1:2), matching RFC 8415 §7.1.
var AllDHCPRelayAgentsAndServers = [16]byte{
	0xff, 0x02, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1, 0, 2,
}

// ClientServerPort is the UDP port DHCPv6 clients send to (547).
const ClientServerPort = 547

// newXid draws a fresh 24-bit transaction id (RFC 8415 §8: the
// transaction-id field is 3 bytes).
func newXid() uint32 {
	return rand.Uint32() & 0x00ffffff
}

// BeginExchange starts a new retransmission-governed message exchange:
// it assigns a transaction id, switches FSMState, installs the given
// timeout parameters and arms the initial transmit delay (spec.md §4.5
// "Transmit"; device.c's ni_dhcp6_device_start_solicit /
// ni_dhcp6_device_start_request and siblings, unified here since they
// differ only in which State and timeoutParams they use).
//
// spec.md §8 "Retransmission-state exclusivity": at most one of
// {Retrans timer, lease timer} is armed per device at a time -- callers
// must not call BeginExchange while a lease renewal timer is still live.
func (dev *Device) BeginExchange(fsm FSM, state State, params TimeoutParams, mrd time.Duration) {
	dev.Xid = newXid()
	dev.FSMState = state
	dev.Retrans = RetransmitState{Params: params, Duration: mrd}
	dev.Retrans.Count = 1
	if !dev.transmitArmDelay(fsm) {
		dev.retransmitArm(fsm)
	}
}

// Transmit hands buf to socket for delivery to dst, translating socket
// errors into the sentinel ErrSendFailed and refusing to send an empty
// buffer outright (spec.md §4.5 "Transmit"; device.c's
// ni_dhcp6_socket_send, which logs and swallows EAGAIN-like failures
// rather than aborting the retransmission timer).
func (dev *Device) Transmit(socket Socket, buf []byte, dst Destination) error {
	if len(buf) == 0 {
		return ErrEmptyOutboundBuffer
	}
	if socket == nil {
		dev.logger().V(0).Info("no socket bound, dropping dhcpv6 message", "xid", dev.Xid)
		return ErrSendFailed
	}
	if _, err := socket.SendTo(buf, dst); err != nil {
		dev.logger().V(0).Info("failed to send dhcpv6 message", "error", err, "xid", dev.Xid)
		return ErrSendFailed
	}
	dev.logger().V(1).Info("sent dhcpv6 message", "xid", dev.Xid, "bytes", len(buf), "state", dev.FSMState)
	return nil
}
