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

// FSM is the contract the core (spec.md §4.10 "External FSM Glue")
// requires of the message-exchange engine. The FSM owns option
// encoding/decoding, message construction, and lease commitment; the core
// owns timing, identifiers, and the send path. The FSM must never bypass
// the send path (Device.Transmit) and must never mutate Device.Retrans
// except through the core's own scheduler operations.
type FSM interface {
	// Start begins a message exchange appropriate for the device's
	// installed Request/Config (Solicit for a normal acquire,
	// Information-Request for info-only).
	Start(dev *Device) error

	// Retransmit rebuilds the outbound buffer for the current exchange
	// and hands it to Device.Transmit.
	Retransmit(dev *Device) error

	// AddressEvent notifies the FSM of an address update/delete so it can
	// track DAD completion or react to manual address removal.
	AddressEvent(dev *Device, kind EventKind, addr Address)

	// SetTimeoutMsec arms the single FSM timer for dev, replacing any
	// timer already armed. Implementations must cancel any prior timer.
	SetTimeoutMsec(dev *Device, d time.Duration)

	// CancelTimeout cancels dev's FSM timer, if one is armed. Returns
	// true if a timer was in fact canceled.
	CancelTimeout(dev *Device) bool
}

// Socket is the multicast transport used by Device.Transmit (spec.md
// §4.6). It is deliberately minimal: the UDP/IPv6 socket layer itself is
// out of scope for this core (spec.md §1).
type Socket interface {
	// SendTo writes buf to dst, returning the number of bytes written.
	SendTo(buf []byte, dst Destination) (int, error)
	// Close releases the socket. Safe to call multiple times.
	Close() error
}

// Destination identifies where an outbound DHCPv6 message is sent --
// typically the All_DHCP_Relay_Agents_and_Servers multicast group on the
// device's interface, or a unicast server address once one has been
// learned.
type Destination struct {
	Addr      [16]byte
	Zone      string // interface name, for link-local scoping
	Port      int
}
