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

package dhcp6fsm

import (
	"net/netip"
	"time"

	"github.com/go-logr/logr"
	"github.com/insomniacslk/dhcp/dhcpv6"

	"github.com/toabctl/wicked/internal/dhcp6"
)

// pending is per-exchange state the reference FSM needs to resend the
// exact same wire bytes on every retransmission and to carry forward the
// server DUID/address an Advertise or Reply was received from.
type pending struct {
	lastBuf []byte
	lastDst dhcp6.Destination
}

// FSM is a reference implementation of dhcp6.FSM driving real DHCPv6
// message exchanges (spec.md §4.11 "reference FSM"). It owns one socket
// and one scheduler entry per device.
type FSM struct {
	Sched   *dhcp6.Scheduler
	Log     logr.Logger
	sockets map[uint32]dhcp6.Socket
	state   map[uint32]*pending
}

// New returns an FSM driven by sched.
func New(sched *dhcp6.Scheduler, log logr.Logger) *FSM {
	return &FSM{
		Sched:   sched,
		Log:     log,
		sockets: make(map[uint32]dhcp6.Socket),
		state:   make(map[uint32]*pending),
	}
}

// BindSocket installs the transport socket to use for dev.
func (f *FSM) BindSocket(dev *dhcp6.Device, sock dhcp6.Socket) {
	f.sockets[dev.Ifindex] = sock
}

func (f *FSM) pendingFor(dev *dhcp6.Device) *pending {
	p, ok := f.state[dev.Ifindex]
	if !ok {
		p = &pending{}
		f.state[dev.Ifindex] = p
	}
	return p
}

// Start implements dhcp6.FSM: build and send the message appropriate for
// dev.FSMState (device.c's per-state ni_dhcp6_fsm_* dispatch, collapsed
// into one switch since every branch shares the same
// BeginExchange+Transmit shape).
func (f *FSM) Start(dev *dhcp6.Device) error {
	switch dev.FSMState {
	case dhcp6.StateSelecting:
		return f.sendSolicit(dev)
	case dhcp6.StateRequesting:
		return f.sendRequest(dev)
	case dhcp6.StateRenewing:
		return f.sendRenew(dev)
	case dhcp6.StateRebinding:
		return f.sendRebind(dev)
	case dhcp6.StateReleasing:
		return f.sendRelease(dev)
	case dhcp6.StateDeclining:
		return f.sendDecline(dev)
	case dhcp6.StateConfirming:
		return f.sendConfirm(dev)
	case dhcp6.StateInfoRequesting:
		return f.sendInformationRequest(dev)
	default:
		return dhcp6.ErrMalformedRequest
	}
}

// Retransmit implements dhcp6.FSM: resend the last built message
// unchanged (RFC 8415 §14 requires retransmissions to reuse the original
// transaction id and content, not rebuild from current state).
func (f *FSM) Retransmit(dev *dhcp6.Device) error {
	p := f.pendingFor(dev)
	if len(p.lastBuf) == 0 {
		return dhcp6.ErrEmptyOutboundBuffer
	}
	return dev.Transmit(f.sockets[dev.Ifindex], p.lastBuf, p.lastDst)
}

// AddressEvent implements dhcp6.FSM. The reference FSM only cares about
// address changes while it is waiting for readiness; Acquire's own
// promotion logic (dhcp6.Device.onReady) already handles that case, so
// this is a log-only hook for diagnostics.
func (f *FSM) AddressEvent(dev *dhcp6.Device, kind dhcp6.EventKind, addr dhcp6.Address) {
	f.Log.V(2).Info("address event observed by fsm", "ifname", dev.Ifname, "kind", kind, "address", addr.IP)
}

// SetTimeoutMsec implements dhcp6.FSM by arming dev's entry in the shared
// scheduler. The fired callback either fails the readiness wait or
// advances the retransmission timer, mirroring device.c's single timer
// callback ni_dhcp6_device_timeout.
func (f *FSM) SetTimeoutMsec(dev *dhcp6.Device, d time.Duration) {
	f.Sched.Schedule(dev.Ifindex, d, func() {
		f.onTimeout(dev)
	})
}

// CancelTimeout implements dhcp6.FSM.
func (f *FSM) CancelTimeout(dev *dhcp6.Device) bool {
	return f.Sched.Cancel(dev.Ifindex)
}

func (f *FSM) onTimeout(dev *dhcp6.Device) {
	if dev.FSMState == dhcp6.StateWaitReady {
		if err := dev.ReadinessTimedOut(f); err != nil {
			f.Log.Info("acquisition failed", "ifname", dev.Ifname, "error", err)
		}
		return
	}
	if err := dev.Retransmit(f); err != nil {
		f.Log.Info("retransmission exhausted", "ifname", dev.Ifname, "state", dev.FSMState, "error", err)
	}
}

func destUnicast(addr netip.Addr, zone string) dhcp6.Destination {
	d := dhcp6.Destination{Zone: zone, Port: dhcpv6.DefaultServerPort}
	copy(d.Addr[:], addr.AsSlice())
	return d
}

func destMulticast(zone string) dhcp6.Destination {
	return dhcp6.Destination{Addr: dhcp6.AllDHCPRelayAgentsAndServers, Zone: zone, Port: dhcpv6.DefaultServerPort}
}
