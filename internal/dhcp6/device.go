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

// Package dhcp6 implements the DHCPv6 client supplicant core: a registry
// of devices, each running a single-threaded retransmission/lease state
// machine driven by an external FSM and fed link/address events by a
// LinkSource. It has no network I/O or wire-format knowledge of its own;
// those are supplied by collaborators (FSM, Socket, LinkSource,
// LeaseStore, DUIDStore) so the core stays testable without a kernel.
package dhcp6

import (
	"net/netip"
	"time"

	"github.com/go-logr/logr"
)

// LinkInfo holds the subset of interface state the device needs to reach
// readiness and derive its IAID (spec.md §4.1, §4.3; device.c:78-103
// ni_dhcp6_device_t's link-related fields).
type LinkInfo struct {
	Ifname       string
	Ifindex      uint32
	HardwareAddr []byte
	VlanTag      uint16
	Up           bool
	NetworkUp    bool
	Addr         netip.Addr // adopted link-local source address, or invalid
}

// Device is one managed network interface's DHCPv6 client state
// (spec.md §4.1 "Device"; device.c:78-140 ni_dhcp6_device_t). A Device is
// owned by exactly one Registry and is never accessed from more than one
// goroutine: all mutation happens on the single event-loop goroutine that
// dispatches Registry.Dispatch.
type Device struct {
	Ifname  string
	Ifindex uint32
	Link    LinkInfo

	FSMState State
	Retrans  RetransmitState
	Xid      uint32

	Config  *Config
	Request *Request
	Lease   *Lease
	Best    BestOffer

	refs int

	registry *Registry
	clock    Clock
}

// MaxElapsedTime is the ceiling Uptime clamps to: the RFC 8415 §21.9
// elapsed-time option is a wire uint16 of centiseconds, which saturates
// at 0xffff (~655.35s) rather than wrapping.
const MaxElapsedTime = 65535 * 10 * time.Millisecond

// logger returns a per-device logr.Logger carrying the interface name as
// a structured field, matching the teacher's "always name the device in
// every log line" convention (jr42's receiver logging idiom).
func (dev *Device) logger() logr.Logger {
	return dev.registry.Log.WithValues("ifname", dev.Ifname, "ifindex", dev.Ifindex)
}

// Uptime reports elapsed time in the current exchange: centiseconds
// since dev.Retrans.Start, clamped to max, or 0 if no transmission has
// yet occurred in the current exchange (spec.md §4.6 "Uptime";
// device.c:315-328 ni_dhcp6_device_uptime). The result remains a
// time.Duration rounded to a centisecond boundary so callers (the
// elapsed-time wire option) don't need their own unit conversion.
func (dev *Device) Uptime(max time.Duration) time.Duration {
	if dev.Retrans.Start.IsZero() {
		return 0
	}
	elapsed := dev.clock.Now().Sub(dev.Retrans.Start)
	if elapsed < 0 {
		elapsed = 0
	}
	elapsed -= elapsed % (10 * time.Millisecond)
	if max > 0 && elapsed > max {
		elapsed = max
	}
	return elapsed
}

// Get increments the device's reference count (spec.md §4.1 "Refcounting";
// device.c:142-150 ni_dhcp6_device_get). Every Get must be matched by a Put.
func (dev *Device) Get() *Device {
	dev.refs++
	return dev
}

// Put decrements the reference count, freeing the device from its
// registry once it reaches zero (device.c:152-168 ni_dhcp6_device_put).
func (dev *Device) Put() {
	dev.refs--
	if dev.refs > 0 {
		return
	}
	dev.registry.remove(dev)
}

// SetConfig installs a new process-derived configuration, replacing any
// previous one (spec.md §4.1 "SetConfig").
func (dev *Device) SetConfig(cfg *Config) {
	dev.Config = cfg
}

// SetRequest installs the pending acquisition request (spec.md §4.1
// "SetRequest").
func (dev *Device) SetRequest(req *Request) {
	dev.Request = req
}

// SetLease installs the committed lease, clearing any best-offer state
// left over from selection (spec.md §4.1 "SetLease").
func (dev *Device) SetLease(lease *Lease) {
	dev.Lease = lease
	dev.Best.Reset()
}

// DropBestOffer discards the best offer recorded so far without touching
// any committed lease (spec.md §4.1 "DropBestOffer"; used when SELECTING
// gives up and restarts Solicit).
func (dev *Device) DropBestOffer() {
	dev.Best.Reset()
}

// adoptLinkLocal records addr as the device's source address once it is
// a usable, non-duplicate link-local address (spec.md §4.9 "Readiness").
func (dev *Device) adoptLinkLocal(addr Address) error {
	if addr.Duplicate {
		return ErrLinkLocalDuplicate
	}
	if addr.Tentative {
		return ErrNoLinkLocalAddress
	}
	dev.Link.Addr = addr.IP
	dev.logger().V(1).Info("adopted link-local source address", "address", addr.IP)
	return nil
}

// logAddresses emits a diagnostic dump of the device's current address
// state at V(2), matching the teacher's verbose per-event tracing
// (spec.md §4.11 "Address diagnostic dump"; device.c's
// ni_dhcp6_device_show_addrs, invoked at the end of every event).
func (dev *Device) logAddresses() {
	log := dev.logger()
	if !log.V(2).Enabled() {
		return
	}
	if dev.Link.Addr.IsValid() {
		log.V(2).Info("current link-local address", "address", dev.Link.Addr)
	} else {
		log.V(2).Info("no link-local address adopted")
	}
	if dev.Lease != nil && dev.Lease.Address.IsValid() {
		log.V(2).Info("current lease address", "address", dev.Lease.Address, "state", dev.Lease.State)
	}
}

// Stop implements spec.md §4.2's Device Lifecycle contract: drop the
// lease and best offer silently (no network Release -- that notifying
// path belongs to Device.Release, called explicitly when the caller
// wants the server told), reset FSM state to INIT, cancel any pending
// FSM timer, and clear config and request, without freeing the device
// itself. Stop is idempotent: calling it twice yields the same
// observable end state (device.c's ni_dhcp6_device_stop).
func (dev *Device) Stop(fsm FSM) {
	dev.Disarm()
	if fsm != nil && fsm.CancelTimeout(dev) {
		dev.logger().Info("canceled pending fsm timer while stopping")
	}
	dev.FSMState = StateInit
	dev.Lease = nil
	dev.Best.Reset()
	dev.Config = nil
	dev.Request = nil
}
