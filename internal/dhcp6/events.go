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

import "net/netip"

// EventKind enumerates the link/address event stream named in spec.md §6.
type EventKind int

const (
	EventDeviceUp EventKind = iota
	EventDeviceDown
	EventNetworkUp
	EventNetworkDown
	EventLinkUp
	EventLinkDown
	EventAddressUpdate
	EventAddressDelete
)

func (k EventKind) String() string {
	switch k {
	case EventDeviceUp:
		return "DEVICE_UP"
	case EventDeviceDown:
		return "DEVICE_DOWN"
	case EventNetworkUp:
		return "NETWORK_UP"
	case EventNetworkDown:
		return "NETWORK_DOWN"
	case EventLinkUp:
		return "LINK_UP"
	case EventLinkDown:
		return "LINK_DOWN"
	case EventAddressUpdate:
		return "ADDRESS_UPDATE"
	case EventAddressDelete:
		return "ADDRESS_DELETE"
	default:
		return "UNKNOWN"
	}
}

// Address is the subset of kernel address-flag state the core cares about
// (spec.md §4.7 "Readiness Gate").
type Address struct {
	IP        netip.Addr
	Tentative bool
	Duplicate bool
}

// IsLinkLocal reports whether a is an IPv6 link-local address
// (fe80::/10), per the GLOSSARY definition.
func (a Address) IsLinkLocal() bool {
	return a.IP.Is6() && a.IP.IsLinkLocalUnicast()
}

// Event is one item from the link/address event stream (spec.md §6).
type Event struct {
	Kind    EventKind
	Ifname  string // new name, for DEVICE_UP rename handling
	Ifindex uint32
	Addr    Address // populated for ADDRESS_UPDATE / ADDRESS_DELETE
}

// Dispatch routes ev to the appropriate device handler, implementing
// spec.md §4.9 "Event Adapter". It is the single entry point the process
// event loop (or netlinkmirror) calls for every observed kernel event.
func (reg *Registry) Dispatch(ev Event, fsm FSM) {
	dev := reg.LookupByIfindex(ev.Ifindex)
	if dev == nil {
		return
	}

	switch ev.Kind {
	case EventDeviceUp:
		dev.handleDeviceUp(ev.Ifname)
	case EventDeviceDown:
		dev.handleDeviceDown(fsm)
	case EventNetworkUp:
		dev.logger().Info("received network up event", "ifname", dev.Ifname)
	case EventNetworkDown:
		dev.logger().Info("received network down event", "ifname", dev.Ifname)
	case EventLinkDown:
		dev.logger().V(1).Info("received link down event", "ifname", dev.Ifname)
	case EventLinkUp:
		dev.logger().V(1).Info("received link up event", "ifname", dev.Ifname)
	case EventAddressUpdate:
		dev.handleAddressUpdate(ev.Addr, fsm)
	case EventAddressDelete:
		dev.handleAddressDelete(ev.Addr, fsm)
	default:
		dev.logger().V(1).Info("received other event", "ifname", dev.Ifname, "kind", ev.Kind)
	}
	dev.logAddresses()
}

// handleDeviceUp implements spec.md §4.9 "Device up": rename handling.
func (dev *Device) handleDeviceUp(newName string) {
	if newName != "" && newName != dev.Ifname {
		dev.logger().Info("updating interface name", "from", dev.Ifname, "to", newName)
		dev.Ifname = newName
	}
}

// handleDeviceDown implements spec.md §4.9 "Device down": call Stop.
func (dev *Device) handleDeviceDown(fsm FSM) {
	dev.logger().Info("network interface went down", "ifname", dev.Ifname)
	dev.Stop(fsm)
}

// handleAddressUpdate implements spec.md §4.9 "Address update".
func (dev *Device) handleAddressUpdate(addr Address, fsm FSM) {
	if !dev.Link.Addr.IsValid() && addr.IsLinkLocal() {
		if err := dev.adoptLinkLocal(addr); err != nil {
			dev.logger().V(1).Info("link-local address not yet usable", "ifname", dev.Ifname, "err", err)
		} else {
			dev.onReady(fsm)
		}
	}
	fsm.AddressEvent(dev, EventAddressUpdate, addr)
}

// handleAddressDelete implements spec.md §4.9 "Address delete".
func (dev *Device) handleAddressDelete(addr Address, fsm FSM) {
	if dev.Link.Addr.IsValid() && addr.IP == dev.Link.Addr {
		dev.Link.Addr = netip.Addr{}
	}
	fsm.AddressEvent(dev, EventAddressDelete, addr)
}
