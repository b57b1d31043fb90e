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
	"net"

	"github.com/insomniacslk/dhcp/iana"
)

// Iface is the subset of kernel interface state the core needs. It is
// sourced from the process-wide netlink mirror (internal/netlinkmirror),
// which is out of scope for this core per spec.md §1/§6 -- LinkSource is
// the seam between the two.
type Iface struct {
	Name         string
	Ifindex      uint32
	HardwareAddr net.HardwareAddr
	ArpType      iana.HWType
	VlanTag      uint16
	LinkUp       bool
	NetworkUp    bool
	Addresses    []Address
}

// LinkSource answers questions about interfaces for IAID/DUID derivation
// and the readiness gate. Production code is backed by
// internal/netlinkmirror; tests supply a fakeLinkSource.
type LinkSource interface {
	// ByIndex returns the interface with the given index, or
	// ErrNoInterface if it doesn't exist.
	ByIndex(ifindex uint32) (Iface, error)
	// All returns every known interface, in the kernel's enumeration
	// order, for the DUID sibling-interface fallback (spec.md §4.4 step
	// 5).
	All() []Iface
}
