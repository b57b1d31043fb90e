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
	"github.com/go-logr/logr"
)

// LeaseStore persists committed leases across process restarts
// (spec.md §4.11 "DUID/lease persistence"; implemented by
// internal/leasefile).
type LeaseStore interface {
	Load(ifname string) (*Lease, error)
	Save(ifname string, lease *Lease) error
	Remove(ifname string) error
}

// DUIDStore persists the client DUID across process restarts
// (spec.md §4.2 "DUID persistence"; implemented by internal/duidstore).
type DUIDStore interface {
	Load() ([]byte, error)
	Save(duid []byte) error
}

// Registry owns the set of managed devices and the collaborators shared
// by all of them (spec.md §4.1 "Registry"; device.c's global device
// list, reshaped from an intrusive linked list into a map keyed by
// ifindex -- spec.md §8 "Registry membership uniqueness").
type Registry struct {
	Link   LinkSource
	Leases LeaseStore
	DUIDs  DUIDStore
	Clock  Clock
	Log    logr.Logger
	Config *ProcessConfig

	devices map[uint32]*Device
	order   []*Device
}

// NewRegistry constructs an empty Registry. Link, Leases, DUIDs and
// Config may be nil in tests that don't exercise the paths needing them;
// Clock defaults to DefaultClock and Log to logr.Discard() when zero.
func NewRegistry(link LinkSource, leases LeaseStore, duids DUIDStore, cfg *ProcessConfig, log logr.Logger, clock Clock) *Registry {
	if clock == nil {
		clock = DefaultClock
	}
	return &Registry{
		Link:    link,
		Leases:  leases,
		DUIDs:   duids,
		Clock:   clock,
		Log:     log,
		Config:  cfg,
		devices: make(map[uint32]*Device),
	}
}

// Create registers a new Device for ifindex/ifname, or returns the
// existing one if already registered (spec.md §8 "Registry membership
// uniqueness": at most one Device per ifindex at any time;
// device.c:172-210 ni_dhcp6_device_new).
func (reg *Registry) Create(ifname string, ifindex uint32) *Device {
	if dev, ok := reg.devices[ifindex]; ok {
		return dev
	}
	dev := &Device{
		Ifname:   ifname,
		Ifindex:  ifindex,
		Link:     LinkInfo{Ifname: ifname, Ifindex: ifindex},
		FSMState: StateInit,
		refs:     1,
		registry: reg,
		clock:    reg.Clock,
	}
	dev.Best.Reset()
	reg.devices[ifindex] = dev
	reg.order = append(reg.order, dev)
	return dev
}

// LookupByIfindex returns the device registered for ifindex, or nil
// (spec.md §4.1 "Lookup"; device.c's ni_dhcp6_device_by_index).
func (reg *Registry) LookupByIfindex(ifindex uint32) *Device {
	return reg.devices[ifindex]
}

// LookupByName returns the device registered under ifname, or nil.
func (reg *Registry) LookupByName(ifname string) *Device {
	for _, dev := range reg.order {
		if dev.Ifname == ifname {
			return dev
		}
	}
	return nil
}

// All returns every currently registered device, in creation order.
func (reg *Registry) All() []*Device {
	out := make([]*Device, len(reg.order))
	copy(out, reg.order)
	return out
}

// remove drops dev from the registry once its refcount reaches zero
// (device.c:212-240 ni_dhcp6_device_free).
func (reg *Registry) remove(dev *Device) {
	delete(reg.devices, dev.Ifindex)
	for i, d := range reg.order {
		if d == dev {
			reg.order = append(reg.order[:i], reg.order[i+1:]...)
			break
		}
	}
}
