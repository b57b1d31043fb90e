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

	"github.com/insomniacslk/dhcp/dhcpv6"
)

// UpdateFlag is a bit in the Config.Update bitset naming which subsystems
// the client may accept server-provided data for (spec.md §3
// "Configuration").
type UpdateFlag uint32

const (
	UpdateHostname UpdateFlag = 1 << iota
	UpdateResolver
	UpdateNIS
	UpdateNTP
	UpdateDefaultRoute
)

// IADescriptor is one requested identity association (spec.md §3
// "Configuration" ia_list). Only IA_NA is modeled; IA_PD/IA_TA belong to
// the prefix-delegation and temporary-address extensions this spec does
// not cover.
type IADescriptor struct {
	IAID              uint32
	PreferredLifetime time.Duration
	ValidLifetime     time.Duration
}

// DefaultLeaseTime is Config.LeaseTime's value when Acquire allocates a
// fresh config and the request carries no preference of its own (spec.md
// §4.8 step 1, "set lease_time to preferred-lifetime default"). Zero asks
// the server for whatever preferred lifetime it chooses to offer; neither
// spec.md nor the filtered original_source/dhcp6/device.c excerpt names a
// specific nonzero default (see DESIGN.md Open Questions).
const DefaultLeaseTime time.Duration = 0

// DefaultIAPreferredLifetime and DefaultIAValidLifetime are the T1/T2
// values Acquire uses when synthesizing an IA_NA for a request that
// didn't supply its own IA list (spec.md §4.8 step 3, "default
// lifetimes"). Zero means "the client expresses no preference and lets
// the server decide" (RFC 8415 §21.4).
const (
	DefaultIAPreferredLifetime time.Duration = 0
	DefaultIAValidLifetime     time.Duration = 0
)

// VendorClass is Config.vendor_class: an IANA enterprise number plus an
// ordered sequence of opaque class-identifying byte strings.
type VendorClass struct {
	EnterpriseNumber uint32
	Data             [][]byte
}

// VendorOpts is Config.vendor_opts: an IANA enterprise number plus a
// named option map (option name -> raw value), per spec.md §3.
type VendorOpts struct {
	EnterpriseNumber uint32
	Data             map[string][]byte
}

// Config is the per-acquire session configuration (spec.md §3
// "Configuration"). It is created fresh by Device.Acquire and owned
// exclusively by the Device; replacing or clearing it frees the prior
// value (SetConfig).
type Config struct {
	UUID         [16]byte
	Update       UpdateFlag
	InfoOnly     bool
	RapidCommit  bool
	LeaseTime    time.Duration
	ClientDUID   dhcpv6.DUID
	IAList       []IADescriptor
	Hostname     string
	UserClass    [][]byte
	VendorClass  VendorClass
	VendorOpts   VendorOpts
}

// cloneIAList performs the deep copy required by spec.md §4.8 step 3 ("deep
// copy the caller's IA list verbatim"). Its round-trip law (spec.md §8) is
// that the copy is structurally equal to, but does not alias, the source.
func cloneIAList(src []IADescriptor) []IADescriptor {
	if src == nil {
		return nil
	}
	out := make([]IADescriptor, len(src))
	copy(out, src)
	return out
}
