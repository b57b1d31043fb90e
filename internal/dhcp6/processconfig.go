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
	"net/netip"
	"time"
)

// DefaultVendorEnterpriseNumber is used when the process configuration has
// no vendor-class enterprise number of its own (spec.md §4.4/§4.8;
// device.c's NI_DHCP6_VENDOR_ENTERPRISE_NUMBER, SUSE's assigned number).
const DefaultVendorEnterpriseNumber = 7075

// DefaultVendorVersionString is the <name>/<version> fallback vendor class
// string (device.c's NI_DHCP6_VENDOR_VERSION_STRING).
const DefaultVendorVersionString = "wicked-dhcp6/0.0.0"

// ServerPreference is one entry of ProcessConfig.PreferredServers
// (spec.md §6 "preferred-servers list").
type ServerPreference struct {
	ServerDUID []byte // matched by equality when non-empty
	Address    netip.Addr
	Weight     int
}

// ProcessConfig is the read-mostly, immutable-after-init process
// configuration named in spec.md §6. Loading it from disk (YAML) and
// exposing the single package-level accessor is internal/dhcp6config's
// job; this type is what that package decodes into.
type ProcessConfig struct {
	DefaultDUIDHex   string
	UserClassData    [][]byte
	VendorClassEN    uint32
	VendorClassData  [][]byte
	VendorOptsEN     uint32
	VendorOptsData   map[string][]byte
	IgnoreServers    []string
	PreferredServers []ServerPreference

	// MaxLeaseTimeConfig is the configured ceiling on Config.LeaseTime
	// (see the MaxLeaseTime accessor); named distinctly from it since Go
	// forbids a method and field sharing one name.
	MaxLeaseTimeConfig time.Duration
}

// VendorClass returns the vendor-class enterprise number and data to use
// for an acquire, falling back to DefaultVendorEnterpriseNumber/
// DefaultVendorVersionString when unconfigured (spec.md §4.4/§4.8,
// device.c:1185-1198 ni_dhcp6_config_vendor_class).
func (c *ProcessConfig) VendorClass() VendorClass {
	if c != nil && c.VendorClassEN != 0 {
		return VendorClass{EnterpriseNumber: c.VendorClassEN, Data: c.VendorClassData}
	}
	return VendorClass{
		EnterpriseNumber: DefaultVendorEnterpriseNumber,
		Data:             [][]byte{[]byte(DefaultVendorVersionString)},
	}
}

// VendorOpts returns the configured vendor options, or a zero value when
// unconfigured (device.c:1200-1218 ni_dhcp6_config_vendor_opts).
func (c *ProcessConfig) VendorOpts() VendorOpts {
	if c == nil || c.VendorOptsEN == 0 {
		return VendorOpts{}
	}
	return VendorOpts{EnterpriseNumber: c.VendorOptsEN, Data: c.VendorOptsData}
}

// MaxLeaseTime returns the configured maximum lease time, or 0 ("no
// limit") when unconfigured.
func (c *ProcessConfig) MaxLeaseTime() time.Duration {
	if c == nil {
		return 0
	}
	return c.MaxLeaseTimeConfig
}
