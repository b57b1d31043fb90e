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
	"bytes"
	"net/netip"
	"strings"
)

// HaveServerPreference reports whether any preferred-servers entries are
// configured (device.c:1231-1236 ni_dhcp6_config_have_server_preference).
func (c *ProcessConfig) HaveServerPreference() bool {
	return c != nil && len(c.PreferredServers) > 0
}

// ServerPreference looks up the configured weight for a candidate server.
// An entry matches by DUID equality when it carries a DUID, or by address
// equality when it carries an address (spec.md §6 "Server-preference lookup";
// device.c:1238-1259 ni_dhcp6_config_server_preference).
func (c *ProcessConfig) ServerPreference(addr netip.Addr, duid []byte) (weight int, ok bool) {
	if c == nil {
		return 0, false
	}
	for _, pref := range c.PreferredServers {
		match := false
		if len(pref.ServerDUID) > 0 {
			match = bytes.Equal(pref.ServerDUID, duid)
		}
		if !match && pref.Address.IsValid() {
			match = addr.IsValid() && addr == pref.Address
		}
		if match {
			return pref.Weight, true
		}
	}
	return 0, false
}

// IgnoreServer compares addr's canonical IPv6 text form against the
// configured ignore list, case-insensitively (spec.md §6 "Ignore-server
// check"). device.c:1220-1229 formatted the candidate with
// inet_ntop(AF_INET, ...) -- the REDESIGN FLAG in spec.md §9 -- which this
// implementation fixes by canonicalizing through net/netip throughout.
func (c *ProcessConfig) IgnoreServer(addr netip.Addr) bool {
	if c == nil || !addr.IsValid() {
		return false
	}
	want := strings.ToLower(addr.String())
	for _, s := range c.IgnoreServers {
		if parsed, err := netip.ParseAddr(s); err == nil {
			if parsed == addr {
				return true
			}
			continue
		}
		if strings.ToLower(s) == want {
			return true
		}
	}
	return false
}
