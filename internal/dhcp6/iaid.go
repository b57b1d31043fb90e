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

import "encoding/binary"

// DeriveIAID implements spec.md §4.3 "IAID Derivation". It is a pure
// function of (hwaddr, ifname, vlanTag, ifindex), matching the
// determinism invariant in spec.md §8 and the literal worked examples in
// spec.md §8 boundary scenarios 1-2.
//
// Ported from device.c:332-364 (ni_dhcp6_device_iaid) with one explicit
// deviation: the original reads `len(ifname) % 4` bytes of the name into
// an uninitialized 4-byte scratch (a latent bug -- a multiple-of-4-length
// name copies zero bytes and XORs in stack garbage). We instead read
// min(len(ifname), 4) bytes into a zero-initialized buffer, which is the
// only reading that (a) is deterministic and (b) satisfies spec.md §8
// scenario 2 (see DESIGN.md Open Question #2).
func DeriveIAID(hwaddr []byte, ifname string, vlanTag uint16, ifindex uint32) (uint32, bool) {
	if len(hwaddr) > 4 {
		off := len(hwaddr) - 4
		return binary.LittleEndian.Uint32(hwaddr[off : off+4]), true
	}

	if len(ifname) == 0 {
		return 0, false
	}

	var buf [4]byte
	n := len(ifname)
	if n > 4 {
		n = 4
	}
	copy(buf[:n], ifname[:n])

	iaid := binary.LittleEndian.Uint32(buf[:])
	if vlanTag > 0 {
		iaid ^= uint32(vlanTag)
	}
	iaid ^= ifindex
	return iaid, true
}
