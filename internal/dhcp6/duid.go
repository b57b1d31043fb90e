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
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	"github.com/insomniacslk/dhcp/dhcpv6"
	"github.com/insomniacslk/dhcp/iana"
)

// duidEpoch is the DUID-LLT time base, midnight UTC, 1 Jan 2000
// (RFC 8415 §11.2), used to compute the 32-bit seconds-since-epoch field.
var duidEpoch = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// siblingHWTypes are the ARP hardware types spec.md §4.4 step 5 accepts
// when deriving a DUID-LLT from an interface other than the device's own
// (RFC 8415 §11.2 permits any link-layer address; wicked narrows this to
// the types its LLADDR encoding actually understands).
var siblingHWTypes = map[iana.HWType]bool{
	iana.HWTypeEthernet:   true,
	iana.HWTypeIEEE802:    true,
	iana.HWTypeInfiniBand: true,
}

// ResolveClientDUID implements spec.md §4.4 "DUID Derivation", the
// six-step chain, stopping at the first step that produces a DUID:
//
//  1. preferredHex, if non-empty, parsed as a hex-encoded DUID;
//  2. configDefaultHex (the process configuration's default_duid), if
//     non-empty, parsed the same way;
//  3. a DUID previously persisted to store;
//  4. a DUID-LLT derived from the device's own link hardware address;
//  5. a DUID-LLT derived from the hardware address of the first sibling
//     interface (in enumeration order) whose ARP type is Ethernet,
//     IEEE 802, or InfiniBand and which has a non-empty hardware address;
//  6. a DUID-UUID (RFC 6355) generated from a random UUID.
//
// Per spec.md §4.4, a DUID produced by step 3 is already on disk and is
// not re-saved; a DUID produced by any other step is persisted to store
// before returning, so a later call with the same store and no caller
// preference becomes idempotent at step 3 (spec.md §8 "DUID idempotence").
//
// Ported from device.c:420-470 (ni_dhcp6_device_duid_init), extended with
// the preferred/config-default/sibling-interface steps the original reads
// from its own config file parsing rather than a typed Go signature.
func ResolveClientDUID(preferredHex, configDefaultHex string, store DUIDStore, link LinkInfo, siblings []Iface, clock Clock) (dhcpv6.DUID, error) {
	if preferredHex != "" {
		if duid, err := ParseDUID(preferredHex); err == nil {
			return persistDUID(store, duid), nil
		}
	}

	if configDefaultHex != "" {
		if duid, err := ParseDUID(configDefaultHex); err == nil {
			return persistDUID(store, duid), nil
		}
	}

	if store != nil {
		if raw, err := store.Load(); err == nil && len(raw) > 0 {
			if duid, err := dhcpv6.DUIDFromBytes(raw); err == nil {
				return duid, nil
			}
		}
	}

	if len(link.HardwareAddr) > 0 {
		duid := duidLLTFrom(link.HardwareAddr, clock)
		return persistDUID(store, duid), nil
	}

	for _, sibling := range siblings {
		if len(sibling.HardwareAddr) == 0 || !siblingHWTypes[sibling.ArpType] {
			continue
		}
		duid := duidLLTFrom(sibling.HardwareAddr, clock)
		return persistDUID(store, duid), nil
	}

	id, err := uuid.NewRandom()
	if err != nil {
		return nil, ErrDUIDGenerationFailed
	}
	var raw [16]byte
	copy(raw[:], id[:])
	return persistDUID(store, &dhcpv6.DUIDUUID{UUID: raw}), nil
}

func duidLLTFrom(hwaddr []byte, clock Clock) dhcpv6.DUID {
	return &dhcpv6.DUIDLLT{
		HWType:        iana.HWTypeEthernet,
		Time:          uint32(clock.Now().Sub(duidEpoch).Seconds()),
		LinkLayerAddr: hwaddr,
	}
}

// persistDUID saves duid to store, ignoring a failed save: a persistence
// error downgrades to "derive again next time", never to a failed
// acquire (spec.md §4.4: "Fail only if the final DUID length is zero").
func persistDUID(store DUIDStore, duid dhcpv6.DUID) dhcpv6.DUID {
	if store != nil {
		_ = store.Save(duid.ToBytes())
	}
	return duid
}

// FormatDUID renders a DUID as the colon-free lowercase hex string used
// in config files and logs (spec.md §8 "DUID hex parse∘format round
// trip").
func FormatDUID(duid dhcpv6.DUID) string {
	return hex.EncodeToString(duid.ToBytes())
}

// ParseDUID is the inverse of FormatDUID.
func ParseDUID(s string) (dhcpv6.DUID, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, err
	}
	return dhcpv6.DUIDFromBytes(raw)
}
