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
	"encoding/binary"
	"testing"
)

// spec.md §8 boundary scenario 1: a device with a 6-byte hardware
// address derives its IAID from the last 4 bytes, little-endian.
func TestDeriveIAID_HardwareAddress(t *testing.T) {
	hwaddr := []byte{0x00, 0x11, 0x22, 0x33, 0x44, 0x55}
	got, ok := DeriveIAID(hwaddr, "eth0", 0, 3)
	if !ok {
		t.Fatal("expected ok=true")
	}
	want := binary.LittleEndian.Uint32(hwaddr[2:6])
	if got != want {
		t.Fatalf("got %#x, want %#x", got, want)
	}
}

// spec.md §8 boundary scenario 2: no hardware address, interface name
// "eth0", vlan tag 7, ifindex 3.
func TestDeriveIAID_NameVlanIfindex(t *testing.T) {
	got, ok := DeriveIAID(nil, "eth0", 7, 3)
	if !ok {
		t.Fatal("expected ok=true")
	}
	name := binary.LittleEndian.Uint32([]byte("eth0"))
	want := (name ^ 7) ^ 3
	if got != want {
		t.Fatalf("got %#x, want %#x", got, want)
	}
}

// Determinism: same inputs always produce the same output.
func TestDeriveIAID_Deterministic(t *testing.T) {
	a, okA := DeriveIAID(nil, "vlan7", 7, 9)
	b, okB := DeriveIAID(nil, "vlan7", 7, 9)
	if !okA || !okB || a != b {
		t.Fatalf("derivation is not deterministic: %#x (%v) vs %#x (%v)", a, okA, b, okB)
	}
}

// A short interface name is zero-padded rather than left uninitialized
// (see DESIGN.md's "Open Question #2").
func TestDeriveIAID_ShortName(t *testing.T) {
	got, ok := DeriveIAID(nil, "lo", 0, 1)
	if !ok {
		t.Fatal("expected ok=true")
	}
	var buf [4]byte
	copy(buf[:2], "lo")
	want := binary.LittleEndian.Uint32(buf[:]) ^ 1
	if got != want {
		t.Fatalf("got %#x, want %#x", got, want)
	}
}

func TestDeriveIAID_NoNameNoHardware(t *testing.T) {
	if _, ok := DeriveIAID(nil, "", 0, 1); ok {
		t.Fatal("expected ok=false when neither hardware address nor name is available")
	}
}
