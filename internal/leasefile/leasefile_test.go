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

package leasefile

import (
	"net/netip"
	"testing"
	"time"

	"github.com/toabctl/wicked/internal/dhcp6"
)

func TestStore_SaveThenLoadRoundTrips(t *testing.T) {
	store := New(t.TempDir())

	lease := &dhcp6.Lease{
		Ifname:            "eth0",
		Family:            "dhcp6",
		Type:              "dynamic",
		State:             dhcp6.LeaseStateGranted,
		Address:           netip.MustParseAddr("2001:db8::42"),
		IAID:              7,
		PreferredLifetime: time.Hour,
		ValidLifetime:     2 * time.Hour,
		ServerDUID:        []byte{0x00, 0x01, 0xaa, 0xbb},
		ServerAddr:        netip.MustParseAddr("2001:db8::1"),
		Hostname:          "client1",
		ClientID:          []byte{0x00, 0x02, 0xcc},
		AcquiredAt:        time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	if err := store.Save("eth0", lease); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := store.Load("eth0")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if got.Address != lease.Address {
		t.Fatalf("got address %v, want %v", got.Address, lease.Address)
	}
	if got.ServerAddr != lease.ServerAddr {
		t.Fatalf("got server address %v, want %v", got.ServerAddr, lease.ServerAddr)
	}
	if string(got.ServerDUID) != string(lease.ServerDUID) {
		t.Fatalf("got server duid %x, want %x", got.ServerDUID, lease.ServerDUID)
	}
	if string(got.ClientID) != string(lease.ClientID) {
		t.Fatalf("got client id %x, want %x", got.ClientID, lease.ClientID)
	}
	if got.State != lease.State || got.IAID != lease.IAID || got.Hostname != lease.Hostname {
		t.Fatalf("got %+v, want matching state/iaid/hostname from %+v", got, lease)
	}
}

func TestStore_LoadMissing(t *testing.T) {
	store := New(t.TempDir())
	if _, err := store.Load("eth1"); err == nil {
		t.Fatal("expected an error loading a lease that was never saved")
	}
}

func TestStore_Remove(t *testing.T) {
	store := New(t.TempDir())
	lease := &dhcp6.Lease{Ifname: "eth0", Address: netip.MustParseAddr("2001:db8::1")}
	if err := store.Save("eth0", lease); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Remove("eth0"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, err := store.Load("eth0"); err == nil {
		t.Fatal("expected Load to fail after Remove")
	}
	// Removing an already-absent lease must not be an error.
	if err := store.Remove("eth0"); err != nil {
		t.Fatalf("second Remove should be a no-op, got: %v", err)
	}
}
