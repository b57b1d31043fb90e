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

// Package leasefile implements dhcp6.LeaseStore by persisting one YAML
// document per interface under a base directory, mirroring wicked's
// per-interface lease XML files under /var/lib/wicked/leases (spec.md
// §4.11 "DUID/lease persistence").
package leasefile

import (
	"encoding/hex"
	"fmt"
	"net/netip"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/toabctl/wicked/internal/dhcp6"
)

// onDisk is the YAML shape written for one Lease.
type onDisk struct {
	Family            string        `yaml:"family"`
	Type              string        `yaml:"type"`
	State             int           `yaml:"state"`
	Address           string        `yaml:"address"`
	IAID              uint32        `yaml:"iaid"`
	PreferredLifetime time.Duration `yaml:"preferred-lifetime"`
	ValidLifetime     time.Duration `yaml:"valid-lifetime"`
	ServerDUID        string        `yaml:"server-duid,omitempty"`
	ServerAddr        string        `yaml:"server-address,omitempty"`
	Hostname          string        `yaml:"hostname,omitempty"`
	ClientID          string        `yaml:"client-id,omitempty"`
	AcquiredAt        time.Time     `yaml:"acquired-at"`
}

// Store is a file-backed dhcp6.LeaseStore, one file per interface name.
type Store struct {
	Dir string
}

// New returns a Store persisting under dir.
func New(dir string) *Store {
	return &Store{Dir: dir}
}

func (s *Store) path(ifname string) string {
	return filepath.Join(s.Dir, "lease-"+ifname+".yaml")
}

// Load reads and decodes the lease persisted for ifname.
func (s *Store) Load(ifname string) (*dhcp6.Lease, error) {
	raw, err := os.ReadFile(s.path(ifname))
	if err != nil {
		return nil, err
	}

	var d onDisk
	if err := yaml.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("leasefile: parsing lease for %s: %w", ifname, err)
	}

	lease := &dhcp6.Lease{
		Ifname:            ifname,
		Family:            d.Family,
		Type:              d.Type,
		State:             dhcp6.LeaseState(d.State),
		IAID:              d.IAID,
		PreferredLifetime: d.PreferredLifetime,
		ValidLifetime:     d.ValidLifetime,
		Hostname:          d.Hostname,
		AcquiredAt:        d.AcquiredAt,
	}
	if d.Address != "" {
		addr, err := netip.ParseAddr(d.Address)
		if err != nil {
			return nil, fmt.Errorf("leasefile: invalid address %q for %s: %w", d.Address, ifname, err)
		}
		lease.Address = addr
	}
	if d.ServerAddr != "" {
		addr, err := netip.ParseAddr(d.ServerAddr)
		if err != nil {
			return nil, fmt.Errorf("leasefile: invalid server-address %q for %s: %w", d.ServerAddr, ifname, err)
		}
		lease.ServerAddr = addr
	}
	if d.ServerDUID != "" {
		lease.ServerDUID, err = hex.DecodeString(d.ServerDUID)
		if err != nil {
			return nil, fmt.Errorf("leasefile: invalid server-duid for %s: %w", ifname, err)
		}
	}
	if d.ClientID != "" {
		lease.ClientID, err = hex.DecodeString(d.ClientID)
		if err != nil {
			return nil, fmt.Errorf("leasefile: invalid client-id for %s: %w", ifname, err)
		}
	}
	return lease, nil
}

// Save writes lease for ifname, creating the store directory if needed.
func (s *Store) Save(ifname string, lease *dhcp6.Lease) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("leasefile: creating %s: %w", s.Dir, err)
	}

	d := onDisk{
		Family:            lease.Family,
		Type:              lease.Type,
		State:             int(lease.State),
		IAID:              lease.IAID,
		PreferredLifetime: lease.PreferredLifetime,
		ValidLifetime:     lease.ValidLifetime,
		Hostname:          lease.Hostname,
		AcquiredAt:        lease.AcquiredAt,
	}
	if lease.Address.IsValid() {
		d.Address = lease.Address.String()
	}
	if lease.ServerAddr.IsValid() {
		d.ServerAddr = lease.ServerAddr.String()
	}
	if len(lease.ServerDUID) > 0 {
		d.ServerDUID = hex.EncodeToString(lease.ServerDUID)
	}
	if len(lease.ClientID) > 0 {
		d.ClientID = hex.EncodeToString(lease.ClientID)
	}

	raw, err := yaml.Marshal(&d)
	if err != nil {
		return fmt.Errorf("leasefile: encoding lease for %s: %w", ifname, err)
	}
	return os.WriteFile(s.path(ifname), raw, 0o644)
}

// Remove deletes the persisted lease for ifname, if any.
func (s *Store) Remove(ifname string) error {
	err := os.Remove(s.path(ifname))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
