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

// Package dhcp6config loads the process-wide ProcessConfig named in
// spec.md §6 from a YAML file, the way jr42 decodes its operator
// defaults: a single yaml.v3 unmarshal into a plain struct, with a small
// amount of validation and a hex-encoded byte slice for server DUIDs.
package dhcp6config

import (
	"fmt"
	"net/netip"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/toabctl/wicked/internal/dhcp6"
)

// serverPreferenceYAML is the on-disk shape of one preferred-servers
// entry; ServerDUID is hex-encoded since YAML has no byte-string type.
type serverPreferenceYAML struct {
	ServerDUID string `yaml:"server-duid,omitempty"`
	Address    string `yaml:"address,omitempty"`
	Weight     int    `yaml:"weight"`
}

// file is the on-disk shape of the whole process configuration file.
type file struct {
	DefaultDUID      string                  `yaml:"default-duid,omitempty"`
	UserClass        []string                `yaml:"user-class,omitempty"`
	VendorClassEN    uint32                  `yaml:"vendor-class-enterprise-number,omitempty"`
	VendorClassData  []string                `yaml:"vendor-class-data,omitempty"`
	VendorOptsEN     uint32                  `yaml:"vendor-opts-enterprise-number,omitempty"`
	VendorOptsData   map[string]string       `yaml:"vendor-opts-data,omitempty"`
	IgnoreServers    []string                `yaml:"ignore-servers,omitempty"`
	PreferredServers []serverPreferenceYAML  `yaml:"preferred-servers,omitempty"`
	MaxLeaseTimeSec  int                     `yaml:"max-lease-time-seconds,omitempty"`
}

// Load reads and decodes the process configuration at path, matching
// jr42's pattern of a single top-level config object read once at
// startup (spec.md §6 "Process configuration").
func Load(path string) (*dhcp6.ProcessConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("dhcp6config: reading %s: %w", path, err)
	}

	var f file
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("dhcp6config: parsing %s: %w", path, err)
	}

	return decode(&f)
}

func decode(f *file) (*dhcp6.ProcessConfig, error) {
	cfg := &dhcp6.ProcessConfig{
		DefaultDUIDHex:     f.DefaultDUID,
		VendorClassEN:      f.VendorClassEN,
		VendorOptsEN:       f.VendorOptsEN,
		IgnoreServers:      append([]string(nil), f.IgnoreServers...),
		MaxLeaseTimeConfig: time.Duration(f.MaxLeaseTimeSec) * time.Second,
	}

	for _, s := range f.UserClass {
		cfg.UserClassData = append(cfg.UserClassData, []byte(s))
	}
	for _, s := range f.VendorClassData {
		cfg.VendorClassData = append(cfg.VendorClassData, []byte(s))
	}
	if len(f.VendorOptsData) > 0 {
		cfg.VendorOptsData = make(map[string][]byte, len(f.VendorOptsData))
		for k, v := range f.VendorOptsData {
			cfg.VendorOptsData[k] = []byte(v)
		}
	}

	for _, s := range f.PreferredServers {
		pref := dhcp6.ServerPreference{Weight: s.Weight}
		if s.ServerDUID != "" {
			duid, err := dhcp6.ParseDUID(s.ServerDUID)
			if err != nil {
				return nil, fmt.Errorf("dhcp6config: preferred-servers entry has invalid server-duid %q: %w", s.ServerDUID, err)
			}
			pref.ServerDUID = duid.ToBytes()
		}
		if s.Address != "" {
			addr, err := netip.ParseAddr(s.Address)
			if err != nil {
				return nil, fmt.Errorf("dhcp6config: preferred-servers entry has invalid address %q: %w", s.Address, err)
			}
			pref.Address = addr
		}
		cfg.PreferredServers = append(cfg.PreferredServers, pref)
	}

	return cfg, nil
}
