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

// Acquire implements spec.md §4.8 "Acquire Flow" in full: allocate a
// fresh per-session config, derive the client DUID, synthesize or copy
// the requested IA list, validate the requested hostname, fetch the
// vendor class/opts/user-class from the process configuration, then
// gate on readiness (spec.md §8 boundary scenario 6 covers both halves
// of the readiness gate).
//
// Ported from device.c:540-568 (ni_dhcp6_acquire), extended with the
// config-derivation steps the original performs inline in the same
// function rather than splitting across a CLI layer.
func (dev *Device) Acquire(fsm FSM, req *Request) error {
	if req == nil {
		return ErrMalformedRequest
	}
	if dev.Link.Ifindex == 0 {
		return ErrNoInterface
	}
	if !dev.Link.Up {
		return ErrLinkDown
	}

	dev.SetRequest(req)
	dev.Best.Reset()

	// Step 1: allocate a fresh config, copying the request's own fields.
	cfg := &Config{
		UUID:        req.UUID,
		Update:      req.Update,
		InfoOnly:    req.InfoOnly,
		RapidCommit: req.RapidCommit,
		LeaseTime:   DefaultLeaseTime,
	}

	procCfg := dev.registry.Config

	// Step 2: derive the client DUID (spec.md §4.4).
	var configDefaultHex string
	if procCfg != nil {
		configDefaultHex = procCfg.DefaultDUIDHex
	}
	var siblings []Iface
	if dev.registry.Link != nil {
		siblings = dev.registry.Link.All()
	}
	duid, err := ResolveClientDUID(req.PreferredDUID, configDefaultHex, dev.registry.DUIDs, dev.Link, siblings, dev.clock)
	if err != nil {
		return err
	}
	cfg.ClientDUID = duid

	// Step 3: synthesize or deep-copy the IA list, unless this is an
	// info-only (Information-Request) acquisition, which carries no IAs.
	if !req.InfoOnly {
		if len(req.IAList) == 0 {
			cfg.IAList = []IADescriptor{{
				IAID:              dev.deriveIAID(),
				PreferredLifetime: DefaultIAPreferredLifetime,
				ValidLifetime:     DefaultIAValidLifetime,
			}}
		} else {
			cfg.IAList = cloneIAList(req.IAList)
		}
	}

	// Step 4: validate the requested hostname; drop it (without logging
	// it verbatim) rather than fail the whole acquire on a bad one.
	if req.Hostname != "" {
		if isValidDomainName(req.Hostname) {
			cfg.Hostname = req.Hostname
		} else {
			dev.logger().Info("discarded request to use suspect hostname", "hostname", printSuspect(req.Hostname))
		}
	}

	// Step 5: fetch vendor class/opts/user-class and the configured lease
	// time ceiling from the process configuration.
	cfg.VendorClass = procCfg.VendorClass()
	cfg.VendorOpts = procCfg.VendorOpts()
	if procCfg != nil {
		cfg.UserClass = procCfg.UserClassData
	}
	if max := procCfg.MaxLeaseTime(); max > 0 && (cfg.LeaseTime == 0 || cfg.LeaseTime > max) {
		cfg.LeaseTime = max
	}

	// Step 6: readiness gating. A device whose interface already has a
	// usable address before this Acquire call adopts it here rather than
	// waiting for a future ADDRESS_UPDATE event for an address that will
	// never be reported again (spec.md §4.7 "initial scan").
	dev.scanExistingAddresses()

	if !dev.IsReady() {
		dev.SetConfig(cfg)
		dev.EnterWaitReady(fsm)
		return nil
	}

	dev.SetConfig(cfg)
	dev.FSMState = dev.acquireState()
	return fsm.Start(dev)
}

// acquireState picks the exchange type Acquire/onReady should start: an
// Information-Request for an info-only config, a full Solicit otherwise
// (spec.md §4.8 step 6, §4.9 "Address update" promotion).
func (dev *Device) acquireState() State {
	if dev.Config != nil && dev.Config.InfoOnly {
		return StateInfoRequesting
	}
	return StateSelecting
}

// deriveIAID derives this device's IAID from its current link state
// (spec.md §4.3), falling back to the interface index alone if the
// interface has neither a usable hardware address nor a name -- a
// condition DeriveIAID itself cannot hit for a registered Device, whose
// Ifname is always non-empty, but guarded here defensively since this is
// the only call site inside the core.
func (dev *Device) deriveIAID() uint32 {
	iaid, ok := DeriveIAID(dev.Link.HardwareAddr, dev.Ifname, dev.Link.VlanTag, dev.Ifindex)
	if !ok {
		return dev.Ifindex
	}
	return iaid
}

// scanExistingAddresses implements spec.md §4.7's initial scan: before
// falling back to WAIT_READY, check whether the interface already has a
// usable link-local address recorded by the link source, rather than
// relying solely on a future ADDRESS_UPDATE event (which never arrives
// for an address that existed before the process started watching).
func (dev *Device) scanExistingAddresses() {
	if dev.Link.Addr.IsValid() || dev.registry == nil || dev.registry.Link == nil {
		return
	}
	iface, err := dev.registry.Link.ByIndex(dev.Ifindex)
	if err != nil {
		return
	}
	for _, addr := range iface.Addresses {
		if !addr.IsLinkLocal() {
			continue
		}
		if err := dev.adoptLinkLocal(addr); err == nil {
			return
		}
	}
}

// Release implements spec.md §4.11 "Release flow": give up the held
// lease, notifying the server via the FSM's Release exchange if one is
// held, then return the device to its unconfigured state regardless of
// whether the Release exchange itself succeeds (device.c's
// ni_dhcp6_device_release never blocks process shutdown on server ACK).
func (dev *Device) Release(fsm FSM) error {
	if dev.Lease == nil {
		return ErrDeviceAlreadyInactive
	}
	dev.FSMState = StateReleasing
	err := fsm.Start(dev)
	dev.Stop(fsm)
	return err
}

// RestartAll implements spec.md §4.11 "restart-all": re-issue Acquire for
// every device currently holding a request, used after a process-wide
// configuration reload (device.c's ni_dhcp6_restart_all, invoked when
// the supplicant receives SIGHUP).
func RestartAll(reg *Registry, fsm FSM) []error {
	var errs []error
	for _, dev := range reg.All() {
		if dev.Request == nil {
			continue
		}
		if err := dev.Acquire(fsm, dev.Request); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}
