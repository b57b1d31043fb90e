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

// Package netlinkmirror implements dhcp6.LinkSource and produces the
// dhcp6.Event stream from live netlink link/address notifications, the
// way jr42's receivers mirror kernel routing state into their control
// loop, built on github.com/vishvananda/netlink.
package netlinkmirror

import (
	"context"
	"net/netip"

	"github.com/go-logr/logr"
	"github.com/vishvananda/netlink"
	"golang.org/x/sys/unix"

	"github.com/insomniacslk/dhcp/iana"

	"github.com/toabctl/wicked/internal/dhcp6"
)

// Mirror is a dhcp6.LinkSource backed by the kernel's netlink interface,
// and the producer side of a dhcp6.Event channel consumed by the process
// event loop.
type Mirror struct {
	Log logr.Logger
}

// New returns a Mirror.
func New(log logr.Logger) *Mirror {
	return &Mirror{Log: log}
}

// ByIndex implements dhcp6.LinkSource.
func (m *Mirror) ByIndex(ifindex uint32) (dhcp6.Iface, error) {
	link, err := netlink.LinkByIndex(int(ifindex))
	if err != nil {
		return dhcp6.Iface{}, err
	}
	return m.toIface(link)
}

// All implements dhcp6.LinkSource.
func (m *Mirror) All() []dhcp6.Iface {
	links, err := netlink.LinkList()
	if err != nil {
		m.Log.Info("failed to list links", "error", err)
		return nil
	}
	out := make([]dhcp6.Iface, 0, len(links))
	for _, link := range links {
		iface, err := m.toIface(link)
		if err != nil {
			continue
		}
		out = append(out, iface)
	}
	return out
}

func (m *Mirror) toIface(link netlink.Link) (dhcp6.Iface, error) {
	attrs := link.Attrs()
	iface := dhcp6.Iface{
		Name:         attrs.Name,
		Ifindex:      uint32(attrs.Index),
		HardwareAddr: attrs.HardwareAddr,
		ArpType:      iana.HWTypeEthernet,
		LinkUp:       attrs.OperState == netlink.OperUp,
		NetworkUp:    attrs.Flags&netlink.FlagUp != 0,
	}

	addrs, err := netlink.AddrList(link, netlink.FAMILY_V6)
	if err != nil {
		return iface, err
	}
	for _, a := range addrs {
		addr, ok := addrFromNetlink(a)
		if ok {
			iface.Addresses = append(iface.Addresses, addr)
		}
	}
	return iface, nil
}

func addrFromNetlink(a netlink.Addr) (dhcp6.Address, bool) {
	if a.IPNet == nil {
		return dhcp6.Address{}, false
	}
	ip, ok := netip.AddrFromSlice(a.IPNet.IP)
	if !ok {
		return dhcp6.Address{}, false
	}
	return dhcp6.Address{
		IP:        ip.Unmap(),
		Tentative: a.Flags&unix.IFA_F_TENTATIVE != 0,
		Duplicate: a.Flags&unix.IFA_F_DADFAILED != 0,
	}, true
}

// Run subscribes to netlink link and address updates and translates them
// into dhcp6.Event values delivered on events, until ctx is canceled.
// This is the producer half of the single-threaded event loop named in
// spec.md §5: all translation happens here, so the consumer
// (dhcp6.Scheduler.Run) never touches netlink directly.
func (m *Mirror) Run(ctx context.Context, events chan<- dhcp6.Event) error {
	linkCh := make(chan netlink.LinkUpdate)
	addrCh := make(chan netlink.AddrUpdate)
	done := make(chan struct{})
	defer close(done)

	if err := netlink.LinkSubscribe(linkCh, done); err != nil {
		return err
	}
	if err := netlink.AddrSubscribe(addrCh, done); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case upd, ok := <-linkCh:
			if !ok {
				return nil
			}
			m.dispatchLink(upd, events, ctx)
		case upd, ok := <-addrCh:
			if !ok {
				return nil
			}
			m.dispatchAddr(upd, events, ctx)
		}
	}
}

func (m *Mirror) dispatchLink(upd netlink.LinkUpdate, events chan<- dhcp6.Event, ctx context.Context) {
	attrs := upd.Link.Attrs()
	kind := dhcp6.EventLinkDown
	if attrs.Flags&netlink.FlagUp != 0 {
		kind = dhcp6.EventLinkUp
	}
	ev := dhcp6.Event{Kind: kind, Ifname: attrs.Name, Ifindex: uint32(attrs.Index)}
	select {
	case events <- ev:
	case <-ctx.Done():
	}
}

func (m *Mirror) dispatchAddr(upd netlink.AddrUpdate, events chan<- dhcp6.Event, ctx context.Context) {
	addr, ok := addrFromNetlink(netlink.Addr{IPNet: &upd.LinkAddress, Flags: int(upd.Flags)})
	if !ok {
		return
	}
	kind := dhcp6.EventAddressDelete
	if upd.NewAddr {
		kind = dhcp6.EventAddressUpdate
	}
	ev := dhcp6.Event{Kind: kind, Ifindex: uint32(upd.LinkIndex), Addr: addr}
	select {
	case events <- ev:
	case <-ctx.Done():
	}
}
