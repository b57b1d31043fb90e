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

// Package dhcp6fsm is a reference implementation of the dhcp6.FSM and
// dhcp6.Socket contracts: a real DHCPv6 client exchange built on
// github.com/insomniacslk/dhcp/dhcpv6 for message encoding and a plain
// UDP/IPv6 socket bound to the link-local source address for transport.
package dhcp6fsm

import (
	"fmt"
	"net"
	"net/netip"

	"github.com/toabctl/wicked/internal/dhcp6"
)

// UDPSocket implements dhcp6.Socket over a UDP/IPv6 socket bound to one
// interface's link-local address and the DHCPv6 client port (device.c's
// socket setup binds SO_BINDTODEVICE + IPV6_MULTICAST_IF; net.ListenUDP
// with a zone-scoped local address gets the same effect without cgo).
type UDPSocket struct {
	conn *net.UDPConn
}

// DialUDPSocket opens a UDP/IPv6 socket bound to src (a link-local
// address) on the given interface, ready to send to the DHCPv6 well
// known multicast group or a unicast server address.
func DialUDPSocket(src netip.Addr, zone string) (*UDPSocket, error) {
	laddr := &net.UDPAddr{IP: net.IP(src.AsSlice()), Port: 546, Zone: zone}
	conn, err := net.ListenUDP("udp6", laddr)
	if err != nil {
		return nil, fmt.Errorf("dhcp6fsm: binding socket on %s%%%s: %w", src, zone, err)
	}
	return &UDPSocket{conn: conn}, nil
}

// SendTo implements dhcp6.Socket.
func (s *UDPSocket) SendTo(buf []byte, dst dhcp6.Destination) (int, error) {
	addr := &net.UDPAddr{
		IP:   net.IP(dst.Addr[:]),
		Port: dst.Port,
		Zone: dst.Zone,
	}
	return s.conn.WriteTo(buf, addr)
}

// Close implements dhcp6.Socket.
func (s *UDPSocket) Close() error {
	return s.conn.Close()
}
