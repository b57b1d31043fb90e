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

import "errors"

// Sentinel error kinds (spec §7). Wrap with fmt.Errorf("...: %w", ErrX) at
// call sites so errors.Is keeps working through the acquire/send/retransmit
// call chains.
var (
	ErrNoInterface           = errors.New("dhcp6: no such network interface")
	ErrLinkDown              = errors.New("dhcp6: link is not up")
	ErrNoHardwareAddress     = errors.New("dhcp6: interface has no hardware address")
	ErrDUIDGenerationFailed  = errors.New("dhcp6: unable to find usable or generate client duid")
	ErrNoLinkLocalAddress    = errors.New("dhcp6: link-local ipv6 address not yet available")
	ErrLinkLocalDuplicate    = errors.New("dhcp6: link-local ipv6 address is marked duplicate")
	ErrSendFailed            = errors.New("dhcp6: unable to send message")
	ErrRetransmitExhausted   = errors.New("dhcp6: retransmissions exhausted")
	ErrReadinessTimeout      = errors.New("dhcp6: timed out waiting for link-local address")
	ErrMalformedRequest      = errors.New("dhcp6: malformed request")
	ErrNoConfig              = errors.New("dhcp6: device has no config installed")
	ErrEmptyOutboundBuffer   = errors.New("dhcp6: cannot send empty message")
	ErrDeviceAlreadyInactive = errors.New("dhcp6: device is not active")
)

// IsTransient reports whether err represents a condition the caller should
// resolve by arming a timer rather than failing the acquire outright.
// Per spec §4.7/§7, only "no link-local address yet" is transient —
// everything else (duplicate address, missing interface, link down) is a
// hard failure.
func IsTransient(err error) bool {
	return errors.Is(err, ErrNoLinkLocalAddress)
}
