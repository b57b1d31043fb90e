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

package dhcp6fsm

import (
	"testing"

	"github.com/go-logr/logr"
	"github.com/insomniacslk/dhcp/dhcpv6"
	"github.com/insomniacslk/dhcp/iana"

	"github.com/toabctl/wicked/internal/dhcp6"
)

// fakeSocket records every buffer handed to SendTo without touching the
// network, so message-building behavior can be asserted deterministically.
type fakeSocket struct {
	sent []sentMsg
}

type sentMsg struct {
	buf []byte
	dst dhcp6.Destination
}

func (s *fakeSocket) SendTo(buf []byte, dst dhcp6.Destination) (int, error) {
	cp := append([]byte(nil), buf...)
	s.sent = append(s.sent, sentMsg{buf: cp, dst: dst})
	return len(buf), nil
}

func (s *fakeSocket) Close() error { return nil }

func newAcquiringDevice() *dhcp6.Registry {
	return dhcp6.NewRegistry(nil, nil, nil, nil, logr.Discard(), dhcp6.DefaultClock)
}

func testDUID(t *testing.T) dhcpv6.DUID {
	t.Helper()
	duid := &dhcpv6.DUIDLLT{
		HWType:        iana.HWTypeEthernet,
		LinkLayerAddr: []byte{0x02, 0x11, 0x22, 0x33, 0x44, 0x55},
	}
	return duid
}

// The reference FSM's Start, for a device in StateSelecting, must build
// and send a Solicit to the all-DHCP-servers multicast group.
func TestFSM_StartSendsSolicitForSelectingState(t *testing.T) {
	reg := newAcquiringDevice()
	dev := reg.Create("eth0", 4)
	dev.Link.Up = true
	dev.FSMState = dhcp6.StateSelecting
	dev.SetConfig(&dhcp6.Config{
		ClientDUID: testDUID(t),
		IAList:     []dhcp6.IADescriptor{{IAID: 1}},
	})

	sock := &fakeSocket{}
	sched := dhcp6.NewScheduler(dhcp6.DefaultClock)
	fsm := New(sched, logr.Discard())
	fsm.BindSocket(dev, sock)

	if err := fsm.Start(dev); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if len(sock.sent) != 1 {
		t.Fatalf("expected exactly one Solicit to be sent, got %d", len(sock.sent))
	}
	got := sock.sent[0]
	if got.dst.Addr != dhcp6.AllDHCPRelayAgentsAndServers {
		t.Fatalf("expected multicast destination, got %v", got.dst.Addr)
	}

	msg, err := dhcpv6.FromBytes(got.buf)
	if err != nil {
		t.Fatalf("sent buffer did not parse as a DHCPv6 message: %v", err)
	}
	if msg.Type() != dhcpv6.MessageTypeSolicit {
		t.Fatalf("expected Solicit, got %v", msg.Type())
	}
}

// Retransmit must resend the exact bytes built by Start, per RFC 8415
// §14's requirement that a retransmission carry the same transaction id
// and content as the original.
func TestFSM_RetransmitResendsIdenticalBytes(t *testing.T) {
	reg := newAcquiringDevice()
	dev := reg.Create("eth0", 5)
	dev.Link.Up = true
	dev.FSMState = dhcp6.StateSelecting
	dev.SetConfig(&dhcp6.Config{
		ClientDUID: testDUID(t),
		IAList:     []dhcp6.IADescriptor{{IAID: 1}},
	})

	sock := &fakeSocket{}
	sched := dhcp6.NewScheduler(dhcp6.DefaultClock)
	fsm := New(sched, logr.Discard())
	fsm.BindSocket(dev, sock)

	if err := fsm.Start(dev); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := fsm.Retransmit(dev); err != nil {
		t.Fatalf("Retransmit failed: %v", err)
	}
	if len(sock.sent) != 2 {
		t.Fatalf("expected 2 sends, got %d", len(sock.sent))
	}
	if string(sock.sent[0].buf) != string(sock.sent[1].buf) {
		t.Fatal("retransmitted bytes differ from the original Solicit")
	}
}

// Retransmit with nothing pending (no Start call yet) must report the
// empty-buffer sentinel rather than sending a zero-length datagram.
func TestFSM_RetransmitWithoutPriorStart(t *testing.T) {
	reg := newAcquiringDevice()
	dev := reg.Create("eth0", 6)

	sched := dhcp6.NewScheduler(dhcp6.DefaultClock)
	fsm := New(sched, logr.Discard())

	if err := fsm.Retransmit(dev); err != dhcp6.ErrEmptyOutboundBuffer {
		t.Fatalf("got %v, want ErrEmptyOutboundBuffer", err)
	}
}
