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
	"time"

	"github.com/insomniacslk/dhcp/dhcpv6"

	"github.com/toabctl/wicked/internal/dhcp6"
)

// RFC 8415 §7.6 default retransmission parameters, one set per message
// type. MRC==0 means unlimited retransmissions; MaxTimeout==0 means the
// backoff doubles without a ceiling.
var (
	solicitParams = dhcp6.NewTimeoutParams(1*time.Second, 0, 120*time.Second, 0)
	requestParams = dhcp6.NewTimeoutParams(1*time.Second, 10, 30*time.Second, 0)
	renewParams   = dhcp6.NewTimeoutParams(10*time.Second, 0, 600*time.Second, 0)
	rebindParams  = dhcp6.NewTimeoutParams(10*time.Second, 0, 600*time.Second, 0)
	releaseParams = dhcp6.NewTimeoutParams(1*time.Second, 5, 0, 0)
	declineParams = dhcp6.NewTimeoutParams(1*time.Second, 5, 0, 0)
	confirmParams = dhcp6.NewTimeoutParams(1*time.Second, 0, 4*time.Second, 10*time.Second)
	infoParams    = dhcp6.NewTimeoutParams(1*time.Second, 0, 3600*time.Second, 0)
)

func toTransactionID(xid uint32) dhcpv6.TransactionID {
	return dhcpv6.TransactionID{byte(xid >> 16), byte(xid >> 8), byte(xid)}
}

// newMessage builds the common envelope every outbound exchange shares:
// message type, transaction id, client id, elapsed time and the
// IA_NA/options drawn from dev.Config (device.c's shared
// ni_dhcp6_build_message prologue).
func (f *FSM) newMessage(dev *dhcp6.Device, msgType dhcpv6.MessageType) (*dhcpv6.Message, error) {
	if dev.Config == nil {
		return nil, dhcp6.ErrNoConfig
	}
	msg := &dhcpv6.Message{
		MessageType:   msgType,
		TransactionID: toTransactionID(dev.Xid),
	}
	msg.AddOption(dhcpv6.OptClientID(dev.Config.ClientDUID))
	msg.AddOption(dhcpv6.OptElapsedTime(dev.Uptime(dhcp6.MaxElapsedTime)))

	for _, ia := range dev.Config.IAList {
		msg.AddOption(&dhcpv6.OptIANA{
			IaId: iaidBytes(ia.IAID),
			T1:   ia.PreferredLifetime,
			T2:   ia.ValidLifetime,
		})
	}

	if len(dev.Config.UserClass) > 0 {
		msg.AddOption(&dhcpv6.OptUserClass{UserClasses: dev.Config.UserClass})
	}

	vc := dev.Config.VendorClass
	if vc.EnterpriseNumber != 0 {
		msg.AddOption(&dhcpv6.OptVendorClass{EnterpriseNumber: vc.EnterpriseNumber, Data: vc.Data})
	}

	return msg, nil
}

func iaidBytes(iaid uint32) [4]byte {
	return [4]byte{byte(iaid >> 24), byte(iaid >> 16), byte(iaid >> 8), byte(iaid)}
}

func (f *FSM) transmit(dev *dhcp6.Device, state dhcp6.State, params dhcp6.TimeoutParams, mrd time.Duration, msg *dhcpv6.Message, dst dhcp6.Destination) error {
	buf := msg.ToBytes()
	p := f.pendingFor(dev)
	p.lastBuf = buf
	p.lastDst = dst

	dev.BeginExchange(f, state, params, mrd)
	return dev.Transmit(f.sockets[dev.Ifindex], buf, dst)
}

func (f *FSM) sendSolicit(dev *dhcp6.Device) error {
	msg, err := f.newMessage(dev, dhcpv6.MessageTypeSolicit)
	if err != nil {
		return err
	}
	if dev.Config != nil && dev.Config.RapidCommit {
		msg.AddOption(&dhcpv6.OptRapidCommit{})
	}
	return f.transmit(dev, dhcp6.StateSelecting, solicitParams, 0, msg, destMulticast(dev.Link.Ifname))
}

func (f *FSM) sendRequest(dev *dhcp6.Device) error {
	msg, err := f.newMessage(dev, dhcpv6.MessageTypeRequest)
	if err != nil {
		return err
	}
	if dev.Best.Lease != nil && len(dev.Best.Lease.ServerDUID) > 0 {
		serverDUID, err := dhcpv6.DUIDFromBytes(dev.Best.Lease.ServerDUID)
		if err == nil {
			msg.AddOption(dhcpv6.OptServerID(serverDUID))
		}
	}
	return f.transmit(dev, dhcp6.StateRequesting, requestParams, 0, msg, destMulticast(dev.Link.Ifname))
}

func (f *FSM) sendRenew(dev *dhcp6.Device) error {
	msg, err := f.newMessage(dev, dhcpv6.MessageTypeRenew)
	if err != nil {
		return err
	}
	mrd := time.Duration(0)
	var dst dhcp6.Destination
	if dev.Lease != nil {
		mrd = dev.Lease.ValidLifetime
		if len(dev.Lease.ServerDUID) > 0 {
			serverDUID, err := dhcpv6.DUIDFromBytes(dev.Lease.ServerDUID)
			if err == nil {
				msg.AddOption(dhcpv6.OptServerID(serverDUID))
			}
		}
		if dev.Lease.ServerAddr.IsValid() {
			dst = destUnicast(dev.Lease.ServerAddr, dev.Link.Ifname)
		} else {
			dst = destMulticast(dev.Link.Ifname)
		}
	} else {
		dst = destMulticast(dev.Link.Ifname)
	}
	return f.transmit(dev, dhcp6.StateRenewing, renewParams, mrd, msg, dst)
}

func (f *FSM) sendRebind(dev *dhcp6.Device) error {
	msg, err := f.newMessage(dev, dhcpv6.MessageTypeRebind)
	if err != nil {
		return err
	}
	mrd := time.Duration(0)
	if dev.Lease != nil {
		mrd = dev.Lease.ValidLifetime
	}
	return f.transmit(dev, dhcp6.StateRebinding, rebindParams, mrd, msg, destMulticast(dev.Link.Ifname))
}

func (f *FSM) sendRelease(dev *dhcp6.Device) error {
	msg, err := f.newMessage(dev, dhcpv6.MessageTypeRelease)
	if err != nil {
		return err
	}
	dst := destMulticast(dev.Link.Ifname)
	if dev.Lease != nil && len(dev.Lease.ServerDUID) > 0 {
		serverDUID, err := dhcpv6.DUIDFromBytes(dev.Lease.ServerDUID)
		if err == nil {
			msg.AddOption(dhcpv6.OptServerID(serverDUID))
		}
		if dev.Lease.ServerAddr.IsValid() {
			dst = destUnicast(dev.Lease.ServerAddr, dev.Link.Ifname)
		}
	}
	return f.transmit(dev, dhcp6.StateReleasing, releaseParams, 0, msg, dst)
}

func (f *FSM) sendDecline(dev *dhcp6.Device) error {
	msg, err := f.newMessage(dev, dhcpv6.MessageTypeDecline)
	if err != nil {
		return err
	}
	return f.transmit(dev, dhcp6.StateDeclining, declineParams, 0, msg, destMulticast(dev.Link.Ifname))
}

func (f *FSM) sendConfirm(dev *dhcp6.Device) error {
	msg, err := f.newMessage(dev, dhcpv6.MessageTypeConfirm)
	if err != nil {
		return err
	}
	return f.transmit(dev, dhcp6.StateConfirming, confirmParams, 10*time.Second, msg, destMulticast(dev.Link.Ifname))
}

func (f *FSM) sendInformationRequest(dev *dhcp6.Device) error {
	msg, err := f.newMessage(dev, dhcpv6.MessageTypeInformationRequest)
	if err != nil {
		return err
	}
	return f.transmit(dev, dhcp6.StateInfoRequesting, infoParams, 0, msg, destMulticast(dev.Link.Ifname))
}
