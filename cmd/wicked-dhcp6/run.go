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

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-logr/zapr"
	"github.com/spf13/cobra"

	"github.com/toabctl/wicked/internal/dhcp6"
	"github.com/toabctl/wicked/internal/dhcp6config"
	"github.com/toabctl/wicked/internal/dhcp6fsm"
	"github.com/toabctl/wicked/internal/duidstore"
	"github.com/toabctl/wicked/internal/leasefile"
	"github.com/toabctl/wicked/internal/netlinkmirror"
)

var runOpts struct {
	interfaces []string
	infoOnly   bool
	hostname   string
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Acquire and maintain DHCPv6 leases on the given interfaces",
	RunE:  runRun,
}

func init() {
	runCmd.Flags().StringSliceVar(&runOpts.interfaces, "interface", nil, "network interface to manage (repeatable)")
	runCmd.Flags().BoolVar(&runOpts.infoOnly, "info-only", false, "run an Information-Request exchange instead of acquiring an address")
	runCmd.Flags().StringVar(&runOpts.hostname, "hostname", "", "hostname to request the server update (subject to domain-name validation)")
	runCmd.MarkFlagRequired("interface")
}

func runRun(cmd *cobra.Command, args []string) error {
	zlog, err := newZapLogger()
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer zlog.Sync()
	log := zapr.NewLogger(zlog)

	procCfg, err := dhcp6config.Load(globalOpts.configPath)
	if err != nil {
		log.Info("no process configuration loaded, using defaults", "error", err)
		procCfg = nil
	}

	duids := duidstore.New(globalOpts.duidPath)
	leases := leasefile.New(globalOpts.leaseDir)
	link := netlinkmirror.New(log)

	reg := dhcp6.NewRegistry(link, leases, duids, procCfg, log, nil)
	sched := dhcp6.NewScheduler(nil)
	fsm := dhcp6fsm.New(sched, log)

	for _, name := range runOpts.interfaces {
		iface, err := findIface(link, name)
		if err != nil {
			return fmt.Errorf("resolving interface %s: %w", name, err)
		}

		dev := reg.Create(iface.Name, iface.Ifindex)
		dev.Link.HardwareAddr = iface.HardwareAddr
		dev.Link.Up = iface.LinkUp
		dev.Link.NetworkUp = iface.NetworkUp
		dev.Link.VlanTag = iface.VlanTag

		sock, err := dhcp6fsm.DialUDPSocket(dev.Link.Addr, dev.Link.Ifname)
		if err == nil {
			fsm.BindSocket(dev, sock)
		}

		// Device.Acquire builds the full per-session config itself
		// (client DUID, IA list, hostname, vendor class/opts) per
		// spec.md §4.8; the CLI only supplies the caller-facing request.
		if err := dev.Acquire(fsm, &dhcp6.Request{InfoOnly: runOpts.infoOnly, Hostname: runOpts.hostname}); err != nil {
			log.Info("initial acquire failed", "ifname", iface.Name, "error", err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Info("shutting down")
		cancel()
	}()

	events := make(chan dhcp6.Event, 16)
	go func() {
		if err := link.Run(ctx, events); err != nil {
			log.Info("netlink mirror stopped", "error", err)
		}
	}()

	sched.Run(ctx, events, reg, fsm)

	// Release only once the event loop has returned, so devices and the
	// scheduler are never touched from two goroutines at once.
	for _, dev := range reg.All() {
		_ = dev.Release(fsm)
	}
	return nil
}

func findIface(link *netlinkmirror.Mirror, name string) (dhcp6.Iface, error) {
	for _, iface := range link.All() {
		if iface.Name == name {
			return iface, nil
		}
	}
	return dhcp6.Iface{}, dhcp6.ErrNoInterface
}
