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
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var version = "0.0.0-dev"

var globalOpts struct {
	configPath  string
	duidPath    string
	leaseDir    string
	verbose     bool
}

var rootCmd = &cobra.Command{
	Use:     "wicked-dhcp6",
	Short:   "DHCPv6 client supplicant",
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&globalOpts.configPath, "config", "/etc/wicked/dhcp6.yaml", "process configuration file")
	rootCmd.PersistentFlags().StringVar(&globalOpts.duidPath, "duid-file", "/var/lib/wicked/duid.hex", "client DUID persistence file")
	rootCmd.PersistentFlags().StringVar(&globalOpts.leaseDir, "lease-dir", "/var/lib/wicked/leases", "lease persistence directory")
	rootCmd.PersistentFlags().BoolVarP(&globalOpts.verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(runCmd)
}

func newZapLogger() (*zap.Logger, error) {
	if globalOpts.verbose {
		cfg := zap.NewDevelopmentConfig()
		return cfg.Build()
	}
	cfg := zap.NewProductionConfig()
	return cfg.Build()
}
