/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

package api

import (
	"github.com/spf13/cobra"

	"github.com/oceanlab/go-divelog/pkg/command"
	"github.com/oceanlab/go-divelog/pkg/config"
)

const (
	SerialOptionName = "serial"
	FullOptionName   = "full"
)

// NewCommand creates the api command group that talks to a running server
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "api",
		Short: "Control a running go-divelog server",
	}
	cmd.AddCommand(newDevicesCommand())
	cmd.AddCommand(newDumpCommand())
	cmd.AddCommand(newFingerprintCommand())
	return cmd
}

func newDevicesCommand() *cobra.Command {
	cfg := config.NewDefaultConfig()
	cfg.Load()
	return &cobra.Command{
		Use:   "devices",
		Short: "List attached dive computers",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := command.NewApiClient(cfg)
			devices, err := client.Devices()
			if err != nil {
				return err
			}
			cmd.Print(devices)
			return nil
		},
	}
}

func newDumpCommand() *cobra.Command {
	var full bool
	cfg := config.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Run a download on the server",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := command.NewApiClient(cfg)
			result, err := client.Dump(full, true)
			if err != nil {
				return err
			}
			cmd.Printf("Downloaded %d bytes (%d dives) from serial %d\n",
				result.Size, len(result.Dives), result.Serial)
			return nil
		},
	}
	cmd.Flags().BoolVar(&full, FullOptionName, false, "Ignore the stored fingerprint and download the whole log memory")
	return cmd
}

func newFingerprintCommand() *cobra.Command {
	var serial string
	var clear bool
	cfg := config.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:   "fingerprint",
		Short: "Show or clear the stored fingerprint for a device serial",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := command.NewApiClient(cfg)
			if clear {
				return client.ClearFingerprint(serial)
			}
			fingerprint, err := client.GetFingerprint(serial)
			if err != nil {
				return err
			}
			cmd.Println(fingerprint)
			return nil
		},
	}
	cmd.Flags().StringVar(&serial, SerialOptionName, "", "Device serial number")
	cmd.Flags().BoolVar(&clear, "clear", false, "Clear the stored fingerprint")
	cmd.MarkFlagRequired(SerialOptionName)
	return cmd
}
