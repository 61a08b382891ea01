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

package fingerprint

import (
	"context"
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/oceanlab/go-divelog/pkg/config"
	"github.com/oceanlab/go-divelog/pkg/state"
)

const (
	SerialOptionName = "serial"
)

// NewCommand creates the fingerprint command group for inspecting and
// editing the stored download cutoffs
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fingerprint",
		Short: "Manage stored dive fingerprints",
	}
	cmd.AddCommand(newGetCommand())
	cmd.AddCommand(newSetCommand())
	cmd.AddCommand(newClearCommand())
	return cmd
}

func withState(run func(st *state.State, serial uint32, args []string, cmd *cobra.Command) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg := config.NewDefaultConfig()
		if err := cfg.Load(); err != nil {
			return err
		}
		rawSerial, err := cmd.Flags().GetString(SerialOptionName)
		if err != nil {
			return err
		}
		parsed, err := strconv.ParseUint(rawSerial, 10, 32)
		if err != nil {
			return fmt.Errorf("invalid serial %q: %v", rawSerial, err)
		}
		st, err := state.NewState(context.Background(), cfg)
		if err != nil {
			return err
		}
		defer st.Close()
		return run(st, uint32(parsed), args, cmd)
	}
}

func newGetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get",
		Short: "Show the stored fingerprint for a device serial",
		RunE: withState(func(st *state.State, serial uint32, args []string, cmd *cobra.Command) error {
			fingerprint, err := st.GetFingerprint(serial)
			if err != nil {
				return err
			}
			if fingerprint == nil {
				cmd.Printf("No fingerprint stored for serial %d\n", serial)
				return nil
			}
			cmd.Printf("%x\n", fingerprint)
			return nil
		}),
	}
	cmd.Flags().String(SerialOptionName, "", "Device serial number")
	cmd.MarkFlagRequired(SerialOptionName)
	return cmd
}

func newSetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <fingerprint>",
		Short: "Store a fingerprint (8 hex digits) for a device serial",
		Args:  cobra.ExactArgs(1),
		RunE: withState(func(st *state.State, serial uint32, args []string, cmd *cobra.Command) error {
			fingerprint, err := hex.DecodeString(args[0])
			if err != nil {
				return fmt.Errorf("invalid fingerprint %q: %v", args[0], err)
			}
			if len(fingerprint) != 4 {
				return fmt.Errorf("fingerprint must be 4 bytes, got %d", len(fingerprint))
			}
			return st.SetFingerprint(serial, fingerprint)
		}),
	}
	cmd.Flags().String(SerialOptionName, "", "Device serial number")
	cmd.MarkFlagRequired(SerialOptionName)
	return cmd
}

func newClearCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear the stored fingerprint so the next download fetches everything",
		RunE: withState(func(st *state.State, serial uint32, args []string, cmd *cobra.Command) error {
			return st.ClearFingerprint(serial)
		}),
	}
	cmd.Flags().String(SerialOptionName, "", "Device serial number")
	cmd.MarkFlagRequired(SerialOptionName)
	return cmd
}
