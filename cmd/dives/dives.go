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

package dives

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/oceanlab/go-divelog/pkg/config"
	"github.com/oceanlab/go-divelog/pkg/device/g2"
	"github.com/oceanlab/go-divelog/pkg/download"
	"github.com/oceanlab/go-divelog/pkg/event"
	"github.com/oceanlab/go-divelog/pkg/state"
)

const (
	FullOptionName = "full"
)

// NewCommand creates a command that downloads the log memory and lists the
// dives found in it, most recent first
func NewCommand() *cobra.Command {
	var full bool
	cfg := config.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:   "dives",
		Short: "Download and list dives, most recent first",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := state.NewState(context.Background(), cfg)
			if err != nil {
				return err
			}
			defer st.Close()
			result, err := download.Run(st, event.LogSink{}, download.Options{
				Family:         g2.Family,
				UseFingerprint: !full,
			})
			if err != nil {
				return err
			}
			cmd.Printf("Device: model=%d serial=%d\n", result.Model, result.Serial)
			if result.SysTime >= 0 {
				cmd.Printf("Clock: devtime=%d host=%s\n",
					result.DevTime, time.Unix(result.SysTime, 0).Format(time.RFC3339))
			}
			if len(result.Dives) == 0 {
				cmd.Println("No new dives since the last download")
				return nil
			}
			for i, dive := range result.Dives {
				cmd.Printf("%3d: %6d bytes fingerprint=%s\n", i+1, dive.Size, dive.Fingerprint)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&full, FullOptionName, false, "Ignore the stored fingerprint and list all dives on the device")
	return cmd
}
