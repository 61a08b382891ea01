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

package dump

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/oceanlab/go-divelog/pkg/config"
	"github.com/oceanlab/go-divelog/pkg/device/g2"
	"github.com/oceanlab/go-divelog/pkg/download"
	"github.com/oceanlab/go-divelog/pkg/event"
	"github.com/oceanlab/go-divelog/pkg/state"
)

const (
	OutputDirOptionName = "output-dir"
	FullOptionName      = "full"
)

// NewCommand creates a command that downloads the device log memory and
// saves it as a file
func NewCommand() *cobra.Command {
	var outputDir string
	var full bool
	cfg := config.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Download the device log memory to a file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if outputDir != "" {
				cfg.OutputDir = outputDir
			}
			st, err := state.NewState(context.Background(), cfg)
			if err != nil {
				return err
			}
			defer st.Close()
			result, err := download.Run(st, event.LogSink{}, download.Options{
				Family:         g2.Family,
				UseFingerprint: !full,
				OutputDir:      cfg.OutputDir,
			})
			if err != nil {
				return err
			}
			if result.Size == 0 {
				cmd.Println("No new dives since the last download")
				return nil
			}
			cmd.Printf("Downloaded %d bytes (%d dives) from serial %d to %s\n",
				result.Size, len(result.Dives), result.Serial, result.File)
			return nil
		},
	}
	cmd.Flags().StringVar(&outputDir, OutputDirOptionName, "", "Directory where the memory dump is written")
	cmd.Flags().BoolVar(&full, FullOptionName, false, "Ignore the stored fingerprint and download the whole log memory")
	return cmd
}
