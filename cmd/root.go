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

package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/oceanlab/go-divelog/cmd/api"
	"github.com/oceanlab/go-divelog/cmd/completion"
	"github.com/oceanlab/go-divelog/cmd/config"
	"github.com/oceanlab/go-divelog/cmd/dives"
	"github.com/oceanlab/go-divelog/cmd/dump"
	"github.com/oceanlab/go-divelog/cmd/fingerprint"
	"github.com/oceanlab/go-divelog/cmd/serve"
	pkgconfig "github.com/oceanlab/go-divelog/pkg/config"
	"github.com/oceanlab/go-divelog/pkg/log"
)

const (
	LogLevelOptionName = "log-level"
)

func NewRootCommand(out io.Writer) *cobra.Command {
	var logLevel string
	cfg := pkgconfig.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:   "go-divelog",
		Short: "Tool to download dive logs from Scubapro G2 family dive computers",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}
			log.Init(cmd.ErrOrStderr(), cfg.LogLevel)
		},
	}
	cmd.SetOut(out)
	cmd.AddCommand(api.NewCommand())
	cmd.AddCommand(completion.NewCommand())
	cmd.AddCommand(config.NewCommand())
	cmd.AddCommand(dives.NewCommand())
	cmd.AddCommand(dump.NewCommand())
	cmd.AddCommand(fingerprint.NewCommand())
	cmd.AddCommand(serve.NewCommand())
	cmd.PersistentFlags().StringVar(&logLevel, LogLevelOptionName, "", fmt.Sprintf("Log level. %s", log.HelpLevels))
	return cmd
}
