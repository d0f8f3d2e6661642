/*
Copyright © 2024 Ryan Painter paintersrp@gmail.com

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
package root

import (
	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Paintersrp/numdex/internal/state"
	"github.com/Paintersrp/numdex/pkg/cmd/find"
	"github.com/Paintersrp/numdex/pkg/cmd/generate"
	"github.com/Paintersrp/numdex/pkg/cmd/initialize"
	"github.com/Paintersrp/numdex/pkg/cmd/print"
	"github.com/Paintersrp/numdex/pkg/cmd/status"
	"github.com/Paintersrp/numdex/pkg/cmd/watch"
	"github.com/Paintersrp/numdex/pkg/cmd/workspace"
)

func NewCmdRoot(s *state.State) (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:   "numdex",
		Short: "Keep a numbered folders index note in your vault up to date.",
		Long: heredoc.Doc(`
			Numdex finds the numbered folders in your vault (01 - Projects,
			01.01 - Active, ...) and writes them into a single index note as a
			nested list, linking every folder that has a folder note.

			  numdex init ~/vault
			  numdex generate
			  numdex watch
		`),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return s.Load(viper.GetString("workspace"))
		},
	}

	cmd.PersistentFlags().String("vault", "", "Vault directory to use instead of the workspace's")
	cmd.PersistentFlags().StringP("workspace", "w", "", "Workspace to use for this command")
	cmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
	viper.BindPFlag("vault", cmd.PersistentFlags().Lookup("vault"))
	viper.BindPFlag("workspace", cmd.PersistentFlags().Lookup("workspace"))
	viper.BindPFlag("log-level", cmd.PersistentFlags().Lookup("log-level"))

	cmd.AddCommand(
		initialize.NewCmdInit(s),
		generate.NewCmdGenerate(s),
		watch.NewCmdWatch(s),
		print.NewCmdPrint(s),
		status.NewCmdStatus(s),
		find.NewCmdFind(s),
		workspace.NewCmdWorkspace(s),
	)

	return cmd, nil
}
