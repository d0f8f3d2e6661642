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
package initialize

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/erikgeiser/promptkit/confirmation"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/numdex/internal/config"
	"github.com/Paintersrp/numdex/internal/state"
)

var confirmOverwrite = func(prompt string) (bool, error) {
	return confirmation.New(prompt, confirmation.No).RunPrompt()
}

func NewCmdInit(s *state.State) *cobra.Command {
	var name string
	var indexFile string
	var timestampFormat string
	var force bool

	cmd := &cobra.Command{
		Use:     "initialize [vault]",
		Aliases: []string{"i", "init"},
		Short:   "Point a workspace at a vault",
		Long: heredoc.Doc(`
			Set the vault directory of a workspace, creating the workspace if
			needed, and make it the current one. You are asked before an
			existing workspace's vault is replaced unless --force is given.
		`),
		Example: "numdex init ~/notes --index-file \"Meta/Numbered Folders Index.md\"",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			vaultDir, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			info, err := os.Stat(vaultDir)
			if err != nil {
				return fmt.Errorf("vault %q: %w", vaultDir, err)
			}
			if !info.IsDir() {
				return fmt.Errorf("vault %q is not a directory", vaultDir)
			}

			target := strings.TrimSpace(name)
			if target == "" {
				target = s.WorkspaceName
			}

			ws := config.NewWorkspace(vaultDir)
			if existing, ok := s.Config.Workspaces[target]; ok && existing != nil {
				if existing.VaultDir != "" && existing.VaultDir != vaultDir && !force {
					ok, err := confirmOverwrite(fmt.Sprintf(
						"Workspace %q already uses %s. Replace it?", target, existing.VaultDir,
					))
					if err != nil {
						return err
					}
					if !ok {
						fmt.Fprintln(cmd.OutOrStdout(), "Aborted")
						return nil
					}
				}
				ws.IndexFile = existing.IndexFile
				ws.TimestampFormat = existing.TimestampFormat
				ws.IgnoredFolders = append([]string(nil), existing.IgnoredFolders...)
				ws.RenameWindow = existing.RenameWindow
			}

			if cmd.Flags().Changed("index-file") {
				ws.IndexFile = indexFile
			}
			if cmd.Flags().Changed("timestamp-format") {
				ws.TimestampFormat = timestampFormat
			}

			if err := s.Config.SetWorkspace(target, ws, true); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Initialized workspace %q for %s\n", target, vaultDir)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Workspace to initialize (defaults to the current one)")
	cmd.Flags().StringVar(&indexFile, "index-file", "", "Vault-relative path of the index note")
	cmd.Flags().StringVar(&timestampFormat, "timestamp-format", "", "Go time layout for the last updated line")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Replace an existing vault without asking")

	return cmd
}
