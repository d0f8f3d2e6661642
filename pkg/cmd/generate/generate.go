package generate

import (
	"fmt"
	"path/filepath"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/numdex/internal/state"
)

func NewCmdGenerate(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "generate",
		Aliases: []string{"gen", "regenerate"},
		Short:   "Regenerate numbered folders index",
		Long: heredoc.Doc(`
			Rebuild the numbered folders index note from the current vault and
			write it, creating the note if it does not exist yet.
		`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := s.RequireVault(); err != nil {
				return err
			}

			if err := s.Index.Generate(); err != nil {
				return fmt.Errorf("generate numbered folders index: %w", err)
			}

			fmt.Fprintf(
				cmd.OutOrStdout(),
				"Updated %s (%d numbered folders)\n",
				filepath.Join(s.Vault, filepath.FromSlash(s.Index.IndexPath())),
				s.Index.Stats().Folders,
			)
			return nil
		},
	}

	return cmd
}
