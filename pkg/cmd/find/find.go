package find

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Paintersrp/numdex/internal/fzf"
	"github.com/Paintersrp/numdex/internal/state"
)

var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func NewCmdFind(s *state.State) *cobra.Command {
	var note bool

	cmd := &cobra.Command{
		Use:   "find [query]",
		Short: "Fuzzy find a numbered folder",
		Long: heredoc.Doc(`
			Pick a numbered folder with a fuzzy finder and print its path.
			The preview shows the folder note when there is one.

			  cd "$(numdex find projects)"
		`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := s.RequireVault(); err != nil {
				return err
			}
			if !isTerminal() {
				return fmt.Errorf("find needs an interactive terminal")
			}

			query := ""
			if len(args) == 1 {
				query = args[0]
			}

			picked, err := fzf.NewFuzzyFinder(s.Store, "Numbered folders").Run(query)
			if errors.Is(err, fzf.ErrNoSelection) {
				fmt.Fprintln(cmd.ErrOrStderr(), "No folder selected")
				return nil
			}
			if err != nil {
				return err
			}

			target := picked.Folder
			if note {
				if picked.Note == "" {
					return fmt.Errorf("folder %q has no folder note", picked.Folder)
				}
				target = picked.Note
			}

			fmt.Fprintln(cmd.OutOrStdout(), filepath.Join(s.Vault, filepath.FromSlash(target)))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&note, "note", "n", false, "Print the folder note instead of the folder")

	return cmd
}
