package print

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/numdex/internal/state"
	"github.com/Paintersrp/numdex/utils"
)

var writeClipboard = clipboard.WriteAll

func NewCmdPrint(s *state.State) *cobra.Command {
	var render bool
	var copyContent bool

	cmd := &cobra.Command{
		Use:   "print",
		Short: "Print the index without writing it",
		Long: heredoc.Doc(`
			Build the numbered folders index from the current vault and print
			it. Nothing in the vault is changed.
		`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := s.RequireVault(); err != nil {
				return err
			}

			content, err := s.Index.Content()
			if err != nil {
				return err
			}

			if copyContent {
				if err := writeClipboard(content); err != nil {
					return fmt.Errorf("copy to clipboard: %w", err)
				}
				fmt.Fprintln(cmd.ErrOrStderr(), "Copied index to clipboard")
			}

			if render {
				out, err := utils.RenderMarkdown(content, 0)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), out)
				return nil
			}

			fmt.Fprint(cmd.OutOrStdout(), content)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&render, "render", "r", false, "Render the markdown for the terminal")
	cmd.Flags().BoolVarP(&copyContent, "copy", "c", false, "Copy the index to the clipboard")

	return cmd
}
