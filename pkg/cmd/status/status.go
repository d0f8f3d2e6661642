package status

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/numdex/internal/state"
)

var (
	labelStyle = lipgloss.NewStyle().Bold(true).Width(14)
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#0AF", Dark: "#0AF"})
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F55"))
)

func NewCmdStatus(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show what the current index note contains",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := s.RequireVault(); err != nil {
				return err
			}

			report, err := s.Index.Report()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			line(out, "Workspace", valueStyle.Render(s.WorkspaceName))
			line(out, "Vault", valueStyle.Render(s.Vault))

			indexPath := filepath.Join(s.Vault, filepath.FromSlash(s.Index.IndexPath()))
			if !report.Exists {
				line(out, "Index", warnStyle.Render(indexPath+" (missing, run `numdex generate`)"))
				return nil
			}
			line(out, "Index", valueStyle.Render(indexPath))

			if report.Placeholder {
				line(out, "Entries", warnStyle.Render("no numbered folders found"))
				return nil
			}

			line(out, "Entries", valueStyle.Render(fmt.Sprintf(
				"%d (%d linked, %d levels deep)", report.Entries, report.Linked, report.Depth,
			)))

			updated := report.Stamp
			if !report.Updated.IsZero() {
				updated = fmt.Sprintf("%s (%s ago)", updated, time.Since(report.Updated).Round(time.Minute))
			}
			if updated == "" {
				updated = "unknown"
			}
			line(out, "Last updated", valueStyle.Render(updated))

			return nil
		},
	}

	return cmd
}

func line(out io.Writer, label, value string) {
	fmt.Fprintln(out, lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), value))
}
