package cli

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

func versionLine() string {
	babyBlue := lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	green := lipgloss.NewStyle().Foreground(lipgloss.Color("76"))
	grey := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	return fmt.Sprintf("%s %s %s",
		babyBlue.Render("weatherdeck"),
		green.Render(strings.TrimSpace(Version)),
		grey.Render(runtime.Version()+" "+runtime.GOOS+"/"+runtime.GOARCH))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), versionLine())
		},
	}
}
