// Package cli is the weatherdeck command line: the daemon itself plus client
// commands that drive a running daemon over its HTTP API.
package cli

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Version is set at build time with -ldflags "-X .../internal/cli.Version=...".
var Version = "dev"

type options struct {
	cfgFile  string
	addr     string
	noColor  bool
	stdioLog string
	console  bool

	v *viper.Viper
}

// NewRootCmd builds the command tree. Running it without a subcommand starts the daemon.
func NewRootCmd() *cobra.Command {
	o := &options{}
	root := &cobra.Command{
		Use:   "weatherdeck",
		Short: "Weather widgets on a framebuffer key deck",
		Long: `weatherdeck shows rotating weather tiles (current conditions, forecast,
astronomy and more) on a Linux framebuffer and exposes an HTTP API to
change cities and settings at runtime.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDaemon(cmd, o)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&o.cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/weatherdeck/config.yml)")
	pf.StringVar(&o.addr, "addr", "", "daemon API address for client commands (default from listen)")
	pf.BoolVar(&o.noColor, "no-color", false, "print plain JSON")
	pf.BoolP("debug", "d", false, "enable debug logging")

	o.v = newViper(root)

	root.AddCommand(
		newRunCmd(o),
		newPressCmd(o),
		newStatusCmd(o),
		newSetKeyCmd(o),
		newSettingsCmd(o),
		newConfigCmd(o),
		newVersionCmd(),
	)
	return root
}

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
