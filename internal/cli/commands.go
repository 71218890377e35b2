package cli

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/charmbracelet/log"
	"github.com/rook-computer/weatherdeck/internal/config"
	"github.com/rook-computer/weatherdeck/internal/state"
	"github.com/spf13/cobra"
)

func newPressCmd(o *options) *cobra.Command {
	var back bool
	cmd := &cobra.Command{
		Use:   "press <widget>",
		Short: "Advance a widget to its next slide",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := o.client()
			defer c.Close()
			path := "/widgets/" + url.PathEscape(args[0]) + "/press"
			if back {
				path += "?dir=prev"
			}
			out, err := c.Post(path, nil)
			if err != nil {
				return err
			}
			printJSON(cmd.OutOrStdout(), out, !o.noColor)
			return nil
		},
	}
	cmd.Flags().BoolVar(&back, "back", false, "step back to the previous slide instead")
	return cmd
}

func newStatusCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "status [widget]",
		Short: "Show widget status",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := o.client()
			defer c.Close()
			path := "/widgets"
			if len(args) == 1 {
				path += "/" + url.PathEscape(args[0])
			}
			out, err := c.Get(path)
			if err != nil {
				return err
			}
			printJSON(cmd.OutOrStdout(), out, !o.noColor)
			return nil
		},
	}
}

func newSetKeyCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "set-key <api-key>",
		Short: "Replace the weather API key on the running daemon",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := o.client()
			defer c.Close()
			out, err := c.Put("/settings", map[string]string{"apiKey": args[0]})
			if err != nil {
				return err
			}
			printJSON(cmd.OutOrStdout(), out, !o.noColor)
			return nil
		},
	}
}

// settingsFromFlags returns only what the user set explicitly.
func settingsFromFlags(cmd *cobra.Command) (state.Settings, error) {
	var s state.Settings
	f := cmd.Flags()
	if f.Changed("cities") {
		v, _ := f.GetString("cities")
		s.Cities = &v
	}
	opts := map[string]string{}
	for flag, key := range map[string]string{
		"unit":  state.OptionUnit,
		"speed": state.OptionSpeed,
		"days":  state.OptionDays,
	} {
		if f.Changed(flag) {
			v, _ := f.GetString(flag)
			opts[key] = v
		}
	}
	if f.Changed("title") {
		v, _ := f.GetBool("title")
		opts[state.OptionTitle] = "0"
		if v {
			opts[state.OptionTitle] = "1"
		}
	}
	if len(opts) > 0 {
		s.Options = opts
	}
	if s.Cities == nil && s.Options == nil {
		return s, errors.New("nothing to change: pass --cities, --unit, --speed, --days or --title")
	}
	return s, nil
}

func newSettingsCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings <widget>",
		Short: "Change a widget's cities or display options",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := settingsFromFlags(cmd)
			if err != nil {
				return err
			}
			c := o.client()
			defer c.Close()
			out, err := c.Put("/widgets/"+url.PathEscape(args[0])+"/settings", s)
			if err != nil {
				return err
			}
			printJSON(cmd.OutOrStdout(), out, !o.noColor)
			return nil
		},
	}
	cmd.Flags().String("cities", "", "comma separated list of places")
	cmd.Flags().String("unit", "", "temperature unit: c or f")
	cmd.Flags().String("speed", "", "wind speed unit: kph or mph")
	cmd.Flags().String("days", "", "forecast length in days")
	cmd.Flags().Bool("title", false, "show the title line")
	return cmd
}

func newConfigCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the config file",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := o.cfgFile
			if path == "" {
				path = config.DefaultPath()
			}
			if err := config.WriteDefault(path); err != nil {
				if errors.Is(err, config.ErrConfigExists) {
					log.Warnf("Config file already exists at %v", path)
					return nil
				}
				return err
			}
			log.Infof("Installed default config file at %v", path)
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the resolved configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(o.v, o.cfgFile)
			if err != nil {
				return err
			}
			cfg.APIKey = state.Global{APIKey: cfg.APIKey}.Masked()
			out, err := config.MarshalYAML(cfg)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), string(out))
			return nil
		},
	})
	return cmd
}
