package commands

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var showSettings bool

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Edit output settings (prints them with --show or off Windows)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if showSettings || !editSettingsAvailable {
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(cfg)
		}
		return editSettings()
	},
}

func init() {
	settingsCmd.Flags().BoolVar(&showSettings, "show", false, "print the effective settings as YAML")
}
