package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/zjrosen/checklight/internal/checkbox"
	"github.com/zjrosen/checklight/internal/config"
	"github.com/zjrosen/checklight/internal/paths"
)

var (
	configInitForce bool
	setColorLight   bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
	// Config commands must work while the current file is invalid
	PersistentPreRunE: func(*cobra.Command, []string) error { return configErr },
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a commented default config file",
	Long: `Write the default configuration to the --config path, or to
.checklight/config.yaml in the current directory.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return initConfigFile(cmd.OutOrStdout(), targetConfigPath(""), configInitForce)
	},
}

var configSetColorCmd = &cobra.Command{
	Use:   "set-color <state> <color>",
	Short: "Set the color of one checkbox state",
	Long: `Set the color used for one state and save it to the config file in use.
Other settings and comments in the file are kept.

States: done, not_done, in_progress
Colors: hex (#RGB or #RRGGBB), an ANSI index 0-255, or "" to leave the state unstyled.

Examples:
  checklight config set-color done "#00FF00"
  checklight config set-color in_progress 33
  checklight config set-color not_done "#CF222E" --light`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setColor(cmd.OutOrStdout(), targetConfigPath(configPath), args[0], args[1], setColorLight)
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file in use",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), displayPath(configPath))
		return err
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd, configSetColorCmd, configPathCmd)

	configInitCmd.Flags().BoolVar(&configInitForce, "force", false,
		"overwrite an existing config file")
	configSetColorCmd.Flags().BoolVar(&setColorLight, "light", false,
		"set the light background color (light_colors)")
}

// targetConfigPath picks the file a config command writes: --config, then
// used (the file that was loaded), then the project default.
func targetConfigPath(used string) string {
	switch {
	case cfgFile != "":
		return paths.Expand(cfgFile)
	case used != "":
		return used
	default:
		return paths.ProjectConfigPath("")
	}
}

// initConfigFile writes the default config to path. An existing file is only
// replaced with force, unless it already holds the defaults.
func initConfigFile(out io.Writer, path string, force bool) error {
	if data, err := os.ReadFile(path); err == nil && !force { //nolint:gosec // G304: user-chosen config path
		if string(data) == config.DefaultConfigTemplate() {
			_, err := fmt.Fprintf(out, "Default config already at %s\n", path)
			return err
		}
		return fmt.Errorf("config already exists at %s (use --force to overwrite)", path)
	}

	if err := config.WriteDefaultConfig(path); err != nil {
		return err
	}
	_, err := fmt.Fprintf(out, "Wrote %s\n", path)
	return err
}

// setColor validates the state name and saves the color to path.
func setColor(out io.Writer, path, stateName, color string, light bool) error {
	state, ok := checkbox.ParseState(stateName)
	if !ok {
		return fmt.Errorf("unknown state %q (want done, not_done, or in_progress)", stateName)
	}
	if err := config.SaveColor(path, state, color, light); err != nil {
		return err
	}

	section := "colors"
	if light {
		section = "light_colors"
	}
	shown := color
	if shown == "" {
		shown = `""`
	}
	_, err := fmt.Fprintf(out, "Set %s.%s = %s in %s\n", section, state, shown, path)
	return err
}
