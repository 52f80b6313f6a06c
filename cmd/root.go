package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/checklight/internal/checkbox"
	"github.com/zjrosen/checklight/internal/config"
	"github.com/zjrosen/checklight/internal/log"
	"github.com/zjrosen/checklight/internal/paths"
)

func init() {
	// Force lipgloss/termenv to query terminal background color BEFORE
	// any Bubble Tea program starts. This prevents the terminal's OSC 11
	// response from racing with Bubble Tea's input loop and appearing as
	// garbage text in the viewer.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

const envPrefix = "CHECKLIGHT"

var (
	version    = "dev"
	cfgFile    string
	debugFlag  bool
	cfg        config.Config
	configPath string
	configErr  error
)

var rootCmd = &cobra.Command{
	Use:   "checklight [files...]",
	Short: "Highlight checkbox items in markdown documents",
	Long: `checklight finds checkbox items in markdown documents and colors them by state:

  [x]  done
  [ ]  not done
  [>]  in progress

Run without a subcommand to open the viewer on the given files, or on every
markdown file under the current directory.`,
	Version:           version,
	Args:              cobra.ArbitraryArgs,
	SilenceUsage:      true,
	PersistentPreRunE: validateConfig,
	RunE:              runView,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: .checklight/config.yaml or ~/.config/checklight/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&debugFlag, "debug", "d", false,
		"write debug logs to $CHECKLIGHT_LOG (default: debug.log)")
	rootCmd.PersistentFlags().String("theme", "",
		"force the dark or light palette instead of detecting the terminal")

	// Bind flags to viper
	_ = viper.BindPFlag("theme.mode", rootCmd.PersistentFlags().Lookup("theme"))
}

func initConfig() {
	// .env is optional; values already in the environment win
	_ = godotenv.Load()
	cfg, configPath, configErr = loadConfig(viper.GetViper(), cfgFile)
}

// setDefaults registers every config key so environment overrides apply
// even when the file omits them.
func setDefaults(v *viper.Viper) {
	defaults := config.Defaults()
	for _, state := range checkbox.States {
		v.SetDefault("colors."+state.String(), defaults.Colors.Get(state))
		v.SetDefault("light_colors."+state.String(), defaults.LightColors.Get(state))
	}
	v.SetDefault("theme.mode", defaults.Theme.Mode)
	v.SetDefault("debounce", defaults.Debounce)
	v.SetDefault("extensions", defaults.Extensions)
	v.SetDefault("auto_refresh", defaults.AutoRefresh)
	v.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	v.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	v.SetDefault("tracing.file_path", defaults.Tracing.FilePath)
	v.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	v.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)
	v.SetDefault("tracing.service_name", defaults.Tracing.ServiceName)
}

// loadConfig reads configuration into v and returns it with the path of the
// file that was read. Lookup order:
//  1. explicit (the --config flag)
//  2. .checklight/config.yaml (current directory)
//  3. ~/.config/checklight/config.yaml (user config)
//
// When no file exists a commented default is written to
// .checklight/config.yaml; if that fails the defaults are used as is.
func loadConfig(v *viper.Viper, explicit string) (config.Config, string, error) {
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	projectPath := paths.ProjectConfigPath("")
	switch {
	case explicit != "":
		v.SetConfigFile(paths.Expand(explicit))
	case fileExists(projectPath):
		v.SetConfigFile(projectPath)
	default:
		if userPath := paths.UserConfigPath(); userPath != "" {
			v.AddConfigPath(filepath.Dir(userPath))
		}
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return config.Defaults(), "", fmt.Errorf("reading config: %w", err)
		}
		if writeErr := config.WriteDefaultConfig(projectPath); writeErr == nil {
			v.SetConfigFile(projectPath)
			_ = v.ReadInConfig()
		}
	}

	var c config.Config
	if err := v.Unmarshal(&c); err != nil {
		return config.Defaults(), v.ConfigFileUsed(), fmt.Errorf("decoding config: %w", err)
	}
	c.Tracing.FilePath = paths.Expand(c.Tracing.FilePath)
	return c, v.ConfigFileUsed(), nil
}

func validateConfig(_ *cobra.Command, _ []string) error {
	if configErr != nil {
		return configErr
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration in %s: %w", displayPath(configPath), err)
	}
	return nil
}

// setupLogging enables the debug log when --debug or CHECKLIGHT_DEBUG is set.
// Headless commands pass stderr, which is used unless CHECKLIGHT_LOG names a
// file. The returned cleanup must always be called.
func setupLogging(prefix string, stderr io.Writer) (func(), error) {
	debug := os.Getenv(envPrefix+"_DEBUG") != "" || debugFlag
	if !debug {
		return func() {}, nil
	}

	logPath := os.Getenv(envPrefix + "_LOG")
	var cleanup func()
	switch {
	case logPath == "" && stderr != nil:
		log.InitWriter(stderr)
		logPath = "stderr"
		cleanup = log.Reset
	default:
		if logPath == "" {
			logPath = "debug.log"
		}
		closeLog, err := log.InitWithTeaLog(logPath, prefix)
		if err != nil {
			return nil, fmt.Errorf("initializing logging: %w", err)
		}
		cleanup = func() {
			closeLog()
			log.Reset()
		}
	}
	if name := os.Getenv(envPrefix + "_LOG_LEVEL"); name != "" {
		if level, ok := log.ParseLevel(name); ok {
			log.SetMinLevel(level)
		}
	}

	log.Info(log.CatConfig, "checklight starting", "version", version, "logPath", logPath, "config", configPath)
	return cleanup, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func displayPath(path string) string {
	if path == "" {
		return "defaults"
	}
	return path
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
