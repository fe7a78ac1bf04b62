package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile   string
	logLevel  string
	logFormat string
	remoteURL string
	remoteUsr string
	remotePwd string

	// Version info - set via SetVersion()
	appVersion string
	appCommit  string
	appDate    string
)

var rootCmd = &cobra.Command{
	Use:   "rcpilot",
	Short: "Settings panel and remote control for an rclone rc daemon",
	Long: `rcpilot connects to a running rclone rc daemon, loads its option
catalog, and lets you browse, search, validate and persist configuration
overrides from a terminal UI or from the command line.

Running 'rcpilot' without arguments opens the interactive settings panel.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	// Default to the interactive panel when no subcommand is provided
	RunE: runTUI,
}

func Execute() error {
	return rootCmd.Execute()
}

func SetVersion(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

// GetVersion returns the application version string.
func GetVersion() string {
	return appVersion
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: ./config.yaml or ~/.config/rcpilot/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		"log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "auto",
		"log format (auto, text, json)")
	rootCmd.PersistentFlags().StringVar(&remoteURL, "url", "",
		"rc daemon URL (default: http://localhost:5572)")
	rootCmd.PersistentFlags().StringVar(&remoteUsr, "user", "",
		"rc daemon username")
	rootCmd.PersistentFlags().StringVar(&remotePwd, "pass", "",
		"rc daemon password")

	// Bind flags to viper (errors are nil when flag exists)
	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format"))
	_ = viper.BindPFlag("remote.url", rootCmd.PersistentFlags().Lookup("url"))
	_ = viper.BindPFlag("remote.username", rootCmd.PersistentFlags().Lookup("user"))
	_ = viper.BindPFlag("remote.password", rootCmd.PersistentFlags().Lookup("pass"))
}
