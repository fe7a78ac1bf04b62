package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rcpilot/rcpilot/internal/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter config file",
	Long: `Write a starter config.yaml with the default settings into the
current directory, and create the local state directory.`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite existing configuration")
}

func runInit(_ *cobra.Command, _ []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	configPath := filepath.Join(cwd, "config.yaml")
	if initForce {
		_ = os.Remove(configPath)
	}
	if err := config.WriteStarter(configPath); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Join(cwd, ".rcpilot"), 0o755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}

	fmt.Println("Wrote", configPath)
	fmt.Println("Run 'rcpilot doctor' to verify the daemon connection")
	return nil
}
