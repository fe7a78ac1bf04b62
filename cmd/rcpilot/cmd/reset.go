package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcpilot/rcpilot/internal/notify"
)

var resetYes bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore every option to its default value",
	RunE:  runReset,
}

func init() {
	resetCmd.Flags().BoolVarP(&resetYes, "yes", "y", false, "skip the confirmation prompt")
	rootCmd.AddCommand(resetCmd)
}

// promptConfirmer asks on the terminal before destructive operations.
type promptConfirmer struct{}

func (promptConfirmer) Confirm(_ context.Context, title, message string) (bool, error) {
	fmt.Printf("%s\n%s [y/N]: ", title, message)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false, err
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

func runReset(cmd *cobra.Command, args []string) error {
	app, err := buildApp(true)
	if err != nil {
		return err
	}
	defer app.Close()

	if _, err := app.loadCatalog(cmd.Context()); err != nil {
		return err
	}

	var confirmer notify.Confirmer = promptConfirmer{}
	if resetYes {
		confirmer = notify.AutoConfirmer{}
	}
	if err := app.engine.ResetAll(cmd.Context(), confirmer); err != nil {
		return err
	}
	fmt.Println("All options restored to defaults")
	return nil
}
