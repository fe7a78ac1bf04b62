package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rcpilot/rcpilot/internal/config"
	"github.com/rcpilot/rcpilot/internal/history"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent configuration changes",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 25, "number of entries to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := config.NewLoaderWithViper(viper.GetViper()).WithConfigFile(cfgFile).Load()
	if err != nil {
		return err
	}

	store, err := history.Open(filepath.Join(cfg.State.Dir, "history.db"))
	if err != nil {
		return fmt.Errorf("opening change history: %w", err)
	}
	defer store.Close()

	entries, err := store.Recent(cmd.Context(), historyLimit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No changes recorded yet")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tACTION\tSERVICE\tFIELD\tVALUE")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			e.Occurred.Local().Format("2006-01-02 15:04:05"),
			e.Action, e.Service, e.Field, e.Value)
	}
	return w.Flush()
}
