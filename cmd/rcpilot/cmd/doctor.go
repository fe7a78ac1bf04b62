package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcpilot/rcpilot/internal/diagnostics"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check daemon connectivity and report host facts",
	RunE:  runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	app, err := buildApp(false)
	if err != nil {
		return err
	}
	defer app.Close()

	fmt.Printf("rcpilot:  %s\n", GetVersion())
	fmt.Printf("Daemon:   %s\n", app.cfg.Remote.URL)
	version, err := app.client.CoreVersion(cmd.Context())
	if err != nil {
		fmt.Printf("Status:   unreachable (%v)\n", err)
	} else {
		fmt.Printf("Status:   ok (rclone %s, %s/%s, %s)\n",
			version.Version, version.OS, version.Arch, version.GoVer)
		if services, err := app.client.Services(cmd.Context()); err == nil {
			fmt.Printf("Services: %d option blocks\n", len(services))
		}
	}

	host := diagnostics.CollectHost()
	fmt.Printf("\nHost:     %s/%s\n", host.OS, host.Arch)
	if host.CPUModel != "" {
		fmt.Printf("CPU:      %s (%d threads)\n", host.CPUModel, host.CPUThreads)
	}
	if host.MemTotalMB > 0 {
		fmt.Printf("Memory:   %.0f MB used of %.0f MB (%.1f%%)\n",
			host.MemUsedMB, host.MemTotalMB, host.MemPercent)
	}
	if host.LoadAvg1 > 0 || host.LoadAvg5 > 0 {
		fmt.Printf("Load:     %.2f %.2f %.2f\n", host.LoadAvg1, host.LoadAvg5, host.LoadAvg15)
	}

	volume, err := diagnostics.CollectCacheVolume(app.cfg.State.Dir)
	if err != nil {
		fmt.Printf("State:    %s (usage unavailable: %v)\n", app.cfg.State.Dir, err)
		return nil
	}
	fmt.Printf("State:    %s, %.1f GB used of %.1f GB (%.1f%%)\n",
		volume.Path, volume.UsedGB, volume.TotalGB, volume.UsedPercent)
	for _, d := range volume.Disks {
		fmt.Printf("Disk:     %s %d GB %s\n", d.Name, d.SizeGB, d.DriveType)
	}
	return nil
}
