package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

var (
	// Version is injected by GoReleaser via ldflags at build time
	Version = "dev"
	// Commit is injected by GoReleaser via ldflags at build time
	Commit = "none"
	// BuildDate is injected by GoReleaser via ldflags at build time
	BuildDate = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the application version",
	Long:  `Displays the running version of warband, its build metadata and the size of the loaded unit catalog.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("warband %s (commit %s, built %s)\n", Version, Commit, BuildDate)
		fmt.Printf("%s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
		cat, err := loadCatalog()
		if err != nil {
			return err
		}
		fmt.Printf("Unit catalog: %d species\n", cat.Len())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
