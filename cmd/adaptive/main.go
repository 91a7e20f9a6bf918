// Command adaptive generates adaptive clearing toolpaths from a YAML job
// description and writes the resulting motions as JSON.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "adaptive",
	Short: "Adaptive pocket-clearing toolpath generator",
	Long: `Adaptive generates 2.5D adaptive clearing toolpaths. A job file
describes the region polygons, the cutter and the target engagement; the
resulting cutter-center trajectories are written as JSON.`,
	SilenceUsage:      true,
	DisableAutoGenTag: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
