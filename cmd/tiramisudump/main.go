// Command tiramisudump is a diagnostics CLI over the polyhedral core: it
// builds the demo function (demo.go), carries it through alignment,
// scheduling, AST lowering and codegen, and dumps whichever stage a
// subcommand names. It exists for inspection and manual testing, mirroring
// the role pkg/cmd/inspect.go plays for the teacher's ROM traces.
package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tiramisudump",
	Short: "Inspect the polyhedral core's intermediate stages.",
	Long:  "tiramisudump builds a small demonstration function and dumps the requested intermediate stage: iteration domain, schedule, polyhedral AST, or generated host code.",
}

// Execute adds all child commands to the root command and runs it. It is
// called once by main.main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "increase logging verbosity")
	rootCmd.PersistentFlags().Bool("tile", false, "apply the tile transformation to the demo computation")
	rootCmd.PersistentFlags().Bool("parallel", false, "tag the outer tiled dimension as parallel (requires --tile)")
}

// configureLogging raises logrus to debug level when -v/--verbose is set.
func configureLogging(cmd *cobra.Command) {
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		log.SetLevel(log.DebugLevel)
	}
}

func demoOptionsFromFlags(cmd *cobra.Command) demoOptions {
	tile, _ := cmd.Flags().GetBool("tile")
	parallel, _ := cmd.Flags().GetBool("parallel")

	return demoOptions{tile: tile, parallel: parallel}
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(2)
}

func main() {
	Execute()
}
