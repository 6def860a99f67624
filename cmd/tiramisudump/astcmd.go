package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rtohid/tiramisu/pkg/lower"
	"github.com/rtohid/tiramisu/pkg/util"
)

var astCmd = &cobra.Command{
	Use:   "ast",
	Short: "Dump the decorated polyhedral AST.",
	Long:  "Runs alignment and AST lowering (spec.md §4.6) and prints the resulting For/If/Block/UserLeaf tree, with parallel/vector tags applied to their For nodes.",
	Run: func(cmd *cobra.Command, args []string) {
		configureLogging(cmd)

		fn, builder, err := buildDemo(demoOptionsFromFlags(cmd))
		if err != nil {
			fail(err)
		}

		stats := util.NewStageStats("lowering")

		if _, err := lower.Lower(fn, builder); err != nil {
			fail(err)
		}

		stats.Log()

		ast, ok := fn.CachedAST()
		if !ok {
			fail(fmt.Errorf("%s: lowering produced no cached AST", fn.Name))
		}

		width := terminalWidth()
		printNode(os.Stdout, ast, 0, width)
	},
}

func init() {
	rootCmd.AddCommand(astCmd)
}
