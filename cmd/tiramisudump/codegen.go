package main

import (
	"fmt"

	llvmir "github.com/llir/llvm/ir"
	"github.com/spf13/cobra"

	"github.com/rtohid/tiramisu/pkg/hoststmt/llvmstmt"
	"github.com/rtohid/tiramisu/pkg/lower"
	"github.com/rtohid/tiramisu/pkg/util"
)

var codegenCmd = &cobra.Command{
	Use:   "codegen",
	Short: "Dump the generated host function as LLVM textual IR.",
	Long:  "Lowers the demo function to host statements and emits them through pkg/hoststmt/llvmstmt, printing the resulting function in LLVM's textual assembly form.",
	Run: func(cmd *cobra.Command, args []string) {
		configureLogging(cmd)

		fn, builder, err := buildDemo(demoOptionsFromFlags(cmd))
		if err != nil {
			fail(err)
		}

		lowerStats := util.NewStageStats("lowering")

		stmt, err := lower.Lower(fn, builder)
		if err != nil {
			fail(err)
		}

		lowerStats.Log()

		emitStats := util.NewStageStats("emit")

		module := llvmir.NewModule()

		if _, err := llvmstmt.Emit(module, fn.Name, fn, stmt); err != nil {
			fail(err)
		}

		emitStats.Log()

		fmt.Println(module.String())
	},
}

func init() {
	rootCmd.AddCommand(codegenCmd)
}
