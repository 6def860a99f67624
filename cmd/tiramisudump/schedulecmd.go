package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rtohid/tiramisu/pkg/align"
	"github.com/rtohid/tiramisu/pkg/isl"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Dump each computation's schedule and the aligned time-processor domain.",
	Long:  "Aligns every computation's schedule to the function's maximum range dimensionality (spec.md §4.5) and prints the per-computation schedule map together with the resulting union time-processor domain.",
	Run: func(cmd *cobra.Command, args []string) {
		configureLogging(cmd)

		fn, _, err := buildDemo(demoOptionsFromFlags(cmd))
		if err != nil {
			fail(err)
		}

		align.AlignSchedules(fn)

		for _, c := range fn.Computations() {
			fmt.Printf("%s: schedule %s\n", c.Name, c.Schedule.String())

			if c.Access != nil {
				fmt.Printf("%s: access   %s\n", c.Name, c.Access.String())
			}
		}

		union := align.GenTimeProcessorDomain(fn)
		if isl.IsEmpty(union) {
			fmt.Println("time-processor domain: <empty>")

			return
		}

		fmt.Printf("time-processor domain: %s\n", union.String())
	},
}

func init() {
	rootCmd.AddCommand(scheduleCmd)
}
