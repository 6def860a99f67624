package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var domainCmd = &cobra.Command{
	Use:   "domain",
	Short: "Dump each computation's iteration domain.",
	Long:  "Prints the iteration domain set text spec.md §3 attaches to every computation, one line per computation, in declaration order.",
	Run: func(cmd *cobra.Command, args []string) {
		configureLogging(cmd)

		fn, _, err := buildDemo(demoOptionsFromFlags(cmd))
		if err != nil {
			fail(err)
		}

		asJSON, _ := cmd.Flags().GetBool("json")
		if asJSON {
			out, err := fn.DumpJSON()
			if err != nil {
				fail(err)
			}

			fmt.Println(string(out))

			return
		}

		for _, c := range fn.Computations() {
			fmt.Printf("%s: %s\n", c.Name, c.IterationDomain.String())
		}
	},
}

func init() {
	domainCmd.Flags().Bool("json", false, "print the function snapshot as JSON instead of text")
	rootCmd.AddCommand(domainCmd)
}
