package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/rtohid/tiramisu/pkg/isl"
)

// terminalWidth returns stdout's column count, or a sane default when
// stdout is not a terminal (piped output, CI logs).
func terminalWidth() int {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return 80
	}

	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}

	return width
}

// printNode renders n as an indented tree, truncating any line that would
// overflow width so a deeply nested AST stays readable in a narrow terminal.
func printNode(w io.Writer, n *isl.Node, depth, width int) {
	indent := strings.Repeat("  ", depth)

	switch n.Kind {
	case isl.ForNode:
		line := fmt.Sprintf("%sfor %s in [%s, %s):", indent, n.Iterator, n.Lower.String(), n.Upper.String())
		if n.IsParallel {
			line += " parallel"
		}

		if n.IsVector {
			line += " vector"
		}

		printLine(w, line, width)
		printNode(w, n.Body, depth+1, width)
	case isl.IfNode:
		printLine(w, fmt.Sprintf("%sif %s:", indent, n.Cond.String()), width)
		printNode(w, n.Then, depth+1, width)

		if n.Else != nil {
			printLine(w, fmt.Sprintf("%selse:", indent), width)
			printNode(w, n.Else, depth+1, width)
		}
	case isl.UserLeafNode:
		args := make([]string, len(n.ArgExprs))
		for i, a := range n.ArgExprs {
			args[i] = a.String()
		}

		printLine(w, fmt.Sprintf("%s%s(%s)", indent, n.Computation, strings.Join(args, ", ")), width)
	case isl.BlockNode:
		for _, c := range n.Children {
			printNode(w, c, depth, width)
		}
	}
}

func printLine(w io.Writer, line string, width int) {
	if width > 3 && len(line) > width {
		line = line[:width-3] + "..."
	}

	fmt.Fprintln(w, line)
}
