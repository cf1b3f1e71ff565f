package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"

	"dsaviz/interpreter-go/pkg/driver"
)

func (c *cli) transformCommand() *cobra.Command {
	var showDiff bool
	cmd := &cobra.Command{
		Use:   "transform [file|program]",
		Short: "Print the instrumented form of a program",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tgt, err := c.resolveTarget(firstArg(args))
			if err != nil {
				return err
			}
			instrumented, err := driver.Transform(tgt.source)
			if err != nil {
				return err
			}
			if !showDiff {
				_, err := io.WriteString(c.stdout, instrumented)
				return err
			}
			original, err := driver.Normalize(tgt.source)
			if err != nil {
				return err
			}
			return writeLineDiff(c.stdout, original, instrumented)
		},
	}
	cmd.Flags().BoolVar(&showDiff, "diff", false, "show only what instrumentation changed")
	return cmd
}

// writeLineDiff prints a line oriented diff of before and after, marking
// removed lines with "-" and added lines with "+".
func writeLineDiff(w io.Writer, before, after string) error {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var out strings.Builder
	for _, d := range diffs {
		prefix := "  "
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "- "
		case diffmatchpatch.DiffInsert:
			prefix = "+ "
		}
		for _, line := range strings.Split(strings.TrimSuffix(d.Text, "\n"), "\n") {
			fmt.Fprintf(&out, "%s%s\n", prefix, line)
		}
	}
	_, err := io.WriteString(w, out.String())
	return err
}
