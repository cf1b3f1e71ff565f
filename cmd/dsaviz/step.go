package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"dsaviz/interpreter-go/pkg/driver"
	"dsaviz/interpreter-go/pkg/playback"
)

const stepHelp = `commands:
  n, <enter>  next step
  p           previous step
  g N         go to step N
  f           first step
  l           last step
  q           quit
`

// lineReader is the prompt source for step: liner on a terminal, a plain
// scanner otherwise.
type lineReader interface {
	Prompt(prompt string) (string, error)
	Close() error
}

type scanReader struct {
	scanner *bufio.Scanner
	out     io.Writer
}

func (r *scanReader) Prompt(prompt string) (string, error) {
	fmt.Fprint(r.out, prompt)
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return r.scanner.Text(), nil
}

func (r *scanReader) Close() error { return nil }

type linerReader struct {
	state *liner.State
}

func (r *linerReader) Prompt(prompt string) (string, error) {
	line, err := r.state.Prompt(prompt)
	if errors.Is(err, liner.ErrPromptAborted) {
		return "", io.EOF
	}
	if err == nil && strings.TrimSpace(line) != "" {
		r.state.AppendHistory(line)
	}
	return line, err
}

func (r *linerReader) Close() error { return r.state.Close() }

func (c *cli) newLineReader() lineReader {
	if f, ok := c.stdin.(*os.File); ok && isTerminal(f) && isTerminal(c.stdout) {
		state := liner.NewLiner()
		state.SetCtrlCAborts(true)
		return &linerReader{state: state}
	}
	return &scanReader{scanner: bufio.NewScanner(c.stdin), out: c.stdout}
}

func (c *cli) stepCommand() *cobra.Command {
	var input string
	cmd := &cobra.Command{
		Use:   "step [file|program]",
		Short: "Walk through the recorded steps interactively",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tgt, err := c.resolveTarget(firstArg(args))
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("input") {
				tgt.input = input
			}
			session := driver.NewSession(driver.Options{
				MaxSteps: resolveMaxSteps(0, false, tgt.manifest),
				Logger:   c.logger.With().Str("program", tgt.name).Logger(),
				Stdout:   c.stderr,
			})
			res, runErr := session.Run(cmd.Context(), tgt.source, tgt.input)
			if res == nil {
				return runErr
			}
			if runErr != nil {
				fmt.Fprintf(c.stderr, "warning: %v\n", runErr)
			}
			reader := c.newLineReader()
			defer reader.Close()
			if err := c.stepThrough(reader, playback.NewCursor(res.Sequence)); err != nil {
				return err
			}
			if runErr != nil {
				return &exitError{code: 1}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&input, "input", "", "whitespace separated tokens served by readInput()")
	return cmd
}

func (c *cli) stepThrough(reader lineReader, cursor *playback.Cursor) error {
	if cursor.Len() == 0 {
		fmt.Fprintln(c.stdout, "no steps recorded")
		return nil
	}
	c.showStep(cursor)
	for {
		line, err := reader.Prompt("step> ")
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		fields := strings.Fields(line)
		cmd := "n"
		if len(fields) > 0 {
			cmd = fields[0]
		}
		moved := false
		switch cmd {
		case "n", "next":
			if moved = cursor.Next(); !moved {
				fmt.Fprintln(c.stdout, "already at the last step")
			}
		case "p", "prev":
			if moved = cursor.Prev(); !moved {
				fmt.Fprintln(c.stdout, "already at the first step")
			}
		case "g", "goto":
			n := 0
			if len(fields) == 2 {
				n, _ = strconv.Atoi(fields[1])
			}
			if moved = n > 0 && cursor.Seek(n-1); !moved {
				fmt.Fprintf(c.stdout, "usage: g N with N between 1 and %d\n", cursor.Len())
			}
		case "f", "first":
			moved = cursor.First()
		case "l", "last":
			moved = cursor.Last()
		case "q", "quit":
			return nil
		case "h", "help", "?":
			fmt.Fprint(c.stdout, stepHelp)
		default:
			fmt.Fprintf(c.stdout, "unknown command %q (h for help)\n", cmd)
		}
		if moved {
			c.showStep(cursor)
		}
	}
}

func (c *cli) showStep(cursor *playback.Cursor) {
	snap, _ := cursor.Current()
	fmt.Fprint(c.stdout, playback.FormatFrame(playback.Frame{Index: cursor.Pos(), Total: cursor.Len(), Snapshot: snap}))
}
