package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"dsaviz/interpreter-go/pkg/driver"
	"dsaviz/interpreter-go/pkg/playback"
)

type runFlags struct {
	input     string
	inputFile string
	format    string
	play      bool
	delay     time.Duration
	maxSteps  int
	seed      int64
}

func (c *cli) runCommand() *cobra.Command {
	var flags runFlags
	cmd := &cobra.Command{
		Use:   "run [file|program]",
		Short: "Run a program and print every recorded step",
		Long: "Run a program and print every recorded step.\n\n" +
			"The argument is a source file or the name of a program in viz.yml;\n" +
			"without one the manifest's first program runs.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runProgram(cmd, firstArg(args), flags)
		},
	}
	f := cmd.Flags()
	f.StringVar(&flags.input, "input", "", "whitespace separated tokens served by readInput()")
	f.StringVar(&flags.inputFile, "input-file", "", "read the input tokens from a file")
	f.StringVar(&flags.format, "format", "text", "output format: text, json or yaml")
	f.BoolVar(&flags.play, "play", false, "animate the steps instead of printing them all")
	f.DurationVar(&flags.delay, "delay", playback.DefaultDelay, "pause between animated steps")
	f.IntVar(&flags.maxSteps, "max-steps", 0, "evaluation step budget (negative disables it)")
	f.Int64Var(&flags.seed, "seed", 0, "seed for Math.random")
	cmd.MarkFlagsMutuallyExclusive("input", "input-file")
	return cmd
}

func (c *cli) runProgram(cmd *cobra.Command, arg string, flags runFlags) error {
	format, err := driver.ParseFormat(flags.format)
	if err != nil {
		return err
	}
	if flags.play && format != driver.FormatText {
		return fmt.Errorf("--play animates text frames and cannot be combined with --format %s", format)
	}
	tgt, err := c.resolveTarget(arg)
	if err != nil {
		return err
	}
	rawInput, err := resolveInput(cmd, flags, tgt)
	if err != nil {
		return err
	}
	delay, err := resolveDelay(flags.delay, cmd.Flags().Changed("delay"), tgt.manifest)
	if err != nil {
		return err
	}

	// Serialised traces own stdout, so program output moves to stderr.
	programOut := c.stdout
	if format != driver.FormatText {
		programOut = c.stderr
	}
	session := driver.NewSession(driver.Options{
		MaxSteps:   resolveMaxSteps(flags.maxSteps, cmd.Flags().Changed("max-steps"), tgt.manifest),
		Logger:     c.logger.With().Str("program", tgt.name).Logger(),
		Stdout:     programOut,
		RandomSeed: flags.seed,
	})
	res, runErr := session.Run(cmd.Context(), tgt.source, rawInput)
	if res == nil {
		return runErr
	}

	if format != driver.FormatText {
		if err := driver.WriteTrace(c.stdout, format, driver.NewTrace(res, runErr)); err != nil {
			return err
		}
		if runErr != nil {
			return &exitError{code: 1}
		}
		return nil
	}

	if flags.play {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		player := &playback.Player{Delay: delay, Render: playback.NewRenderer(c.stdout).Render}
		if _, err := player.Play(ctx, res.Sequence); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
	} else if err := printFrames(c.stdout, res); err != nil {
		return err
	}
	if res.Sequence.Len() == 0 {
		fmt.Fprintln(c.stdout, "no steps recorded")
	}
	return runErr
}

func printFrames(w io.Writer, res *driver.Result) error {
	total := res.Sequence.Len()
	for idx, snap := range res.Sequence.Snapshots() {
		if idx > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		frame := playback.Frame{Index: idx, Total: total, Snapshot: snap}
		if _, err := io.WriteString(w, playback.FormatFrame(frame)); err != nil {
			return err
		}
	}
	return nil
}

// resolveInput prefers --input and --input-file over the input the manifest
// configures for the program.
func resolveInput(cmd *cobra.Command, flags runFlags, tgt *target) (string, error) {
	switch {
	case cmd.Flags().Changed("input"):
		return flags.input, nil
	case flags.inputFile != "":
		data, err := os.ReadFile(flags.inputFile)
		if err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		return string(data), nil
	default:
		return tgt.input, nil
	}
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
