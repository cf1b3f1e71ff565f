package main

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"dsaviz/interpreter-go/pkg/driver"
)

type checkResult struct {
	name      string
	snapshots int
	err       error
}

func (c *cli) checkCommand() *cobra.Command {
	var jobs int
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Run every program in viz.yml and report how many steps each records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			manifest, err := c.loadManifest()
			if err != nil {
				return fmt.Errorf("failed to load manifest: %w", err)
			}
			if manifest == nil {
				return fmt.Errorf("check requires a %s", driver.ManifestFileName)
			}
			cacheDir, err := resolveCacheDir()
			if err != nil {
				return err
			}
			if jobs <= 0 {
				jobs = runtime.NumCPU()
			}

			specs := manifest.OrderedPrograms()
			results := make([]checkResult, len(specs))
			loader := driver.NewSourceLoader(cacheDir)
			group, ctx := errgroup.WithContext(cmd.Context())
			group.SetLimit(jobs)
			for idx, spec := range specs {
				group.Go(func() error {
					if err := ctx.Err(); err != nil {
						return err
					}
					results[idx] = checkResult{name: spec.Name}
					prog, err := loader.Load(manifest, spec)
					if err != nil {
						results[idx].err = err
						return nil
					}
					session := driver.NewSession(driver.Options{
						MaxSteps: manifest.MaxSteps,
						Logger:   c.logger.With().Str("program", spec.Name).Logger(),
					})
					res, err := session.Run(ctx, prog.Source, prog.Input)
					if res != nil {
						results[idx].snapshots = res.Sequence.Len()
					}
					results[idx].err = err
					return nil
				})
			}
			if err := group.Wait(); err != nil {
				return err
			}

			failed := writeCheckTable(c.stdout, results)
			if failed > 0 {
				fmt.Fprintf(c.stderr, "%d of %d programs failed\n", failed, len(results))
				return &exitError{code: 1}
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "programs to run at once (default: number of CPUs)")
	return cmd
}

func writeCheckTable(w io.Writer, results []checkResult) int {
	width := 0
	for _, r := range results {
		width = max(width, runewidth.StringWidth(r.name))
	}
	failed := 0
	var b strings.Builder
	for _, r := range results {
		status := "ok  "
		detail := ""
		if r.err != nil {
			failed++
			status = "FAIL"
			detail = "  " + r.err.Error()
		}
		fmt.Fprintf(&b, "%s  %s  %d steps%s\n", runewidth.FillRight(r.name, width), status, r.snapshots, detail)
	}
	_, _ = io.WriteString(w, b.String())
	return failed
}
