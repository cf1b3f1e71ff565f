// Package driver ties the pieces of a traced run together: it parses a
// program, instruments it, executes it against a fresh tracer and input
// buffer, and hands back the frozen snapshot sequence.
package driver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"dsaviz/interpreter-go/pkg/ast"
	"dsaviz/interpreter-go/pkg/input"
	"dsaviz/interpreter-go/pkg/instrument"
	"dsaviz/interpreter-go/pkg/interpreter"
	"dsaviz/interpreter-go/pkg/parser"
	"dsaviz/interpreter-go/pkg/tracer"
)

// ErrRunInProgress rejects a run started while the session is busy.
var ErrRunInProgress = errors.New("driver: run already in progress")

// Options configures a Session. Zero values select the engine defaults.
type Options struct {
	MaxSteps       int
	MaxArrayLength int
	// Logger receives run lifecycle events; the zero value discards them.
	Logger zerolog.Logger
	// Stdout receives console output from the program.
	Stdout     io.Writer
	RandomSeed int64
}

// Result is what one run produced. On failure it still carries the
// snapshots recorded before the error.
type Result struct {
	RunID        uuid.UUID
	Instrumented string
	Sequence     *tracer.Sequence
	// Remaining holds the input tokens the program did not consume.
	Remaining []tracer.Value
	Steps     int
	Report    instrument.Report
}

// Session runs programs one at a time. Separate sessions share nothing.
type Session struct {
	opts Options

	mu   sync.Mutex
	busy bool
}

// NewSession returns a session with the given options.
func NewSession(opts Options) *Session {
	return &Session{opts: opts}
}

func (s *Session) acquire() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return false
	}
	s.busy = true
	return true
}

func (s *Session) release() {
	s.mu.Lock()
	s.busy = false
	s.mu.Unlock()
}

// Transform returns the instrumented form of source.
func (s *Session) Transform(source string) (string, error) {
	program, err := parse(source)
	if err != nil {
		return "", err
	}
	return ast.Print(instrument.Transform(program)), nil
}

// Run parses, instruments and executes source with rawInput as the input
// buffer. Parse failures return no result. A runtime failure returns the
// partial result together with a *RunError.
func (s *Session) Run(ctx context.Context, source, rawInput string) (*Result, error) {
	if !s.acquire() {
		return nil, ErrRunInProgress
	}
	defer s.release()

	runID := uuid.New()
	logger := s.opts.Logger.With().Str("run_id", runID.String()).Logger()

	program, err := parse(source)
	if err != nil {
		logger.Debug().Err(err).Msg("parse failed")
		return nil, err
	}
	program, report := instrument.TransformWithReport(program)
	logger.Debug().Int("tracer_calls", report.Total()).Msg("program instrumented")

	trace := tracer.NewRuntime(tracer.Options{MaxArrayLength: s.opts.MaxArrayLength})
	buffer := input.NewBuffer(rawInput)
	interp := interpreter.New(interpreter.Options{
		MaxSteps:       s.opts.MaxSteps,
		MaxArrayLength: s.opts.MaxArrayLength,
		Stdout:         s.opts.Stdout,
		RandomSeed:     s.opts.RandomSeed,
	})
	global := interp.GlobalEnvironment()
	global.DefineConst(tracer.BindingName, trace.Binding())
	global.DefineConst(instrument.ReadInputName, buffer.Binding())

	_, evalErr := interp.EvaluateProgram(ctx, program)

	result := &Result{
		RunID:        runID,
		Instrumented: ast.Print(program),
		Sequence:     trace.Sequence(),
		Steps:        interp.Steps(),
		Report:       report,
	}
	for _, token := range buffer.Remaining() {
		result.Remaining = append(result.Remaining, tracer.Capture(token))
	}
	if evalErr != nil {
		runErr := newRunError(evalErr, result.Sequence.Len())
		logger.Warn().Err(runErr).Int("snapshots", result.Sequence.Len()).Msg("run failed")
		return result, runErr
	}
	logger.Info().
		Int("snapshots", result.Sequence.Len()).
		Int("steps", result.Steps).
		Int("remaining_input", len(result.Remaining)).
		Msg("run complete")
	return result, nil
}

// Transform instruments source with a throwaway session.
func Transform(source string) (string, error) {
	return NewSession(Options{}).Transform(source)
}

// Normalize reprints source in canonical form without instrumenting it, so
// it can be compared line by line with Transform's output.
func Normalize(source string) (string, error) {
	program, err := parse(source)
	if err != nil {
		return "", err
	}
	return ast.Print(program), nil
}

// RunAndTrace runs source with default options.
func RunAndTrace(ctx context.Context, source, rawInput string) (*Result, error) {
	return NewSession(Options{}).Run(ctx, source, rawInput)
}

// parse treats blank source as an empty program, which runs to an empty
// sequence.
func parse(source string) (*ast.Program, error) {
	if strings.TrimSpace(source) == "" {
		return ast.NewProgram(nil), nil
	}
	program, err := parser.Parse([]byte(source))
	if err != nil {
		return nil, fmt.Errorf("driver: %w", err)
	}
	return program, nil
}
