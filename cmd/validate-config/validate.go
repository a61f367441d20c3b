package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/firmware-tools/preflight/internal/board"
	"github.com/firmware-tools/preflight/internal/boot"
	"github.com/firmware-tools/preflight/internal/config"
	"github.com/firmware-tools/preflight/internal/domain/values"
	"github.com/firmware-tools/preflight/internal/output"
	"github.com/firmware-tools/preflight/internal/report"
	"github.com/firmware-tools/preflight/internal/validate"
)

// Exit codes of the validator. Malformed input wins over everything because
// no verdict was reached at all.
const (
	exitClean      = 0
	exitStrictWarn = 1
	exitFindings   = 2
	exitMalformed  = 3
)

// exitCodeError carries the process exit code out of the cobra run action.
type exitCodeError struct {
	code int
	err  error
}

func (e *exitCodeError) Error() string { return e.err.Error() }
func (e *exitCodeError) Unwrap() error { return e.err }

// FindingEnv is the expression environment for --filter: one finding,
// flattened to plain fields.
type FindingEnv struct {
	Severity string   `expr:"severity"`
	Code     string   `expr:"code"`
	Message  string   `expr:"message"`
	Entities []string `expr:"entities"`
}

// runValidateAction validates every given configuration document against the
// board profile. Independent documents are validated in parallel; results
// are emitted in argument order and the worst exit code wins.
func runValidateAction(ctx context.Context, paths []string) error {
	resolveFlagDefaults()

	filterProgram, err := compileFilter()
	if err != nil {
		return &exitCodeError{code: exitMalformed, err: err}
	}

	if boardPath == "" {
		return &exitCodeError{
			code: exitMalformed,
			err:  errors.New("no board profile: pass --board or set board in $HOME/.preflight.yaml"),
		}
	}

	slog.Info("loading board profile", "path", boardPath)
	profile, err := board.Load(boardPath)
	if err != nil {
		return &exitCodeError{code: exitMalformed, err: err}
	}
	slog.Info("board profile loaded", "board", profile.Name, "isrs", len(profile.ISRs))

	validator := validate.New(profile)

	results := make([]*output.Result, len(paths))
	codes := make([]int, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			results[i], codes[i] = validateOne(validator, path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return &exitCodeError{code: exitMalformed, err: err}
	}

	writer, closeWriter, err := openOutput()
	if err != nil {
		return &exitCodeError{code: exitMalformed, err: err}
	}
	defer closeWriter()

	formatter, err := output.NewFormatter(format, writer)
	if err != nil {
		return &exitCodeError{code: exitMalformed, err: err}
	}

	worst := exitClean
	for i, result := range results {
		if codes[i] > worst {
			worst = codes[i]
		}
		if filterProgram != nil {
			result.Report = filteredView(result.Report, filterProgram)
		}
		if err := formatter.Format(result); err != nil {
			return &exitCodeError{code: exitMalformed, err: fmt.Errorf("failed to format output: %w", err)}
		}
	}

	if worst != exitClean {
		return &exitCodeError{code: worst, err: fmt.Errorf("validation finished with exit code %d", worst)}
	}
	return nil
}

// validateOne loads and validates a single document. A document that never
// parsed still yields a result: a report with a single MalformedInput
// finding and no boot outcome, so machine-readable output records the
// failure alongside the other documents.
func validateOne(validator *validate.Validator, path string) (*output.Result, int) {
	slog.Info("validating configuration", "path", path)

	img, err := config.Load(path)
	if err != nil {
		slog.Error("configuration rejected", "path", path, "error", err)
		rep := report.New(path, []report.Finding{
			report.Errorf(values.CodeMalformedInput, []string{"document:" + path}, "%v", err),
		})
		return output.NewResult(path, rep, nil), exitMalformed
	}

	rep := validator.Validate(img.Name, img.Memory, img.Scheduler, img.Structural)

	sequencer := boot.NewSequencer(img.LoadMode, img.Memory)
	outcome := sequencer.Run(rep)

	slog.Info("validation complete",
		"path", path,
		"verdict", rep.Verdict.String(),
		"errors", rep.Summary.Errors,
		"warnings", rep.Summary.Warnings,
		"boot", string(outcome.Terminal))

	code := exitClean
	switch {
	case rep.Summary.Errors > 0:
		code = exitFindings
	case rep.Summary.Warnings > 0 && strict:
		code = exitStrictWarn
	}

	return output.NewResult(path, rep, &outcome), code
}

// resolveFlagDefaults fills unset flags from the viper tool config.
func resolveFlagDefaults() {
	if boardPath == "" && viper.IsSet("board") {
		boardPath = viper.GetString("board")
	}
	if !strict && viper.IsSet("strict") {
		strict = viper.GetBool("strict")
	}
	if !rootCmd.Flags().Changed("format") && viper.IsSet("format") {
		format = viper.GetString("format")
	}
}

// compileFilter compiles the --filter expression once at startup.
func compileFilter() (*vm.Program, error) {
	if filterExpr == "" {
		return nil, nil
	}
	program, err := expr.Compile(filterExpr, expr.Env(FindingEnv{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("invalid --filter expression: %w\nExample: severity == 'error' || code == 'InsufficientHeapWarning'", err)
	}
	return program, nil
}

// filteredView narrows the displayed findings. The verdict and exit code are
// always computed from the full report; the filter only trims output.
func filteredView(rep *report.Report, program *vm.Program) *report.Report {
	keep := func(f report.Finding) bool {
		env := FindingEnv{
			Severity: f.Severity.String(),
			Code:     f.Code.String(),
			Message:  f.Message,
			Entities: f.Entities,
		}
		match, err := expr.Run(program, env)
		if err != nil {
			slog.Debug("filter expression failed for finding", "code", f.Code.String(), "error", err)
			return true
		}
		matched, ok := match.(bool)
		return !ok || matched
	}
	return rep.Filtered(keep)
}

// openOutput resolves the report writer.
func openOutput() (io.Writer, func(), error) {
	if outFile == "" {
		return os.Stdout, func() {}, nil
	}

	//nolint:gosec // G304: User-controlled output file path is intentional
	file, err := os.Create(outFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	slog.Info("writing output", "file", outFile, "format", format)
	return file, func() {
		_ = file.Close() // Best-effort cleanup
	}, nil
}
