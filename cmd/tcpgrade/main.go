// tcpgrade turns chiTCP test results into assignment scores.
//
// Usage:
//
//	tcpgrade [--tests-file alltests] [--report-file results.json]
//	tcpgrade --csv
//	tcpgrade --gradescope [--gradescope-assignment N]
//
// The tests file lists every expected test as "category::test_id". The
// report file is the Criterion JSON written by the test runner.
//
// Output modes:
//
//	table       one aligned table per assignment (default)
//	csv         one line of assignment totals, nothing else
//	gradescope  Gradescope autograder results JSON
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dkoosis/tcpgrade/internal/config"
	"github.com/dkoosis/tcpgrade/internal/version"
	"github.com/dkoosis/tcpgrade/pkg/catalog"
	"github.com/dkoosis/tcpgrade/pkg/render"
	"github.com/dkoosis/tcpgrade/pkg/score"
	"github.com/dkoosis/tcpgrade/pkg/testreport"
)

const (
	exitOK    = 0
	exitFail  = 1
	exitUsage = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	testsFile            string
	reportFile           string
	csv                  bool
	gradescope           bool
	gradescopeAssignment int
	configPath           string
	theme                string
	debug                bool
	noColor              bool
}

// exitError carries a process exit code out of a cobra RunE.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

func run(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	if err == nil {
		return exitOK
	}
	var ee *exitError
	if errors.As(err, &ee) {
		if ee.err != nil {
			fmt.Fprintf(stderr, "tcpgrade: %v\n", ee.err)
		}
		return ee.code
	}
	// Flag parsing and validation errors from cobra.
	fmt.Fprintf(stderr, "tcpgrade: %v\n", err)
	return exitUsage
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:           "tcpgrade",
		Short:         "Score chiTCP test results per assignment",
		Long:          "tcpgrade cross-references the expected tests with a Criterion JSON report\nand prints weighted scores for every assignment.",
		Args:          cobra.NoArgs,
		Version:       version.String(),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return grade(cmd, opts)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	f := cmd.Flags()
	f.StringVar(&opts.testsFile, "tests-file", defaultTestsFile(), "File listing expected tests as category::test_id")
	f.StringVar(&opts.reportFile, "report-file", "results.json", "Criterion JSON test report")
	f.BoolVar(&opts.csv, "csv", false, "Print assignment totals as one CSV line")
	f.BoolVar(&opts.gradescope, "gradescope", false, "Print Gradescope autograder JSON")
	f.IntVar(&opts.gradescopeAssignment, "gradescope-assignment", 0, "Only report this assignment (1-based) in Gradescope mode")
	f.StringVar(&opts.configPath, "config", "", "YAML file with assignment definitions (default: built-in chiTCP assignments)")
	f.StringVar(&opts.theme, "theme", "default", "Table theme on a terminal: default, orca, mono")
	f.BoolVar(&opts.debug, "debug", false, "Log debug information to stderr")
	f.BoolVar(&opts.noColor, "no-color", false, "Disable styled table output")
	cmd.MarkFlagsMutuallyExclusive("csv", "gradescope")

	return cmd
}

// defaultTestsFile returns the alltests manifest next to the executable.
func defaultTestsFile() string {
	exe, err := os.Executable()
	if err != nil {
		return "alltests"
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Join(filepath.Dir(exe), "alltests")
}

func grade(cmd *cobra.Command, opts *options) error {
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()
	f := cmd.Flags()

	resolved, err := config.Resolve(config.Flags{
		ConfigPath:    opts.configPath,
		Debug:         opts.debug,
		NoColor:       opts.noColor,
		ConfigPathSet: f.Changed("config"),
		DebugSet:      f.Changed("debug"),
		NoColorSet:    f.Changed("no-color"),
	})
	if err != nil {
		return &exitError{code: exitFail, err: err}
	}
	log := newLogger(stderr, resolved.Debug)
	cfg := resolved.Assignments
	log.Debug("config resolved", slog.String("source", resolved.ConfigSource), slog.Int("assignments", len(cfg.Assignments)))

	selector := 0
	if opts.gradescope && f.Changed("gradescope-assignment") {
		if _, ok := cfg.Assignment(opts.gradescopeAssignment); !ok {
			return &exitError{code: exitUsage, err: fmt.Errorf("--gradescope-assignment must be between 1 and %d", len(cfg.Assignments))}
		}
		selector = opts.gradescopeAssignment
	}

	if !fileExists(opts.testsFile) {
		fmt.Fprintf(stdout, "Tests file not found: %s\n", opts.testsFile)
		return &exitError{code: exitFail}
	}
	if !fileExists(opts.reportFile) {
		fmt.Fprintf(stdout, "Test results file not found: %s\n", opts.reportFile)
		fmt.Fprintf(stdout, "Make sure you've run the tests before running this script.\n")
		return &exitError{code: exitFail}
	}

	res, err := aggregate(cfg, opts.testsFile, opts.reportFile, log)
	if err != nil {
		return &exitError{code: exitFail, err: err}
	}

	renderer := selectRenderer(opts, selector, resolved.NoColor, stdout)
	if opts.gradescope {
		if msg := render.Warning(res); msg != "" {
			fmt.Fprintf(stderr, "%s\n\n", msg)
		}
	}
	if err := renderer.Render(stdout, res); err != nil {
		return &exitError{code: exitFail, err: fmt.Errorf("writing output: %w", err)}
	}
	return nil
}

// aggregate loads both inputs and scores them. Nothing is written on error.
func aggregate(cfg *config.Config, testsFile, reportFile string, log *slog.Logger) (*score.Result, error) {
	cat, err := catalog.Load(testsFile)
	if err != nil {
		return nil, err
	}
	log.Debug("tests file loaded", slog.String("path", testsFile),
		slog.Int("categories", len(cat.Categories())), slog.Int("tests", cat.Len()))

	rep, err := testreport.ReadFile(reportFile)
	if err != nil {
		return nil, err
	}
	applied, err := testreport.Apply(rep, cat)
	if err != nil {
		return nil, err
	}
	log.Debug("report applied", slog.String("path", reportFile),
		slog.Int("suites", len(rep.TestSuites)), slog.Int("run", len(applied.Run)))
	for _, ref := range applied.Undeclared {
		log.Debug("passing test not in tests file", slog.String("suite", ref.Suite), slog.String("test", ref.Name))
	}

	res := score.Aggregate(cfg, cat, applied.Run)
	if !res.AllRun() {
		log.Debug("tests not run", slog.Any("ids", res.NotRun))
	}
	return res, nil
}

func selectRenderer(opts *options, selector int, noColor bool, w io.Writer) render.Renderer {
	switch {
	case opts.csv:
		return render.NewCSV()
	case opts.gradescope:
		return render.NewGradescope(selector)
	default:
		theme := render.PlainTheme()
		if isTTYWriter(w) && !noColor {
			theme = render.ThemeByName(opts.theme)
		}
		return render.NewText(theme)
	}
}

// newLogger returns a stderr text logger; below debug level it discards everything.
func newLogger(w io.Writer, debug bool) *slog.Logger {
	if !debug {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// isTTYWriter reports whether w is a terminal.
func isTTYWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
