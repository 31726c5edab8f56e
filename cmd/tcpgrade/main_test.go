package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoosis/tcpgrade/internal/config"
)

// These exercise the full pipeline: files → catalog → report → score → render → stdout.

type fixture struct {
	dir        string
	testsFile  string
	reportFile string
}

func newFixture(t *testing.T, manifest, report string) fixture {
	t.Helper()
	dir := t.TempDir()
	fx := fixture{
		dir:        dir,
		testsFile:  filepath.Join(dir, "alltests"),
		reportFile: filepath.Join(dir, "results.json"),
	}
	require.NoError(t, os.WriteFile(fx.testsFile, []byte(manifest), 0o600))
	require.NoError(t, os.WriteFile(fx.reportFile, []byte(report), 0o600))
	return fx
}

func (fx fixture) args(extra ...string) []string {
	return append([]string{"--tests-file", fx.testsFile, "--report-file", fx.reportFile}, extra...)
}

func isolateEnv(t *testing.T) {
	t.Helper()
	t.Setenv("TCPGRADE_CONFIG", "")
	t.Setenv("TCPGRADE_DEBUG", "")
	t.Setenv("TCPGRADE_NO_COLOR", "")
	t.Setenv("NO_COLOR", "")
}

// fullSuite declares one passing test per default category, with weights
// chosen so the totals are 42.5 and 30.0.
func fullSuite() (string, string) {
	type entry struct {
		cat    string
		tests  []string
		passed int
	}
	entries := []entry{
		{"conn_init", []string{"a", "b"}, 2},               // 20
		{"conn_term", []string{"c", "d", "e", "f"}, 1},     // 2.5
		{"data_transfer", []string{"g"}, 1},                // 20
		{"multitimer", []string{"h"}, 1},                   // 10
		{"unreliable_conn_init", []string{"i"}, 0},         // 0
		{"unreliable_conn_term", []string{"j"}, 0},         // 0
		{"unreliable_data_transfer", []string{"k"}, 1},     // 15
		{"persist", []string{"l"}, 1},                      // 5
		{"unreliable_out_of_order", []string{"m", "n"}, 0}, // 0
	}

	var manifest []string
	var suites []string
	for _, e := range entries {
		var tests []string
		for i, id := range e.tests {
			manifest = append(manifest, e.cat+"::"+id)
			status := "FAILED"
			if i < e.passed {
				status = "PASSED"
			}
			tests = append(tests, `{"name":"`+id+`","status":"`+status+`"}`)
		}
		suites = append(suites, `{"name":"`+e.cat+`","tests":[`+strings.Join(tests, ",")+`]}`)
	}
	return strings.Join(manifest, "\n") + "\n", `{"test_suites":[` + strings.Join(suites, ",") + `]}`
}

// allPassing declares and passes every category of the default config.
func allPassing() (string, string) {
	var manifest, suites []string
	for _, a := range config.Default().Assignments {
		for _, c := range a.Categories {
			manifest = append(manifest, c.ID+"::"+c.ID+"_1", c.ID+"::"+c.ID+"_2")
			suites = append(suites, `{"name":"`+c.ID+`","tests":[`+
				`{"name":"`+c.ID+`_1","status":"PASSED"},{"name":"`+c.ID+`_2","status":"PASSED"}]}`)
		}
	}
	return strings.Join(manifest, "\n") + "\n", `{"test_suites":[` + strings.Join(suites, ",") + `]}`
}

func TestRun_TablePartialHandshakeAndNotRunWarning(t *testing.T) {
	isolateEnv(t)
	fx := newFixture(t,
		"conn_init::t1\nconn_init::t2\n",
		`{"test_suites":[{"name":"conn_init","tests":[{"name":"t1","status":"PASSED"}]}]}`,
	)

	var stdout, stderr bytes.Buffer
	code := run(fx.args(), &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	out := stdout.String()
	assert.True(t, strings.HasPrefix(out, "WARNING: Missing results from 1 tests (out of 2 possible tests)\n\n"), out)
	assert.Contains(t, out, "3-way handshake                          1      / 2           10.00  / 20.00     ")
	assert.Contains(t, out, "TOTAL = 10.00  / 50        ")
	assert.Contains(t, out, "Assignment 2\n")
	assert.NotContains(t, out, "\033[")
}

func TestRun_CategoryAbsentFromReport(t *testing.T) {
	isolateEnv(t)
	fx := newFixture(t,
		"conn_init::a\npersist::p1\npersist::p2\n",
		`{"test_suites":[{"name":"conn_init","tests":[{"name":"a","status":"PASSED"}]}]}`,
	)

	var stdout, stderr bytes.Buffer
	require.Equal(t, 0, run(fx.args(), &stdout, &stderr))

	out := stdout.String()
	assert.Contains(t, out, "WARNING: Missing results from 2 tests (out of 3 possible tests)")
	assert.Contains(t, out, "Persist timer                            0      / 2           0.00   / 5.00      ")
}

func TestRun_CSVPrintsOnlyTotals(t *testing.T) {
	isolateEnv(t)
	manifest, report := fullSuite()
	// Drop one test from the report to prove the warning is suppressed.
	fx := newFixture(t, manifest+"persist::never\n", report)

	var stdout, stderr bytes.Buffer
	require.Equal(t, 0, run(fx.args("--csv"), &stdout, &stderr), stderr.String())
	assert.Equal(t, "42.5,27.5\n", stdout.String())
	assert.Empty(t, stderr.String())
}

func TestRun_CSVExactTotals(t *testing.T) {
	isolateEnv(t)
	manifest, report := fullSuite()
	fx := newFixture(t, manifest, report)

	var stdout, stderr bytes.Buffer
	require.Equal(t, 0, run(fx.args("--csv"), &stdout, &stderr), stderr.String())
	assert.Equal(t, "42.5,30.0\n", stdout.String())
}

func TestRun_GradescopeSingleAssignmentAllPassing(t *testing.T) {
	isolateEnv(t)
	manifest, report := allPassing()
	fx := newFixture(t, manifest, report)

	var stdout, stderr bytes.Buffer
	require.Equal(t, 0, run(fx.args("--gradescope", "--gradescope-assignment", "1"), &stdout, &stderr), stderr.String())

	var payload map[string]any
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &payload), stdout.String())
	assert.InDelta(t, 50.0, payload["score"], 1e-9)
	assert.Contains(t, stdout.String(), `"score": 50.0,`)
	assert.NotContains(t, payload, "output")
	assert.Equal(t, "visible", payload["visibility"])
	assert.Equal(t, "visible", payload["stdout_visibility"])
	assert.Len(t, payload["tests"], 3)
	assert.Empty(t, stderr.String())
}

func TestRun_GradescopeCombinedWithNotRun(t *testing.T) {
	isolateEnv(t)
	manifest, report := fullSuite()
	fx := newFixture(t, manifest+"persist::never\n", report)

	var stdout, stderr bytes.Buffer
	require.Equal(t, 0, run(fx.args("--gradescope"), &stdout, &stderr))

	var payload map[string]any
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &payload), stdout.String())
	assert.InDelta(t, 42.5+27.5, payload["score"], 1e-9)
	assert.Equal(t, "We were unable to run some or all of the tests due to an error in your code.", payload["output"])
	assert.Len(t, payload["tests"], 9)
	assert.Contains(t, stderr.String(), "WARNING: Missing results from 1 tests")
}

func TestRun_GradescopeAssignmentOutOfRange(t *testing.T) {
	isolateEnv(t)
	manifest, report := allPassing()
	fx := newFixture(t, manifest, report)

	var stdout, stderr bytes.Buffer
	assert.Equal(t, 2, run(fx.args("--gradescope", "--gradescope-assignment", "3"), &stdout, &stderr))
	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), "between 1 and 2")
}

func TestRun_CSVAndGradescopeConflict(t *testing.T) {
	isolateEnv(t)
	manifest, report := allPassing()
	fx := newFixture(t, manifest, report)

	var stdout, stderr bytes.Buffer
	assert.Equal(t, 2, run(fx.args("--csv", "--gradescope"), &stdout, &stderr))
	assert.Empty(t, stdout.String())
}

func TestRun_MissingTestsFile(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	missing := filepath.Join(dir, "alltests")

	var stdout, stderr bytes.Buffer
	code := run([]string{"--tests-file", missing, "--report-file", filepath.Join(dir, "results.json")}, &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.Equal(t, "Tests file not found: "+missing+"\n", stdout.String())
}

func TestRun_MissingReportFile(t *testing.T) {
	isolateEnv(t)
	fx := newFixture(t, "conn_init::a\n", `{"test_suites":[]}`)
	missing := filepath.Join(fx.dir, "nope.json")

	var stdout, stderr bytes.Buffer
	code := run([]string{"--tests-file", fx.testsFile, "--report-file", missing}, &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.Equal(t, "Test results file not found: "+missing+"\n"+
		"Make sure you've run the tests before running this script.\n", stdout.String())
}

func TestRun_MalformedManifestAbortsWithoutOutput(t *testing.T) {
	isolateEnv(t)
	fx := newFixture(t, "conn_init::a\nconn_init-b\n", `{"test_suites":[]}`)

	var stdout, stderr bytes.Buffer
	assert.Equal(t, 1, run(fx.args(), &stdout, &stderr))
	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), "malformed manifest line")
	assert.Contains(t, stderr.String(), "line 2")
}

func TestRun_UnknownCategoryAbortsWithoutOutput(t *testing.T) {
	isolateEnv(t)
	fx := newFixture(t, "conn_init::a\n",
		`{"test_suites":[{"name":"rtt_estimation","tests":[{"name":"rtt_3s","status":"PASSED"}]}]}`)

	var stdout, stderr bytes.Buffer
	assert.Equal(t, 1, run(fx.args("--csv"), &stdout, &stderr))
	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), "unknown category")
	assert.Contains(t, stderr.String(), "rtt_estimation")
}

func TestRun_InvalidReportJSON(t *testing.T) {
	isolateEnv(t)
	fx := newFixture(t, "conn_init::a\n", `{"test_suites": [`)

	var stdout, stderr bytes.Buffer
	assert.Equal(t, 1, run(fx.args(), &stdout, &stderr))
	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), "decode report")
}

func TestRun_CustomConfigFile(t *testing.T) {
	isolateEnv(t)
	fx := newFixture(t, "handshake::a\nhandshake::b\n",
		`{"test_suites":[{"name":"handshake","tests":[{"name":"a","status":"PASSED"},{"name":"b","status":"PASSED"}]}]}`)
	cfgPath := filepath.Join(fx.dir, "grade.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
assignments:
  - name: Project 1
    points: 8
    categories:
      - id: handshake
        name: Handshake
        points: 8
`), 0o600))

	var stdout, stderr bytes.Buffer
	require.Equal(t, 0, run(fx.args("--config", cfgPath, "--csv"), &stdout, &stderr), stderr.String())
	assert.Equal(t, "8.0\n", stdout.String())
}

func TestRun_DebugLogsToStderr(t *testing.T) {
	isolateEnv(t)
	manifest, report := allPassing()
	fx := newFixture(t, manifest, report)

	var stdout, stderr bytes.Buffer
	require.Equal(t, 0, run(fx.args("--csv", "--debug"), &stdout, &stderr))
	assert.Equal(t, "50.0,50.0\n", stdout.String())
	assert.Contains(t, stderr.String(), "level=DEBUG")
	assert.Contains(t, stderr.String(), "tests file loaded")
}

func TestRun_RejectsPositionalArgs(t *testing.T) {
	isolateEnv(t)

	var stdout, stderr bytes.Buffer
	assert.Equal(t, 2, run([]string{"extra"}, &stdout, &stderr))
}

func TestRun_Version(t *testing.T) {
	isolateEnv(t)

	var stdout, stderr bytes.Buffer
	assert.Equal(t, 0, run([]string{"--version"}, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "dev")
}

func TestDefaultTestsFile_SitsNextToExecutable(t *testing.T) {
	assert.Equal(t, "alltests", filepath.Base(defaultTestsFile()))
}

func testdataArgs(extra ...string) []string {
	return append([]string{
		"--tests-file", filepath.Join("testdata", "alltests"),
		"--report-file", filepath.Join("testdata", "results.json"),
	}, extra...)
}

func TestRun_TableMatchesGolden(t *testing.T) {
	isolateEnv(t)
	want, err := os.ReadFile(filepath.Join("testdata", "table.golden"))
	require.NoError(t, err)

	var stdout, stderr bytes.Buffer
	require.Equal(t, 0, run(testdataArgs(), &stdout, &stderr), stderr.String())
	assert.Equal(t, string(want), stdout.String())
}

func TestRun_CSVFromCriterionReport(t *testing.T) {
	isolateEnv(t)

	var stdout, stderr bytes.Buffer
	require.Equal(t, 0, run(testdataArgs("--csv"), &stdout, &stderr), stderr.String())
	assert.Equal(t, "40.37037037037037,37.89473684210526\n", stdout.String())
}

func TestRun_GradescopeFromCriterionReport(t *testing.T) {
	isolateEnv(t)

	var stdout, stderr bytes.Buffer
	require.Equal(t, 0, run(testdataArgs("--gradescope", "--gradescope-assignment", "2"), &stdout, &stderr), stderr.String())

	var payload struct {
		Tests []struct {
			Score    float64 `json:"score"`
			MaxScore float64 `json:"max_score"`
			Name     string  `json:"name"`
		} `json:"tests"`
		Output string  `json:"output"`
		Score  float64 `json:"score"`
	}
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &payload))
	require.Len(t, payload.Tests, 6)
	assert.Equal(t, "Timer API", payload.Tests[0].Name)
	assert.InDelta(t, 7.894736842105264, payload.Tests[0].Score, 1e-12)
	assert.Equal(t, "Persist timer", payload.Tests[4].Name)
	assert.Zero(t, payload.Tests[4].Score)
	assert.InDelta(t, 37.89473684210526, payload.Score, 1e-12)
	assert.NotEmpty(t, payload.Output)
	assert.Equal(t, "WARNING: Missing results from 7 tests (out of 79 possible tests)\n\n", stderr.String())
}
