// Package testreport reads Criterion JSON test reports and applies their
// outcomes to a test catalog.
package testreport

// StatusPassed is the only status counted as a pass.
const StatusPassed = "PASSED"

// Other statuses Criterion emits. All of them score as failures.
const (
	StatusFailed  = "FAILED"
	StatusErrored = "ERRORED"
	StatusSkipped = "SKIPPED"
)

// Report is a Criterion JSON report.
type Report struct {
	ID         string  `json:"id,omitempty"`
	Passed     int     `json:"passed"`
	Failed     int     `json:"failed"`
	Errored    int     `json:"errored"`
	Skipped    int     `json:"skipped"`
	TestSuites []Suite `json:"test_suites"`
}

// Suite is one group of tests. Its name must match a catalog category.
type Suite struct {
	Name    string `json:"name"`
	Passed  int    `json:"passed"`
	Failed  int    `json:"failed"`
	Errored int    `json:"errored"`
	Skipped int    `json:"skipped"`
	Tests   []Test `json:"tests"`
}

// Test is a single test outcome.
type Test struct {
	Name       string   `json:"name"`
	Status     string   `json:"status"`
	Assertions int      `json:"assertions,omitempty"`
	Messages   []string `json:"messages,omitempty"`
}

// Passed reports whether the test status is exactly PASSED.
func (t Test) Passed() bool {
	return t.Status == StatusPassed
}

// RunSet is the set of test ids observed anywhere in a report.
type RunSet map[string]struct{}

// Has reports whether id was observed.
func (s RunSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Add records id as observed.
func (s RunSet) Add(id string) {
	s[id] = struct{}{}
}
