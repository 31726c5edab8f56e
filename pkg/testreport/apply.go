package testreport

import (
	"fmt"

	"github.com/dkoosis/tcpgrade/pkg/catalog"
)

// TestRef names a test within a suite.
type TestRef struct {
	Suite string
	Name  string
}

// Applied is the outcome of applying a report to a catalog.
type Applied struct {
	// Run holds every test id seen in the report, whatever its status.
	Run RunSet
	// Undeclared lists passing tests the manifest never declared for their suite.
	// They are observed but never scored.
	Undeclared []TestRef
}

// Apply marks every PASSED test in rep as passed in cat.
// Every suite must name a catalog category; otherwise cat is left untouched
// and ErrUnknownCategory is returned.
func Apply(rep *Report, cat *catalog.Catalog) (*Applied, error) {
	for _, suite := range rep.TestSuites {
		if !cat.HasCategory(suite.Name) {
			return nil, fmt.Errorf("%w: report suite %q is not declared in the tests file", ErrUnknownCategory, suite.Name)
		}
	}

	out := &Applied{Run: make(RunSet)}
	for _, suite := range rep.TestSuites {
		for _, t := range suite.Tests {
			out.Run.Add(t.Name)
			if !t.Passed() {
				continue
			}
			if !cat.MarkPassed(suite.Name, t.Name) {
				out.Undeclared = append(out.Undeclared, TestRef{Suite: suite.Name, Name: t.Name})
			}
		}
	}
	return out, nil
}
