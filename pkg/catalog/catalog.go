// Package catalog parses the manifest of expected tests.
//
// A manifest is UTF-8 text with one "category::test_id" pair per line.
// Every declared test starts out as not passed.
package catalog

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// Separator splits a manifest line into category and test id.
const Separator = "::"

var (
	// ErrNotFound is returned when the manifest file does not exist.
	ErrNotFound = errors.New("tests file not found")
	// ErrMalformedLine is returned for a line that is not "category::test_id".
	ErrMalformedLine = errors.New("malformed manifest line")
)

// Catalog maps category to test id to outcome, preserving declaration order.
type Catalog struct {
	order    []string
	tests    map[string]*category
	declared map[string]struct{}
}

type category struct {
	order    []string
	outcomes map[string]int
}

// New returns an empty catalog.
func New() *Catalog {
	return &Catalog{
		tests:    make(map[string]*category),
		declared: make(map[string]struct{}),
	}
}

// Load parses the manifest at path.
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("open tests file: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

// Parse reads a manifest from r. Every line, blank ones included, must be
// "category::test_id" after trimming.
func Parse(r io.Reader) (*Catalog, error) {
	c := New()
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		cat, id, err := splitLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		c.Declare(cat, id)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning tests file: %w", err)
	}
	return c, nil
}

func splitLine(line string) (string, string, error) {
	parts := strings.Split(line, Separator)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("%w: %q", ErrMalformedLine, line)
	}
	return parts[0], parts[1], nil
}

// Declare adds a test to a category with outcome 0.
// Redeclaring a test leaves its outcome unchanged.
func (c *Catalog) Declare(cat, id string) {
	entry, ok := c.tests[cat]
	if !ok {
		entry = &category{outcomes: make(map[string]int)}
		c.tests[cat] = entry
		c.order = append(c.order, cat)
	}
	if _, seen := entry.outcomes[id]; !seen {
		entry.outcomes[id] = 0
		entry.order = append(entry.order, id)
	}
	c.declared[id] = struct{}{}
}

// Categories returns category ids in manifest order.
func (c *Catalog) Categories() []string {
	return append([]string(nil), c.order...)
}

// HasCategory reports whether the manifest declared cat.
func (c *Catalog) HasCategory(cat string) bool {
	_, ok := c.tests[cat]
	return ok
}

// Tests returns the test ids of cat in manifest order.
func (c *Catalog) Tests(cat string) []string {
	entry, ok := c.tests[cat]
	if !ok {
		return nil
	}
	return append([]string(nil), entry.order...)
}

// Declared reports whether id was declared under cat.
func (c *Catalog) Declared(cat, id string) bool {
	entry, ok := c.tests[cat]
	if !ok {
		return false
	}
	_, ok = entry.outcomes[id]
	return ok
}

// MarkPassed sets the outcome of a declared test to 1.
// It returns false if cat/id was never declared.
func (c *Catalog) MarkPassed(cat, id string) bool {
	if !c.Declared(cat, id) {
		return false
	}
	c.tests[cat].outcomes[id] = 1
	return true
}

// Outcome returns 1 if the test passed, 0 otherwise.
func (c *Catalog) Outcome(cat, id string) int {
	entry, ok := c.tests[cat]
	if !ok {
		return 0
	}
	return entry.outcomes[id]
}

// Total returns the number of tests declared under cat.
func (c *Catalog) Total(cat string) int {
	entry, ok := c.tests[cat]
	if !ok {
		return 0
	}
	return len(entry.order)
}

// Passed returns the sum of outcomes under cat.
func (c *Catalog) Passed(cat string) int {
	entry, ok := c.tests[cat]
	if !ok {
		return 0
	}
	n := 0
	for _, v := range entry.outcomes {
		n += v
	}
	return n
}

// DeclaredIDs returns every declared test id, sorted.
func (c *Catalog) DeclaredIDs() []string {
	ids := make([]string, 0, len(c.declared))
	for id := range c.declared {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of distinct declared test ids.
func (c *Catalog) Len() int {
	return len(c.declared)
}
