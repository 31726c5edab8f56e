package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned when assignment definitions fail validation.
var ErrInvalidConfig = errors.New("invalid config")

// Category is a weighted group of tests within an assignment.
type Category struct {
	ID     string  `yaml:"id"`
	Name   string  `yaml:"name"`
	Points float64 `yaml:"points"`
}

// Assignment is a named, graded unit made of ordered categories.
type Assignment struct {
	Name       string     `yaml:"name"`
	Points     float64    `yaml:"points"`
	Categories []Category `yaml:"categories"`
}

// Config is the immutable set of assignments a run is scored against.
type Config struct {
	Assignments []Assignment `yaml:"assignments"`
}

// Default returns the chiTCP assignment definitions.
func Default() *Config {
	return &Config{
		Assignments: []Assignment{
			{
				Name:   "Assignment 1",
				Points: 50,
				Categories: []Category{
					{ID: "conn_init", Name: "3-way handshake", Points: 20},
					{ID: "conn_term", Name: "Connection tear-down", Points: 10},
					{ID: "data_transfer", Name: "Data transfer", Points: 20},
				},
			},
			{
				Name:   "Assignment 2",
				Points: 50,
				Categories: []Category{
					{ID: "multitimer", Name: "Timer API", Points: 10},
					{ID: "unreliable_conn_init", Name: "Retransmissions - 3-way handshake", Points: 5},
					{ID: "unreliable_conn_term", Name: "Retransmissions - Connection tear-down", Points: 5},
					{ID: "unreliable_data_transfer", Name: "Retransmissions - Data transfer", Points: 15},
					{ID: "persist", Name: "Persist timer", Points: 5},
					{ID: "unreliable_out_of_order", Name: "Out-of-order delivery", Points: 10},
				},
			},
		},
	}
}

// Load reads assignment definitions from a YAML file.
// An empty path yields the built-in defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes and validates YAML assignment definitions.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the definitions are usable for scoring.
// Category points are not required to add up to the assignment's points.
func (c *Config) Validate() error {
	if len(c.Assignments) == 0 {
		return fmt.Errorf("%w: no assignments defined", ErrInvalidConfig)
	}
	seen := make(map[string]string)
	for i, a := range c.Assignments {
		if a.Name == "" {
			return fmt.Errorf("%w: assignment %d has no name", ErrInvalidConfig, i+1)
		}
		if a.Points < 0 {
			return fmt.Errorf("%w: assignment %q has negative points", ErrInvalidConfig, a.Name)
		}
		for _, cat := range a.Categories {
			if cat.ID == "" {
				return fmt.Errorf("%w: assignment %q has a category with no id", ErrInvalidConfig, a.Name)
			}
			if cat.Points < 0 {
				return fmt.Errorf("%w: category %q has negative points", ErrInvalidConfig, cat.ID)
			}
			if owner, dup := seen[cat.ID]; dup {
				return fmt.Errorf("%w: category %q already belongs to %q", ErrInvalidConfig, cat.ID, owner)
			}
			seen[cat.ID] = a.Name
		}
	}
	return nil
}

// Assignment returns the assignment at the 1-based index n.
func (c *Config) Assignment(n int) (Assignment, bool) {
	if n < 1 || n > len(c.Assignments) {
		return Assignment{}, false
	}
	return c.Assignments[n-1], true
}

// DisplayName returns the display name for a category, falling back to its id.
func (cat Category) DisplayName() string {
	if cat.Name == "" {
		return cat.ID
	}
	return cat.Name
}
