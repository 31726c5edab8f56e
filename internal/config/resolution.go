package config

import (
	"os"
	"strconv"
)

// Flags holds the command-line values that take part in resolution.
type Flags struct {
	ConfigPath string
	Debug      bool
	NoColor    bool

	// Set markers record whether a flag was given explicitly.
	ConfigPathSet bool
	DebugSet      bool
	NoColorSet    bool
}

// Resolved is the final run-time configuration.
type Resolved struct {
	Assignments *Config
	Debug       bool
	NoColor     bool

	// ConfigSource is "cli", "env" or "default".
	ConfigSource string
}

// Resolve applies CLI flags, then environment variables, then defaults,
// and loads the selected assignment definitions.
func Resolve(flags Flags) (*Resolved, error) {
	r := &Resolved{ConfigSource: "default"}

	path := ""
	switch {
	case flags.ConfigPathSet && flags.ConfigPath != "":
		path = flags.ConfigPath
		r.ConfigSource = "cli"
	case os.Getenv("TCPGRADE_CONFIG") != "":
		path = os.Getenv("TCPGRADE_CONFIG")
		r.ConfigSource = "env"
	}

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	r.Assignments = cfg

	if flags.DebugSet {
		r.Debug = flags.Debug
	} else {
		r.Debug = envBool("TCPGRADE_DEBUG")
	}

	if flags.NoColorSet {
		r.NoColor = flags.NoColor
	} else {
		r.NoColor = envBool("TCPGRADE_NO_COLOR") || os.Getenv("NO_COLOR") != ""
	}
	return r, nil
}

func envBool(key string) bool {
	v, ok := os.LookupEnv(key)
	if !ok {
		return false
	}
	b, err := strconv.ParseBool(v)
	return err == nil && b
}
