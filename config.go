// Completion: 100% - Configuration complete
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xyproto/env/v2"
	"golang.org/x/term"

	"github.com/xyproto/adder/internal/engine"
)

// Config holds the settings shared by all subcommands. Environment variables
// provide the defaults and command line flags override them.
type Config struct {
	Verbose     bool
	Syntax      string
	Color       string // auto, always or never
	MaxDepth    int
	Entry       string
	HistoryFile string
}

// LoadConfig reads the ADDER_* environment variables
func LoadConfig() *Config {
	// env caches the environment on first use
	env.Load()

	historyFile := env.Str("ADDER_HISTORY")
	if historyFile == "" {
		if home, err := os.UserHomeDir(); err == nil {
			historyFile = filepath.Join(home, ".adder_history")
		}
	}
	color := env.Str("ADDER_COLOR", "auto")
	if env.Has("NO_COLOR") {
		color = "never"
	}
	return &Config{
		Verbose:     env.Bool("ADDER_VERBOSE"),
		Syntax:      env.Str("ADDER_SYNTAX", engine.SyntaxNASM.String()),
		Color:       color,
		MaxDepth:    env.Int("ADDER_MAX_DEPTH", engine.DefaultMaxDepth),
		Entry:       env.Str("ADDER_ENTRY", engine.DefaultEntry),
		HistoryFile: historyFile,
	}
}

// Options converts the configuration into compiler options
func (c *Config) Options(file string) (engine.Options, error) {
	syntax, err := engine.ParseSyntax(c.Syntax)
	if err != nil {
		return engine.Options{}, err
	}
	if err := engine.ValidateEntry(c.Entry); err != nil {
		return engine.Options{}, err
	}
	return engine.Options{
		File:     file,
		Syntax:   syntax,
		Entry:    c.Entry,
		MaxDepth: c.MaxDepth, // 0 means no limit
	}, nil
}

// UseColor decides whether diagnostics written to f get ANSI colors
func (c *Config) UseColor(f *os.File) (bool, error) {
	switch strings.ToLower(c.Color) {
	case "always":
		return true, nil
	case "never":
		return false, nil
	case "", "auto":
		return term.IsTerminal(int(f.Fd())), nil
	default:
		return false, fmt.Errorf("invalid color mode: %s (supported: auto, always, never)", c.Color)
	}
}
