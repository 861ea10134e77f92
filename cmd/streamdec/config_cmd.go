// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ManuGH/streamdec/internal/config"
	"github.com/ManuGH/streamdec/internal/version"
)

func runConfigCLI(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		printConfigUsage(stderr)
		return 0
	}

	switch args[0] {
	case "validate":
		return runConfigValidate(args[1:], stdout, stderr)
	case "dump":
		return runConfigDump(args[1:], stdout, stderr)
	default:
		fmt.Fprintf(stderr, "Unknown subcommand: %s\n\n", args[0])
		printConfigUsage(stderr)
		return 2
	}
}

func printConfigUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  streamdec config validate [-f config.yaml]")
	fmt.Fprintln(w, "  streamdec config dump [-f config.yaml] [-format=yaml|json]")
}

// loadChecked loads and validates; an empty path yields env + defaults.
func loadChecked(path string) (config.AppConfig, error) {
	cfg, err := config.NewLoader(strings.TrimSpace(path), version.Version).Load()
	if err != nil {
		return cfg, err
	}
	return cfg, config.Validate(cfg)
}

func runConfigValidate(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("streamdec config validate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var file string
	fs.StringVar(&file, "file", "", "path to YAML configuration file")
	fs.StringVar(&file, "f", "", "path to YAML configuration file (shorthand)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if _, err := loadChecked(file); err != nil {
		fmt.Fprintf(stderr, "Configuration error in %s:\n  %v\n", displayPath(file), err)
		return 1
	}
	fmt.Fprintf(stdout, "%s is valid\n", displayPath(file))
	return 0
}

func runConfigDump(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("streamdec config dump", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var file, format string
	fs.StringVar(&file, "file", "", "path to YAML configuration file")
	fs.StringVar(&file, "f", "", "path to YAML configuration file (shorthand)")
	fs.StringVar(&format, "format", "yaml", "output format: yaml or json")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := loadChecked(file)
	if err != nil {
		fmt.Fprintf(stderr, "Configuration error in %s:\n  %v\n", displayPath(file), err)
		return 1
	}

	switch strings.ToLower(strings.TrimSpace(format)) {
	case "yaml", "yml":
		enc := yaml.NewEncoder(stdout)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			fmt.Fprintf(stderr, "Failed to encode YAML: %v\n", err)
			return 1
		}
		_ = enc.Close()
		return 0
	case "json":
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(cfg); err != nil {
			fmt.Fprintf(stderr, "Failed to encode JSON: %v\n", err)
			return 1
		}
		return 0
	default:
		fmt.Fprintf(stderr, "Unsupported format: %s (use yaml or json)\n", format)
		return 2
	}
}

func displayPath(path string) string {
	if strings.TrimSpace(path) == "" {
		return "<env+defaults>"
	}
	return path
}
