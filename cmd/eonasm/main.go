// Copyright 2026 The eonasm authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command eonasm assembles eon CPU source files into an Intel HEX
// image.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"github.com/elgron-eon/eonasm/asm"
)

var (
	listing    bool
	unused     bool
	verbose    bool
	configPath string
)

func init() {
	flag.BoolVar(&listing, "l", false, "print a listing to stdout")
	flag.BoolVar(&unused, "u", false, "report labels that are never used")
	flag.BoolVar(&verbose, "v", false, "print per-pass progress")
	flag.StringVar(&configPath, "config", "eonasm.toml", "optional TOML config file")
	flag.CommandLine.Usage = func() {
		fmt.Println("Usage: eonasm [-l] [-u] [-v] [-config file] outfile infile...\nOptions:")
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()

	explicit := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "config" {
			explicit = true
		}
	})
	cfg, err := loadConfig(configPath, explicit)
	if err != nil {
		exitOnError(err)
	}

	if !flagSet("l") {
		listing = cfg.Listing
	}
	if !flagSet("u") {
		unused = cfg.Unused
	}
	if !flagSet("v") {
		verbose = cfg.Verbose
	}

	args := flag.Args()
	if len(args) < 2 {
		flag.Usage()
		os.Exit(1)
	}
	outfile, infiles := args[0], args[1:]

	sources, err := readSources(infiles)
	if err != nil {
		exitOnError(err)
	}

	result, err := asm.Assemble(sources, asm.Options{
		Listing:   listing,
		Unused:    unused,
		Verbose:   verbose,
		MaxPasses: cfg.MaxPasses,
	}, os.Stderr)
	if err != nil {
		exitOnError(err)
	}

	if err := os.WriteFile(outfile, result.Hex, 0644); err != nil {
		exitOnError(err)
	}
	if listing && result.Listing != nil {
		os.Stdout.Write(result.Listing)
	}

	if result.Errors > 0 {
		os.Exit(1)
	}
}

func flagSet(name string) bool {
	found := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

func readSources(paths []string) ([]asm.Source, error) {
	sources := make([]asm.Source, 0, len(paths))
	for _, path := range paths {
		file, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		var lines []string
		scanner := bufio.NewScanner(file)
		scanner.Buffer(make([]byte, 0, 256), 4096)
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		err = scanner.Err()
		file.Close()
		if err != nil {
			return nil, err
		}
		sources = append(sources, asm.Source{Name: path, Lines: lines})
	}
	return sources, nil
}

func exitOnError(err error) {
	fmt.Fprintf(os.Stderr, "eonasm: %v\n", err)
	os.Exit(1)
}
