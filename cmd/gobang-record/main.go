// Copyright 2026 The Gobang Authors
// SPDX-License-Identifier: Apache-2.0

// Gobang-record prints match records written by gobang-arbiter --record.
//
// Usage:
//
//	gobang-record [--diagnostic] FILE...
//
// For each file it prints the record's digest and a listing of the
// match. With --diagnostic it prints the record in CBOR diagnostic
// notation instead of the listing.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/gobang-foundation/gobang/lib/codec"
	"github.com/gobang-foundation/gobang/lib/process"
	"github.com/gobang-foundation/gobang/lib/record"
	"github.com/gobang-foundation/gobang/lib/version"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		process.Fatal(err)
	}
}

func run(args []string, out io.Writer) error {
	var diagnostic, showVersion bool
	flagSet := pflag.NewFlagSet("gobang-record", pflag.ContinueOnError)
	flagSet.BoolVar(&diagnostic, "diagnostic", false, "print CBOR diagnostic notation instead of a listing")
	flagSet.BoolVar(&showVersion, "version", false, "print version information and exit")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if showVersion {
		fmt.Fprintf(out, "gobang-record %s\n", version.Info())
		return nil
	}

	paths := flagSet.Args()
	if len(paths) == 0 {
		return errors.New("usage: gobang-record [--diagnostic] FILE...")
	}

	for index, path := range paths {
		if index > 0 {
			fmt.Fprintln(out)
		}
		if err := show(out, path, diagnostic); err != nil {
			return err
		}
	}
	return nil
}

func show(out io.Writer, path string, diagnostic bool) error {
	match, digest, err := record.ReadFile(path)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s  %s\n", digest, path)

	if !diagnostic {
		return match.WriteText(out)
	}
	encoded, _, err := record.Encode(match)
	if err != nil {
		return err
	}
	notation, err := codec.Diagnose(encoded)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	_, err = fmt.Fprintln(out, notation)
	return err
}
