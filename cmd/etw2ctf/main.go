// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command etw2ctf converts a recorded ETW trace into a CTF trace
// directory (§6).
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/google/etw2ctf/ctf"
	"github.com/google/etw2ctf/ctfio"
	_ "github.com/google/etw2ctf/dissector/chrome"
	"github.com/google/etw2ctf/etwprovider/synthetic"
	"github.com/google/etw2ctf/observer/symbolinfo"
	"github.com/google/etw2ctf/pipeline"
)

const defaultPacketSize = 64 * 1024

func main() {
	ctf.RegisterObserver(symbolinfo.New(nil))

	if err := run(os.Args[1:]); err != nil {
		logrus.WithError(err).Error("conversion failed")
		os.Exit(-1)
	}
}

func run(args []string) error {
	flags := pflag.NewFlagSet("etw2ctf", pflag.ContinueOnError)
	output := flags.StringP("output", "o", "", "output CTF trace directory (required)")
	overwrite := flags.Bool("overwrite", false, "if the output directory already exists, delete its top-level files (subdirectories are kept)")
	splitBuffer := flags.Bool("split-buffer", false, "write one stream file per input buffer instead of one combined stream")
	packetSize := flags.Int("packet-size", defaultPacketSize, "maximum size, in bytes, of one CTF packet")
	verbose := flags.BoolP("verbose", "v", false, "enable debug logging")
	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: etw2ctf [flags] <trace>\n\n")
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	if *verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	if *output == "" {
		return errors.New("etw2ctf: --output is required")
	}
	if flags.NArg() != 1 {
		flags.Usage()
		return errors.New("etw2ctf: exactly one trace argument is required")
	}
	if *packetSize <= 0 {
		return errors.New("etw2ctf: --packet-size must be positive")
	}

	return convert(flags.Arg(0), *output, *overwrite, *splitBuffer, *packetSize)
}

func convert(input, output string, overwrite, splitBuffer bool, packetSize int) error {
	f, err := os.Open(input)
	if err != nil {
		return errors.Wrap(err, "etw2ctf: opening trace")
	}
	defer f.Close()

	provider, err := synthetic.Load(f)
	if err != nil {
		return errors.Wrap(err, "etw2ctf: loading trace")
	}

	out, err := ctfio.Create(output, overwrite)
	if err != nil {
		return errors.Wrap(err, "etw2ctf: creating output directory")
	}

	driver := pipeline.New(provider, out, pipeline.Config{
		PacketSize:  packetSize,
		SplitBuffer: splitBuffer,
	})
	if err := driver.Run(context.Background(), input); err != nil {
		return errors.Wrap(err, "etw2ctf: conversion")
	}
	return nil
}
