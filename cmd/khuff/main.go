// Copyright 2023 Sneller, Inc.
//
//  Licensed under the Apache License, Version 2.0 (the "License");
//  you may not use this file except in compliance with the License.
//  You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
//  Unless required by applicable law or agreed to in writing, software
//  distributed under the License is distributed on an "AS IS" BASIS,
//  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//  See the License for the specific language governing permissions and
//  limitations under the License.

// Command khuff compresses files with a
// k-ary Huffman code.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/SnellerInc/khuff"
)

var (
	dashv      bool
	dashh      bool
	dashverify bool
	dashk      int
	dasho      string
	dashconfig string
)

func init() {
	flag.BoolVar(&dashv, "v", false, "verbose")
	flag.BoolVar(&dashh, "h", false, "show usage help")
	flag.BoolVar(&dashverify, "verify", false, "decode each compressed file before keeping it")
	flag.IntVar(&dashk, "k", 0, "tree arity (default 2, or the config file radix)")
	flag.StringVar(&dasho, "o", "", "output file")
	flag.StringVar(&dashconfig, "config", "", "YAML or JSON config file")
}

func exitf(f string, args ...interface{}) {
	if f[len(f)-1] != '\n' {
		f += "\n"
	}
	fmt.Fprintf(os.Stderr, f, args...)
	os.Exit(1)
}

func logf(f string, args ...interface{}) {
	if f[len(f)-1] != '\n' {
		f += "\n"
	}
	fmt.Fprintf(os.Stderr, f, args...)
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage:\n")
	fmt.Fprintf(os.Stderr, "    %s [-k <radix>] [-o <output>] [-verify] c <file>\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "        compress a file\n")
	fmt.Fprintf(os.Stderr, "    %s [-o <output>] d <file>\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "        decompress a file\n")
	fmt.Fprintf(os.Stderr, "    %s stat <file>...\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "        describe compressed files\n")
	fmt.Fprintf(os.Stderr, "    %s bench <file>\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "        compare codecs on a file\n")
	fmt.Fprintf(os.Stderr, "flag usage:\n")
	flag.PrintDefaults()
	os.Exit(1)
}

// config merges the config file, if any,
// with the command-line flags.
func config() *khuff.Config {
	c := khuff.DefaultConfig()
	if dashconfig != "" {
		var err error
		c, err = khuff.LoadConfig(dashconfig)
		if err != nil {
			exitf("%s", err)
		}
	}
	if dashk != 0 {
		c.Radix = dashk
	}
	if dashv {
		c.Verbose = true
	}
	if dashverify {
		c.Verify = true
	}
	if err := c.Validate(); err != nil {
		exitf("%s", err)
	}
	return c
}

func options(c *khuff.Config) []khuff.Option {
	opts := c.Options()
	if c.Verbose {
		opts = append(opts, khuff.WithLogger(log.New(os.Stderr, "khuff: ", 0)))
	}
	return opts
}

// outputName picks the default output
// path for compressing or decompressing in.
func outputName(in string, compress bool, suffix string) string {
	if compress {
		return in + suffix
	}
	if trimmed, ok := strings.CutSuffix(in, suffix); ok && trimmed != "" {
		return trimmed
	}
	return in + ".out"
}

func main() {
	flag.Parse()
	args := flag.Args()
	if dashh || len(args) == 0 {
		usage()
	}
	c := config()
	switch args[0] {
	case "c", "compress":
		if len(args) != 2 {
			exitf("usage: c <file>")
		}
		out := dasho
		if out == "" {
			out = outputName(args[1], true, c.Suffix)
		}
		compress(c, args[1], out)
	case "d", "decompress":
		if len(args) != 2 {
			exitf("usage: d <file>")
		}
		out := dasho
		if out == "" {
			out = outputName(args[1], false, c.Suffix)
		}
		decompress(c, args[1], out)
	case "stat":
		if len(args) < 2 {
			exitf("usage: stat <file>...")
		}
		for _, arg := range args[1:] {
			stat(arg)
		}
	case "bench":
		if len(args) != 2 {
			exitf("usage: bench <file>")
		}
		bench(c, args[1])
	default:
		exitf("commands: c, d, stat, bench")
	}
}
