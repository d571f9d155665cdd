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

package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/SnellerInc/khuff"
	"github.com/SnellerInc/khuff/huffman"
)

var hsizes = []byte{'K', 'M', 'G', 'T', 'P', 'E'}

func human(size int64) string {
	dec := int64(0)
	trail := -1
	for size >= 1024 {
		trail++
		dec = ((size%1024)*1000 + 512) / 1024
		size /= 1024
	}
	if trail < 0 {
		return fmt.Sprintf("%d", size)
	}
	return fmt.Sprintf("%d.%03d %ciB", size, dec, hsizes[trail])
}

func printStats(s *huffman.Stats) {
	fmt.Printf("  radix:    %d (%d-bit digits)\n", s.Radix, huffman.DigitWidth(s.Radix))
	fmt.Printf("  symbols:  %d (+%d padding)\n", s.Symbols, s.Padding)
	fmt.Printf("  input:    %s\n", human(int64(s.Total)))
	fmt.Printf("  encoded:  %s (ratio %.3f)\n", human(int64(s.EncodedBytes)), s.Ratio())
	fmt.Printf("  entropy:  %.4f bits/symbol\n", s.Entropy)
	fmt.Printf("  avg len:  %.4f digits/symbol, %.4f bits/symbol\n", s.AvgLen, s.AvgBits)
}

func compress(c *khuff.Config, in, out string) {
	r, err := khuff.Compress(in, out, c.Radix, options(c)...)
	if err != nil {
		exitf("%s", err)
	}
	if c.Verbose {
		logf("%s -> %s: %s -> %s, fingerprint %016x", r.Input, r.Output,
			human(r.InputBytes), human(r.OutputBytes), r.Fingerprint)
		printStats(&r.Stats)
	}
}

func decompress(c *khuff.Config, in, out string) {
	opts := options(c)
	if dashk != 0 {
		opts = append(opts, khuff.WithRadix(dashk))
	}
	r, err := khuff.Decompress(in, out, opts...)
	if err != nil {
		exitf("%s", err)
	}
	if c.Verbose {
		logf("%s -> %s: %s -> %s, fingerprint %016x", r.Input, r.Output,
			human(r.InputBytes), human(r.OutputBytes), r.Fingerprint)
	}
}

func stat(path string) {
	f, err := os.Open(path)
	if err != nil {
		exitf("%s", err)
	}
	defer f.Close()
	m, err := huffman.NewDecoder(f).Model()
	if err != nil {
		exitf("%s: %s", path, err)
	}
	s := m.Measure()
	fmt.Printf("%s:\n", path)
	printStats(&s)
}

func bench(c *khuff.Config, path string) {
	src, err := os.ReadFile(path)
	if err != nil {
		exitf("%s", err)
	}
	res, err := khuff.Bench(src, c.Bench)
	if err != nil {
		exitf("%s", err)
	}
	tw := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintf(tw, "codec\tsize\tratio\tencode\tdecode\n")
	for i := range res {
		r := &res[i]
		fmt.Fprintf(tw, "%s\t%s\t%.3f\t%s\t%s\n", r.Name, human(int64(r.Size)),
			r.Ratio(len(src)), r.Encode, r.Decode)
	}
	tw.Flush()
}
