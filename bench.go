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

package khuff

import (
	"bytes"
	"fmt"
	"time"

	"github.com/SnellerInc/khuff/compr"
)

// BenchResult is the outcome of
// one codec in Bench.
type BenchResult struct {
	Name   string
	Size   int
	Encode time.Duration
	Decode time.Duration
}

// Ratio returns the compressed size
// as a fraction of n.
func (b *BenchResult) Ratio(n int) float64 {
	if n == 0 {
		return 0
	}
	return float64(b.Size) / float64(n)
}

// Bench compresses src with each named codec,
// checks that it decompresses back to src,
// and reports sizes and timings.
func Bench(src []byte, names []string) ([]BenchResult, error) {
	if len(src) == 0 {
		return nil, fmt.Errorf("nothing to benchmark")
	}
	out := make([]BenchResult, 0, len(names))
	dst := make([]byte, len(src))
	for _, name := range names {
		comp := compr.Compression(name)
		if comp == nil {
			return out, fmt.Errorf("unknown codec %q", name)
		}
		dec := compr.Decompression(comp.Name())
		if dec == nil {
			return out, fmt.Errorf("no decompressor for %q", comp.Name())
		}
		start := time.Now()
		cmp := comp.Compress(src, nil)
		mid := time.Now()
		if err := dec.Decompress(cmp, dst); err != nil {
			return out, fmt.Errorf("%s: %w", name, err)
		}
		end := time.Now()
		if !bytes.Equal(dst, src) {
			return out, fmt.Errorf("%s: round-trip mismatch", name)
		}
		out = append(out, BenchResult{
			Name:   name,
			Size:   len(cmp),
			Encode: mid.Sub(start),
			Decode: end.Sub(mid),
		})
	}
	return out, nil
}
