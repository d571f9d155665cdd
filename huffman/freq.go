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

package huffman

import (
	"math"

	"github.com/SnellerInc/khuff/ints"
)

// FrequencyTable counts the occurrences
// of each byte value in an input.
//
// The zero value is an empty table.
type FrequencyTable struct {
	counts [256]uint32
	total  uint64
}

// Histogram computes the frequency table of src.
func Histogram(src []byte) (FrequencyTable, error) {
	var ft FrequencyTable
	err := ft.Observe(src)
	return ft, err
}

// Observe adds the byte counts of src to f.
// Observe can be called repeatedly to count
// an input in chunks.
//
// Observe returns ErrTooLarge (and leaves f
// unchanged) if the total count would no longer
// fit in the 32-bit count field of the header.
func (f *FrequencyTable) Observe(src []byte) error {
	if f.total+uint64(len(src)) > math.MaxUint32 {
		return ErrTooLarge
	}
	// 4-way histogram to avoid store-to-load
	// forwarding stalls on runs of equal bytes
	var h [4][256]uint32
	n := uint(len(src))
	e := ints.AlignDown(n, 4)
	for i := uint(0); i < e; i += 4 {
		h[0][src[i+0]]++
		h[1][src[i+1]]++
		h[2][src[i+2]]++
		h[3][src[i+3]]++
	}
	for i := e; i < n; i++ {
		h[0][src[i]]++
	}
	for i := range f.counts {
		f.counts[i] += h[0][i] + h[1][i] + h[2][i] + h[3][i]
	}
	f.total += uint64(n)
	return nil
}

// Set sets the count of sym to n.
func (f *FrequencyTable) Set(sym byte, n uint32) {
	f.total -= uint64(f.counts[sym])
	f.counts[sym] = n
	f.total += uint64(n)
}

// Count returns the number of occurrences of sym.
func (f *FrequencyTable) Count(sym byte) uint32 { return f.counts[sym] }

// Total returns the sum of all counts.
func (f *FrequencyTable) Total() uint64 { return f.total }

// Len returns the number of distinct
// symbols with a non-zero count.
func (f *FrequencyTable) Len() int {
	n := 0
	for _, c := range f.counts {
		if c != 0 {
			n++
		}
	}
	return n
}

// Symbols returns the symbols with a non-zero
// count in ascending order.
func (f *FrequencyTable) Symbols() []byte {
	out := make([]byte, 0, 16)
	for i, c := range f.counts {
		if c != 0 {
			out = append(out, byte(i))
		}
	}
	return out
}

// Equal returns whether f and other hold
// identical counts.
func (f *FrequencyTable) Equal(other *FrequencyTable) bool {
	return f.counts == other.counts
}
