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
)

// Entropy returns the Shannon entropy of ft
// in bits per symbol. An empty table has
// zero entropy.
func Entropy(ft *FrequencyTable) float64 {
	total := float64(ft.Total())
	if total == 0 {
		return 0
	}
	h := 0.0
	for _, s := range ft.Symbols() {
		p := float64(ft.Count(s)) / total
		h -= p * math.Log2(p)
	}
	return h
}

// EntropyRadix returns the Shannon entropy
// of ft in base-k digits per symbol, which
// is the lower bound on AverageLength for
// any prefix-free code over k digits.
func EntropyRadix(ft *FrequencyTable, k int) float64 {
	return Entropy(ft) / math.Log2(float64(k))
}

// AverageLength returns the expected code
// length of ct, in digits per symbol, under
// the distribution ft. Symbols without a code
// contribute nothing.
func AverageLength(ft *FrequencyTable, ct *CodeTable) float64 {
	total := float64(ft.Total())
	if total == 0 {
		return 0
	}
	avg := 0.0
	for _, s := range ft.Symbols() {
		c, ok := ct.Lookup(s)
		if !ok {
			continue
		}
		avg += float64(ft.Count(s)) / total * float64(len(c))
	}
	return avg
}

// Stats summarizes a model for reporting.
// It plays no part in encoding or decoding.
type Stats struct {
	Radix   int
	Symbols int     // distinct symbols
	Padding int     // padding leaves
	Total   uint64  // input bytes
	Entropy float64 // bits per symbol
	// AvgLen is the mean code length in digits.
	AvgLen float64
	// AvgBits is the mean number of payload
	// bits per symbol, AvgLen times the digit width.
	AvgBits float64
	// PayloadBytes is the packed payload size.
	PayloadBytes int
	// EncodedBytes is the header plus payload size.
	EncodedBytes int
}

// Measure computes the statistics of m.
func (m *Model) Measure() Stats {
	s := Stats{
		Radix:   m.Radix,
		Symbols: m.Freq.Len(),
		Total:   m.Freq.Total(),
		Entropy: Entropy(&m.Freq),
		AvgLen:  AverageLength(&m.Freq, &m.Codes),
	}
	if m.Tree != nil {
		s.Padding = m.Tree.Padding()
	}
	s.AvgBits = s.AvgLen * float64(DigitWidth(m.Radix))
	s.PayloadBytes = m.PayloadSize()
	h := m.Header()
	s.EncodedBytes = h.Size() + s.PayloadBytes
	return s
}

// Ratio returns the encoded size as a
// fraction of the input size.
func (s *Stats) Ratio() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.EncodedBytes) / float64(s.Total)
}
