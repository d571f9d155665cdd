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

// Package huffman implements a k-ary Huffman codec.
//
// An input is modeled by its byte frequencies,
// from which a full k-ary tree is built with
// deterministic tie-breaking. Each symbol's code
// is its root-to-leaf path written as base-k digits,
// and each digit is stored in ceil(log2(k)) bits.
// Only the frequency table is persisted; the
// decoder rebuilds the identical tree from it.
package huffman

import (
	"bytes"
	"fmt"

	"golang.org/x/exp/slices"

	"github.com/SnellerInc/khuff/ints"
)

// Model holds the state shared by both
// sides of a run: the frequency table,
// the tree built from it and its codes.
type Model struct {
	Radix int
	Freq  FrequencyTable
	// Tree is nil for an empty input.
	Tree  *Tree
	Codes CodeTable
}

// NewModel builds the tree and code table
// for ft with radix k.
func NewModel(ft *FrequencyTable, k int) (*Model, error) {
	t, err := Build(ft, k)
	if err != nil {
		return nil, err
	}
	return &Model{
		Radix: k,
		Freq:  *ft,
		Tree:  t,
		Codes: Codes(t),
	}, nil
}

// PayloadBits returns the exact number of
// payload bits the model produces for its input.
func (m *Model) PayloadBits() uint64 {
	w := uint64(DigitWidth(m.Radix))
	var n uint64
	for _, s := range m.Freq.Symbols() {
		c, _ := m.Codes.Lookup(s)
		n += uint64(m.Freq.Count(s)) * uint64(len(c)) * w
	}
	return n
}

// PayloadSize returns the payload size in bytes.
func (m *Model) PayloadSize() int {
	return int(ints.ChunkCount(m.PayloadBits(), 8))
}

// Header returns the header describing m.
func (m *Model) Header() Header {
	return Header{
		Radix: m.Radix,
		Count: uint32(m.Freq.Total()),
		Freq:  m.Freq,
	}
}

// Encode appends the artifact encoding src
// with radix k to dst and returns the result.
func Encode(dst, src []byte, k int) ([]byte, error) {
	if err := CheckRadix(k); err != nil {
		return dst, err
	}
	ft, err := Histogram(src)
	if err != nil {
		return dst, err
	}
	m, err := NewModel(&ft, k)
	if err != nil {
		return dst, err
	}
	return m.Encode(dst, src)
}

// Encode appends the header of m and the
// payload for src to dst. The symbols of src
// must all have codes in m.
func (m *Model) Encode(dst, src []byte) ([]byte, error) {
	h := m.Header()
	dst = h.AppendTo(dst)
	if m.Tree == nil {
		return dst, nil
	}
	buf := bytes.NewBuffer(dst)
	buf.Grow(m.PayloadSize())
	dw := newDigitWriter(buf, m.Radix)
	for _, b := range src {
		c, ok := m.Codes.Lookup(b)
		if !ok {
			return dst, fmt.Errorf("huffman: symbol %#x has no code in the model", b)
		}
		if err := dw.writeCode(c); err != nil {
			return dst, err
		}
	}
	if err := dw.Close(); err != nil {
		return dst, err
	}
	return buf.Bytes(), nil
}

// Decode decodes the artifact src, appends the
// original bytes to dst and returns the result.
// Bytes following the last coded symbol are ignored.
func Decode(dst, src []byte) ([]byte, error) {
	h, payload, err := ParseHeader(src)
	if err != nil {
		return dst, err
	}
	m, err := NewModel(&h.Freq, h.Radix)
	if err != nil {
		return dst, err
	}
	if m.Tree == nil {
		return dst, nil
	}
	base := int64(len(src) - len(payload))
	dr := newDigitReader(bytes.NewReader(payload), h.Radix, base)
	// a multi-leaf tree spends at least one
	// digit per symbol, so a short payload
	// bounds the output without trusting Count
	n := int(h.Count)
	if !m.Tree.isLeaf(m.Tree.root) {
		n = ints.Min(n, len(payload)*8/int(DigitWidth(h.Radix)))
	}
	dst = slices.Grow(dst, n)
	return m.Tree.decode(dr, dst, int(h.Count))
}
