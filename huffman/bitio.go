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
	"errors"
	"io"

	"github.com/icza/bitio"

	"github.com/SnellerInc/khuff/ints"
)

// DigitWidth returns the number of bits used
// to store one base-k digit, ceil(log2(k)).
func DigitWidth(k int) uint8 { return ints.BitsFor(k) }

// digitWriter packs digits into fixed-width
// groups, most significant bit first. The final
// partial byte is padded with zero bits on Close.
type digitWriter struct {
	bw    *bitio.Writer
	width uint8
	bits  uint64
}

func newDigitWriter(w io.Writer, k int) *digitWriter {
	return &digitWriter{
		bw:    bitio.NewWriter(w),
		width: DigitWidth(k),
	}
}

func (d *digitWriter) writeCode(c Code) error {
	for _, v := range c {
		if err := d.bw.WriteBits(uint64(v), d.width); err != nil {
			return err
		}
	}
	d.bits += uint64(len(c)) * uint64(d.width)
	return nil
}

// Close flushes the partial byte, if any.
// It does not close the underlying writer.
func (d *digitWriter) Close() error {
	return d.bw.Close()
}

// digitReader unpacks the digits written
// by a digitWriter.
type digitReader struct {
	br    *bitio.Reader
	width uint8
	base  int64 // artifact offset of the first payload byte
	bits  uint64
}

func newDigitReader(r io.Reader, k int, base int64) *digitReader {
	return &digitReader{
		br:    bitio.NewReader(r),
		width: DigitWidth(k),
		base:  base,
	}
}

func (d *digitReader) offset() int64 {
	return d.base + int64(d.bits/8)
}

func (d *digitReader) next() (uint64, error) {
	v, err := d.br.ReadBits(d.width)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return 0, formatf(ErrTruncated, d.offset(), "payload ended")
		}
		return 0, err
	}
	d.bits += uint64(d.width)
	return v, nil
}

// decode walks t once per symbol, appending
// n decoded symbols to dst. Every walk starts
// at the root, so decode can be called repeatedly
// to decode a payload in pieces.
func (t *Tree) decode(d *digitReader, dst []byte, n int) ([]byte, error) {
	if t.isLeaf(t.root) {
		sym := t.nodes[t.root].sym
		for i := 0; i < n; i++ {
			dst = append(dst, sym)
		}
		return dst, nil
	}
	for i := 0; i < n; i++ {
		cur := t.root
		for !t.isLeaf(cur) {
			v, err := d.next()
			if err != nil {
				return dst, err
			}
			next, ok := t.child(cur, v)
			if !ok {
				return dst, formatf(ErrCorrupt, d.offset(), "digit %d with radix %d", v, t.radix)
			}
			cur = next
		}
		nd := &t.nodes[cur]
		if nd.kind == padNode {
			return dst, formatf(ErrCorrupt, d.offset(), "code resolves to a padding leaf")
		}
		dst = append(dst, nd.sym)
	}
	return dst, nil
}
