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
	"encoding/binary"
	"io"
)

// Header layout; all integers are little-endian.
//
//	radix          u8
//	count          u32   number of decoded bytes
//	entries        u32   number of frequency entries
//	entries × {
//	  symbol       u8
//	  frequency    u32
//	}
//
// The payload follows the last entry and runs
// to the end of the artifact.
const (
	headerFixedSize = 1 + 4 + 4
	headerEntrySize = 1 + 4
	// HeaderMaxSize is the size of a header
	// describing all 256 byte values.
	HeaderMaxSize = headerFixedSize + 256*headerEntrySize
)

// Header is everything needed, besides the
// payload, to rebuild the tree of an artifact.
type Header struct {
	// Radix is the arity of the tree.
	Radix int
	// Count is the number of symbols encoded.
	Count uint32
	// Freq is the frequency table of the input.
	Freq FrequencyTable
}

// Size returns the encoded size of h.
func (h *Header) Size() int {
	return headerFixedSize + h.Freq.Len()*headerEntrySize
}

// AppendTo appends the encoded form of h to dst.
// Entries are written in ascending symbol order.
func (h *Header) AppendTo(dst []byte) []byte {
	syms := h.Freq.Symbols()
	dst = append(dst, byte(h.Radix))
	dst = binary.LittleEndian.AppendUint32(dst, h.Count)
	dst = binary.LittleEndian.AppendUint32(dst, uint32(len(syms)))
	for _, s := range syms {
		dst = append(dst, s)
		dst = binary.LittleEndian.AppendUint32(dst, h.Freq.Count(s))
	}
	return dst
}

// ParseHeader decodes the header at the start
// of src and returns it along with the payload
// that follows it.
func ParseHeader(src []byte) (Header, []byte, error) {
	var h Header
	if len(src) < headerFixedSize {
		return h, nil, formatf(ErrHeader, 0, "%d bytes is too short for a header", len(src))
	}
	h.Radix = int(src[0])
	if h.Radix < MinRadix {
		return h, nil, formatf(ErrHeader, 0, "radix %d", h.Radix)
	}
	h.Count = binary.LittleEndian.Uint32(src[1:])
	entries := binary.LittleEndian.Uint32(src[5:])
	if entries > 256 {
		return h, nil, formatf(ErrHeader, 5, "%d frequency entries", entries)
	}
	body := src[headerFixedSize:]
	if need := int(entries) * headerEntrySize; len(body) < need {
		return h, nil, formatf(ErrHeader, headerFixedSize, "%d entries need %d bytes; have %d", entries, need, len(body))
	}
	var sum uint64
	for i := 0; i < int(entries); i++ {
		off := int64(headerFixedSize + i*headerEntrySize)
		sym := body[0]
		freq := binary.LittleEndian.Uint32(body[1:])
		body = body[headerEntrySize:]
		if freq == 0 {
			return h, nil, formatf(ErrHeader, off, "zero frequency for symbol %#x", sym)
		}
		if h.Freq.Count(sym) != 0 {
			return h, nil, formatf(ErrHeader, off, "duplicate symbol %#x", sym)
		}
		h.Freq.Set(sym, freq)
		sum += uint64(freq)
	}
	if sum != uint64(h.Count) {
		return h, nil, formatf(ErrHeader, 1, "frequencies sum to %d; count is %d", sum, h.Count)
	}
	return h, body, nil
}

// ReadHeader reads and decodes a header from r,
// consuming exactly the header bytes.
func ReadHeader(r io.Reader) (Header, error) {
	buf := make([]byte, headerFixedSize, HeaderMaxSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return Header{}, truncatedHeader(err, 0)
	}
	entries := binary.LittleEndian.Uint32(buf[5:])
	if entries <= 256 {
		buf = buf[:headerFixedSize+int(entries)*headerEntrySize]
		if _, err := io.ReadFull(r, buf[headerFixedSize:]); err != nil {
			return Header{}, truncatedHeader(err, headerFixedSize)
		}
	}
	h, _, err := ParseHeader(buf)
	return h, err
}

func truncatedHeader(err error, off int64) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return formatf(ErrHeader, off, "unexpected end of header")
	}
	return err
}
