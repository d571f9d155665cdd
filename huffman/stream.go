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
	"bufio"
	"fmt"
	"io"

	"github.com/SnellerInc/khuff/ints"
)

const streamChunkSize = 64 * 1024

// Encoder writes artifacts to an io.Writer
// from seekable inputs, reading each input
// twice: once to count it and once to code it.
// Memory use is bounded by the chunk size
// regardless of the input size.
type Encoder struct {
	w     io.Writer
	radix int
	buf   []byte
}

// NewEncoder returns an Encoder writing
// artifacts with radix k to w.
func NewEncoder(w io.Writer, k int) (*Encoder, error) {
	if err := CheckRadix(k); err != nil {
		return nil, err
	}
	return &Encoder{w: w, radix: k}, nil
}

// EncodeFrom encodes the remainder of src,
// starting at its current offset, and returns
// the model used along with the number of bytes
// written.
func (e *Encoder) EncodeFrom(src io.ReadSeeker) (*Model, int64, error) {
	start, err := src.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, 0, err
	}
	if e.buf == nil {
		e.buf = make([]byte, streamChunkSize)
	}
	var ft FrequencyTable
	for {
		n, err := src.Read(e.buf)
		if n > 0 {
			if err := ft.Observe(e.buf[:n]); err != nil {
				return nil, 0, err
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, err
		}
	}
	m, err := NewModel(&ft, e.radix)
	if err != nil {
		return nil, 0, err
	}
	if _, err := src.Seek(start, io.SeekStart); err != nil {
		return nil, 0, err
	}

	cw := &countingWriter{w: e.w}
	bw := bufio.NewWriterSize(cw, streamChunkSize)
	h := m.Header()
	if _, err := bw.Write(h.AppendTo(nil)); err != nil {
		return nil, cw.n, err
	}
	if m.Tree != nil {
		if err := m.encodeStream(bw, src, e.buf); err != nil {
			return nil, cw.n, err
		}
	}
	err = bw.Flush()
	return m, cw.n, err
}

func (m *Model) encodeStream(w io.Writer, src io.Reader, buf []byte) error {
	dw := newDigitWriter(w, m.Radix)
	remaining := m.Freq.Total()
	for remaining > 0 {
		want := ints.Min(uint64(len(buf)), remaining)
		n, err := io.ReadFull(src, buf[:want])
		for _, b := range buf[:n] {
			c, ok := m.Codes.Lookup(b)
			if !ok {
				return fmt.Errorf("huffman: input changed between passes: symbol %#x not counted", b)
			}
			if err := dw.writeCode(c); err != nil {
				return err
			}
		}
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return fmt.Errorf("huffman: input shrank between passes: %d bytes missing", remaining-uint64(n))
		}
		if err != nil {
			return err
		}
		remaining -= uint64(n)
	}
	return dw.Close()
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// Decoder reads an artifact from an io.Reader.
type Decoder struct {
	r     io.Reader
	model *Model
	hdr   Header
	err   error
}

// NewDecoder returns a Decoder reading from r.
// Nothing is read until Model or WriteTo is called.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: r}
}

// Model reads the header, if it has not been
// read yet, and returns the model it describes.
// The radix stored in the header is always used.
func (d *Decoder) Model() (*Model, error) {
	if d.model != nil || d.err != nil {
		return d.model, d.err
	}
	d.hdr, d.err = ReadHeader(d.r)
	if d.err != nil {
		return nil, d.err
	}
	d.model, d.err = NewModel(&d.hdr.Freq, d.hdr.Radix)
	return d.model, d.err
}

// WriteTo decodes the payload into w and
// returns the number of bytes written.
// WriteTo implements io.WriterTo.
func (d *Decoder) WriteTo(w io.Writer) (int64, error) {
	m, err := d.Model()
	if err != nil {
		return 0, err
	}
	if m.Tree == nil {
		return 0, nil
	}
	dr := newDigitReader(d.r, m.Radix, int64(d.hdr.Size()))
	buf := make([]byte, 0, streamChunkSize)
	var written int64
	for remaining := int(d.hdr.Count); remaining > 0; {
		n := ints.Min(remaining, streamChunkSize)
		buf, err = m.Tree.decode(dr, buf[:0], n)
		if err != nil {
			return written, err
		}
		nw, err := w.Write(buf)
		written += int64(nw)
		if err != nil {
			return written, err
		}
		remaining -= n
	}
	return written, nil
}
