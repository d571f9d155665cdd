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

// Package khuff compresses and decompresses
// files with the k-ary Huffman codec.
//
// Compress and Decompress never leave a partial
// output file behind: output is written to a
// temporary file beside the destination and
// renamed into place only once it is complete.
package khuff

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"hash"
	"io"
	"log"
	"os"

	"github.com/dchest/siphash"
	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"

	"github.com/SnellerInc/khuff/huffman"
)

// IOError is returned when an input cannot be
// read or an output cannot be written.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("khuff: %s %s: %s", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// ErrVerify is returned by Compress with
// WithVerify when the written artifact does
// not decode to the original input.
var ErrVerify = errors.New("khuff: artifact does not decode to its input")

// Option configures Compress and Decompress.
type Option func(o *options)

type options struct {
	logger *log.Logger
	radix  int
	verify bool
}

// WithLogger is an option that makes
// Compress and Decompress log diagnostics
// to l. Without a logger nothing is logged.
func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithRadix sets the radix the caller expects
// a file to have been compressed with. It is
// advisory: Decompress always uses the radix
// stored in the file, and logs a mismatch.
func WithRadix(k int) Option {
	return func(o *options) {
		o.radix = k
	}
}

// WithVerify makes Compress decode the
// artifact it has written and compare its
// digest against the input before committing.
func WithVerify(v bool) Option {
	return func(o *options) {
		o.verify = v
	}
}

func (o *options) logf(f string, args ...any) {
	if o.logger != nil {
		o.logger.Printf(f, args...)
	}
}

// Report describes one Compress or Decompress run.
type Report struct {
	Input, Output string
	// InputBytes and OutputBytes are the file sizes.
	InputBytes, OutputBytes int64
	// Stats are the model statistics.
	Stats huffman.Stats
	// Fingerprint is a SipHash of the
	// uncompressed data, so the reports of
	// Compress and Decompress for the same
	// data carry the same fingerprint.
	Fingerprint uint64
	// Verified is set when WithVerify was
	// used and the artifact decoded correctly.
	Verified bool
}

var fingerprintKey [16]byte

func newFingerprint() hash.Hash64 { return siphash.New(fingerprintKey[:]) }

// Compress encodes the file at inputPath with
// radix k and writes the artifact to outputPath.
//
// A bad radix is reported as a *huffman.ConfigError
// before any file is touched. Failures to read the
// input or write the output are reported as *IOError.
func Compress(inputPath, outputPath string, k int, opt ...Option) (*Report, error) {
	if err := huffman.CheckRadix(k); err != nil {
		return nil, err
	}
	var o options
	for _, fn := range opt {
		fn(&o)
	}
	in, err := openInput(inputPath)
	if err != nil {
		return nil, err
	}
	defer in.close(&o)

	rep := &Report{Input: inputPath, Output: outputPath, InputBytes: in.size}
	fp := newFingerprint()
	if _, err := io.Copy(fp, in.section()); err != nil {
		return nil, &IOError{Op: "read", Path: inputPath, Err: err}
	}
	rep.Fingerprint = fp.Sum64()

	out, err := createOutput(outputPath)
	if err != nil {
		return nil, err
	}
	defer out.abort()

	src := &trackedReader{r: in.section()}
	dst := &trackedWriter{w: out.f}
	enc, err := huffman.NewEncoder(dst, k)
	if err != nil {
		return nil, err
	}
	m, n, err := enc.EncodeFrom(src)
	if err != nil {
		switch {
		case dst.err != nil:
			return nil, &IOError{Op: "write", Path: out.tmp, Err: dst.err}
		case src.err != nil:
			return nil, &IOError{Op: "read", Path: inputPath, Err: src.err}
		}
		return nil, err
	}
	rep.OutputBytes = n
	rep.Stats = m.Measure()
	o.logf("%s: %d bytes, %d symbols, k=%d, %d padding leaves", inputPath, in.size, rep.Stats.Symbols, k, rep.Stats.Padding)

	if o.verify {
		if err := verify(&o, in, out); err != nil {
			return nil, err
		}
		rep.Verified = true
	}
	if err := out.commit(); err != nil {
		return nil, err
	}
	return rep, nil
}

// verify decodes the artifact being written
// to out and compares its BLAKE2b digest
// with the digest of in.
func verify(o *options, in *input, out *output) error {
	want, _ := blake2b.New256(nil)
	if _, err := io.Copy(want, in.section()); err != nil {
		return &IOError{Op: "read", Path: in.path, Err: err}
	}
	if _, err := out.f.Seek(0, io.SeekStart); err != nil {
		return &IOError{Op: "seek", Path: out.tmp, Err: err}
	}
	got, _ := blake2b.New256(nil)
	dec := huffman.NewDecoder(bufio.NewReader(out.f))
	if _, err := dec.WriteTo(got); err != nil {
		return fmt.Errorf("%w: %s", ErrVerify, err)
	}
	if !bytes.Equal(want.Sum(nil), got.Sum(nil)) {
		return ErrVerify
	}
	o.logf("%s: verified %x", out.path, got.Sum(nil)[:8])
	return nil
}

// Decompress decodes the artifact at inputPath
// and writes the original data to outputPath.
// The radix stored in the artifact is used
// regardless of WithRadix.
//
// A malformed or corrupt artifact is reported
// as a *huffman.FormatError, and no output
// file is left behind.
func Decompress(inputPath, outputPath string, opt ...Option) (*Report, error) {
	var o options
	for _, fn := range opt {
		fn(&o)
	}
	in, err := openInput(inputPath)
	if err != nil {
		return nil, err
	}
	defer in.close(&o)

	src := &trackedReader{r: in.section()}
	dec := huffman.NewDecoder(bufio.NewReader(src))
	m, err := dec.Model()
	if err != nil {
		if src.err != nil {
			return nil, &IOError{Op: "read", Path: inputPath, Err: src.err}
		}
		return nil, err
	}
	if o.radix != 0 && o.radix != m.Radix {
		o.logf("%s: compressed with k=%d, not k=%d; using k=%d", inputPath, m.Radix, o.radix, m.Radix)
	}

	out, err := createOutput(outputPath)
	if err != nil {
		return nil, err
	}
	defer out.abort()

	fp := newFingerprint()
	tw := &trackedWriter{w: out.f}
	bw := bufio.NewWriter(tw)
	n, err := dec.WriteTo(io.MultiWriter(bw, fp))
	if err == nil {
		err = bw.Flush()
	}
	if err != nil {
		switch {
		case tw.err != nil:
			return nil, &IOError{Op: "write", Path: out.tmp, Err: tw.err}
		case src.err != nil:
			return nil, &IOError{Op: "read", Path: inputPath, Err: src.err}
		}
		return nil, err
	}
	if err := out.commit(); err != nil {
		return nil, err
	}
	o.logf("%s: decoded %d bytes with k=%d", inputPath, n, m.Radix)
	return &Report{
		Input:       inputPath,
		Output:      outputPath,
		InputBytes:  in.size,
		OutputBytes: n,
		Stats:       m.Measure(),
		Fingerprint: fp.Sum64(),
	}, nil
}

// trackedReader and trackedWriter remember
// the first I/O error they pass through, so
// that codec errors can be told apart from
// file errors.
type trackedReader struct {
	r   io.ReadSeeker
	err error
}

func (t *trackedReader) Read(p []byte) (int, error) {
	n, err := t.r.Read(p)
	if err != nil && err != io.EOF && t.err == nil {
		t.err = err
	}
	return n, err
}

func (t *trackedReader) Seek(off int64, whence int) (int64, error) {
	n, err := t.r.Seek(off, whence)
	if err != nil && t.err == nil {
		t.err = err
	}
	return n, err
}

type trackedWriter struct {
	w   io.Writer
	err error
}

func (t *trackedWriter) Write(p []byte) (int, error) {
	n, err := t.w.Write(p)
	if err != nil && t.err == nil {
		t.err = err
	}
	return n, err
}

// input is an open input file, mapped
// into memory when possible.
type input struct {
	path string
	f    *os.File
	size int64
	mem  []byte
}

func openInput(path string) (*input, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &IOError{Op: "open", Path: path, Err: err}
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, &IOError{Op: "stat", Path: path, Err: err}
	}
	if info.IsDir() {
		f.Close()
		return nil, &IOError{Op: "open", Path: path, Err: errors.New("is a directory")}
	}
	in := &input{path: path, f: f, size: info.Size()}
	if MapLimit == 0 || in.size <= MapLimit {
		in.mem, _ = mmap(f, in.size)
	}
	return in, nil
}

// section returns a fresh reader over
// the whole input.
func (in *input) section() io.ReadSeeker {
	if in.mem != nil {
		return bytes.NewReader(in.mem)
	}
	return io.NewSectionReader(in.f, 0, in.size)
}

func (in *input) close(o *options) {
	if in.mem != nil {
		if err := unmap(in.mem); err != nil {
			o.logf("%s: munmap: %s", in.path, err)
		}
		in.mem = nil
	}
	in.f.Close()
}

// output is a temporary file that replaces
// path when committed.
type output struct {
	path, tmp string
	f         *os.File
	done      bool
}

func createOutput(path string) (*output, error) {
	tmp := path + "." + uuid.NewString() + ".tmp"
	f, err := os.OpenFile(tmp, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return nil, &IOError{Op: "create", Path: path, Err: err}
	}
	return &output{path: path, tmp: tmp, f: f}, nil
}

func (o *output) commit() error {
	if err := o.f.Sync(); err != nil {
		return &IOError{Op: "sync", Path: o.tmp, Err: err}
	}
	if err := o.f.Close(); err != nil {
		return &IOError{Op: "close", Path: o.tmp, Err: err}
	}
	if err := os.Rename(o.tmp, o.path); err != nil {
		os.Remove(o.tmp)
		o.done = true
		return &IOError{Op: "rename", Path: o.path, Err: err}
	}
	o.done = true
	return nil
}

// abort removes the temporary file unless
// commit has already run.
func (o *output) abort() {
	if o.done {
		return
	}
	o.f.Close()
	os.Remove(o.tmp)
	o.done = true
}
