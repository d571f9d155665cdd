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
	"fmt"
)

var (
	// ErrHeader is wrapped by a FormatError
	// when the artifact header is malformed.
	ErrHeader = errors.New("malformed header")
	// ErrCorrupt is wrapped by a FormatError
	// when a payload digit does not name a child
	// of the current tree node.
	ErrCorrupt = errors.New("bitstream corruption detected")
	// ErrTruncated is wrapped by a FormatError
	// when the payload ends before every symbol
	// declared in the header has been decoded.
	ErrTruncated = errors.New("out of input bits")
	// ErrTooLarge is returned when the input
	// holds more symbols than the header can count.
	ErrTooLarge = errors.New("input exceeds 2^32-1 bytes")
)

// FormatError describes a malformed or corrupt artifact.
// Decoding stops at the first FormatError.
type FormatError struct {
	// Offset is the byte offset into the artifact
	// at which the problem was detected, or -1
	// if the offset is not meaningful.
	Offset int64
	// Msg is additional detail.
	Msg string
	// Err is one of ErrHeader, ErrCorrupt or ErrTruncated.
	Err error
}

func (f *FormatError) Error() string {
	if f.Offset < 0 {
		return fmt.Sprintf("huffman: %s: %s", f.Err, f.Msg)
	}
	return fmt.Sprintf("huffman: %s at offset %d: %s", f.Err, f.Offset, f.Msg)
}

func (f *FormatError) Unwrap() error { return f.Err }

func formatf(sentinel error, off int64, f string, args ...any) error {
	return &FormatError{
		Offset: off,
		Msg:    fmt.Sprintf(f, args...),
		Err:    sentinel,
	}
}

// MinRadix and MaxRadix bound the tree arity.
// The upper bound comes from the one-byte
// radix field of the header.
const (
	MinRadix = 2
	MaxRadix = 255
)

// ConfigError is returned when a codec is
// configured with an unsupported radix.
// It is reported before any work is done.
type ConfigError struct {
	Radix int
}

func (c *ConfigError) Error() string {
	return fmt.Sprintf("huffman: radix %d outside supported range [%d, %d]", c.Radix, MinRadix, MaxRadix)
}

// CheckRadix returns a *ConfigError if k
// is not a usable tree arity.
func CheckRadix(k int) error {
	if k < MinRadix || k > MaxRadix {
		return &ConfigError{Radix: k}
	}
	return nil
}
