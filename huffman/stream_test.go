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
	"bytes"
	"errors"
	"io"
	"math/rand"
	"testing"
)

func TestStreamMatchesEncode(t *testing.T) {
	big := make([]byte, 3*streamChunkSize+123)
	rng := rand.New(rand.NewSource(5))
	for i := range big {
		big[i] = byte(rng.Intn(7) * rng.Intn(7))
	}
	inputs := corpora()
	inputs["big"] = big
	for name, src := range inputs {
		for _, k := range []int{2, 3, 5, 16} {
			want, err := Encode(nil, src, k)
			if err != nil {
				t.Fatal(err)
			}
			var out bytes.Buffer
			enc, err := NewEncoder(&out, k)
			if err != nil {
				t.Fatal(err)
			}
			m, n, err := enc.EncodeFrom(bytes.NewReader(src))
			if err != nil {
				t.Fatalf("%s k=%d: %v", name, k, err)
			}
			if n != int64(out.Len()) {
				t.Fatalf("%s k=%d: reported %d bytes, wrote %d", name, k, n, out.Len())
			}
			if !bytes.Equal(out.Bytes(), want) {
				t.Fatalf("%s k=%d: stream encoding differs from Encode", name, k)
			}
			if st := m.Measure(); st.EncodedBytes != len(want) {
				t.Fatalf("%s k=%d: Measure() predicts %d bytes, got %d", name, k, st.EncodedBytes, len(want))
			}

			var dec bytes.Buffer
			d := NewDecoder(bytes.NewReader(out.Bytes()))
			dm, err := d.Model()
			if err != nil {
				t.Fatal(err)
			}
			if dm.Radix != k || !dm.Codes.Equal(&m.Codes) {
				t.Fatalf("%s k=%d: decoder model differs from encoder model", name, k)
			}
			nw, err := d.WriteTo(&dec)
			if err != nil {
				t.Fatalf("%s k=%d: %v", name, k, err)
			}
			if nw != int64(len(src)) || !bytes.Equal(dec.Bytes(), src) {
				t.Fatalf("%s k=%d: stream round-trip mismatch", name, k)
			}
		}
	}
}

func TestEncoderOffset(t *testing.T) {
	src := bytes.NewReader([]byte("skip:payload"))
	src.Seek(5, io.SeekStart)
	var out bytes.Buffer
	enc, err := NewEncoder(&out, 2)
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := enc.EncodeFrom(src); err != nil {
		t.Fatal(err)
	}
	dec, err := Decode(nil, out.Bytes())
	if err != nil || string(dec) != "payload" {
		t.Fatalf("got %q, %v", dec, err)
	}
}

func TestDecoderErrors(t *testing.T) {
	_, err := NewDecoder(bytes.NewReader([]byte{2, 1, 0})).WriteTo(io.Discard)
	if !errors.Is(err, ErrHeader) {
		t.Fatalf("short header: got %v", err)
	}
	enc, _ := Encode(nil, []byte("abcabcabc"), 2)
	_, err = NewDecoder(bytes.NewReader(enc[:len(enc)-1])).WriteTo(io.Discard)
	if !errors.Is(err, ErrTruncated) {
		t.Fatalf("truncated payload: got %v", err)
	}
	if _, err := NewEncoder(io.Discard, 1); err == nil {
		t.Fatal("expected error for radix 1")
	}
}

// shrinkingReader reports fewer bytes
// after the first pass has counted them.
type shrinkingReader struct {
	*bytes.Reader
}

func (s *shrinkingReader) Seek(off int64, whence int) (int64, error) {
	if whence == io.SeekStart {
		s.Reader = bytes.NewReader([]byte("ab"))
	}
	return s.Reader.Seek(off, whence)
}

func TestEncoderInputChanged(t *testing.T) {
	src := &shrinkingReader{Reader: bytes.NewReader([]byte("abcabc"))}
	enc, _ := NewEncoder(io.Discard, 2)
	if _, _, err := enc.EncodeFrom(src); err == nil {
		t.Fatal("expected an error when the input shrinks")
	}
}
