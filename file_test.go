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
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/SnellerInc/khuff/huffman"
)

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, data, 0644); err != nil {
		t.Fatal(err)
	}
	return p
}

// leftovers returns the temporary files in dir.
func leftovers(t *testing.T, dir string) []string {
	t.Helper()
	m, err := filepath.Glob(filepath.Join(dir, "*.tmp"))
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestFileRoundTrip(t *testing.T) {
	inputs := map[string][]byte{
		"empty":  nil,
		"single": []byte("aaaa"),
		"abc":    []byte("abcabcabc"),
		"text":   bytes.Repeat([]byte("it was the best of times, it was the worst of times; "), 500),
	}
	for name, data := range inputs {
		for _, k := range []int{2, 3, 4, 8} {
			dir := t.TempDir()
			in := writeFile(t, dir, name, data)
			cmp := in + ".huff"
			out := in + ".out"
			crep, err := Compress(in, cmp, k, WithVerify(true))
			if err != nil {
				t.Fatalf("%s k=%d: %v", name, k, err)
			}
			if !crep.Verified || crep.InputBytes != int64(len(data)) {
				t.Fatalf("%s k=%d: bad report %+v", name, k, crep)
			}
			info, err := os.Stat(cmp)
			if err != nil {
				t.Fatal(err)
			}
			if info.Size() != crep.OutputBytes || int(info.Size()) != crep.Stats.EncodedBytes {
				t.Fatalf("%s k=%d: file is %d bytes; report says %d/%d", name, k, info.Size(), crep.OutputBytes, crep.Stats.EncodedBytes)
			}
			drep, err := Decompress(cmp, out)
			if err != nil {
				t.Fatalf("%s k=%d: %v", name, k, err)
			}
			got, err := os.ReadFile(out)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(got, data) {
				t.Fatalf("%s k=%d: round-trip mismatch", name, k)
			}
			if drep.Fingerprint != crep.Fingerprint {
				t.Fatalf("%s k=%d: fingerprints differ", name, k)
			}
			if drep.Stats.Radix != k {
				t.Fatalf("%s k=%d: decoded with radix %d", name, k, drep.Stats.Radix)
			}
			if l := leftovers(t, dir); len(l) != 0 {
				t.Fatalf("temporary files left: %v", l)
			}
		}
	}
}

func TestFileStreamed(t *testing.T) {
	saved := MapLimit
	MapLimit = 1
	defer func() { MapLimit = saved }()

	dir := t.TempDir()
	data := bytes.Repeat([]byte("0123456789abcdef"), 10000)
	in := writeFile(t, dir, "in", data)
	if _, err := Compress(in, in+".huff", 3); err != nil {
		t.Fatal(err)
	}
	if _, err := Decompress(in+".huff", in+".out"); err != nil {
		t.Fatal(err)
	}
	got, _ := os.ReadFile(in + ".out")
	if !bytes.Equal(got, data) {
		t.Fatal("round-trip mismatch")
	}
}

func TestCompressBadRadix(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out")
	// the input does not exist; the radix
	// must be rejected before it is opened
	_, err := Compress(filepath.Join(dir, "missing"), out, 1)
	var ce *huffman.ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("got error %v", err)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Fatal("output created")
	}
}

func TestCompressMissingInput(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out")
	_, err := Compress(filepath.Join(dir, "missing"), out, 2)
	var ioe *IOError
	if !errors.As(err, &ioe) || ioe.Op != "open" || !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("got error %v", err)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Fatal("output created")
	}
}

func TestCompressUnwritableOutput(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "in", []byte("data"))
	_, err := Compress(in, filepath.Join(dir, "no", "such", "dir", "out"), 2)
	var ioe *IOError
	if !errors.As(err, &ioe) || ioe.Op != "create" {
		t.Fatalf("got error %v", err)
	}
}

func TestDecompressCorrupt(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "in", []byte("abcabcabc"))
	cmp := in + ".huff"
	if _, err := Compress(in, cmp, 2); err != nil {
		t.Fatal(err)
	}
	art, err := os.ReadFile(cmp)
	if err != nil {
		t.Fatal(err)
	}
	tcs := []struct {
		name string
		data []byte
		want error
	}{
		{"truncated-payload", art[:len(art)-1], huffman.ErrTruncated},
		{"truncated-header", art[:7], huffman.ErrHeader},
		{"bad-radix", append([]byte{1}, art[1:]...), huffman.ErrHeader},
	}
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			bad := writeFile(t, dir, tc.name, tc.data)
			out := bad + ".out"
			_, err := Decompress(bad, out)
			var fe *huffman.FormatError
			if !errors.As(err, &fe) || !errors.Is(err, tc.want) {
				t.Fatalf("got error %v", err)
			}
			if _, err := os.Stat(out); !os.IsNotExist(err) {
				t.Fatal("partial output left behind")
			}
			if l := leftovers(t, dir); len(l) != 0 {
				t.Fatalf("temporary files left: %v", l)
			}
		})
	}
}

func TestDecompressRadixAdvisory(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "in", []byte("advisory radix"))
	if _, err := Compress(in, in+".huff", 3); err != nil {
		t.Fatal(err)
	}
	var logbuf bytes.Buffer
	rep, err := Decompress(in+".huff", in+".out",
		WithRadix(2), WithLogger(log.New(&logbuf, "", 0)))
	if err != nil {
		t.Fatal(err)
	}
	if rep.Stats.Radix != 3 {
		t.Fatalf("decoded with radix %d", rep.Stats.Radix)
	}
	if !strings.Contains(logbuf.String(), "compressed with k=3, not k=2") {
		t.Fatalf("mismatch not logged: %q", logbuf.String())
	}
}

func TestCompressOverwrites(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "in", []byte("new contents"))
	cmp := writeFile(t, dir, "in.huff", []byte("stale"))
	if _, err := Compress(in, cmp, 2); err != nil {
		t.Fatal(err)
	}
	art, _ := os.ReadFile(cmp)
	got, err := huffman.Decode(nil, art)
	if err != nil || string(got) != "new contents" {
		t.Fatalf("got %q, %v", got, err)
	}
}
