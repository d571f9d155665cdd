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
	"math/rand"
	"testing"
)

func TestCodesBinary(t *testing.T) {
	tree, err := Build(table(t, "abcabcabc"), 2)
	if err != nil {
		t.Fatal(err)
	}
	if tree.Padding() != 0 || tree.Leaves() != 3 {
		t.Fatalf("padding %d leaves %d", tree.Padding(), tree.Leaves())
	}
	ct := Codes(tree)
	want := map[byte]string{'c': "0", 'a': "10", 'b': "11"}
	for sym, code := range want {
		c, ok := ct.Lookup(sym)
		if !ok || c.String() != code {
			t.Errorf("code(%q) = %q, want %q", sym, c, code)
		}
	}
	if ct.MaxLen() > 2 {
		t.Errorf("MaxLen() = %d", ct.MaxLen())
	}
}

func TestCodesSingle(t *testing.T) {
	tree, err := Build(table(t, "zzz"), 2)
	if err != nil {
		t.Fatal(err)
	}
	ct := Codes(tree)
	c, ok := ct.Lookup('z')
	if !ok || len(c) != 0 {
		t.Fatalf("got %v, %v; want empty code", c, ok)
	}
	if _, ok := ct.Lookup('y'); ok {
		t.Fatal("unexpected code for absent symbol")
	}
}

func TestCodesPrefixFree(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 200; i++ {
		k := 2 + rng.Intn(14)
		n := 2 + rng.Intn(255)
		ft := randomTable(rng, n)
		tree, err := Build(ft, k)
		if err != nil {
			t.Fatal(err)
		}
		ct := Codes(tree)
		if ct.Len() != n {
			t.Fatalf("k=%d: %d codes for %d symbols", k, ct.Len(), n)
		}
		if !ct.PrefixFree() {
			t.Fatalf("k=%d n=%d: codes not prefix-free", k, n)
		}
		for _, s := range ct.Symbols() {
			c, _ := ct.Lookup(s)
			for _, d := range c {
				if int(d) >= k {
					t.Fatalf("digit %d out of range for k=%d", d, k)
				}
			}
		}
	}
}

func TestCodeString(t *testing.T) {
	tcs := []struct {
		code Code
		want string
	}{
		{Code{}, ""},
		{Code{0, 1, 2}, "012"},
		{Code{9, 10, 0}, "9.10.0"},
	}
	for _, tc := range tcs {
		if got := tc.code.String(); got != tc.want {
			t.Errorf("%v.String() = %q, want %q", []uint8(tc.code), got, tc.want)
		}
	}
	if !(Code{1, 2, 3}).HasPrefix(Code{1, 2}) || (Code{1}).HasPrefix(Code{1, 2}) {
		t.Error("HasPrefix")
	}
}
