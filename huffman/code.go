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
	"strconv"
	"strings"

	"golang.org/x/exp/slices"
)

// Code is the root-to-leaf path of a symbol,
// one digit in [0, k) per tree level.
type Code []uint8

// String returns the digits of c. Digits are
// concatenated when they are all below 10
// and separated by '.' otherwise.
func (c Code) String() string {
	wide := false
	for _, d := range c {
		if d >= 10 {
			wide = true
			break
		}
	}
	var sb strings.Builder
	for i, d := range c {
		if wide && i > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(strconv.Itoa(int(d)))
	}
	return sb.String()
}

// HasPrefix returns whether p is a prefix of c.
func (c Code) HasPrefix(p Code) bool {
	return len(p) <= len(c) && slices.Equal(c[:len(p)], p)
}

// CodeTable maps each symbol of an input
// to its code. Padding leaves have no entry.
type CodeTable struct {
	radix int
	codes [256]Code
	has   [256]bool
}

// Codes walks t and returns the code table
// it describes. For a single-leaf tree the
// sole symbol is assigned the empty code.
// A nil tree yields an empty table.
func Codes(t *Tree) CodeTable {
	var ct CodeTable
	if t == nil {
		return ct
	}
	ct.radix = t.radix
	var path Code
	var visit func(n int32)
	visit = func(n int32) {
		nd := &t.nodes[n]
		switch nd.kind {
		case padNode:
			return
		case leafNode:
			ct.codes[nd.sym] = slices.Clone(path)
			if ct.codes[nd.sym] == nil {
				ct.codes[nd.sym] = Code{}
			}
			ct.has[nd.sym] = true
			return
		}
		for i, c := range t.children(n) {
			path = append(path, uint8(i))
			visit(c)
			path = path[:len(path)-1]
		}
	}
	visit(t.root)
	return ct
}

// Radix returns the size of the digit alphabet.
func (c *CodeTable) Radix() int { return c.radix }

// Lookup returns the code for sym and
// whether sym has a code at all.
func (c *CodeTable) Lookup(sym byte) (Code, bool) {
	return c.codes[sym], c.has[sym]
}

// Len returns the number of coded symbols.
func (c *CodeTable) Len() int {
	n := 0
	for _, ok := range c.has {
		if ok {
			n++
		}
	}
	return n
}

// Symbols returns the coded symbols in ascending order.
func (c *CodeTable) Symbols() []byte {
	var out []byte
	for i, ok := range c.has {
		if ok {
			out = append(out, byte(i))
		}
	}
	return out
}

// MaxLen returns the length of the longest code.
func (c *CodeTable) MaxLen() int {
	m := 0
	for i := range c.codes {
		if len(c.codes[i]) > m {
			m = len(c.codes[i])
		}
	}
	return m
}

// PrefixFree returns whether no code in c
// is a prefix of another code in c.
func (c *CodeTable) PrefixFree() bool {
	syms := c.Symbols()
	for i, a := range syms {
		for _, b := range syms[i+1:] {
			if c.codes[a].HasPrefix(c.codes[b]) || c.codes[b].HasPrefix(c.codes[a]) {
				return false
			}
		}
	}
	return true
}

// Equal returns whether c and other assign
// identical codes to identical symbols.
func (c *CodeTable) Equal(other *CodeTable) bool {
	if c.radix != other.radix || c.has != other.has {
		return false
	}
	for i := range c.codes {
		if !slices.Equal(c.codes[i], other.codes[i]) {
			return false
		}
	}
	return true
}
