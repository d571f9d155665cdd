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
	"github.com/SnellerInc/khuff/heap"
)

// Padding returns the number of zero-frequency
// leaves that must be added to n real leaves so
// that repeated k-way merges end in exactly one
// root, i.e. so that (n+p-1) mod (k-1) == 0.
func Padding(n, k int) int {
	if k <= 2 || n < 2 {
		return 0
	}
	r := (n - 1) % (k - 1)
	if r == 0 {
		return 0
	}
	return (k - 1) - r
}

// Build constructs the k-ary Huffman tree
// for the frequency table ft.
//
// Build is a pure function of ft and k:
// ties in frequency are broken by the smallest
// symbol in each subtree, and the children of
// each internal node are ordered by extraction
// from the queue, which fixes the digit assigned
// to each child.
//
// An empty table yields a nil tree. A table with
// one symbol yields a tree consisting of a single
// leaf. A radix outside [MinRadix, MaxRadix]
// yields a *ConfigError.
func Build(ft *FrequencyTable, k int) (*Tree, error) {
	if err := CheckRadix(k); err != nil {
		return nil, err
	}
	syms := ft.Symbols()
	if len(syms) == 0 {
		return nil, nil
	}
	pad := Padding(len(syms), k)
	t := &Tree{
		radix: k,
		nodes: make([]node, 0, 2*(len(syms)+pad)),
		pad:   pad,
	}
	for _, s := range syms {
		t.nodes = append(t.nodes, node{
			kind: leafNode,
			sym:  s,
			key:  uint16(s),
			freq: uint64(ft.Count(s)),
		})
	}
	if len(syms) == 1 {
		t.root = 0
		return t, nil
	}
	for i := 0; i < pad; i++ {
		t.nodes = append(t.nodes, node{
			kind: padNode,
			key:  uint16(padKeyBase + i),
		})
	}

	live := make([]int32, len(t.nodes))
	for i := range live {
		live[i] = int32(i)
	}
	q := heap.New(live, t.less)
	group := make([]int32, 0, k)
	for q.Len() > 1 {
		group = q.PopN(group[:0], k)
		if len(group) != k {
			panic("huffman: leaf count violates the padding invariant")
		}
		q.Push(t.merge(group))
	}
	t.root = q.Pop()
	return t, nil
}

// less orders nodes by ascending frequency,
// then by ascending tie key. Live nodes never
// share a tie key, so this is a total order.
func (t *Tree) less(a, b int32) bool {
	x, y := &t.nodes[a], &t.nodes[b]
	if x.freq != y.freq {
		return x.freq < y.freq
	}
	return x.key < y.key
}

// merge appends an internal node whose children
// are group, in order, and returns its index.
func (t *Tree) merge(group []int32) int32 {
	n := node{
		kind:  innerNode,
		first: int32(len(t.kids)),
		key:   t.nodes[group[0]].key,
	}
	for _, c := range group {
		child := &t.nodes[c]
		n.freq += child.freq
		if child.key < n.key {
			n.key = child.key
		}
	}
	t.kids = append(t.kids, group...)
	t.nodes = append(t.nodes, n)
	return int32(len(t.nodes) - 1)
}
