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
	"math"
)

type nodeKind uint8

const (
	leafNode nodeKind = iota
	padNode
	innerNode
)

// Padding symbols take the tie keys above
// every byte value so that a real symbol
// always wins a tie against padding.
const padKeyBase = 256

// node is one entry of the tree arena.
// Internal nodes refer to their children
// through Tree.kids[first:first+k].
type node struct {
	freq  uint64
	first int32
	key   uint16
	sym   byte
	kind  nodeKind
}

// Tree is a full k-ary Huffman tree.
//
// Nodes are stored in a flat arena and refer
// to each other by index, so a Tree has no
// pointers between nodes and is released as
// a whole.
type Tree struct {
	radix int
	nodes []node
	kids  []int32
	root  int32
	pad   int
}

// Radix returns the arity of the tree.
func (t *Tree) Radix() int { return t.radix }

// Leaves returns the number of leaves in t,
// including padding leaves.
func (t *Tree) Leaves() int {
	n := 0
	for i := range t.nodes {
		if t.nodes[i].kind != innerNode {
			n++
		}
	}
	return n
}

// Padding returns the number of zero-frequency
// placeholder leaves added to complete the tree.
func (t *Tree) Padding() int { return t.pad }

// Weight returns the frequency of the root,
// which is the total count of the input.
func (t *Tree) Weight() uint64 { return t.nodes[t.root].freq }

func (t *Tree) isLeaf(n int32) bool { return t.nodes[n].kind != innerNode }

// child returns the v-th child of n, or
// false if n has no such child.
func (t *Tree) child(n int32, v uint64) (int32, bool) {
	nd := &t.nodes[n]
	if nd.kind != innerNode || v >= uint64(t.radix) {
		return 0, false
	}
	return t.kids[int(nd.first)+int(v)], true
}

func (t *Tree) children(n int32) []int32 {
	nd := &t.nodes[n]
	if nd.kind != innerNode {
		return nil
	}
	return t.kids[nd.first : int(nd.first)+t.radix]
}

// walk calls fn for every leaf in depth-first
// order with the leaf's node and depth.
func (t *Tree) walk(fn func(n *node, depth int)) {
	type frame struct {
		n     int32
		depth int
	}
	stack := []frame{{t.root, 0}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if t.isLeaf(f.n) {
			fn(&t.nodes[f.n], f.depth)
			continue
		}
		kids := t.children(f.n)
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, frame{kids[i], f.depth + 1})
		}
	}
}

// Depth returns the depth of the leaf for sym,
// or -1 if sym is not in t.
func (t *Tree) Depth(sym byte) int {
	d := -1
	t.walk(func(n *node, depth int) {
		if n.kind == leafNode && n.sym == sym {
			d = depth
		}
	})
	return d
}

// Kraft returns the sum of k^-depth over
// every leaf of t. For a full k-ary tree
// the result is 1.
func (t *Tree) Kraft() float64 {
	sum := 0.0
	k := float64(t.radix)
	t.walk(func(n *node, depth int) {
		sum += math.Pow(k, -float64(depth))
	})
	return sum
}
