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

package ints

import (
	"math/bits"

	"golang.org/x/exp/constraints"
)

// BitsFor returns the number of bits needed to
// represent every value in [0, n), i.e. ceil(log2(n)).
// BitsFor returns 0 for n <= 1.
func BitsFor[T constraints.Integer](n T) uint8 {
	if n <= 1 {
		return 0
	}
	return uint8(bits.Len64(uint64(n - 1)))
}
