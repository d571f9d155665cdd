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
	"math/rand"
	"testing"
)

const epsilon = 1e-9

func TestEntropyUniform(t *testing.T) {
	ft := table(t, "abcabcabc")
	if h := Entropy(ft); math.Abs(h-math.Log2(3)) > epsilon {
		t.Fatalf("Entropy() = %g, want log2(3)", h)
	}
	tree, err := Build(ft, 2)
	if err != nil {
		t.Fatal(err)
	}
	ct := Codes(tree)
	avg := AverageLength(ft, &ct)
	if math.Abs(avg-5.0/3) > epsilon {
		t.Fatalf("AverageLength() = %g, want 5/3", avg)
	}
	if avg < Entropy(ft) {
		t.Fatal("average length below entropy")
	}
}

func TestEntropyDegenerate(t *testing.T) {
	if h := Entropy(&FrequencyTable{}); h != 0 {
		t.Fatalf("empty table entropy %g", h)
	}
	ft := table(t, "aaaa")
	if h := Entropy(ft); h != 0 {
		t.Fatalf("single symbol entropy %g", h)
	}
	m, err := NewModel(ft, 2)
	if err != nil {
		t.Fatal(err)
	}
	st := m.Measure()
	if st.AvgLen != 0 || st.PayloadBytes != 0 || st.EncodedBytes != 14 {
		t.Fatalf("unexpected stats %+v", st)
	}
}

// Padding may push real symbols deeper, so
// only the inequalities are checked, never
// tight equality.
func TestEntropyBound(t *testing.T) {
	rng := rand.New(rand.NewSource(6))
	for i := 0; i < 300; i++ {
		k := 2 + rng.Intn(15)
		ft := randomTable(rng, 1+rng.Intn(256))
		m, err := NewModel(ft, k)
		if err != nil {
			t.Fatal(err)
		}
		st := m.Measure()
		hk := EntropyRadix(ft, k)
		if st.AvgLen+epsilon < hk {
			t.Fatalf("k=%d: average length %g below entropy %g", k, st.AvgLen, hk)
		}
		if st.Symbols > 1 && st.AvgLen >= hk+1 {
			t.Fatalf("k=%d: average length %g not within one digit of entropy %g", k, st.AvgLen, hk)
		}
		if st.AvgBits+epsilon < st.Entropy {
			t.Fatalf("k=%d: %g bits per symbol below entropy %g", k, st.AvgBits, st.Entropy)
		}
		if k == 2 && st.AvgLen+epsilon < st.Entropy {
			t.Fatalf("binary average length %g below entropy %g", st.AvgLen, st.Entropy)
		}
	}
}

func TestMeasureRatio(t *testing.T) {
	src := make([]byte, 1000)
	for i := range src {
		src[i] = "aaaaaaab"[i%8]
	}
	ft, _ := Histogram(src)
	m, err := NewModel(&ft, 2)
	if err != nil {
		t.Fatal(err)
	}
	st := m.Measure()
	enc, _ := Encode(nil, src, 2)
	if st.EncodedBytes != len(enc) {
		t.Fatalf("EncodedBytes = %d, want %d", st.EncodedBytes, len(enc))
	}
	if r := st.Ratio(); r <= 0 || r >= 0.2 {
		t.Fatalf("Ratio() = %g", r)
	}
}
