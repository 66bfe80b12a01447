// Copyright 2026 ldakit Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package dataset

// Split is a pair of disjoint row ranges over a matrix. Train rows precede
// test rows and both share the matrix storage.
type Split struct {
	Train *Matrix
	Test  *Matrix
}

// NewRatioSplit truncates the matrix to its first min(cap, rows) rows, then
// assigns the first floor(trainFraction * N) rows to the train set and the
// remainder to the test set. No shuffling is performed, so identical inputs
// always yield identical split boundaries.
func NewRatioSplit(m *Matrix, cap int, trainFraction float64) Split {
	total := m.Rows()
	if cap >= 0 && cap < total {
		total = cap
	}
	trainSize := int(trainFraction * float64(total))
	return Split{
		Train: m.Slice(0, trainSize),
		Test:  m.Slice(trainSize, total),
	}
}
