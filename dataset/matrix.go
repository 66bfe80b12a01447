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

import "errors"

var ErrIndexOutOfRange = errors.New("dataset: index out of range")

// Matrix is a dense row-major matrix. The underlying storage is a single
// float32 slice and the (i*cols + j)-th element is the [i, j]-th element of
// the matrix. Counts produced by the corpus parser are stored as float32 so
// rows can be handed to the record serializer without conversion.
type Matrix struct {
	rows int
	cols int
	data []float32
}

func NewMatrix(rows, cols int) *Matrix {
	if rows < 0 || cols <= 0 {
		panic(ErrIndexOutOfRange)
	}
	return &Matrix{
		rows: rows,
		cols: cols,
		data: make([]float32, rows*cols),
	}
}

func (m *Matrix) Rows() int {
	return m.rows
}

func (m *Matrix) Cols() int {
	return m.cols
}

// Get the [i, j]-th element of the matrix.
func (m *Matrix) Get(i, j int) float32 {
	if i < 0 || i >= m.rows || j < 0 || j >= m.cols {
		panic(ErrIndexOutOfRange)
	}
	return m.data[i*m.cols+j]
}

// Set val to the [i, j]-th element of the matrix.
func (m *Matrix) Set(i, j int, val float32) {
	if i < 0 || i >= m.rows || j < 0 || j >= m.cols {
		panic(ErrIndexOutOfRange)
	}
	m.data[i*m.cols+j] = val
}

// Row returns the i-th row of the matrix. The returned slice aliases the
// underlying storage.
func (m *Matrix) Row(i int) []float32 {
	if i < 0 || i >= m.rows {
		panic(ErrIndexOutOfRange)
	}
	return m.data[i*m.cols : (i+1)*m.cols]
}

// Slice returns rows [begin, end) as a matrix sharing the underlying storage.
func (m *Matrix) Slice(begin, end int) *Matrix {
	if begin < 0 || end < begin || end > m.rows {
		panic(ErrIndexOutOfRange)
	}
	return &Matrix{
		rows: end - begin,
		cols: m.cols,
		data: m.data[begin*m.cols : end*m.cols],
	}
}
