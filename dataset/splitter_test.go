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

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRatioSplit(t *testing.T) {
	m := NewMatrix(10000, 5)
	split := NewRatioSplit(m, 10000, 0.95)
	assert.Equal(t, 9500, split.Train.Rows())
	assert.Equal(t, 500, split.Test.Rows())
}

func TestRatioSplitCap(t *testing.T) {
	m := NewMatrix(100, 3)
	for i := 0; i < m.Rows(); i++ {
		m.Set(i, 0, float32(i))
	}
	split := NewRatioSplit(m, 10, 0.8)
	assert.Equal(t, 8, split.Train.Rows())
	assert.Equal(t, 2, split.Test.Rows())
	// rows beyond the cap are dropped, order is preserved
	assert.Equal(t, float32(0), split.Train.Get(0, 0))
	assert.Equal(t, float32(8), split.Test.Get(0, 0))
	assert.Equal(t, float32(9), split.Test.Get(1, 0))
}

func TestRatioSplitDeterministic(t *testing.T) {
	m := NewMatrix(97, 2)
	a := NewRatioSplit(m, 50, 0.95)
	b := NewRatioSplit(m, 50, 0.95)
	assert.Equal(t, a.Train.Rows(), b.Train.Rows())
	assert.Equal(t, a.Train.Rows()+a.Test.Rows(), 50)
}

func TestRatioSplitEmpty(t *testing.T) {
	m := NewMatrix(0, 4)
	split := NewRatioSplit(m, 100, 0.95)
	assert.Zero(t, split.Train.Rows())
	assert.Zero(t, split.Test.Rows())
}
