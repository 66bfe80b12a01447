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

package artifact

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"testing"

	"github.com/ldakit/ldakit/recordio"
	"github.com/ldakit/ldakit/storage/blob"
	"github.com/stretchr/testify/assert"
)

// writeArchive stores a .tar.gz with one record stream per entry.
func writeArchive(t *testing.T, store blob.Blob, name string, entries map[string][][]float32) {
	w, done, err := store.Create(name)
	assert.NoError(t, err)
	zipped := gzip.NewWriter(w)
	archive := tar.NewWriter(zipped)
	for entry, rows := range entries {
		var buf bytes.Buffer
		writer := recordio.NewWriter(&buf)
		for _, row := range rows {
			assert.NoError(t, writer.WriteRow(row))
		}
		assert.NoError(t, archive.WriteHeader(&tar.Header{
			Name: entry,
			Mode: 0644,
			Size: int64(buf.Len()),
		}))
		_, err = archive.Write(buf.Bytes())
		assert.NoError(t, err)
	}
	assert.NoError(t, archive.Close())
	assert.NoError(t, zipped.Close())
	assert.NoError(t, w.Close())
	<-done
}

func TestLoad(t *testing.T) {
	store := blob.NewPOSIX(t.TempDir())
	writeArchive(t, store, "model.tar.gz", map[string][][]float32{
		"model_algo-1": {
			{0.5, 0.5},               // alpha
			{0.1, 0.2, 0.3, 0.4},     // beta row 0
			{0.25, 0.25, 0.25, 0.25}, // beta row 1
		},
	})

	params, err := Load(store, "model.tar.gz", 4)
	assert.NoError(t, err)
	assert.Equal(t, []float32{0.5, 0.5}, params.Alpha)
	assert.Equal(t, 2, params.Topics())
	assert.Equal(t, 2, params.Beta.Rows())
	assert.Equal(t, 4, params.Beta.Cols())
	assert.Equal(t, float32(0.3), params.Beta.Get(0, 2))

	// every beta row sums to 1 within tolerance
	for i := 0; i < params.Beta.Rows(); i++ {
		var sum float32
		for _, v := range params.Beta.Row(i) {
			sum += v
		}
		assert.InDelta(t, 1.0, sum, 1e-3)
	}
}

func TestLoadNoParameterFile(t *testing.T) {
	store := blob.NewPOSIX(t.TempDir())
	writeArchive(t, store, "model.tar.gz", map[string][][]float32{
		"checkpoint": {{0.5, 0.5}},
	})
	_, err := Load(store, "model.tar.gz", 4)
	var formatErr *FormatError
	assert.ErrorAs(t, err, &formatErr)
}

func TestLoadMultipleParameterFiles(t *testing.T) {
	store := blob.NewPOSIX(t.TempDir())
	writeArchive(t, store, "model.tar.gz", map[string][][]float32{
		"model_algo-1": {{1}, {0.5, 0.25, 0.15, 0.1}},
		"model_algo-2": {{1}, {0.5, 0.25, 0.15, 0.1}},
	})
	_, err := Load(store, "model.tar.gz", 4)
	var formatErr *FormatError
	assert.ErrorAs(t, err, &formatErr)
}

func TestLoadShapeMismatch(t *testing.T) {
	store := blob.NewPOSIX(t.TempDir())

	// alpha length != beta row count
	writeArchive(t, store, "bad-alpha.tar.gz", map[string][][]float32{
		"model_algo-1": {{0.5, 0.5}, {0.5, 0.25, 0.15, 0.1}},
	})
	_, err := Load(store, "bad-alpha.tar.gz", 4)
	var formatErr *FormatError
	assert.ErrorAs(t, err, &formatErr)

	// beta column count != vocabulary size
	writeArchive(t, store, "bad-beta.tar.gz", map[string][][]float32{
		"model_algo-1": {{1}, {0.5, 0.5}},
	})
	_, err = Load(store, "bad-beta.tar.gz", 4)
	assert.ErrorAs(t, err, &formatErr)
}

func TestLoadRowNotDistribution(t *testing.T) {
	store := blob.NewPOSIX(t.TempDir())
	writeArchive(t, store, "model.tar.gz", map[string][][]float32{
		"model_algo-1": {{1}, {0.5, 0.5, 0.5, 0.5}},
	})
	_, err := Load(store, "model.tar.gz", 4)
	var formatErr *FormatError
	assert.ErrorAs(t, err, &formatErr)
}
