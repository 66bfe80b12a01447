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

// Package artifact unpacks the archive written by a completed training job
// and decodes the learned model parameters.
package artifact

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"strings"

	"github.com/chewxy/math32"
	"github.com/juju/errors"
	"github.com/ldakit/ldakit/dataset"
	"github.com/ldakit/ldakit/recordio"
	"github.com/ldakit/ldakit/storage/blob"
)

// parameter files inside the archive are named model_<suffix>
const parameterFilePrefix = "model_"

// beta rows are probability distributions, tolerate this much drift from 1
const rowSumTolerance = 1e-3

// FormatError reports an archive that does not decode into well-formed model
// parameters.
type FormatError struct {
	Name    string
	Message string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("artifact %s: %s", e.Name, e.Message)
}

// Parameters are the two learned arrays of the topic model: alpha holds the
// per-topic prior weights and beta holds one word distribution per topic.
// Both are immutable once loaded.
type Parameters struct {
	Alpha []float32
	Beta  *dataset.Matrix
}

// Topics returns the number of fitted topics.
func (p *Parameters) Topics() int {
	return len(p.Alpha)
}

// Load fetches a .tar.gz archive from the store, locates the single
// parameter file by name convention and decodes alpha and beta. The
// parameter file is a record stream: the first record is alpha, every
// following record is one beta row of vocabSize word probabilities.
func Load(store blob.Blob, name string, vocabSize int) (*Parameters, error) {
	archive, err := store.Open(name)
	if err != nil {
		return nil, errors.Annotatef(err, "fetch artifact %s", name)
	}
	defer archive.Close()
	unzipped, err := gzip.NewReader(archive)
	if err != nil {
		return nil, &FormatError{Name: name, Message: "not a gzip archive: " + err.Error()}
	}
	defer unzipped.Close()

	var params *Parameters
	reader := tar.NewReader(unzipped)
	for {
		header, err := reader.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, errors.Trace(err)
		}
		if header.Typeflag != tar.TypeReg || !isParameterFile(header.Name) {
			continue
		}
		if params != nil {
			return nil, &FormatError{Name: name, Message: "multiple parameter files in archive"}
		}
		if params, err = decode(reader, name, vocabSize); err != nil {
			return nil, errors.Trace(err)
		}
	}
	if params == nil {
		return nil, &FormatError{Name: name, Message: "no parameter file in archive"}
	}
	return params, nil
}

func isParameterFile(name string) bool {
	base := name[strings.LastIndex(name, "/")+1:]
	return strings.HasPrefix(base, parameterFilePrefix)
}

func decode(r io.Reader, name string, vocabSize int) (*Parameters, error) {
	reader := recordio.NewReader(r)
	alpha, err := reader.ReadRow()
	if err != nil {
		return nil, &FormatError{Name: name, Message: "missing alpha record: " + err.Error()}
	}
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, &FormatError{Name: name, Message: "malformed beta record: " + err.Error()}
	}
	if len(rows) != len(alpha) {
		return nil, &FormatError{Name: name,
			Message: fmt.Sprintf("alpha length %d does not match %d beta rows", len(alpha), len(rows))}
	}
	beta := dataset.NewMatrix(len(rows), vocabSize)
	for i, row := range rows {
		if len(row) != vocabSize {
			return nil, &FormatError{Name: name,
				Message: fmt.Sprintf("beta row %d has %d columns, vocabulary has %d words", i, len(row), vocabSize)}
		}
		var sum float32
		for j, v := range row {
			beta.Set(i, j, v)
			sum += v
		}
		if math32.Abs(sum-1) > rowSumTolerance {
			return nil, &FormatError{Name: name,
				Message: fmt.Sprintf("beta row %d sums to %g, not a distribution", i, sum)}
		}
	}
	return &Parameters{Alpha: alpha, Beta: beta}, nil
}
