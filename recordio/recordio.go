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

// Package recordio implements the binary record stream consumed by the remote
// training service. A stream is a contiguous sequence of records, one per
// matrix row:
//
//	magic   uint32 little endian
//	length  uint32 little endian, payload size in bytes
//	payload length/4 float32 values
//
// Each record is self-describing, so a receiver can decode rows independently
// without knowing the total row count in advance.
package recordio

import (
	"encoding/binary"
	"io"

	"github.com/juju/errors"
)

const magic uint32 = 0x6c9a5d42

var (
	ErrBadMagic  = errors.New("recordio: bad record magic")
	ErrTruncated = errors.New("recordio: truncated record")
)

type Writer struct {
	w io.Writer
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// WriteRow appends one record to the stream. Every call produces exactly one
// record and records appear in call order.
func (w *Writer) WriteRow(row []float32) error {
	if err := binary.Write(w.w, binary.LittleEndian, magic); err != nil {
		return errors.Trace(err)
	}
	if err := binary.Write(w.w, binary.LittleEndian, uint32(len(row)*4)); err != nil {
		return errors.Trace(err)
	}
	if err := binary.Write(w.w, binary.LittleEndian, row); err != nil {
		return errors.Trace(err)
	}
	return nil
}

type Reader struct {
	r io.Reader
}

func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// ReadRow reads the next record from the stream. It returns io.EOF at a clean
// end of stream and ErrTruncated if the stream ends inside a record.
func (r *Reader) ReadRow() ([]float32, error) {
	var header [2]uint32
	if err := binary.Read(r.r, binary.LittleEndian, header[:1]); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, ErrTruncated
		}
		return nil, errors.Trace(err)
	}
	if header[0] != magic {
		return nil, ErrBadMagic
	}
	if err := binary.Read(r.r, binary.LittleEndian, header[1:]); err != nil {
		return nil, ErrTruncated
	}
	if header[1]%4 != 0 {
		return nil, ErrBadMagic
	}
	row := make([]float32, header[1]/4)
	if err := binary.Read(r.r, binary.LittleEndian, row); err != nil {
		return nil, ErrTruncated
	}
	return row, nil
}

// ReadAll reads records until the end of the stream.
func (r *Reader) ReadAll() ([][]float32, error) {
	var rows [][]float32
	for {
		row, err := r.ReadRow()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return rows, nil
			}
			return nil, errors.Trace(err)
		}
		rows = append(rows, row)
	}
}
