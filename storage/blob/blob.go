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

// Package blob stores serialized training records and fetches model
// artifacts. Training data is written once and read by the remote provider,
// so the interface is a write-through Create and a streaming Open, nothing
// more.
package blob

import (
	"io"
	"strings"

	"github.com/juju/errors"
	"github.com/ldakit/ldakit/config"
)

// Blob is a flat namespace of named byte streams.
type Blob interface {
	// Open a file for reading.
	Open(name string) (io.ReadCloser, error)
	// Create a new file for writing. The returned done channel is closed
	// when the written data is durable.
	Create(name string) (io.WriteCloser, chan struct{}, error)
	// Locate returns the provider-visible locator of a stored file, the
	// string handed to the remote training service as its input path.
	Locate(name string) string
}

// NewBlob creates the storage backend selected by the configuration: a local
// directory when storage.path is set, otherwise S3.
func NewBlob(cfg config.StorageConfig) (Blob, error) {
	if cfg.Path != "" {
		return NewPOSIX(cfg.Path), nil
	}
	if cfg.S3.Bucket != "" {
		return NewS3(cfg.S3)
	}
	return nil, errors.NotValidf("storage configuration: no path or bucket")
}

// Name converts a locator produced by Locate, such as the artifact path
// reported by the provider, back into a store-relative name.
func Name(store Blob, locator string) (string, error) {
	root := store.Locate("")
	if !strings.HasPrefix(locator, root) {
		return "", errors.NotFoundf("locator %q outside store %q", locator, root)
	}
	return strings.TrimPrefix(strings.TrimPrefix(locator, root), "/"), nil
}
