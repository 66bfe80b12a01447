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

package config

import (
	"github.com/go-playground/validator/v10"
	"github.com/juju/errors"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints declared by `validate` struct tags, plus
// the cross-field constraints the tags cannot express.
func (conf *Config) Validate() error {
	if err := validate.Struct(conf); err != nil {
		return errors.Annotate(err, "invalid configuration")
	}
	if conf.Storage.Path == "" && conf.Storage.S3.Bucket == "" {
		return errors.NotValidf("storage: either path or s3.bucket must be set")
	}
	return nil
}
