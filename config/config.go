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
	"strings"
	"time"

	"github.com/juju/errors"
	"github.com/spf13/viper"
)

// Config is the configuration for the topic model pipeline. Provider and
// storage credentials are opaque strings passed through to the remote
// provider, never interpreted locally.
type Config struct {
	Provider ProviderConfig `mapstructure:"provider"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Train    TrainConfig    `mapstructure:"train"`
	Infer    InferConfig    `mapstructure:"infer"`
}

// ProviderConfig locates the remote training and inference service.
type ProviderConfig struct {
	// Endpoint is the base URL of the provider API.
	Endpoint string `mapstructure:"endpoint" validate:"required,url"`
	// Role is the compute role identifier the provider assumes when it reads
	// training data and writes artifacts.
	Role string `mapstructure:"role" validate:"required"`
}

// StorageConfig selects where serialized training records and artifacts live,
// either a local directory or an S3 bucket.
type StorageConfig struct {
	// Path is a local directory. When set, the S3 section is ignored.
	Path string   `mapstructure:"path"`
	S3   S3Config `mapstructure:"s3"`
}

type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	Bucket          string `mapstructure:"bucket"`
	Prefix          string `mapstructure:"prefix"`
}

type TrainConfig struct {
	// Topics is the number of topics to fit.
	Topics int `mapstructure:"topics" validate:"gte=2"`
	// Alpha0 is the concentration prior of the topic mixture.
	Alpha0 float32 `mapstructure:"alpha0" validate:"gt=0"`
	// BatchSize is the mini-batch size used by the remote estimator. It must
	// not exceed the number of training rows.
	BatchSize int `mapstructure:"batch_size" validate:"gte=1"`
	// DocumentCap truncates the corpus to its first N documents to bound the
	// cost of a training run. Negative means no cap.
	DocumentCap int `mapstructure:"document_cap"`
	// TrainFraction is the share of rows assigned to the training split.
	TrainFraction float64 `mapstructure:"train_fraction" validate:"gt=0,lte=1"`
	// InstanceType and InstanceCount select billable remote compute.
	InstanceType  string        `mapstructure:"instance_type" validate:"required"`
	InstanceCount int           `mapstructure:"instance_count" validate:"gte=1"`
	PollInterval  time.Duration `mapstructure:"poll_interval" validate:"gt=0"`
	// Timeout bounds the local wait for training, not the remote job itself.
	Timeout time.Duration `mapstructure:"timeout" validate:"gt=0"`
}

type InferConfig struct {
	InstanceType  string `mapstructure:"instance_type" validate:"required"`
	InstanceCount int    `mapstructure:"instance_count" validate:"gte=1"`
	// BatchLimit is the largest number of rows sent in a single endpoint
	// invocation. Oversized inputs are split into sequential requests.
	BatchLimit   int           `mapstructure:"batch_limit" validate:"gte=1"`
	PollInterval time.Duration `mapstructure:"poll_interval" validate:"gt=0"`
	Timeout      time.Duration `mapstructure:"timeout" validate:"gt=0"`
}

func setDefault() {
	viper.SetDefault("train.topics", 10)
	viper.SetDefault("train.alpha0", 1.0)
	viper.SetDefault("train.batch_size", 256)
	viper.SetDefault("train.document_cap", -1)
	viper.SetDefault("train.train_fraction", 0.95)
	viper.SetDefault("train.instance_count", 1)
	viper.SetDefault("train.poll_interval", 30*time.Second)
	viper.SetDefault("train.timeout", 2*time.Hour)
	viper.SetDefault("infer.instance_count", 1)
	viper.SetDefault("infer.batch_limit", 500)
	viper.SetDefault("infer.poll_interval", 15*time.Second)
	viper.SetDefault("infer.timeout", 30*time.Minute)
}

// LoadConfig loads and validates the configuration from a TOML file.
func LoadConfig(path string) (*Config, error) {
	setDefault()

	// bind environment variables so credentials stay out of config files
	viper.SetEnvPrefix("ldakit")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	// AutomaticEnv only resolves keys that already exist in the file or the
	// defaults, so the credential keys are bound explicitly
	for _, key := range []string{
		"provider.role",
		"storage.s3.access_key_id",
		"storage.s3.secret_access_key",
	} {
		if err := viper.BindEnv(key); err != nil {
			return nil, errors.Trace(err)
		}
	}

	viper.SetConfigFile(path)
	if err := viper.ReadInConfig(); err != nil {
		return nil, errors.Trace(err)
	}
	var conf Config
	if err := viper.Unmarshal(&conf); err != nil {
		return nil, errors.Trace(err)
	}
	if err := conf.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	return &conf, nil
}
