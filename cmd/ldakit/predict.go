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
package main

import (
	"context"
	"fmt"

	"github.com/ldakit/ldakit/base/log"
	"github.com/ldakit/ldakit/config"
	"github.com/ldakit/ldakit/infer"
	"github.com/ldakit/ldakit/provider"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var predictCommand = &cobra.Command{
	Use:   "predict JOB_NAME",
	Short: "Deploy the model of a completed training job and predict topic mixtures for the test split.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		conf := loadConfig(cmd)
		jobName := args[0]
		corpusPath, _ := cmd.Flags().GetString("corpus")
		vocabularyPath, _ := cmd.Flags().GetString("vocabulary")
		_, split := loadSplit(conf, corpusPath, vocabularyPath)

		ctx, cancel := context.WithTimeout(context.Background(), conf.Infer.Timeout)
		defer cancel()
		client := infer.NewClient(newProvider(conf), conf.Train.Topics, conf.Infer.BatchLimit, conf.Infer.PollInterval)
		endpoint, err := client.Deploy(ctx, jobName, conf.Infer.InstanceType, conf.Infer.InstanceCount)
		if err != nil {
			log.Logger().Fatal("failed to deploy endpoint", zap.Error(err))
		}
		// endpoints bill until released, tear down on every exit path
		defer endpoint.ReleaseQuietly()

		mixtures, err := client.Predict(ctx, endpoint, split.Test)
		if err != nil {
			log.Logger().Error("prediction failed", zap.Error(err))
			return
		}
		for i, mixture := range mixtures {
			fmt.Printf("document %d: %v\n", i, mixture)
		}
	},
}

func init() {
	predictCommand.Flags().String("corpus", "corpus.txt", "path of the sparse bag-of-words corpus")
	predictCommand.Flags().String("vocabulary", "vocabulary.txt", "path of the vocabulary file")
}

func newProvider(conf *config.Config) provider.Provider {
	return provider.NewHTTP(conf.Provider.Endpoint)
}
