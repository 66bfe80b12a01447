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
	"os"
	"sort"

	"github.com/ldakit/ldakit/artifact"
	"github.com/ldakit/ldakit/base/log"
	"github.com/ldakit/ldakit/config"
	"github.com/ldakit/ldakit/dataset"
	"github.com/ldakit/ldakit/recordio"
	"github.com/ldakit/ldakit/storage/blob"
	"github.com/ldakit/ldakit/trainer"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	trainRecordsName = "data/train.rec"
	outputName       = "output"
)

var trainCommand = &cobra.Command{
	Use:   "train",
	Short: "Upload training records and fit a topic model on remote compute.",
	Run: func(cmd *cobra.Command, args []string) {
		conf := loadConfig(cmd)
		corpusPath, _ := cmd.Flags().GetString("corpus")
		vocabularyPath, _ := cmd.Flags().GetString("vocabulary")

		vocabulary, split := loadSplit(conf, corpusPath, vocabularyPath)
		store, err := blob.NewBlob(conf.Storage)
		if err != nil {
			log.Logger().Fatal("failed to open storage", zap.Error(err))
		}
		// only the train split is uploaded; predict re-encodes the test
		// split against the live endpoint
		uploadRecords(store, trainRecordsName, split.Train)

		// block until the remote job finishes or the local timeout elapses
		ctx, cancel := context.WithTimeout(context.Background(), conf.Train.Timeout)
		defer cancel()
		jobs := trainer.New(newProvider(conf), conf.Provider.Role, conf.Train.PollInterval)
		locator, err := jobs.SubmitAndWait(ctx, trainer.Job{
			InputPath:  store.Locate(trainRecordsName),
			OutputPath: store.Locate(outputName),
			TrainRows:  split.Train.Rows(),
			Hyperparameters: trainer.Hyperparameters{
				NumTopics:     conf.Train.Topics,
				FeatureDim:    vocabulary.Size(),
				MiniBatchSize: conf.Train.BatchSize,
				Alpha0:        conf.Train.Alpha0,
			},
			Resources: trainer.Resources{
				InstanceType:  conf.Train.InstanceType,
				InstanceCount: conf.Train.InstanceCount,
			},
		})
		if err != nil {
			log.Logger().Fatal("training failed", zap.Error(err))
		}

		name, err := blob.Name(store, locator)
		if err != nil {
			log.Logger().Fatal("artifact outside configured storage", zap.Error(err))
		}
		params, err := artifact.Load(store, name, vocabulary.Size())
		if err != nil {
			log.Logger().Fatal("failed to load model artifact", zap.Error(err))
		}
		topWords, _ := cmd.Flags().GetInt("top-words")
		printTopics(params, vocabulary, topWords)
	},
}

func init() {
	trainCommand.Flags().String("corpus", "corpus.txt", "path of the sparse bag-of-words corpus")
	trainCommand.Flags().String("vocabulary", "vocabulary.txt", "path of the vocabulary file")
	trainCommand.Flags().Int("top-words", 10, "number of words to show per topic")
}

// loadSplit parses the corpus and partitions it into train and test rows.
func loadSplit(conf *config.Config, corpusPath, vocabularyPath string) (*dataset.Vocabulary, dataset.Split) {
	vocabularyFile, err := os.Open(vocabularyPath)
	if err != nil {
		log.Logger().Fatal("failed to open vocabulary", zap.String("path", vocabularyPath), zap.Error(err))
	}
	defer vocabularyFile.Close()
	vocabulary, err := dataset.LoadVocabulary(vocabularyFile)
	if err != nil {
		log.Logger().Fatal("failed to load vocabulary", zap.Error(err))
	}

	corpusFile, err := os.Open(corpusPath)
	if err != nil {
		log.Logger().Fatal("failed to open corpus", zap.String("path", corpusPath), zap.Error(err))
	}
	defer corpusFile.Close()
	matrix, err := dataset.ParseCorpus(corpusFile, vocabulary.Size())
	if err != nil {
		log.Logger().Fatal("failed to parse corpus", zap.Error(err))
	}
	split := dataset.NewRatioSplit(matrix, conf.Train.DocumentCap, conf.Train.TrainFraction)
	log.Logger().Info("corpus loaded",
		zap.Int("documents", matrix.Rows()),
		zap.Int("vocabulary", vocabulary.Size()),
		zap.Int("train_rows", split.Train.Rows()),
		zap.Int("test_rows", split.Test.Rows()))
	return vocabulary, split
}

// uploadRecords serializes matrix rows into the store as a record stream.
func uploadRecords(store blob.Blob, name string, m *dataset.Matrix) {
	w, done, err := store.Create(name)
	if err != nil {
		log.Logger().Fatal("failed to create record stream", zap.String("name", name), zap.Error(err))
	}
	bar := progressbar.Default(int64(m.Rows()), "upload "+name)
	writer := recordio.NewWriter(w)
	for i := 0; i < m.Rows(); i++ {
		if err = writer.WriteRow(m.Row(i)); err != nil {
			log.Logger().Fatal("failed to write record", zap.String("name", name), zap.Error(err))
		}
		_ = bar.Add(1)
	}
	if err = w.Close(); err != nil {
		log.Logger().Fatal("failed to close record stream", zap.String("name", name), zap.Error(err))
	}
	<-done
}

// printTopics shows the highest probability words of each fitted topic.
func printTopics(params *artifact.Parameters, vocabulary *dataset.Vocabulary, topWords int) {
	if vocabulary.Size() < topWords {
		topWords = vocabulary.Size()
	}
	for topic := 0; topic < params.Topics(); topic++ {
		row := params.Beta.Row(topic)
		order := make([]int, len(row))
		for j := range order {
			order[j] = j
		}
		sort.Slice(order, func(a, b int) bool {
			return row[order[a]] > row[order[b]]
		})
		words := make([]string, topWords)
		for k := 0; k < topWords; k++ {
			words[k] = vocabulary.Word(order[k])
		}
		fmt.Printf("topic %d (alpha=%.4f): %v\n", topic, params.Alpha[topic], words)
	}
}
