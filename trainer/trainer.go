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

// Package trainer submits topic model training jobs to a remote provider and
// waits for them to finish. Training runs on billable remote compute, so the
// instance selection is a required part of every job and submission is
// logged.
package trainer

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/juju/errors"
	"github.com/ldakit/ldakit/base/log"
	"github.com/ldakit/ldakit/provider"
	"go.uber.org/zap"
)

// Hyperparameters of the remote LDA estimator.
type Hyperparameters struct {
	// NumTopics is the number of topics to fit, at least 2.
	NumTopics int
	// FeatureDim is the vocabulary size, the column count of every training
	// row.
	FeatureDim int
	// MiniBatchSize must not exceed the number of training rows.
	MiniBatchSize int
	// Alpha0 is the concentration prior of the topic mixture, positive.
	Alpha0 float32
}

// Resources selects the billable compute a job runs on.
type Resources struct {
	InstanceType  string
	InstanceCount int
}

// Job describes one training run.
type Job struct {
	// Name identifies the job at the provider. Left empty, a unique name is
	// generated on submission.
	Name string
	// InputPath locates the serialized training records.
	InputPath string
	// OutputPath is where the provider writes the model artifact.
	OutputPath string
	// TrainRows is the number of rows behind InputPath, used to validate the
	// mini-batch size before anything is submitted.
	TrainRows       int
	Hyperparameters Hyperparameters
	Resources       Resources
}

// Trainer drives the submit, poll, fetch-artifact lifecycle.
type Trainer struct {
	provider     provider.Provider
	role         string
	pollInterval time.Duration
}

func New(p provider.Provider, role string, pollInterval time.Duration) *Trainer {
	return &Trainer{
		provider:     p,
		role:         role,
		pollInterval: pollInterval,
	}
}

func validate(job Job) error {
	if job.TrainRows <= 0 {
		return &ConfigurationError{Field: "training set", Message: "no training rows, check the document cap and train fraction"}
	}
	if job.Hyperparameters.NumTopics < 2 {
		return &ConfigurationError{Field: "num_topics", Message: "must be at least 2"}
	}
	if job.Hyperparameters.FeatureDim <= 0 {
		return &ConfigurationError{Field: "feature_dim", Message: "must be positive"}
	}
	if job.Hyperparameters.MiniBatchSize < 1 || job.Hyperparameters.MiniBatchSize > job.TrainRows {
		return &ConfigurationError{Field: "mini_batch_size",
			Message: "must be in [1, " + strconv.Itoa(job.TrainRows) + "]"}
	}
	if job.Hyperparameters.Alpha0 <= 0 {
		return &ConfigurationError{Field: "alpha0", Message: "must be positive"}
	}
	if job.Resources.InstanceType == "" {
		return &ConfigurationError{Field: "instance_type", Message: "must be set"}
	}
	if job.Resources.InstanceCount < 1 {
		return &ConfigurationError{Field: "instance_count", Message: "must be at least 1"}
	}
	return nil
}

// SubmitAndWait creates a training job and blocks until the provider reports
// a terminal status, returning the artifact locator on success. A failed job
// is surfaced as *RemoteJobFailure with the provider's message and is not
// retried. When ctx expires first the wait ends with *TimeoutError, but the
// remote job keeps running and can be described under its name.
func (t *Trainer) SubmitAndWait(ctx context.Context, job Job) (string, error) {
	if err := validate(job); err != nil {
		return "", errors.Trace(err)
	}
	if job.Name == "" {
		job.Name = "lda-" + uuid.NewString()
	}
	spec := provider.JobSpec{
		Name:       job.Name,
		Role:       t.role,
		InputPath:  job.InputPath,
		OutputPath: job.OutputPath,
		Hyperparameters: map[string]string{
			"num_topics":      strconv.Itoa(job.Hyperparameters.NumTopics),
			"feature_dim":     strconv.Itoa(job.Hyperparameters.FeatureDim),
			"mini_batch_size": strconv.Itoa(job.Hyperparameters.MiniBatchSize),
			"alpha0":          strconv.FormatFloat(float64(job.Hyperparameters.Alpha0), 'g', -1, 32),
		},
		InstanceType:  job.Resources.InstanceType,
		InstanceCount: job.Resources.InstanceCount,
	}
	if err := t.provider.CreateTrainingJob(ctx, spec); err != nil {
		return "", errors.Trace(err)
	}
	log.Logger().Info("submitted training job, billable compute is running",
		zap.String("job", job.Name),
		zap.String("instance_type", job.Resources.InstanceType),
		zap.Int("instance_count", job.Resources.InstanceCount),
		zap.Int("train_rows", job.TrainRows))
	return t.wait(ctx, job.Name)
}

// wait polls the job status until a terminal state or ctx is done. The
// caller can abandon the wait at any time without corrupting trainer state.
func (t *Trainer) wait(ctx context.Context, name string) (string, error) {
	ticker := time.NewTicker(t.pollInterval)
	defer ticker.Stop()
	for {
		desc, err := t.provider.DescribeTrainingJob(ctx, name)
		if err != nil {
			// a describe cut short by the deadline is a timeout, not a
			// provider failure
			if ctx.Err() != nil {
				return "", &TimeoutError{JobName: name}
			}
			return "", errors.Trace(err)
		}
		switch desc.Status {
		case provider.JobCompleted:
			log.Logger().Info("training job completed",
				zap.String("job", name),
				zap.String("artifact", desc.ArtifactPath))
			return desc.ArtifactPath, nil
		case provider.JobFailed:
			return "", &RemoteJobFailure{JobName: name, Reason: desc.FailureReason}
		}
		select {
		case <-ctx.Done():
			return "", &TimeoutError{JobName: name}
		case <-ticker.C:
		}
	}
}

// Describe reports the current remote state of a job, for callers that
// abandoned a wait and want to check on the job later.
func (t *Trainer) Describe(ctx context.Context, name string) (provider.JobDescription, error) {
	desc, err := t.provider.DescribeTrainingJob(ctx, name)
	return desc, errors.Trace(err)
}
