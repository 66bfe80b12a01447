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

package trainer

import (
	"context"
	"testing"
	"time"

	"github.com/ldakit/ldakit/provider"
	"github.com/stretchr/testify/assert"
)

func validJob() Job {
	return Job{
		InputPath:  "s3://bucket/train.rec",
		OutputPath: "s3://bucket/output",
		TrainRows:  9500,
		Hyperparameters: Hyperparameters{
			NumTopics:     10,
			FeatureDim:    25000,
			MiniBatchSize: 256,
			Alpha0:        1.0,
		},
		Resources: Resources{InstanceType: "ml.c4.xlarge", InstanceCount: 2},
	}
}

func TestSubmitAndWaitCompleted(t *testing.T) {
	m := provider.NewMemory()
	m.JobPlan = []provider.JobStatus{provider.JobInProgress, provider.JobCompleted}
	trainer := New(m, "arn:provider:role/training", time.Millisecond)

	job := validJob()
	job.Name = "j"
	artifact, err := trainer.SubmitAndWait(context.Background(), job)
	assert.NoError(t, err)
	assert.Equal(t, "s3://bucket/output/j/model.tar.gz", artifact)
}

func TestSubmitAndWaitFailed(t *testing.T) {
	m := provider.NewMemory()
	m.JobPlan = []provider.JobStatus{provider.JobInProgress, provider.JobFailed}
	m.FailureReason = "AlgorithmError: failed to converge"
	trainer := New(m, "arn:provider:role/training", time.Millisecond)

	_, err := trainer.SubmitAndWait(context.Background(), validJob())
	var failure *RemoteJobFailure
	assert.ErrorAs(t, err, &failure)
	// the provider's message is surfaced verbatim
	assert.Equal(t, "AlgorithmError: failed to converge", failure.Reason)
	// the failed job was submitted exactly once, never retried
	assert.Equal(t, 1, m.JobCount())
}

func TestSubmitAndWaitTimeout(t *testing.T) {
	m := provider.NewMemory()
	m.JobPlan = []provider.JobStatus{provider.JobInProgress}
	trainer := New(m, "arn:provider:role/training", time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	job := validJob()
	job.Name = "j"
	_, err := trainer.SubmitAndWait(ctx, job)
	var timeout *TimeoutError
	assert.ErrorAs(t, err, &timeout)
	assert.Equal(t, "j", timeout.JobName)

	// the remote job is not cancelled and stays queryable
	desc, err := trainer.Describe(context.Background(), "j")
	assert.NoError(t, err)
	assert.Equal(t, provider.JobInProgress, desc.Status)
}

func TestSubmitAndWaitDeadlineDuringDescribe(t *testing.T) {
	m := provider.NewMemory()
	m.JobPlan = []provider.JobStatus{provider.JobInProgress}
	trainer := New(m, "arn:provider:role/training", time.Millisecond)

	// the deadline elapses while the describe call is in flight, so the
	// failure surfaces from the provider, not from the ticker select
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	job := validJob()
	job.Name = "j"
	_, err := trainer.SubmitAndWait(ctx, job)
	var timeout *TimeoutError
	assert.ErrorAs(t, err, &timeout)
	assert.Equal(t, "j", timeout.JobName)

	desc, err := trainer.Describe(context.Background(), "j")
	assert.NoError(t, err)
	assert.Equal(t, provider.JobInProgress, desc.Status)
}

func TestValidationBeforeRemoteCall(t *testing.T) {
	m := provider.NewMemory()
	trainer := New(m, "arn:provider:role/training", time.Millisecond)
	ctx := context.Background()

	// batch size larger than the training set
	job := validJob()
	job.Hyperparameters.MiniBatchSize = job.TrainRows + 1
	_, err := trainer.SubmitAndWait(ctx, job)
	var confErr *ConfigurationError
	assert.ErrorAs(t, err, &confErr)

	// degenerate split with no training rows
	job = validJob()
	job.TrainRows = 0
	_, err = trainer.SubmitAndWait(ctx, job)
	assert.ErrorAs(t, err, &confErr)

	// too few topics
	job = validJob()
	job.Hyperparameters.NumTopics = 1
	_, err = trainer.SubmitAndWait(ctx, job)
	assert.ErrorAs(t, err, &confErr)

	// non-positive concentration prior
	job = validJob()
	job.Hyperparameters.Alpha0 = 0
	_, err = trainer.SubmitAndWait(ctx, job)
	assert.ErrorAs(t, err, &confErr)

	// no remote call was made for any rejected job
	assert.Equal(t, 0, m.JobCount())
}

func TestGeneratedJobName(t *testing.T) {
	m := provider.NewMemory()
	trainer := New(m, "arn:provider:role/training", time.Millisecond)

	artifact, err := trainer.SubmitAndWait(context.Background(), validJob())
	assert.NoError(t, err)
	assert.NotEmpty(t, artifact)
	assert.Equal(t, 1, m.JobCount())
}
