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

package provider

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemoryJobLifecycle(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	m.JobPlan = []JobStatus{JobInProgress, JobInProgress, JobCompleted}

	assert.NoError(t, m.CreateTrainingJob(ctx, JobSpec{Name: "j", OutputPath: "s3://bucket/output"}))
	assert.Error(t, m.CreateTrainingJob(ctx, JobSpec{Name: "j"}))

	for i := 0; i < 2; i++ {
		desc, err := m.DescribeTrainingJob(ctx, "j")
		assert.NoError(t, err)
		assert.Equal(t, JobInProgress, desc.Status)
	}
	desc, err := m.DescribeTrainingJob(ctx, "j")
	assert.NoError(t, err)
	assert.Equal(t, JobCompleted, desc.Status)
	assert.Equal(t, "s3://bucket/output/j/model.tar.gz", desc.ArtifactPath)
	// terminal states stick
	desc, err = m.DescribeTrainingJob(ctx, "j")
	assert.NoError(t, err)
	assert.Equal(t, JobCompleted, desc.Status)
}

func TestMemoryJobFailure(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	m.JobPlan = []JobStatus{JobFailed}
	m.FailureReason = "ClientError: batch size exceeds dataset"

	assert.NoError(t, m.CreateTrainingJob(ctx, JobSpec{Name: "j"}))
	desc, err := m.DescribeTrainingJob(ctx, "j")
	assert.NoError(t, err)
	assert.Equal(t, JobFailed, desc.Status)
	assert.Equal(t, "ClientError: batch size exceeds dataset", desc.FailureReason)
}

func TestMemoryEndpointLifecycle(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	m.InvokeFunc = func(contentType string, body []byte) ([]byte, error) {
		return []byte(`{"predictions":[]}`), nil
	}

	assert.NoError(t, m.CreateEndpoint(ctx, EndpointSpec{Name: "e", JobName: "j"}))
	desc, err := m.DescribeEndpoint(ctx, "e")
	assert.NoError(t, err)
	assert.Equal(t, EndpointInService, desc.Status)

	resp, err := m.InvokeEndpoint(ctx, "e", "text/csv", []byte("1,2\n"))
	assert.NoError(t, err)
	assert.JSONEq(t, `{"predictions":[]}`, string(resp))
	assert.Len(t, m.Invocations, 1)

	assert.NoError(t, m.DeleteEndpoint(ctx, "e"))
	assert.Equal(t, 0, m.EndpointCount())
	// deleting an absent endpoint is a no-op
	assert.NoError(t, m.DeleteEndpoint(ctx, "e"))
	_, err = m.InvokeEndpoint(ctx, "e", "text/csv", []byte("1,2\n"))
	assert.Error(t, err)
}
