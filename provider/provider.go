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

// Package provider defines the boundary to the remote training and inference
// service. The service is opaque: it fits the model inside its own containers
// and serves predictions from hosted endpoints. This package only encodes
// requests and decodes responses at that boundary, so the pipeline can run
// against any implementation, including the in-memory one used in tests.
package provider

import "context"

// JobStatus is the lifecycle state of a remote training job. Transitions are
// forward only: InProgress may become Completed or Failed, terminal states
// never change.
type JobStatus string

const (
	JobInProgress JobStatus = "InProgress"
	JobCompleted  JobStatus = "Completed"
	JobFailed     JobStatus = "Failed"
)

// Terminal reports whether the job has finished, successfully or not.
func (s JobStatus) Terminal() bool {
	return s == JobCompleted || s == JobFailed
}

// EndpointStatus is the lifecycle state of a hosted inference endpoint.
type EndpointStatus string

const (
	EndpointCreating  EndpointStatus = "Creating"
	EndpointInService EndpointStatus = "InService"
	EndpointFailed    EndpointStatus = "Failed"
)

// JobSpec describes a training job submission.
type JobSpec struct {
	Name            string            `json:"name"`
	Role            string            `json:"role"`
	InputPath       string            `json:"input_path"`
	OutputPath      string            `json:"output_path"`
	Hyperparameters map[string]string `json:"hyperparameters"`
	InstanceType    string            `json:"instance_type"`
	InstanceCount   int               `json:"instance_count"`
}

// JobDescription is the provider's view of a training job.
type JobDescription struct {
	Name   string    `json:"name"`
	Status JobStatus `json:"status"`
	// FailureReason carries the provider's diagnostic text verbatim when
	// Status is Failed.
	FailureReason string `json:"failure_reason,omitempty"`
	// ArtifactPath locates the trained model archive when Status is
	// Completed.
	ArtifactPath string `json:"artifact_path,omitempty"`
}

// EndpointSpec describes an inference endpoint backed by the model of a
// completed training job.
type EndpointSpec struct {
	Name          string `json:"name"`
	JobName       string `json:"job_name"`
	InstanceType  string `json:"instance_type"`
	InstanceCount int    `json:"instance_count"`
}

// EndpointDescription is the provider's view of an endpoint.
type EndpointDescription struct {
	Name          string         `json:"name"`
	Status        EndpointStatus `json:"status"`
	FailureReason string         `json:"failure_reason,omitempty"`
}

// Provider is the remote compute service. Create calls start billable
// resources; Describe calls are free and safe to poll.
type Provider interface {
	// CreateTrainingJob starts a training job. Billable.
	CreateTrainingJob(ctx context.Context, spec JobSpec) error
	// DescribeTrainingJob reports the current state of a job. A job remains
	// queryable after a local wait is abandoned.
	DescribeTrainingJob(ctx context.Context, name string) (JobDescription, error)
	// CreateEndpoint starts a hosted inference endpoint. Billable until
	// deleted.
	CreateEndpoint(ctx context.Context, spec EndpointSpec) error
	// DescribeEndpoint reports the current state of an endpoint.
	DescribeEndpoint(ctx context.Context, name string) (EndpointDescription, error)
	// InvokeEndpoint sends one synchronous prediction request and returns
	// the raw response body.
	InvokeEndpoint(ctx context.Context, name, contentType string, body []byte) ([]byte, error)
	// DeleteEndpoint tears an endpoint down. Deleting an endpoint that does
	// not exist is not an error.
	DeleteEndpoint(ctx context.Context, name string) error
}
