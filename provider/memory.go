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
	"sync"

	"github.com/juju/errors"
)

// Memory is an in-process provider for tests and dry runs. Each created job
// walks through JobPlan, one status per describe call, sticking on the last
// entry; endpoints walk through EndpointPlan the same way. Invocations are
// answered by InvokeFunc.
type Memory struct {
	mu sync.Mutex

	// JobPlan scripts the statuses returned by successive describe calls on
	// a job. Defaults to a single Completed entry.
	JobPlan []JobStatus
	// FailureReason is attached to jobs and endpoints that reach Failed.
	FailureReason string
	// EndpointPlan scripts endpoint statuses. Defaults to InService.
	EndpointPlan []EndpointStatus
	// InvokeFunc answers endpoint invocations.
	InvokeFunc func(contentType string, body []byte) ([]byte, error)

	jobs      map[string]*memoryJob
	endpoints map[string]*memoryEndpoint

	// Invocations records the body of every invoke call in order.
	Invocations [][]byte
}

type memoryJob struct {
	spec  JobSpec
	plan  []JobStatus
	calls int
}

type memoryEndpoint struct {
	spec  EndpointSpec
	plan  []EndpointStatus
	calls int
}

func NewMemory() *Memory {
	return &Memory{
		jobs:      make(map[string]*memoryJob),
		endpoints: make(map[string]*memoryEndpoint),
	}
}

// JobCount returns the number of jobs ever created.
func (m *Memory) JobCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.jobs)
}

// EndpointCount returns the number of live endpoints.
func (m *Memory) EndpointCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.endpoints)
}

func (m *Memory) CreateTrainingJob(_ context.Context, spec JobSpec) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exist := m.jobs[spec.Name]; exist {
		return errors.AlreadyExistsf("job %s", spec.Name)
	}
	plan := m.JobPlan
	if len(plan) == 0 {
		plan = []JobStatus{JobCompleted}
	}
	m.jobs[spec.Name] = &memoryJob{spec: spec, plan: plan}
	return nil
}

func (m *Memory) DescribeTrainingJob(ctx context.Context, name string) (JobDescription, error) {
	// fail like a remote describe whose caller already gave up
	if err := ctx.Err(); err != nil {
		return JobDescription{}, errors.Trace(err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	job, exist := m.jobs[name]
	if !exist {
		return JobDescription{}, errors.NotFoundf("job %s", name)
	}
	status := job.plan[min(job.calls, len(job.plan)-1)]
	job.calls++
	desc := JobDescription{Name: name, Status: status}
	switch status {
	case JobCompleted:
		desc.ArtifactPath = job.spec.OutputPath + "/" + name + "/model.tar.gz"
	case JobFailed:
		desc.FailureReason = m.FailureReason
	}
	return desc, nil
}

func (m *Memory) CreateEndpoint(_ context.Context, spec EndpointSpec) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exist := m.endpoints[spec.Name]; exist {
		return errors.AlreadyExistsf("endpoint %s", spec.Name)
	}
	plan := m.EndpointPlan
	if len(plan) == 0 {
		plan = []EndpointStatus{EndpointInService}
	}
	m.endpoints[spec.Name] = &memoryEndpoint{spec: spec, plan: plan}
	return nil
}

func (m *Memory) DescribeEndpoint(ctx context.Context, name string) (EndpointDescription, error) {
	if err := ctx.Err(); err != nil {
		return EndpointDescription{}, errors.Trace(err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	endpoint, exist := m.endpoints[name]
	if !exist {
		return EndpointDescription{}, errors.NotFoundf("endpoint %s", name)
	}
	status := endpoint.plan[min(endpoint.calls, len(endpoint.plan)-1)]
	endpoint.calls++
	desc := EndpointDescription{Name: name, Status: status}
	if status == EndpointFailed {
		desc.FailureReason = m.FailureReason
	}
	return desc, nil
}

func (m *Memory) InvokeEndpoint(_ context.Context, name, contentType string, body []byte) ([]byte, error) {
	m.mu.Lock()
	endpoint, exist := m.endpoints[name]
	invoke := m.InvokeFunc
	if exist {
		m.Invocations = append(m.Invocations, body)
	}
	m.mu.Unlock()
	if !exist {
		return nil, errors.NotFoundf("endpoint %s", name)
	}
	if invoke == nil {
		return nil, errors.NotImplementedf("invoke on endpoint %s", endpoint.spec.Name)
	}
	return invoke(contentType, body)
}

func (m *Memory) DeleteEndpoint(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	// deleting an absent endpoint is a no-op
	delete(m.endpoints, name)
	return nil
}

var _ Provider = &Memory{}
