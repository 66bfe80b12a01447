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

import "fmt"

// ConfigurationError rejects a job before any remote call is made.
type ConfigurationError struct {
	Field   string
	Message string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("trainer: invalid %s: %s", e.Field, e.Message)
}

// RemoteJobFailure carries the provider's diagnostic text verbatim. The job
// is never resubmitted automatically; the caller decides whether to retry.
type RemoteJobFailure struct {
	JobName string
	Reason  string
}

func (e *RemoteJobFailure) Error() string {
	return fmt.Sprintf("trainer: job %s failed: %s", e.JobName, e.Reason)
}

// TimeoutError reports that the local wait was abandoned. The remote job may
// still be running and stays queryable under JobName; only the wait ended.
type TimeoutError struct {
	JobName string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("trainer: gave up waiting for job %s (the remote job is not cancelled and can be queried independently)", e.JobName)
}
