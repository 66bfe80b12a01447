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
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/cenkalti/backoff/v5"
	"github.com/juju/errors"
)

// HTTP talks to a provider over a JSON REST API. Describe calls retry on
// transport errors since they run inside polling loops; create, invoke and
// delete calls are sent exactly once.
type HTTP struct {
	entryPoint string
	httpClient http.Client
}

func NewHTTP(entryPoint string) *HTTP {
	return &HTTP{entryPoint: entryPoint}
}

// ErrorMessage is a non-success response body surfaced verbatim.
type ErrorMessage string

func (e ErrorMessage) Error() string {
	return string(e)
}

func (c *HTTP) request(ctx context.Context, method, url string, body, result any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return errors.Trace(err)
		}
		reader = bytes.NewReader(encoded)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return errors.Trace(err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Trace(err)
	}
	defer resp.Body.Close()
	buf, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Trace(err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return errors.NotFoundf("%s %s", method, url)
	}
	if resp.StatusCode != http.StatusOK {
		return ErrorMessage(buf)
	}
	if result != nil {
		if err = json.Unmarshal(buf, result); err != nil {
			return errors.Trace(err)
		}
	}
	return nil
}

func (c *HTTP) CreateTrainingJob(ctx context.Context, spec JobSpec) error {
	return c.request(ctx, http.MethodPost, c.entryPoint+"/jobs", spec, nil)
}

func (c *HTTP) DescribeTrainingJob(ctx context.Context, name string) (JobDescription, error) {
	return backoff.Retry(ctx, func() (JobDescription, error) {
		var desc JobDescription
		if err := c.request(ctx, http.MethodGet, c.entryPoint+"/jobs/"+name, nil, &desc); err != nil {
			// the provider answered, do not retry
			if _, answered := errors.Cause(err).(ErrorMessage); answered || errors.Is(err, errors.NotFound) {
				return JobDescription{}, backoff.Permanent(err)
			}
			return JobDescription{}, errors.Trace(err)
		}
		return desc, nil
	}, backoff.WithBackOff(backoff.NewExponentialBackOff()), backoff.WithMaxTries(4))
}

func (c *HTTP) CreateEndpoint(ctx context.Context, spec EndpointSpec) error {
	return c.request(ctx, http.MethodPost, c.entryPoint+"/endpoints", spec, nil)
}

func (c *HTTP) DescribeEndpoint(ctx context.Context, name string) (EndpointDescription, error) {
	return backoff.Retry(ctx, func() (EndpointDescription, error) {
		var desc EndpointDescription
		if err := c.request(ctx, http.MethodGet, c.entryPoint+"/endpoints/"+name, nil, &desc); err != nil {
			if _, answered := errors.Cause(err).(ErrorMessage); answered || errors.Is(err, errors.NotFound) {
				return EndpointDescription{}, backoff.Permanent(err)
			}
			return EndpointDescription{}, errors.Trace(err)
		}
		return desc, nil
	}, backoff.WithBackOff(backoff.NewExponentialBackOff()), backoff.WithMaxTries(4))
}

func (c *HTTP) InvokeEndpoint(ctx context.Context, name, contentType string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.entryPoint+"/endpoints/"+name+"/invocations", bytes.NewReader(body))
	if err != nil {
		return nil, errors.Trace(err)
	}
	req.Header.Set("Content-Type", contentType)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer resp.Body.Close()
	buf, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, ErrorMessage(buf)
	}
	return buf, nil
}

func (c *HTTP) DeleteEndpoint(ctx context.Context, name string) error {
	err := c.request(ctx, http.MethodDelete, c.entryPoint+"/endpoints/"+name, nil, nil)
	if errors.Is(err, errors.NotFound) {
		// already gone
		return nil
	}
	return errors.Trace(err)
}

var _ Provider = &HTTP{}
