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

// Package infer deploys a trained topic model behind a hosted endpoint and
// queries it for topic mixtures. Endpoints bill until released, so every
// deploy must be paired with a release, on error paths included.
package infer

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/juju/errors"
	"github.com/ldakit/ldakit/base/log"
	"github.com/ldakit/ldakit/dataset"
	"github.com/ldakit/ldakit/provider"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// EndpointError reports a failed or malformed prediction response.
type EndpointError struct {
	Endpoint string
	Message  string
}

func (e *EndpointError) Error() string {
	return fmt.Sprintf("infer: endpoint %s: %s", e.Endpoint, e.Message)
}

// Client deploys and queries hosted endpoints.
type Client struct {
	provider provider.Provider
	// topics is the fitted topic count; every returned mixture must have
	// exactly this many entries.
	topics int
	// batchLimit is the largest number of rows per invocation; larger inputs
	// are split into sequential requests.
	batchLimit   int
	pollInterval time.Duration
}

func NewClient(p provider.Provider, topics, batchLimit int, pollInterval time.Duration) *Client {
	return &Client{
		provider:     p,
		topics:       topics,
		batchLimit:   batchLimit,
		pollInterval: pollInterval,
	}
}

// Endpoint is a handle to a hosted, billable endpoint. Release it when done.
type Endpoint struct {
	name     string
	client   *Client
	released bool
}

// Name identifies the endpoint at the provider.
func (e *Endpoint) Name() string {
	return e.name
}

// Deploy provisions an endpoint serving the model of a completed training
// job and blocks until it is in service. The endpoint bills from this call
// until Release. If the endpoint fails to come up, it is deleted before the
// error is returned.
func (c *Client) Deploy(ctx context.Context, jobName, instanceType string, instanceCount int) (*Endpoint, error) {
	name := jobName + "-" + uuid.NewString()[:8]
	spec := provider.EndpointSpec{
		Name:          name,
		JobName:       jobName,
		InstanceType:  instanceType,
		InstanceCount: instanceCount,
	}
	if err := c.provider.CreateEndpoint(ctx, spec); err != nil {
		return nil, errors.Trace(err)
	}
	log.Logger().Info("creating endpoint, billable until released",
		zap.String("endpoint", name),
		zap.String("instance_type", instanceType),
		zap.Int("instance_count", instanceCount))
	endpoint := &Endpoint{name: name, client: c}
	if err := c.waitInService(ctx, name); err != nil {
		// the endpoint may still be billing, tear it down before reporting
		endpoint.ReleaseQuietly()
		return nil, errors.Trace(err)
	}
	return endpoint, nil
}

func (c *Client) waitInService(ctx context.Context, name string) error {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()
	for {
		desc, err := c.provider.DescribeEndpoint(ctx, name)
		if err != nil {
			// a describe cut short by the deadline is a timeout, not a
			// provider failure
			if ctx.Err() != nil {
				return &EndpointError{Endpoint: name, Message: "gave up waiting for deployment: " + ctx.Err().Error()}
			}
			return errors.Trace(err)
		}
		switch desc.Status {
		case provider.EndpointInService:
			log.Logger().Info("endpoint in service", zap.String("endpoint", name))
			return nil
		case provider.EndpointFailed:
			return &EndpointError{Endpoint: name, Message: desc.FailureReason}
		}
		select {
		case <-ctx.Done():
			return &EndpointError{Endpoint: name, Message: "gave up waiting for deployment: " + ctx.Err().Error()}
		case <-ticker.C:
		}
	}
}

type prediction struct {
	TopicMixture []float32 `json:"topic_mixture"`
}

type invocationResponse struct {
	Predictions []prediction `json:"predictions"`
}

// Predict sends the rows of a matrix to the endpoint and returns one topic
// mixture per row, in row order. Inputs larger than the batch limit are
// split into sequential requests.
func (c *Client) Predict(ctx context.Context, endpoint *Endpoint, m *dataset.Matrix) ([][]float32, error) {
	if endpoint.released {
		return nil, &EndpointError{Endpoint: endpoint.name, Message: "endpoint already released"}
	}
	mixtures := make([][]float32, 0, m.Rows())
	for _, batch := range lo.Chunk(lo.Range(m.Rows()), c.batchLimit) {
		body := encodeRows(m, batch)
		resp, err := c.provider.InvokeEndpoint(ctx, endpoint.name, "text/csv", body)
		if err != nil {
			return nil, &EndpointError{Endpoint: endpoint.name, Message: err.Error()}
		}
		var decoded invocationResponse
		if err = json.Unmarshal(resp, &decoded); err != nil {
			return nil, &EndpointError{Endpoint: endpoint.name, Message: "malformed response: " + err.Error()}
		}
		if len(decoded.Predictions) != len(batch) {
			return nil, &EndpointError{Endpoint: endpoint.name,
				Message: fmt.Sprintf("sent %d rows, received %d predictions", len(batch), len(decoded.Predictions))}
		}
		for _, p := range decoded.Predictions {
			if len(p.TopicMixture) != c.topics {
				return nil, &EndpointError{Endpoint: endpoint.name,
					Message: fmt.Sprintf("mixture of %d entries, model has %d topics", len(p.TopicMixture), c.topics)}
			}
			mixtures = append(mixtures, p.TopicMixture)
		}
	}
	return mixtures, nil
}

// encodeRows renders the selected matrix rows as CSV, one line per row.
func encodeRows(m *dataset.Matrix, rows []int) []byte {
	var builder strings.Builder
	for _, i := range rows {
		row := m.Row(i)
		for j, v := range row {
			if j > 0 {
				builder.WriteByte(',')
			}
			builder.WriteString(strconv.FormatFloat(float64(v), 'g', -1, 32))
		}
		builder.WriteByte('\n')
	}
	return []byte(builder.String())
}

// Release tears the endpoint down and stops billing. It is idempotent:
// releasing twice, or releasing an endpoint the provider already deleted, is
// a no-op.
func (e *Endpoint) Release(ctx context.Context) error {
	if e.released {
		return nil
	}
	if err := e.client.provider.DeleteEndpoint(ctx, e.name); err != nil {
		return errors.Trace(err)
	}
	e.released = true
	log.Logger().Info("endpoint released", zap.String("endpoint", e.name))
	return nil
}

// ReleaseQuietly releases the endpoint and logs any failure instead of
// returning it, so cleanup cannot mask the error that triggered it.
// Intended for defer.
func (e *Endpoint) ReleaseQuietly() {
	if err := e.Release(context.Background()); err != nil {
		log.Logger().Error("failed to release endpoint",
			zap.String("endpoint", e.name), zap.Error(err))
	}
}
