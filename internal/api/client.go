// Package api contains thin per-resource wrappers over the LearnCrew REST
// API. Every wrapper issues exactly one HTTP call, attaches the bearer
// token when one is supplied, and returns the parsed response body or an
// *Error carrying the server-provided message. No retries, no caching.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/learncrew/learncrew-agent/pkg/httpclient"
	"github.com/learncrew/learncrew-agent/pkg/logger"
	"github.com/learncrew/learncrew-agent/pkg/metrics"
	"github.com/learncrew/learncrew-agent/pkg/tracing"
	"go.uber.org/zap"
)

// Client talks to the remote LearnCrew API
type Client struct {
	baseURL string
	http    httpclient.Client
}

// NewClient creates a new API client for the given base URL
func NewClient(baseURL string, httpClient httpclient.Client) *Client {
	return &Client{
		baseURL: baseURL,
		http:    httpClient,
	}
}

// File is one multipart attachment for file-bearing calls
type File struct {
	Field    string
	Name     string
	Contents io.Reader
}

// do issues a single JSON request and decodes the response into out (when
// out is non-nil). Fire-once: no retries and no per-call timeout override.
func (c *Client) do(ctx context.Context, operation, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode %s payload: %w", operation, err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", operation, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.send(ctx, operation, req, token, out)
}

// doMultipart issues a single multipart/form-data request (thread and post
// creation with attachments).
func (c *Client) doMultipart(ctx context.Context, operation, path, token string, fields map[string]string, files []File, out any) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return fmt.Errorf("failed to write %s form field: %w", operation, err)
		}
	}
	for _, file := range files {
		part, err := writer.CreateFormFile(file.Field, file.Name)
		if err != nil {
			return fmt.Errorf("failed to create %s form file: %w", operation, err)
		}
		if _, err := io.Copy(part, file.Contents); err != nil {
			return fmt.Errorf("failed to copy %s attachment: %w", operation, err)
		}
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize %s form: %w", operation, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", operation, err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return c.send(ctx, operation, req, token, out)
}

// send executes the request with auth, tracing, metrics and logging
func (c *Client) send(ctx context.Context, operation string, req *http.Request, token string, out any) error {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("X-Request-Id", uuid.NewString())
	req.Header.Set("Accept", "application/json")

	_, span := tracing.StartSpan(ctx, "api."+operation)
	defer span.End()

	start := time.Now()
	resp, err := c.http.Do(req)
	duration := metrics.MeasureDuration(start)

	if err != nil {
		metrics.UpstreamRequestTotal.WithLabelValues(operation, "error").Inc()
		metrics.UpstreamRequestDuration.WithLabelValues(operation, "error").Observe(duration)
		logger.LogAPICall("learncrew", operation, "error", duration, zap.Error(err))
		return &Error{Operation: operation, Err: err}
	}
	defer resp.Body.Close()

	status := "success"
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		status = "failure"
	}
	metrics.UpstreamRequestTotal.WithLabelValues(operation, status).Inc()
	metrics.UpstreamRequestDuration.WithLabelValues(operation, status).Observe(duration)
	logger.LogAPICall("learncrew", operation, status, duration,
		zap.Int("status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newServerError(operation, resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", operation, err)
	}
	return nil
}

// newServerError builds an *Error from a non-2xx response, preserving the
// server-provided message when present.
func newServerError(operation string, resp *http.Response) *Error {
	apiErr := &Error{
		Operation:  operation,
		StatusCode: resp.StatusCode,
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return apiErr
	}

	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Error != "" {
			apiErr.Message = payload.Error
		} else if payload.Message != "" {
			apiErr.Message = payload.Message
		}
	}
	return apiErr
}
