// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extraction turns raw manuscript text into a structured Manuscript
// by calling a generative backend through an ordered list of candidate
// models, with retry, fallback, and structural repair of truncated output.
package extraction

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// GenerateRequest is one structuring call to a generative backend.
type GenerateRequest struct {
	// Model is the provider's model identifier.
	Model string

	// Prompt is the full instruction block including the manuscript text.
	Prompt string

	// SchemaJSON is an optional JSON-schema-like response description for
	// backends that enforce structured output.
	SchemaJSON string

	// Temperature for sampling. Low values keep reconstruction deterministic.
	Temperature float64

	// MaxOutputTokens caps the response. 0 uses the provider default.
	MaxOutputTokens int
}

// Backend is a generative text service. Implementations return the raw
// response text; classification of the text happens in the client.
type Backend interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}

// transportRetries bounds httputil.DoWithRetry inside a single Generate
// call: one quick replay absorbs a momentary 429/503 blip, while sustained
// overload surfaces as a retryable error so the client owns the longer
// per-model backoff.
const transportRetries = 1

// backendError carries the HTTP status and body of a failed backend call so
// the client can separate transient overload from permanent failures.
type backendError struct {
	status int
	msg    string
}

func (e *backendError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.status, e.msg)
}

// retryableMarkers are message fragments that identify transient
// overload/rate-limit failures regardless of transport.
var retryableMarkers = []string{
	"429",
	"503",
	"rate limit",
	"overloaded",
	"resource_exhausted",
	"unavailable",
	"quota",
}

// IsRetryable reports whether err represents a transient backend failure
// worth retrying on the same model. Status 429 and 5xx are retryable; other
// errors are matched against known overload markers in the message.
func IsRetryable(err error) bool {
	var be *backendError
	if errors.As(err, &be) {
		return be.status == 429 || be.status >= 500
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range retryableMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
