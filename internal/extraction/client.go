// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extraction

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/pdiddy/manuscript-press/internal/prompt"
	"github.com/pdiddy/manuscript-press/pkg/types"
)

// backoffBase controls the base duration for exponential backoff between
// retries of a transient failure. Tests override this to avoid real sleeps.
var backoffBase = 2 * time.Second

const defaultMaxAttempts = 3

// Outcome classifies one extraction attempt.
type Outcome string

const (
	OutcomeSuccess   Outcome = "success"
	OutcomeRetryable Outcome = "retryable_failure"
	OutcomeFatal     Outcome = "fatal_failure"
)

// Attempt records one call to one candidate model. Attempts are transient
// diagnostics, surfaced through the progress writer and the Result, never
// persisted.
type Attempt struct {
	Model   string
	Number  int
	Outcome Outcome
	Err     error
}

// Result is a successful extraction plus provenance about how it was won.
type Result struct {
	Manuscript *types.Manuscript

	// Model is the candidate that produced the accepted response.
	Model string

	// Recovered is true when the response needed structural repair.
	Recovered bool

	// Attempts lists every attempt across all candidates, in order.
	Attempts []Attempt
}

// Client drives the extraction state machine over an ordered candidate
// list. Exactly one extraction runs per Run call; candidates and attempts
// are tried strictly in order, never raced.
type Client struct {
	cfg      types.ExtractionConfig
	backends map[string]Backend
}

// NewClient builds a Client. backends maps provider names ("gemini",
// "anthropic") to implementations; candidates whose provider has no backend
// are skipped with a fatal outcome for that model.
func NewClient(cfg types.ExtractionConfig, backends map[string]Backend) *Client {
	if len(cfg.Models) == 0 {
		cfg.Models = []types.ModelCandidate{
			{Provider: "gemini", Name: "gemini-2.5-flash"},
			{Provider: "gemini", Name: "gemini-2.5-pro"},
		}
	}
	if cfg.MaxAttemptsPerModel <= 0 {
		cfg.MaxAttemptsPerModel = defaultMaxAttempts
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.1
	}
	if cfg.Recovery == "" {
		cfg.Recovery = types.RecoverPlaceholder
	}
	return &Client{cfg: cfg, backends: backends}
}

// state is one node of the extraction state machine.
type state int

const (
	stateSelectingModel state = iota
	stateAttempting
	stateSucceeded
	stateExhausted
)

// Run executes the extraction state machine:
//
//	SelectingModel -> Attempting
//	Attempting     -> Succeeded            (valid or repaired response)
//	Attempting     -> Attempting           (retryable failure, after backoff)
//	Attempting     -> SelectingModel       (fatal failure or attempts spent)
//	SelectingModel -> Exhausted            (no candidates left)
//
// Progress lines go to w. On exhaustion the returned error wraps the last
// underlying failure.
func (c *Client) Run(ctx context.Context, p prompt.Prompt, figures []types.Figure, w io.Writer) (*Result, error) {
	result := &Result{}

	var (
		st        = stateSelectingModel
		candidate int
		attempt   int
		lastErr   error
	)

	for {
		switch st {
		case stateSelectingModel:
			if candidate >= len(c.cfg.Models) {
				st = stateExhausted
				continue
			}
			attempt = 0
			st = stateAttempting

		case stateAttempting:
			model := c.cfg.Models[candidate]
			attempt++

			if attempt > c.cfg.MaxAttemptsPerModel {
				candidate++
				st = stateSelectingModel
				continue
			}

			outcome, err := c.attempt(ctx, model, p, figures, result)
			result.Attempts = append(result.Attempts, Attempt{
				Model:   model.Name,
				Number:  attempt,
				Outcome: outcome,
				Err:     err,
			})

			switch outcome {
			case OutcomeSuccess:
				result.Model = model.Name
				st = stateSucceeded

			case OutcomeRetryable:
				lastErr = err
				fmt.Fprintf(w, "retrying %s (attempt %d/%d): %v\n", model.Name, attempt, c.cfg.MaxAttemptsPerModel, err)
				if attempt >= c.cfg.MaxAttemptsPerModel {
					candidate++
					st = stateSelectingModel
					continue
				}
				backoff := time.Duration(math.Pow(2, float64(attempt-1))) * backoffBase
				select {
				case <-ctx.Done():
					return nil, ctx.Err()
				case <-time.After(backoff):
				}

			case OutcomeFatal:
				lastErr = err
				fmt.Fprintf(w, "model %s failed: %v\n", model.Name, err)
				candidate++
				st = stateSelectingModel
			}

		case stateSucceeded:
			return result, nil

		case stateExhausted:
			if lastErr == nil {
				lastErr = fmt.Errorf("no candidate models configured")
			}
			return nil, fmt.Errorf(
				"all %d candidate model(s) exhausted (reduce the input size or switch to manual mode): %w",
				len(c.cfg.Models), lastErr)
		}
	}
}

// attempt performs a single backend call and classifies the outcome. On a
// parseable (or repairable) response it fills result.Manuscript.
func (c *Client) attempt(ctx context.Context, model types.ModelCandidate, p prompt.Prompt, figures []types.Figure, result *Result) (Outcome, error) {
	backend, ok := c.backends[model.Provider]
	if !ok {
		return OutcomeFatal, fmt.Errorf("no backend for provider %q", model.Provider)
	}

	text, err := backend.Generate(ctx, GenerateRequest{
		Model:           model.Name,
		Prompt:          p.Text,
		SchemaJSON:      p.Schema.Describe(),
		Temperature:     c.cfg.Temperature,
		MaxOutputTokens: c.cfg.MaxOutputTokens,
	})
	if err != nil {
		if IsRetryable(err) {
			return OutcomeRetryable, err
		}
		return OutcomeFatal, err
	}

	text = StripCodeFences(text)
	if strings.TrimSpace(text) == "" {
		return OutcomeRetryable, fmt.Errorf("model %s returned empty text", model.Name)
	}

	var raw RawExtractionResult
	if err := json.Unmarshal([]byte(text), &raw); err == nil {
		if !raw.Complete() {
			// Valid JSON missing required fields takes the same recovery
			// path as malformed output.
			return c.recover(text, figures, result)
		}
		result.Manuscript = raw.Normalize(figures, false)
		return OutcomeSuccess, nil
	}

	return c.recover(text, figures, result)
}

// recover applies structural repair to a malformed or schema-incomplete
// response. Under the placeholder policy a repaired-but-incomplete document
// is accepted with backfilled fields; under the fail policy it is fatal for
// the current model.
func (c *Client) recover(text string, figures []types.Figure, result *Result) (Outcome, error) {
	repaired := RepairTruncatedJSON(text)

	var raw RawExtractionResult
	if err := json.Unmarshal([]byte(repaired), &raw); err != nil {
		return OutcomeFatal, fmt.Errorf("response unparseable after structural repair: %w", err)
	}

	if !raw.Complete() && c.cfg.Recovery == types.RecoverFail {
		return OutcomeFatal, fmt.Errorf("repaired response missing required fields (title/sections)")
	}

	result.Manuscript = raw.Normalize(figures, true)
	result.Recovered = true
	return OutcomeSuccess, nil
}
