// Package generator forwards validated email parameters to an external
// text-generation service and returns the generated body.
package generator

import (
	"context"
	"errors"
	"time"

	"mailcraft-backend/models"

	"github.com/sethvargo/go-retry"
)

// ErrUpstream wraps every failure of the generation service.
var ErrUpstream = errors.New("generation service failure")

// Request holds the parameters of a generation call.
type Request struct {
	Purpose     string      `json:"purpose"`
	SubjectLine string      `json:"subjectLine"`
	Recipients  string      `json:"recipients"`
	Senders     string      `json:"senders"`
	MaxLength   int         `json:"maxLength"`
	Tone        models.Tone `json:"tone"`
}

// Generator produces an email body for a request.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
	// Name identifies the backend in logs and metrics.
	Name() string
}

const (
	defaultMaxRetries     = 2
	defaultInitialBackoff = 500 * time.Millisecond
)

// RetryPolicy controls how transient upstream errors are retried.
type RetryPolicy struct {
	MaxRetries     uint64
	InitialBackoff time.Duration
}

func (p RetryPolicy) backoff() retry.Backoff {
	initial := p.InitialBackoff
	if initial <= 0 {
		initial = defaultInitialBackoff
	}
	return retry.WithMaxRetries(p.MaxRetries, retry.NewExponential(initial))
}

// do runs fn under the policy. fn marks errors worth retrying with
// retry.RetryableError; anything else stops immediately.
func (p RetryPolicy) do(ctx context.Context, fn retry.RetryFunc) error {
	return retry.Do(ctx, p.backoff(), fn)
}

// upstreamError tags err as an upstream failure.
func upstreamError(err error) error {
	if err == nil || errors.Is(err, ErrUpstream) {
		return err
	}
	return errors.Join(ErrUpstream, err)
}
