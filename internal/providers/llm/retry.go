package llm

import (
	"context"
	"errors"
	"math/rand/v2"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
	"google.golang.org/genai"
)

// RetryProvider retries transient failures with exponential backoff and jitter.
type RetryProvider struct {
	inner      Provider
	maxRetries int
	baseDelay  time.Duration
	log        logrus.FieldLogger
}

func NewRetryProvider(inner Provider, maxRetries int, baseDelay time.Duration, log logrus.FieldLogger) *RetryProvider {
	if baseDelay <= 0 {
		baseDelay = 500 * time.Millisecond
	}
	if log == nil {
		log = logrus.New()
	}
	return &RetryProvider{inner: inner, maxRetries: maxRetries, baseDelay: baseDelay, log: log}
}

func (p *RetryProvider) Close() error { return p.inner.Close() }

func (p *RetryProvider) Complete(ctx context.Context, system, prompt string) (string, error) {
	out, err := p.inner.Complete(ctx, system, prompt)
	for attempt := 1; err != nil && attempt <= p.maxRetries && isRetryable(err); attempt++ {
		delay := p.backoff(attempt)
		p.log.WithFields(logrus.Fields{
			"attempt":     attempt,
			"max_retries": p.maxRetries,
			"delay_ms":    delay.Milliseconds(),
		}).WithError(err).Warn("llm call failed, retrying")

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delay):
		}
		out, err = p.inner.Complete(ctx, system, prompt)
	}
	return out, err
}

// backoff is baseDelay * 2^(attempt-1) with ±30% jitter.
func (p *RetryProvider) backoff(attempt int) time.Duration {
	d := p.baseDelay << (attempt - 1)
	jitter := float64(d) * 0.3
	return time.Duration(float64(d) + (rand.Float64()*2-1)*jitter)
}

func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	status := 0
	var oaErr *openai.APIError
	var oaReqErr *openai.RequestError
	var gErr genai.APIError
	var gErrPtr *genai.APIError
	switch {
	case errors.As(err, &oaErr):
		status = oaErr.HTTPStatusCode
	case errors.As(err, &oaReqErr):
		status = oaReqErr.HTTPStatusCode
	case errors.As(err, &gErr):
		status = gErr.Code
	case errors.As(err, &gErrPtr):
		status = gErrPtr.Code
	}
	if status == 0 {
		// network errors and unknown failures
		return true
	}
	return status == http.StatusTooManyRequests || status >= 500
}
