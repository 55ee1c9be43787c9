package driven

import (
	"context"
	"errors"
	"fmt"

	"github.com/ericfisherdev/maildraft/internal/domain/model"
)

var (
	// ErrMissingCredential is returned when a completion is requested without a credential.
	ErrMissingCredential = errors.New("missing provider credential")

	// ErrMalformedResponse is returned when a successful provider response does
	// not contain generated text.
	ErrMalformedResponse = errors.New("malformed provider response")
)

// ProviderError is returned when the provider answers with a non-success HTTP status.
type ProviderError struct {
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider error (status %d): %s", e.StatusCode, e.Message)
}

// IsProviderFailure reports whether err is a ProviderError or a malformed response.
// Both are handled identically by callers.
func IsProviderFailure(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe) || errors.Is(err, ErrMalformedResponse)
}

// CompletionClient defines the driven port for a generative-language provider.
type CompletionClient interface {
	// RequestCompletion asks the provider to write the email described by req.
	// Returns ErrMissingCredential, *ProviderError or ErrMalformedResponse on failure.
	RequestCompletion(ctx context.Context, req model.EmailRequest, credential string) (string, error)

	// ProbeConnection sends a minimal request and reports whether it succeeded.
	// It returns false for an empty credential and never returns an error.
	ProbeConnection(ctx context.Context, credential string) bool
}
