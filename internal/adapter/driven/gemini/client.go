// Package gemini implements the CompletionClient port against the Google
// Generative Language REST API.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ericfisherdev/maildraft/internal/domain/model"
	"github.com/ericfisherdev/maildraft/internal/domain/port/driven"
)

// DefaultEndpoint is the generateContent endpoint of the Gemini 1.5 Flash model.
const DefaultEndpoint = "https://generativelanguage.googleapis.com/v1beta/models/gemini-1.5-flash:generateContent"

// Sampling parameters sent with every completion request.
const (
	temperature = 0.7
	topP        = 0.8
	topK        = 40

	probeMaxOutputTokens = 10

	// maxErrorBody bounds how much of an error response is read.
	maxErrorBody = 64 << 10
)

// Compile-time interface satisfaction check.
var _ driven.CompletionClient = (*Client)(nil)

// Client issues generateContent requests. The credential travels as the
// "key" query parameter.
type Client struct {
	httpClient *http.Client
	endpoint   string
	logger     *slog.Logger
}

// NewClient creates a Client for endpoint with the given request timeout.
// An empty endpoint selects DefaultEndpoint.
func NewClient(endpoint string, timeout time.Duration, logger *slog.Logger) *Client {
	return NewClientWithHTTPClient(&http.Client{Timeout: timeout}, endpoint, logger)
}

// NewClientWithHTTPClient creates a Client with a custom http.Client.
// This constructor is intended for testing, allowing injection of an httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, endpoint string, logger *slog.Logger) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		httpClient: httpClient,
		endpoint:   endpoint,
		logger:     logger,
	}
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generationConfig struct {
	MaxOutputTokens int      `json:"maxOutputTokens"`
	Temperature     *float64 `json:"temperature,omitempty"`
	TopP            *float64 `json:"topP,omitempty"`
	TopK            *int     `json:"topK,omitempty"`
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content *struct {
			Parts []struct {
				Text *string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

type errorResponse struct {
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// RequestCompletion asks the model to write the email described by req and
// returns the trimmed text of the first candidate. No network call is made
// when credential is empty.
func (c *Client) RequestCompletion(ctx context.Context, req model.EmailRequest, credential string) (string, error) {
	if strings.TrimSpace(credential) == "" {
		return "", driven.ErrMissingCredential
	}

	t, p, k := temperature, topP, topK
	body := generateRequest{
		Contents: []content{{Parts: []part{{Text: buildPrompt(req)}}}},
		GenerationConfig: generationConfig{
			MaxOutputTokens: maxOutputTokens(req.MaxLength),
			Temperature:     &t,
			TopP:            &p,
			TopK:            &k,
		},
	}

	start := time.Now()
	resp, err := c.post(ctx, credential, body)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	c.logger.Debug("gemini response",
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &driven.ProviderError{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(resp.Body),
		}
	}

	var decoded generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decoding generateContent response: %w", driven.ErrMalformedResponse)
	}

	text, ok := firstCandidateText(decoded)
	if !ok {
		return "", fmt.Errorf("generateContent response has no candidate text: %w", driven.ErrMalformedResponse)
	}

	return text, nil
}

// ProbeConnection sends a minimal request and reports whether it succeeded.
// It returns false for an empty credential and for any transport or HTTP failure.
func (c *Client) ProbeConnection(ctx context.Context, credential string) bool {
	if strings.TrimSpace(credential) == "" {
		return false
	}

	body := generateRequest{
		Contents:         []content{{Parts: []part{{Text: probePrompt}}}},
		GenerationConfig: generationConfig{MaxOutputTokens: probeMaxOutputTokens},
	}

	resp, err := c.post(ctx, credential, body)
	if err != nil {
		c.logger.Warn("gemini probe failed", "error", err)
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))

	return resp.StatusCode >= 200 && resp.StatusCode <= 299
}

func (c *Client) post(ctx context.Context, credential string, body generateRequest) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encoding generateContent request: %w", err)
	}

	endpoint, err := withKey(c.endpoint, credential)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating generateContent request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// url.Error embeds the request URL, which carries the key.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			return nil, fmt.Errorf("posting generateContent request: %w", uerr.Err)
		}
		return nil, fmt.Errorf("posting generateContent request: %w", err)
	}

	return resp, nil
}

func withKey(endpoint, credential string) (string, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("parsing endpoint: %w", err)
	}
	q := u.Query()
	q.Set("key", credential)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func firstCandidateText(r generateResponse) (string, bool) {
	if len(r.Candidates) == 0 || r.Candidates[0].Content == nil {
		return "", false
	}
	parts := r.Candidates[0].Content.Parts
	if len(parts) == 0 || parts[0].Text == nil {
		return "", false
	}
	text := strings.TrimSpace(*parts[0].Text)
	if text == "" {
		return "", false
	}
	return text, true
}

// errorMessage extracts error.message from an error body, or "Unknown error".
func errorMessage(body io.Reader) string {
	var decoded errorResponse
	if err := json.NewDecoder(io.LimitReader(body, maxErrorBody)).Decode(&decoded); err != nil {
		return "Unknown error"
	}
	if decoded.Error == nil || strings.TrimSpace(decoded.Error.Message) == "" {
		return "Unknown error"
	}
	return decoded.Error.Message
}
