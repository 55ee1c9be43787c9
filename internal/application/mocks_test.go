package application_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ericfisherdev/maildraft/internal/domain/model"
	"github.com/ericfisherdev/maildraft/internal/domain/port/driven"
)

// --- Mock implementations ---

type mockCompletionClient struct {
	requestFn func(ctx context.Context, req model.EmailRequest, credential string) (string, error)
	probeFn   func(ctx context.Context, credential string) bool

	calls  atomic.Int32
	probes atomic.Int32
}

func (m *mockCompletionClient) RequestCompletion(ctx context.Context, req model.EmailRequest, credential string) (string, error) {
	m.calls.Add(1)
	if m.requestFn == nil {
		return "", driven.ErrMalformedResponse
	}
	return m.requestFn(ctx, req, credential)
}

func (m *mockCompletionClient) ProbeConnection(ctx context.Context, credential string) bool {
	m.probes.Add(1)
	if m.probeFn == nil {
		return false
	}
	return m.probeFn(ctx, credential)
}

type mockCredentialStore struct {
	mu     sync.Mutex
	values map[string]string
	getErr  error
	setErr  error
	listErr error
	savedAt time.Time
	gets    int
}

func newMockCredentialStore() *mockCredentialStore {
	return &mockCredentialStore{values: make(map[string]string)}
}

func (m *mockCredentialStore) Set(_ context.Context, service, plaintext string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.values[service] = plaintext
	return nil
}

func (m *mockCredentialStore) Get(_ context.Context, service string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	if m.getErr != nil {
		return "", m.getErr
	}
	return m.values[service], nil
}

func (m *mockCredentialStore) List(_ context.Context) ([]model.Credential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	creds := make([]model.Credential, 0, len(m.values))
	for service, value := range m.values {
		creds = append(creds, model.Credential{Service: service, Value: value, UpdatedAt: m.savedAt})
	}
	return creds, nil
}

func (m *mockCredentialStore) Delete(_ context.Context, service string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, service)
	return nil
}

type staticResolver struct {
	value  string
	source model.CredentialSource
}

func (r staticResolver) Resolve(_ context.Context, _ string) (string, model.CredentialSource) {
	return r.value, r.source
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
