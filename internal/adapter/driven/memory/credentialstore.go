// Package memory provides an in-process CredentialStore for ephemeral runs.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ericfisherdev/maildraft/internal/domain/model"
	"github.com/ericfisherdev/maildraft/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.CredentialStore = (*CredentialStore)(nil)

// CredentialStore keeps credentials in a mutex-guarded map. Contents are lost
// when the process exits.
type CredentialStore struct {
	mu     sync.RWMutex
	nextID int64
	creds  map[string]model.Credential
	now    func() time.Time
}

// NewCredentialStore creates an empty store.
func NewCredentialStore() *CredentialStore {
	return &CredentialStore{
		creds: make(map[string]model.Credential),
		now:   time.Now,
	}
}

// Set stores or replaces the credential for service.
func (s *CredentialStore) Set(_ context.Context, service, plaintext string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cred, ok := s.creds[service]
	if !ok {
		s.nextID++
		cred = model.Credential{ID: s.nextID, Service: service}
	}
	cred.Value = plaintext
	cred.UpdatedAt = s.now().UTC()
	s.creds[service] = cred

	return nil
}

// Get returns ("", nil) when no credential exists for service.
func (s *CredentialStore) Get(_ context.Context, service string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds[service].Value, nil
}

// List returns all credentials ordered by service.
func (s *CredentialStore) List(_ context.Context) ([]model.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	creds := make([]model.Credential, 0, len(s.creds))
	for _, c := range s.creds {
		creds = append(creds, c)
	}
	sort.Slice(creds, func(i, j int) bool { return creds[i].Service < creds[j].Service })

	return creds, nil
}

// Delete removes the credential for service, if any.
func (s *CredentialStore) Delete(_ context.Context, service string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.creds, service)
	return nil
}
