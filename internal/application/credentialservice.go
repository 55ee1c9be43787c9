package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ericfisherdev/maildraft/internal/domain/model"
	"github.com/ericfisherdev/maildraft/internal/domain/port/driven"
)

var (
	// ErrEmptyCredential is returned when a blank credential is saved.
	ErrEmptyCredential = errors.New("credential must not be empty")

	// ErrUnknownProvider is returned for provider IDs not in model.KnownProviders.
	ErrUnknownProvider = errors.New("unknown provider")
)

// CredentialService manages provider credentials. Stored credentials take
// precedence over values supplied through the environment.
type CredentialService struct {
	store    driven.CredentialStore
	client   driven.CompletionClient
	fallback map[string]string
	logger   *slog.Logger
	now      func() time.Time
}

// NewCredentialService creates a CredentialService. fallback maps provider IDs
// to environment-provided credentials and may be nil.
func NewCredentialService(
	store driven.CredentialStore,
	client driven.CompletionClient,
	fallback map[string]string,
	logger *slog.Logger,
) *CredentialService {
	return &CredentialService{
		store:    store,
		client:   client,
		fallback: fallback,
		logger:   logger,
		now:      time.Now,
	}
}

// Save stores a credential for provider after trimming surrounding whitespace.
func (s *CredentialService) Save(ctx context.Context, provider, value string) error {
	if _, ok := model.LookupProvider(provider); !ok {
		return fmt.Errorf("save credential %q: %w", provider, ErrUnknownProvider)
	}

	value = strings.TrimSpace(value)
	if value == "" {
		return ErrEmptyCredential
	}

	if err := s.store.Set(ctx, provider, value); err != nil {
		return fmt.Errorf("save credential %q: %w", provider, err)
	}

	s.logger.Info("credential saved", "provider", provider)
	return nil
}

// Remove deletes the stored credential for provider. An environment fallback,
// if configured, stays in effect.
func (s *CredentialService) Remove(ctx context.Context, provider string) error {
	if _, ok := model.LookupProvider(provider); !ok {
		return fmt.Errorf("remove credential %q: %w", provider, ErrUnknownProvider)
	}

	if err := s.store.Delete(ctx, provider); err != nil {
		return fmt.Errorf("remove credential %q: %w", provider, err)
	}

	s.logger.Info("credential removed", "provider", provider)
	return nil
}

// Resolve returns the credential for provider and where it came from. Store
// failures are logged and treated as an absent stored credential.
func (s *CredentialService) Resolve(ctx context.Context, provider string) (string, model.CredentialSource) {
	stored, err := s.store.Get(ctx, provider)
	if err != nil {
		s.logger.Warn("failed to read stored credential", "provider", provider, "error", err)
	}
	if stored != "" {
		return stored, model.CredentialSourceStored
	}

	if env := strings.TrimSpace(s.fallback[provider]); env != "" {
		return env, model.CredentialSourceEnvironment
	}

	return "", model.CredentialSourceNone
}

// Status reports credential presence for every known provider without
// contacting the provider.
func (s *CredentialService) Status(ctx context.Context) []model.ServiceStatus {
	statuses, _ := s.snapshot(ctx)
	return statuses
}

// CheckConnections is Status plus a live probe of every provider that has a
// credential. Probe failures are reported as Connected=false.
func (s *CredentialService) CheckConnections(ctx context.Context) []model.ServiceStatus {
	statuses, credentials := s.snapshot(ctx)

	for i := range statuses {
		statuses[i].CheckedAt = s.now()
		if !statuses[i].HasCredential {
			continue
		}
		statuses[i].Connected = s.client.ProbeConnection(ctx, credentials[i])

		s.logger.Debug("provider probed",
			"provider", statuses[i].Provider.ID,
			"source", statuses[i].Source,
			"connected", statuses[i].Connected,
		)
	}

	return statuses
}

// snapshot resolves each provider's credential exactly once. The returned
// credentials are index-aligned with the statuses.
func (s *CredentialService) snapshot(ctx context.Context) ([]model.ServiceStatus, []string) {
	providers := model.KnownProviders()
	statuses := make([]model.ServiceStatus, 0, len(providers))
	credentials := make([]string, 0, len(providers))
	savedAt := s.savedAt(ctx)

	for _, p := range providers {
		credential, source := s.Resolve(ctx, p.ID)
		status := model.ServiceStatus{
			Provider:      p,
			HasCredential: source != model.CredentialSourceNone,
			Source:        source,
		}
		if source == model.CredentialSourceStored {
			status.SavedAt = savedAt[p.ID]
		}
		statuses = append(statuses, status)
		credentials = append(credentials, credential)
	}

	return statuses, credentials
}

// savedAt maps provider IDs to the time their stored credential was last
// written. List failures are logged and yield an empty map.
func (s *CredentialService) savedAt(ctx context.Context) map[string]time.Time {
	creds, err := s.store.List(ctx)
	if err != nil {
		s.logger.Warn("failed to list stored credentials", "error", err)
		return nil
	}

	saved := make(map[string]time.Time, len(creds))
	for _, c := range creds {
		saved[c.Service] = c.UpdatedAt
	}
	return saved
}
