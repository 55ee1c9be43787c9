package application_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/maildraft/internal/application"
	"github.com/ericfisherdev/maildraft/internal/domain/model"
)

func TestCredentialService_Save(t *testing.T) {
	tests := []struct {
		name      string
		provider  string
		value     string
		wantErr   error
		wantValue string
	}{
		{name: "stores trimmed value", provider: "gemini", value: "  abc123 \n", wantValue: "abc123"},
		{name: "rejects blank value", provider: "gemini", value: "   ", wantErr: application.ErrEmptyCredential},
		{name: "rejects unknown provider", provider: "huggingface", value: "hf_x", wantErr: application.ErrUnknownProvider},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMockCredentialStore()
			svc := application.NewCredentialService(store, &mockCompletionClient{}, nil, discardLogger())

			err := svc.Save(context.Background(), tt.provider, tt.value)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, store.values)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantValue, store.values[tt.provider])
		})
	}
}

func TestCredentialService_SaveWrapsStoreError(t *testing.T) {
	store := newMockCredentialStore()
	store.setErr = errors.New("disk full")
	svc := application.NewCredentialService(store, &mockCompletionClient{}, nil, discardLogger())

	err := svc.Save(context.Background(), "gemini", "key")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestCredentialService_Resolve(t *testing.T) {
	tests := []struct {
		name       string
		stored     string
		env        string
		getErr     error
		wantValue  string
		wantSource model.CredentialSource
	}{
		{name: "stored wins over env", stored: "stored-key", env: "env-key", wantValue: "stored-key", wantSource: model.CredentialSourceStored},
		{name: "env fallback", env: "env-key", wantValue: "env-key", wantSource: model.CredentialSourceEnvironment},
		{name: "store failure falls through to env", getErr: errors.New("locked"), env: "env-key", wantValue: "env-key", wantSource: model.CredentialSourceEnvironment},
		{name: "blank env ignored", env: "  ", wantSource: model.CredentialSourceNone},
		{name: "nothing configured", wantSource: model.CredentialSourceNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMockCredentialStore()
			if tt.stored != "" {
				store.values["gemini"] = tt.stored
			}
			store.getErr = tt.getErr

			svc := application.NewCredentialService(store, &mockCompletionClient{},
				map[string]string{"gemini": tt.env}, discardLogger())

			value, source := svc.Resolve(context.Background(), "gemini")
			assert.Equal(t, tt.wantValue, value)
			assert.Equal(t, tt.wantSource, source)
		})
	}
}

func TestCredentialService_RemoveKeepsEnvFallback(t *testing.T) {
	store := newMockCredentialStore()
	svc := application.NewCredentialService(store, &mockCompletionClient{},
		map[string]string{"gemini": "env-key"}, discardLogger())

	require.NoError(t, svc.Save(context.Background(), "gemini", "stored-key"))
	require.NoError(t, svc.Remove(context.Background(), "gemini"))

	value, source := svc.Resolve(context.Background(), "gemini")
	assert.Equal(t, "env-key", value)
	assert.Equal(t, model.CredentialSourceEnvironment, source)

	err := svc.Remove(context.Background(), "unknown")
	require.ErrorIs(t, err, application.ErrUnknownProvider)
}

func TestCredentialService_StatusDoesNotProbe(t *testing.T) {
	client := &mockCompletionClient{}
	store := newMockCredentialStore()
	store.values["gemini"] = "key"
	svc := application.NewCredentialService(store, client, nil, discardLogger())

	statuses := svc.Status(context.Background())

	require.Len(t, statuses, 1)
	assert.Equal(t, model.ProviderGemini, statuses[0].Provider)
	assert.True(t, statuses[0].HasCredential)
	assert.Equal(t, model.CredentialSourceStored, statuses[0].Source)
	assert.False(t, statuses[0].Connected)
	assert.Equal(t, int32(0), client.probes.Load())
}

func TestCredentialService_CheckConnections(t *testing.T) {
	t.Run("probes with resolved credential", func(t *testing.T) {
		client := &mockCompletionClient{
			probeFn: func(_ context.Context, credential string) bool {
				return credential == "env-key"
			},
		}
		svc := application.NewCredentialService(newMockCredentialStore(), client,
			map[string]string{"gemini": "env-key"}, discardLogger())

		statuses := svc.CheckConnections(context.Background())

		require.Len(t, statuses, 1)
		assert.True(t, statuses[0].Connected)
		assert.Equal(t, model.CredentialSourceEnvironment, statuses[0].Source)
		assert.False(t, statuses[0].CheckedAt.IsZero())
		assert.Equal(t, int32(1), client.probes.Load())
	})

	t.Run("skips probe without credential", func(t *testing.T) {
		client := &mockCompletionClient{}
		svc := application.NewCredentialService(newMockCredentialStore(), client, nil, discardLogger())

		statuses := svc.CheckConnections(context.Background())

		require.Len(t, statuses, 1)
		assert.False(t, statuses[0].HasCredential)
		assert.False(t, statuses[0].Connected)
		assert.Equal(t, int32(0), client.probes.Load())
	})
}

func TestCredentialService_StatusReportsSavedAt(t *testing.T) {
	savedAt := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

	t.Run("stored credential", func(t *testing.T) {
		store := newMockCredentialStore()
		store.values["gemini"] = "key"
		store.savedAt = savedAt
		svc := application.NewCredentialService(store, &mockCompletionClient{}, nil, discardLogger())

		statuses := svc.Status(context.Background())

		require.Len(t, statuses, 1)
		assert.Equal(t, savedAt, statuses[0].SavedAt)
	})

	t.Run("environment credential has no saved time", func(t *testing.T) {
		store := newMockCredentialStore()
		store.savedAt = savedAt
		svc := application.NewCredentialService(store, &mockCompletionClient{},
			map[string]string{"gemini": "env-key"}, discardLogger())

		statuses := svc.Status(context.Background())

		require.Len(t, statuses, 1)
		assert.Equal(t, model.CredentialSourceEnvironment, statuses[0].Source)
		assert.True(t, statuses[0].SavedAt.IsZero())
	})

	t.Run("list failure still reports presence", func(t *testing.T) {
		store := newMockCredentialStore()
		store.values["gemini"] = "key"
		store.listErr = errors.New("database locked")
		svc := application.NewCredentialService(store, &mockCompletionClient{}, nil, discardLogger())

		statuses := svc.Status(context.Background())

		require.Len(t, statuses, 1)
		assert.True(t, statuses[0].HasCredential)
		assert.True(t, statuses[0].SavedAt.IsZero())
	})
}

// rotatingStore returns a different stored key on every Get, as if the key
// were saved again between reads.
type rotatingStore struct {
	*mockCredentialStore
}

func (r rotatingStore) Get(_ context.Context, _ string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gets++
	return fmt.Sprintf("key-%d", r.gets), nil
}

func TestCredentialService_CheckConnectionsResolvesOnce(t *testing.T) {
	store := rotatingStore{newMockCredentialStore()}
	var probed []string
	client := &mockCompletionClient{
		probeFn: func(_ context.Context, credential string) bool {
			probed = append(probed, credential)
			return true
		},
	}
	svc := application.NewCredentialService(store, client, nil, discardLogger())

	statuses := svc.CheckConnections(context.Background())

	require.Len(t, statuses, 1)
	assert.Equal(t, model.CredentialSourceStored, statuses[0].Source)
	assert.Equal(t, []string{"key-1"}, probed)
	assert.Equal(t, 1, store.gets)
}
