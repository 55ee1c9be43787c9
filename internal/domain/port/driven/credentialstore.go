package driven

import (
	"context"
	"errors"

	"github.com/ericfisherdev/maildraft/internal/domain/model"
)

// ErrEncryptionKeyNotSet is returned when a stored credential was sealed with
// MAILDRAFT_SECRET_KEY but the store was opened without a key.
var ErrEncryptionKeyNotSet = errors.New("encryption key not configured: set MAILDRAFT_SECRET_KEY")

// CredentialStore defines the driven port for provider credential persistence.
// The adapter decides the storage medium and any encryption; this interface
// operates on plaintext values at the domain boundary.
type CredentialStore interface {
	// Set stores or replaces the credential for the given provider.
	Set(ctx context.Context, service, plaintext string) error

	// Get retrieves the plaintext credential for the given provider.
	// Returns ("", nil) if no credential exists for that provider.
	Get(ctx context.Context, service string) (string, error)

	// List returns all stored credentials with plaintext values.
	List(ctx context.Context) ([]model.Credential, error)

	// Delete removes the credential for the given provider. Deleting a missing
	// credential is not an error.
	Delete(ctx context.Context, service string) error
}
