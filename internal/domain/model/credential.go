package model

import "time"

// Credential holds the secret for one AI provider. Service is the provider ID
// ("gemini") and Value is the opaque API key.
type Credential struct {
	ID        int64
	Service   string
	Value     string
	UpdatedAt time.Time
}

// Provider describes an AI provider the application can hold a credential for.
type Provider struct {
	ID          string
	Name        string
	Description string
	SetupURL    string
}

// ProviderGemini is the Google Gemini generative-language provider.
var ProviderGemini = Provider{
	ID:          "gemini",
	Name:        "Google Gemini",
	Description: "Advanced AI model for high-quality email generation",
	SetupURL:    "https://makersuite.google.com/app/apikey",
}

// KnownProviders returns every provider a credential can be stored for.
func KnownProviders() []Provider {
	return []Provider{ProviderGemini}
}

// LookupProvider returns the provider with the given ID.
func LookupProvider(id string) (Provider, bool) {
	for _, p := range KnownProviders() {
		if p.ID == id {
			return p, true
		}
	}
	return Provider{}, false
}

// ServiceStatus is the credential and connectivity state of one provider.
type ServiceStatus struct {
	Provider      Provider
	HasCredential bool
	Source        CredentialSource
	Connected     bool
	CheckedAt     time.Time

	// SavedAt is when the stored credential was last written. Zero unless
	// Source is CredentialSourceStored.
	SavedAt time.Time
}
