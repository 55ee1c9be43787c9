package model

// Purpose identifies what an email is written for.
type Purpose string

const (
	PurposeThankYou       Purpose = "thank_you"
	PurposeJobApplication Purpose = "job_application"
	PurposeMeetingRequest Purpose = "meeting_request"
	PurposeFollowUp       Purpose = "follow_up"
	PurposeComplaint      Purpose = "complaint"
)

// Tone selects the greeting, closing and register of an email.
type Tone string

const (
	ToneCasual   Tone = "casual"
	ToneFormal   Tone = "formal"
	ToneBusiness Tone = "business"
)

// AIPreference controls whether generation may use an AI provider.
type AIPreference string

const (
	AIPreferenceAuto     AIPreference = "auto"     // AI when a credential is available.
	AIPreferenceGemini   AIPreference = "gemini"   // Explicitly requests Google Gemini.
	AIPreferenceTemplate AIPreference = "template" // Never calls a provider.
)

// Provenance records which engine produced a GeneratedEmail.
type Provenance string

const (
	ProvenanceAI       Provenance = "ai"
	ProvenanceTemplate Provenance = "template"
)

// CredentialSource records where a resolved credential came from.
type CredentialSource string

const (
	CredentialSourceStored      CredentialSource = "stored"
	CredentialSourceEnvironment CredentialSource = "environment"
	CredentialSourceNone        CredentialSource = "none"
)
