package model

import (
	"errors"
	"fmt"
)

// Word-count bounds for EmailRequest.MaxLength.
const (
	MinMaxLength     = 50
	MaxMaxLength     = 300
	DefaultMaxLength = 150
)

// ErrInvalidRequest is wrapped by every EmailRequest validation failure.
var ErrInvalidRequest = errors.New("invalid email request")

// EmailRequest holds the form fields for one generation attempt. It is created
// by the caller, consumed once and discarded.
type EmailRequest struct {
	Purpose      Purpose
	Tone         Tone
	Recipient    string
	Sender       string
	Company      string
	Subject      string
	Context      string
	MaxLength    int
	AIPreference AIPreference
}

// DefaultEmailRequest returns the values the generator form starts with.
func DefaultEmailRequest() EmailRequest {
	return EmailRequest{
		Purpose:      PurposeThankYou,
		Tone:         ToneCasual,
		MaxLength:    DefaultMaxLength,
		AIPreference: AIPreferenceAuto,
	}
}

// Validate checks the bounded fields. Unknown purposes and tones are accepted
// because the template engine falls back for them.
func (r EmailRequest) Validate() error {
	if r.MaxLength < MinMaxLength || r.MaxLength > MaxMaxLength {
		return fmt.Errorf("%w: max length must be between %d and %d words, got %d",
			ErrInvalidRequest, MinMaxLength, MaxMaxLength, r.MaxLength)
	}

	switch r.AIPreference {
	case AIPreferenceAuto, AIPreferenceGemini, AIPreferenceTemplate:
	default:
		return fmt.Errorf("%w: unknown AI preference %q", ErrInvalidRequest, r.AIPreference)
	}

	return nil
}

// WantsAI reports whether the preference allows calling an AI provider.
func (r EmailRequest) WantsAI() bool {
	return r.AIPreference == AIPreferenceAuto || r.AIPreference == AIPreferenceGemini
}
