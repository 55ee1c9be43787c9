// Package application contains use-case orchestration services.
package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/ericfisherdev/maildraft/internal/domain/model"
	"github.com/ericfisherdev/maildraft/internal/domain/port/driven"
)

// ErrGenerationInProgress is returned by TryGenerate while another generation
// is still running.
var ErrGenerationInProgress = errors.New("generation already in progress")

const statusTimeLayout = "15:04:05"

// CredentialResolver looks up the credential for a provider.
type CredentialResolver interface {
	Resolve(ctx context.Context, provider string) (string, model.CredentialSource)
}

// GenerationService produces emails, preferring the AI provider when the
// request allows it and a credential is available, and falling back to the
// template engine otherwise. The latest result is kept in an EmailSlot.
type GenerationService struct {
	client      driven.CompletionClient
	credentials CredentialResolver
	slot        *EmailSlot
	inFlight    *semaphore.Weighted
	logger      *slog.Logger
	now         func() time.Time
}

// NewGenerationService creates a GenerationService with the required dependencies.
func NewGenerationService(
	client driven.CompletionClient,
	credentials CredentialResolver,
	slot *EmailSlot,
	logger *slog.Logger,
) *GenerationService {
	return &GenerationService{
		client:      client,
		credentials: credentials,
		slot:        slot,
		inFlight:    semaphore.NewWeighted(1),
		logger:      logger,
		now:         time.Now,
	}
}

// TryGenerate runs Generate unless another generation holds the in-flight
// slot, in which case it returns ErrGenerationInProgress without waiting.
func (s *GenerationService) TryGenerate(ctx context.Context, req model.EmailRequest) (model.GeneratedEmail, error) {
	if !s.inFlight.TryAcquire(1) {
		return model.GeneratedEmail{}, ErrGenerationInProgress
	}
	defer s.inFlight.Release(1)

	return s.Generate(ctx, req), nil
}

// Generate always returns an email. Provider failures are logged and turned
// into a template email with a notice; the result becomes the current email.
func (s *GenerationService) Generate(ctx context.Context, req model.EmailRequest) model.GeneratedEmail {
	email := s.generate(ctx, req)
	s.slot.Replace(email)

	s.logger.Info("email generated",
		"id", email.ID,
		"purpose", req.Purpose,
		"tone", req.Tone,
		"provenance", email.Provenance,
		"fallback", email.Notice != "",
	)

	return email
}

// Current returns the most recently generated email, if any.
func (s *GenerationService) Current() (model.GeneratedEmail, bool) {
	return s.slot.Get()
}

func (s *GenerationService) generate(ctx context.Context, req model.EmailRequest) model.GeneratedEmail {
	id := uuid.NewString()

	if !req.WantsAI() {
		return s.fromTemplate(id, req, "")
	}

	credential, source := s.credentials.Resolve(ctx, model.ProviderGemini.ID)
	if credential == "" {
		notice := ""
		if req.AIPreference == model.AIPreferenceGemini {
			notice = "A Gemini API key is required for AI generation. Used the template engine instead."
		}
		return s.fromTemplate(id, req, notice)
	}

	text, err := s.client.RequestCompletion(ctx, req, credential)
	if err != nil {
		s.logger.Warn("AI generation failed, falling back to template",
			"id", id,
			"provider", model.ProviderGemini.ID,
			"credential_source", source,
			"error", err,
		)
		notice := fmt.Sprintf("AI generation failed (%s). Used the template engine instead.", failureReason(err))
		return s.fromTemplate(id, req, notice)
	}

	now := s.now()
	subject, body := splitSubject(text, fallbackSubject(req))

	return model.GeneratedEmail{
		ID:          id,
		Subject:     subject,
		Body:        body,
		Text:        text,
		Provenance:  model.ProvenanceAI,
		Status:      "Generated with " + model.ProviderGemini.Name + " at " + now.Format(statusTimeLayout),
		GeneratedAt: now,
	}
}

func (s *GenerationService) fromTemplate(id string, req model.EmailRequest, notice string) model.GeneratedEmail {
	now := s.now()
	text := RenderTemplate(req)
	subject, body := splitSubject(text, fallbackSubject(req))

	return model.GeneratedEmail{
		ID:          id,
		Subject:     subject,
		Body:        body,
		Text:        text,
		Provenance:  model.ProvenanceTemplate,
		Status:      "Generated with the template engine at " + now.Format(statusTimeLayout),
		Notice:      notice,
		GeneratedAt: now,
	}
}

func fallbackSubject(req model.EmailRequest) string {
	if req.Subject != "" {
		return req.Subject
	}
	return req.Purpose.Title()
}

// failureReason maps a completion error to a short user-facing phrase.
func failureReason(err error) string {
	var pe *driven.ProviderError
	switch {
	case errors.As(err, &pe):
		return pe.Message
	case errors.Is(err, driven.ErrMalformedResponse):
		return "unexpected response from Gemini"
	case errors.Is(err, driven.ErrMissingCredential):
		return "missing API key"
	case errors.Is(err, context.DeadlineExceeded):
		return "request timed out"
	default:
		return "could not reach Gemini"
	}
}
