// Package httphandler is the JSON API driving adapter.
package httphandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/ericfisherdev/maildraft/internal/application"
	"github.com/ericfisherdev/maildraft/internal/domain/model"
)

// maxBodyBytes bounds request bodies on write endpoints.
const maxBodyBytes = 64 << 10

// Handler is the HTTP driving adapter that serves the REST API.
type Handler struct {
	generation  *application.GenerationService
	credentials *application.CredentialService
	logger      *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(
	generation *application.GenerationService,
	credentials *application.CredentialService,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		generation:  generation,
		credentials: credentials,
		logger:      logger,
	}
}

// RegisterAPIRoutes registers the API routes on mux without middleware.
func RegisterAPIRoutes(mux *http.ServeMux, h *Handler) {
	mux.HandleFunc("GET /api/v1/health", h.Health)
	mux.HandleFunc("GET /api/v1/options", h.Options)
	mux.HandleFunc("POST /api/v1/emails", h.GenerateEmail)
	mux.HandleFunc("GET /api/v1/emails/current", h.CurrentEmail)
	mux.HandleFunc("GET /api/v1/credentials", h.ListCredentials)
	mux.HandleFunc("PUT /api/v1/credentials/{provider}", h.SaveCredential)
	mux.HandleFunc("DELETE /api/v1/credentials/{provider}", h.DeleteCredential)
	mux.HandleFunc("GET /api/v1/services/status", h.ServiceStatus)
}

// ApplyMiddleware applies the recovery and logging middleware to next.
func ApplyMiddleware(next http.Handler, logger *slog.Logger) http.Handler {
	// Recovery innermost so panics are caught before logging.
	wrapped := recoveryMiddleware(logger, next)
	wrapped = loggingMiddleware(logger, wrapped)
	return wrapped
}

// NewServeMux creates an http.Handler with all API routes registered and
// wrapped with logging and recovery middleware.
func NewServeMux(h *Handler, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	RegisterAPIRoutes(mux, h)
	return ApplyMiddleware(mux, logger)
}

// Health reports that the process is serving.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}

// Options lists the accepted purposes, tones, AI preferences and length bounds.
func (h *Handler) Options(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, OptionsResponse{
		Purposes:      toOptionResponses(model.PurposeOptions()),
		Tones:         toOptionResponses(model.ToneOptions()),
		AIPreferences: toOptionResponses(model.AIPreferenceOptions()),
		MinMaxLength:  model.MinMaxLength,
		MaxMaxLength:  model.MaxMaxLength,
		DefaultLength: model.DefaultMaxLength,
	})
}

// GenerateEmail generates an email and makes it the current one.
func (h *Handler) GenerateEmail(w http.ResponseWriter, r *http.Request) {
	var body EmailRequestBody
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req := body.toEmailRequest()
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	email, err := h.generation.TryGenerate(r.Context(), req)
	if errors.Is(err, application.ErrGenerationInProgress) {
		writeError(w, http.StatusConflict, "a generation is already in progress")
		return
	}
	if err != nil {
		h.logger.Error("failed to generate email", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, toEmailResponse(email))
}

// CurrentEmail returns the most recently generated email.
func (h *Handler) CurrentEmail(w http.ResponseWriter, _ *http.Request) {
	email, ok := h.generation.Current()
	if !ok {
		writeError(w, http.StatusNotFound, "no email generated yet")
		return
	}
	writeJSON(w, http.StatusOK, toEmailResponse(email))
}

// ListCredentials reports credential presence per provider.
func (h *Handler) ListCredentials(w http.ResponseWriter, r *http.Request) {
	statuses := h.credentials.Status(r.Context())

	resp := make([]CredentialResponse, 0, len(statuses))
	for _, s := range statuses {
		resp = append(resp, toCredentialResponse(s))
	}

	writeJSON(w, http.StatusOK, resp)
}

// SaveCredential stores the credential for the provider in the path.
func (h *Handler) SaveCredential(w http.ResponseWriter, r *http.Request) {
	provider := r.PathValue("provider")

	var req SaveCredentialRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.credentials.Save(r.Context(), provider, req.Value)
	switch {
	case errors.Is(err, application.ErrUnknownProvider):
		writeError(w, http.StatusNotFound, "unknown provider")
		return
	case errors.Is(err, application.ErrEmptyCredential):
		writeError(w, http.StatusBadRequest, "credential value is required")
		return
	case err != nil:
		h.logger.Error("failed to save credential", "provider", provider, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteCredential removes the stored credential for the provider in the path.
func (h *Handler) DeleteCredential(w http.ResponseWriter, r *http.Request) {
	provider := r.PathValue("provider")

	err := h.credentials.Remove(r.Context(), provider)
	if errors.Is(err, application.ErrUnknownProvider) {
		writeError(w, http.StatusNotFound, "unknown provider")
		return
	}
	if err != nil {
		h.logger.Error("failed to remove credential", "provider", provider, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ServiceStatus probes every provider that has a credential.
func (h *Handler) ServiceStatus(w http.ResponseWriter, r *http.Request) {
	statuses := h.credentials.CheckConnections(r.Context())

	resp := make([]ServiceStatusResponse, 0, len(statuses))
	for _, s := range statuses {
		resp = append(resp, toServiceStatusResponse(s))
	}

	writeJSON(w, http.StatusOK, resp)
}
