// Package web implements the HTML GUI driving adapter using templ components.
package web

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/ericfisherdev/maildraft/internal/adapter/driving/web/templates"
	"github.com/ericfisherdev/maildraft/internal/adapter/driving/web/templates/pages"
	vm "github.com/ericfisherdev/maildraft/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/maildraft/internal/application"
	"github.com/ericfisherdev/maildraft/internal/domain/model"
)

const appTitle = "MailDraft"

// Flash messages shown after a settings redirect, keyed by the "done" query value.
var settingsFlash = map[string]string{
	"saved":   "API key saved.",
	"removed": "API key removed.",
}

// Handler is the web GUI driving adapter that serves HTML via templ components.
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

// Generator renders the form with defaults and the current email, if any.
func (h *Handler) Generator(w http.ResponseWriter, r *http.Request) {
	page := vm.GeneratorPage{
		CSRFToken: csrfToken(w, r),
		Form:      toFormViewModel(model.DefaultEmailRequest()),
		HasAIKey:  h.hasAIKey(r),
	}
	if email, ok := h.generation.Current(); ok {
		page.Email = toEmailViewModel(email)
	}

	h.render(w, r, http.StatusOK, "generator", pages.Generator(page))
}

// Generate handles the form submission and renders the page with the result.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	if !validateCSRF(r) {
		http.Error(w, "invalid CSRF token", http.StatusForbidden)
		return
	}

	req, formErr := parseEmailForm(r)

	page := vm.GeneratorPage{
		CSRFToken: csrfToken(w, r),
		Form:      toFormViewModel(req),
		HasAIKey:  h.hasAIKey(r),
	}

	if formErr == nil {
		formErr = req.Validate()
	}
	if formErr != nil {
		page.Error = formErr.Error()
		h.render(w, r, http.StatusBadRequest, "generator", pages.Generator(page))
		return
	}

	email, err := h.generation.TryGenerate(r.Context(), req)
	if errors.Is(err, application.ErrGenerationInProgress) {
		page.Error = "An email is already being generated. Please wait for it to finish."
		if current, ok := h.generation.Current(); ok {
			page.Email = toEmailViewModel(current)
		}
		h.render(w, r, http.StatusConflict, "generator", pages.Generator(page))
		return
	}
	if err != nil {
		h.logger.Error("failed to generate email", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	page.Email = toEmailViewModel(email)
	h.render(w, r, http.StatusOK, "generator", pages.Generator(page))
}

// Settings renders credential management and live service status.
func (h *Handler) Settings(w http.ResponseWriter, r *http.Request) {
	page := vm.SettingsPage{
		CSRFToken: csrfToken(w, r),
		Services:  toServiceViewModels(h.credentials.CheckConnections(r.Context())),
		Flash:     settingsFlash[r.URL.Query().Get("done")],
	}

	h.render(w, r, http.StatusOK, "settings", pages.Settings(page))
}

// SaveCredential stores the submitted API key and redirects back to settings.
func (h *Handler) SaveCredential(w http.ResponseWriter, r *http.Request) {
	if !validateCSRF(r) {
		http.Error(w, "invalid CSRF token", http.StatusForbidden)
		return
	}

	provider := r.FormValue("provider")
	err := h.credentials.Save(r.Context(), provider, r.FormValue("value"))
	switch {
	case err == nil:
		http.Redirect(w, r, "/settings?done=saved", http.StatusSeeOther)
	case errors.Is(err, application.ErrEmptyCredential):
		h.renderSettingsError(w, r, http.StatusBadRequest, "Please enter an API key.")
	case errors.Is(err, application.ErrUnknownProvider):
		h.renderSettingsError(w, r, http.StatusBadRequest, "Unknown provider.")
	default:
		h.logger.Error("failed to save credential", "provider", provider, "error", err)
		h.renderSettingsError(w, r, http.StatusInternalServerError, "The API key could not be saved.")
	}
}

// DeleteCredential removes the stored API key and redirects back to settings.
func (h *Handler) DeleteCredential(w http.ResponseWriter, r *http.Request) {
	if !validateCSRF(r) {
		http.Error(w, "invalid CSRF token", http.StatusForbidden)
		return
	}

	provider := r.FormValue("provider")
	err := h.credentials.Remove(r.Context(), provider)
	switch {
	case err == nil:
		http.Redirect(w, r, "/settings?done=removed", http.StatusSeeOther)
	case errors.Is(err, application.ErrUnknownProvider):
		h.renderSettingsError(w, r, http.StatusBadRequest, "Unknown provider.")
	default:
		h.logger.Error("failed to remove credential", "provider", provider, "error", err)
		h.renderSettingsError(w, r, http.StatusInternalServerError, "The API key could not be removed.")
	}
}

func (h *Handler) renderSettingsError(w http.ResponseWriter, r *http.Request, status int, message string) {
	page := vm.SettingsPage{
		CSRFToken: csrfToken(w, r),
		Services:  toServiceViewModels(h.credentials.Status(r.Context())),
		Error:     message,
	}
	h.render(w, r, status, "settings", pages.Settings(page))
}

// render wraps component in the layout and writes it with status.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, page string, component templ.Component) {
	layout := templates.Layout(appTitle, component)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := layout.Render(r.Context(), w); err != nil {
		h.logger.Error("failed to render page", "page", page, "error", err)
	}
}

func (h *Handler) hasAIKey(r *http.Request) bool {
	_, source := h.credentials.Resolve(r.Context(), model.ProviderGemini.ID)
	return source != model.CredentialSourceNone
}

// parseEmailForm reads the generator form. Missing selects keep their
// defaults; a non-numeric length is reported as an error.
func parseEmailForm(r *http.Request) (model.EmailRequest, error) {
	req := model.DefaultEmailRequest()

	if v := r.FormValue("purpose"); v != "" {
		req.Purpose = model.Purpose(v)
	}
	if v := r.FormValue("tone"); v != "" {
		req.Tone = model.Tone(v)
	}
	if v := r.FormValue("ai_preference"); v != "" {
		req.AIPreference = model.AIPreference(v)
	}
	req.Recipient = r.FormValue("recipient")
	req.Sender = r.FormValue("sender")
	req.Company = r.FormValue("company")
	req.Subject = r.FormValue("subject")
	req.Context = r.FormValue("context")

	if v := strings.TrimSpace(r.FormValue("max_length")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return req, errors.New("maximum length must be a whole number of words")
		}
		req.MaxLength = n
	}

	return req, nil
}
