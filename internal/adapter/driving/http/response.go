package httphandler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ericfisherdev/maildraft/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is the JSON representation of the health check endpoint.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

// EmailRequestBody is the JSON body for the generate endpoint. Omitted fields
// take the form defaults.
type EmailRequestBody struct {
	Purpose      string `json:"purpose"`
	Tone         string `json:"tone"`
	Recipient    string `json:"recipient"`
	Sender       string `json:"sender"`
	Company      string `json:"company"`
	Subject      string `json:"subject"`
	Context      string `json:"context"`
	MaxLength    *int   `json:"max_length"`
	AIPreference string `json:"ai_preference"`
}

// EmailResponse is the JSON representation of a generated email.
type EmailResponse struct {
	ID          string `json:"id"`
	Subject     string `json:"subject"`
	Body        string `json:"body"`
	Text        string `json:"text"`
	Provenance  string `json:"provenance"`
	Status      string `json:"status"`
	Notice      string `json:"notice,omitempty"`
	GeneratedAt string `json:"generated_at"`
}

// OptionResponse is a selectable value with its display label.
type OptionResponse struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// OptionsResponse lists the values the generate endpoint accepts.
type OptionsResponse struct {
	Purposes      []OptionResponse `json:"purposes"`
	Tones         []OptionResponse `json:"tones"`
	AIPreferences []OptionResponse `json:"ai_preferences"`
	MinMaxLength  int              `json:"min_max_length"`
	MaxMaxLength  int              `json:"max_max_length"`
	DefaultLength int              `json:"default_max_length"`
}

// CredentialResponse reports whether a provider has a credential. The value
// itself is never returned.
type CredentialResponse struct {
	Provider      string `json:"provider"`
	Name          string `json:"name"`
	HasCredential bool   `json:"has_credential"`
	Source        string `json:"source"`
	SavedAt       string `json:"saved_at,omitempty"`
}

// ServiceStatusResponse is the JSON representation of a provider probe.
type ServiceStatusResponse struct {
	Provider      string `json:"provider"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	SetupURL      string `json:"setup_url"`
	HasCredential bool   `json:"has_credential"`
	Source        string `json:"source"`
	Connected     bool   `json:"connected"`
	CheckedAt     string `json:"checked_at"`
}

// SaveCredentialRequest is the JSON body for the save credential endpoint.
type SaveCredentialRequest struct {
	Value string `json:"value"`
}

// toEmailRequest overlays the body on the form defaults.
func (b EmailRequestBody) toEmailRequest() model.EmailRequest {
	req := model.DefaultEmailRequest()
	if b.Purpose != "" {
		req.Purpose = model.Purpose(b.Purpose)
	}
	if b.Tone != "" {
		req.Tone = model.Tone(b.Tone)
	}
	if b.MaxLength != nil {
		req.MaxLength = *b.MaxLength
	}
	if b.AIPreference != "" {
		req.AIPreference = model.AIPreference(b.AIPreference)
	}
	req.Recipient = b.Recipient
	req.Sender = b.Sender
	req.Company = b.Company
	req.Subject = b.Subject
	req.Context = b.Context
	return req
}

func toEmailResponse(e model.GeneratedEmail) EmailResponse {
	return EmailResponse{
		ID:          e.ID,
		Subject:     e.Subject,
		Body:        e.Body,
		Text:        e.Text,
		Provenance:  string(e.Provenance),
		Status:      e.Status,
		Notice:      e.Notice,
		GeneratedAt: e.GeneratedAt.UTC().Format(time.RFC3339),
	}
}

func toOptionResponses(opts []model.Option) []OptionResponse {
	resp := make([]OptionResponse, 0, len(opts))
	for _, o := range opts {
		resp = append(resp, OptionResponse{Value: o.Value, Label: o.Label})
	}
	return resp
}

func toCredentialResponse(s model.ServiceStatus) CredentialResponse {
	resp := CredentialResponse{
		Provider:      s.Provider.ID,
		Name:          s.Provider.Name,
		HasCredential: s.HasCredential,
		Source:        string(s.Source),
	}
	if !s.SavedAt.IsZero() {
		resp.SavedAt = s.SavedAt.UTC().Format(time.RFC3339)
	}
	return resp
}

func toServiceStatusResponse(s model.ServiceStatus) ServiceStatusResponse {
	return ServiceStatusResponse{
		Provider:      s.Provider.ID,
		Name:          s.Provider.Name,
		Description:   s.Provider.Description,
		SetupURL:      s.Provider.SetupURL,
		HasCredential: s.HasCredential,
		Source:        string(s.Source),
		Connected:     s.Connected,
		CheckedAt:     s.CheckedAt.UTC().Format(time.RFC3339),
	}
}
