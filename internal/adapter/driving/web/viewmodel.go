package web

import (
	"time"

	vm "github.com/ericfisherdev/maildraft/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/maildraft/internal/domain/model"
)

// toFormViewModel converts a request into form state with the matching
// options selected.
func toFormViewModel(req model.EmailRequest) vm.FormViewModel {
	return vm.FormViewModel{
		Purposes:      toOptionViewModels(model.PurposeOptions(), string(req.Purpose)),
		Tones:         toOptionViewModels(model.ToneOptions(), string(req.Tone)),
		AIPreferences: toOptionViewModels(model.AIPreferenceOptions(), string(req.AIPreference)),
		Recipient:     req.Recipient,
		Sender:        req.Sender,
		Company:       req.Company,
		Subject:       req.Subject,
		Context:       req.Context,
		MaxLength:     req.MaxLength,
		MinMaxLength:  model.MinMaxLength,
		MaxMaxLength:  model.MaxMaxLength,
	}
}

func toOptionViewModels(opts []model.Option, selected string) []vm.OptionViewModel {
	vms := make([]vm.OptionViewModel, 0, len(opts))
	for _, o := range opts {
		vms = append(vms, vm.OptionViewModel{
			Value:    o.Value,
			Label:    o.Label,
			Selected: o.Value == selected,
		})
	}
	return vms
}

// toEmailViewModel converts a GeneratedEmail. Only AI output gets a markdown
// preview; template output is plain text.
func toEmailViewModel(e model.GeneratedEmail) *vm.EmailViewModel {
	view := &vm.EmailViewModel{
		ID:              e.ID,
		Subject:         e.Subject,
		Body:            e.Body,
		Text:            e.Text,
		ProvenanceLabel: "Template",
		IsAI:            e.IsAI(),
		Status:          e.Status,
		Notice:          e.Notice,
		GeneratedAt:     e.GeneratedAt.UTC().Format(time.RFC3339),
	}
	if e.IsAI() {
		view.ProvenanceLabel = model.ProviderGemini.Name
		view.PreviewHTML = RenderMarkdown(e.Body)
	}
	return view
}

func toServiceViewModels(statuses []model.ServiceStatus) []vm.ServiceViewModel {
	vms := make([]vm.ServiceViewModel, 0, len(statuses))
	for _, s := range statuses {
		checkedAt := ""
		if !s.CheckedAt.IsZero() {
			checkedAt = s.CheckedAt.Format("15:04:05")
		}
		vms = append(vms, vm.ServiceViewModel{
			ProviderID:    s.Provider.ID,
			Name:          s.Provider.Name,
			Description:   s.Provider.Description,
			SetupURL:      s.Provider.SetupURL,
			HasCredential: s.HasCredential,
			Stored:        s.Source == model.CredentialSourceStored,
			SourceLabel:   sourceLabel(s.Source),
			Connected:     s.Connected,
			CheckedAt:     checkedAt,
			SavedAt:       formatSavedAt(s.SavedAt),
		})
	}
	return vms
}

func formatSavedAt(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("2006-01-02 15:04 MST")
}

func sourceLabel(s model.CredentialSource) string {
	switch s {
	case model.CredentialSourceStored:
		return "Saved key"
	case model.CredentialSourceEnvironment:
		return "Environment variable"
	default:
		return "Not configured"
	}
}
