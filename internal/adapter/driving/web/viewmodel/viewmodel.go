// Package viewmodel defines presentation-ready structs for templ components.
// View models decouple template rendering from domain model types.
package viewmodel

// OptionViewModel is one entry of a select box.
type OptionViewModel struct {
	Value    string
	Label    string
	Selected bool
}

// FormViewModel holds the generator form state.
type FormViewModel struct {
	Purposes      []OptionViewModel
	Tones         []OptionViewModel
	AIPreferences []OptionViewModel

	Recipient string
	Sender    string
	Company   string
	Subject   string
	Context   string

	MaxLength    int
	MinMaxLength int
	MaxMaxLength int
}

// EmailViewModel holds presentation-ready data for a generated email.
type EmailViewModel struct {
	ID              string
	Subject         string
	Body            string
	Text            string
	ProvenanceLabel string
	IsAI            bool
	Status          string
	Notice          string
	GeneratedAt     string // RFC 3339, rendered in a <time> element.

	// PreviewHTML is sanitized HTML of the body; empty for template output.
	PreviewHTML string
}

// GeneratorPage is the view model for the generator page.
type GeneratorPage struct {
	CSRFToken string
	Form      FormViewModel
	Email     *EmailViewModel
	Error     string
	HasAIKey  bool
}

// ServiceViewModel holds presentation-ready data for one provider row.
type ServiceViewModel struct {
	ProviderID    string
	Name          string
	Description   string
	SetupURL      string
	HasCredential bool
	Stored        bool
	SourceLabel   string
	Connected     bool
	CheckedAt     string
	SavedAt       string
}

// SettingsPage is the view model for the settings page.
type SettingsPage struct {
	CSRFToken string
	Services  []ServiceViewModel
	Flash     string
	Error     string
}
