package model

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Option is a selectable form value with its display label.
type Option struct {
	Value string
	Label string
}

// PurposeOptions lists the purposes offered by the generator form.
func PurposeOptions() []Option {
	return []Option{
		{Value: string(PurposeThankYou), Label: "Thank You"},
		{Value: string(PurposeJobApplication), Label: "Job Application"},
		{Value: string(PurposeMeetingRequest), Label: "Meeting Request"},
		{Value: string(PurposeFollowUp), Label: "Follow Up"},
		{Value: string(PurposeComplaint), Label: "Professional Complaint"},
	}
}

// ToneOptions lists the tones offered by the generator form.
func ToneOptions() []Option {
	return []Option{
		{Value: string(ToneCasual), Label: "Casual (Friendly)"},
		{Value: string(ToneFormal), Label: "Formal (Respectful)"},
		{Value: string(ToneBusiness), Label: "Business (Professional)"},
	}
}

// AIPreferenceOptions lists the AI preferences offered by the generator form.
func AIPreferenceOptions() []Option {
	return []Option{
		{Value: string(AIPreferenceAuto), Label: "Auto (Recommended)"},
		{Value: string(AIPreferenceGemini), Label: "Google Gemini"},
		{Value: string(AIPreferenceTemplate), Label: "Template Only"},
	}
}

// Title derives a subject-style title from the purpose value,
// e.g. "job_application" becomes "Job Application".
func (p Purpose) Title() string {
	words := strings.ReplaceAll(string(p), "_", " ")
	return cases.Title(language.English).String(words)
}
