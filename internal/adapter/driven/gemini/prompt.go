package gemini

import (
	"fmt"
	"strings"

	"github.com/ericfisherdev/maildraft/internal/domain/model"
)

// probePrompt is sent by ProbeConnection.
const probePrompt = "Test connection"

// buildPrompt renders the instruction prompt for req. Every request field is
// embedded, with neutral placeholders for empty values.
func buildPrompt(req model.EmailRequest) string {
	tone := string(req.Tone)

	var b strings.Builder
	fmt.Fprintf(&b, "Generate a %s email for the purpose of %q.\n\n", tone, string(req.Purpose))

	b.WriteString("Email Details:\n")
	fmt.Fprintf(&b, "- To: %s\n", valueOr(req.Recipient, "the recipient"))
	fmt.Fprintf(&b, "- From: %s\n", valueOr(req.Sender, "the sender"))
	fmt.Fprintf(&b, "- Subject: %s\n", valueOr(req.Subject, "Professional Email"))
	fmt.Fprintf(&b, "- Company: %s\n", valueOr(req.Company, "N/A"))
	fmt.Fprintf(&b, "- Context: %s\n", valueOr(req.Context, "General communication"))
	fmt.Fprintf(&b, "- Tone: %s (%s)\n", tone, toneDescription(req.Tone))
	fmt.Fprintf(&b, "- Maximum length: approximately %d words\n\n", req.MaxLength)

	b.WriteString("Please write a complete, well-structured email that:\n")
	fmt.Fprintf(&b, "1. Uses appropriate greeting and closing for the %s tone\n", tone)
	b.WriteString("2. Incorporates the provided context naturally\n")
	b.WriteString("3. Matches the specified purpose\n")
	b.WriteString("4. Maintains professionalism while fitting the requested tone\n")
	b.WriteString("5. Includes a proper subject line\n")
	fmt.Fprintf(&b, "6. Is approximately %d words or less\n\n", req.MaxLength)

	b.WriteString("Format the response as a complete email with subject line.")

	return b.String()
}

func toneDescription(t model.Tone) string {
	switch t {
	case model.ToneCasual:
		return "friendly and approachable"
	case model.ToneFormal:
		return "respectful and professional"
	default:
		return "business professional"
	}
}

// maxOutputTokens budgets roughly four tokens per requested word, capped at 2048.
func maxOutputTokens(maxLength int) int {
	return min(maxLength*4, 2048)
}

func valueOr(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}
