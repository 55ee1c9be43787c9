package application

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/maildraft/internal/domain/model"
)

func wordCount(s string) int {
	return len(strings.Fields(s))
}

func TestRenderTemplate_ThankYouCasualDefaults(t *testing.T) {
	req := model.EmailRequest{
		Purpose:   model.PurposeThankYou,
		Tone:      model.ToneCasual,
		MaxLength: 150,
	}

	got := RenderTemplate(req)

	assert.True(t, strings.HasPrefix(got, "Subject: Thank You\n\nHi there,\n\n"), got)
	assert.Contains(t, got, "\n\nI wanted to take a moment to express my heartfelt gratitude for your kindness and support.")
	assert.True(t, strings.HasSuffix(got, "\n\nBest regards,\nYour Name"), got)
}

func TestRenderTemplate_BusinessClosingIncludesCompany(t *testing.T) {
	req := model.DefaultEmailRequest()
	req.Purpose = model.PurposeJobApplication
	req.Tone = model.ToneBusiness
	req.Sender = "Jane Doe"
	req.Company = "Acme"

	got := RenderTemplate(req)

	assert.True(t, strings.HasSuffix(got, "Best regards,\nJane Doe\nAcme"), got)
	assert.Contains(t, got, "Dear Sir/Madam,")
}

func TestRenderTemplate_ToneFrames(t *testing.T) {
	tests := []struct {
		name         string
		tone         model.Tone
		recipient    string
		company      string
		wantGreeting string
		wantClosing  string
	}{
		{name: "casual default recipient", tone: model.ToneCasual, wantGreeting: "Hi there,", wantClosing: "Best regards,\nSam"},
		{name: "casual named recipient", tone: model.ToneCasual, recipient: "Alex", wantGreeting: "Hi Alex,", wantClosing: "Best regards,\nSam"},
		{name: "formal default recipient", tone: model.ToneFormal, wantGreeting: "Dear Sir/Madam,", wantClosing: "Sincerely,\nSam"},
		{name: "formal named recipient", tone: model.ToneFormal, recipient: "Dr. Lee", wantGreeting: "Dear Dr. Lee,", wantClosing: "Sincerely,\nSam"},
		{name: "business without company", tone: model.ToneBusiness, wantGreeting: "Dear Sir/Madam,", wantClosing: "Best regards,\nSam"},
		{name: "business with company", tone: model.ToneBusiness, company: "Initech", wantGreeting: "Dear Sir/Madam,", wantClosing: "Best regards,\nSam\nInitech"},
		{name: "business whitespace company omitted", tone: model.ToneBusiness, company: "   ", wantGreeting: "Dear Sir/Madam,", wantClosing: "Best regards,\nSam"},
		{name: "unknown tone uses casual", tone: "pirate", recipient: "Alex", wantGreeting: "Hi Alex,", wantClosing: "Best regards,\nSam"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := model.EmailRequest{
				Purpose:   model.PurposeFollowUp,
				Tone:      tt.tone,
				Recipient: tt.recipient,
				Sender:    "Sam",
				Company:   tt.company,
			}

			got := RenderTemplate(req)

			assert.Contains(t, got, "\n\n"+tt.wantGreeting+"\n\n")
			assert.True(t, strings.HasSuffix(got, "\n\n"+tt.wantClosing), got)
		})
	}
}

func TestRenderTemplate_Subject(t *testing.T) {
	req := model.EmailRequest{Purpose: model.PurposeMeetingRequest, Tone: model.ToneFormal}
	assert.True(t, strings.HasPrefix(RenderTemplate(req), "Subject: Meeting Request\n\n"))

	req.Subject = "  Quarterly planning  "
	assert.True(t, strings.HasPrefix(RenderTemplate(req), "Subject: Quarterly planning\n\n"))
}

func TestRenderTemplate_ContextSubstitution(t *testing.T) {
	tests := []struct {
		name    string
		purpose model.Purpose
		context string
		want    string
	}{
		{
			name:    "meeting request with context",
			purpose: model.PurposeMeetingRequest,
			context: "the Q3 roadmap",
			want:    "I would like to schedule a meeting to discuss the Q3 roadmap.",
		},
		{
			name:    "meeting request default context",
			purpose: model.PurposeMeetingRequest,
			want:    "to discuss some important matters that would benefit from your input and expertise.",
		},
		{
			name:    "follow up default context",
			purpose: model.PurposeFollowUp,
			want:    "regarding the matters we discussed.",
		},
		{
			name:    "complaint with context",
			purpose: model.PurposeComplaint,
			context: "the late delivery of order 1234",
			want:    "a concern regarding the late delivery of order 1234.",
		},
		{
			name:    "job application default context",
			purpose: model.PurposeJobApplication,
			want:    "esteemed organization. Based on my research and experience",
		},
		{
			name:    "context with only whitespace uses default",
			purpose: model.PurposeThankYou,
			context: "  \t ",
			want:    "gratitude for your kindness and support.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := model.EmailRequest{Purpose: tt.purpose, Tone: model.ToneCasual, Context: tt.context}
			got := RenderTemplate(req)

			assert.Contains(t, got, tt.want)
			assert.NotContains(t, got, contextSlot)
		})
	}
}

func TestRenderTemplate_EveryBodyHasOneContextSlot(t *testing.T) {
	for purpose, body := range purposeBodies {
		assert.Equal(t, 1, strings.Count(body.text, contextSlot), purpose)
		assert.NotEmpty(t, body.defaultContext, purpose)
	}
}

func TestLimitWords(t *testing.T) {
	const closing = "Best regards,\nSam"

	tests := []struct {
		name     string
		email    string
		maxWords int
		want     string
	}{
		{
			name:     "under limit unchanged",
			email:    "One two three.",
			maxWords: 5,
			want:     "One two three.",
		},
		{
			name:     "exactly at limit unchanged",
			email:    "One two three.",
			maxWords: 3,
			want:     "One two three.",
		},
		{
			name:     "cut back to sentence end",
			email:    "Subject: Hi\n\nFirst sentence here. Second sentence runs long",
			maxWords: 7,
			want:     "Subject: Hi\n\nFirst sentence here.\n\n" + closing,
		},
		{
			name:     "no period keeps word cut and still closes",
			email:    "alpha beta gamma delta epsilon",
			maxWords: 2,
			want:     "alpha beta\n\n" + closing,
		},
		{
			name:     "period at index zero is not a boundary",
			email:    ".alpha beta gamma",
			maxWords: 2,
			want:     ".alpha beta\n\n" + closing,
		},
		{
			name:     "cut inside closing keeps a single closing",
			email:    "Subject: Hi\n\nHi there,\n\nThanks.\n\n" + closing,
			maxWords: 6,
			want:     "Subject: Hi\n\nHi there,\n\nThanks.\n\n" + closing,
		},
		{
			name:     "zero disables limit",
			email:    "alpha beta gamma",
			maxWords: 0,
			want:     "alpha beta gamma",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, limitWords(tt.email, closing, tt.maxWords))
		})
	}
}

func TestRenderTemplate_DottedSignatureClosesOnce(t *testing.T) {
	req := model.EmailRequest{
		Purpose: model.PurposeThankYou,
		Tone:    model.ToneBusiness,
		Sender:  "J. Smith",
		Company: "Acme Inc. Ltd",
	}
	full := RenderTemplate(req)
	closing := "Best regards,\nJ. Smith\nAcme Inc. Ltd"
	require.True(t, strings.HasSuffix(full, "\n\n"+closing))

	// Limits that land inside the closing block.
	total := wordCount(full)
	for maxLength := total - wordCount(closing); maxLength < total; maxLength++ {
		req.MaxLength = maxLength
		got := RenderTemplate(req)

		assert.Equal(t, 1, strings.Count(got, "Best regards,"), "maxLength %d", maxLength)
		assert.True(t, strings.HasSuffix(got, "someday.\n\n"+closing), "maxLength %d: %q", maxLength, got)
	}
}

func TestCutAfterWords(t *testing.T) {
	got, over := cutAfterWords("a  b\n\nc d", 3)
	require.True(t, over)
	assert.Equal(t, "a  b\n\nc", got)

	got, over = cutAfterWords("  a b  ", 2)
	assert.False(t, over)
	assert.Equal(t, "  a b  ", got)
}

func TestSplitSubject(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		wantSubject string
		wantBody    string
	}{
		{name: "plain subject line", text: "Subject: Thanks!\n\nHi Bo,\n\nThanks.", wantSubject: "Thanks!", wantBody: "Hi Bo,\n\nThanks."},
		{name: "bold markdown subject", text: "**Subject: Meeting**\nDear team,", wantSubject: "Meeting", wantBody: "Dear team,"},
		{name: "bold label only", text: "**Subject:** Meeting\nDear team,", wantSubject: "Meeting", wantBody: "Dear team,"},
		{name: "heading subject", text: "## subject: Follow up\nHello", wantSubject: "Follow up", wantBody: "Hello"},
		{name: "no subject line", text: "Hello there,\nBody", wantSubject: "Fallback", wantBody: "Hello there,\nBody"},
		{name: "empty subject value", text: "Subject:\nBody", wantSubject: "Fallback", wantBody: "Body"},
		{name: "leading blank lines", text: "\n\nSubject: X\nY", wantSubject: "X", wantBody: "Y"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subject, body := splitSubject(tt.text, "Fallback")
			assert.Equal(t, tt.wantSubject, subject)
			assert.Equal(t, tt.wantBody, body)
		})
	}
}

func genPurpose() gopter.Gen {
	return gen.OneConstOf(
		model.PurposeThankYou,
		model.PurposeJobApplication,
		model.PurposeMeetingRequest,
		model.PurposeFollowUp,
		model.PurposeComplaint,
	)
}

func genTone() gopter.Gen {
	return gen.OneConstOf(model.ToneCasual, model.ToneFormal, model.ToneBusiness)
}

// genDottedName yields names like "J. Smith" so periods appear in closings.
func genDottedName() gopter.Gen {
	return gen.OneConstOf("", "Sam", "J. Smith", "Acme Inc.", "A. B. C. Ltd")
}

func isKnownPurpose(p model.Purpose) bool {
	_, ok := purposeBodies[p]
	return ok
}

func isKnownTone(t model.Tone) bool {
	return t == model.ToneCasual || t == model.ToneFormal || t == model.ToneBusiness
}

func TestProperty_TemplateEngine(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("unknown_tone_uses_casual_pair", prop.ForAll(
		func(tone string, purpose model.Purpose, recipient, sender string) bool {
			req := model.EmailRequest{Purpose: purpose, Tone: model.Tone(tone), Recipient: recipient, Sender: sender}
			casual := req
			casual.Tone = model.ToneCasual
			return RenderTemplate(req) == RenderTemplate(casual)
		},
		gen.Identifier().SuchThat(func(s string) bool { return !isKnownTone(model.Tone(s)) }),
		genPurpose(),
		gen.AlphaString(),
		gen.AlphaString(),
	))

	properties.Property("unknown_purpose_uses_thank_you_body", prop.ForAll(
		func(purpose string, tone model.Tone, context string) bool {
			req := model.EmailRequest{Purpose: model.Purpose(purpose), Tone: tone, Context: context}
			thankYou := req
			thankYou.Purpose = model.PurposeThankYou
			return bodyFor(req) == bodyFor(thankYou) &&
				strings.Contains(RenderTemplate(req), bodyFor(thankYou))
		},
		gen.Identifier().SuchThat(func(s string) bool { return !isKnownPurpose(model.Purpose(s)) }),
		genTone(),
		gen.AlphaString(),
	))

	properties.Property("rendering_is_idempotent", prop.ForAll(
		func(purpose model.Purpose, tone model.Tone, context, company string, maxLength int) bool {
			req := model.EmailRequest{Purpose: purpose, Tone: tone, Context: context, Company: company, MaxLength: maxLength}
			return RenderTemplate(req) == RenderTemplate(req)
		},
		genPurpose(),
		genTone(),
		gen.AlphaString(),
		gen.AlphaString(),
		gen.IntRange(model.MinMaxLength, model.MaxMaxLength),
	))

	properties.Property("truncation_respects_limit_and_sentence_boundary", prop.ForAll(
		func(purpose model.Purpose, tone model.Tone, context, sender, company string, maxLength int) bool {
			req := model.EmailRequest{
				Purpose: purpose, Tone: tone, Context: context,
				Sender: sender, Company: company, MaxLength: maxLength,
			}
			unlimited := req
			unlimited.MaxLength = 0
			full := RenderTemplate(unlimited)
			got := RenderTemplate(req)

			if wordCount(full) <= maxLength {
				return got == full
			}

			closing := frameFor(req).closing
			if !strings.HasSuffix(got, "\n\n"+closing) || strings.Count(got, closing) != 1 {
				return false
			}
			kept := strings.TrimSuffix(got, "\n\n"+closing)
			if wordCount(kept) > maxLength {
				return false
			}

			span, _ := cutAfterWords(full, maxLength)
			if prefix := strings.TrimSuffix(full, "\n\n"+closing); len(span) > len(prefix) {
				span = prefix
			}
			if strings.LastIndex(span, ".") > 0 {
				return strings.HasSuffix(kept, ".")
			}
			return kept == span
		},
		genPurpose(),
		genTone(),
		gen.AlphaString(),
		genDottedName(),
		genDottedName(),
		gen.IntRange(1, 200),
	))

	properties.TestingRun(t)
}
