package application

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/ericfisherdev/maildraft/internal/domain/model"
)

// contextSlot marks where a purpose body takes the request's context text.
const contextSlot = "{context}"

// Placeholders used when the corresponding field is left empty.
const (
	defaultCasualRecipient = "there"
	defaultFormalRecipient = "Sir/Madam"
	defaultSender          = "Your Name"
)

// purposeBody is a fixed paragraph template with a single context slot.
type purposeBody struct {
	text           string
	defaultContext string
}

var purposeBodies = map[model.Purpose]purposeBody{
	model.PurposeThankYou: {
		text: "I wanted to take a moment to express my heartfelt gratitude for {context}. " +
			"Your thoughtfulness truly means a great deal to me, and I feel fortunate to know someone as generous and caring as you.\n\n" +
			"Your support has made a real difference, and I want you to know how much I appreciate everything you've done. " +
			"It's people like you who make the world a brighter place.\n\n" +
			"Thank you once again for your generosity and kindness. I hope I can return the favor someday.",
		defaultContext: "your kindness and support",
	},
	model.PurposeJobApplication: {
		text: "I am writing to express my strong interest in the position at your esteemed organization. {context}\n\n" +
			"My background and skills align well with the requirements, and I am particularly excited about the opportunity to contribute to your company's continued success. " +
			"I am confident that my experience and enthusiasm would make me an asset to your organization.\n\n" +
			"I have attached my resume for your review and would welcome the opportunity to discuss how I can contribute to your team. " +
			"Thank you for considering my application, and I look forward to hearing from you.",
		defaultContext: "Based on my research and experience, I believe I would be a valuable addition to your team.",
	},
	model.PurposeMeetingRequest: {
		text: "I hope this email finds you well. I would like to schedule a meeting to discuss {context}.\n\n" +
			"The discussion would be valuable for moving forward effectively, and I believe your insights would be instrumental in achieving our goals. " +
			"I am flexible with timing and can accommodate your schedule.\n\n" +
			"Please let me know your availability, and I will arrange the meeting accordingly. " +
			"The discussion should take approximately 30-45 minutes and can be conducted in person or via video call, whichever is more convenient for you.",
		defaultContext: "some important matters that would benefit from your input and expertise",
	},
	model.PurposeFollowUp: {
		text: "I wanted to follow up on our previous conversation regarding {context}. " +
			"I have been working on the items we talked about and wanted to provide you with an update on the progress.\n\n" +
			"I have made good headway on the action items and believe we are moving in the right direction. " +
			"I wanted to ensure we remain aligned on the next steps and address any questions you might have.\n\n" +
			"Please let me know if you need any additional information from me or if there's anything else I can do to support our objectives. " +
			"I appreciate your continued collaboration on this matter.",
		defaultContext: "the matters we discussed",
	},
	model.PurposeComplaint: {
		text: "I am writing to bring to your attention a concern regarding {context}. " +
			"While I value our relationship, I believe this matter needs to be addressed to ensure we can continue working together effectively.\n\n" +
			"The situation has caused some inconvenience, and I would appreciate your assistance in resolving it promptly. " +
			"I am confident that we can work together to find a satisfactory solution that addresses the issue comprehensively.\n\n" +
			"I look forward to your response and to resolving this matter quickly. " +
			"Thank you for your attention to this concern, and I appreciate your commitment to customer satisfaction.",
		defaultContext: "a service issue that requires prompt attention",
	},
}

// toneFrame is the greeting and closing pair for a tone.
type toneFrame struct {
	greeting string
	closing  string
}

// RenderTemplate assembles an email from fixed templates. It performs no I/O
// and returns identical output for identical requests.
func RenderTemplate(req model.EmailRequest) string {
	frame := frameFor(req)
	body := bodyFor(req)

	subject := strings.TrimSpace(req.Subject)
	if subject == "" {
		subject = req.Purpose.Title()
	}

	email := fmt.Sprintf("Subject: %s\n\n%s\n\n%s\n\n%s", subject, frame.greeting, body, frame.closing)

	return limitWords(email, frame.closing, req.MaxLength)
}

// frameFor selects the greeting and closing by tone. Unknown tones use the casual pair.
func frameFor(req model.EmailRequest) toneFrame {
	sender := orDefault(req.Sender, defaultSender)

	switch req.Tone {
	case model.ToneFormal:
		return toneFrame{
			greeting: "Dear " + orDefault(req.Recipient, defaultFormalRecipient) + ",",
			closing:  "Sincerely,\n" + sender,
		}
	case model.ToneBusiness:
		closing := "Best regards,\n" + sender
		if company := strings.TrimSpace(req.Company); company != "" {
			closing += "\n" + company
		}
		return toneFrame{
			greeting: "Dear " + orDefault(req.Recipient, defaultFormalRecipient) + ",",
			closing:  closing,
		}
	default:
		return toneFrame{
			greeting: "Hi " + orDefault(req.Recipient, defaultCasualRecipient) + ",",
			closing:  "Best regards,\n" + sender,
		}
	}
}

// bodyFor selects the body by purpose and fills its context slot. Unknown
// purposes use the thank-you body.
func bodyFor(req model.EmailRequest) string {
	body, ok := purposeBodies[req.Purpose]
	if !ok {
		body = purposeBodies[model.PurposeThankYou]
	}
	return strings.Replace(body.text, contextSlot, orDefault(req.Context, body.defaultContext), 1)
}

// limitWords cuts email to at most maxWords whitespace-separated words. The cut
// never reaches into the closing block, moves back to the last sentence end
// when there is one, and the closing is always re-appended once. maxWords <= 0
// disables the limit.
func limitWords(email, closing string, maxWords int) string {
	if maxWords <= 0 {
		return email
	}

	truncated, over := cutAfterWords(email, maxWords)
	if !over {
		return email
	}

	if prefix, ok := strings.CutSuffix(email, "\n\n"+closing); ok && len(truncated) > len(prefix) {
		truncated = prefix
	}

	if end := strings.LastIndex(truncated, "."); end > 0 {
		truncated = truncated[:end+1]
	}

	return truncated + "\n\n" + closing
}

// cutAfterWords returns the prefix of s that ends with its n-th word and
// whether s has more than n words. Formatting inside the prefix is preserved.
func cutAfterWords(s string, n int) (string, bool) {
	words := 0
	inWord := false
	for i, r := range s {
		if unicode.IsSpace(r) {
			inWord = false
			continue
		}
		if inWord {
			continue
		}
		inWord = true
		words++
		if words > n {
			return strings.TrimRightFunc(s[:i], unicode.IsSpace), true
		}
	}
	return s, false
}

func orDefault(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}
