package application

import (
	"strings"
)

const subjectPrefix = "subject:"

// splitSubject lifts a leading "Subject:" line out of generated text. Markdown
// emphasis around the line is ignored. When the first non-empty line is not a
// subject line, fallback is used and the text is returned unchanged.
func splitSubject(text, fallback string) (subject, body string) {
	text = strings.TrimSpace(text)

	first, rest, _ := strings.Cut(text, "\n")
	line := strings.TrimSpace(strings.Trim(strings.TrimSpace(first), "*#_ "))

	if len(line) < len(subjectPrefix) || !strings.EqualFold(line[:len(subjectPrefix)], subjectPrefix) {
		return fallback, text
	}

	subject = strings.TrimSpace(strings.Trim(line[len(subjectPrefix):], "* "))
	if subject == "" {
		subject = fallback
	}
	return subject, strings.TrimSpace(rest)
}
