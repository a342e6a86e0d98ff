// Package extract recovers identity fields from raw CV text with
// line-oriented heuristics. Extraction is best-effort: every field except
// the email falls back to models.NotFound instead of failing.
package extract

import (
	"regexp"
	"strings"

	"github.com/Ishtiaqasif/ai-recruiter-backend/internal/models"
)

var emailRe = regexp.MustCompile(models.EmailRegex)

// Email returns the first email address in the text, lower-cased.
// The second return value is false when no address is present; callers
// treat that as a hard precondition failure for ingestion.
func Email(text string) (string, bool) {
	match := emailRe.FindString(text)
	if match == "" {
		return "", false
	}
	return strings.ToLower(match), true
}

// Name takes the first non-blank line if it is short enough to plausibly
// be a person's name and does not itself look like an email.
func Name(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if len(line) < models.MaxNameLen && !strings.Contains(line, "@") {
			return line
		}
		return models.NotFound
	}
	return models.NotFound
}

// Address returns the first short line containing an address keyword.
func Address(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if len(line) >= models.MaxAddressLen {
			continue
		}
		for _, kw := range models.AddressKeywords {
			if strings.Contains(line, kw) {
				return line
			}
		}
	}
	return models.NotFound
}

// Role returns the first short line containing a job-title keyword,
// matched case-insensitively.
func Role(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if len(line) >= models.MaxRoleLen {
			continue
		}
		lower := strings.ToLower(line)
		for _, kw := range models.RoleKeywords {
			if strings.Contains(lower, strings.ToLower(kw)) {
				return line
			}
		}
	}
	return models.NotFound
}

// Profile runs all extractors over the text. The boolean mirrors Email.
func Profile(text string) (models.Profile, bool) {
	email, ok := Email(text)
	return models.Profile{
		Email:   email,
		Name:    Name(text),
		Address: Address(text),
		Role:    Role(text),
	}, ok
}
