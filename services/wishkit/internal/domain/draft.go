package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	MaxTitleLength       = 50
	MaxDescriptionLength = 500
	minEmailLength       = 6
)

// EmailPolicy controls the email field of the submission form.
type EmailPolicy string

const (
	EmailNone     EmailPolicy = "none"
	EmailOptional EmailPolicy = "optional"
	EmailRequired EmailPolicy = "required"
)

// ParseEmailPolicy validates a configured policy value.
func ParseEmailPolicy(raw string) (EmailPolicy, error) {
	switch p := EmailPolicy(strings.ToLower(strings.TrimSpace(raw))); p {
	case EmailNone, EmailOptional, EmailRequired:
		return p, nil
	default:
		return "", fmt.Errorf("unknown email policy %q (want none, optional or required)", raw)
	}
}

// Truncate cuts s to at most max characters (runes). Already short strings
// are returned unchanged.
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	n := 0
	for i := range s {
		if n == max {
			return s[:i]
		}
		n++
	}
	return s
}

// ValidEmail is the structural email check of the submission form: it must
// contain "@" and "." and be at least six characters long.
func ValidEmail(email string) bool {
	return utf8.RuneCountInString(email) >= minEmailLength &&
		strings.Contains(email, "@") &&
		strings.Contains(email, ".")
}

// Draft is the content of the submission form.
type Draft struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Email       string `json:"email"`
}

// Truncated returns d with title and description cut to their limits.
func (d Draft) Truncated() Draft {
	d.Title = Truncate(d.Title, MaxTitleLength)
	d.Description = Truncate(d.Description, MaxDescriptionLength)
	return d
}

// IsEmpty reports whether nothing has been entered.
func (d Draft) IsEmpty() bool {
	return d == Draft{}
}

// Validate checks d in order: incomplete, email required, email malformed.
// Under EmailNone the email is ignored. Email uses valid as the structural
// check so callers can plug in a registered validator.
func (d Draft) Validate(policy EmailPolicy, valid func(string) bool) error {
	if strings.TrimSpace(d.Title) == "" || strings.TrimSpace(d.Description) == "" {
		return ErrIncomplete
	}
	if policy == EmailNone {
		return nil
	}

	email := strings.TrimSpace(d.Email)
	if email == "" {
		if policy == EmailRequired {
			return ErrEmailRequired
		}
		return nil
	}
	if !valid(email) {
		return ErrEmailMalformed
	}
	return nil
}

// Outgoing returns the values sent to the service: truncated text and a
// trimmed email, dropped entirely under EmailNone.
func (d Draft) Outgoing(policy EmailPolicy) Draft {
	d = d.Truncated()
	d.Email = strings.TrimSpace(d.Email)
	if policy == EmailNone {
		d.Email = ""
	}
	return d
}
