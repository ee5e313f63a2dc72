// Package sanitizer scrubs free-text booking fields before they are
// validated and persisted. Bookings arrive from web forms, so names
// and addresses carry stray whitespace and control characters, and
// phone numbers come in with separators.
package sanitizer

import (
	"regexp"
	"strings"
)

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

var (
	reControlChars = regexp.MustCompile(`[\x00-\x1f\x7f]`)
	reMultiSpace   = regexp.MustCompile(`\s+`)
	rePhoneNoise   = regexp.MustCompile(`[\s\-().]`)
)

func trim(s string) string {
	return strings.TrimSpace(s)
}

func stripControl(s string) string {
	return reControlChars.ReplaceAllString(s, "")
}

func collapseSpaces(s string) string {
	return reMultiSpace.ReplaceAllString(s, " ")
}

// SanitizeDisplayField cleans a name or address. These are display
// fields, so case and punctuation survive; only control characters and
// whitespace runs are normalized. Whitespace collapses before control
// stripping because tabs and newlines are both, and deleting them
// first would glue the surrounding words together.
func SanitizeDisplayField(input string) string {
	p := Pipeline{
		collapseSpaces,
		stripControl,
		trim,
	}
	return p.Apply(input)
}

// SanitizePhone strips separators and maps the 00 international
// prefix to +. Whether the result is valid E.164 stays the
// validator's call, reported against the original field.
func SanitizePhone(phone string) string {
	s := rePhoneNoise.ReplaceAllString(strings.TrimSpace(phone), "")
	if s == "" {
		return ""
	}
	if strings.HasPrefix(s, "00") {
		s = "+" + s[2:]
	}
	return s
}

// SanitizeEmail lower-cases and trims; validation proper is the
// validator's job.
func SanitizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
