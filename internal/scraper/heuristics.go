package scraper

import (
	"regexp"
	"strings"
)

var (
	dateTokenRe = regexp.MustCompile(`[A-Za-z]{3}\s\d{4}`)
	presentRe   = regexp.MustCompile(`(?i)present`)

	// stray screenshot captions get picked up as project titles
	imageArtifactRe = regexp.MustCompile(`(?i)screenshot|\.png|\.jpg|\.jpeg|\.gif|\.svg`)

	femalePronounRe = regexp.MustCompile(`(?i)\b(she|her|ms\.|mrs\.)`)
	malePronounRe   = regexp.MustCompile(`(?i)\b(he|him|mr\.)`)

	whitespaceRe = regexp.MustCompile(`\s+`)
)

// parseDateRange pulls the first two "Jan 2006" style tokens out of a raw
// date-range string. A "present" token forces an empty end date and marks
// the range as still active no matter what a second token would have
// matched.
func parseDateRange(raw string) (start, end string, current bool) {
	matches := dateTokenRe.FindAllString(raw, 2)
	if len(matches) > 0 {
		start = matches[0]
	}
	current = presentRe.MatchString(raw)
	if !current && len(matches) > 1 {
		end = matches[1]
	}
	return start, end, current
}

// splitName splits a full name on whitespace: first token is the first
// name, the joined remainder is the last name.
func splitName(full string) (first, last string) {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

// splitLocation derives city, state and country from a comma separated
// location string. Without a comma only the city is set.
func splitLocation(raw string) (city, state, country string) {
	segments := strings.Split(raw, ",")
	city = strings.TrimSpace(segments[0])
	if len(segments) > 1 {
		state = strings.TrimSpace(segments[1])
		country = strings.TrimSpace(segments[len(segments)-1])
	}
	return city, state, country
}

// inferGender guesses a gender from a pronoun or honorific snippet.
// Returns an empty string when nothing matches. The female family is
// checked first so that "she/her" is never caught by the "he" keyword.
func inferGender(pronounText string) string {
	switch {
	case femalePronounRe.MatchString(pronounText):
		return "Female"
	case malePronounRe.MatchString(pronounText):
		return "Male"
	default:
		return ""
	}
}

// isImageArtifact reports whether a project name looks like an image
// filename or screenshot caption rather than a real project title.
func isImageArtifact(name string) bool {
	return imageArtifactRe.MatchString(name)
}

func collapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}
