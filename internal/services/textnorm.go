package services

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	hyphenBreakRegex = regexp.MustCompile(`(\w)-\r?\n(\w)`)
	whitespaceRegex  = regexp.MustCompile(`\s+`)
	inlineSpaceRegex = regexp.MustCompile(`[ \t]+`)
	punctRegex       = regexp.MustCompile(`[^\w\s]`)
	urlRegex         = regexp.MustCompile(`https?://\S+`)
)

// NormalizeText canonicalizes extracted document text: NFKC composition,
// rejoining of line-broken hyphenated words and whitespace collapse. Line
// breaks survive (collapsed to single newlines) because the section parser
// works line by line.
func NormalizeText(text string) string {
	text = norm.NFKC.String(text)
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = hyphenBreakRegex.ReplaceAllString(text, "$1$2")

	lines := strings.Split(text, "\n")
	cleaned := lines[:0]
	for _, line := range lines {
		line = strings.TrimSpace(inlineSpaceRegex.ReplaceAllString(line, " "))
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}

// NormalizeForMatch prepares text for presence comparison: lowercase, NFD
// decomposition with combining marks stripped, punctuation turned into
// whitespace, whitespace collapsed.
func NormalizeForMatch(text string) string {
	text = strings.ToLower(text)

	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if stripped, _, err := transform.String(stripMarks, text); err == nil {
		text = stripped
	}

	text = punctRegex.ReplaceAllString(text, " ")
	text = whitespaceRegex.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// CompactLen counts characters ignoring all whitespace. Content-length gates
// use this so padding cannot sneak a short document past them.
func CompactLen(text string) int {
	count := 0
	for _, r := range text {
		if !unicode.IsSpace(r) {
			count++
		}
	}
	return count
}

// Truncate cuts text to maxLen, backing up to the previous word boundary when
// one exists in the last fifth of the cut.
func Truncate(text string, maxLen int) string {
	if maxLen <= 0 || len(text) <= maxLen {
		return text
	}

	cut := text[:maxLen]
	if lastSpace := strings.LastIndex(cut, " "); lastSpace > maxLen*4/5 {
		return cut[:lastSpace]
	}
	return cut
}

// CleanJobDescription strips URLs and collapses whitespace in pasted job text.
func CleanJobDescription(text string) string {
	text = urlRegex.ReplaceAllString(text, "")
	text = whitespaceRegex.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// NormalizeEmail lowercases and trims an email address for storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
