package clean

import (
	"unicode"

	"github.com/komapc/ido-esperanto-extractor/internal/domain"
)

const forbiddenMarkupChars = "'[]{}"

// IsValidLemma reports whether lemma is well-formed enough to keep.
// organizationProperNoun is the io_wikipedia "acronym as organization
// name" exemption.
func IsValidLemma(lemma string, organizationProperNoun bool) bool {
	if len([]rune(lemma)) < 2 {
		return false
	}
	r := []rune(lemma)
	if !unicode.IsLetter(r[0]) {
		return false
	}
	if !containsLetter(lemma) {
		return false
	}
	if containsForbiddenMarkup(lemma) {
		return false
	}
	if len(lemma) > 30 && containsRune(lemma, ':') {
		return false
	}
	if isAllUpper(lemma) && len(r) > 4 && !organizationProperNoun {
		return false
	}
	return true
}

func containsLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

func containsForbiddenMarkup(s string) bool {
	for i := 0; i+1 < len(s); i++ {
		pair := s[i : i+2]
		if pair == "''" || pair == "[[" || pair == "]]" || pair == "{{" || pair == "}}" {
			return true
		}
	}
	return false
}

func containsRune(s string, target rune) bool {
	for _, r := range s {
		if r == target {
			return true
		}
	}
	return false
}

func isAllUpper(s string) bool {
	seenLetter := false
	for _, r := range s {
		if !unicode.IsLetter(r) {
			continue
		}
		seenLetter = true
		if !unicode.IsUpper(r) {
			return false
		}
	}
	return seenLetter
}

// Validate returns a cleaned, accepted lemma or domain.ErrInvalidLemma.
// Markup still unresolved once bold/italic runs, wiki links and templates
// are resolved (an unclosed bold run or link, say) rejects the lemma
// rather than being trimmed away. Rejection is final: the caller must drop the entry,
// not attempt a repair.
func Validate(raw string, organizationProperNoun bool) (string, error) {
	if containsForbiddenMarkup(processTemplates(resolveWikiLinks(stripBoldItalic(raw)))) {
		return "", domain.ErrInvalidLemma
	}
	cleaned := Clean(raw)
	if !IsValidLemma(cleaned, organizationProperNoun) {
		return "", domain.ErrInvalidLemma
	}
	return cleaned, nil
}
