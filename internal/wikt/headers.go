package wikt

import (
	"regexp"
	"strings"
)

// langSectionPatterns locates the top-level language section for a
// given source_lang.
var langSectionPatterns = map[string]*regexp.Regexp{
	"io": regexp.MustCompile(`(?mi)^==\s*Ido\s*==\s*$`),
	"eo": regexp.MustCompile(`(?mi)^==\s*Esperanto\s*==\s*$`),
	"fr": regexp.MustCompile(`(?mi)^==\s*\{\{langue\|fr\}\}\s*==\s*$`),
	"en": regexp.MustCompile(`(?mi)^==\s*English\s*==\s*$`),
}

// topSectionRe matches any top-level language header, used to find where
// the located section ends.
var topSectionRe = regexp.MustCompile(`(?m)^==[^=].*==\s*$`)

// posHeaderRe matches a level-3 (or deeper) subsection header that may
// carry a POS name, e.g. === Noun ===, === Substantivo ===, === {{S|nom|io}} ===.
var posHeaderRe = regexp.MustCompile(`(?m)^===+\s*(.+?)\s*===+\s*$`)

// translationsHeaderRe locates the "Translations" subsection used by the
// English Wiktionary dialect: an ==English== header followed later by a
// Translations section.
var translationsHeaderRe = regexp.MustCompile(`(?mi)^===*\s*Translations\s*===*\s*$`)

// extractLanguageSection returns the text belonging to the source_lang
// section of the page, from just after its header to the next top-level
// header or end of document.
func extractLanguageSection(wikitext, sourceLang string) (string, bool) {
	re, ok := langSectionPatterns[sourceLang]
	if !ok {
		return "", false
	}
	loc := re.FindStringIndex(wikitext)
	if loc == nil {
		return "", false
	}
	rest := wikitext[loc[1]:]
	if next := topSectionRe.FindStringIndex(rest); next != nil {
		return rest[:next[0]], true
	}
	return rest, true
}

// extractPOSHeader returns the nearest subsection header text at or before
// offset within section that isPOSHeader recognizes as a POS header
// (rather than an unrelated subsection like "Translations" or
// "Synonyms" that happens to use the same header syntax), or "" if none
// is found.
func extractPOSHeader(section string, offset int, isPOSHeader func(string) bool) string {
	matches := posHeaderRe.FindAllStringSubmatchIndex(section, -1)
	best := ""
	for _, m := range matches {
		if m[0] > offset {
			break
		}
		text := strings.TrimSpace(section[m[2]:m[3]])
		if isPOSHeader(text) {
			best = text
		}
	}
	return best
}

// extractTranslationsSubsection returns the "Translations" subsection body
// of an English Wiktionary entry, starting just after its own sense's
// nearest preceding header block. The English dialect nests translations
// under each definition's own ===Translations=== subsection.
func extractTranslationsSubsection(section string, fromOffset int) (string, int, bool) {
	loc := translationsHeaderRe.FindStringIndex(section[fromOffset:])
	if loc == nil {
		return "", 0, false
	}
	start := fromOffset + loc[1]
	rest := section[start:]
	end := len(rest)
	if next := posHeaderRe.FindStringIndex(rest); next != nil {
		end = next[0]
	}
	return rest[:end], start + end, true
}
