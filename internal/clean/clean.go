// Package clean strips wikitext markup from lemmas and translation
// terms and rejects malformed lemmas, following the wikitext-stripping
// approach used elsewhere for MediaWiki dump text.
package clean

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	boldItalicRe    = regexp.MustCompile(`'''([^']*)'''|''([^']*)''`)
	numberedDefRe   = regexp.MustCompile(`^(?:'''(\d+)\.'''|(\d+)\.)\s*`)
	wikiLinkRe      = regexp.MustCompile(`\[\[([^\]|]+)(?:\|([^\]]+))?\]\]`)
	templateRe      = regexp.MustCompile(`\{\{([^{}]*)\}\}`)
	langCodeOnlyRe  = regexp.MustCompile(`^[a-z]{2,3}$`)
	trailingLangRe  = regexp.MustCompile(`\s*\([a-z]{2,3}\)\s*$`)
	genderSymbolRe  = regexp.MustCompile(`\(\s*''[♀♂]''\s*\)`)
	whitespaceRunRe = regexp.MustCompile(`\s+`)
	leadingColonRe  = regexp.MustCompile(`^:\s*`)
)

// translationTemplates is the set of templates treated as carrying a
// translated word as their third pipe-separated argument.
var translationTemplates = map[string]bool{
	"t": true, "t+": true, "tt": true, "tt+": true,
	"l": true, "m": true, "trad": true, "trad+": true,
}

// droppedTemplates never contribute text; they are removed wholesale along
// with their arguments.
var droppedTemplates = map[string]bool{
	"t-check": true, "t-needed": true,
}

// Clean applies the ordered transform sequence of to a raw
// lemma or translation-term candidate.
func Clean(raw string) string {
	s := raw
	s = stripBoldItalic(s)
	s = numberedDefRe.ReplaceAllString(s, "")
	s = resolveWikiLinks(s)
	s = processTemplates(s)
	s = trailingLangRe.ReplaceAllString(s, "")
	s = genderSymbolRe.ReplaceAllString(s, "")
	s = leadingColonRe.ReplaceAllString(s, "")
	s = whitespaceRunRe.ReplaceAllString(s, " ")
	s = strings.TrimFunc(s, func(r rune) bool {
		return r != '-' && unicode.IsPunct(r)
	})
	return strings.TrimSpace(s)
}

func stripBoldItalic(s string) string {
	for {
		next := boldItalicRe.ReplaceAllStringFunc(s, func(m string) string {
			sub := boldItalicRe.FindStringSubmatch(m)
			if sub[1] != "" {
				return sub[1]
			}
			return sub[2]
		})
		if next == s {
			return next
		}
		s = next
	}
}

func resolveWikiLinks(s string) string {
	return wikiLinkRe.ReplaceAllStringFunc(s, func(m string) string {
		sub := wikiLinkRe.FindStringSubmatch(m)
		if sub[2] != "" {
			return sub[2]
		}
		return sub[1]
	})
}

// processTemplates resolves template markup into plain text. It is
// iterative because resolving an inner template can expose an outer one
// to the same rule set.
func processTemplates(s string) string {
	for {
		next := templateRe.ReplaceAllStringFunc(s, replaceTemplate)
		if next == s {
			return next
		}
		s = next
	}
}

func replaceTemplate(m string) string {
	inner := strings.TrimSuffix(strings.TrimPrefix(m, "{{"), "}}")
	parts := strings.Split(inner, "|")
	name := strings.ToLower(strings.TrimSpace(parts[0]))
	args := parts[1:]

	if langCodeOnlyRe.MatchString(name) && len(args) == 0 {
		return ""
	}
	if droppedTemplates[name] {
		return ""
	}
	if translationTemplates[name] {
		if len(args) >= 2 {
			return strings.TrimSpace(args[1])
		}
		if len(args) == 1 {
			return strings.TrimSpace(args[0])
		}
		return ""
	}
	switch len(args) {
	case 0:
		return ""
	case 1:
		return strings.TrimSpace(args[0])
	default:
		return strings.TrimSpace(args[len(args)-1])
	}
}

// ExtractTranslationWord pulls the translated word out of a single
// translation template occurrence: the third pipe-separated argument.
// tmplArgs excludes the template name,
// e.g. for {{t|eo|hundo}} it is ["eo", "hundo"].
func ExtractTranslationWord(tmplArgs []string) (string, bool) {
	if len(tmplArgs) < 2 {
		return "", false
	}
	word := strings.TrimSpace(tmplArgs[1])
	if word == "" {
		return "", false
	}
	return word, true
}
