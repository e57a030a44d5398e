// Package morph assigns a closed ParadigmId to every merged Entry from
// its lemma shape and POS, using an ordered-rule decision table in the
// same closed-enum style internal/domain/pos.go uses for header
// resolution, plus a demonym/toponym twin generation supplement.
package morph

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/komapc/ido-esperanto-extractor/internal/domain"
)

var demonymNounSuffixes = []string{"iano", "ano"}
var demonymAdjSuffixes = []string{"iana", "ana"}

// numeralLemmaRe matches a bare numeral or percentage lemma (e.g. "12",
// "3.5", "42%"), independent of any POS header the source may have
// supplied.
var numeralLemmaRe = regexp.MustCompile(`^[0-9]+([.,][0-9]+)*%?$`)

// Infer implements the decision table in priority order: bare
// numeral/percentage lemmas, multi-token lemmas, demonym suffixes,
// toponym -ia, POS-informed defaults, ending-based fallback (including
// the -ajo/-ala/-oza/-iva specializations), then Wikipedia-provenance and
// capitalization fallbacks. Returns ParadigmUnknown when no rule fires.
func Infer(e domain.Entry) domain.ParadigmId {
	if e.Morphology.Present() {
		return e.Morphology.Paradigm
	}
	if paradigm, ok := domain.ClosedClassParadigm(e.POS); ok {
		return paradigm
	}

	lemma := e.Lemma
	if lemma == "" {
		return domain.ParadigmUnknown
	}
	lower := strings.ToLower(lemma)

	if numeralLemmaRe.MatchString(lemma) {
		return domain.ParadigmNumeral
	}

	if strings.ContainsAny(lemma, " -") {
		return domain.ParadigmNoun
	}

	if hasAnySuffix(lower, demonymNounSuffixes) {
		return domain.ParadigmNoun
	}
	if hasAnySuffix(lower, demonymAdjSuffixes) {
		return domain.ParadigmAdjective
	}

	if strings.HasSuffix(lower, "ia") && utf8.RuneCountInString(lemma) > 3 {
		return domain.ParadigmNoun
	}

	switch e.POS {
	case domain.POSNoun:
		if strings.HasSuffix(lower, "ajo") {
			return domain.ParadigmNounAjo
		}
		return domain.ParadigmNoun
	case domain.POSAdjective:
		switch {
		case strings.HasSuffix(lower, "ala"):
			return domain.ParadigmAdjectiveAla
		case strings.HasSuffix(lower, "oza"):
			return domain.ParadigmAdjectiveOza
		case strings.HasSuffix(lower, "iva"):
			return domain.ParadigmAdjectiveIva
		default:
			return domain.ParadigmAdjective
		}
	case domain.POSAdverb:
		return domain.ParadigmAdverb
	case domain.POSVerb:
		return domain.ParadigmVerb
	case domain.POSProperNoun:
		return domain.ParadigmProperNoun
	case domain.POSNumeral:
		return domain.ParadigmNumeral
	}

	switch {
	case strings.HasSuffix(lower, "ajo"):
		return domain.ParadigmNounAjo
	case strings.HasSuffix(lower, "ala"):
		return domain.ParadigmAdjectiveAla
	case strings.HasSuffix(lower, "oza"):
		return domain.ParadigmAdjectiveOza
	case strings.HasSuffix(lower, "iva"):
		return domain.ParadigmAdjectiveIva
	case strings.HasSuffix(lower, "a"):
		return domain.ParadigmAdjective
	case strings.HasSuffix(lower, "e"):
		return domain.ParadigmAdverb
	case strings.HasSuffix(lower, "o"):
		return domain.ParadigmNoun
	case strings.HasSuffix(lower, "ar"), strings.HasSuffix(lower, "ir"), strings.HasSuffix(lower, "or"):
		return domain.ParadigmVerb
	}

	if hasWikipediaProvenance(e) {
		firstUpper := isUpperFirst(lemma)
		if firstUpper || strings.HasSuffix(lower, "i") {
			return domain.ParadigmNoun
		}
	}

	if isUpperFirst(lemma) && utf8.RuneCountInString(lemma) > 2 {
		return domain.ParadigmNoun
	}

	return domain.ParadigmUnknown
}

func hasAnySuffix(s string, suffixes []string) bool {
	for _, suffix := range suffixes {
		if strings.HasSuffix(s, suffix) {
			return true
		}
	}
	return false
}

func isUpperFirst(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return r != utf8.RuneError && strings.ToUpper(string(r)) == string(r) && strings.ToLower(string(r)) != string(r)
}

func hasWikipediaProvenance(e domain.Entry) bool {
	for tag := range e.Provenance {
		if strings.Contains(string(tag), "wikipedia") {
			return true
		}
	}
	return false
}
