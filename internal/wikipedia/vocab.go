// Package wikipedia classifies Ido Wikipedia titles via category and
// lexical patterns. Geographic, person and organization titles become
// proper nouns; every other title keeps POSUnknown, and no POS is derived
// here from the title's Ido ending.
package wikipedia

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/komapc/ido-esperanto-extractor/internal/clean"
	"github.com/komapc/ido-esperanto-extractor/internal/domain"
)

// Classification is the closed set of category buckets a title can fall
// into.
type Classification string

const (
	ClassVocabulary   Classification = "vocabulary"
	ClassGeographic   Classification = "geographic"
	ClassPerson       Classification = "person"
	ClassOrganization Classification = "organization"
	ClassOther        Classification = "other"
)

var geoLemmaPatterns = regexp.MustCompile(`(?i)(cheflando|urbo|civito|stando|provinco|gubernio|insulo|oceano|monto|lago|fluvio|lando|stato|regno|imperio|respubliko|federaciono)`)
var geoTranslationPatterns = regexp.MustCompile(`(?i)(urbo|provinco|distrikto|regiono|gubernio)`)

// vocabularySuffixes are lemma endings that, for a single-word title,
// indicate ordinary Ido vocabulary rather than a proper noun.
var vocabularySuffixes = []string{
	"uro", "eso", "ato", "isto", "anto", "ero", "ajo",
	"iko", "io", "ido", "ito", "alo", "ano", "ino",
	"o", "i", "a", "e", "ar", "as", "is", "os", "us",
}

var organizationCategoryHints = regexp.MustCompile(`(?i)(organizuri|organizo|kompanio|partiso|asociuro|uniono)`)

// Classify assigns a Classification to a title given its Esperanto
// langlink translation (if any) and the raw category names attached to
// the Wikipedia page, checking organization hints first.
func Classify(title, eoTranslation string, categories []string) Classification {
	for _, c := range categories {
		if organizationCategoryHints.MatchString(c) {
			return ClassOrganization
		}
	}

	words := strings.Fields(title)
	if len(words) >= 2 && allCapitalized(words) {
		return ClassPerson
	}

	if geoLemmaPatterns.MatchString(strings.ToLower(title)) {
		return ClassGeographic
	}
	if eoTranslation != "" && geoTranslationPatterns.MatchString(strings.ToLower(eoTranslation)) {
		return ClassGeographic
	}

	if len(words) == 1 {
		lower := strings.ToLower(title)
		for _, suffix := range vocabularySuffixes {
			if strings.HasSuffix(lower, suffix) {
				return ClassVocabulary
			}
		}
	}

	if strings.Contains(title, "-") {
		return ClassVocabulary
	}

	return ClassOther
}

func allCapitalized(words []string) bool {
	for _, w := range words {
		r := []rune(w)
		if len(r) == 0 {
			continue
		}
		if !unicode.IsUpper(r[0]) {
			return false
		}
	}
	return true
}

// posForClassification maps a Classification to the POS it implies,
// independent of morphology-based suffix inference: a title classified
// by category as an organization is a proper noun.
func posForClassification(c Classification) domain.PartOfSpeech {
	switch c {
	case ClassGeographic, ClassPerson, ClassOrganization:
		return domain.POSProperNoun
	default:
		return domain.POSUnknown
	}
}

// BuildEntry turns one Ido Wikipedia title with its Esperanto langlink
// translation into a domain.Entry. Titles that are not proper nouns are
// lowercased. The frequency-gate interaction is applied later by
// internal/filter, not here.
func BuildEntry(title, eoTranslation string, categories []string) (domain.Entry, bool) {
	classification := Classify(title, eoTranslation, categories)
	organizationProperNoun := classification == ClassOrganization

	lemma, err := clean.Validate(title, organizationProperNoun)
	if err != nil {
		return domain.Entry{}, false
	}

	pos := posForClassification(classification)
	if pos != domain.POSProperNoun {
		lemma = strings.ToLower(lemma)
	}

	entry := domain.Entry{
		Lemma:         lemma,
		Language:      domain.LanguageIdo,
		POS:           pos,
		Provenance:    domain.NewProvenanceSet(domain.ProvenanceIoWikipedia),
		OriginalLemma: title,
	}

	if eoTranslation != "" {
		term, err := clean.Validate(eoTranslation, false)
		if err == nil {
			entry.Senses = []domain.Sense{{
				SenseID: "1",
				Translations: []domain.Translation{{
					Term:       term,
					Lang:       domain.LanguageEsperanto,
					Confidence: domain.DefaultSources()[domain.ProvenanceIoWikipedia].Confidence,
					Sources:    domain.NewProvenanceSet(domain.ProvenanceIoWikipedia),
				}},
			}}
		}
	}

	if pos == domain.POSProperNoun {
		entry.Morphology.Paradigm = domain.ParadigmProperNoun
	}

	return entry, true
}
