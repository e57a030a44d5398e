// Package via derives IO↔EO translation pairs from a third-language
// ("pivot") Wiktionary page that lists both languages as translations
// of the same headword or meaning, never holding more than one pivot
// page's evidence in memory at a time.
package via

import (
	"fmt"

	"github.com/komapc/ido-esperanto-extractor/internal/domain"
)

// PageEvidence is one pivot page's terms: IoEntries and EoEntries hold one
// entry per term found on the page, with Lemma set to the term and
// Language to its language. The caller derives them from two
// WiktionaryParser runs (target_lang=io and target_lang=eo) over the same
// pivot page; ViaBuilder itself never re-parses wikitext.
type PageEvidence struct {
	Pivot     string
	IoEntries []domain.Entry
	EoEntries []domain.Entry
}

// Builder implements both via-modes of. It is stateless across
// pages: each call to CoOccurrence/SameMeaning processes one page's
// evidence and returns immediately, honoring the "never build the full
// pivot→* map in memory beyond what is needed to close one page" streaming
// requirement.
type Builder struct {
	confidence map[domain.ProvenanceTag]domain.SourceDefaults
}

// NewBuilder constructs a Builder using the given (possibly overridden)
// source confidence table.
func NewBuilder(sourceDefaults map[domain.ProvenanceTag]domain.SourceDefaults) *Builder {
	return &Builder{confidence: sourceDefaults}
}

// CoOccurrence implements the en_wiktionary_via mode: for each IO term
// found on the pivot page, emit one IO-headed entry with a single sense
// listing every EO term found on the same page.
func (b *Builder) CoOccurrence(ev PageEvidence) []domain.Entry {
	if len(ev.IoEntries) == 0 || len(ev.EoEntries) == 0 {
		return nil
	}
	eoTerms := collectTerms(ev.EoEntries, domain.LanguageEsperanto)
	if len(eoTerms) == 0 {
		return nil
	}
	conf := b.confidence[domain.ProvenanceEnWiktionaryVia].Confidence

	var out []domain.Entry
	for _, ioTerm := range collectTerms(ev.IoEntries, domain.LanguageIdo) {
		translations := make([]domain.Translation, 0, len(eoTerms))
		for _, term := range eoTerms {
			translations = append(translations, domain.Translation{
				Term:       term,
				Lang:       domain.LanguageEsperanto,
				Confidence: conf,
				Sources:    domain.NewProvenanceSet(domain.ProvenanceEnWiktionaryVia),
			})
		}
		out = append(out, domain.Entry{
			Lemma:    ioTerm,
			Language: domain.LanguageIdo,
			POS:      domain.POSUnknown,
			Senses: []domain.Sense{{
				SenseID:      fmt.Sprintf("en:%s", ev.Pivot),
				Gloss:        ev.Pivot,
				Translations: translations,
			}},
			Provenance: domain.NewProvenanceSet(domain.ProvenanceEnWiktionaryVia),
		})
	}
	return out
}

// MeaningBlockEvidence is one {{trad-début|meaning}}...{{trad-fin}} block's
// io/eo terms, already scoped to that single block by the caller (the
// WiktionaryParser's French dialect yields one domain.Sense per block with
// Sense.Gloss carrying the meaning label).
type MeaningBlockEvidence struct {
	Pivot   string
	Gloss   string
	IoTerms []string
	EoTerms []string
}

// SameMeaning implements the fr_wiktionary_meaning mode: only pair io/eo
// terms found inside the same meaning block. It must not pair terms from
// different blocks on the same page.
func (b *Builder) SameMeaning(ev MeaningBlockEvidence) []domain.Entry {
	if len(ev.IoTerms) == 0 || len(ev.EoTerms) == 0 {
		return nil
	}
	conf := b.confidence[domain.ProvenanceFrWiktionaryMeaning].Confidence

	var out []domain.Entry
	for _, ioTerm := range ev.IoTerms {
		translations := make([]domain.Translation, 0, len(ev.EoTerms))
		for _, term := range ev.EoTerms {
			translations = append(translations, domain.Translation{
				Term:       term,
				Lang:       domain.LanguageEsperanto,
				Confidence: conf,
				Sources:    domain.NewProvenanceSet(domain.ProvenanceFrWiktionaryMeaning),
			})
		}
		out = append(out, domain.Entry{
			Lemma:    ioTerm,
			Language: domain.LanguageIdo,
			POS:      domain.POSUnknown,
			Senses: []domain.Sense{{
				SenseID:      fmt.Sprintf("fr:%s#%s", ev.Pivot, ev.Gloss),
				Gloss:        ev.Gloss,
				Translations: translations,
			}},
			Provenance: domain.NewProvenanceSet(domain.ProvenanceFrWiktionaryMeaning),
		})
	}
	return out
}

func collectTerms(entries []domain.Entry, lang domain.Language) []string {
	seen := make(map[string]bool)
	var out []string
	for _, e := range entries {
		if e.Language != lang {
			continue
		}
		if seen[e.Lemma] {
			continue
		}
		seen[e.Lemma] = true
		out = append(out, e.Lemma)
	}
	return out
}
