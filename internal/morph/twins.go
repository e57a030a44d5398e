package morph

import (
	"strings"
	"unicode/utf8"

	"github.com/komapc/ido-esperanto-extractor/internal/domain"
)

// GenerateTwins returns the morphological twin entries implied by e:
// demonym noun/adjective pairs and toponym siblings. existingLemmas is consulted
// (and not mutated) so a twin that already exists as its own entry is not
// duplicated; callers own merging the returned twins into their lemma set.
func GenerateTwins(e domain.Entry, existingLemmas map[string]bool) []domain.Entry {
	if !e.Morphology.Present() || e.Lemma == "" {
		return nil
	}

	var twins []string
	var twinPOS []domain.PartOfSpeech
	var twinParadigm []domain.ParadigmId

	addCandidate := func(lemma string, pos domain.PartOfSpeech, paradigm domain.ParadigmId) {
		if lemma == "" || existingLemmas[lemma] {
			return
		}
		twins = append(twins, lemma)
		twinPOS = append(twinPOS, pos)
		twinParadigm = append(twinParadigm, paradigm)
	}

	lemma := e.Lemma
	lower := strings.ToLower(lemma)
	paradigm := e.Morphology.Paradigm

	switch {
	case strings.HasSuffix(lower, "iano") && paradigm == domain.ParadigmNoun:
		addCandidate(trimLastRunes(lemma, 4)+"iana", domain.POSAdjective, domain.ParadigmAdjective)
	case strings.HasSuffix(lower, "ano") && paradigm == domain.ParadigmNoun:
		addCandidate(trimLastRunes(lemma, 3)+"ana", domain.POSAdjective, domain.ParadigmAdjective)
	case strings.HasSuffix(lower, "iana") && paradigm == domain.ParadigmAdjective:
		addCandidate(trimLastRunes(lemma, 4)+"iano", domain.POSNoun, domain.ParadigmNoun)
	case strings.HasSuffix(lower, "ana") && paradigm == domain.ParadigmAdjective:
		addCandidate(trimLastRunes(lemma, 3)+"ano", domain.POSNoun, domain.ParadigmNoun)
	}

	if strings.HasSuffix(lower, "ia") && paradigm == domain.ParadigmNoun {
		addCandidate(lemma+"na", domain.POSAdjective, domain.ParadigmAdjective)
	}

	if hasWikipediaProvenance(e) && strings.HasSuffix(lower, "a") && paradigm == domain.ParadigmNoun && utf8.RuneCountInString(lemma) > 3 {
		addCandidate(lemma+"na", domain.POSAdjective, domain.ParadigmAdjective)
	}

	if strings.HasSuffix(lower, "iana") && paradigm == domain.ParadigmAdjective {
		addCandidate(trimLastRunes(lemma, 2), domain.POSNoun, domain.ParadigmNoun)
	}
	if strings.HasSuffix(lower, "ana") && paradigm == domain.ParadigmAdjective {
		addCandidate(trimLastRunes(lemma, 2), domain.POSNoun, domain.ParadigmNoun)
	}

	out := make([]domain.Entry, 0, len(twins))
	for i, twinLemma := range twins {
		out = append(out, domain.Entry{
			Lemma:         twinLemma,
			Language:      e.Language,
			POS:           twinPOS[i],
			Senses:        e.Senses,
			Morphology:    domain.Morphology{Paradigm: twinParadigm[i]},
			Provenance:    e.Provenance,
			OriginalLemma: e.OriginalLemma,
			Derived:       true,
		})
	}
	return out
}

// trimLastRunes removes the last n runes of s. Fixed-length trimming is
// used rather than suffix-string matching, since the suffix being
// trimmed may differ in case from the literal being appended.
func trimLastRunes(s string, n int) string {
	r := []rune(s)
	if n >= len(r) {
		return ""
	}
	return string(r[:len(r)-n])
}

