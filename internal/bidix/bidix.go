// Package bidix expands merged, morphologized entries into the
// bilingual-dictionary surface form, one row per distinct Ido lemma +
// Esperanto translation pair, following internal/align's
// entry-to-surface-row shape.
package bidix

import (
	"sort"

	"github.com/komapc/ido-esperanto-extractor/internal/domain"
)

// SurfaceEntry is one row of the bilingual dictionary: a single Ido lemma
// paired with a single Esperanto translation, contract.
type SurfaceEntry struct {
	Lemma               string
	Paradigm            domain.ParadigmId
	Translation         string
	TranslationParadigm domain.ParadigmId
	Sources             domain.ProvenanceSet
}

// Build expands merged entries into surface rows: for each IO-headed
// entry and each EO translation t, emit one surface entry. Multiple
// senses and multiple EO
// terms per sense each produce their own row. Output is ordered
// lexicographically by (lemma, translation) and is stable for the same
// input.
func Build(entries []domain.Entry) []SurfaceEntry {
	var out []SurfaceEntry
	for _, e := range entries {
		if e.Language != domain.LanguageIdo {
			continue
		}
		for _, sense := range e.Senses {
			for _, t := range sense.Translations {
				if t.Lang != domain.LanguageEsperanto {
					continue
				}
				out = append(out, SurfaceEntry{
					Lemma:               e.Lemma,
					Paradigm:            e.Morphology.Paradigm,
					Translation:         t.Term,
					TranslationParadigm: domain.DefaultSurfaceParadigm(e.POS),
					Sources:             t.Sources,
				})
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Lemma != out[j].Lemma {
			return out[i].Lemma < out[j].Lemma
		}
		return out[i].Translation < out[j].Translation
	})
	return out
}
