// Package align joins IO-centred entries with EO-headed entries by
// flipping the EO-headed entries' direction so every entry leaving this
// stage is IO-headed, ready for the merge stage. An eo_wiktionary page
// headed by an Esperanto lemma, translating to Ido, must become an
// IO-headed entry whose translations point back to the Esperanto lemma.
package align

import "github.com/komapc/ido-esperanto-extractor/internal/domain"

// Flip turns one EO-headed entry (lemma=Esperanto headword,
// translations=Ido terms) into one or more IO-headed entries, one per
// distinct Ido translation term, each carrying the original Esperanto
// headword as its own translation. This mirrors the bidix stage's later
// surface expansion one stage earlier, because the merge stage only
// ever buckets by the headword's own language.
func Flip(e domain.Entry) []domain.Entry {
	if e.Language != domain.LanguageEsperanto {
		return []domain.Entry{e}
	}

	seen := make(map[string]bool)
	var out []domain.Entry
	for _, sense := range e.Senses {
		for _, t := range sense.Translations {
			if t.Lang != domain.LanguageIdo {
				continue
			}
			if seen[t.Term] {
				continue
			}
			seen[t.Term] = true
			out = append(out, domain.Entry{
				Lemma:    t.Term,
				Language: domain.LanguageIdo,
				POS:      e.POS,
				Senses: []domain.Sense{{
					SenseID: sense.SenseID,
					Gloss:   sense.Gloss,
					Translations: []domain.Translation{{
						Term:       e.Lemma,
						Lang:       domain.LanguageEsperanto,
						Confidence: t.Confidence,
						Sources:    t.Sources,
					}},
				}},
				Provenance:    t.Sources,
				OriginalLemma: e.OriginalLemma,
			})
		}
	}
	return out
}

// Align joins a stream of IO-centred entries (passed through unchanged)
// with a stream of EO-headed entries (flipped via Flip), returning a
// single IO-headed sequence ready for the merge stage. Callers stream both
// inputs; Align itself performs no buffering beyond the two input slices
// given to it, matching the per-stage memory budget.
func Align(ioEntries, eoEntries []domain.Entry) []domain.Entry {
	out := make([]domain.Entry, 0, len(ioEntries)+len(eoEntries))
	out = append(out, ioEntries...)
	for _, e := range eoEntries {
		out = append(out, Flip(e)...)
	}
	return out
}
