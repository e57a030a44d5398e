// Package filter applies the schema validation, Wikipedia-only
// frequency gate, and duplicate removal pass, producing an explicit
// Stats struct of rejection counts alongside the surviving entries.
package filter

import (
	"sort"
	"strings"

	"github.com/komapc/ido-esperanto-extractor/internal/domain"
)

// FrequencyRanks maps a lowercased Ido Wikipedia token to its frequency
// rank (1 = most frequent), the input to the frequency gate.
type FrequencyRanks map[string]int

// Stats counts what the filter dropped, broken out as named fields
// rather than a generic counter map.
type Stats struct {
	DroppedInvalidSchema    int
	DroppedWikipediaLowFreq int
	DroppedDuplicate        int
}

// Result is the Filter's output.
type Result struct {
	Entries []domain.Entry
	Stats   Stats
}

// Apply runs schema validation, the frequency gate, and duplicate
// removal end to end. topN is the configurable frequency-gate threshold.
func Apply(entries []domain.Entry, ranks FrequencyRanks, topN int) Result {
	var result Result
	seen := make(map[string]bool)

	for _, e := range entries {
		if !schemaOK(e) {
			result.Stats.DroppedInvalidSchema++
			continue
		}

		if isWikipediaOnly(e) && !passesFrequencyGate(e, ranks, topN) {
			result.Stats.DroppedWikipediaLowFreq++
			continue
		}

		dupKey := duplicateKey(e)
		if seen[dupKey] {
			result.Stats.DroppedDuplicate++
			continue
		}
		seen[dupKey] = true

		result.Entries = append(result.Entries, e)
	}

	return result
}

// schemaOK drops entries violating the basic schema invariant: a lemma,
// a language, and a POS drawn from the closed enum are mandatory;
// senses may legitimately be empty (an Ido-only entry surviving with no
// surviving EO translations).
func schemaOK(e domain.Entry) bool {
	if e.Lemma == "" || e.Language == "" {
		return false
	}
	if !e.POS.IsValid() {
		return false
	}
	for _, sense := range e.Senses {
		for _, t := range sense.Translations {
			if t.Term == "" || t.Lang == "" {
				return false
			}
		}
	}
	return true
}

// isWikipediaOnly reports whether the entry's provenance set contains a
// wikipedia tag and no wiktionary tag.
func isWikipediaOnly(e domain.Entry) bool {
	hasWiki, hasWikt := false, false
	for tag := range e.Provenance {
		s := string(tag)
		if strings.HasSuffix(s, "wikipedia") {
			hasWiki = true
		}
		if strings.Contains(s, "wiktionary") {
			hasWikt = true
		}
	}
	return hasWiki && !hasWikt
}

// passesFrequencyGate implements the frequency gate: proper
// nouns are exempt; everything else must rank within the top N tokens of
// lemma's whitespace-split components.
func passesFrequencyGate(e domain.Entry, ranks FrequencyRanks, topN int) bool {
	if e.POS == domain.POSProperNoun {
		return true
	}
	tokens := strings.Fields(e.Lemma)
	if len(tokens) == 0 {
		tokens = []string{e.Lemma}
	}
	for _, tok := range tokens {
		if rank, ok := ranks[strings.ToLower(tok)]; ok && rank > 0 && rank <= topN {
			return true
		}
	}
	return false
}

// duplicateKey implements the duplicate-removal key:
// (language, lemma, pos, set-of-translation-terms-by-lang).
func duplicateKey(e domain.Entry) string {
	var terms []string
	for _, sense := range e.Senses {
		for _, t := range sense.Translations {
			terms = append(terms, string(t.Lang)+":"+strings.ToLower(t.Term))
		}
	}
	sort.Strings(terms)
	return string(e.Language) + "\x00" + strings.ToLower(e.Lemma) + "\x00" + string(e.POS) + "\x00" + strings.Join(terms, "|")
}
