// Package merge performs deterministic multi-source consolidation by
// (language, lemma, pos), with unioned provenance, max-aggregated
// confidence, and explicit conflict reporting instead of silent
// merging, following the same deterministic bucket/reduce style used by
// internal/align and internal/via.
package merge

import (
	"sort"
	"strconv"
	"strings"

	"github.com/komapc/ido-esperanto-extractor/internal/domain"
)

// Result is the merge stage's output: the deduplicated entry sequence
// plus the conflict rows the reports require.
type Result struct {
	Entries   []domain.Entry
	Conflicts []domain.ConflictWarning
}

// Merge consolidates entries end to end. defaults is the effective
// source confidence/priority table (config.Config.EffectiveSources()),
// threaded explicitly rather than held in a module-level mutable
// registry.
func Merge(entries []domain.Entry, defaults map[domain.ProvenanceTag]domain.SourceDefaults) Result {
	buckets := make(map[domain.Key][]domain.Entry)
	var order []domain.Key
	for _, e := range entries {
		key := e.BucketKey()
		if _, ok := buckets[key]; !ok {
			order = append(order, key)
		}
		buckets[key] = append(buckets[key], e)
	}

	var result Result
	posConflicts := detectPOSConflicts(entries)
	result.Conflicts = append(result.Conflicts, posConflicts...)

	for _, key := range order {
		merged, conflicts := mergeBucket(key, buckets[key], defaults)
		result.Entries = append(result.Entries, merged)
		result.Conflicts = append(result.Conflicts, conflicts...)
	}

	sort.Slice(result.Entries, func(i, j int) bool {
		a, b := result.Entries[i], result.Entries[j]
		if a.Language != b.Language {
			return a.Language < b.Language
		}
		return a.Lemma < b.Lemma
	})

	return result
}

// detectPOSConflicts enforces that entries
// sharing (language, lemma) but differing in POS are never merged into one
// entry, and every such pair is reported once.
func detectPOSConflicts(entries []domain.Entry) []domain.ConflictWarning {
	byLemma := make(map[string]map[domain.PartOfSpeech]bool)
	var lemmaOrder []string
	for _, e := range entries {
		lemmaKey := string(e.Language) + "\x00" + foldForConflictCheck(e)
		if byLemma[lemmaKey] == nil {
			byLemma[lemmaKey] = make(map[domain.PartOfSpeech]bool)
			lemmaOrder = append(lemmaOrder, lemmaKey)
		}
		byLemma[lemmaKey][e.POS] = true
	}

	var warnings []domain.ConflictWarning
	for _, lemmaKey := range lemmaOrder {
		posSet := byLemma[lemmaKey]
		if len(posSet) <= 1 {
			continue
		}
		parts := strings.SplitN(lemmaKey, "\x00", 2)
		var posList []string
		for pos := range posSet {
			posList = append(posList, string(pos))
		}
		sort.Strings(posList)
		warnings = append(warnings, domain.ConflictWarning{
			Kind:   domain.ConflictPOS,
			Lemma:  parts[1],
			Detail: "conflicting POS: " + strings.Join(posList, ", "),
		})
	}
	return warnings
}

func foldForConflictCheck(e domain.Entry) string {
	if e.POS == domain.POSProperNoun {
		return e.Lemma
	}
	return strings.ToLower(e.Lemma)
}

// mergeBucket consolidates entries already grouped
// into one (language, lemma, pos) bucket.
func mergeBucket(key domain.Key, bucket []domain.Entry, defaults map[domain.ProvenanceTag]domain.SourceDefaults) (domain.Entry, []domain.ConflictWarning) {
	var provenance domain.ProvenanceSet = domain.NewProvenanceSet()
	lemma := bucket[0].Lemma
	var originalLemma string
	var derived bool

	type senseGroup struct {
		gloss        string
		translations map[domain.TranslationKey]*domain.Translation
		transOrder   []domain.TranslationKey
	}
	groups := make(map[domain.SignatureKey]*senseGroup)
	var groupOrder []domain.SignatureKey

	for _, e := range bucket {
		provenance = provenance.Union(e.Provenance)
		if e.OriginalLemma != "" && originalLemma == "" {
			originalLemma = e.OriginalLemma
		}
		if e.Derived {
			derived = true
		}
		for _, sense := range e.Senses {
			sig := senseSignature(sense)
			g, ok := groups[sig]
			if !ok {
				g = &senseGroup{gloss: sense.Gloss, translations: make(map[domain.TranslationKey]*domain.Translation)}
				groups[sig] = g
				groupOrder = append(groupOrder, sig)
			}
			for _, t := range sense.Translations {
				t.Term = domain.CanonicalizeTerm(t.Term, key.POS == domain.POSProperNoun)
				tkey := t.Key()
				existing, ok := g.translations[tkey]
				if !ok {
					copyT := t
					copyT.Sources = cloneSet(t.Sources)
					copyT.Confidence = t.Sources.MaxConfidence(defaults)
					g.translations[tkey] = &copyT
					g.transOrder = append(g.transOrder, tkey)
					continue
				}
				existing.Sources = existing.Sources.Union(t.Sources)
				existing.Confidence = existing.Sources.MaxConfidence(defaults)
			}
		}
	}

	var senses []domain.Sense
	for _, sig := range groupOrder {
		g := groups[sig]
		translations := make([]domain.Translation, 0, len(g.transOrder))
		sort.Slice(g.transOrder, func(i, j int) bool {
			a, b := g.transOrder[i], g.transOrder[j]
			if a.Lang != b.Lang {
				return a.Lang < b.Lang
			}
			return a.Term < b.Term
		})
		for _, tkey := range g.transOrder {
			translations = append(translations, *g.translations[tkey])
		}
		senses = append(senses, domain.Sense{Gloss: g.gloss, Translations: translations})
	}
	for i, sense := range senses {
		sense.SenseID = strconv.Itoa(i + 1)
		senses[i] = sense
	}

	morphology, morphWarning := resolveMorphologyConflict(key, bucket, defaults)
	var warnings []domain.ConflictWarning
	if morphWarning != nil {
		warnings = append(warnings, *morphWarning)
	}

	merged := domain.Entry{
		Lemma:         lemma,
		Language:      key.Language,
		POS:           key.POS,
		Senses:        senses,
		Morphology:    morphology,
		Provenance:    provenance,
		OriginalLemma: originalLemma,
		Derived:       derived,
	}

	return merged, warnings
}

// senseSignature deduplicates (gloss, sorted translation terms) as a
// group.
func senseSignature(s domain.Sense) domain.SignatureKey {
	terms := make([]string, 0, len(s.Translations))
	for _, t := range s.Translations {
		terms = append(terms, string(t.Lang)+":"+strings.ToLower(t.Term))
	}
	sort.Strings(terms)
	return domain.SignatureKey{Gloss: normalizeGloss(s.Gloss), Terms: strings.Join(terms, "|")}
}

func normalizeGloss(g string) string {
	return strings.ToLower(strings.TrimSpace(g))
}

func cloneSet(s domain.ProvenanceSet) domain.ProvenanceSet {
	out := make(domain.ProvenanceSet, len(s))
	for k := range s {
		out[k] = struct{}{}
	}
	return out
}

// resolveMorphologyConflict handles the case
// when bucket members disagree on morphology.paradigm, the contributor
// with the highest source priority wins; ties break lexicographically on
// paradigm id.
func resolveMorphologyConflict(key domain.Key, bucket []domain.Entry, defaults map[domain.ProvenanceTag]domain.SourceDefaults) (domain.Morphology, *domain.ConflictWarning) {
	type candidate struct {
		paradigm domain.ParadigmId
		priority int
	}
	var candidates []candidate
	seen := make(map[domain.ParadigmId]bool)
	for _, e := range bucket {
		if !e.Morphology.Present() {
			continue
		}
		priority := 0
		if tag, ok := e.Provenance.HighestPriority(defaults); ok {
			priority = defaults[tag].Priority
		}
		candidates = append(candidates, candidate{paradigm: e.Morphology.Paradigm, priority: priority})
		seen[e.Morphology.Paradigm] = true
	}

	if len(candidates) == 0 {
		return domain.Morphology{}, nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].priority != candidates[j].priority {
			return candidates[i].priority > candidates[j].priority
		}
		return candidates[i].paradigm < candidates[j].paradigm
	})
	morphology := domain.Morphology{Paradigm: candidates[0].paradigm}

	if len(seen) > 1 {
		var ids []string
		for p := range seen {
			ids = append(ids, string(p))
		}
		sort.Strings(ids)
		return morphology, &domain.ConflictWarning{
			Kind:   domain.ConflictMorphology,
			Lemma:  key.Lemma,
			Detail: "conflicting paradigms: " + strings.Join(ids, ", ") + "; chose " + string(morphology.Paradigm),
		}
	}
	return morphology, nil
}
