package domain

// Translation is a single translation candidate attached to a Sense.
type Translation struct {
	Term       string
	Lang       Language
	Confidence float64
	Sources    ProvenanceSet
}

// Key identifies a Translation for merge purposes: (lang, term) exact,
// case-sensitive. Translations within a sense merge by (lang, term_exact).
func (t Translation) Key() TranslationKey {
	return TranslationKey{Lang: t.Lang, Term: t.Term}
}

// TranslationKey is the merge/dedup key for a Translation.
type TranslationKey struct {
	Lang Language
	Term string
}

// Sense is a single numbered meaning of a lemma.
type Sense struct {
	SenseID      string
	Gloss        string
	Translations []Translation
}

// SignatureKey is the merge stage's sense-collapse key: normalized gloss
// plus the sorted, lowercased set of translation terms grouped by
// language. Merging two sense lists deduplicates (gloss, sorted
// translation terms) as a group.
type SignatureKey struct {
	Gloss string
	Terms string
}
