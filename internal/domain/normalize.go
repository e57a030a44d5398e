package domain

import "strings"

// foldLemma case-folds a lemma for use as a merge bucket key. Proper nouns
// never pass through this function.
func foldLemma(lemma string) string {
	return strings.ToLower(lemma)
}

// CanonicalizeTerm applies the merge stage's case-conflict rule for translation
// terms that differ only in case: both Esperanto and Ido lowercase except
// when the term was contributed as a proper noun, in which case the
// title-cased form wins.
func CanonicalizeTerm(term string, properNoun bool) string {
	if properNoun {
		return titleCaseFirst(term)
	}
	return strings.ToLower(term)
}

func titleCaseFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = toUpperRune(r[0])
	return string(r)
}

func toUpperRune(r rune) rune {
	upper := strings.ToUpper(string(r))
	for _, u := range upper {
		return u
	}
	return r
}
