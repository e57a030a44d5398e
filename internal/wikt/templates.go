package wikt

import (
	"regexp"
	"strings"
)

// templateOccurrenceRe matches one {{...}} occurrence without nesting
// (translation templates are never nested in practice on the dumps this
// parser targets).
var templateOccurrenceRe = regexp.MustCompile(`\{\{([^{}]*)\}\}`)

// templateHandler extracts a translated word from a template's
// pipe-separated arguments (name excluded), or reports ok=false to fall
// through to the default drop handler. Closed at compile time rather
// than dispatched dynamically.
type templateHandler func(args []string) (word string, ok bool)

// translationTemplateHandlers is the registered table of template names
// that carry a translated word, keyed by template name; lookups try the
// name as written, then its lowercase form.
var translationTemplateHandlers = map[string]templateHandler{
	"t":     extractThirdArg,
	"t+":    extractThirdArg,
	"tt":    extractThirdArg,
	"tt+":   extractThirdArg,
	"l":     extractThirdArg,
	"m":     extractThirdArg,
	"trad":  extractThirdArg,
	"trad+": extractThirdArg,
	"T":     extractThirdArg,
}

// skippedTemplateNames never produce a word even though they appear
// within a translation block: {{t-check|…}} and {{t-needed|…}} mark an
// entry as unverified or wanted rather than carrying a translation, and
// {{qualifier|…}}/{{q|…}}/{{sense|…}}/{{lb|…}} annotate a sense rather
// than naming a translated word.
var skippedTemplateNames = map[string]bool{
	"t-check": true, "t-needed": true,
	"qualifier": true, "q": true, "sense": true, "lb": true,
}

// extractThirdArg implements "extract the third pipe-separated argument":
// {{t|lang|word}} has args=["lang","word"] once the template name is
// excluded, so the translated word is args[1].
func extractThirdArg(args []string) (string, bool) {
	if len(args) < 2 {
		return "", false
	}
	word := strings.TrimSpace(args[1])
	if word == "" {
		return "", false
	}
	return word, true
}

// templateOccurrence is one parsed {{name|args...}} instance with its byte
// span in the source text.
type templateOccurrence struct {
	name  string
	args  []string
	start int
	end   int
}

func parseTemplateOccurrences(text string) []templateOccurrence {
	matches := templateOccurrenceRe.FindAllStringSubmatchIndex(text, -1)
	out := make([]templateOccurrence, 0, len(matches))
	for _, m := range matches {
		inner := text[m[2]:m[3]]
		parts := strings.Split(inner, "|")
		name := strings.TrimSpace(parts[0])
		out = append(out, templateOccurrence{
			name:  name,
			args:  parts[1:],
			start: m[0],
			end:   m[1],
		})
	}
	return out
}

// extractTemplateTranslations scans text for translation-template
// occurrences and returns the extracted words in document order, skipping
// {{t-check|…}}/{{t-needed|…}} and anything not in the handler table.
func extractTemplateTranslations(text string) []string {
	var words []string
	for _, occ := range parseTemplateOccurrences(text) {
		lname := strings.ToLower(occ.name)
		if skippedTemplateNames[occ.name] || skippedTemplateNames[lname] {
			continue
		}
		handler, ok := translationTemplateHandlers[occ.name]
		if !ok {
			handler, ok = translationTemplateHandlers[lname]
		}
		if !ok {
			continue
		}
		if word, ok := handler(occ.args); ok {
			words = append(words, word)
		}
	}
	return words
}
