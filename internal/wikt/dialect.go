package wikt

import (
	"regexp"
	"strings"
)

// Dialect is the extraction strategy selected by source_lang, composed
// into Parser rather than expressed through subclassing.
type Dialect int

const (
	DialectInline Dialect = iota
	DialectTemplate
)

// dialectForSourceLang implements the source_lang → strategy selection.
func dialectForSourceLang(sourceLang string) Dialect {
	switch sourceLang {
	case "io", "eo":
		return DialectInline
	default:
		return DialectTemplate
	}
}

// inlineLineRe matches one inline-style translation line:
// "* {{eo}}: content" or "* Esperanto: content".
// The capture runs to end-of-line; template stripping happens afterward in
// the Cleaner, never here — truncating early at the template boundary
// would destroy template-style content.
var inlineLineRe = regexp.MustCompile(`(?m)^\*\s*(?:\{\{([a-zA-Z-]+)\}\}|([A-Za-zĉĝĥĵŝŭ]+))\s*:\s*(.+)$`)

// langNameToCode maps the long-form language names used by inline-style
// lines (e.g. "Esperanto:") to ISO codes, since the inline line may name
// the language either by code or by name.
var langNameToCode = map[string]string{
	"esperanto": "eo",
	"ido":       "io",
}

// matchesTargetLang reports whether an inline-style line's language token
// (either a bare code or a language name) refers to targetLang.
func matchesTargetLang(codeOrName, targetLang string) bool {
	if codeOrName == targetLang {
		return true
	}
	if code, ok := langNameToCode[strings.ToLower(codeOrName)]; ok {
		return code == targetLang
	}
	return false
}
