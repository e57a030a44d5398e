package wikt

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/komapc/ido-esperanto-extractor/internal/clean"
	"github.com/komapc/ido-esperanto-extractor/internal/domain"
)

// Config selects the (source_lang, target_lang) pair a Parser extracts.
type Config struct {
	SourceLang string
	TargetLang string
	Source     domain.ProvenanceTag
}

// Parser turns one (title, wikitext) page into zero or more domain.Entry
// values. It holds a Dialect strategy and the compiled template handler
// table rather than subclassing a per-language parser.
type Parser struct {
	cfg        Config
	dialect    Dialect
	confidence float64
}

// NewParser builds a Parser for the given configuration. sourceDefaults is
// typically config.Config.EffectiveSources(), letting source_confidence
// overrides reach the parser without a global registry.
func NewParser(cfg Config, sourceDefaults map[domain.ProvenanceTag]domain.SourceDefaults) *Parser {
	return &Parser{
		cfg:        cfg,
		dialect:    dialectForSourceLang(cfg.SourceLang),
		confidence: sourceDefaults[cfg.Source].Confidence,
	}
}

var transTopBlockRe = regexp.MustCompile(`(?s)\{\{trans-top\|?([^}]*)\}\}(.*?)\{\{trans-bottom\}\}`)
var tradDebutBlockRe = regexp.MustCompile(`(?s)\{\{trad-début\|?([^}]*)\}\}(.*?)\{\{trad-fin\}\}`)

// ParsePage implements the algorithm end to end for one page.
func (p *Parser) ParsePage(title, wikitext string) ([]domain.Entry, error) {
	section, ok := extractLanguageSection(wikitext, p.cfg.SourceLang)
	if !ok {
		return nil, nil
	}

	switch p.dialect {
	case DialectInline:
		return p.parseInline(title, section)
	default:
		return p.parseTemplate(title, section)
	}
}

func (p *Parser) parseInline(title, section string) ([]domain.Entry, error) {
	lemma, err := clean.Validate(title, false)
	if err != nil {
		return nil, nil
	}

	blocks := splitSenses(section)
	anchor := len(section)
	if len(blocks) > 0 {
		anchor = blocks[0].start
	}
	posHeader := extractPOSHeader(section, anchor, isPOSHeaderText)
	pos, properNoun := posFromHeader(posHeader)

	var senses []domain.Sense
	for _, b := range blocks {
		body := section[b.start:b.end]
		translations := p.inlineTranslations(body)
		if len(translations) == 0 {
			continue
		}
		senses = append(senses, domain.Sense{
			SenseID:      b.id,
			Gloss:        b.gloss,
			Translations: translations,
		})
	}

	if len(senses) == 0 {
		if p.cfg.SourceLang != "io" {
			return nil, nil
		}
 // Monolingual coverage entry, edge case.
	}

	entry := domain.Entry{
		Lemma:         lemma,
		Language:      entryLanguage(p.cfg.SourceLang),
		POS:           pos,
		Senses:        senses,
		Provenance:    domain.NewProvenanceSet(p.cfg.Source),
		OriginalLemma: title,
	}
	if properNoun {
		entry.Morphology.Paradigm = domain.ParadigmProperNoun
	}
	return []domain.Entry{entry}, nil
}

func (p *Parser) inlineTranslations(body string) []domain.Translation {
	var out []domain.Translation
	for _, m := range inlineLineRe.FindAllStringSubmatch(body, -1) {
		codeOrName := m[1]
		if codeOrName == "" {
			codeOrName = m[2]
		}
		if !matchesTargetLang(codeOrName, p.cfg.TargetLang) {
			continue
		}
		rawLine := m[3]
		for _, candidate := range splitInlineCandidates(rawLine) {
			term, err := clean.Validate(candidate, false)
			if err != nil {
				continue
			}
			out = append(out, domain.Translation{
				Term:       term,
				Lang:       domain.Language(p.cfg.TargetLang),
				Confidence: p.confidence,
				Sources:    domain.NewProvenanceSet(p.cfg.Source),
			})
		}
	}
	return out
}

// splitInlineCandidates splits an inline translation line's content on
// commas/semicolons after template stripping is irrelevant to splitting,
// since templates may themselves contain commas; the Cleaner is applied
// per-candidate after the split so raw template boundaries survive intact.
func splitInlineCandidates(raw string) []string {
	depth := 0
	var cur strings.Builder
	var out []string
	flush := func() {
		s := strings.TrimSpace(cur.String())
		if s != "" {
			out = append(out, s)
		}
		cur.Reset()
	}
	runes := []rune(raw)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '{' && i+1 < len(runes) && runes[i+1] == '{':
			depth++
			cur.WriteRune(r)
		case r == '}' && i+1 < len(runes) && runes[i+1] == '}':
			if depth > 0 {
				depth--
			}
			cur.WriteRune(r)
		case (r == ',' || r == ';') && depth == 0:
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return out
}

func (p *Parser) parseTemplate(title, section string) ([]domain.Entry, error) {
	lemma, err := clean.Validate(title, false)
	if err != nil {
		return nil, nil
	}

	posHeader := extractPOSHeader(section, len(section), isPOSHeaderText)
	pos, properNoun := posFromHeader(posHeader)

	var senses []domain.Sense
	switch p.cfg.SourceLang {
	case "en":
		senses = p.englishTranslationSenses(section)
	case "fr":
		senses = p.frenchTranslationSenses(section)
	}

	if len(senses) == 0 {
		return nil, nil
	}

	entry := domain.Entry{
		Lemma:         lemma,
		Language:      entryLanguage(p.cfg.SourceLang),
		POS:           pos,
		Senses:        senses,
		Provenance:    domain.NewProvenanceSet(p.cfg.Source),
		OriginalLemma: title,
	}
	if properNoun {
		entry.Morphology.Paradigm = domain.ParadigmProperNoun
	}
	return []domain.Entry{entry}, nil
}

// englishTranslationSenses extracts {{trans-top|gloss}}...{{trans-bottom}}
// blocks and the target-language translation templates within each,
// scoped to each definition's own ===Translations=== subsection so a
// trans-top block under one definition is never attributed to another.
// Pages with no Translations subsection boundary at all fall back to
// scanning the whole section directly.
func (p *Parser) englishTranslationSenses(section string) []domain.Sense {
	var senses []domain.Sense
	offset := 0
	found := false
	for {
		body, next, ok := extractTranslationsSubsection(section, offset)
		if !ok {
			break
		}
		found = true
		senses = p.appendTransTopSenses(senses, body)
		offset = next
	}
	if !found {
		senses = p.appendTransTopSenses(senses, section)
	}
	return senses
}

func (p *Parser) appendTransTopSenses(senses []domain.Sense, body string) []domain.Sense {
	for _, m := range transTopBlockRe.FindAllStringSubmatch(body, -1) {
		gloss := strings.TrimSpace(m[1])
		translations := p.templateTranslationsForTargetLang(m[2])
		if len(translations) == 0 {
			continue
		}
		senses = append(senses, domain.Sense{
			SenseID:      enumerateSenseID(len(senses) + 1),
			Gloss:        gloss,
			Translations: translations,
		})
	}
	return senses
}

// labelLineRe matches the older French Wiktionary idiom of a bare language
// label template followed by a colon and the raw translated word on the
// same line, e.g. "{{T|io}}: stulo".
var labelLineRe = regexp.MustCompile(`(?m)\{\{T\|([a-zA-Z-]+)\}\}\s*:\s*([^;\n]+)`)

// frenchTranslationSenses extracts {{trad-début|meaning}}...{{trad-fin}}
// blocks.
func (p *Parser) frenchTranslationSenses(section string) []domain.Sense {
	var senses []domain.Sense
	for i, m := range tradDebutBlockRe.FindAllStringSubmatch(section, -1) {
		gloss := strings.TrimSpace(strings.SplitN(m[1], "|", 2)[0])
		body := m[2]
		translations := p.templateTranslationsForTargetLang(body)
		translations = append(translations, p.labelLineTranslations(body)...)
		if len(translations) == 0 {
			continue
		}
		senses = append(senses, domain.Sense{
			SenseID:      enumerateSenseID(i + 1),
			Gloss:        gloss,
			Translations: translations,
		})
	}
	return senses
}

// labelLineTranslations handles the "{{T|lang}}: word" idiom within a
// trad-début block, distinct from the pipe-style {{t|lang|word}} templates
// handled by templateTranslationsForTargetLang.
func (p *Parser) labelLineTranslations(body string) []domain.Translation {
	var out []domain.Translation
	for _, m := range labelLineRe.FindAllStringSubmatch(body, -1) {
		if m[1] != p.cfg.TargetLang {
			continue
		}
		term, err := clean.Validate(m[2], false)
		if err != nil {
			continue
		}
		out = append(out, domain.Translation{
			Term:       term,
			Lang:       domain.Language(p.cfg.TargetLang),
			Confidence: p.confidence,
			Sources:    domain.NewProvenanceSet(p.cfg.Source),
		})
	}
	return out
}

func (p *Parser) templateTranslationsForTargetLang(body string) []domain.Translation {
	var out []domain.Translation
	for _, occ := range parseTemplateOccurrences(body) {
		lname := strings.ToLower(occ.name)
		if skippedTemplateNames[occ.name] || skippedTemplateNames[lname] {
			continue
		}
		handler, ok := translationTemplateHandlers[occ.name]
		if !ok {
			handler, ok = translationTemplateHandlers[lname]
		}
		if !ok || len(occ.args) == 0 {
			continue
		}
		lang := strings.TrimSpace(occ.args[0])
		if lang != p.cfg.TargetLang {
			continue
		}
		word, ok := handler(occ.args)
		if !ok {
			continue
		}
		term, err := clean.Validate(word, false)
		if err != nil {
			continue
		}
		out = append(out, domain.Translation{
			Term:       term,
			Lang:       domain.Language(p.cfg.TargetLang),
			Confidence: p.confidence,
			Sources:    domain.NewProvenanceSet(p.cfg.Source),
		})
	}
	return out
}

func entryLanguage(sourceLang string) domain.Language {
	if sourceLang == "eo" {
		return domain.LanguageEsperanto
	}
	return domain.LanguageIdo
}

// sHeaderRe extracts the POS code out of a French-style {{S|nom|io}}
// section header template.
var sHeaderRe = regexp.MustCompile(`(?i)^\{\{S\|([^|}]+)`)

func posFromHeader(header string) (domain.PartOfSpeech, bool) {
	if header == "" {
		return domain.POSUnknown, false
	}
	text := header
	if m := sHeaderRe.FindStringSubmatch(header); m != nil {
		text = m[1]
	}
	pos, ok := domain.POSFromHeader(strings.ToLower(strings.TrimSpace(text)))
	if !ok {
		return domain.POSUnknown, false
	}
	return pos, pos == domain.POSProperNoun
}

// isPOSHeaderText reports whether a subsection header's text names a
// recognized part of speech, filtering out unrelated subsections
// ("Translations", "Synonyms", "Etymology", …) that use the same header
// syntax but never carry a POS.
func isPOSHeaderText(header string) bool {
	_, ok := posFromHeader(header)
	return ok
}

func enumerateSenseID(n int) string {
	return fmt.Sprintf("%d", n)
}
