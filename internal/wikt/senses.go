package wikt

import (
	"regexp"
	"strconv"
	"strings"
)

// numberedSenseRe matches a '''N.''' numbered-sense prefix anywhere in the
// section.
var numberedSenseRe = regexp.MustCompile(`(?m)^'''(\d+)\.'''\s*(.*)$`)

// definitionListRe matches a MediaWiki definition-list line (# gloss).
var definitionListRe = regexp.MustCompile(`(?m)^#\s*(.*)$`)

// senseBlock is one numbered or positional sense within a language section,
// holding the byte range of its body for later translation scanning.
type senseBlock struct {
	id    string
	gloss string
	start int
	end   int
}

// splitSenses splits the section into sense
// blocks numbered by '''N.''' prefixes, falling back to '#' definition
// lines, and finally to one implicit whole-section sense when neither
// convention is present.
func splitSenses(section string) []senseBlock {
	if matches := numberedSenseRe.FindAllStringSubmatchIndex(section, -1); len(matches) > 0 {
		var blocks []senseBlock
		for i, m := range matches {
			end := len(section)
			if i+1 < len(matches) {
				end = matches[i+1][0]
			}
			id := section[m[2]:m[3]]
			gloss := strings.TrimSpace(section[m[4]:m[5]])
			blocks = append(blocks, senseBlock{id: id, gloss: gloss, start: m[1], end: end})
		}
		return blocks
	}
	if matches := definitionListRe.FindAllStringSubmatchIndex(section, -1); len(matches) > 0 {
		var blocks []senseBlock
		for i, m := range matches {
			end := len(section)
			if i+1 < len(matches) {
				end = matches[i+1][0]
			}
			gloss := strings.TrimSpace(section[m[2]:m[3]])
			blocks = append(blocks, senseBlock{id: strconv.Itoa(i + 1), gloss: gloss, start: m[0], end: end})
		}
		return blocks
	}
	return []senseBlock{{id: "1", start: 0, end: len(section)}}
}
