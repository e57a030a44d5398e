// Package report renders the three human-readable reports: statistics
// (entry counts by source/POS/paradigm), coverage (top-N frequency
// coverage, missing high-frequency lemmas, and raw Ido Wiktionary dump
// coverage), and conflicts (POS conflicts, morphology conflicts,
// duplicate translations rejected). Tables are rendered with
// github.com/olekukonko/tablewriter rather than hand-rolled column
// alignment.
package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/olekukonko/tablewriter"

	"github.com/komapc/ido-esperanto-extractor/internal/domain"
	"github.com/komapc/ido-esperanto-extractor/internal/filter"
)

// StatsReport satisfies "entry counts by source, by POS, by
// paradigm".
type StatsReport struct {
	TotalEntries int
	BySource     map[domain.ProvenanceTag]int
	ByPOS        map[domain.PartOfSpeech]int
	ByParadigm   map[domain.ParadigmId]int
}

// BuildStats counts every final-output entry exactly once per applicable
// table, crediting a source count for every
// tag in the entry's provenance set rather than just the winning one.
func BuildStats(entries []domain.Entry) StatsReport {
	r := StatsReport{
		BySource:   map[domain.ProvenanceTag]int{},
		ByPOS:      map[domain.PartOfSpeech]int{},
		ByParadigm: map[domain.ParadigmId]int{},
	}
	for _, e := range entries {
		r.TotalEntries++
		r.ByPOS[e.POS]++
		if e.Morphology.Present() {
			r.ByParadigm[e.Morphology.Paradigm]++
		}
		for tag := range e.Provenance {
			r.BySource[tag]++
		}
	}
	return r
}

// WriteStats renders r as three tables.
func WriteStats(w io.Writer, r StatsReport) error {
	fmt.Fprintf(w, "STATISTICS REPORT\n")
	fmt.Fprintf(w, "Total entries: %d\n\n", r.TotalEntries)

	fmt.Fprintln(w, "By source:")
	sourceTable := tablewriter.NewWriter(w)
	sourceTable.SetHeader([]string{"source", "count"})
	for _, tag := range domain.AllProvenanceTags() {
		if n := r.BySource[tag]; n > 0 {
			sourceTable.Append([]string{tag.String(), fmt.Sprintf("%d", n)})
		}
	}
	sourceTable.Render()

	fmt.Fprintln(w, "\nBy part of speech:")
	posTable := tablewriter.NewWriter(w)
	posTable.SetHeader([]string{"pos", "count"})
	for _, pos := range sortedPOS(r.ByPOS) {
		posTable.Append([]string{pos.String(), fmt.Sprintf("%d", r.ByPOS[pos])})
	}
	posTable.Render()

	fmt.Fprintln(w, "\nBy paradigm:")
	paradigmTable := tablewriter.NewWriter(w)
	paradigmTable.SetHeader([]string{"paradigm", "count"})
	for _, p := range domain.AllParadigms() {
		if n := r.ByParadigm[p]; n > 0 {
			paradigmTable.Append([]string{p.String(), fmt.Sprintf("%d", n)})
		}
	}
	paradigmTable.Render()

	return nil
}

func sortedPOS(m map[domain.PartOfSpeech]int) []domain.PartOfSpeech {
	out := make([]domain.PartOfSpeech, 0, len(m))
	for p := range m {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// CoverageReport satisfies "top-N frequency coverage and
// missing high-frequency lemmas".
type CoverageReport struct {
	TopN        int
	RankedTotal int
	Covered     int
	Missing     []string
}

// BuildCoverage reports, for every lemma ranked within topN of ranks, how
// many appear in entries (of any language/POS) versus how many are
// missing. Missing lemmas are returned in rank order.
func BuildCoverage(entries []domain.Entry, ranks filter.FrequencyRanks, topN int) CoverageReport {
	present := make(map[string]bool, len(entries))
	for _, e := range entries {
		present[e.Lemma] = true
	}

	type ranked struct {
		lemma string
		rank  int
	}
	var within []ranked
	for lemma, rank := range ranks {
		if rank <= topN {
			within = append(within, ranked{lemma, rank})
		}
	}
	sort.Slice(within, func(i, j int) bool { return within[i].rank < within[j].rank })

	r := CoverageReport{TopN: topN, RankedTotal: len(within)}
	for _, item := range within {
		if present[item.lemma] {
			r.Covered++
		} else {
			r.Missing = append(r.Missing, item.lemma)
		}
	}
	return r
}

// WriteCoverage renders r as a summary line plus a table of missing
// lemmas.
func WriteCoverage(w io.Writer, r CoverageReport) error {
	fmt.Fprintf(w, "COVERAGE REPORT (top %d)\n", r.TopN)
	pct := 0.0
	if r.RankedTotal > 0 {
		pct = 100 * float64(r.Covered) / float64(r.RankedTotal)
	}
	fmt.Fprintf(w, "Covered %d/%d (%.1f%%)\n\n", r.Covered, r.RankedTotal, pct)

	if len(r.Missing) == 0 {
		fmt.Fprintln(w, "No missing high-frequency lemmas.")
		return nil
	}
	fmt.Fprintln(w, "Missing high-frequency lemmas:")
	missingTable := tablewriter.NewWriter(w)
	missingTable.SetHeader([]string{"lemma"})
	for _, lemma := range r.Missing {
		missingTable.Append([]string{lemma})
	}
	missingTable.Render()
	return nil
}

// DumpCoverageReport summarizes how much of the raw Ido Wiktionary dump
// never carried a direct Esperanto translation, and of that shortfall,
// how many lemmas are still present among the final Ido entries,
// whatever source kept them.
type DumpCoverageReport struct {
	IoWiktEntries   int
	NoEoTranslation int
	Recovered       int
}

// BuildDumpCoverage scans the raw io_wiktionary parse (before merge,
// alignment, or filtering) for its Ido-language entries and counts how
// many never resolved a direct Esperanto translation from the io
// Wiktionary page itself (senses only survive parseInline when a
// target-language translation was found on the page), then checks how
// many of those lemmas are present among the Ido entries of the final
// filtered output, whether or not those entries carry a translation.
func BuildDumpCoverage(ioWiktEntries, finalEntries []domain.Entry) DumpCoverageReport {
	recoveredLemmas := make(map[string]bool, len(finalEntries))
	for _, e := range finalEntries {
		if e.Language == domain.LanguageIdo {
			recoveredLemmas[e.Lemma] = true
		}
	}

	var r DumpCoverageReport
	for _, e := range ioWiktEntries {
		if e.Language != domain.LanguageIdo {
			continue
		}
		r.IoWiktEntries++
		if len(e.Senses) > 0 {
			continue
		}
		r.NoEoTranslation++
		if recoveredLemmas[e.Lemma] {
			r.Recovered++
		}
	}
	return r
}

// WriteDumpCoverage renders r as a short summary, appended to the
// coverage report rather than a report file of its own.
func WriteDumpCoverage(w io.Writer, r DumpCoverageReport) error {
	fmt.Fprintln(w, "\nIO WIKTIONARY DUMP COVERAGE")
	fmt.Fprintf(w, "IO Wiktionary entries: %d\n", r.IoWiktEntries)
	fmt.Fprintf(w, "Without a direct Esperanto translation: %d\n", r.NoEoTranslation)
	if r.NoEoTranslation == 0 {
		return nil
	}
	fmt.Fprintf(w, "  still present in the final output: %d\n", r.Recovered)
	return nil
}

// ConflictsReport satisfies "POS conflicts, morphology-paradigm
// conflicts, duplicate translations rejected".
type ConflictsReport struct {
	POSConflicts         []domain.ConflictWarning
	MorphologyConflicts  []domain.ConflictWarning
	DuplicatesRejected   []domain.ConflictWarning
	FilterStats          filter.Stats
}

// BuildConflicts buckets conflicts by kind and carries the filter stage's
// rejection counts, satisfying "every dropped entry is
// counted in at least one rejection category" jointly with filter.Stats.
func BuildConflicts(conflicts []domain.ConflictWarning, filterStats filter.Stats) ConflictsReport {
	r := ConflictsReport{FilterStats: filterStats}
	for _, c := range conflicts {
		switch c.Kind {
		case domain.ConflictPOS:
			r.POSConflicts = append(r.POSConflicts, c)
		case domain.ConflictMorphology:
			r.MorphologyConflicts = append(r.MorphologyConflicts, c)
		case domain.ConflictDuplicate:
			r.DuplicatesRejected = append(r.DuplicatesRejected, c)
		}
	}
	return r
}

// WriteConflicts renders r as three tables plus the filter rejection
// counts.
func WriteConflicts(w io.Writer, r ConflictsReport) error {
	fmt.Fprintln(w, "CONFLICTS REPORT")

	writeConflictTable(w, "POS conflicts", r.POSConflicts)
	writeConflictTable(w, "Morphology conflicts", r.MorphologyConflicts)
	writeConflictTable(w, "Duplicate translations rejected", r.DuplicatesRejected)

	fmt.Fprintf(w, "\nFilter rejections: invalid schema=%d, wikipedia low-frequency=%d, duplicate=%d\n",
		r.FilterStats.DroppedInvalidSchema, r.FilterStats.DroppedWikipediaLowFreq, r.FilterStats.DroppedDuplicate)
	return nil
}

func writeConflictTable(w io.Writer, title string, warnings []domain.ConflictWarning) {
	fmt.Fprintf(w, "\n%s (%d):\n", title, len(warnings))
	if len(warnings) == 0 {
		return
	}
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"lemma", "detail"})
	for _, warn := range warnings {
		table.Append([]string{warn.Lemma, warn.Detail})
	}
	table.Render()
}
