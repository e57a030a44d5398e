package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/komapc/ido-esperanto-extractor/internal/align"
	"github.com/komapc/ido-esperanto-extractor/internal/bidix"
	"github.com/komapc/ido-esperanto-extractor/internal/config"
	"github.com/komapc/ido-esperanto-extractor/internal/domain"
	"github.com/komapc/ido-esperanto-extractor/internal/dump"
	"github.com/komapc/ido-esperanto-extractor/internal/filter"
	"github.com/komapc/ido-esperanto-extractor/internal/langlink"
	"github.com/komapc/ido-esperanto-extractor/internal/merge"
	"github.com/komapc/ido-esperanto-extractor/internal/morph"
	"github.com/komapc/ido-esperanto-extractor/internal/report"
	"github.com/komapc/ido-esperanto-extractor/internal/store"
	"github.com/komapc/ido-esperanto-extractor/internal/via"
	"github.com/komapc/ido-esperanto-extractor/internal/wikipedia"
	"github.com/komapc/ido-esperanto-extractor/internal/wikt"
)

// artifacts names the on-disk path of every stage output under
// cfg.Pipeline.OutputDir, matching the "exchange format between the core
// and any Serializer is the Entry model" contract of: every
// entry-carrying stage boundary in this DAG is a JSON-encoded
// []domain.Entry. The exceptions are the frequency ranks, the merge
// conflict warnings, the filter statistics, and the terminal bidix
// artifact, which is a []bidix.SurfaceEntry.
func artifacts(cfg *config.Config) map[string]string {
	dir := cfg.Pipeline.OutputDir
	return map[string]string{
		"io_wiktionary":  filepath.Join(dir, "io_wiktionary.json"),
		"eo_wiktionary":  filepath.Join(dir, "eo_wiktionary.json"),
		"en_via":         filepath.Join(dir, "en_via.json"),
		"fr_via":         filepath.Join(dir, "fr_via.json"),
		"wikipedia":      filepath.Join(dir, "wikipedia.json"),
		"frequency":      filepath.Join(dir, "frequency_ranks.json"),
		"aligned":        filepath.Join(dir, "aligned.json"),
		"merged":         filepath.Join(dir, "merged.json"),
		"conflicts":      filepath.Join(dir, "conflicts.json"),
		"morphology":     filepath.Join(dir, "morphology.json"),
		"filtered":       filepath.Join(dir, "filtered.json"),
		"filter_stats":   filepath.Join(dir, "filter_stats.json"),
		"monodix":        filepath.Join(dir, "monodix.json"),
		"bidix":          filepath.Join(dir, "bidix.json"),
	}
}

// Build assembles the full stage DAG, collapsed to the granularity the
// core actually needs (downloading dumps is out of scope — the core
// never downloads dumps itself). The returned closer
// releases the content-addressed cache opened against cfg.Store.Path and
// must be called once the Manager returned by the caller is done
// running; it is a no-op if the cache could not be opened.
func Build(cfg *config.Config, log *zap.Logger) ([]Stage, func() error, error) {
	a := artifacts(cfg)
	sources := cfg.EffectiveSources()

	st, err := store.Open(cfg.Store.Path)
	if err != nil {
		log.Warn("stage cache unavailable, dump-parsing stages will not be memoized", zap.Error(err))
		st = nil
	}
	closer := func() error {
		if st == nil {
			return nil
		}
		return st.Close()
	}

	var stages []Stage

	if cfg.Sources.IoWiktionaryDump != "" {
		stages = append(stages, Stage{
			Name:    "wiktionary_io",
			Inputs:  []string{cfg.Sources.IoWiktionaryDump},
			Outputs: []string{a["io_wiktionary"]},
			Run: func(ctx context.Context) error {
				return cachedDumpStage(st, cfg, "wiktionary_io", cfg.Sources.IoWiktionaryDump, []string{a["io_wiktionary"]}, func() error {
					cfgP := wikt.Config{SourceLang: "io", TargetLang: "eo", Source: domain.ProvenanceIoWiktionary}
					entries, err := parseWiktionaryDump(ctx, cfg.Sources.IoWiktionaryDump, cfgP, sources, cfg.ProgressLogInterval(), cfg.Pipeline.Workers, log)
					if err != nil {
						return err
					}
					return WriteEntries(a["io_wiktionary"], entries)
				})
			},
		})
	}

	if cfg.Sources.EoWiktionaryDump != "" {
		stages = append(stages, Stage{
			Name:    "wiktionary_eo",
			Inputs:  []string{cfg.Sources.EoWiktionaryDump},
			Outputs: []string{a["eo_wiktionary"]},
			Run: func(ctx context.Context) error {
				return cachedDumpStage(st, cfg, "wiktionary_eo", cfg.Sources.EoWiktionaryDump, []string{a["eo_wiktionary"]}, func() error {
					cfgP := wikt.Config{SourceLang: "eo", TargetLang: "io", Source: domain.ProvenanceEoWiktionary}
					entries, err := parseWiktionaryDump(ctx, cfg.Sources.EoWiktionaryDump, cfgP, sources, cfg.ProgressLogInterval(), cfg.Pipeline.Workers, log)
					if err != nil {
						return err
					}
					return WriteEntries(a["eo_wiktionary"], entries)
				})
			},
		})
	}

	if cfg.Sources.EnWiktionaryDump != "" {
		stages = append(stages, Stage{
			Name:    "via_english",
			Inputs:  []string{cfg.Sources.EnWiktionaryDump},
			Outputs: []string{a["en_via"]},
			Run: func(ctx context.Context) error {
				return cachedDumpStage(st, cfg, "via_english", cfg.Sources.EnWiktionaryDump, []string{a["en_via"]}, func() error {
					entries, err := parseViaCoOccurrence(ctx, cfg.Sources.EnWiktionaryDump, sources, cfg.ProgressLogInterval(), cfg.Pipeline.Workers, log)
					if err != nil {
						return err
					}
					return WriteEntries(a["en_via"], entries)
				})
			},
		})
	}

	if cfg.Sources.FrWiktionaryDump != "" {
		stages = append(stages, Stage{
			Name:    "via_french",
			Inputs:  []string{cfg.Sources.FrWiktionaryDump},
			Outputs: []string{a["fr_via"]},
			Run: func(ctx context.Context) error {
				return cachedDumpStage(st, cfg, "via_french", cfg.Sources.FrWiktionaryDump, []string{a["fr_via"]}, func() error {
					entries, err := parseViaMeaning(ctx, cfg.Sources.FrWiktionaryDump, sources, cfg.ProgressLogInterval(), cfg.Pipeline.Workers, log)
					if err != nil {
						return err
					}
					return WriteEntries(a["fr_via"], entries)
				})
			},
		})
	}

	if cfg.Sources.IoWikipediaDump != "" {
		stages = append(stages, Stage{
			Name:    "wikipedia",
			Inputs:  []string{cfg.Sources.IoWikipediaDump},
			Outputs: []string{a["wikipedia"], a["frequency"]},
			Run: func(ctx context.Context) error {
				return cachedDumpStage(st, cfg, "wikipedia", cfg.Sources.IoWikipediaDump, []string{a["wikipedia"], a["frequency"]}, func() error {
					pass, err := scanWikipediaDump(ctx, cfg.Sources.IoWikipediaDump, cfg.ProgressLogInterval(), log)
					if err != nil {
						return err
					}
					var eoByTitle map[string]string
					if cfg.Sources.LanglinkDump != "" {
						eoByTitle, err = loadLanglinksCached(cfg, cfg.Sources.LanglinkDump, pass.pageTitles)
						if err != nil {
							return err
						}
					}
					entries := buildWikipediaEntries(pass, eoByTitle)
					if err := WriteEntries(a["wikipedia"], entries); err != nil {
						return err
					}
					return writeFrequencyRanks(a["frequency"], pass.ranks)
				})
			},
		})
	}

	stages = append(stages, Stage{
		Name:    "align",
		Inputs:  ioWiktionaryInputs(cfg, a),
		Outputs: []string{a["aligned"]},
		Run: func(ctx context.Context) error {
			ioEntries, err := readIfExists(a["io_wiktionary"])
			if err != nil {
				return err
			}
			eoEntries, err := readIfExists(a["eo_wiktionary"])
			if err != nil {
				return err
			}
			return WriteEntries(a["aligned"], align.Align(ioEntries, eoEntries))
		},
	})

	stages = append(stages, Stage{
		Name:    "merge",
		Inputs:  []string{a["aligned"]},
		Outputs: []string{a["merged"], a["conflicts"]},
		Run: func(ctx context.Context) error {
			var all []domain.Entry
			for _, key := range []string{"aligned", "en_via", "fr_via", "wikipedia"} {
				entries, err := readIfExists(a[key])
				if err != nil {
					return err
				}
				all = append(all, entries...)
			}
			result := merge.Merge(all, sources)
			if err := WriteEntries(a["merged"], result.Entries); err != nil {
				return err
			}
			return writeConflicts(a["conflicts"], result.Conflicts)
		},
	})

	stages = append(stages, Stage{
		Name:    "infer_morphology",
		Inputs:  []string{a["merged"]},
		Outputs: []string{a["morphology"]},
		Run: func(ctx context.Context) error {
			entries, err := ReadEntries(a["merged"])
			if err != nil {
				return err
			}
			return WriteEntries(a["morphology"], inferMorphologyAndTwins(entries))
		},
	})

	stages = append(stages, Stage{
		Name:    "filter",
		Inputs:  []string{a["morphology"]},
		Outputs: []string{a["filtered"], a["filter_stats"]},
		Run: func(ctx context.Context) error {
			entries, err := ReadEntries(a["morphology"])
			if err != nil {
				return err
			}
			ranks, err := readFrequencyRanksIfExists(a["frequency"])
			if err != nil {
				return err
			}
			result := filter.Apply(entries, ranks, cfg.Pipeline.WikiTopN)
			if err := WriteEntries(a["filtered"], result.Entries); err != nil {
				return err
			}
			return writeFilterStats(a["filter_stats"], result.Stats)
		},
	})

	stages = append(stages, Stage{
		Name:    "final_preparation",
		Inputs:  []string{a["filtered"]},
		Outputs: []string{a["monodix"], a["bidix"]},
		Run: func(ctx context.Context) error {
			entries, err := ReadEntries(a["filtered"])
			if err != nil {
				return err
			}
			var monodix []domain.Entry
			for _, e := range entries {
				if e.Language == domain.LanguageIdo {
					monodix = append(monodix, e)
				}
			}
			if err := WriteEntries(a["monodix"], monodix); err != nil {
				return err
			}
			return writeSurfaceEntries(a["bidix"], bidix.Build(entries))
		},
	})

	stages = append(stages, Stage{
		Name:    "reports",
		Inputs:  []string{a["filtered"], a["merged"], a["conflicts"], a["filter_stats"], a["io_wiktionary"]},
		Outputs: []string{filepath.Join(cfg.Pipeline.ReportsDir, "stats.txt"), filepath.Join(cfg.Pipeline.ReportsDir, "conflicts.txt"), filepath.Join(cfg.Pipeline.ReportsDir, "coverage.txt")},
		Run: func(ctx context.Context) error {
			return writeReports(cfg, a)
		},
	})

	return stages, closer, nil
}

// cachedDumpStage wraps a dump-parsing stage body with the content-
// addressed cache: if st is nil (cache
// unavailable) or the source dump's content signature has never been
// seen for stageName, run executes normally and its outputs are archived
// into the cache afterward. Otherwise the previously archived outputs are
// copied straight to outputPaths and run is skipped entirely, so a wiped
// OutputDir does not force Wiktionary/Wikipedia dumps to be reparsed.
func cachedDumpStage(st *store.Store, cfg *config.Config, stageName, dumpPath string, outputPaths []string, run func() error) error {
	if st == nil {
		return run()
	}
	hash, err := hashDumpSignature(dumpPath)
	if err != nil {
		return run()
	}
	if restoreCachedOutputs(cfg, stageName, hash, outputPaths) {
		return nil
	}
	if err := run(); err != nil {
		return err
	}
	archiveCachedOutputs(st, cfg, stageName, hash, outputPaths)
	return nil
}

// hashDumpSignature fingerprints a dump file by path, size and
// modification time rather than by content, so memoizing a multi-gigabyte
// bz2 dump costs a stat, not a read.
func hashDumpSignature(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	h := sha256.New()
	fmt.Fprintf(h, "%s|%d|%d", path, info.Size(), info.ModTime().UnixNano())
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}

func cacheArtifactDir(cfg *config.Config, stageName, hash string) string {
	return filepath.Join(filepath.Dir(cfg.Store.Path), "artifacts", stageName, hash)
}

// restoreCachedOutputs copies every archived artifact for (stageName,
// hash) back to its expected output path, "stage outputs
// are deterministic given deterministic inputs". It returns false (and
// touches nothing) unless every expected artifact is present in the
// archive, so a partially-written cache entry never produces a partial
// restore.
func restoreCachedOutputs(cfg *config.Config, stageName, hash string, outputPaths []string) bool {
	dir := cacheArtifactDir(cfg, stageName, hash)
	for _, p := range outputPaths {
		if _, err := os.Stat(filepath.Join(dir, filepath.Base(p))); err != nil {
			return false
		}
	}
	for _, p := range outputPaths {
		if err := copyFile(filepath.Join(dir, filepath.Base(p)), p); err != nil {
			return false
		}
	}
	return true
}

// archiveCachedOutputs copies outputPaths into the content-addressed
// archive and records the archive location, so a future run with the same
// dump signature can restore without re-parsing. Failures are logged
// nowhere (caller already has its own logger); a cache write that fails
// simply leaves the next run to redo the work, it does not fail the stage.
func archiveCachedOutputs(st *store.Store, cfg *config.Config, stageName, hash string, outputPaths []string) {
	dir := cacheArtifactDir(cfg, stageName, hash)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return
	}
	for _, p := range outputPaths {
		if err := copyFile(p, filepath.Join(dir, filepath.Base(p))); err != nil {
			return
		}
	}
	_ = st.Record(stageName, hash, dir)
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0o644)
}

func ioWiktionaryInputs(cfg *config.Config, a map[string]string) []string {
	var out []string
	if cfg.Sources.IoWiktionaryDump != "" {
		out = append(out, a["io_wiktionary"])
	}
	if cfg.Sources.EoWiktionaryDump != "" {
		out = append(out, a["eo_wiktionary"])
	}
	return out
}

func readIfExists(path string) ([]domain.Entry, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, nil
	}
	return ReadEntries(path)
}

// parseWiktionaryDump streams one Wiktionary dump page by page and parses
// each one via wikt.Parser. A single page's decode fault is recoverable
// and does not abort the stage (domain.RecoverableParseError); an
// unreadable dump root is fatal. Page decoding
// stays on the calling goroutine (dump.Reader is not safe for concurrent
// Next calls) while the CPU-bound ParsePage call for each page fans out
// across workers workers, adapted from pkg/ingest's WorkerPool.
func parseWiktionaryDump(ctx context.Context, path string, cfgP wikt.Config, sources map[domain.ProvenanceTag]domain.SourceDefaults, progressEvery, workers int, log *zap.Logger) ([]domain.Entry, error) {
	r, err := dump.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	r.SetProgressInterval(progressEvery)
	r.Progress = func(n int) { log.Info("progress", zap.String("dump", path), zap.Int("pages", n)) }

	parser := wikt.NewParser(cfgP, sources)
	var mu sync.Mutex
	var out []domain.Entry
	var recoverable int64

	pool := newWorkerPool(workers)
	pool.start(ctx)

	var readErr error
loop:
	for {
		if err := ctx.Err(); err != nil {
			readErr = err
			break
		}
		page, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		var perr *domain.RecoverableParseError
		if errors.As(err, &perr) {
			atomic.AddInt64(&recoverable, 1)
			continue
		}
		if err != nil {
			readErr = err
			break loop
		}
		pool.submit(func(ctx context.Context) {
			entries, perr2 := parser.ParsePage(page.Title, page.Text)
			if perr2 != nil {
				atomic.AddInt64(&recoverable, 1)
				return
			}
			mu.Lock()
			out = append(out, entries...)
			mu.Unlock()
		})
	}
	pool.closeAndWait()

	if readErr != nil {
		return nil, readErr
	}
	if recoverable > 0 {
		log.Warn("recoverable parse errors", zap.String("dump", path), zap.Int64("count", recoverable))
	}
	return out, nil
}

// parseViaCoOccurrence implements the en_wiktionary_via mode: each page
// of the pivot dump is parsed twice, once per target
// language, and the two results are fed to via.Builder.CoOccurrence. The
// two ParsePage calls and the CoOccurrence derivation for each page run on
// a worker, per parseWiktionaryDump's producer/worker-pool split.
func parseViaCoOccurrence(ctx context.Context, path string, sources map[domain.ProvenanceTag]domain.SourceDefaults, progressEvery, workers int, log *zap.Logger) ([]domain.Entry, error) {
	r, err := dump.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	r.SetProgressInterval(progressEvery)

	ioParser := wikt.NewParser(wikt.Config{SourceLang: "en", TargetLang: "io", Source: domain.ProvenanceEnWiktionaryVia}, sources)
	eoParser := wikt.NewParser(wikt.Config{SourceLang: "en", TargetLang: "eo", Source: domain.ProvenanceEnWiktionaryVia}, sources)
	builder := via.NewBuilder(sources)

	// termEntries turns one parser result (entries headed by the pivot
	// title, target-language terms as translations) into the
	// one-entry-per-term form via.PageEvidence carries.
	termEntries := func(entries []domain.Entry, lang domain.Language) []domain.Entry {
		var terms []domain.Entry
		for _, e := range entries {
			for _, s := range e.Senses {
				for _, t := range s.Translations {
					terms = append(terms, domain.Entry{Lemma: t.Term, Language: lang})
				}
			}
		}
		return terms
	}

	var mu sync.Mutex
	var out []domain.Entry
	pool := newWorkerPool(workers)
	pool.start(ctx)

	var readErr error
	for {
		if err := ctx.Err(); err != nil {
			readErr = err
			break
		}
		page, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		var perr *domain.RecoverableParseError
		if errors.As(err, &perr) {
			continue
		}
		if err != nil {
			readErr = err
			break
		}
		pool.submit(func(ctx context.Context) {
			ioEntries, _ := ioParser.ParsePage(page.Title, page.Text)
			eoEntries, _ := eoParser.ParsePage(page.Title, page.Text)
			if len(ioEntries) == 0 || len(eoEntries) == 0 {
				return
			}
			derived := builder.CoOccurrence(via.PageEvidence{
				Pivot:     page.Title,
				IoEntries: termEntries(ioEntries, domain.LanguageIdo),
				EoEntries: termEntries(eoEntries, domain.LanguageEsperanto),
			})
			mu.Lock()
			out = append(out, derived...)
			mu.Unlock()
		})
	}
	pool.closeAndWait()

	if readErr != nil {
		return nil, readErr
	}
	return out, nil
}

// parseViaMeaning implements the fr_wiktionary_meaning mode: per page,
// the io- and eo-target parses both number their senses
// positionally by trad-début block (wikt.enumerateSenseID), so a sense at
// the same SenseID in both parses names the same meaning block.
func parseViaMeaning(ctx context.Context, path string, sources map[domain.ProvenanceTag]domain.SourceDefaults, progressEvery, workers int, log *zap.Logger) ([]domain.Entry, error) {
	r, err := dump.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	r.SetProgressInterval(progressEvery)

	ioParser := wikt.NewParser(wikt.Config{SourceLang: "fr", TargetLang: "io", Source: domain.ProvenanceFrWiktionaryMeaning}, sources)
	eoParser := wikt.NewParser(wikt.Config{SourceLang: "fr", TargetLang: "eo", Source: domain.ProvenanceFrWiktionaryMeaning}, sources)
	builder := via.NewBuilder(sources)

	var mu sync.Mutex
	var out []domain.Entry
	pool := newWorkerPool(workers)
	pool.start(ctx)

	var readErr error
	for {
		if err := ctx.Err(); err != nil {
			readErr = err
			break
		}
		page, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		var perr *domain.RecoverableParseError
		if errors.As(err, &perr) {
			continue
		}
		if err != nil {
			readErr = err
			break
		}
		pool.submit(func(ctx context.Context) {
			ioEntries, _ := ioParser.ParsePage(page.Title, page.Text)
			eoEntries, _ := eoParser.ParsePage(page.Title, page.Text)
			derived := deriveMeaningBlockEntries(builder, page.Title, ioEntries, eoEntries)
			if len(derived) == 0 {
				return
			}
			mu.Lock()
			out = append(out, derived...)
			mu.Unlock()
		})
	}
	pool.closeAndWait()

	if readErr != nil {
		return nil, readErr
	}
	return out, nil
}

// deriveMeaningBlockEntries pairs the io- and eo-target parses of one
// fr_wiktionary_meaning page by SenseID, recovering each pair's French
// meaning label from whichever parse's Sense.Gloss is set, and asks
// builder to emit the resulting io->eo entries one meaning block at a
// time.
func deriveMeaningBlockEntries(builder *via.Builder, pivot string, ioEntries, eoEntries []domain.Entry) []domain.Entry {
	if len(ioEntries) == 0 || len(eoEntries) == 0 {
		return nil
	}
	ioBySense := sensesByID(ioEntries)
	eoBySense := sensesByID(eoEntries)
	glossBySense := glossesByID(ioEntries)
	for senseID, gloss := range glossesByID(eoEntries) {
		if _, ok := glossBySense[senseID]; !ok {
			glossBySense[senseID] = gloss
		}
	}

	var derived []domain.Entry
	for senseID, ioTerms := range ioBySense {
		eoTerms, ok := eoBySense[senseID]
		if !ok {
			continue
		}
		derived = append(derived, builder.SameMeaning(via.MeaningBlockEvidence{
			Pivot:   pivot,
			Gloss:   glossBySense[senseID],
			IoTerms: ioTerms,
			EoTerms: eoTerms,
		})...)
	}
	return derived
}

// sensesByID collects, per SenseID, every translation term found across
// all entries/senses carrying that SenseID on one page.
func sensesByID(entries []domain.Entry) map[string][]string {
	out := make(map[string][]string)
	for _, e := range entries {
		for _, sense := range e.Senses {
			for _, t := range sense.Translations {
				out[sense.SenseID] = append(out[sense.SenseID], t.Term)
			}
		}
	}
	return out
}

// glossesByID maps each SenseID to its meaning-block label, so callers
// that only have ids from sensesByID can recover the label text
// frenchTranslationSenses attached to that block.
func glossesByID(entries []domain.Entry) map[string]string {
	out := make(map[string]string)
	for _, e := range entries {
		for _, sense := range e.Senses {
			if sense.Gloss != "" {
				out[sense.SenseID] = sense.Gloss
			}
		}
	}
	return out
}

// wikipediaPass is the result of one streaming scan over the Ido
// Wikipedia dump: the page id->title index langlink.Reader needs, the
// category names attached to each in-scope page, and the token frequency
// table the Filter's frequency gate needs.
type wikipediaPass struct {
	pageTitles map[int64]string
	categories map[string][]string
	ranks      filter.FrequencyRanks
}

var categoryLinkRe = regexp.MustCompile(`(?i)\[\[(?:Category|Kategorio):([^|\]]+)`)
var wordTokenRe = regexp.MustCompile(`[\p{L}]+`)

func scanWikipediaDump(ctx context.Context, path string, progressEvery int, log *zap.Logger) (wikipediaPass, error) {
	r, err := dump.Open(path)
	if err != nil {
		return wikipediaPass{}, err
	}
	defer r.Close()
	r.SetProgressInterval(progressEvery)
	r.Progress = func(n int) { log.Info("progress", zap.String("dump", path), zap.Int("pages", n)) }

	pass := wikipediaPass{
		pageTitles: map[int64]string{},
		categories: map[string][]string{},
	}
	counts := map[string]int{}

	for {
		if err := ctx.Err(); err != nil {
			return pass, err
		}
		page, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		var perr *domain.RecoverableParseError
		if errors.As(err, &perr) {
			continue
		}
		if err != nil {
			return pass, err
		}

		pass.pageTitles[page.ID] = page.Title
		for _, m := range categoryLinkRe.FindAllStringSubmatch(page.Text, -1) {
			pass.categories[page.Title] = append(pass.categories[page.Title], strings.TrimSpace(m[1]))
		}
		for _, tok := range wordTokenRe.FindAllString(page.Text, -1) {
			counts[strings.ToLower(tok)]++
		}
	}

	pass.ranks = ranksFromCounts(counts)
	return pass, nil
}

// ranksFromCounts converts raw token counts into the rank table the
// Filter frequency gate consumes (1 = most frequent); ties keep input
// (map-iteration-independent) order by breaking on the token itself so the
// rank table is deterministic.
func ranksFromCounts(counts map[string]int) filter.FrequencyRanks {
	type tc struct {
		token string
		count int
	}
	items := make([]tc, 0, len(counts))
	for tok, c := range counts {
		items = append(items, tc{tok, c})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].count != items[j].count {
			return items[i].count > items[j].count
		}
		return items[i].token < items[j].token
	})
	ranks := make(filter.FrequencyRanks, len(items))
	for i, item := range items {
		ranks[item.token] = i + 1
	}
	return ranks
}

// loadLanglinksCached wraps loadLanglinks with an on-disk gob cache of the
// resulting io-title->eo-title map, keyed by the langlink dump's content
// signature, spilling the pivot map to disk between runs rather than
// rebuilding it every time: the langlink dump can be tens of millions of
// rows, and nothing about its parse depends on anything else in the
// wikipedia stage, so it is cached independently of that stage's own
// output cache.
func loadLanglinksCached(cfg *config.Config, path string, pageTitles map[int64]string) (map[string]string, error) {
	hash, err := hashDumpSignature(path)
	if err != nil {
		return loadLanglinks(path, pageTitles)
	}
	cachePath := langlinkGobCachePath(cfg, hash)
	if m, err := readLanglinkGobCache(cachePath); err == nil {
		return m, nil
	}
	out, err := loadLanglinks(path, pageTitles)
	if err != nil {
		return nil, err
	}
	_ = writeLanglinkGobCache(cachePath, out)
	return out, nil
}

func langlinkGobCachePath(cfg *config.Config, hash string) string {
	return filepath.Join(filepath.Dir(cfg.Store.Path), "artifacts", fmt.Sprintf("langlink-%s.gob", hash))
}

func readLanglinkGobCache(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out map[string]string
	if err := gob.NewDecoder(f).Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

func writeLanglinkGobCache(path string, m map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gob.NewEncoder(f).Encode(m)
}

func loadLanglinks(path string, pageTitles map[int64]string) (map[string]string, error) {
	r, err := langlink.Open(path, pageTitles)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	valid := func(title string) bool { return true }
	out := map[string]string{}
	for {
		pair, err := r.Next(valid)
		if langlink.IsEOF(err) {
			break
		}
		if err != nil {
			return nil, err
		}
		out[pair.IoTitle] = pair.EoTitle
	}
	return out, nil
}

func buildWikipediaEntries(pass wikipediaPass, eoByTitle map[string]string) []domain.Entry {
	var out []domain.Entry
	for _, title := range pass.pageTitles {
		entry, ok := wikipedia.BuildEntry(title, eoByTitle[title], pass.categories[title])
		if !ok {
			continue
		}
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Lemma < out[j].Lemma })
	return out
}

// inferMorphologyAndTwins assigns a paradigm to every entry lacking one and
// appends the demonym/toponym twin entries morph.GenerateTwins derives
// from it, in a single pass over the merged vocabulary.
func inferMorphologyAndTwins(entries []domain.Entry) []domain.Entry {
	existing := make(map[string]bool, len(entries))
	for _, e := range entries {
		existing[e.Lemma] = true
	}

	out := make([]domain.Entry, 0, len(entries))
	var twins []domain.Entry
	for _, e := range entries {
		if !e.Morphology.Present() {
			e.Morphology.Paradigm = morph.Infer(e)
		}
		out = append(out, e)
		for _, twin := range morph.GenerateTwins(e, existing) {
			if existing[twin.Lemma] {
				continue
			}
			existing[twin.Lemma] = true
			twins = append(twins, twin)
		}
	}
	return append(out, twins...)
}

func writeConflicts(path string, conflicts []domain.ConflictWarning) error {
	return writeJSON(path, conflicts)
}

func writeFilterStats(path string, stats filter.Stats) error {
	return writeJSON(path, stats)
}

func writeFrequencyRanks(path string, ranks filter.FrequencyRanks) error {
	return writeJSON(path, ranks)
}

func writeSurfaceEntries(path string, rows []bidix.SurfaceEntry) error {
	return writeJSON(path, rows)
}

func readFrequencyRanksIfExists(path string) (filter.FrequencyRanks, error) {
	if _, err := os.Stat(path); err != nil {
		return filter.FrequencyRanks{}, nil
	}
	var ranks filter.FrequencyRanks
	if err := readJSON(path, &ranks); err != nil {
		return nil, err
	}
	return ranks, nil
}

func readConflicts(path string) ([]domain.ConflictWarning, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, nil
	}
	var conflicts []domain.ConflictWarning
	if err := readJSON(path, &conflicts); err != nil {
		return nil, err
	}
	return conflicts, nil
}

func readFilterStats(path string) (filter.Stats, error) {
	var stats filter.Stats
	if _, err := os.Stat(path); err != nil {
		return stats, nil
	}
	if err := readJSON(path, &stats); err != nil {
		return stats, err
	}
	return stats, nil
}

func writeReports(cfg *config.Config, a map[string]string) error {
	entries, err := ReadEntries(a["filtered"])
	if err != nil {
		return err
	}
	conflicts, err := readConflicts(a["conflicts"])
	if err != nil {
		return err
	}
	filterStats, err := readFilterStats(a["filter_stats"])
	if err != nil {
		return err
	}
	ranks, err := readFrequencyRanksIfExists(a["frequency"])
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.Pipeline.ReportsDir, 0o755); err != nil {
		return fmt.Errorf("pipeline: mkdir %s: %w", cfg.Pipeline.ReportsDir, err)
	}

	if err := writeTextReport(filepath.Join(cfg.Pipeline.ReportsDir, "stats.txt"), func(w io.Writer) error {
		return report.WriteStats(w, report.BuildStats(entries))
	}); err != nil {
		return err
	}
	ioWiktEntries, err := readIfExists(a["io_wiktionary"])
	if err != nil {
		return err
	}
	if err := writeTextReport(filepath.Join(cfg.Pipeline.ReportsDir, "coverage.txt"), func(w io.Writer) error {
		if err := report.WriteCoverage(w, report.BuildCoverage(entries, ranks, cfg.Pipeline.WikiTopN)); err != nil {
			return err
		}
		return report.WriteDumpCoverage(w, report.BuildDumpCoverage(ioWiktEntries, entries))
	}); err != nil {
		return err
	}
	return writeTextReport(filepath.Join(cfg.Pipeline.ReportsDir, "conflicts.txt"), func(w io.Writer) error {
		return report.WriteConflicts(w, report.BuildConflicts(conflicts, filterStats))
	})
}

func writeTextReport(path string, render func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("pipeline: create report %s: %w", path, err)
	}
	defer f.Close()
	return render(f)
}
