// Package dump streams MediaWiki XML dumps page by page without
// materializing the whole document, pairing a bz2 decompressing reader
// with an encoding/xml streaming decoder.
package dump

import (
	"compress/bzip2"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/komapc/ido-esperanto-extractor/internal/domain"
)

// Page is one raw (id, title, namespace, wikitext) record, pre-filtering.
// ID is the page's internal MediaWiki id, needed to resolve langlinks'
// ll_from column (internal/langlink) against a page title.
type Page struct {
	ID        int64  `xml:"id"`
	Title     string `xml:"title"`
	Namespace int    `xml:"ns"`
	Text      string `xml:"revision>text"`
}

// skippedTitlePrefixes are the namespace-name prefixes names
// explicitly. Multilingual dumps additionally carry a few Esperanto/Ido
// variants not present on English dumps.
var skippedTitlePrefixes = []string{
	"Kategorio:", "Category:", "File:", "Dosiero:",
	"Shablono:", "Template:", "Helpo:", "Help:",
	"Wikipedio:", "Wikipedia:", "Vikipedio:",
}

// Reader is a lazy, finite, non-restartable sequence of pages from one
// bz2-compressed MediaWiki XML dump. It satisfies the "explicit pull-based
// Reader is a streaming iterator: Next returns one item at a time with
// no hidden buffering beyond the underlying decoder's own lookahead.
type Reader struct {
	file    *os.File
	decoder *xml.Decoder
	closed  bool

	// Progress is invoked every progressEvery pages (default 10,000);
	// nil disables progress logging.
	Progress      func(pagesSeen int)
	progressEvery int
	pagesSeen     int
}

// Open prepares a streaming reader over a bz2-compressed MediaWiki dump. It
// does not read the file yet; the first call to Next begins decompression.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dump: open %s: %w", path, err)
	}
	bz := bzip2.NewReader(f)
	dec := xml.NewDecoder(bz)
	return &Reader{
		file:          f,
		decoder:       dec,
		progressEvery: 10000,
	}, nil
}

// SetProgressInterval overrides the default page-log cadence
// (progress_every).
func (r *Reader) SetProgressInterval(n int) {
	if n > 0 {
		r.progressEvery = n
	}
}

// Next returns the next in-scope page, or io.EOF once the stream is
// exhausted. Pages outside the main namespace or whose title matches a
// skipped prefix are consumed internally and never returned. A per-page XML
// decode fault yields a *domain.RecoverableParseError and the stream
// continues; an unreadable root element yields domain.ErrMalformedDump and
// the stream is considered finished.
func (r *Reader) Next() (Page, error) {
	if r.closed {
		return Page{}, io.EOF
	}
	for {
		tok, err := r.decoder.Token()
		if err == io.EOF {
			r.closed = true
			return Page{}, io.EOF
		}
		if err != nil {
			r.closed = true
			return Page{}, fmt.Errorf("dump: %w: %v", domain.ErrMalformedDump, err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "page" {
			continue
		}

		var p Page
		if decodeErr := r.decoder.DecodeElement(&p, &start); decodeErr != nil {
			return Page{}, &domain.RecoverableParseError{Title: "<unknown>", Cause: decodeErr}
		}

		r.pagesSeen++
		if r.Progress != nil && r.progressEvery > 0 && r.pagesSeen%r.progressEvery == 0 {
			r.Progress(r.pagesSeen)
		}

		if !inScope(p) {
			continue
		}
		return p, nil
	}
}

// Close releases the underlying file handle. Safe to call multiple times.
func (r *Reader) Close() error {
	r.closed = true
	return r.file.Close()
}

func inScope(p Page) bool {
	if p.Namespace != 0 {
		return false
	}
	for _, prefix := range skippedTitlePrefixes {
		if strings.HasPrefix(p.Title, prefix) {
			return false
		}
	}
	return true
}
