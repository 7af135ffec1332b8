// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package snippet reads the leading portion of a document for metadata
// extraction. True PDF page slicing would require rewriting the
// document's cross-reference structure, so the provider returns the raw
// file capped at a byte cap; the extraction prompt bounds the pages
// the model may consider.
package snippet

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

// defaultMaxBytes caps how much of a document is uploaded per request.
const defaultMaxBytes = 20 << 20

// FileProvider reads document bytes from the local filesystem. The zero
// value uses the default byte cap.
type FileProvider struct {
	// MaxBytes caps the returned buffer size.
	MaxBytes int64
}

// ExtractFirstPages returns the document's leading bytes. The pages
// argument is a hint carried through to the extraction prompt; it does
// not change how many bytes are read.
func (p FileProvider) ExtractFirstPages(path string, pages int) ([]byte, error) {
	limit := p.MaxBytes
	if limit <= 0 {
		limit = defaultMaxBytes
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, limit))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("reading %s: empty file", path)
	}
	return data, nil
}

// CountPages estimates the number of pages in a PDF buffer by counting
// page object markers. Returns 0 when the buffer does not look like a
// PDF. The estimate is only used to warn when a configured page count
// exceeds the document.
func CountPages(data []byte) int {
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		return 0
	}

	count := 0
	for _, marker := range [][]byte{[]byte("/Type /Page"), []byte("/Type/Page")} {
		rest := data
		for {
			i := bytes.Index(rest, marker)
			if i < 0 {
				break
			}
			// "/Type /Pages" is the page tree node, not a page.
			tail := rest[i+len(marker):]
			if len(tail) == 0 || tail[0] != 's' {
				count++
			}
			rest = tail
		}
	}
	return count
}
