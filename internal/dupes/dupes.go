// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dupes compares file contents by digest and resolves filename
// collisions when committing a rename.
package dupes

import (
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// digestBufSize bounds memory while hashing: files are streamed in 1 MiB
// chunks regardless of size.
const digestBufSize = 1 << 20

// maxCandidates caps the collision-resolution loop against a filesystem
// that keeps reporting "exists".
const maxCandidates = 1000

// ErrUnresolvable is returned when no free or duplicate-content path is
// found within the candidate cap.
var ErrUnresolvable = fmt.Errorf("could not find a free filename")

// Kind classifies a collision outcome.
type Kind int

const (
	// NoCollision: the candidate path is free.
	NoCollision Kind = iota

	// Duplicate: a file with identical content already exists; the
	// rename must not proceed. Outcome.Path is the existing file.
	Duplicate

	// Resolved: a digest-suffixed alternative path is free.
	Resolved
)

// Outcome is the result of collision resolution. Path is the path to
// rename to (NoCollision, Resolved) or the existing duplicate
// (Duplicate).
type Outcome struct {
	Kind Kind
	Path string
}

// SameContent reports whether two files hold identical bytes. Files of
// differing size are unequal without reading; otherwise the SHA-256
// digests are compared. Any read or stat failure degrades to false;
// this is a query, not an integrity check.
func SameContent(a, b string) bool {
	ia, err := os.Stat(a)
	if err != nil {
		return false
	}
	ib, err := os.Stat(b)
	if err != nil {
		return false
	}
	if ia.Size() != ib.Size() {
		return false
	}

	da, err := digest(a)
	if err != nil {
		return false
	}
	db, err := digest(b)
	if err != nil {
		return false
	}
	return da == db
}

// ShortDigest returns the first 8 hex characters of the file's SHA-256
// digest, used to disambiguate colliding filenames.
func ShortDigest(path string) (string, error) {
	d, err := digest(path)
	if err != nil {
		return "", err
	}
	return d[:8], nil
}

func digest(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	buf := make([]byte, digestBufSize)
	if _, err := io.CopyBuffer(h, f, buf); err != nil {
		return "", fmt.Errorf("hashing %s: %w", path, err)
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}

// Resolve decides what to do when candidate may already exist. If the
// path is free the candidate stands. If the existing file has the same
// content as source the document is already present under that name
// and the rename must not proceed. Otherwise alternatives of the form
// "<stem> [<digest>]<ext>" and "<stem> [<digest>-<n>]<ext>" are tried
// until one is free or holds duplicate content.
func Resolve(candidate, source string) (Outcome, error) {
	if !exists(candidate) {
		return Outcome{Kind: NoCollision, Path: candidate}, nil
	}
	if SameContent(source, candidate) {
		return Outcome{Kind: Duplicate, Path: candidate}, nil
	}

	short, err := ShortDigest(source)
	if err != nil {
		return Outcome{}, fmt.Errorf("digesting source: %w", err)
	}

	dir := filepath.Dir(candidate)
	ext := filepath.Ext(candidate)
	stem := strings.TrimSuffix(filepath.Base(candidate), ext)

	next := filepath.Join(dir, fmt.Sprintf("%s [%s]%s", stem, short, ext))
	for n := 2; ; n++ {
		if !exists(next) {
			return Outcome{Kind: Resolved, Path: next}, nil
		}
		if SameContent(source, next) {
			return Outcome{Kind: Duplicate, Path: next}, nil
		}
		if n > maxCandidates {
			return Outcome{}, fmt.Errorf("%w for %s after %d attempts", ErrUnresolvable, candidate, maxCandidates)
		}
		next = filepath.Join(dir, fmt.Sprintf("%s [%s-%d]%s", stem, short, n, ext))
	}
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
