package comparator

import (
	"bytes"
	"crypto/sha256"
	"io"
	"os"
)

const hashBlockSize = 8 * 1024

// fileHash computes the SHA-256 digest of path's contents, read in 8 KiB
// blocks. ok is false on any read or permission failure, per spec.md §4.4 —
// a missing digest is absent evidence, never disagreement.
func fileHash(path string) (sum []byte, ok bool) {
	f, err := os.Open(path)
	if err != nil {
		return nil, false
	}
	defer f.Close()

	h := sha256.New()
	buf := make([]byte, hashBlockSize)
	if _, err := io.CopyBuffer(h, f, buf); err != nil {
		return nil, false
	}
	return h.Sum(nil), true
}

// hashesMatch reports whether both paths hash identically. It returns false
// if either digest is unavailable — a null hash never upgrades a verdict to
// identical.
func hashesMatch(a, b string) bool {
	ha, ok := fileHash(a)
	if !ok {
		return false
	}
	hb, ok := fileHash(b)
	if !ok {
		return false
	}
	return bytes.Equal(ha, hb)
}

// hashesDiffer reports whether both digests are available and disagree. It
// returns false if either is unavailable — a null hash never downgrades a
// verdict to modified.
func hashesDiffer(a, b string) bool {
	ha, ok := fileHash(a)
	if !ok {
		return false
	}
	hb, ok := fileHash(b)
	if !ok {
		return false
	}
	return !bytes.Equal(ha, hb)
}
