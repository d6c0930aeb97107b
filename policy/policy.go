// Package policy implements the path-blacklist and cache-folder heuristics
// (C1) shared by the scanner and the comparator.
package policy

import (
	"path/filepath"
	"strings"
)

// blacklistSubstrings is matched anywhere in the lowercased absolute path,
// not by path component — an entry nested anywhere under a recycle bin or
// system-volume-information directory on any volume is skipped.
var blacklistSubstrings = []string{
	`c:\windows`,
	`c:\program files`,
	`c:\program files (x86)`,
	`c:\programdata`,
	`$recycle.bin`,
	`system volume information`,
}

// IsBlacklisted reports whether path should be pruned from a walk.
func IsBlacklisted(path string) bool {
	lower := strings.ToLower(path)
	for _, sub := range blacklistSubstrings {
		if strings.Contains(lower, sub) {
			return true
		}
	}
	return false
}

// cacheFolderNames is the set of basenames (lowercased) that mark a folder
// as cache-like. Go map literals de-duplicate repeated keys for free, so the
// "Cache" / "cache" duplicate noted in spec.md §4.1 simply collapses here.
var cacheFolderNames = map[string]bool{
	"node_modules":  true,
	".cache":        true,
	"__pycache__":   true,
	"dist":          true,
	"build":         true,
	"out":           true,
	"tmp":           true,
	"temp":          true,
	".tmp":          true,
	".temp":         true,
	"cache":         true,
	".git":          true,
	".venv":         true,
	"venv":          true,
	"env":           true,
	".env":          true,
	".next":         true,
	".nuxt":         true,
	"target":        true,
	"bin":           true,
	"obj":           true,
}

// IsCacheLike reports whether a folder at the given path should be treated
// as a cache/build-artifact folder by the analyzer. Two independent tests:
// an exact basename match, or a "\temp\" / "\tmp\" substring anywhere in the
// full lowercased path (broadened to forward slashes too, so it behaves the
// same on non-Windows trees — spec.md §9 "Open questions").
func IsCacheLike(path string) bool {
	base := strings.ToLower(filepath.Base(path))
	if cacheFolderNames[base] {
		return true
	}
	lower := strings.ToLower(path)
	return strings.Contains(lower, `\temp\`) || strings.Contains(lower, `\tmp\`) ||
		strings.Contains(lower, `/temp/`) || strings.Contains(lower, `/tmp/`)
}
