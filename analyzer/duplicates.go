package analyzer

import (
	"path/filepath"
	"sort"
	"strings"

	"diskintel/models"
)

const (
	duplicateFolderMinSize = 10 * mib
	duplicateFileMinSize   = mib
	// clusterTolerance is the maximum relative size difference, against a
	// cluster's largest (first) member, for a candidate to join that cluster.
	clusterTolerance = 0.10
)

// folderCluster is one group of folders considered duplicates of each other
// by basename and size similarity.
type folderCluster struct {
	paths []string
	sizes []int64
}

func (c *folderCluster) largest() int64 {
	return c.sizes[0]
}

func (c *folderCluster) total() int64 {
	var sum int64
	for _, s := range c.sizes {
		sum += s
	}
	return sum
}

// clusterDuplicateFolders groups folders by lowercased basename, then
// clusters each group's members by size similarity, per spec.md §4.3(d).
func clusterDuplicateFolders(folders map[string]*models.FolderRecord) []folderCluster {
	type candidate struct {
		path string
		size int64
	}

	byBase := make(map[string][]candidate)
	for path, f := range folders {
		if f.TotalSize <= duplicateFolderMinSize {
			continue
		}
		base := strings.ToLower(filepath.Base(path))
		byBase[base] = append(byBase[base], candidate{path: path, size: f.TotalSize})
	}

	// Iterate basenames in a deterministic order so finding emission order
	// (and therefore finding IDs) is stable across runs.
	bases := make([]string, 0, len(byBase))
	for b := range byBase {
		bases = append(bases, b)
	}
	sort.Strings(bases)

	var clusters []folderCluster
	for _, base := range bases {
		group := byBase[base]
		if len(group) < 2 {
			continue
		}
		sort.Slice(group, func(i, j int) bool { return group[i].size > group[j].size })

		var groupClusters []folderCluster
		for _, cand := range group {
			placed := false
			for i := range groupClusters {
				largest := groupClusters[i].largest()
				if largest == 0 {
					continue
				}
				diff := float64(largest-cand.size) / float64(largest)
				if diff < 0 {
					diff = -diff
				}
				if diff <= clusterTolerance {
					groupClusters[i].paths = append(groupClusters[i].paths, cand.path)
					groupClusters[i].sizes = append(groupClusters[i].sizes, cand.size)
					placed = true
					break
				}
			}
			if !placed {
				groupClusters = append(groupClusters, folderCluster{
					paths: []string{cand.path},
					sizes: []int64{cand.size},
				})
			}
		}

		for _, c := range groupClusters {
			if len(c.paths) >= 2 {
				clusters = append(clusters, c)
			}
		}
	}

	return clusters
}

// duplicateFileGroup is one set of files sharing a (basename, size) key.
type duplicateFileGroup struct {
	paths []string
	size  int64
}

// groupDuplicateFiles keys files by (case-sensitive basename, size_bytes), including only
// files strictly larger than 1 MiB, per spec.md §4.3(e).
func groupDuplicateFiles(files []models.FileRecord) []duplicateFileGroup {
	type key struct {
		base string
		size int64
	}

	byKey := make(map[key][]string)
	var order []key
	for _, f := range files {
		if f.SizeBytes <= duplicateFileMinSize {
			continue
		}
		k := key{base: filepath.Base(f.Path), size: f.SizeBytes}
		if _, seen := byKey[k]; !seen {
			order = append(order, k)
		}
		byKey[k] = append(byKey[k], f.Path)
	}

	var groups []duplicateFileGroup
	for _, k := range order {
		paths := byKey[k]
		if len(paths) >= 2 {
			groups = append(groups, duplicateFileGroup{paths: paths, size: k.size})
		}
	}
	return groups
}
