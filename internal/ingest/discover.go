package ingest

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"docscan/constants"
)

// DirStats summarizes a discovery walk.
type DirStats struct {
	Scanned uint32
	Matched uint32
	Skipped uint32
}

// DiscoverOptions tunes the walk. Zero value means: default extensions,
// hidden entries skipped.
type DiscoverOptions struct {
	IncludeExts []string // without dots; empty means constants.AllowedExtensions
	IncludeHidden bool
}

// Discover walks root, filters by extension, skips hidden dirs/files unless
// asked otherwise, and returns matched paths sorted lexicographically so a
// batch processes in a stable order across runs.
func Discover(root string, opts DiscoverOptions, logger *slog.Logger) ([]string, DirStats, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if strings.TrimSpace(root) == "" {
		return nil, DirStats{}, errors.New("input directory is required")
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, DirStats{}, fmt.Errorf("stat %s: %w", root, err)
	}
	if !info.IsDir() {
		// a single file is a batch of one
		if _, ok := extSet(opts.IncludeExts)[constants.NormalizeExt(filepath.Ext(root))]; !ok {
			return nil, DirStats{Scanned: 1, Skipped: 1},
				fmt.Errorf("unsupported file type: %s", root)
		}
		return []string{root}, DirStats{Scanned: 1, Matched: 1}, nil
	}

	exts := extSet(opts.IncludeExts)
	var paths []string
	var stats DirStats

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if !opts.IncludeHidden && isHidden(path) && path != root {
			if d.IsDir() {
				return filepath.SkipDir
			}
			stats.Skipped++
			return nil
		}
		if d.IsDir() {
			return nil
		}
		stats.Scanned++
		ext := constants.NormalizeExt(filepath.Ext(path))
		if _, ok := exts[ext]; !ok {
			stats.Skipped++
			return nil
		}
		stats.Matched++
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, stats, fmt.Errorf("walk %s: %w", root, err)
	}

	sort.Strings(paths)
	logger.Info("discover.done",
		"root", root,
		"scanned", stats.Scanned,
		"matched", stats.Matched,
		"skipped", stats.Skipped)
	return paths, stats, nil
}

func extSet(include []string) map[string]struct{} {
	if len(include) == 0 {
		return constants.AllowedExtensions
	}
	exts := make(map[string]struct{}, len(include))
	for _, e := range include {
		e = constants.NormalizeExt(strings.TrimSpace(e))
		if e != "" {
			exts[e] = struct{}{}
		}
	}
	return exts
}

func isHidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}
