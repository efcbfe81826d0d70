package runfolder

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	// alignmentPrefix marks per-analysis subfolders produced by newer
	// instrument software (Alignment_1, Alignment_2, ...).
	alignmentPrefix = "Alignment"
	// fastqDirName is the terminal directory inside an alignment folder.
	fastqDirName = "Fastq"
	// readMarker identifies sequence read files by substring match.
	readMarker = "fastq"

	legacyUnaligned = "Unaligned"
)

// legacyBaseCalls is the oldest known layout, nested under the run folder.
var legacyBaseCalls = filepath.Join("Data", "Intensities", "BaseCalls")

// ErrNoReadDir reports that a run folder matches none of the known
// instrument layout generations.
var ErrNoReadDir = errors.New("no fastq folder found")

// Resolve locates the directory holding sequence read files for one run.
//
// The layout rules, by instrument generation:
//  1. A run folder may nest a second directory named after the run id;
//     when present, that inner directory is probed instead.
//  2. Newer software writes Alignment* folders. The lexicographically
//     greatest one is taken as the most recent pass; the fastq files live
//     in <alignment>/<child>/Fastq. Children are ordered by name so the
//     pick is deterministic even when several exist.
//  3. Without alignment folders, the legacy locations are probed under the
//     run folder itself: Unaligned, then Data/Intensities/BaseCalls.
//
// Resolution is read-only. Permission failures propagate to the caller;
// an unrecognized layout yields ErrNoReadDir.
func Resolve(runRoot, runID string) (string, error) {
	candidate := runRoot
	if nested := filepath.Join(runRoot, runID); isDir(nested) {
		candidate = nested
	}

	alignments, err := alignmentDirs(candidate)
	if err != nil {
		return "", err
	}

	if len(alignments) > 0 {
		latest := alignments[len(alignments)-1]
		children, err := childDirs(latest)
		if err != nil {
			return "", err
		}
		if len(children) > 0 {
			return filepath.Join(children[0], fastqDirName), nil
		}
		return "", fmt.Errorf("%w for %s", ErrNoReadDir, runRoot)
	}

	for _, legacy := range []string{
		filepath.Join(runRoot, legacyUnaligned),
		filepath.Join(runRoot, legacyBaseCalls),
	} {
		if isDir(legacy) {
			return legacy, nil
		}
	}

	return "", fmt.Errorf("%w for %s", ErrNoReadDir, runRoot)
}

// HasReads reports whether dir directly contains at least one file whose
// name carries the read marker.
func HasReads(dir string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false, err
	}
	for _, entry := range entries {
		if strings.Contains(entry.Name(), readMarker) {
			return true, nil
		}
	}
	return false, nil
}

// alignmentDirs returns the Alignment* children of dir in ascending name
// order.
func alignmentDirs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list run folder %s: %w", dir, err)
	}
	var dirs []string
	for _, entry := range entries {
		if entry.IsDir() && strings.HasPrefix(entry.Name(), alignmentPrefix) {
			dirs = append(dirs, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(dirs)
	return dirs, nil
}

func childDirs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list alignment folder %s: %w", dir, err)
	}
	var dirs []string
	for _, entry := range entries {
		if entry.IsDir() {
			dirs = append(dirs, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(dirs)
	return dirs, nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
