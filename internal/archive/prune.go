package archive

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"rundispatch/internal/logging"
)

// PruneResult contains the outcome of a retention sweep.
type PruneResult struct {
	Removed []string
	Errors  []PruneError
}

// PruneError pairs a path with its removal error.
type PruneError struct {
	Path  string
	Error error
}

// Prune removes regular files in publicDir older than retentionDays. A
// retentionDays value of 0 disables pruning. Directories are never touched.
func Prune(logger *slog.Logger, publicDir string, retentionDays int) PruneResult {
	result := PruneResult{}
	if retentionDays <= 0 {
		return result
	}
	publicDir = strings.TrimSpace(publicDir)
	if publicDir == "" {
		return result
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	entries, err := os.ReadDir(publicDir)
	if err != nil {
		if !os.IsNotExist(err) {
			result.Errors = append(result.Errors, PruneError{Path: publicDir, Error: err})
		}
		return result
	}

	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(publicDir, entry.Name())
		info, err := entry.Info()
		if err != nil {
			result.Errors = append(result.Errors, PruneError{Path: path, Error: err})
			continue
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.Remove(path); err != nil {
			result.Errors = append(result.Errors, PruneError{Path: path, Error: err})
			logger.Warn("retention remove failed; file remains",
				logging.String("path", path),
				logging.Error(err),
			)
			continue
		}
		result.Removed = append(result.Removed, path)
		logger.Info("expired archive pruned",
			logging.String("path", path),
			logging.String("last_modified", info.ModTime().Format(time.RFC3339)),
		)
	}
	return result
}
