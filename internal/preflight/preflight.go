package preflight

import (
	"context"
	"fmt"

	"rundispatch/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	for i, root := range cfg.Paths.ScanRoots {
		results = append(results, CheckReadableDirectory(fmt.Sprintf("Scan root %d", i+1), root))
	}

	results = append(results, CheckDirectoryAccess("Public directory", cfg.Paths.PublicDir))
	results = append(results, CheckDirectoryAccess("State directory", cfg.Paths.StateDir))

	if cfg.SMTP.Host != "" {
		results = append(results, CheckSMTP(ctx, cfg.SMTP.Host, cfg.SMTP.Port))
	}

	return results
}

// AllPassed reports whether every check succeeded.
func AllPassed(results []Result) bool {
	for _, result := range results {
		if !result.Passed {
			return false
		}
	}
	return true
}
