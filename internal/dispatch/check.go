package dispatch

import (
	"context"
	"errors"
	"io/fs"

	"rundispatch/internal/runfolder"
)

// CheckStatus classifies the state of one known run folder.
type CheckStatus string

const (
	CheckOK         CheckStatus = "ok"
	CheckEmpty      CheckStatus = "empty"
	CheckNoReadDir  CheckStatus = "no fastq folder"
	CheckPermission CheckStatus = "permission denied"
	CheckError      CheckStatus = "error"
)

// CheckResult is the outcome for one run id.
type CheckResult struct {
	RunID  string
	Folder string
	Status CheckStatus
	Detail string
}

// CheckAll validates every known run folder. Failures are reported per run
// id; the batch never aborts.
func (d *Dispatcher) CheckAll(ctx context.Context) []CheckResult {
	ids := d.inv.IDs()
	results := make([]CheckResult, 0, len(ids))
	for _, runID := range ids {
		if err := ctx.Err(); err != nil {
			break
		}
		results = append(results, d.checkOne(runID))
	}
	return results
}

func (d *Dispatcher) checkOne(runID string) CheckResult {
	folder, _ := d.inv.Lookup(runID)
	result := CheckResult{RunID: runID, Folder: folder}

	readDir, err := runfolder.Resolve(folder, runID)
	switch {
	case errors.Is(err, fs.ErrPermission):
		result.Status = CheckPermission
		result.Detail = err.Error()
		return result
	case errors.Is(err, runfolder.ErrNoReadDir):
		result.Status = CheckNoReadDir
		return result
	case err != nil:
		result.Status = CheckError
		result.Detail = err.Error()
		return result
	}

	hasReads, err := runfolder.HasReads(readDir)
	switch {
	case errors.Is(err, fs.ErrPermission):
		result.Status = CheckPermission
		result.Detail = err.Error()
	case err != nil:
		result.Status = CheckError
		result.Detail = err.Error()
	case !hasReads:
		result.Status = CheckEmpty
		result.Detail = readDir
	default:
		result.Status = CheckOK
	}
	return result
}
