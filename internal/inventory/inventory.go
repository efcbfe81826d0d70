package inventory

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"unicode"

	"rundispatch/internal/logging"
)

// groupNameLength separates real run identifiers from the short grouping
// folders some instrument generations write: names of exactly four
// characters are containers holding one run folder each.
const groupNameLength = 4

// Inventory maps run identifiers to their run folders. It is rebuilt from
// the filesystem on every process start and never persisted.
type Inventory struct {
	runs map[string]string
}

// Collect scans the given roots for run folders. Direct children whose name
// begins with a digit and is longer than four characters are runs; children
// of exactly four characters are descended one level with the same rule.
// Later roots win on run-id collision. Unreadable roots or group folders are
// logged and skipped.
func Collect(roots []string, logger *slog.Logger) (*Inventory, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	runs := make(map[string]string)
	for _, root := range roots {
		entries, err := os.ReadDir(root)
		if err != nil {
			logger.Warn("skipping unreadable scan root",
				logging.String("root", root),
				logging.Error(err),
			)
			continue
		}
		for _, entry := range entries {
			name := entry.Name()
			if !startsWithDigit(name) {
				continue
			}
			switch {
			case len(name) > groupNameLength:
				runs[name] = filepath.Join(root, name)
			case len(name) == groupNameLength:
				group := filepath.Join(root, name)
				nested, err := os.ReadDir(group)
				if err != nil {
					logger.Warn("skipping unreadable group folder",
						logging.String("path", group),
						logging.Error(err),
					)
					continue
				}
				for _, sub := range nested {
					subName := sub.Name()
					if startsWithDigit(subName) && len(subName) > groupNameLength {
						runs[subName] = filepath.Join(group, subName)
					}
				}
			}
		}
	}
	return &Inventory{runs: runs}, nil
}

// IDs returns all known run identifiers, newest-looking first (descending
// name order, which sorts date-prefixed run ids chronologically).
func (inv *Inventory) IDs() []string {
	ids := make([]string, 0, len(inv.runs))
	for id := range inv.runs {
		ids = append(ids, id)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(ids)))
	return ids
}

// Lookup returns the run folder for id.
func (inv *Inventory) Lookup(id string) (string, bool) {
	folder, ok := inv.runs[id]
	return folder, ok
}

// Len returns the number of known runs.
func (inv *Inventory) Len() int {
	return len(inv.runs)
}

// String renders the id list for terminal output.
func (inv *Inventory) String() string {
	out := "Existing run ids:\n-----------------------\n"
	for _, id := range inv.IDs() {
		out += fmt.Sprintf("%s\n", id)
	}
	return out
}

func startsWithDigit(name string) bool {
	if name == "" {
		return false
	}
	return unicode.IsDigit(rune(name[0]))
}
