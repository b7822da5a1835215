package artifact

import (
	"strconv"
	"strings"

	"github.com/yairfalse/sampo/pkg/types"
)

// ParseStructure extracts the current branch, commit, and file total from
// a repository snapshot. The snapshot mixes a branch listing (current one
// starred), a commit line, and a tree dump; extraction is first match
// wins and anything absent stays empty.
func ParseStructure(raw string) *types.RepoStructure {
	structure := &types.RepoStructure{Raw: raw}

	for _, line := range SplitLines(raw) {
		trimmed := strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(trimmed, "* "):
			if structure.Branch == "" {
				structure.Branch = strings.TrimSpace(strings.TrimPrefix(trimmed, "* "))
			}
		case strings.HasPrefix(trimmed, "Commit:"):
			if structure.Commit == "" {
				structure.Commit = strings.TrimSpace(strings.TrimPrefix(trimmed, "Commit:"))
			}
		case strings.HasPrefix(trimmed, "Total files:"):
			value := strings.TrimSpace(strings.TrimPrefix(trimmed, "Total files:"))
			if n, err := strconv.Atoi(value); err == nil && structure.TotalFiles == 0 {
				structure.TotalFiles = n
			}
		}
	}

	return structure
}
