package target

import (
	"encoding/json"
	"fmt"
	"strings"

	"git.home.luguber.info/inful/metricsync/internal/config"
)

// openSourceDescriptor is one element of the workflow input form. Elements
// may also be plain strings, handled in ResolveOpenSourceInput.
type openSourceDescriptor struct {
	Repo   string `json:"repo"`
	Branch string `json:"branch,omitempty"`
	Slug   string `json:"slug,omitempty"`
}

// ResolveOpenSourceInput parses a JSON array describing open-source
// repositories for one owner and expands it into raw catalogue entries.
// Elements are either bare repository names ("hello-world") or descriptor
// objects ({"repo": "hello-world", "branch": "metrics"}). The branch, when
// given, is used for both branch_name and contributors_branch.
func ResolveOpenSourceInput(owner string, input string) ([]config.TargetEntry, error) {
	owner = strings.TrimSpace(owner)
	if owner == "" {
		return nil, &MissingFieldError{Field: "owner", Index: -1}
	}
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal([]byte(input), &raw); err != nil {
		return nil, fmt.Errorf("open-source input is not a JSON array: %w", err)
	}

	entries := make([]config.TargetEntry, 0, len(raw))
	for i, elem := range raw {
		var desc openSourceDescriptor
		var name string
		if err := json.Unmarshal(elem, &name); err == nil {
			desc.Repo = name
		} else if err := json.Unmarshal(elem, &desc); err != nil {
			return nil, fmt.Errorf("open-source input element %d: expected string or object: %w", i, err)
		}

		repo := strings.TrimSpace(desc.Repo)
		if repo == "" {
			return nil, &MissingFieldError{Field: "repository", Index: i}
		}

		entry := config.TargetEntry{
			Owner:      owner,
			Repository: &repo,
			Kind:       config.KindOpenSource,
			Slug:       strings.TrimSpace(desc.Slug),
		}
		if branch := strings.TrimSpace(desc.Branch); branch != "" {
			entry.BranchName = branch
			entry.ContributorsBranch = branch
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
