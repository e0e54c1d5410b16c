package syncer

import (
	"git.home.luguber.info/inful/metricsync/internal/config"
	"git.home.luguber.info/inful/metricsync/internal/github"
	"git.home.luguber.info/inful/metricsync/internal/target"
	"git.home.luguber.info/inful/metricsync/internal/util/sets"
)

type repoKey struct {
	owner      string
	repository string
}

// Sync merges discovered repositories into the catalogue. Pairs already
// present among open_source/private_project entries are skipped (profiles
// carry no repository and never match); new pairs are normalized as
// open_source entries and appended in discovery order. The merged document
// is re-validated as a whole: on any violation the original document is
// returned untouched alongside the error. The returned count is the number
// of entries actually appended; zero is a valid outcome.
func Sync(existing target.TargetsDocument, discovered []github.DiscoveredRepository, policy target.OwnerPolicy) (target.TargetsDocument, int, error) {
	known := sets.New[repoKey]()
	for _, t := range existing.Targets {
		if t.Repository == "" {
			continue
		}
		known.Add(repoKey{owner: t.Owner, repository: t.Repository})
	}

	// Copy-on-write: the candidate document is built aside and swapped in
	// only after full validation.
	candidate := target.TargetsDocument{
		Targets: make([]target.Target, len(existing.Targets), len(existing.Targets)+len(discovered)),
	}
	copy(candidate.Targets, existing.Targets)

	added := 0
	for _, repo := range discovered {
		key := repoKey{owner: repo.Owner, repository: repo.Repository}
		if known.Has(key) {
			continue
		}

		repository := repo.Repository
		entry := config.TargetEntry{
			Owner:      repo.Owner,
			Repository: &repository,
			Kind:       config.KindOpenSource,
		}
		normalized, err := target.Normalize(entry, policy)
		if err != nil {
			return existing, 0, err
		}

		candidate.Targets = append(candidate.Targets, normalized)
		known.Add(key)
		added++
	}

	if err := target.ValidateDocument(candidate); err != nil {
		return existing, 0, err
	}
	return candidate, added, nil
}
