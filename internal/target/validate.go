package target

import "fmt"

// DuplicateFieldError reports a document-wide uniqueness violation. It names
// both the entry that first claimed the value and the entry that collides
// with it. FirstIndex == ConflictingIndex means the collision is within a
// single entry (target path equal to its own temp artifact).
type DuplicateFieldError struct {
	Field            string
	Value            string
	FirstIndex       int
	ConflictingIndex int
}

func (e *DuplicateFieldError) Error() string {
	if e.FirstIndex == e.ConflictingIndex {
		return fmt.Sprintf("target %d: %s %q collides within the entry", e.FirstIndex, e.Field, e.Value)
	}
	return fmt.Sprintf("target %d: duplicate %s %q (first used by target %d)", e.ConflictingIndex, e.Field, e.Value, e.FirstIndex)
}

// ValidateDocument checks document-wide uniqueness in entry order: slugs,
// branch names, and target paths must each be unique, and no temp artifact
// may collide with any target path. The first violation aborts validation.
func ValidateDocument(doc TargetsDocument) error {
	slugs := make(map[string]int, len(doc.Targets))
	branches := make(map[string]int, len(doc.Targets))
	targetPaths := make(map[string]int, len(doc.Targets))
	// Target paths and temp artifacts share one namespace.
	paths := make(map[string]int, len(doc.Targets)*2)

	for i, t := range doc.Targets {
		if first, ok := slugs[t.Slug]; ok {
			return &DuplicateFieldError{Field: "slug", Value: t.Slug, FirstIndex: first, ConflictingIndex: i}
		}
		slugs[t.Slug] = i

		branchKey := t.Owner + "/" + t.Repository + "@" + t.BranchName
		if first, ok := branches[branchKey]; ok {
			return &DuplicateFieldError{Field: "branch_name", Value: t.BranchName, FirstIndex: first, ConflictingIndex: i}
		}
		branches[branchKey] = i

		if first, ok := targetPaths[t.TargetPath]; ok {
			return &DuplicateFieldError{Field: "target_path", Value: t.TargetPath, FirstIndex: first, ConflictingIndex: i}
		}
		targetPaths[t.TargetPath] = i

		if first, ok := paths[t.TargetPath]; ok {
			return &DuplicateFieldError{Field: "target_path", Value: t.TargetPath, FirstIndex: first, ConflictingIndex: i}
		}
		paths[t.TargetPath] = i
		if first, ok := paths[t.TempArtifact]; ok {
			return &DuplicateFieldError{Field: "temp_artifact", Value: t.TempArtifact, FirstIndex: first, ConflictingIndex: i}
		}
		paths[t.TempArtifact] = i
	}
	return nil
}
