package config

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// TargetKind enumerates supported categories of metrics targets.
type TargetKind string

const (
	KindProfile        TargetKind = "profile"
	KindOpenSource     TargetKind = "open_source"
	KindPrivateProject TargetKind = "private_project"
)

// NormalizeTargetKind canonicalizes user input (case-insensitive) or returns empty if unknown.
func NormalizeTargetKind(raw string) TargetKind {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(KindProfile):
		return KindProfile
	case string(KindOpenSource):
		return KindOpenSource
	case string(KindPrivateProject):
		return KindPrivateProject
	default:
		return ""
	}
}

// RequiresRepository reports whether entries of this kind must carry a repository.
func (k TargetKind) RequiresRepository() bool {
	return k == KindOpenSource || k == KindPrivateProject
}

// TargetEntry represents one raw catalogue entry as authored, before
// normalization. Optional fields stay pointers so that "absent" and
// "explicitly empty" remain distinguishable.
type TargetEntry struct {
	Owner      string     `yaml:"owner"`
	Repository *string    `yaml:"repository,omitempty"`
	Kind       TargetKind `yaml:"type"`

	// Optional overrides. Defaults are derived during normalization.
	Slug               string        `yaml:"slug,omitempty"`
	DisplayName        string        `yaml:"display_name,omitempty"`
	BranchName         string        `yaml:"branch_name,omitempty"`
	ContributorsBranch string        `yaml:"contributors_branch,omitempty"`
	TargetPath         string        `yaml:"target_path,omitempty"`
	TempArtifact       string        `yaml:"temp_artifact,omitempty"`
	TimeZone           string        `yaml:"time_zone,omitempty"`
	IncludePrivate     *bool         `yaml:"include_private,omitempty"`
	Badge              *BadgeOptions `yaml:"badge,omitempty"`
}

// targetEntryAlias mirrors TargetEntry plus the short-hand keys accepted in
// hand-written catalogues (repo, branch).
type targetEntryAlias struct {
	Owner              string        `yaml:"owner"`
	Repository         *string       `yaml:"repository"`
	Repo               *string       `yaml:"repo"`
	Kind               string        `yaml:"type"`
	Slug               string        `yaml:"slug"`
	DisplayName        string        `yaml:"display_name"`
	BranchName         string        `yaml:"branch_name"`
	Branch             string        `yaml:"branch"`
	ContributorsBranch string        `yaml:"contributors_branch"`
	TargetPath         string        `yaml:"target_path"`
	TempArtifact       string        `yaml:"temp_artifact"`
	TimeZone           string        `yaml:"time_zone"`
	IncludePrivate     *bool         `yaml:"include_private"`
	Badge              *BadgeOptions `yaml:"badge"`
}

// UnmarshalYAML decodes an entry while honoring the repo/branch aliases.
func (e *TargetEntry) UnmarshalYAML(value *yaml.Node) error {
	var aux targetEntryAlias
	if err := value.Decode(&aux); err != nil {
		return err
	}
	e.Owner = aux.Owner
	e.Repository = aux.Repository
	if e.Repository == nil {
		e.Repository = aux.Repo
	}
	e.Kind = NormalizeTargetKind(aux.Kind)
	if e.Kind == "" {
		e.Kind = TargetKind(strings.TrimSpace(aux.Kind))
	}
	e.Slug = aux.Slug
	e.DisplayName = aux.DisplayName
	e.BranchName = aux.BranchName
	if e.BranchName == "" {
		e.BranchName = aux.Branch
	}
	e.ContributorsBranch = aux.ContributorsBranch
	e.TargetPath = aux.TargetPath
	e.TempArtifact = aux.TempArtifact
	e.TimeZone = aux.TimeZone
	e.IncludePrivate = aux.IncludePrivate
	e.Badge = aux.Badge
	return nil
}

// BadgeStyle enumerates visual presets supported by the badge renderer.
type BadgeStyle string

const (
	BadgeStyleClassic     BadgeStyle = "classic"
	BadgeStyleFlat        BadgeStyle = "flat"
	BadgeStyleFlatSquare  BadgeStyle = "flat_square"
	BadgeStylePlastic     BadgeStyle = "plastic"
	BadgeStyleForTheBadge BadgeStyle = "for_the_badge"
)

// NormalizeBadgeStyle canonicalizes a badge style string or returns empty if unknown.
func NormalizeBadgeStyle(raw string) BadgeStyle {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(BadgeStyleClassic):
		return BadgeStyleClassic
	case string(BadgeStyleFlat):
		return BadgeStyleFlat
	case string(BadgeStyleFlatSquare):
		return BadgeStyleFlatSquare
	case string(BadgeStylePlastic):
		return BadgeStylePlastic
	case string(BadgeStyleForTheBadge):
		return BadgeStyleForTheBadge
	default:
		return ""
	}
}

// BadgeAlignment enumerates horizontal alignment presets for the badge widget.
type BadgeAlignment string

const (
	BadgeAlignStart  BadgeAlignment = "start"
	BadgeAlignCenter BadgeAlignment = "center"
	BadgeAlignEnd    BadgeAlignment = "end"
)

// NormalizeBadgeAlignment canonicalizes an alignment string or returns empty if unknown.
func NormalizeBadgeAlignment(raw string) BadgeAlignment {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(BadgeAlignStart):
		return BadgeAlignStart
	case string(BadgeAlignCenter):
		return BadgeAlignCenter
	case string(BadgeAlignEnd):
		return BadgeAlignEnd
	default:
		return ""
	}
}

// BadgeOptions carries optional badge customization for one target.
type BadgeOptions struct {
	Style  BadgeStyle          `yaml:"style,omitempty"`
	Widget *BadgeWidgetOptions `yaml:"widget,omitempty"`
}

// BadgeWidgetOptions carries layout overrides for the badge widget.
// Columns is constrained to 1..4 and BorderRadius to 0..32 during
// normalization; zero pointers mean "use the default".
type BadgeWidgetOptions struct {
	Columns      *int           `yaml:"columns,omitempty"`
	Alignment    BadgeAlignment `yaml:"alignment,omitempty"`
	BorderRadius *int           `yaml:"border_radius,omitempty"`
}

// PolicyConfig holds owner-level policy knobs applied during normalization.
type PolicyConfig struct {
	// IncludePrivateOwners lists owners whose profile targets default to
	// include_private=true when the entry does not set the flag itself.
	IncludePrivateOwners []string `yaml:"include_private_owners,omitempty"`
}
