package target

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/metricsync/internal/config"
	"git.home.luguber.info/inful/metricsync/internal/util/sets"
)

// Badge defaults applied when an entry carries no overrides.
const (
	DefaultBadgeColumns      = 1
	DefaultBadgeBorderRadius = 4

	MaxBadgeColumns      = 4
	MaxBadgeBorderRadius = 32
)

// Target is a fully resolved catalogue entry. Every optional field of the raw
// entry has been materialized, so consumers never need to re-derive defaults.
type Target struct {
	Owner              string            `json:"owner" yaml:"owner"`
	Repository         string            `json:"repository,omitempty" yaml:"repository,omitempty"`
	Kind               config.TargetKind `json:"type" yaml:"type"`
	Slug               string            `json:"slug" yaml:"slug"`
	DisplayName        string            `json:"display_name" yaml:"display_name"`
	BranchName         string            `json:"branch_name" yaml:"branch_name"`
	ContributorsBranch string            `json:"contributors_branch" yaml:"contributors_branch"`
	TargetPath         string            `json:"target_path" yaml:"target_path"`
	TempArtifact       string            `json:"temp_artifact" yaml:"temp_artifact"`
	TimeZone           string            `json:"time_zone" yaml:"time_zone"`
	IncludePrivate     bool              `json:"include_private" yaml:"include_private"`
	Badge              BadgeSettings     `json:"badge" yaml:"badge"`
}

// BadgeSettings is the resolved badge configuration for one target.
type BadgeSettings struct {
	Style        config.BadgeStyle     `json:"style" yaml:"style"`
	Columns      int                   `json:"columns" yaml:"columns"`
	Alignment    config.BadgeAlignment `json:"alignment" yaml:"alignment"`
	BorderRadius int                   `json:"border_radius" yaml:"border_radius"`
}

// TargetsDocument is the ordered catalogue of normalized targets. Order is
// insertion order and must survive round-trips unchanged.
type TargetsDocument struct {
	Targets []Target `json:"targets" yaml:"targets"`
}

// OwnerPolicy decides whether an owner's targets default to
// include_private=true when the entry itself leaves the flag unset.
type OwnerPolicy func(owner string) bool

// NewOwnerListPolicy builds a policy from an allow list of owner names.
func NewOwnerListPolicy(owners []string) OwnerPolicy {
	allow := sets.New[string]()
	for _, o := range owners {
		o = strings.TrimSpace(o)
		if o != "" {
			allow.Add(o)
		}
	}
	return func(owner string) bool { return allow.Has(owner) }
}

// PolicyFromConfig derives the owner policy from catalogue configuration.
func PolicyFromConfig(p config.PolicyConfig) OwnerPolicy {
	return NewOwnerListPolicy(p.IncludePrivateOwners)
}

// MissingFieldError reports a required field that is empty or absent.
type MissingFieldError struct {
	Field string
	Index int // position in the document, -1 for a standalone entry
}

func (e *MissingFieldError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("target %d: required field %q is missing or empty", e.Index, e.Field)
	}
	return fmt.Sprintf("required field %q is missing or empty", e.Field)
}

// UnknownKindError reports a type value outside the closed enum.
type UnknownKindError struct {
	Kind  string
	Index int
}

func (e *UnknownKindError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("target %d: unknown target type %q", e.Index, e.Kind)
	}
	return fmt.Sprintf("unknown target type %q", e.Kind)
}

// KindCombinationError reports a repository field that disagrees with the
// declared kind: profiles must not carry one, repository kinds must.
type KindCombinationError struct {
	Kind          config.TargetKind
	Index         int
	HasRepository bool
}

func (e *KindCombinationError) Error() string {
	prefix := ""
	if e.Index >= 0 {
		prefix = fmt.Sprintf("target %d: ", e.Index)
	}
	if e.HasRepository {
		return fmt.Sprintf("%stype %q does not accept a repository", prefix, e.Kind)
	}
	return fmt.Sprintf("%stype %q requires a repository", prefix, e.Kind)
}

// BadgeRangeError reports a badge option outside its allowed range.
type BadgeRangeError struct {
	Field    string
	Value    int
	Min, Max int
	Index    int
}

func (e *BadgeRangeError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("target %d: badge %s %d out of range [%d, %d]", e.Index, e.Field, e.Value, e.Min, e.Max)
	}
	return fmt.Sprintf("badge %s %d out of range [%d, %d]", e.Field, e.Value, e.Min, e.Max)
}

// Normalize resolves one raw entry into a Target. The transform is pure and
// deterministic; normalizing an already-normalized entry yields it unchanged.
func Normalize(entry config.TargetEntry, policy OwnerPolicy) (Target, error) {
	return normalizeAt(entry, policy, -1)
}

// NormalizeAll resolves every entry in document order. The first failing
// entry aborts the whole normalization; errors carry the entry's index.
func NormalizeAll(entries []config.TargetEntry, policy OwnerPolicy) (TargetsDocument, error) {
	doc := TargetsDocument{Targets: make([]Target, 0, len(entries))}
	for i, entry := range entries {
		t, err := normalizeAt(entry, policy, i)
		if err != nil {
			return TargetsDocument{}, err
		}
		doc.Targets = append(doc.Targets, t)
	}
	return doc, nil
}

func normalizeAt(entry config.TargetEntry, policy OwnerPolicy, index int) (Target, error) {
	owner := strings.TrimSpace(entry.Owner)
	if owner == "" {
		return Target{}, &MissingFieldError{Field: "owner", Index: index}
	}

	kind := config.NormalizeTargetKind(string(entry.Kind))
	if kind == "" {
		return Target{}, &UnknownKindError{Kind: string(entry.Kind), Index: index}
	}

	repository := ""
	if entry.Repository != nil {
		repository = strings.TrimSpace(*entry.Repository)
		if repository == "" {
			return Target{}, &MissingFieldError{Field: "repository", Index: index}
		}
	}
	if kind.RequiresRepository() && repository == "" {
		return Target{}, &KindCombinationError{Kind: kind, Index: index, HasRepository: false}
	}
	if !kind.RequiresRepository() && repository != "" {
		return Target{}, &KindCombinationError{Kind: kind, Index: index, HasRepository: true}
	}

	slug := strings.TrimSpace(entry.Slug)
	if slug == "" {
		if kind == config.KindProfile {
			slug = Slugify(owner)
		} else {
			slug = Slugify(owner + "-" + repository)
		}
	} else {
		slug = Slugify(slug)
	}
	if slug == "" {
		return Target{}, &MissingFieldError{Field: "slug", Index: index}
	}

	branch := strings.TrimSpace(entry.BranchName)
	if branch == "" {
		branch = "main"
	}
	contributors := strings.TrimSpace(entry.ContributorsBranch)
	if contributors == "" {
		contributors = branch
	}

	targetPath := strings.TrimSpace(entry.TargetPath)
	if targetPath == "" {
		targetPath = "metrics/" + slug + ".svg"
	}
	tempArtifact := strings.TrimSpace(entry.TempArtifact)
	if tempArtifact == "" {
		tempArtifact = ".metrics-tmp/" + slug + ".svg"
	}
	if targetPath == tempArtifact {
		return Target{}, &DuplicateFieldError{Field: "temp_artifact", Value: tempArtifact, FirstIndex: index, ConflictingIndex: index}
	}

	displayName := strings.TrimSpace(entry.DisplayName)
	if displayName == "" {
		displayName = titleize(slug)
	}

	timeZone := strings.TrimSpace(entry.TimeZone)
	if timeZone == "" {
		timeZone = "UTC"
	}

	includePrivate := false
	if entry.IncludePrivate != nil {
		includePrivate = *entry.IncludePrivate
	} else if policy != nil {
		includePrivate = policy(owner)
	}

	badge, err := resolveBadge(entry.Badge, index)
	if err != nil {
		return Target{}, err
	}

	return Target{
		Owner:              owner,
		Repository:         repository,
		Kind:               kind,
		Slug:               slug,
		DisplayName:        displayName,
		BranchName:         branch,
		ContributorsBranch: contributors,
		TargetPath:         targetPath,
		TempArtifact:       tempArtifact,
		TimeZone:           timeZone,
		IncludePrivate:     includePrivate,
		Badge:              badge,
	}, nil
}

func resolveBadge(opts *config.BadgeOptions, index int) (BadgeSettings, error) {
	badge := BadgeSettings{
		Style:        config.BadgeStyleClassic,
		Columns:      DefaultBadgeColumns,
		Alignment:    config.BadgeAlignStart,
		BorderRadius: DefaultBadgeBorderRadius,
	}
	if opts == nil {
		return badge, nil
	}

	if opts.Style != "" {
		style := config.NormalizeBadgeStyle(string(opts.Style))
		if style == "" {
			return BadgeSettings{}, &BadgeRangeError{Field: "style", Index: index, Min: 0, Max: 0}
		}
		badge.Style = style
	}
	if opts.Widget == nil {
		return badge, nil
	}

	if opts.Widget.Columns != nil {
		c := *opts.Widget.Columns
		if c < 1 || c > MaxBadgeColumns {
			return BadgeSettings{}, &BadgeRangeError{Field: "columns", Value: c, Min: 1, Max: MaxBadgeColumns, Index: index}
		}
		badge.Columns = c
	}
	if opts.Widget.Alignment != "" {
		align := config.NormalizeBadgeAlignment(string(opts.Widget.Alignment))
		if align == "" {
			return BadgeSettings{}, &BadgeRangeError{Field: "alignment", Index: index, Min: 0, Max: 0}
		}
		badge.Alignment = align
	}
	if opts.Widget.BorderRadius != nil {
		r := *opts.Widget.BorderRadius
		if r < 0 || r > MaxBadgeBorderRadius {
			return BadgeSettings{}, &BadgeRangeError{Field: "border_radius", Value: r, Min: 0, Max: MaxBadgeBorderRadius, Index: index}
		}
		badge.BorderRadius = r
	}
	return badge, nil
}

// Raw converts a normalized target back into an explicit raw entry. Feeding
// the result through Normalize reproduces the target exactly.
func (t Target) Raw() config.TargetEntry {
	entry := config.TargetEntry{
		Owner:              t.Owner,
		Kind:               t.Kind,
		Slug:               t.Slug,
		DisplayName:        t.DisplayName,
		BranchName:         t.BranchName,
		ContributorsBranch: t.ContributorsBranch,
		TargetPath:         t.TargetPath,
		TempArtifact:       t.TempArtifact,
		TimeZone:           t.TimeZone,
	}
	if t.Repository != "" {
		repo := t.Repository
		entry.Repository = &repo
	}
	include := t.IncludePrivate
	entry.IncludePrivate = &include

	columns := t.Badge.Columns
	radius := t.Badge.BorderRadius
	entry.Badge = &config.BadgeOptions{
		Style: t.Badge.Style,
		Widget: &config.BadgeWidgetOptions{
			Columns:      &columns,
			Alignment:    t.Badge.Alignment,
			BorderRadius: &radius,
		},
	}
	return entry
}

func titleize(slug string) string {
	words := strings.Split(slug, "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
