package target

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/metricsync/internal/config"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestNormalizeProfileDefaults(t *testing.T) {
	got, err := Normalize(config.TargetEntry{Owner: "octocat", Kind: config.KindProfile}, nil)
	require.NoError(t, err)

	assert.Equal(t, "octocat", got.Owner)
	assert.Empty(t, got.Repository)
	assert.Equal(t, "octocat", got.Slug)
	assert.Equal(t, "Octocat", got.DisplayName)
	assert.Equal(t, "main", got.BranchName)
	assert.Equal(t, "main", got.ContributorsBranch)
	assert.Equal(t, "metrics/octocat.svg", got.TargetPath)
	assert.Equal(t, ".metrics-tmp/octocat.svg", got.TempArtifact)
	assert.Equal(t, "UTC", got.TimeZone)
	assert.False(t, got.IncludePrivate)
	assert.Equal(t, config.BadgeStyleClassic, got.Badge.Style)
	assert.Equal(t, 1, got.Badge.Columns)
	assert.Equal(t, config.BadgeAlignStart, got.Badge.Alignment)
	assert.Equal(t, 4, got.Badge.BorderRadius)
}

func TestNormalizeRepositorySlug(t *testing.T) {
	got, err := Normalize(config.TargetEntry{
		Owner:      "octocat",
		Repository: strPtr("Hello-World"),
		Kind:       config.KindOpenSource,
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, "octocat-hello-world", got.Slug)
	assert.Equal(t, "Octocat Hello World", got.DisplayName)
	assert.Equal(t, "metrics/octocat-hello-world.svg", got.TargetPath)
}

func TestNormalizeOverridesWin(t *testing.T) {
	got, err := Normalize(config.TargetEntry{
		Owner:              "octocat",
		Repository:         strPtr("hello-world"),
		Kind:               config.KindPrivateProject,
		Slug:               "custom",
		DisplayName:        "Custom Dashboard",
		BranchName:         "metrics",
		ContributorsBranch: "contributors",
		TargetPath:         "out/custom.svg",
		TempArtifact:       "tmp/custom.svg",
		TimeZone:           "Europe/Oslo",
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, "custom", got.Slug)
	assert.Equal(t, "Custom Dashboard", got.DisplayName)
	assert.Equal(t, "metrics", got.BranchName)
	assert.Equal(t, "contributors", got.ContributorsBranch)
	assert.Equal(t, "out/custom.svg", got.TargetPath)
	assert.Equal(t, "tmp/custom.svg", got.TempArtifact)
	assert.Equal(t, "Europe/Oslo", got.TimeZone)
}

func TestNormalizeMissingOwner(t *testing.T) {
	_, err := Normalize(config.TargetEntry{Kind: config.KindProfile}, nil)
	var missing *MissingFieldError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "owner", missing.Field)
}

func TestNormalizeEmptyRepositoryString(t *testing.T) {
	_, err := Normalize(config.TargetEntry{
		Owner:      "octocat",
		Repository: strPtr(""),
		Kind:       config.KindOpenSource,
	}, nil)
	var missing *MissingFieldError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "repository", missing.Field)
}

func TestNormalizeKindCombinations(t *testing.T) {
	tests := []struct {
		name    string
		entry   config.TargetEntry
		hasRepo bool
	}{
		{
			name:    "profile with repository",
			entry:   config.TargetEntry{Owner: "octocat", Repository: strPtr("x"), Kind: config.KindProfile},
			hasRepo: true,
		},
		{
			name:    "open_source without repository",
			entry:   config.TargetEntry{Owner: "octocat", Kind: config.KindOpenSource},
			hasRepo: false,
		},
		{
			name:    "private_project without repository",
			entry:   config.TargetEntry{Owner: "octocat", Kind: config.KindPrivateProject},
			hasRepo: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(tt.entry, nil)
			var combo *KindCombinationError
			require.ErrorAs(t, err, &combo)
			assert.Equal(t, tt.hasRepo, combo.HasRepository)
		})
	}
}

func TestNormalizeUnknownKind(t *testing.T) {
	_, err := Normalize(config.TargetEntry{Owner: "octocat", Kind: "fork"}, nil)
	var unknown *UnknownKindError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "fork", unknown.Kind)
}

func TestNormalizeOwnerPolicy(t *testing.T) {
	policy := NewOwnerListPolicy([]string{"octocat"})

	flipped, err := Normalize(config.TargetEntry{Owner: "octocat", Kind: config.KindProfile}, policy)
	require.NoError(t, err)
	assert.True(t, flipped.IncludePrivate)

	plain, err := Normalize(config.TargetEntry{Owner: "hubot", Kind: config.KindProfile}, policy)
	require.NoError(t, err)
	assert.False(t, plain.IncludePrivate)

	// An explicit flag always beats the policy.
	off := false
	explicit, err := Normalize(config.TargetEntry{Owner: "octocat", Kind: config.KindProfile, IncludePrivate: &off}, policy)
	require.NoError(t, err)
	assert.False(t, explicit.IncludePrivate)
}

func TestNormalizeBadgeRanges(t *testing.T) {
	base := func(widget *config.BadgeWidgetOptions) config.TargetEntry {
		return config.TargetEntry{
			Owner: "octocat",
			Kind:  config.KindProfile,
			Badge: &config.BadgeOptions{Widget: widget},
		}
	}

	got, err := Normalize(base(&config.BadgeWidgetOptions{Columns: intPtr(3), BorderRadius: intPtr(8), Alignment: config.BadgeAlignCenter}), nil)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Badge.Columns)
	assert.Equal(t, 8, got.Badge.BorderRadius)
	assert.Equal(t, config.BadgeAlignCenter, got.Badge.Alignment)

	var rangeErr *BadgeRangeError

	_, err = Normalize(base(&config.BadgeWidgetOptions{Columns: intPtr(5)}), nil)
	require.ErrorAs(t, err, &rangeErr)
	assert.Equal(t, "columns", rangeErr.Field)

	_, err = Normalize(base(&config.BadgeWidgetOptions{Columns: intPtr(0)}), nil)
	require.ErrorAs(t, err, &rangeErr)

	_, err = Normalize(base(&config.BadgeWidgetOptions{BorderRadius: intPtr(33)}), nil)
	require.ErrorAs(t, err, &rangeErr)
	assert.Equal(t, "border_radius", rangeErr.Field)
}

func TestNormalizeIdempotent(t *testing.T) {
	entries := []config.TargetEntry{
		{Owner: "octocat", Kind: config.KindProfile},
		{Owner: "octocat", Repository: strPtr("Hello-World"), Kind: config.KindOpenSource},
		{Owner: "inful", Repository: strPtr("metricsync"), Kind: config.KindPrivateProject, BranchName: "metrics"},
	}
	policy := NewOwnerListPolicy([]string{"inful"})

	for _, entry := range entries {
		first, err := Normalize(entry, policy)
		require.NoError(t, err)

		second, err := Normalize(first.Raw(), policy)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"octocat", "octocat"},
		{"Hello-World", "hello-world"},
		{"Crème Brûlée", "creme-brulee"},
		{"foo__bar..baz", "foo-bar-baz"},
		{"--trimmed--", "trimmed"},
		{"UPPER case 123", "upper-case-123"},
		{"", ""},
		{"***", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.input), "input %q", tt.input)
		// Deterministic and idempotent.
		assert.Equal(t, Slugify(tt.input), Slugify(tt.input))
		assert.Equal(t, tt.want, Slugify(tt.want))
	}
}

func TestSlugifyConcurrent(t *testing.T) {
	const workers = 8
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				if got := Slugify("Crème Brûlée"); got != "creme-brulee" {
					t.Errorf("Slugify returned %q", got)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestNormalizeAllStampsIndexes(t *testing.T) {
	_, err := NormalizeAll([]config.TargetEntry{
		{Owner: "octocat", Kind: config.KindProfile},
		{Owner: "", Kind: config.KindProfile},
	}, nil)

	var missing *MissingFieldError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, 1, missing.Index)
}

func TestValidateDocumentOK(t *testing.T) {
	doc, err := NormalizeAll([]config.TargetEntry{
		{Owner: "octocat", Kind: config.KindProfile},
		{Owner: "octocat", Repository: strPtr("hello-world"), Kind: config.KindOpenSource},
		{Owner: "hubot", Repository: strPtr("scripts"), Kind: config.KindOpenSource},
	}, nil)
	require.NoError(t, err)
	require.NoError(t, ValidateDocument(doc))
}

func TestValidateDocumentDuplicateSlug(t *testing.T) {
	doc, err := NormalizeAll([]config.TargetEntry{
		{Owner: "octocat", Kind: config.KindProfile},
		{Owner: "octocat", Repository: strPtr("x"), Kind: config.KindOpenSource, Slug: "octocat", TargetPath: "other/path.svg", TempArtifact: "other/tmp.svg"},
	}, nil)
	require.NoError(t, err)

	err = ValidateDocument(doc)
	var dup *DuplicateFieldError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "slug", dup.Field)
	assert.Equal(t, "octocat", dup.Value)
	assert.Equal(t, 0, dup.FirstIndex)
	assert.Equal(t, 1, dup.ConflictingIndex)
}

func TestValidateDocumentDuplicateTargetPath(t *testing.T) {
	doc, err := NormalizeAll([]config.TargetEntry{
		{Owner: "octocat", Kind: config.KindProfile},
		{Owner: "hubot", Kind: config.KindProfile, TargetPath: "metrics/octocat.svg"},
	}, nil)
	require.NoError(t, err)

	err = ValidateDocument(doc)
	var dup *DuplicateFieldError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "target_path", dup.Field)
}

func TestValidateDocumentTempArtifactCollidesWithTargetPath(t *testing.T) {
	doc, err := NormalizeAll([]config.TargetEntry{
		{Owner: "octocat", Kind: config.KindProfile},
		{Owner: "hubot", Kind: config.KindProfile, TempArtifact: "metrics/octocat.svg"},
	}, nil)
	require.NoError(t, err)

	err = ValidateDocument(doc)
	var dup *DuplicateFieldError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "temp_artifact", dup.Field)
	assert.Equal(t, "metrics/octocat.svg", dup.Value)
}

func TestValidateDocumentBranchCollisionSameRepository(t *testing.T) {
	doc, err := NormalizeAll([]config.TargetEntry{
		{Owner: "octocat", Repository: strPtr("hello-world"), Kind: config.KindOpenSource},
		{Owner: "octocat", Repository: strPtr("hello-world"), Kind: config.KindPrivateProject, Slug: "other", TargetPath: "p/a.svg", TempArtifact: "p/b.svg"},
	}, nil)
	require.NoError(t, err)

	err = ValidateDocument(doc)
	var dup *DuplicateFieldError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "branch_name", dup.Field)
}

func TestResolveOpenSourceInput(t *testing.T) {
	entries, err := ResolveOpenSourceInput("octocat", `["hello-world", {"repo": "spoon-knife", "branch": "metrics"}]`)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "octocat", entries[0].Owner)
	require.NotNil(t, entries[0].Repository)
	assert.Equal(t, "hello-world", *entries[0].Repository)
	assert.Equal(t, config.KindOpenSource, entries[0].Kind)
	assert.Empty(t, entries[0].BranchName)

	assert.Equal(t, "spoon-knife", *entries[1].Repository)
	assert.Equal(t, "metrics", entries[1].BranchName)
	assert.Equal(t, "metrics", entries[1].ContributorsBranch)
}

func TestResolveOpenSourceInputErrors(t *testing.T) {
	_, err := ResolveOpenSourceInput("", `["x"]`)
	var missing *MissingFieldError
	require.ErrorAs(t, err, &missing)

	_, err = ResolveOpenSourceInput("octocat", `{"repo": "x"}`)
	require.Error(t, err)

	_, err = ResolveOpenSourceInput("octocat", `[""]`)
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "repository", missing.Field)

	entries, err := ResolveOpenSourceInput("octocat", "")
	require.NoError(t, err)
	assert.Empty(t, entries)
}
