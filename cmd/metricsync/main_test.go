package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/metricsync/internal/config"
	"git.home.luguber.info/inful/metricsync/internal/target"
)

func strPtr(s string) *string { return &s }

func writeCatalogue(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "targets.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestAppendDiscoveredKeepsAuthoredForm(t *testing.T) {
	path := writeCatalogue(t, `targets:
  - owner: octocat
    type: profile
    branch_name: ${METRICS_BRANCH}
`)

	merged, err := target.NormalizeAll([]config.TargetEntry{
		{Owner: "octocat", Kind: config.KindProfile},
		{Owner: "hubot", Repository: strPtr("scripts"), Kind: config.KindOpenSource},
	}, nil)
	require.NoError(t, err)

	require.NoError(t, appendDiscovered(merged, 1, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)

	assert.Contains(t, text, "hubot")
	assert.Contains(t, text, "scripts")
	assert.Contains(t, text, "${METRICS_BRANCH}")

	// Derived defaults and discovery settings stay out of the file.
	assert.NotContains(t, text, "max_pages")
	assert.NotContains(t, text, "per_page")
	assert.NotContains(t, text, "badge_url_pattern")
	assert.NotContains(t, text, "target_path")
	assert.NotContains(t, text, "slug")

	cfg, err := config.LoadRaw(path)
	require.NoError(t, err)
	require.Len(t, cfg.Targets, 2)
}

func TestRunOpenSourceAppend(t *testing.T) {
	path := writeCatalogue(t, "targets:\n  - owner: octocat\n    type: profile\n")

	input := `["hello-world", {"repo": "stats", "branch": "metrics"}]`
	require.NoError(t, runOpenSource(path, "octocat", input, true, false))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Len(t, cfg.Targets, 3)

	require.NotNil(t, cfg.Targets[1].Repository)
	assert.Equal(t, "hello-world", *cfg.Targets[1].Repository)
	assert.Equal(t, config.KindOpenSource, cfg.Targets[1].Kind)

	require.NotNil(t, cfg.Targets[2].Repository)
	assert.Equal(t, "stats", *cfg.Targets[2].Repository)
	assert.Equal(t, "metrics", cfg.Targets[2].BranchName)
	assert.Equal(t, "metrics", cfg.Targets[2].ContributorsBranch)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "max_pages")
}

func TestRunOpenSourceRejectsConflicts(t *testing.T) {
	path := writeCatalogue(t, `targets:
  - owner: octocat
    type: profile
  - owner: octocat
    repository: hello-world
    type: open_source
`)
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	err = runOpenSource(path, "octocat", `["hello-world"]`, true, false)
	require.Error(t, err)

	var dup *target.DuplicateFieldError
	require.ErrorAs(t, err, &dup)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
}
