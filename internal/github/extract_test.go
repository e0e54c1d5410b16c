package github

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	badgePattern   = "inful/metricsync"
	metricsPattern = "/metrics/"
)

func TestFindBadgeTargetMarkdownImage(t *testing.T) {
	readme := []byte(`# Profile

Some text.

![Metrics](https://raw.githubusercontent.com/octocat/octocat/main/metrics/octocat.svg)
`)

	repo, ok := FindBadgeTarget(readme, badgePattern, metricsPattern)
	require.True(t, ok)
	assert.Equal(t, DiscoveredRepository{Owner: "octocat", Repository: "octocat"}, repo)
}

func TestFindBadgeTargetHTMLImage(t *testing.T) {
	readme := []byte(`<p align="center">
  <img src="https://github.com/hubot/dashboards/blob/main/metrics/hubot.svg" width="400">
</p>
`)

	repo, ok := FindBadgeTarget(readme, badgePattern, metricsPattern)
	require.True(t, ok)
	assert.Equal(t, DiscoveredRepository{Owner: "hubot", Repository: "dashboards"}, repo)
}

func TestFindBadgeTargetIgnoresUnrelatedImages(t *testing.T) {
	readme := []byte(`![avatar](https://avatars.githubusercontent.com/u/1)

![shield](https://img.shields.io/badge/build-passing-green)
`)

	_, ok := FindBadgeTarget(readme, badgePattern, metricsPattern)
	assert.False(t, ok)
}

func TestFindBadgeTargetFirstMatchWins(t *testing.T) {
	readme := []byte(`![first](https://github.com/a/one/blob/main/metrics/a.svg)
![second](https://github.com/b/two/blob/main/metrics/b.svg)
`)

	repo, ok := FindBadgeTarget(readme, badgePattern, metricsPattern)
	require.True(t, ok)
	assert.Equal(t, "a", repo.Owner)
	assert.Equal(t, "one", repo.Repository)
}

func TestParseOwnerRepo(t *testing.T) {
	tests := []struct {
		url  string
		want DiscoveredRepository
		ok   bool
	}{
		{"https://raw.githubusercontent.com/octocat/octocat/main/metrics/x.svg", DiscoveredRepository{Owner: "octocat", Repository: "octocat"}, true},
		{"https://github.com/a/b/blob/main/metrics/a.svg", DiscoveredRepository{Owner: "a", Repository: "b"}, true},
		{"https://github.com/toplevel", DiscoveredRepository{}, false},
		{"https://example.com/no/metrics-marker.svg", DiscoveredRepository{}, false},
		{"not a url", DiscoveredRepository{}, false},
	}

	for _, tt := range tests {
		got, ok := parseOwnerRepo(tt.url, metricsPattern)
		assert.Equal(t, tt.ok, ok, "url %q", tt.url)
		assert.Equal(t, tt.want, got, "url %q", tt.url)
	}
}
