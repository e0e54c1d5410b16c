package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"git.home.luguber.info/inful/metricsync/internal/config"
)

type codeSearchResponse struct {
	TotalCount int              `json:"total_count"`
	Items      []codeSearchItem `json:"items"`
}

type codeSearchItem struct {
	Path       string `json:"path"`
	Repository struct {
		Name  string `json:"name"`
		Owner struct {
			Login string `json:"login"`
		} `json:"owner"`
		Private bool `json:"private"`
	} `json:"repository"`
	TextMatches []struct {
		Fragment string `json:"fragment"`
	} `json:"text_matches"`
}

// searchBadgePage fetches one page of code search results for files that
// reference both the badge URL pattern and the metrics path marker. It
// returns the extracted repositories and the raw item count of the page so
// the caller can detect the final page.
func (c *Client) searchBadgePage(ctx context.Context, cfg config.DiscoveryConfig, page int) ([]DiscoveredRepository, int, error) {
	query := url.Values{}
	query.Set("q", fmt.Sprintf("%q %q in:file", cfg.BadgeURLPattern, cfg.MetricsPathPattern))
	query.Set("page", strconv.Itoa(page))
	query.Set("per_page", strconv.Itoa(cfg.PerPage))

	req, err := c.newRequest(ctx, http.MethodGet, "/search/code", query)
	if err != nil {
		return nil, 0, err
	}
	// Fragments are only included with the text-match media type.
	req.Header.Set("Accept", "application/vnd.github.text-match+json")

	var resp codeSearchResponse
	if err := c.doRequest(req, &resp); err != nil {
		return nil, 0, err
	}

	repos := make([]DiscoveredRepository, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Repository.Private {
			continue
		}
		if !fragmentsContainMarkers(item, cfg.BadgeURLPattern, cfg.MetricsPathPattern) {
			continue
		}
		owner := strings.TrimSpace(item.Repository.Owner.Login)
		name := strings.TrimSpace(item.Repository.Name)
		if owner == "" || name == "" {
			continue
		}
		repos = append(repos, DiscoveredRepository{Owner: owner, Repository: name})
	}
	return repos, len(resp.Items), nil
}

// fragmentsContainMarkers reports whether the matched fragments carry both
// the badge reference and the metrics path marker. Items without either
// marker are search noise and get discarded.
func fragmentsContainMarkers(item codeSearchItem, badgePattern, metricsPattern string) bool {
	var combined strings.Builder
	for _, m := range item.TextMatches {
		combined.WriteString(m.Fragment)
		combined.WriteByte('\n')
	}
	text := combined.String()
	return strings.Contains(text, badgePattern) && strings.Contains(text, metricsPattern)
}
