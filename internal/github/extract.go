package github

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var imgSrcRe = regexp.MustCompile(`(?i)<img[^>]+src=["']([^"']+)["']`)

// FindBadgeTarget scans README markdown for a metrics badge image and
// resolves the repository the badge publishes into. Both markdown images and
// raw <img> tags are considered; the first image whose URL carries the badge
// pattern and the metrics path marker wins.
func FindBadgeTarget(source []byte, badgePattern, metricsPattern string) (DiscoveredRepository, bool) {
	for _, candidate := range imageURLs(source) {
		if !strings.Contains(candidate, badgePattern) && !strings.Contains(candidate, metricsPattern) {
			continue
		}
		if repo, ok := parseOwnerRepo(candidate, metricsPattern); ok {
			return repo, true
		}
	}
	return DiscoveredRepository{}, false
}

// imageURLs collects image destinations in document order.
func imageURLs(source []byte) []string {
	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(source))

	var urls []string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Image:
			urls = append(urls, string(node.Destination))
		case *ast.HTMLBlock:
			for i := 0; i < node.Lines().Len(); i++ {
				seg := node.Lines().At(i)
				urls = append(urls, htmlImageSources(string(seg.Value(source)))...)
			}
		case *ast.RawHTML:
			for i := 0; i < node.Segments.Len(); i++ {
				seg := node.Segments.At(i)
				urls = append(urls, htmlImageSources(string(seg.Value(source)))...)
			}
		}
		return ast.WalkContinue, nil
	})
	return urls
}

func htmlImageSources(html string) []string {
	var out []string
	for _, m := range imgSrcRe.FindAllStringSubmatch(html, -1) {
		out = append(out, m[1])
	}
	return out
}

// parseOwnerRepo extracts the (owner, repository) pair from a badge URL.
// Supported shapes are github.com/{owner}/{repo}/... and
// raw.githubusercontent.com/{owner}/{repo}/...; the URL path must also carry
// the metrics marker so unrelated images in the same README are ignored.
func parseOwnerRepo(raw string, metricsPattern string) (DiscoveredRepository, bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return DiscoveredRepository{}, false
	}
	if !strings.Contains(u.Path, metricsPattern) {
		return DiscoveredRepository{}, false
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segments) < 2 || segments[0] == "" || segments[1] == "" {
		return DiscoveredRepository{}, false
	}
	return DiscoveredRepository{Owner: segments[0], Repository: segments[1]}, true
}
