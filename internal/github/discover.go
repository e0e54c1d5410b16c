package github

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/metricsync/internal/config"
	apperrors "git.home.luguber.info/inful/metricsync/internal/errors"
	"git.home.luguber.info/inful/metricsync/internal/logfields"
	"git.home.luguber.info/inful/metricsync/internal/retry"
	"git.home.luguber.info/inful/metricsync/internal/util/sets"
)

// Discover runs the selected discovery strategy and returns candidate
// repositories in deterministic first-seen order. Discovery is stateless;
// re-invoking it re-queries the API.
func (c *Client) Discover(ctx context.Context, source config.DiscoverySource, cfg config.DiscoveryConfig) ([]DiscoveredRepository, error) {
	if c.token == "" {
		return nil, apperrors.MissingCredentials()
	}
	cfg.ApplyDefaults()
	policy := retry.NewPolicy(cfg.Retry.MaxAttempts, cfg.Retry.InitialDelayDuration(), cfg.Retry.BackoffFactor)

	start := c.clock.Now()
	defer func() {
		c.recorder.ObserveDiscoveryDuration(string(source), c.clock.Since(start))
	}()

	switch source {
	case config.SourceBadge:
		return c.discoverBadge(ctx, cfg, policy)
	case config.SourceStargazers:
		return c.discoverStargazers(ctx, cfg, policy)
	case config.SourceAll:
		return c.discoverAll(ctx, cfg, policy)
	default:
		return nil, fmt.Errorf("unknown discovery source %q", source)
	}
}

// discoverAll runs both strategies concurrently. They hit disjoint endpoints
// and share no state; outputs are joined after both complete and deduped
// with badge results taking precedence in the final order.
func (c *Client) discoverAll(ctx context.Context, cfg config.DiscoveryConfig, policy retry.Policy) ([]DiscoveredRepository, error) {
	var badge, gazers []DiscoveredRepository

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		badge, err = c.discoverBadge(gctx, cfg, policy)
		return err
	})
	g.Go(func() error {
		var err error
		gazers, err = c.discoverStargazers(gctx, cfg, policy)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return dedupe(badge, gazers), nil
}

func (c *Client) discoverBadge(ctx context.Context, cfg config.DiscoveryConfig, policy retry.Policy) ([]DiscoveredRepository, error) {
	source := string(config.SourceBadge)
	var out []DiscoveredRepository

	for page := 1; page <= cfg.MaxPages; page++ {
		repos, pageLen, err := fetchPage(ctx, c, policy, source, func(ctx context.Context) ([]DiscoveredRepository, int, error) {
			return c.searchBadgePage(ctx, cfg, page)
		})
		if err != nil {
			if skippable(err) {
				c.logger.Warn("skipping search page after exhausted retries",
					logfields.Source(source), logfields.Page(page), logfields.Error(err))
				c.recorder.IncPageSkipped(source)
				continue
			}
			return nil, err
		}
		c.recorder.IncPageFetched(source)
		out = append(out, repos...)
		if pageLen < cfg.PerPage {
			break
		}
	}

	c.recorder.AddRepositoriesDiscovered(source, len(out))
	return out, nil
}

func (c *Client) discoverStargazers(ctx context.Context, cfg config.DiscoveryConfig, policy retry.Policy) ([]DiscoveredRepository, error) {
	source := string(config.SourceStargazers)
	var out []DiscoveredRepository

	for page := 1; page <= cfg.MaxPages; page++ {
		gazers, pageLen, err := fetchPage(ctx, c, policy, source, func(ctx context.Context) ([]stargazer, int, error) {
			g, err := c.stargazersPage(ctx, cfg, page)
			return g, len(g), err
		})
		if err != nil {
			if skippable(err) {
				c.logger.Warn("skipping stargazer page after exhausted retries",
					logfields.Source(source), logfields.Page(page), logfields.Error(err))
				c.recorder.IncPageSkipped(source)
				continue
			}
			return nil, err
		}
		c.recorder.IncPageFetched(source)

		for _, gazer := range gazers {
			repo, found, err := c.stargazerBadge(ctx, cfg, policy, gazer.Login)
			if err != nil {
				if skippable(err) {
					c.logger.Warn("skipping stargazer profile after exhausted retries",
						logfields.Source(source), logfields.Owner(gazer.Login), logfields.Error(err))
					continue
				}
				return nil, err
			}
			if found {
				out = append(out, repo)
			}
		}

		if pageLen < cfg.PerPage {
			break
		}
	}

	c.recorder.AddRepositoriesDiscovered(source, len(out))
	return out, nil
}

// stargazerBadge fetches one account's profile README and extracts the
// metrics badge target, if any.
func (c *Client) stargazerBadge(ctx context.Context, cfg config.DiscoveryConfig, policy retry.Policy, login string) (DiscoveredRepository, bool, error) {
	type readme struct {
		content string
		found   bool
	}
	attempts := 0
	result, err := retry.Do(ctx, policy, c.clock, classify, func(ctx context.Context) (readme, error) {
		attempts++
		if attempts > 1 {
			c.recorder.IncPageRetry(string(config.SourceStargazers))
		}
		content, found, err := c.profileReadme(ctx, login)
		return readme{content: content, found: found}, err
	})
	if err != nil {
		return DiscoveredRepository{}, false, err
	}
	if !result.found {
		return DiscoveredRepository{}, false, nil
	}

	repo, ok := FindBadgeTarget([]byte(result.content), cfg.BadgeURLPattern, cfg.MetricsPathPattern)
	return repo, ok, nil
}

// fetchPage wraps one paginated fetch in the retry policy and counts retries.
func fetchPage[T any](ctx context.Context, c *Client, policy retry.Policy, source string, op func(ctx context.Context) (T, int, error)) (T, int, error) {
	type page struct {
		items T
		n     int
	}
	attempts := 0
	result, err := retry.Do(ctx, policy, c.clock, classify, func(ctx context.Context) (page, error) {
		attempts++
		if attempts > 1 {
			c.recorder.IncPageRetry(source)
		}
		items, n, err := op(ctx)
		return page{items: items, n: n}, err
	})
	if err != nil {
		var zero T
		return zero, 0, err
	}
	return result.items, result.n, nil
}

// classify maps API failures onto retry behavior: transport errors, 5xx and
// 429 are transient; everything else (auth, malformed request) is fatal.
func classify(err error) retry.Classification {
	var apiErr *apperrors.APIError
	if errors.As(err, &apiErr) && apiErr.Retryable {
		return retry.Retryable
	}
	return retry.Fatal
}

// skippable reports whether a page-level failure degrades to a warning
// instead of aborting the whole run.
func skippable(err error) bool {
	var exhausted *retry.ExhaustedError
	return errors.As(err, &exhausted)
}

// dedupe joins already-ordered result sets, suppressing later duplicates by
// (owner, repository) identity.
func dedupe(groups ...[]DiscoveredRepository) []DiscoveredRepository {
	seen := sets.New[DiscoveredRepository]()
	var out []DiscoveredRepository
	for _, group := range groups {
		for _, repo := range group {
			if seen.Has(repo) {
				continue
			}
			seen.Add(repo)
			out = append(out, repo)
		}
	}
	return out
}
