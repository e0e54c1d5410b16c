package github

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"git.home.luguber.info/inful/metricsync/internal/config"
	apperrors "git.home.luguber.info/inful/metricsync/internal/errors"
)

type stargazer struct {
	Login string `json:"login"`
}

// stargazersPage fetches one page of accounts that starred the reference
// repository.
func (c *Client) stargazersPage(ctx context.Context, cfg config.DiscoveryConfig, page int) ([]stargazer, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("per_page", strconv.Itoa(cfg.PerPage))

	endpoint := fmt.Sprintf("/repos/%s/%s/stargazers", cfg.ReferenceOwner, cfg.ReferenceRepo)
	req, err := c.newRequest(ctx, http.MethodGet, endpoint, query)
	if err != nil {
		return nil, err
	}

	var gazers []stargazer
	if err := c.doRequest(req, &gazers); err != nil {
		return nil, err
	}
	return gazers, nil
}

type readmeResponse struct {
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

// profileReadme fetches the rendered source of an account's profile README
// (the README of the login/login repository). Accounts without one return
// ("", false, nil).
func (c *Client) profileReadme(ctx context.Context, login string) (string, bool, error) {
	endpoint := fmt.Sprintf("/repos/%s/%s/readme", login, login)
	req, err := c.newRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", false, err
	}

	var resp readmeResponse
	if err := c.doRequest(req, &resp); err != nil {
		var apiErr *apperrors.APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
			return "", false, nil
		}
		return "", false, err
	}

	if resp.Encoding != "base64" {
		return resp.Content, true, nil
	}
	decoded, err := base64.StdEncoding.DecodeString(strings.Map(dropSpace, resp.Content))
	if err != nil {
		return "", false, fmt.Errorf("decode readme for %s: %w", login, err)
	}
	return string(decoded), true, nil
}

func dropSpace(r rune) rune {
	if r == '\n' || r == '\r' || r == ' ' || r == '\t' {
		return -1
	}
	return r
}
