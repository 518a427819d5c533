// Package nexusmods looks up mod metadata on Nexus Mods so installed mods can
// carry a name, version and link to their page.
package nexusmods

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/hasura/go-graphql-client"
)

const (
	// SourceID keys the stored API token
	SourceID = "nexusmods"

	defaultEndpoint = "https://api.nexusmods.com/v2/graphql"
	siteURL         = "https://www.nexusmods.com"
)

// ErrModNotFound is returned when Nexus has no mod with the requested ID
var ErrModNotFound = errors.New("mod not found on Nexus Mods")

// Client wraps the Nexus Mods GraphQL API
type Client struct {
	gql    *graphql.Client
	apiKey string
}

// Option configures a Client
type Option func(*options)

type options struct {
	endpoint string
}

// WithEndpoint points the client at a different GraphQL endpoint
func WithEndpoint(url string) Option {
	return func(o *options) { o.endpoint = url }
}

// NewClient creates a new Nexus Mods API client. apiKey may be empty; public
// mod metadata does not require one.
func NewClient(httpClient *http.Client, apiKey string, opts ...Option) *Client {
	o := options{endpoint: defaultEndpoint}
	for _, opt := range opts {
		opt(&o)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	authed := &http.Client{
		Transport: &apiKeyTransport{base: httpClient.Transport, apiKey: apiKey},
		Timeout:   httpClient.Timeout,
	}

	return &Client{
		gql:    graphql.NewClient(o.endpoint, authed),
		apiKey: apiKey,
	}
}

// IsAuthenticated returns true if an API key is configured
func (c *Client) IsAuthenticated() bool {
	return c.apiKey != ""
}

type apiKeyTransport struct {
	base   http.RoundTripper
	apiKey string
}

func (t *apiKeyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.apiKey != "" {
		req = req.Clone(req.Context())
		req.Header.Set("apikey", t.apiKey)
	}
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(req)
}

// CompositeDomainWithIdInput identifies a mod by game domain and mod ID
type CompositeDomainWithIdInput struct {
	GameDomain string     `json:"gameDomain"`
	ModID      graphql.ID `json:"modId"`
}

// GetMod fetches a mod's metadata by its numeric ID within a game domain
func (c *Client) GetMod(ctx context.Context, gameDomain, modID string) (*ModInfo, error) {
	if _, err := strconv.Atoi(modID); err != nil {
		return nil, fmt.Errorf("invalid Nexus mod ID %q", modID)
	}

	var query struct {
		LegacyModsByDomain struct {
			Nodes []modNode `graphql:"nodes"`
		} `graphql:"legacyModsByDomain(ids: $ids)"`
	}
	variables := map[string]interface{}{
		"ids": []CompositeDomainWithIdInput{{GameDomain: gameDomain, ModID: graphql.ID(modID)}},
	}

	if err := c.gql.Query(ctx, &query, variables); err != nil {
		return nil, fmt.Errorf("querying mod: %w", err)
	}
	if len(query.LegacyModsByDomain.Nodes) == 0 {
		return nil, fmt.Errorf("%w: %s/%s", ErrModNotFound, gameDomain, modID)
	}

	info := query.LegacyModsByDomain.Nodes[0].toInfo(gameDomain)
	return &info, nil
}

// ModURL returns the Nexus Mods page for a mod
func ModURL(gameDomain, modID string) string {
	return fmt.Sprintf("%s/%s/mods/%s", siteURL, gameDomain, modID)
}
