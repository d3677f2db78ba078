package source

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/tidwall/gjson"

	"github.com/matzehuels/storeblocks/pkg/block"
	"github.com/matzehuels/storeblocks/pkg/cache"
	"github.com/matzehuels/storeblocks/pkg/errors"
	"github.com/matzehuels/storeblocks/pkg/fragments"
	"github.com/matzehuels/storeblocks/pkg/httputil"
	"github.com/matzehuels/storeblocks/pkg/observability"
)

// DefaultPageQuery selects a page and spreads AllBlockTypes over its blocks.
const DefaultPageQuery = `query StorefrontPage($id: String!) {
  page(id: $id) {
    id
    title
    blocks {
      ...AllBlockTypes
    }
  }
}
`

// DefaultPagePath locates the page object in the response.
const DefaultPagePath = "data.page"

// GraphQLOptions configures a [GraphQL] source.
type GraphQLOptions struct {
	Endpoint string
	// Token is sent as a bearer token when set.
	Token   string
	Headers map[string]string
	// Query is the page query document. It must declare an $id variable
	// and spread AllBlockTypes; the fragment definitions are appended.
	Query string
	// PagePath is the gjson path of the page object in the response.
	PagePath string
	Timeout  time.Duration
	Attempts int

	// Cache stores raw page responses under Keyer.ResponseKey.
	Cache cache.Cache
	Keyer cache.Keyer
	TTL   time.Duration
}

// GraphQL fetches pages from a CMS GraphQL endpoint.
type GraphQL struct {
	opts     GraphQLOptions
	document string
	http     *http.Client
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

// NewGraphQL validates opts and builds the query document once.
func NewGraphQL(opts GraphQLOptions) (*GraphQL, error) {
	if err := errors.ValidateURL(opts.Endpoint); err != nil {
		return nil, err
	}
	if opts.Query == "" {
		opts.Query = DefaultPageQuery
	}
	if opts.PagePath == "" {
		opts.PagePath = DefaultPagePath
	}
	if opts.Attempts <= 0 {
		opts.Attempts = 3
	}
	if opts.Cache == nil {
		opts.Cache = cache.NewNullCache()
	}
	if opts.Keyer == nil {
		opts.Keyer = cache.NewDefaultKeyer()
	}
	if opts.TTL <= 0 {
		opts.TTL = cache.TTLResponse
	}
	return &GraphQL{
		opts:     opts,
		document: opts.Query + "\n" + fragments.Builtin().AllBlockTypes(),
		http:     httputil.NewClient(opts.Timeout),
	}, nil
}

func (g *GraphQL) Page(ctx context.Context, id string) (block.Page, error) {
	if err := errors.ValidatePageID(id); err != nil {
		return block.Page{}, err
	}
	vars := map[string]any{"id": id}
	key := g.opts.Keyer.ResponseKey(g.opts.Endpoint, g.document, vars)

	if data, ok, _ := g.opts.Cache.Get(ctx, key); ok {
		observability.Cache().OnCacheHit(ctx, "response")
		return DecodePage(data, id)
	}
	observability.Cache().OnCacheMiss(ctx, "response")

	var raw []byte
	backoff := httputil.DefaultBackoff
	backoff.Attempts = g.opts.Attempts
	err := backoff.Do(ctx, func() error {
		body, err := g.post(ctx, vars)
		if err != nil {
			return err
		}
		raw, err = g.extract(body, id)
		return err
	})
	if err != nil {
		return block.Page{}, err
	}

	page, err := DecodePage(raw, id)
	if err != nil {
		return block.Page{}, err
	}
	if err := g.opts.Cache.Set(ctx, key, raw, g.opts.TTL); err == nil {
		observability.Cache().OnCacheSet(ctx, "response", len(raw))
	}
	return page, nil
}

func (g *GraphQL) post(ctx context.Context, vars map[string]any) ([]byte, error) {
	payload, err := json.Marshal(graphQLRequest{Query: g.document, Variables: vars})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode query")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.opts.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if g.opts.Token != "" {
		req.Header.Set("Authorization", "Bearer "+g.opts.Token)
	}
	for k, v := range g.opts.Headers {
		req.Header.Set(k, v)
	}

	host, path := endpointParts(g.opts.Endpoint)
	hooks := observability.HTTP()
	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()

	resp, err := g.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		if ctx.Err() != nil {
			return nil, errors.Wrap(errors.ErrCodeTimeout, err, "query %s", host)
		}
		return nil, httputil.NetworkError(err)
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	if err := httputil.CheckResponse(resp); err != nil {
		return nil, err
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, httputil.NetworkError(err)
	}
	return body, nil
}

// extract pulls the page object out of a GraphQL response. GraphQL errors
// are reported even when partial data came back.
func (g *GraphQL) extract(body []byte, id string) ([]byte, error) {
	if !gjson.ValidBytes(body) {
		return nil, errors.New(errors.ErrCodeNetwork, "invalid JSON response for page %s", id)
	}
	if msgs := gjson.GetBytes(body, "errors.#.message"); len(msgs.Array()) > 0 {
		return nil, errors.New(errors.ErrCodeNetwork, "graphql: %s", msgs.Array()[0].String())
	}
	page := gjson.GetBytes(body, g.opts.PagePath)
	if !page.Exists() || page.Type == gjson.Null {
		return nil, notFound(id)
	}
	return []byte(page.Raw), nil
}

// Document returns the full query document sent to the endpoint.
func (g *GraphQL) Document() string { return g.document }

func (g *GraphQL) Name() string { return "graphql" }

func (g *GraphQL) Close() error {
	g.http.CloseIdleConnections()
	return nil
}

func endpointParts(endpoint string) (host, path string) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return endpoint, ""
	}
	return u.Host, u.Path
}

var _ Source = (*GraphQL)(nil)
