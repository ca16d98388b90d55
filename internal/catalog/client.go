// Package catalog talks to the NAS media server's JSON API.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/Nomadcxx/nasflix/internal/log"
	"github.com/Nomadcxx/nasflix/internal/media"
)

// AllCategories is the search/section keyword that means "no filter".
const AllCategories = "전체"

// ErrNotFound is returned when the server has no entry for a path.
var ErrNotFound = errors.New("catalog: not found")

// Client handles catalog API requests. Relative video and thumbnail URLs in
// every response are rewritten against BaseURL.
type Client struct {
	BaseURL    string
	UserAgent  string
	HTTPClient *http.Client
}

// NewClient creates a catalog client for the server at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// List returns the categories under path.
func (c *Client) List(ctx context.Context, path string) ([]media.Category, error) {
	var cats []media.Category
	if err := c.getJSON(ctx, "/list", url.Values{"path": {path}}, &cats); err != nil {
		return nil, fmt.Errorf("list %q: %w", path, err)
	}
	return c.fixCategories(cats), nil
}

// Search runs a title search. category narrows the search unless it is
// empty or AllCategories.
func (c *Client) Search(ctx context.Context, query, category string) ([]media.Category, error) {
	params := url.Values{"q": {query}}
	if category != "" && category != AllCategories {
		params.Set("category", category)
	}

	var cats []media.Category
	if err := c.getJSON(ctx, "/search", params, &cats); err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}
	return c.fixCategories(cats), nil
}

// Home returns the home screen's recommendation rows.
func (c *Client) Home(ctx context.Context) ([]media.HomeSection, error) {
	var sections []media.HomeSection
	if err := c.getJSON(ctx, "/home", nil, &sections); err != nil {
		return nil, fmt.Errorf("home: %w", err)
	}
	return c.fixSections(sections), nil
}

// CategorySections returns the rows of a top-level category such as
// "movies" or "koreantv", optionally filtered by keyword.
func (c *Client) CategorySections(ctx context.Context, category, keyword string) ([]media.HomeSection, error) {
	params := url.Values{"cat": {category}}
	if keyword != "" && keyword != AllCategories {
		params.Set("kw", keyword)
	}

	var sections []media.HomeSection
	if err := c.getJSON(ctx, "/category_sections", params, &sections); err != nil {
		return nil, fmt.Errorf("category sections %q: %w", category, err)
	}
	return c.fixSections(sections), nil
}

// SeriesDetail returns one series folder with its movies ordered by the
// server-supplied season and episode numbers. It returns ErrNotFound when
// the server has no such folder.
func (c *Client) SeriesDetail(ctx context.Context, path string) (*media.Category, error) {
	var cat media.Category
	if err := c.getJSON(ctx, "/api/series_detail", url.Values{"path": {path}}, &cat); err != nil {
		return nil, fmt.Errorf("series detail %q: %w", path, err)
	}

	cat = c.fixCategory(cat)
	sort.SliceStable(cat.Movies, func(i, j int) bool {
		a, b := cat.Movies[i], cat.Movies[j]
		if sa, sb := intOrZero(a.SeasonNumber), intOrZero(b.SeasonNumber); sa != sb {
			return sa < sb
		}
		if ea, eb := intOrZero(a.EpisodeNumber), intOrZero(b.EpisodeNumber); ea != eb {
			return ea < eb
		}
		return a.Title < b.Title
	})
	return &cat, nil
}

// ResolveURL makes a server-relative path absolute.
func (c *Client) ResolveURL(u string) string {
	if strings.HasPrefix(u, "/") {
		return c.BaseURL + u
	}
	return u
}

func (c *Client) getJSON(ctx context.Context, endpoint string, params url.Values, out any) error {
	apiURL := c.BaseURL + endpoint
	if len(params) > 0 {
		apiURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	start := time.Now()
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	log.Debug("catalog request", "endpoint", endpoint, "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("server returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

func (c *Client) fixSections(sections []media.HomeSection) []media.HomeSection {
	for i := range sections {
		sections[i].Items = c.fixCategories(sections[i].Items)
	}
	return sections
}

func (c *Client) fixCategories(cats []media.Category) []media.Category {
	for i := range cats {
		cats[i] = c.fixCategory(cats[i])
	}
	return cats
}

func (c *Client) fixCategory(cat media.Category) media.Category {
	for i := range cat.Movies {
		m := &cat.Movies[i]
		m.VideoURL = c.ResolveURL(m.VideoURL)
		m.ThumbnailURL = c.ResolveURL(m.ThumbnailURL)
	}
	return cat
}

func intOrZero(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
