package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Nomadcxx/nasflix/internal/log"
	"github.com/Nomadcxx/nasflix/internal/media"
)

const (
	DefaultTMDBBaseURL  = "https://api.themoviedb.org/3"
	DefaultTMDBImageURL = "https://image.tmdb.org/t/p/"
	posterSize          = "w342"
	maxCredits          = 30
)

// TMDBSearchResponse is the body of /search/{movie,tv,multi}.
type TMDBSearchResponse struct {
	Results []TMDBResult `json:"results"`
}

// TMDBResult is one search hit.
type TMDBResult struct {
	ID            int      `json:"id"`
	PosterPath    string   `json:"poster_path"`
	BackdropPath  string   `json:"backdrop_path"`
	Name          string   `json:"name"`
	Title         string   `json:"title"`
	MediaType     string   `json:"media_type"`
	Overview      string   `json:"overview"`
	OriginCountry []string `json:"origin_country"`
	GenreIDs      []int    `json:"genre_ids"`
	VoteCount     int      `json:"vote_count"`
}

// TMDBEpisode is one episode of a TV season.
type TMDBEpisode struct {
	EpisodeNumber int    `json:"episode_number"`
	Name          string `json:"name"`
	Overview      string `json:"overview"`
	StillPath     string `json:"still_path"`
}

// TMDBCast is one credited cast member. TV aggregate credits carry the
// character in Roles instead of Character.
type TMDBCast struct {
	Name        string     `json:"name"`
	Character   string     `json:"character"`
	Roles       []TMDBRole `json:"roles"`
	ProfilePath string     `json:"profile_path"`
}

// TMDBRole is a character played across some episodes.
type TMDBRole struct {
	Character    string `json:"character"`
	EpisodeCount int    `json:"episode_count"`
}

// Actor converts c to the catalog's cast model.
func (c TMDBCast) Actor(imageBase string) media.Actor {
	a := media.Actor{Name: c.Name, Role: c.Character}
	if a.Role == "" && len(c.Roles) > 0 {
		a.Role = c.Roles[0].Character
	}
	if c.ProfilePath != "" {
		a.Profile = imageBase + posterSize + c.ProfilePath
	}
	return a
}

// TMDBClient handles TMDB API requests.
type TMDBClient struct {
	Token      string
	BaseURL    string
	ImageURL   string
	HTTPClient *http.Client
}

// NewTMDBClient creates a TMDB client. token is either a v4 read access
// token (a JWT) or a v3 API key.
func NewTMDBClient(token string) *TMDBClient {
	return &TMDBClient{
		Token:    token,
		BaseURL:  DefaultTMDBBaseURL,
		ImageURL: DefaultTMDBImageURL,
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// SearchOptions narrows one search request.
type SearchOptions struct {
	// Endpoint is "movie", "tv" or "multi" (default)
	Endpoint    string
	Language    string
	Year        string
	IsAnimation bool
}

// Search queries TMDB and returns the best-ranked hit, or nil when there
// is none. Any error means the lookup could not be completed.
func (c *TMDBClient) Search(ctx context.Context, query string, opts SearchOptions) (*Metadata, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}

	endpoint := opts.Endpoint
	if endpoint == "" {
		endpoint = "multi"
	}

	params := url.Values{
		"query":         {query},
		"include_adult": {"false"},
	}
	if opts.Language != "" {
		params.Set("language", opts.Language)
	}
	if opts.Year != "" {
		switch endpoint {
		case "movie":
			params.Set("primary_release_year", opts.Year)
		case "tv":
			params.Set("first_air_date_year", opts.Year)
		default:
			params.Set("year", opts.Year)
		}
	}

	var resp TMDBSearchResponse
	if err := c.get(ctx, "/search/"+endpoint, params, &resp); err != nil {
		return nil, err
	}

	results := resp.Results[:0]
	for _, r := range resp.Results {
		if r.MediaType != "person" {
			results = append(results, r)
		}
	}
	if len(results) == 0 {
		return nil, nil
	}

	rankResults(results, query, opts.IsAnimation)
	best := results[0]

	mediaType := best.MediaType
	if mediaType == "" && endpoint != "multi" {
		mediaType = endpoint
	}
	if mediaType == "" {
		mediaType = "movie"
		if opts.IsAnimation {
			mediaType = "tv"
		}
	}

	m := &Metadata{
		Source:    SourceTMDB,
		TMDBID:    best.ID,
		MediaType: mediaType,
		Overview:  best.Overview,
		GenreIDs:  best.GenreIDs,
	}
	if path := firstNonEmpty(best.PosterPath, best.BackdropPath); path != "" {
		m.PosterURL = c.ImageURL + posterSize + path
	}
	return m, nil
}

// rankResults orders hits best first: the animation genre when searching
// animation, an exact title match, a poster, Japanese origin for
// animation, then vote count.
func rankResults(results []TMDBResult, query string, isAnimation bool) {
	score := func(r TMDBResult) [5]int {
		var s [5]int
		if !isAnimation || slices.Contains(r.GenreIDs, GenreAnimation) {
			s[0] = 1
		}
		if strings.EqualFold(r.Name, query) || strings.EqualFold(r.Title, query) {
			s[1] = 1
		}
		if r.PosterPath != "" {
			s[2] = 1
		}
		if isAnimation && slices.Contains(r.OriginCountry, "JP") {
			s[3] = 1
		}
		s[4] = r.VoteCount
		return s
	}

	sort.SliceStable(results, func(i, j int) bool {
		a, b := score(results[i]), score(results[j])
		for k := range a {
			if a[k] != b[k] {
				return a[k] > b[k]
			}
		}
		return false
	})
}

// SeasonDetails returns the episodes of one TV season.
func (c *TMDBClient) SeasonDetails(ctx context.Context, tmdbID, season int, language string) ([]TMDBEpisode, error) {
	var resp struct {
		Episodes []TMDBEpisode `json:"episodes"`
	}
	path := fmt.Sprintf("/tv/%d/season/%d", tmdbID, season)
	if err := c.get(ctx, path, languageParam(language), &resp); err != nil {
		return nil, err
	}
	return resp.Episodes, nil
}

// EpisodeDetails returns one TV episode.
func (c *TMDBClient) EpisodeDetails(ctx context.Context, tmdbID, season, episode int, language string) (*TMDBEpisode, error) {
	var ep TMDBEpisode
	path := fmt.Sprintf("/tv/%d/season/%d/episode/%d", tmdbID, season, episode)
	if err := c.get(ctx, path, languageParam(language), &ep); err != nil {
		return nil, err
	}
	return &ep, nil
}

// Credits returns up to 30 cast members. mediaType "tv" uses the
// aggregate credits across all seasons.
func (c *TMDBClient) Credits(ctx context.Context, tmdbID int, mediaType, language string) ([]TMDBCast, error) {
	if tmdbID == 0 || mediaType == "" {
		return nil, nil
	}

	path := "/movie/" + strconv.Itoa(tmdbID) + "/credits"
	if mediaType == "tv" {
		path = "/tv/" + strconv.Itoa(tmdbID) + "/aggregate_credits"
	}

	var resp struct {
		Cast []TMDBCast `json:"cast"`
	}
	if err := c.get(ctx, path, languageParam(language), &resp); err != nil {
		return nil, err
	}
	if len(resp.Cast) > maxCredits {
		resp.Cast = resp.Cast[:maxCredits]
	}
	return resp.Cast, nil
}

func (c *TMDBClient) get(ctx context.Context, path string, params url.Values, out any) error {
	if params == nil {
		params = url.Values{}
	}
	// v4 read access tokens are JWTs; anything else is a v3 key
	bearer := strings.HasPrefix(c.Token, "eyJ")
	if !bearer {
		params.Set("api_key", c.Token)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if bearer {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return NetworkError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return NetworkError{Err: fmt.Errorf("TMDB returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to parse TMDB response: %w", err)
	}
	log.Trace("tmdb request", "path", path)
	return nil
}

func languageParam(language string) url.Values {
	if language == "" {
		return nil
	}
	return url.Values{"language": {language}}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
