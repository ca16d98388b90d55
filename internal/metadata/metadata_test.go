package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tmdbStub serves /search, /credits and season endpoints from handler
// functions and counts search calls.
type tmdbStub struct {
	searches atomic.Int32
	search   func(r *http.Request) (int, TMDBSearchResponse)
	cast     []TMDBCast
}

func newTMDB(t *testing.T, stub *tmdbStub) *TMDBClient {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/search/"):
			stub.searches.Add(1)
			status, body := stub.search(r)
			w.WriteHeader(status)
			_ = json.NewEncoder(w).Encode(body)
		case strings.HasSuffix(r.URL.Path, "credits"):
			_ = json.NewEncoder(w).Encode(map[string]any{"cast": stub.cast})
		case strings.Contains(r.URL.Path, "/episode/"):
			_ = json.NewEncoder(w).Encode(TMDBEpisode{EpisodeNumber: 3, Name: "Third"})
		case strings.Contains(r.URL.Path, "/season/"):
			_ = json.NewEncoder(w).Encode(map[string]any{"episodes": []TMDBEpisode{{EpisodeNumber: 1}, {EpisodeNumber: 2}}})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	c := NewTMDBClient("v3key")
	c.BaseURL = srv.URL
	c.ImageURL = "https://img/"
	return c
}

func TestCacheConcurrentAccess(t *testing.T) {
	c := NewCache()
	c.Seed(map[string]Metadata{"seeded": {TMDBID: 1}})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c.Put("shared", Metadata{TMDBID: 7})
			c.Put(fmt.Sprintf("k%d", i), Metadata{TMDBID: i})
			_, _ = c.Get("shared")
		}(i)
	}
	wg.Wait()

	m, ok := c.Get("shared")
	require.True(t, ok)
	assert.Equal(t, 7, m.TMDBID)
	assert.Equal(t, 22, c.Len())

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestTMDBAuthentication(t *testing.T) {
	var gotAuth, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotKey = r.URL.Query().Get("api_key")
		_, _ = w.Write([]byte(`{"results":[]}`))
	}))
	defer srv.Close()

	jwt := NewTMDBClient("eyJhbGciOiJIUzI1NiJ9.payload.sig")
	jwt.BaseURL = srv.URL
	_, err := jwt.Search(context.Background(), "Parasite", SearchOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Bearer eyJhbGciOiJIUzI1NiJ9.payload.sig", gotAuth)
	assert.Empty(t, gotKey)

	v3 := NewTMDBClient("plainkey")
	v3.BaseURL = srv.URL
	_, err = v3.Search(context.Background(), "Parasite", SearchOptions{})
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
	assert.Equal(t, "plainkey", gotKey)
}

func TestTMDBSearchYearParameter(t *testing.T) {
	var queries []string
	stub := &tmdbStub{search: func(r *http.Request) (int, TMDBSearchResponse) {
		queries = append(queries, r.URL.Path+"?"+r.URL.RawQuery)
		return http.StatusOK, TMDBSearchResponse{}
	}}
	c := newTMDB(t, stub)

	for _, endpoint := range []string{"movie", "tv", ""} {
		_, err := c.Search(context.Background(), "Parasite", SearchOptions{Endpoint: endpoint, Year: "2019"})
		require.NoError(t, err)
	}

	require.Len(t, queries, 3)
	assert.Contains(t, queries[0], "/search/movie?")
	assert.Contains(t, queries[0], "primary_release_year=2019")
	assert.Contains(t, queries[1], "first_air_date_year=2019")
	assert.Contains(t, queries[2], "/search/multi?")
	assert.Contains(t, queries[2], "year=2019")
}

func TestTMDBSearchSkipsPeopleAndBuildsPoster(t *testing.T) {
	stub := &tmdbStub{search: func(r *http.Request) (int, TMDBSearchResponse) {
		return http.StatusOK, TMDBSearchResponse{Results: []TMDBResult{
			{ID: 1, MediaType: "person", Name: "Parasite", VoteCount: 9999},
			{ID: 2, MediaType: "movie", Title: "Parasite", BackdropPath: "/backdrop.jpg", VoteCount: 10},
		}}
	}}
	c := newTMDB(t, stub)

	m, err := c.Search(context.Background(), "Parasite", SearchOptions{})
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, 2, m.TMDBID)
	assert.Equal(t, "movie", m.MediaType)
	assert.Equal(t, "https://img/w342/backdrop.jpg", m.PosterURL)
}

func TestRankResults(t *testing.T) {
	results := []TMDBResult{
		{ID: 1, Name: "Other", PosterPath: "/p", VoteCount: 500},
		{ID: 2, Name: "Frieren", GenreIDs: []int{16}, VoteCount: 10},
		{ID: 3, Name: "Frieren", GenreIDs: []int{16}, PosterPath: "/p", OriginCountry: []string{"JP"}, VoteCount: 5},
		{ID: 4, Name: "Frieren", GenreIDs: []int{16}, PosterPath: "/p", VoteCount: 50},
	}

	rankResults(results, "frieren", true)

	var ids []int
	for _, r := range results {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []int{3, 4, 2, 1}, ids)

	rankResults(results, "Other", false)
	assert.Equal(t, 1, results[0].ID)
}

func TestTMDBDetails(t *testing.T) {
	stub := &tmdbStub{}
	for i := 0; i < 40; i++ {
		stub.cast = append(stub.cast, TMDBCast{Name: fmt.Sprintf("actor %d", i)})
	}
	c := newTMDB(t, stub)
	ctx := context.Background()

	cast, err := c.Credits(ctx, 42, "tv", "ko-KR")
	require.NoError(t, err)
	assert.Len(t, cast, 30)

	none, err := c.Credits(ctx, 0, "tv", "")
	require.NoError(t, err)
	assert.Empty(t, none)

	episodes, err := c.SeasonDetails(ctx, 42, 1, "ko-KR")
	require.NoError(t, err)
	assert.Len(t, episodes, 2)

	ep, err := c.EpisodeDetails(ctx, 42, 1, 3, "ko-KR")
	require.NoError(t, err)
	assert.Equal(t, "Third", ep.Name)
}

func TestTMDBCastActor(t *testing.T) {
	a := TMDBCast{Name: "Kim", Roles: []TMDBRole{{Character: "Lead", EpisodeCount: 12}}, ProfilePath: "/kim.jpg"}.Actor("https://img/")
	assert.Equal(t, "Kim", a.Name)
	assert.Equal(t, "Lead", a.Role)
	assert.Equal(t, "https://img/w342/kim.jpg", a.Profile)
}

func TestTMDBStatusIsNetworkError(t *testing.T) {
	stub := &tmdbStub{search: func(r *http.Request) (int, TMDBSearchResponse) {
		return http.StatusServiceUnavailable, TMDBSearchResponse{}
	}}
	c := newTMDB(t, stub)

	_, err := c.Search(context.Background(), "x", SearchOptions{})
	var netErr NetworkError
	assert.ErrorAs(t, err, &netErr)
}
