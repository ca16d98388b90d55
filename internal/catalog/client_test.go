package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nomadcxx/nasflix/internal/media"
)

// fakeServer serves canned JSON per path and records the queries it saw.
type fakeServer struct {
	mu      sync.Mutex
	queries map[string][]string
	routes  map[string]func(r *http.Request) (int, any)
}

func newFakeServer(t *testing.T) (*fakeServer, *Client) {
	fs := &fakeServer{
		queries: make(map[string][]string),
		routes:  make(map[string]func(r *http.Request) (int, any)),
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fs.mu.Lock()
		fs.queries[r.URL.Path] = append(fs.queries[r.URL.Path], r.URL.RawQuery)
		route := fs.routes[r.URL.Path]
		fs.mu.Unlock()

		if route == nil {
			http.NotFound(w, r)
			return
		}
		status, body := route(r)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)

	return fs, NewClient(srv.URL+"/", 5*time.Second)
}

func (fs *fakeServer) handle(path string, fn func(r *http.Request) (int, any)) {
	fs.mu.Lock()
	fs.routes[path] = fn
	fs.mu.Unlock()
}

func (fs *fakeServer) lastQuery(path string) string {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	q := fs.queries[path]
	if len(q) == 0 {
		return ""
	}
	return q[len(q)-1]
}

func TestListResolvesRelativeURLs(t *testing.T) {
	fs, client := newFakeServer(t)
	fs.handle("/list", func(r *http.Request) (int, any) {
		return http.StatusOK, []media.Category{{
			Name: "Show",
			Movies: []media.Movie{
				{ID: "1", Title: "Show.S01E01.mkv", VideoURL: "/video/1", ThumbnailURL: "/thumb/1"},
				{ID: "2", Title: "Show.S01E02.mkv", VideoURL: "http://cdn/2"},
			},
		}}
	})

	cats, err := client.List(context.Background(), "/tv/show")
	require.NoError(t, err)
	require.Len(t, cats, 1)

	assert.Equal(t, "path=%2Ftv%2Fshow", fs.lastQuery("/list"))
	assert.Equal(t, client.BaseURL+"/video/1", cats[0].Movies[0].VideoURL)
	assert.Equal(t, client.BaseURL+"/thumb/1", cats[0].Movies[0].ThumbnailURL)
	assert.Equal(t, "http://cdn/2", cats[0].Movies[1].VideoURL)
	assert.Empty(t, cats[0].Movies[1].ThumbnailURL)
}

func TestSearchCategoryParameter(t *testing.T) {
	fs, client := newFakeServer(t)
	fs.handle("/search", func(r *http.Request) (int, any) {
		return http.StatusOK, []media.Category{}
	})

	_, err := client.Search(context.Background(), "짱구", AllCategories)
	require.NoError(t, err)
	assert.NotContains(t, fs.lastQuery("/search"), "category=")

	_, err = client.Search(context.Background(), "짱구", "animations")
	require.NoError(t, err)
	assert.Contains(t, fs.lastQuery("/search"), "category=animations")
}

func TestCategorySectionsKeyword(t *testing.T) {
	fs, client := newFakeServer(t)
	fs.handle("/category_sections", func(r *http.Request) (int, any) {
		return http.StatusOK, []media.HomeSection{{
			Title: "최신",
			Items: []media.Category{{Name: "Movie", Movies: []media.Movie{{ID: "1", Title: "Movie.mkv", VideoURL: "/v/1"}}}},
		}}
	})

	sections, err := client.CategorySections(context.Background(), "movies", "최신")
	require.NoError(t, err)
	require.Len(t, sections, 1)
	assert.Equal(t, client.BaseURL+"/v/1", sections[0].Items[0].Movies[0].VideoURL)
	assert.Contains(t, fs.lastQuery("/category_sections"), "kw=")

	_, err = client.CategorySections(context.Background(), "animations_all", AllCategories)
	require.NoError(t, err)
	assert.Equal(t, "cat=animations_all", fs.lastQuery("/category_sections"))
}

func TestHome(t *testing.T) {
	fs, client := newFakeServer(t)
	fs.handle("/home", func(r *http.Request) (int, any) {
		return http.StatusOK, []media.HomeSection{{Title: "추천", Items: []media.Category{{Name: "A"}}}}
	})

	sections, err := client.Home(context.Background())
	require.NoError(t, err)
	require.Len(t, sections, 1)
	assert.Equal(t, "추천", sections[0].Title)
}

func TestSeriesDetailSortsByServerNumbers(t *testing.T) {
	fs, client := newFakeServer(t)
	fs.handle("/api/series_detail", func(r *http.Request) (int, any) {
		return http.StatusOK, media.Category{
			Name: "Show",
			Movies: []media.Movie{
				{ID: "c", Title: "c", VideoURL: "/c", SeasonNumber: media.IntPtr(2), EpisodeNumber: media.IntPtr(1)},
				{ID: "b", Title: "b", VideoURL: "/b", SeasonNumber: media.IntPtr(1), EpisodeNumber: media.IntPtr(2)},
				{ID: "a", Title: "a", VideoURL: "/a", SeasonNumber: media.IntPtr(1), EpisodeNumber: media.IntPtr(1)},
				{ID: "z", Title: "z", VideoURL: "/z"},
			},
		}
	})

	cat, err := client.SeriesDetail(context.Background(), "/tv/show")
	require.NoError(t, err)

	var ids []string
	for _, m := range cat.Movies {
		ids = append(ids, m.ID)
	}
	assert.Equal(t, []string{"z", "a", "b", "c"}, ids)
}

func TestSeriesDetailNotFound(t *testing.T) {
	_, client := newFakeServer(t)

	_, err := client.SeriesDetail(context.Background(), "/missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestServerErrorStatus(t *testing.T) {
	fs, client := newFakeServer(t)
	fs.handle("/list", func(r *http.Request) (int, any) {
		return http.StatusInternalServerError, map[string]string{"error": "boom"}
	})

	_, err := client.List(context.Background(), "/")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestUserAgentHeader(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte("[]"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 0)
	client.UserAgent = "nasflix-test"
	_, err := client.List(context.Background(), "/")
	require.NoError(t, err)
	assert.Equal(t, "nasflix-test", got)
}

func TestCancelledContext(t *testing.T) {
	fs, client := newFakeServer(t)
	fs.handle("/list", func(r *http.Request) (int, any) {
		return http.StatusOK, []media.Category{}
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.List(ctx, "/")
	assert.ErrorIs(t, err, context.Canceled)
}
