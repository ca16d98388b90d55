package catalog

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/Nomadcxx/nasflix/internal/log"
	"github.com/Nomadcxx/nasflix/internal/media"
)

// FetchConfig bounds the concurrent sub-folder requests of FetchAllEpisodes.
type FetchConfig struct {
	Workers int // concurrent requests (default: number of CPUs)
}

// DefaultFetchConfig returns the default fetch configuration.
func DefaultFetchConfig() FetchConfig {
	return FetchConfig{
		Workers: runtime.NumCPU(),
	}
}

// FetchAllEpisodes lists root and every sub-folder one level below it
// (categories without movies whose path differs from root), concurrently.
// Movies are returned root first, then sub-folders in listing order, with
// repeated video URLs dropped. Any failed request fails the whole fetch so
// a partial listing is never grouped.
func (c *Client) FetchAllEpisodes(ctx context.Context, root string, config FetchConfig) ([]media.Movie, error) {
	if config.Workers <= 0 {
		config.Workers = runtime.NumCPU()
	}

	cats, err := c.List(ctx, root)
	if err != nil {
		return nil, err
	}

	var movies []media.Movie
	var folders []string
	for _, cat := range cats {
		movies = append(movies, cat.Movies...)
		if len(cat.Movies) == 0 && cat.Path != "" && cat.Path != root {
			folders = append(folders, cat.Path)
		}
	}

	// Each worker writes only its own slot, so no lock is needed
	sub := make([][]media.Movie, len(folders))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(config.Workers)
	for i, folder := range folders {
		i, folder := i, folder
		g.Go(func() error {
			cats, err := c.List(gctx, folder)
			if err != nil {
				return err
			}
			for _, cat := range cats {
				sub[i] = append(sub[i], cat.Movies...)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("fetch episodes under %q: %w", root, err)
	}

	for _, ms := range sub {
		movies = append(movies, ms...)
	}

	log.Debug("fetched episodes", "root", root, "folders", len(folders), "movies", len(movies))
	return distinctByVideoURL(movies), nil
}

// distinctByVideoURL keeps the first movie per video URL. Movies without a
// URL are always kept.
func distinctByVideoURL(movies []media.Movie) []media.Movie {
	seen := make(map[string]bool, len(movies))
	out := make([]media.Movie, 0, len(movies))
	for _, m := range movies {
		if m.VideoURL != "" {
			if seen[m.VideoURL] {
				continue
			}
			seen[m.VideoURL] = true
		}
		out = append(out, m)
	}
	return out
}
