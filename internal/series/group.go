// Package series clusters flat catalog listings into series with a stable
// episode order.
package series

import (
	"sort"

	"github.com/Nomadcxx/nasflix/internal/media"
	"github.com/Nomadcxx/nasflix/internal/titles"
)

// Series is a group of movies sharing a clean title, plus the metadata of
// the category it came from.
type Series struct {
	Title        string        `json:"title" yaml:"title"`
	Episodes     []media.Movie `json:"episodes" yaml:"episodes"`
	ThumbnailURL string        `json:"thumbnailUrl,omitempty" yaml:"thumbnail_url,omitempty"`
	PosterPath   string        `json:"posterPath,omitempty" yaml:"poster_path,omitempty"`
	Overview     string        `json:"overview,omitempty" yaml:"overview,omitempty"`
	Year         string        `json:"year,omitempty" yaml:"year,omitempty"`
	FullPath     string        `json:"fullPath,omitempty" yaml:"full_path,omitempty"`
	GenreNames   []string      `json:"genreNames,omitempty" yaml:"genre_names,omitempty"`
	Director     string        `json:"director,omitempty" yaml:"director,omitempty"`
	Actors       []media.Actor `json:"actors,omitempty" yaml:"actors,omitempty"`
	Rating       string        `json:"rating,omitempty" yaml:"rating,omitempty"`
	TMDBID       string        `json:"tmdbId,omitempty" yaml:"tmdb_id,omitempty"`
}

// Grouper groups movies using one title cleaner. The zero value is not
// usable; use NewGrouper or the package-level functions.
type Grouper struct {
	clean func(raw string) string
}

// NewGrouper returns a Grouper that buckets by c's clean titles. A nil
// cleaner uses the default rules.
func NewGrouper(c *titles.Cleaner) *Grouper {
	if c == nil {
		c = titles.Default()
	}
	return &Grouper{
		clean: func(raw string) string { return c.CleanTitle(raw, false, false) },
	}
}

var defaultGrouper = NewGrouper(titles.Default())

// GroupBySeries groups items with the default title rules.
func GroupBySeries(items []media.Movie) []Series {
	return defaultGrouper.GroupBySeries(items)
}

// GroupCategory groups a category's movies with the default title rules.
func GroupCategory(cat media.Category, basePath string) []Series {
	return defaultGrouper.GroupCategory(cat, basePath)
}

// entry is a movie with its grouping keys computed once.
type entry struct {
	movie   media.Movie
	title   string
	season  int
	episode int
}

// GroupBySeries buckets items by clean title and sorts each bucket by
// (season, episode, raw title). Movies sharing a video URL are kept once.
// The result depends only on the set of items, never on their order, and
// is empty (not nil) for no items.
func (g *Grouper) GroupBySeries(items []media.Movie) []Series {
	buckets := make(map[string][]entry)
	for _, m := range dedupe(items) {
		e := g.entryFor(m)
		buckets[e.title] = append(buckets[e.title], e)
	}

	result := make([]Series, 0, len(buckets))
	for title, entries := range buckets {
		sort.Slice(entries, func(i, j int) bool {
			return entryLess(entries[i], entries[j])
		})
		episodes := make([]media.Movie, len(entries))
		for i, e := range entries {
			episodes[i] = e.movie
		}
		result = append(result, Series{Title: title, Episodes: episodes})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Title < result[j].Title
	})
	return result
}

// GroupCategory groups cat's movies and copies the category's metadata onto
// every series. basePath overrides cat.Path when set. A category without
// movies yields one placeholder series titled after the category, so the
// entry can still be opened.
func (g *Grouper) GroupCategory(cat media.Category, basePath string) []Series {
	path := basePath
	if path == "" {
		path = cat.Path
	}

	var groups []Series
	if len(cat.Movies) == 0 {
		groups = []Series{{Title: g.cleanTitle(cat.Name), Episodes: []media.Movie{}}}
	} else {
		groups = g.GroupBySeries(cat.Movies)
	}

	for i := range groups {
		s := &groups[i]
		s.PosterPath = cat.PosterPath
		s.Overview = cat.Overview
		s.Year = cat.Year
		s.FullPath = path
		s.GenreNames = cat.GenreNames
		s.Director = cat.Director
		s.Actors = cat.Actors
		s.Rating = cat.Rating
		s.TMDBID = cat.TMDBID
		if len(s.Episodes) > 0 {
			s.ThumbnailURL = s.Episodes[0].ThumbnailURL
		}
	}
	return groups
}

func (g *Grouper) entryFor(m media.Movie) entry {
	season, episode := EffectiveNumbers(m)
	return entry{
		movie:   m,
		title:   g.cleanTitle(m.Title),
		season:  season,
		episode: episode,
	}
}

// cleanTitle isolates a cleaning failure to the one item; the raw title
// stands in for it.
func (g *Grouper) cleanTitle(raw string) (title string) {
	defer func() {
		if r := recover(); r != nil {
			title = raw
		}
	}()
	return g.clean(raw)
}

// EffectiveNumbers returns the season and episode used for ordering m.
// Server-supplied numbers win over numbers parsed from the title. A missing
// episode orders as 0.
func EffectiveNumbers(m media.Movie) (season, episode int) {
	defer func() {
		if r := recover(); r != nil {
			season, episode = 1, 0
		}
	}()

	if m.SeasonNumber != nil {
		season = *m.SeasonNumber
	} else {
		season = titles.ExtractSeason(m.Title)
	}

	if m.EpisodeNumber != nil {
		episode = *m.EpisodeNumber
	} else if n, ok := titles.ExtractEpisode(m.Title); ok {
		episode = n
	}
	return season, episode
}

func entryLess(a, b entry) bool {
	if a.season != b.season {
		return a.season < b.season
	}
	if a.episode != b.episode {
		return a.episode < b.episode
	}
	return movieLess(a.movie, b.movie)
}

// movieLess is the final tie-break: raw title, then ID, then video URL.
func movieLess(a, b media.Movie) bool {
	if a.Title != b.Title {
		return a.Title < b.Title
	}
	if a.ID != b.ID {
		return a.ID < b.ID
	}
	return a.VideoURL < b.VideoURL
}

// dedupe drops movies whose video URL was already seen. Items are first
// put in a canonical order so the survivor of a duplicate pair does not
// depend on arrival order. Movies without a URL are never merged.
func dedupe(items []media.Movie) []media.Movie {
	sorted := append([]media.Movie(nil), items...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].VideoURL != sorted[j].VideoURL {
			return sorted[i].VideoURL < sorted[j].VideoURL
		}
		return movieLess(sorted[i], sorted[j])
	})

	seen := make(map[string]bool, len(sorted))
	out := sorted[:0]
	for _, m := range sorted {
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
