// Package library turns catalog responses into grouped series for the
// browsing surfaces. Catalog failures degrade to empty results and a logged
// warning; callers never see a partial grouping.
package library

import (
	"context"
	"errors"
	"strings"

	"github.com/Nomadcxx/nasflix/internal/catalog"
	"github.com/Nomadcxx/nasflix/internal/log"
	"github.com/Nomadcxx/nasflix/internal/media"
	"github.com/Nomadcxx/nasflix/internal/series"
)

// Catalog is the part of the catalog client the library reads from.
type Catalog interface {
	List(ctx context.Context, path string) ([]media.Category, error)
	Search(ctx context.Context, query, category string) ([]media.Category, error)
	Home(ctx context.Context) ([]media.HomeSection, error)
	CategorySections(ctx context.Context, category, keyword string) ([]media.HomeSection, error)
	SeriesDetail(ctx context.Context, path string) (*media.Category, error)
	FetchAllEpisodes(ctx context.Context, root string, config catalog.FetchConfig) ([]media.Movie, error)
}

// Section identifies one catalog category section and keyword filter.
type Section struct {
	Category string
	Keyword  string
}

var (
	latestMovies = []Section{{"movies", "최신"}}
	animations   = []Section{{"animations_all", catalog.AllCategories}}
	dramas       = []Section{{"koreantv", "드라마"}, {"foreigntv", "드라마"}}
)

// Library groups catalog content into series.
type Library struct {
	catalog Catalog
	grouper *series.Grouper
	fetch   catalog.FetchConfig
}

// New returns a Library reading from c. A nil grouper uses the default
// title rules.
func New(c Catalog, grouper *series.Grouper, fetch catalog.FetchConfig) *Library {
	if grouper == nil {
		grouper = series.NewGrouper(nil)
	}
	if fetch.Workers <= 0 {
		fetch = catalog.DefaultFetchConfig()
	}
	return &Library{catalog: c, grouper: grouper, fetch: fetch}
}

// Browse lists the folders and files under path.
func (l *Library) Browse(ctx context.Context, path string) []media.Category {
	cats, err := l.catalog.List(ctx, path)
	if err != nil {
		warn("list", err, "path", path)
		return []media.Category{}
	}
	return cats
}

// Search groups every category matching query. An empty category or
// catalog.AllCategories searches everything.
func (l *Library) Search(ctx context.Context, query, category string) []series.Series {
	cats, err := l.catalog.Search(ctx, query, category)
	if err != nil {
		warn("search", err, "query", query, "category", category)
		return []series.Series{}
	}
	return l.groupCategories(cats)
}

// LatestMovies returns the newest movies section.
func (l *Library) LatestMovies(ctx context.Context) []series.Series {
	return l.sections(ctx, latestMovies)
}

// Animations returns every animation series.
func (l *Library) Animations(ctx context.Context) []series.Series {
	return l.sections(ctx, animations)
}

// Dramas returns Korean dramas followed by foreign dramas.
func (l *Library) Dramas(ctx context.Context) []series.Series {
	return l.sections(ctx, dramas)
}

// Sections groups the items of arbitrary category sections, in order.
func (l *Library) Sections(ctx context.Context, sections ...Section) []series.Series {
	return l.sections(ctx, sections)
}

// HomeSections returns the home screen rows as served.
func (l *Library) HomeSections(ctx context.Context) []media.HomeSection {
	sections, err := l.catalog.Home(ctx)
	if err != nil {
		warn("home", err)
		return []media.HomeSection{}
	}
	return sections
}

// Detail is an opened series: its aggregate metadata and its episodes
// split into seasons.
type Detail struct {
	Series  series.Series   `json:"series" yaml:"series"`
	Seasons []series.Season `json:"seasons" yaml:"seasons"`
}

// SeriesDetail opens the series folder at path. Episodes come from the
// detail endpoint when it has them, otherwise from a recursive fetch of
// the folder. It returns nil when nothing could be loaded.
func (l *Library) SeriesDetail(ctx context.Context, path string) *Detail {
	cat, err := l.catalog.SeriesDetail(ctx, path)
	if err != nil && !errors.Is(err, catalog.ErrNotFound) {
		warn("series detail", err, "path", path)
		return nil
	}
	if cat == nil {
		cat = &media.Category{Name: lastSegment(path), Path: path}
	}

	episodes := cat.Movies
	if len(episodes) == 0 {
		episodes, err = l.catalog.FetchAllEpisodes(ctx, path, l.fetch)
		if err != nil {
			warn("fetch episodes", err, "path", path)
			return nil
		}
	}
	episodes = append([]media.Movie(nil), episodes...)
	series.SortEpisodes(episodes)

	// One detail view is one series, whatever its files clean to.
	header := l.grouper.GroupCategory(media.Category{
		Name:        cat.Name,
		Path:        cat.Path,
		PosterPath:  cat.PosterPath,
		Overview:    cat.Overview,
		Year:        cat.Year,
		GenreNames:  cat.GenreNames,
		Director:    cat.Director,
		Actors:      cat.Actors,
		Rating:      cat.Rating,
		TMDBID:      cat.TMDBID,
		GenreIDs:    cat.GenreIDs,
		SeasonCount: cat.SeasonCount,
	}, path)[0]
	header.Episodes = episodes
	if len(episodes) > 0 {
		header.ThumbnailURL = episodes[0].ThumbnailURL
	}

	log.Debug("library: series detail loaded", "path", path, "episodes", len(episodes))
	return &Detail{Series: header, Seasons: series.SplitSeasons(episodes)}
}

func (l *Library) sections(ctx context.Context, sections []Section) []series.Series {
	result := []series.Series{}
	for _, sec := range sections {
		rows, err := l.catalog.CategorySections(ctx, sec.Category, sec.Keyword)
		if err != nil {
			warn("category sections", err, "category", sec.Category, "keyword", sec.Keyword)
			if ctx.Err() != nil {
				return []series.Series{}
			}
			continue
		}
		for _, row := range rows {
			result = append(result, l.groupCategories(row.Items)...)
		}
	}
	return result
}

func (l *Library) groupCategories(cats []media.Category) []series.Series {
	result := []series.Series{}
	for _, cat := range cats {
		result = append(result, l.grouper.GroupCategory(cat, cat.Path)...)
	}
	return result
}

func warn(op string, err error, args ...any) {
	log.Warn("library: "+op+" failed", append(args, "error", err)...)
}

func lastSegment(p string) string {
	p = strings.TrimRight(p, "/")
	return p[strings.LastIndex(p, "/")+1:]
}
