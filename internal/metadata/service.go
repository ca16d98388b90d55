package metadata

import (
	"context"
	"errors"
	"fmt"

	"github.com/Nomadcxx/nasflix/internal/log"
	"github.com/Nomadcxx/nasflix/internal/titles"
)

// animationKeyPrefix separates animation lookups from plain ones in the
// cache; the same title can resolve differently for each.
const animationKeyPrefix = "ani_"

// animationSearchSuffix narrows TMDB's Korean search to the animated work.
const animationSearchSuffix = " 애니메이션"

// Service resolves titles to metadata. TMDB is the primary source;
// AniList, when configured, fills in animation that TMDB misses.
type Service struct {
	tmdb     *TMDBClient
	anilist  *AniListClient
	cache    *Cache
	cleaner  *titles.Cleaner
	language string
}

// Option configures a Service.
type Option func(*Service)

// WithAniList enables AniList for animation lookups.
func WithAniList(c *AniListClient) Option {
	return func(s *Service) { s.anilist = c }
}

// WithCleaner sets the cleaner used to derive search queries and cache keys.
func WithCleaner(c *titles.Cleaner) Option {
	return func(s *Service) { s.cleaner = c }
}

// WithLanguage sets the preferred TMDB language (default ko-KR).
func WithLanguage(lang string) Option {
	return func(s *Service) { s.language = lang }
}

// NewService returns a Service over tmdb (nil disables TMDB) and cache.
// A nil cache gets a fresh one.
func NewService(tmdb *TMDBClient, cache *Cache, opts ...Option) *Service {
	if cache == nil {
		cache = NewCache()
	}
	s := &Service{
		tmdb:     tmdb,
		cache:    cache,
		cleaner:  titles.Default(),
		language: "ko-KR",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Cache returns the service's cache.
func (s *Service) Cache() *Cache {
	return s.cache
}

// CacheKey is the cache key Lookup uses for a raw title.
func (s *Service) CacheKey(title string, isAnimation bool) string {
	key := s.cleaner.CleanTitle(title, false, false)
	if isAnimation {
		key = animationKeyPrefix + key
	}
	return key
}

type strategy struct {
	query    string
	language string
}

// Lookup returns metadata for a raw catalog title. typeHint is "movie",
// "tv" or empty. A no-match result is cached as the zero Metadata. When a
// provider cannot be reached, Lookup returns what it found so far together
// with a NetworkError and caches nothing.
func (s *Service) Lookup(ctx context.Context, title, typeHint string, isAnimation bool) (Metadata, error) {
	if s.tmdb == nil && s.anilist == nil {
		return Metadata{}, nil
	}

	key := s.CacheKey(title, isAnimation)
	if m, ok := s.cache.Get(key); ok {
		return m, nil
	}

	query := s.cleaner.CleanTitle(title, false, false)
	year, _ := titles.ExtractYear(titles.Normalize(title))

	var result *Metadata
	var lookupErr error

	if s.tmdb != nil {
		result, lookupErr = s.searchTMDB(ctx, query, year, typeHint, isAnimation)
	}

	if lookupErr == nil && isAnimation && s.anilist != nil && (result == nil || !result.IsAnimation()) {
		ani, err := s.anilist.SearchAnime(ctx, query)
		switch {
		case err != nil:
			lookupErr = err
		case ani != nil:
			result = ani
		}
	}

	m := Metadata{}
	if result != nil {
		m = *result
	}

	if lookupErr == nil && m.PosterURL == "" && m.TMDBID != 0 && s.tmdb != nil {
		m.PosterURL, lookupErr = s.castPoster(ctx, m)
	}

	if lookupErr != nil {
		log.Warn("metadata lookup failed", "title", title, "error", lookupErr)
		return m, fmt.Errorf("lookup %q: %w", query, lookupErr)
	}

	s.cache.Put(key, m)
	log.Debug("metadata lookup", "title", title, "key", key, "found", m.Found(), "source", m.Source)
	return m, nil
}

// searchTMDB walks the search strategies. A hit with a poster ends the
// walk; for animation, hits outside the animation genre are kept only as a
// fallback while later strategies are tried.
func (s *Service) searchTMDB(ctx context.Context, query, year, typeHint string, isAnimation bool) (*Metadata, error) {
	endpoint := typeHint
	if isAnimation && (endpoint == "" || endpoint == "multi") {
		endpoint = "tv"
	}

	var strategies []strategy
	if isAnimation {
		strategies = append(strategies, strategy{query + animationSearchSuffix, s.language})
	}
	strategies = append(strategies, strategy{query, s.language}, strategy{query, ""})

	var final *Metadata
	seen := make(map[strategy]bool)
	for _, st := range strategies {
		if seen[st] {
			continue
		}
		seen[st] = true

		res, err := s.tmdb.Search(ctx, st.query, SearchOptions{
			Endpoint:    endpoint,
			Language:    st.language,
			Year:        year,
			IsAnimation: isAnimation,
		})
		if err != nil {
			var netErr NetworkError
			if !errors.As(err, &netErr) {
				err = NetworkError{Err: err}
			}
			return final, err
		}
		if res == nil || (res.PosterURL == "" && res.TMDBID == 0) {
			continue
		}

		if isAnimation && !res.IsAnimation() {
			if final == nil {
				final = res
			}
			continue
		}
		final = res
		if res.PosterURL != "" {
			break
		}
	}
	return final, nil
}

// castPoster returns the first cast profile picture as a stand-in poster.
func (s *Service) castPoster(ctx context.Context, m Metadata) (string, error) {
	cast, err := s.tmdb.Credits(ctx, m.TMDBID, m.MediaType, s.language)
	if err != nil {
		return "", err
	}
	for _, c := range cast {
		if c.ProfilePath != "" {
			return s.tmdb.ImageURL + posterSize + c.ProfilePath, nil
		}
	}
	return "", nil
}
