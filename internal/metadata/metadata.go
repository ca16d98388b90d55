// Package metadata looks up posters, overviews and cast for catalog titles
// on TMDB, with AniList as a second source for animation.
package metadata

import (
	"fmt"
	"slices"
)

// GenreAnimation is TMDB's animation genre ID.
const GenreAnimation = 16

// Sources of a Metadata value.
const (
	SourceTMDB    = "tmdb"
	SourceAniList = "anilist"
)

// Metadata is the lookup result for one title. The zero value means the
// title was looked up and nothing matched.
type Metadata struct {
	Source    string `json:"source,omitempty" yaml:"source,omitempty"`
	TMDBID    int    `json:"tmdbId,omitempty" yaml:"tmdb_id,omitempty"`
	AniListID int    `json:"anilistId,omitempty" yaml:"anilist_id,omitempty"`
	MediaType string `json:"mediaType,omitempty" yaml:"media_type,omitempty"`
	PosterURL string `json:"posterUrl,omitempty" yaml:"poster_url,omitempty"`
	Overview  string `json:"overview,omitempty" yaml:"overview,omitempty"`
	GenreIDs  []int  `json:"genreIds,omitempty" yaml:"genre_ids,omitempty"`
}

// Found reports whether the lookup matched anything.
func (m Metadata) Found() bool {
	return m.TMDBID != 0 || m.AniListID != 0 || m.PosterURL != ""
}

// IsAnimation reports whether m carries the animation genre.
func (m Metadata) IsAnimation() bool {
	return slices.Contains(m.GenreIDs, GenreAnimation)
}

// NetworkError marks a failure to reach a metadata provider, as opposed
// to a provider answering "no match". Results are not cached after one.
type NetworkError struct {
	Err error
}

func (e NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e NetworkError) Unwrap() error {
	return e.Err
}
