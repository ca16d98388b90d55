// Package media holds the catalog wire model shared by the client,
// grouping and presentation packages.
package media

// Movie is one playable file as the catalog lists it. Title is the raw
// filename-derived title. SeasonNumber and EpisodeNumber are only set when
// the server already knows them.
type Movie struct {
	ID            string `json:"id" yaml:"id"`
	Title         string `json:"title" yaml:"title"`
	ThumbnailURL  string `json:"thumbnailUrl,omitempty" yaml:"thumbnail_url,omitempty"`
	VideoURL      string `json:"videoUrl" yaml:"video_url"`
	Duration      string `json:"duration,omitempty" yaml:"duration,omitempty"`
	Overview      string `json:"overview,omitempty" yaml:"overview,omitempty"`
	AirDate       string `json:"air_date,omitempty" yaml:"air_date,omitempty"`
	SeasonNumber  *int   `json:"season_number,omitempty" yaml:"season_number,omitempty"`
	EpisodeNumber *int   `json:"episode_number,omitempty" yaml:"episode_number,omitempty"`
}

// Category is a catalog folder. Folders that hold sub-folders rather than
// files arrive with no movies and their own path.
type Category struct {
	Name        string   `json:"name" yaml:"name"`
	Path        string   `json:"path,omitempty" yaml:"path,omitempty"`
	Movies      []Movie  `json:"movies" yaml:"movies"`
	GenreIDs    []int    `json:"genreIds,omitempty" yaml:"genre_ids,omitempty"`
	GenreNames  []string `json:"genreNames,omitempty" yaml:"genre_names,omitempty"`
	PosterPath  string   `json:"posterPath,omitempty" yaml:"poster_path,omitempty"`
	Year        string   `json:"year,omitempty" yaml:"year,omitempty"`
	Overview    string   `json:"overview,omitempty" yaml:"overview,omitempty"`
	Rating      string   `json:"rating,omitempty" yaml:"rating,omitempty"`
	SeasonCount int      `json:"seasonCount,omitempty" yaml:"season_count,omitempty"`
	Director    string   `json:"director,omitempty" yaml:"director,omitempty"`
	Actors      []Actor  `json:"actors,omitempty" yaml:"actors,omitempty"`
	TMDBID      string   `json:"tmdbId,omitempty" yaml:"tmdb_id,omitempty"`
	Failed      int      `json:"failed" yaml:"failed"` // 0 or 1, server-side metadata match failed
}

// Actor is one cast entry.
type Actor struct {
	Name    string `json:"name" yaml:"name"`
	Profile string `json:"profile,omitempty" yaml:"profile,omitempty"`
	Role    string `json:"role,omitempty" yaml:"role,omitempty"`
}

// HomeSection is a titled row of categories on the home screen.
type HomeSection struct {
	Title string     `json:"title" yaml:"title"`
	Items []Category `json:"items" yaml:"items"`
}

// IntPtr returns a pointer to n, for building movies with explicit
// season or episode numbers.
func IntPtr(n int) *int {
	return &n
}
