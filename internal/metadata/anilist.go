package metadata

import (
	"context"
	"strings"

	"github.com/machinebox/graphql"

	"github.com/Nomadcxx/nasflix/internal/log"
)

const DefaultAniListURL = "https://graphql.anilist.co"

const searchAnimeQuery = `
	query ($search: String) {
		Media(search: $search, type: ANIME) {
			id
			title {
				romaji
				english
				native
			}
			description(asHtml: false)
			coverImage {
				large
			}
			countryOfOrigin
		}
	}
`

// AniListClient searches AniList's public GraphQL API. No token is needed
// for media search.
type AniListClient struct {
	client *graphql.Client
}

// NewAniListClient creates a client for the endpoint, or the public API
// when endpoint is empty.
func NewAniListClient(endpoint string) *AniListClient {
	if endpoint == "" {
		endpoint = DefaultAniListURL
	}
	return &AniListClient{client: graphql.NewClient(endpoint)}
}

type aniListMedia struct {
	ID    int `json:"id"`
	Title struct {
		Romaji  string `json:"romaji"`
		English string `json:"english"`
		Native  string `json:"native"`
	} `json:"title"`
	Description string `json:"description"`
	CoverImage  struct {
		Large string `json:"large"`
	} `json:"coverImage"`
	CountryOfOrigin string `json:"countryOfOrigin"`
}

// SearchAnime returns the best AniList match for title, or nil when
// AniList has none.
func (c *AniListClient) SearchAnime(ctx context.Context, title string) (*Metadata, error) {
	if strings.TrimSpace(title) == "" {
		return nil, nil
	}

	req := graphql.NewRequest(searchAnimeQuery)
	req.Var("search", title)

	var resp struct {
		Media *aniListMedia `json:"Media"`
	}
	if err := c.client.Run(ctx, req, &resp); err != nil {
		// AniList reports a miss as a GraphQL error with status 404
		if strings.Contains(err.Error(), "Not Found") {
			return nil, nil
		}
		return nil, NetworkError{Err: err}
	}
	if resp.Media == nil || resp.Media.ID == 0 {
		return nil, nil
	}

	log.Debug("anilist match", "title", title, "id", resp.Media.ID)
	return &Metadata{
		Source:    SourceAniList,
		AniListID: resp.Media.ID,
		MediaType: "tv",
		PosterURL: resp.Media.CoverImage.Large,
		Overview:  resp.Media.Description,
		GenreIDs:  []int{GenreAnimation},
	}, nil
}
