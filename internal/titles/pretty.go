package titles

import (
	"strconv"
	"strings"
)

// EpisodeLabel formats an episode number the way the catalog UI shows it.
func EpisodeLabel(episode int) string {
	return strconv.Itoa(episode) + "화"
}

// PrettyTitle builds an episode row label from a raw file title:
//
//	"Show.S01E03.mkv"              -> "Show 3화"
//	"Show S01E03 - The Return.mkv" -> "Show 3화 - The Return"
//	"Movie.2021.1080p.mkv"         -> "Movie"
func PrettyTitle(raw string) string {
	episode, ok := ExtractEpisode(raw)
	base := StripExtension(raw)
	if !ok {
		return CleanTitle(base, false, false)
	}

	if main, subtitle, found := strings.Cut(base, " - "); found {
		return CleanTitle(main, false, false) + " " + EpisodeLabel(episode) + " - " + strings.TrimSpace(subtitle)
	}
	return CleanTitle(base, false, false) + " " + EpisodeLabel(episode)
}
