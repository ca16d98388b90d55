package titles

import (
	"regexp"
	"strconv"
)

// maxEpisode bounds every numeric capture; larger numbers are resolutions,
// years or byte counts, never episode numbers.
const maxEpisode = 1000

// Episode and season patterns. Each captures the number in group 1.
var (
	seasonEpisodeRegex = regexp.MustCompile(`(?i)(?:^|[^a-z])S\d+E(\d+)`)
	separatedEpRegex   = regexp.MustCompile(`(?i)[.\s_-]E(\d+)`)
	counterEpRegex     = regexp.MustCompile(`(\d+)\s*(?:화|회|話)`)
	bracketedEpRegex   = regexp.MustCompile(`[\[(](\d+)[\])]`)
	bareNumberEpRegex  = regexp.MustCompile(`[.\s_-](\d{1,3})(?:[.\s_-]|$)`)
	seasonPrefixRegex  = regexp.MustCompile(`(?i)(?:^|[^a-z])S(\d+)`)
	seasonCounterRegex = regexp.MustCompile(`(\d+)\s*기`)
	seasonKoreanRegex  = regexp.MustCompile(`시즌\s*(\d+)`)
	seasonEnglishRegex = regexp.MustCompile(`(?i)Season\s*(\d+)`)
)

// episodePatterns are tried in priority order.
var episodePatterns = []episodePattern{
	{re: seasonEpisodeRegex},
	{re: separatedEpRegex},
	{re: counterEpRegex},
	{re: bracketedEpRegex},
	{re: bareNumberEpRegex, min: 1},
}

var seasonPatterns = []*regexp.Regexp{
	seasonPrefixRegex,
	seasonCounterRegex,
	seasonKoreanRegex,
	seasonEnglishRegex,
}

type episodePattern struct {
	re  *regexp.Regexp
	min int
}

// ExtractEpisode returns the episode number found in raw and whether one
// was found. Only the first match of each pattern is considered; a capture
// outside the accepted range falls through to the next pattern.
//
//	"Show.Name.S02E05.1080p.mkv" -> 5, true
//	"짱구는못말려 13화.mp4"         -> 13, true
//	"Movie.Title.2021.1080p.mkv" -> 0, false
func ExtractEpisode(raw string) (int, bool) {
	raw = Normalize(raw)
	for _, p := range episodePatterns {
		if n, ok := firstNumber(p.re, raw); ok && n >= p.min {
			return n, true
		}
	}
	return 0, false
}

// ExtractSeason returns the season number found in raw, or 1 when the title
// carries no season marker. Single-season content is season 1.
func ExtractSeason(raw string) int {
	raw = Normalize(raw)
	for _, re := range seasonPatterns {
		if n, ok := firstNumber(re, raw); ok {
			return n
		}
	}
	return 1
}

// firstNumber parses group 1 of the first match of re in s.
func firstNumber(re *regexp.Regexp, s string) (int, bool) {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n < 0 || n >= maxEpisode {
		return 0, false
	}
	return n, true
}
