package titles

import (
	"fmt"
	"regexp"
	"strings"
)

// counterMarker is a Korean or Japanese episode/season counter. Unlike the
// other markers it also starts right after a CJK rune, as in "짱구는못말려13화".
const counterMarker = `\d+\s*(?:화|회|기|부|話)`

// cjkRune matches one Hangul, kana or CJK ideograph rune.
const cjkRune = `[가-힣\x{3040}-\x{30ff}\x{4e00}-\x{9fff}]`

// Rules is the data half of the cleaning pipeline. The pipeline stages are
// fixed; which tokens count as noise and which markers start release
// metadata are not, so catalogs with unusual naming can extend them from
// config without touching the stages.
type Rules struct {
	// NoiseTokens are regex fragments. A token preceded by a separator cuts
	// the title from that point to the end of the string.
	NoiseTokens []string `toml:"noise_tokens"`

	// EpisodeMarkers are regex fragments for season/episode markers. The
	// title is truncated at the first marker preceded by a separator, or at
	// a counter glued to a CJK rune.
	EpisodeMarkers []string `toml:"episode_markers"`
}

// DefaultRules returns the consolidated rule set.
func DefaultRules() Rules {
	return Rules{
		NoiseTokens: []string{
			// Resolution
			`\d{3,4}p`, `1080i`, `720i`, `FHD`, `QHD`, `UHD`, `4K`,

			// Source
			`Blu-?ray`, `WEB-DL`, `WEBRip`, `HDRip`, `BDRip`, `BRRip`, `DVDRip`, `TVRip`, `HDTV`, `REMUX`, `WEB`, `DL`,

			// Video codec and dynamic range
			`H\.?26[45]`, `x26[45]`, `HEVC`, `AVC`, `10bit`, `xvid`, `DivX`, `MVC`,
			`HDR(?:10)?\+?`, `Dolby`, `Vision`,

			// Audio
			`AAC\d?`, `DTS(?:-?HD)?`, `AC3`, `DDP\d?`, `DD\+\d?`, `Atmos`, `FLAC`, `Dual`,

			// Containers
			`MKV`, `MP4`, `AVI`,

			// Streaming services
			`NF`, `AMZN`, `HMAX`, `DSNP`, `AppleTV`, `Disney`, `PCOK`, `playWEB`, `ATVP`, `HULU`,

			// Release flags and editions
			`REPACK`, `IMAX`, `Unrated`, `REMASTERED`, `Criterion`, `NonDRM`, `HD`,

			// Release groups seen on the NAS
			`NEXT`, `ST`, `SW`, `KL`, `YT`, `KN`, `FLUX`,

			// Region and language
			`KOREAN`, `KOR`, `JAPANESE`, `JPN`, `CHINESE`, `CHN`, `ENGLISH`, `ENG`, `USA`, `HK`, `TW`,

			// Korean release markers: dubbed, subtitled, theatrical, uncut,
			// director's cut, extended, and the 상/하 part split
			`국어`, `더빙`, `자막`, `극장판`, `무삭제`, `감독판`, `확장판`, `익스텐디드`, `[상하]`,
		},
		EpisodeMarkers: []string{
			`S\d+E\d+`,
			`S\d+`,
			`E\d+`,
			counterMarker,
			`Season\s*\d+`,
			`Episode\s*\d+`,
			`시즌\s*\d+`,
			`Part\s*\d+`,
		},
	}
}

// Extend returns a copy of r with extra literal noise tokens and extra
// regex episode markers appended. Noise tokens come from user config as
// plain words, so they are quoted.
func (r Rules) Extend(noiseWords, markerPatterns []string) Rules {
	out := Rules{
		NoiseTokens:    append([]string(nil), r.NoiseTokens...),
		EpisodeMarkers: append([]string(nil), r.EpisodeMarkers...),
	}
	for _, w := range noiseWords {
		w = strings.TrimSpace(w)
		if w != "" {
			out.NoiseTokens = append(out.NoiseTokens, regexp.QuoteMeta(w))
		}
	}
	for _, p := range markerPatterns {
		p = strings.TrimSpace(p)
		if p != "" {
			out.EpisodeMarkers = append(out.EpisodeMarkers, p)
		}
	}
	return out
}

// compile builds the two rule-driven regexes.
func (r Rules) compile() (markers, noise *regexp.Regexp, err error) {
	if len(r.EpisodeMarkers) == 0 || len(r.NoiseTokens) == 0 {
		return nil, nil, fmt.Errorf("rules: episode markers and noise tokens must not be empty")
	}

	markers, err = regexp.Compile(`(?i)(?:[.\s_-](?:` + strings.Join(r.EpisodeMarkers, "|") + `)|(?P<glued>` + cjkRune + `)` + counterMarker + `)(?:\b|[.\s_-]|$)`)
	if err != nil {
		return nil, nil, fmt.Errorf("rules: invalid episode marker: %w", err)
	}

	// The token must end at a non-alphanumeric rune so "ST" does not eat
	// "Story" and "HD" does not eat "HDMI".
	noise, err = regexp.Compile(`(?i)[.\s_-](?:` + strings.Join(r.NoiseTokens, "|") + `)(?:[^\p{L}\p{N}]|$).*$`)
	if err != nil {
		return nil, nil, fmt.Errorf("rules: invalid noise token: %w", err)
	}

	return markers, noise, nil
}
