// Package titles turns filename-derived media titles into display titles
// and recovers season and episode numbers from them.
package titles

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// Pre-compiled regexes for the fixed pipeline stages
var (
	extensionRegex   = regexp.MustCompile(`\.[a-zA-Z0-9]{2,4}$`)
	tmdbHintRegex    = regexp.MustCompile(`(?i)\{tmdb[\s-]*\d+\}`)
	channelTagRegex  = regexp.MustCompile(`^\s*\[.*?\]\s*`)
	yearRegex        = regexp.MustCompile(`\(((?:19|20)\d{2})\)|(?:^|\D)((?:19|20)\d{2})(?:\D|$)`)
	bracketRegex     = regexp.MustCompile(`\[.*?\]|\(.*?\)|【.*?】|『.*?』|「.*?」`)
	cjkLatinRegex    = regexp.MustCompile(`([가-힣\x{3040}-\x{30ff}\x{4e00}-\x{9fff}])([a-zA-Z0-9])`)
	latinCJKRegex    = regexp.MustCompile(`([a-zA-Z0-9])([가-힣\x{3040}-\x{30ff}\x{4e00}-\x{9fff}])`)
	leadingIndexRe   = regexp.MustCompile(`^\s*\d{1,3}\s*[._-][.\s_-]*`)
	punctuationRegex = regexp.MustCompile(`[._\-:!?#@*※×,~;]`)
	whitespaceRegex  = regexp.MustCompile(`\s+`)
)

// Stage is one step of the cleaning pipeline.
type Stage func(string) string

// Cleaner applies a compiled rule set. It holds no mutable state and is
// safe for concurrent use.
type Cleaner struct {
	markers *regexp.Regexp
	noise   *regexp.Regexp
}

// NewCleaner compiles rules into a Cleaner.
func NewCleaner(rules Rules) (*Cleaner, error) {
	markers, noise, err := rules.compile()
	if err != nil {
		return nil, err
	}
	return &Cleaner{markers: markers, noise: noise}, nil
}

// MustNewCleaner is like NewCleaner but panics on an invalid rule set.
func MustNewCleaner(rules Rules) *Cleaner {
	c, err := NewCleaner(rules)
	if err != nil {
		panic(err)
	}
	return c
}

var defaultCleaner = MustNewCleaner(DefaultRules())

// Default returns the cleaner built from DefaultRules.
func Default() *Cleaner {
	return defaultCleaner
}

// CleanTitle cleans raw with the default rule set.
func CleanTitle(raw string, keepSubtitleAfterHyphen, includeYear bool) string {
	return defaultCleaner.CleanTitle(raw, keepSubtitleAfterHyphen, includeYear)
}

// CleanTitle strips release noise from raw and returns a display title.
// The result is never empty unless raw is empty.
//
// Example: "Show.Name.S02E05.1080p.WEB-DL.x264-GROUP.mkv" -> "Show Name"
func (c *Cleaner) CleanTitle(raw string, keepSubtitleAfterHyphen, includeYear bool) string {
	base := StripExtension(Normalize(raw))
	year, working := ExtractYear(RemoveHintTags(base))

	if !keepSubtitleAfterHyphen {
		working = c.TruncateAtEpisodeMarker(working)
	}

	for _, stage := range []Stage{
		c.StripNoise,
		RemoveBrackets,
		SpaceCJKBoundaries,
		ReplacePunctuation,
		CollapseSpaces,
	} {
		working = stage(working)
	}

	fallback := working == ""
	if fallback {
		working = CollapseSpaces(base)
	}
	if working == "" {
		return raw
	}

	// A fallback built from base still carries the year: "1917.mkv".
	if fallback && strings.Contains(working, year) {
		year = ""
	}
	if includeYear && year != "" {
		return working + " (" + year + ")"
	}
	return working
}

// Normalize composes decomposed Hangul (as written by macOS file systems)
// and folds full-width ASCII so the later stages see one form.
func Normalize(s string) string {
	return width.Fold.String(norm.NFC.String(s))
}

// StripExtension removes a trailing ".ext" of 2-4 alphanumerics that
// contains at least one letter, unless that would leave nothing.
func StripExtension(s string) string {
	loc := extensionRegex.FindStringIndex(s)
	if loc == nil || loc[0] == 0 {
		return s
	}
	if !strings.ContainsFunc(s[loc[0]+1:], isASCIILetter) {
		return s
	}
	return s[:loc[0]]
}

// RemoveHintTags drops {tmdb-123} hints and one leading [channel] tag.
func RemoveHintTags(s string) string {
	s = tmdbHintRegex.ReplaceAllString(s, "")
	return channelTagRegex.ReplaceAllString(s, "")
}

// ExtractYear finds the first (19|20)xx year, optionally parenthesized,
// and returns it along with s minus that token.
func ExtractYear(s string) (year, rest string) {
	m := yearRegex.FindStringSubmatchIndex(s)
	if m == nil {
		return "", s
	}

	// Group 1 is the parenthesized form; remove the parens too.
	if m[2] >= 0 {
		return s[m[2]:m[3]], s[:m[0]] + " " + s[m[1]:]
	}
	return s[m[4]:m[5]], s[:m[4]] + " " + s[m[5]:]
}

// TruncateAtEpisodeMarker cuts s at the first season/episode marker. A
// counter glued to a CJK rune is cut after that rune.
func (c *Cleaner) TruncateAtEpisodeMarker(s string) string {
	loc := c.markers.FindStringSubmatchIndex(s)
	if loc == nil {
		return s
	}
	if g := 2 * c.markers.SubexpIndex("glued"); loc[g] >= 0 {
		return s[:loc[g+1]]
	}
	return s[:loc[0]]
}

// StripNoise cuts s at the first technical/release token.
func (c *Cleaner) StripNoise(s string) string {
	return c.noise.ReplaceAllString(s, "")
}

// RemoveBrackets drops any bracketed or parenthesized text left over.
func RemoveBrackets(s string) string {
	return bracketRegex.ReplaceAllString(s, " ")
}

// SpaceCJKBoundaries separates CJK runs from adjacent Latin letters and
// digits: "한글Title" -> "한글 Title".
func SpaceCJKBoundaries(s string) string {
	s = cjkLatinRegex.ReplaceAllString(s, "$1 $2")
	return latinCJKRegex.ReplaceAllString(s, "$1 $2")
}

// ReplacePunctuation strips a leading "03 - " style index and turns the
// separator symbols into spaces.
func ReplacePunctuation(s string) string {
	s = leadingIndexRe.ReplaceAllString(s, "")
	return punctuationRegex.ReplaceAllString(s, " ")
}

// CollapseSpaces squeezes whitespace runs and trims.
func CollapseSpaces(s string) string {
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(s, " "))
}

func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
