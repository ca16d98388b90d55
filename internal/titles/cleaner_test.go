package titles

import (
	"testing"

	"golang.org/x/text/unicode/norm"
)

func TestCleanTitle(t *testing.T) {
	tests := []struct {
		input       string
		keepSub     bool
		includeYear bool
		expected    string
	}{
		{"Show.Name.S02E05.1080p.WEB-DL.x264-GROUP.mkv", false, false, "Show Name"},
		{"Movie.Title.2021.1080p.mkv", false, false, "Movie Title"},
		{"Movie.Title.2021.1080p.mkv", false, true, "Movie Title (2021)"},
		{"[KBS] 나의 아저씨 E01.mp4", false, false, "나의 아저씨"},
		{"짱구는못말려 13화.mp4", false, false, "짱구는못말려"},
		{"짱구는못말려13화.mp4", false, false, "짱구는못말려"},
		{"진격의거인3기 05화.mkv", false, false, "진격의거인"},
		{"1917.mkv", false, true, "1917"},
		{"2021", false, true, "2021"},
		{"{tmdb-12345} Parasite (2019).mkv", false, true, "Parasite (2019)"},
		{"{tmdb-12345} Parasite (2019).mkv", false, false, "Parasite"},
		{"03 - Intro.mp4", false, false, "Intro"},
		{"스파이더맨HomeComing.2017.mkv", false, false, "스파이더맨 HomeComing"},
		{"Toy.Story.1995.1080p.mkv", false, true, "Toy Story (1995)"},
		{"Show.S01E01.mkv", true, false, "Show S01E01"},
		{"Show.S01E01.mkv", false, false, "Show"},
	}

	for _, tt := range tests {
		result := CleanTitle(tt.input, tt.keepSub, tt.includeYear)
		if result != tt.expected {
			t.Errorf("CleanTitle(%q, %v, %v) = %q, want %q", tt.input, tt.keepSub, tt.includeYear, result, tt.expected)
		}
	}
}

func TestCleanTitleFallsBackWhenEverythingIsNoise(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"(2020).mkv", "(2020)"},
		{"[HD].mp4", "[HD]"},
		{".mkv", ".mkv"},
		{"...", "..."},
		{"---", "---"},
	}

	for _, tt := range tests {
		result := CleanTitle(tt.input, false, false)
		if result != tt.expected {
			t.Errorf("CleanTitle(%q) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}

func TestCleanTitleNeverEmpty(t *testing.T) {
	inputs := []string{
		".mkv", "...", "[]", "(2020)", "S01E01", "---", "1080p", "   x   ", "\t",
		"[자막]", "{tmdb-1}", "화", "E01.mkv", "※※※",
	}

	for _, input := range inputs {
		for _, keep := range []bool{false, true} {
			if result := CleanTitle(input, keep, false); result == "" {
				t.Errorf("CleanTitle(%q, %v, false) returned an empty title", input, keep)
			}
		}
	}
}

func TestCleanTitleIdempotent(t *testing.T) {
	inputs := []string{
		"Show.Name.S02E05.1080p.WEB-DL.x264-GROUP.mkv",
		"Movie.Title.2021.1080p.mkv",
		"[KBS] 나의 아저씨 E01.mp4",
		"짱구는못말려 13화.mp4",
		"짱구는못말려13화.mp4",
		"{tmdb-12345} Parasite (2019).mkv",
		"03 - Intro.mp4",
		"Toy.Story.1995.1080p.mkv",
		"1917.mkv",
		"2021",
	}

	for _, input := range inputs {
		for _, includeYear := range []bool{false, true} {
			once := CleanTitle(input, false, includeYear)
			twice := CleanTitle(once, false, includeYear)
			if once != twice {
				t.Errorf("CleanTitle not idempotent for %q: %q then %q", input, once, twice)
			}
		}
	}
}

func TestStripExtension(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Movie.mkv", "Movie"},
		{"Movie.mp4", "Movie"},
		{"Movie.2021", "Movie.2021"},
		{"Anime.13", "Anime.13"},
		{"Show.01", "Show.01"},
		{".mkv", ".mkv"},
		{"No extension", "No extension"},
	}

	for _, tt := range tests {
		result := StripExtension(tt.input)
		if result != tt.expected {
			t.Errorf("StripExtension(%q) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}

func TestExtractYear(t *testing.T) {
	tests := []struct {
		input        string
		expectedYear string
		expectedRest string
	}{
		{"Parasite (2019)", "2019", "Parasite  "},
		{"Movie.2021.1080p", "2021", "Movie. .1080p"},
		{"2012", "2012", " "},
		{"Movie 1080p", "", "Movie 1080p"},
		{"Part.12021", "", "Part.12021"},
	}

	for _, tt := range tests {
		year, rest := ExtractYear(tt.input)
		if year != tt.expectedYear || rest != tt.expectedRest {
			t.Errorf("ExtractYear(%q) = (%q, %q), want (%q, %q)", tt.input, year, rest, tt.expectedYear, tt.expectedRest)
		}
	}
}

func TestRemoveHintTags(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"{tmdb-12345} Movie", " Movie"},
		{"Movie {TMDB 99}", "Movie "},
		{"[KBS] 드라마 [1080p]", "드라마 [1080p]"},
	}

	for _, tt := range tests {
		result := RemoveHintTags(tt.input)
		if result != tt.expected {
			t.Errorf("RemoveHintTags(%q) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}

func TestTruncateAtEpisodeMarker(t *testing.T) {
	c := Default()
	tests := []struct {
		input    string
		expected string
	}{
		{"Show.S01E02.1080p", "Show"},
		{"Show.S03", "Show"},
		{"무한도전 E345", "무한도전"},
		{"진격의 거인 3기", "진격의 거인"},
		{"짱구는못말려13화", "짱구는못말려"},
		{"名探偵コナン12話", "名探偵コナン"},
		{"Apollo13", "Apollo13"},
		{"런닝맨 시즌 2", "런닝맨"},
		{"Show Season 2 Extra", "Show"},
		{"Movie Part 2", "Movie"},
		{"Superman", "Superman"},
	}

	for _, tt := range tests {
		result := c.TruncateAtEpisodeMarker(tt.input)
		if result != tt.expected {
			t.Errorf("TruncateAtEpisodeMarker(%q) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}

func TestStripNoise(t *testing.T) {
	c := Default()
	tests := []struct {
		input    string
		expected string
	}{
		{"Movie.1080p.BluRay.x264", "Movie"},
		{"Toy.Story", "Toy.Story"},
		{"Cable HDMI Review", "Cable HDMI Review"},
		{"Show HD", "Show"},
		{"기생충 감독판", "기생충"},
		{"드라마 상", "드라마"},
		{"결혼 상견례", "결혼 상견례"},
	}

	for _, tt := range tests {
		result := c.StripNoise(tt.input)
		if result != tt.expected {
			t.Errorf("StripNoise(%q) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}

func TestSpaceCJKBoundaries(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"한글Title", "한글 Title"},
		{"Title한글", "Title 한글"},
		{"A가B", "A 가 B"},
		{"시즌2", "시즌 2"},
		{"進撃の巨人Final", "進撃の巨人 Final"},
		{"Plain Title", "Plain Title"},
	}

	for _, tt := range tests {
		result := SpaceCJKBoundaries(tt.input)
		if result != tt.expected {
			t.Errorf("SpaceCJKBoundaries(%q) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}

func TestReplacePunctuation(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"03 - Title", "Title"},
		{"01.Title", "Title"},
		{"300 Rise of an Empire", "300 Rise of an Empire"},
		{"24 Hours", "24 Hours"},
		{"Mission:Impossible", "Mission Impossible"},
		{"What?_Why!", "What  Why "},
	}

	for _, tt := range tests {
		result := ReplacePunctuation(tt.input)
		if result != tt.expected {
			t.Errorf("ReplacePunctuation(%q) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}

func TestNormalize(t *testing.T) {
	// NFD jamo as written by macOS file systems
	decomposed := norm.NFD.String("한글")
	if got := Normalize(decomposed); got != "한글" {
		t.Errorf("Normalize(decomposed) = %q, want %q", got, "한글")
	}

	if got := Normalize("ＡＢＣ（１）"); got != "ABC(1)" {
		t.Errorf("Normalize(full-width) = %q, want %q", got, "ABC(1)")
	}
}

func TestCleanTitleDecomposedHangul(t *testing.T) {
	raw := norm.NFD.String("짱구 13화.mp4")
	if got := CleanTitle(raw, false, false); got != "짱구" {
		t.Errorf("CleanTitle(decomposed) = %q, want %q", got, "짱구")
	}
}
