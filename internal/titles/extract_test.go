package titles

import (
	"testing"
)

func TestExtractEpisode(t *testing.T) {
	tests := []struct {
		input     string
		expected  int
		wantFound bool
	}{
		{"Show.Name.S02E05.1080p.mkv", 5, true},
		{"짱구는못말려 13화.mp4", 13, true},
		{"Movie.Title.2021.1080p.mkv", 0, false},
		{"Show - E07 - Title.mkv", 7, true},
		{"[SubsPlease] Frieren (13) [1080p].mkv", 13, true},
		{"Anime.Title.07.mkv", 7, true},
		{"Show.S01E00.mkv", 0, true},
		{"진격의 거인 3기 12화.mkv", 12, true},
		{"런닝맨 시즌2 05화", 5, true},

		// Out of range or zero where zero is not meaningful
		{"Concert [2160].mkv", 0, false},
		{"Anime.Title.000.mkv", 0, false},
		{"나혼자산다 1050회.mp4", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		result, found := ExtractEpisode(tt.input)
		if result != tt.expected || found != tt.wantFound {
			t.Errorf("ExtractEpisode(%q) = (%d, %v), want (%d, %v)", tt.input, result, found, tt.expected, tt.wantFound)
		}
	}
}

func TestExtractSeason(t *testing.T) {
	tests := []struct {
		input    string
		expected int
	}{
		{"Show.Name.S02E05.1080p.mkv", 2},
		{"Show.S00E01.mkv", 0},
		{"진격의 거인 3기 12화.mkv", 3},
		{"런닝맨 시즌2 05화", 2},
		{"Show Season 3 Extra", 3},
		{"Frieren.mkv", 1},
		{"Movie.Title.2021.1080p.mkv", 1},
		{"", 1},
	}

	for _, tt := range tests {
		result := ExtractSeason(tt.input)
		if result != tt.expected {
			t.Errorf("ExtractSeason(%q) = %d, want %d", tt.input, result, tt.expected)
		}
	}
}

func TestExtractEpisodeBound(t *testing.T) {
	inputs := []string{
		"Show.S01E999.mkv",
		"Show.S01E1000.mkv",
		"Show 99999화",
		"[123456]",
		"Title.E4294967296.mkv",
	}

	for _, input := range inputs {
		if n, ok := ExtractEpisode(input); ok && (n < 0 || n >= maxEpisode) {
			t.Errorf("ExtractEpisode(%q) = %d, outside [0, %d)", input, n, maxEpisode)
		}
	}
}
