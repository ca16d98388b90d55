package series

import (
	"reflect"
	"testing"

	"github.com/Nomadcxx/nasflix/internal/media"
)

func TestSplitSeasons(t *testing.T) {
	episodes := GroupBySeries([]media.Movie{
		movie("1", "Show.S02E01.mkv"),
		movie("2", "Show.S01E02.mkv"),
		movie("3", "Show.S01E01.mkv"),
		{ID: "4", Title: "Show.E07.mkv", VideoURL: "/video/4", SeasonNumber: media.IntPtr(0)},
	})[0].Episodes

	seasons := SplitSeasons(episodes)
	if len(seasons) != 3 {
		t.Fatalf("SplitSeasons returned %d seasons, want 3", len(seasons))
	}

	wantNames := []string{"시즌 0", "시즌 1", "시즌 2"}
	wantIDs := [][]string{{"4"}, {"3", "2"}, {"1"}}
	for i, s := range seasons {
		if s.Name != wantNames[i] {
			t.Errorf("season %d name = %q, want %q", i, s.Name, wantNames[i])
		}
		var ids []string
		for _, m := range s.Episodes {
			ids = append(ids, m.ID)
		}
		if !reflect.DeepEqual(ids, wantIDs[i]) {
			t.Errorf("season %d episodes = %q, want %q", i, ids, wantIDs[i])
		}
	}
}

func TestSplitSeasonsEmpty(t *testing.T) {
	if seasons := SplitSeasons(nil); len(seasons) != 0 {
		t.Errorf("SplitSeasons(nil) = %d seasons, want 0", len(seasons))
	}
}

func TestSeasonName(t *testing.T) {
	if got := SeasonName(3); got != "시즌 3" {
		t.Errorf("SeasonName(3) = %q, want %q", got, "시즌 3")
	}
}

func TestSortEpisodes(t *testing.T) {
	episodes := []media.Movie{
		movie("a", "Show.S02E01.mkv"),
		movie("b", "Show 3화.mkv"),
		{ID: "c", Title: "Show extra.mkv", SeasonNumber: media.IntPtr(1), EpisodeNumber: media.IntPtr(1)},
		movie("d", "Show 2화.mkv"),
	}
	SortEpisodes(episodes)

	var ids []string
	for _, m := range episodes {
		ids = append(ids, m.ID)
	}
	want := []string{"c", "d", "b", "a"}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("SortEpisodes order = %q, want %q", ids, want)
	}
}
