package series

import (
	"fmt"
	"sort"

	"github.com/Nomadcxx/nasflix/internal/media"
)

// Season is one selectable season of a series detail view.
type Season struct {
	Name     string        `json:"name" yaml:"name"`
	Number   int           `json:"number" yaml:"number"`
	Episodes []media.Movie `json:"episodes" yaml:"episodes"`
}

// SeasonName is the display name for season n.
func SeasonName(n int) string {
	return fmt.Sprintf("시즌 %d", n)
}

// SplitSeasons partitions episodes by effective season number. Seasons are
// ascending; each keeps the relative order of the episodes it received.
func SplitSeasons(episodes []media.Movie) []Season {
	index := make(map[int]int)
	var seasons []Season

	for _, ep := range episodes {
		n, _ := EffectiveNumbers(ep)
		i, ok := index[n]
		if !ok {
			i = len(seasons)
			index[n] = i
			seasons = append(seasons, Season{Name: SeasonName(n), Number: n})
		}
		seasons[i].Episodes = append(seasons[i].Episodes, ep)
	}

	sort.SliceStable(seasons, func(i, j int) bool {
		return seasons[i].Number < seasons[j].Number
	})
	return seasons
}

// SortEpisodes orders episodes in place by effective season, episode, then
// raw title, the same order a series bucket uses.
func SortEpisodes(episodes []media.Movie) {
	sort.SliceStable(episodes, func(i, j int) bool {
		si, ei := EffectiveNumbers(episodes[i])
		sj, ej := EffectiveNumbers(episodes[j])
		return entryLess(entry{movie: episodes[i], season: si, episode: ei},
			entry{movie: episodes[j], season: sj, episode: ej})
	})
}
