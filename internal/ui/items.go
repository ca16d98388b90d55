package ui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/mattn/go-runewidth"

	"github.com/Nomadcxx/nasflix/internal/history"
	"github.com/Nomadcxx/nasflix/internal/media"
	"github.com/Nomadcxx/nasflix/internal/series"
	"github.com/Nomadcxx/nasflix/internal/titles"
)

const descWidth = 60

type menuAction int

const (
	actionLatest menuAction = iota
	actionAnimations
	actionDramas
	actionSearch
	actionHistory
	actionQuit
)

// MenuItem is one entry of the home menu
type MenuItem struct {
	title  string
	desc   string
	action menuAction
}

func (i MenuItem) Title() string       { return i.title }
func (i MenuItem) Description() string { return i.desc }
func (i MenuItem) FilterValue() string { return i.title }

func menuItems() []list.Item {
	return []list.Item{
		MenuItem{title: "최신 영화", desc: "Newest movies on the NAS", action: actionLatest},
		MenuItem{title: "애니메이션", desc: "Every animation series", action: actionAnimations},
		MenuItem{title: "드라마", desc: "Korean and foreign dramas", action: actionDramas},
		MenuItem{title: "검색", desc: "Search the whole library", action: actionSearch},
		MenuItem{title: "시청 기록", desc: "Resume something you were watching", action: actionHistory},
		MenuItem{title: "종료", desc: "Quit nasflix", action: actionQuit},
	}
}

// seriesItem lists one grouped series
type seriesItem struct {
	s series.Series
}

func (i seriesItem) Title() string { return i.s.Title }
func (i seriesItem) Description() string {
	parts := []string{}
	if n := len(i.s.Episodes); n > 0 {
		parts = append(parts, fmt.Sprintf("%d편", n))
	} else {
		parts = append(parts, "폴더")
	}
	if i.s.Year != "" {
		parts = append(parts, i.s.Year)
	}
	if len(i.s.GenreNames) > 0 {
		parts = append(parts, strings.Join(i.s.GenreNames, ", "))
	}
	return runewidth.Truncate(strings.Join(parts, " · "), descWidth, "…")
}
func (i seriesItem) FilterValue() string { return i.s.Title }

// episodeItem lists one playable file
type episodeItem struct {
	m media.Movie
}

func (i episodeItem) Title() string { return titles.PrettyTitle(i.m.Title) }
func (i episodeItem) Description() string {
	desc := i.m.Title
	if i.m.Duration != "" {
		desc = i.m.Duration + " · " + desc
	}
	return runewidth.Truncate(desc, descWidth, "…")
}
func (i episodeItem) FilterValue() string { return i.m.Title }

// watchItem lists one history entry
type watchItem struct {
	e history.WatchEntry
}

func (i watchItem) Title() string { return titles.PrettyTitle(i.e.Title) }
func (i watchItem) Description() string {
	return fmt.Sprintf("%s 에서 이어보기 · %s", formatPosition(i.e.PositionMs), i.e.Timestamp.Format("2006-01-02 15:04"))
}
func (i watchItem) FilterValue() string { return i.e.Title }

// searchItem lists one recent search query
type searchItem struct {
	q history.SearchEntry
}

func (i searchItem) Title() string       { return i.q.Query }
func (i searchItem) Description() string { return i.q.Timestamp.Format("2006-01-02 15:04") }
func (i searchItem) FilterValue() string { return i.q.Query }

func seriesItems(ss []series.Series) []list.Item {
	items := make([]list.Item, len(ss))
	for i, s := range ss {
		items[i] = seriesItem{s: s}
	}
	return items
}

func episodeItems(ms []media.Movie) []list.Item {
	items := make([]list.Item, len(ms))
	for i, m := range ms {
		items[i] = episodeItem{m: m}
	}
	return items
}

func watchItems(entries []history.WatchEntry) []list.Item {
	items := make([]list.Item, len(entries))
	for i, e := range entries {
		items[i] = watchItem{e: e}
	}
	return items
}

func searchItems(entries []history.SearchEntry) []list.Item {
	items := make([]list.Item, len(entries))
	for i, e := range entries {
		items[i] = searchItem{q: e}
	}
	return items
}

// filterSeries keeps the series whose titles fuzzily match query, best
// matches first. Equal matches keep their original order.
func filterSeries(all []series.Series, query string) []series.Series {
	query = strings.TrimSpace(query)
	if query == "" {
		return all
	}

	targets := make([]string, len(all))
	for i, s := range all {
		targets[i] = s.Title
	}
	ranks := fuzzy.RankFindNormalizedFold(query, targets)
	sort.Stable(ranks)

	out := make([]series.Series, 0, len(ranks))
	for _, r := range ranks {
		out = append(out, all[r.OriginalIndex])
	}
	return out
}

// formatPosition renders a millisecond offset as h:mm:ss or m:ss.
func formatPosition(ms int64) string {
	d := time.Duration(ms) * time.Millisecond
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
