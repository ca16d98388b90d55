// Package ui is the interactive terminal browser: home menu, series
// lists, series detail with season tabs, search and watch history.
package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Nomadcxx/nasflix/internal/history"
	"github.com/Nomadcxx/nasflix/internal/library"
	"github.com/Nomadcxx/nasflix/internal/log"
	"github.com/Nomadcxx/nasflix/internal/media"
	"github.com/Nomadcxx/nasflix/internal/metadata"
	"github.com/Nomadcxx/nasflix/internal/player"
	"github.com/Nomadcxx/nasflix/internal/series"
)

// recentSearchLimit is how many past queries the search screen shows.
const recentSearchLimit = 20

// Deps are the services the browser talks to. Library is required; the
// others may be nil, which disables history, metadata lookups or playback.
type Deps struct {
	Library   *library.Library
	History   *history.Store
	Metadata  *metadata.Service
	NewPlayer func() player.Player
}

type screen int

const (
	screenMenu screen = iota
	screenSeries
	screenDetail
	screenSearch
	screenHistory
	screenPlaying
)

// Messages produced by commands
type seriesLoadedMsg struct {
	title   string
	section string
	series  []series.Series
	back    screen
}

type detailLoadedMsg struct {
	detail *library.Detail
	back   screen
}

type metadataMsg struct {
	title string
	meta  metadata.Metadata
}

type historyLoadedMsg struct {
	entries []history.WatchEntry
}

type recentSearchesMsg struct {
	entries []history.SearchEntry
}

type startPlaybackMsg struct {
	req   playRequest
	title string
	back  screen
}

type errMsg struct {
	err error
}

// Model is the root bubbletea model.
type Model struct {
	ctx    context.Context
	deps   Deps
	screen screen
	width  int
	height int

	menu list.Model

	seriesList    list.Model
	allSeries     []series.Series
	seriesSection string
	seriesBack    screen
	filtering     bool
	filter        textinput.Model

	detail     *library.Detail
	season     int
	episodes   list.Model
	overview   string
	detailBack screen

	search      textinput.Model
	recent      list.Model
	recentFocus bool

	historyList list.Model

	loading bool
	spinner spinner.Model
	status  string
	err     error

	stopPlayback context.CancelFunc
	playingTitle string
	playingBack  screen
}

// NewModel returns the browser positioned on the home menu. Commands run
// under ctx.
func NewModel(ctx context.Context, deps Deps) Model {
	filter := textinput.New()
	filter.Placeholder = "필터..."
	filter.Prompt = "/ "
	filter.CharLimit = 100

	search := textinput.New()
	search.Placeholder = "제목을 입력하세요"
	search.Prompt = "검색: "
	search.CharLimit = 200
	search.Width = 50

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = InfoStyle

	return Model{
		ctx:         ctx,
		deps:        deps,
		screen:      screenMenu,
		menu:        newList("NASFLIX", menuItems()),
		seriesList:  newList("", nil),
		episodes:    newList("", nil),
		recent:      newList("최근 검색", nil),
		historyList: newList("시청 기록", nil),
		filter:      filter,
		search:      search,
		spinner:     s,
	}
}

// Init starts the spinner
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case seriesLoadedMsg:
		m.loading = false
		m.allSeries = msg.series
		m.seriesSection = msg.section
		m.seriesBack = msg.back
		m.filtering = false
		m.filter.SetValue("")
		m.seriesList.Title = msg.title
		m.seriesList.Select(0)
		m.screen = screenSeries
		if len(msg.series) == 0 {
			m.status = "결과가 없습니다"
		}
		cmd := m.seriesList.SetItems(seriesItems(msg.series))
		return m, cmd

	case detailLoadedMsg:
		m.loading = false
		if msg.detail == nil {
			m.err = fmt.Errorf("시리즈를 불러오지 못했습니다")
			return m, nil
		}
		return m.openDetail(msg.detail, msg.back)

	case metadataMsg:
		if m.detail != nil && m.detail.Series.Title == msg.title && m.overview == "" {
			m.overview = msg.meta.Overview
		}
		return m, nil

	case historyLoadedMsg:
		m.loading = false
		m.screen = screenHistory
		if len(msg.entries) == 0 {
			m.status = "시청 기록이 없습니다"
		}
		cmd := m.historyList.SetItems(watchItems(msg.entries))
		return m, cmd

	case recentSearchesMsg:
		cmd := m.recent.SetItems(searchItems(msg.entries))
		return m, cmd

	case startPlaybackMsg:
		m.loading = false
		return m.startPlayback(msg)

	case playbackDoneMsg:
		m.stopPlayback = nil
		m.screen = m.playingBack
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.status = "재생이 끝났습니다"
		}
		if m.screen == screenHistory {
			return m, m.loadHistoryCmd()
		}
		return m, nil

	case errMsg:
		m.loading = false
		m.err = msg.err
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		if m.stopPlayback != nil {
			m.stopPlayback()
		}
		return m, tea.Quit
	}
	if m.loading {
		return m, nil
	}

	// Any key clears the last notice
	m.status = ""
	m.err = nil

	switch m.screen {
	case screenMenu:
		return m.updateMenu(msg)
	case screenSeries:
		return m.updateSeries(msg)
	case screenDetail:
		return m.updateDetail(msg)
	case screenSearch:
		return m.updateSearch(msg)
	case screenHistory:
		return m.updateHistory(msg)
	case screenPlaying:
		switch msg.String() {
		case "esc", "q":
			if m.stopPlayback != nil {
				m.stopPlayback()
			}
		}
		return m, nil
	}
	return m, nil
}

func (m Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "enter":
		item, ok := m.menu.SelectedItem().(MenuItem)
		if !ok {
			return m, nil
		}
		return m.handleSelection(item)
	}

	var cmd tea.Cmd
	m.menu, cmd = m.menu.Update(msg)
	return m, cmd
}

func (m Model) handleSelection(item MenuItem) (tea.Model, tea.Cmd) {
	lib := m.deps.Library
	switch item.action {
	case actionLatest:
		return m.load(m.loadSeriesCmd(item.title, "movies", screenMenu, lib.LatestMovies))
	case actionAnimations:
		return m.load(m.loadSeriesCmd(item.title, "animations", screenMenu, lib.Animations))
	case actionDramas:
		return m.load(m.loadSeriesCmd(item.title, "dramas", screenMenu, lib.Dramas))
	case actionSearch:
		m.screen = screenSearch
		m.recentFocus = false
		m.search.SetValue("")
		cmd := tea.Batch(m.search.Focus(), m.loadRecentSearchesCmd())
		return m, cmd
	case actionHistory:
		if m.deps.History == nil {
			m.err = fmt.Errorf("시청 기록을 사용할 수 없습니다")
			return m, nil
		}
		return m.load(m.loadHistoryCmd())
	case actionQuit:
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) updateSeries(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.filtering {
		switch msg.String() {
		case "esc":
			m.filtering = false
			m.filter.Blur()
			m.filter.SetValue("")
			cmd := m.seriesList.SetItems(seriesItems(m.allSeries))
			return m, cmd
		case "enter", "down", "up":
			m.filtering = false
			m.filter.Blur()
			return m, nil
		}
		var inputCmd tea.Cmd
		m.filter, inputCmd = m.filter.Update(msg)
		m.seriesList.Select(0)
		listCmd := m.seriesList.SetItems(seriesItems(filterSeries(m.allSeries, m.filter.Value())))
		return m, tea.Batch(inputCmd, listCmd)
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc":
		if m.filter.Value() != "" {
			m.filter.SetValue("")
			cmd := m.seriesList.SetItems(seriesItems(m.allSeries))
			return m, cmd
		}
		m.screen = m.seriesBack
		if m.screen == screenSearch {
			cmd := tea.Batch(m.search.Focus(), m.loadRecentSearchesCmd())
			return m, cmd
		}
		return m, nil
	case "/":
		m.filtering = true
		cmd := m.filter.Focus()
		return m, cmd
	case "enter":
		item, ok := m.seriesList.SelectedItem().(seriesItem)
		if !ok {
			return m, nil
		}
		if len(item.s.Episodes) > 0 {
			return m.openDetail(&library.Detail{
				Series:  item.s,
				Seasons: series.SplitSeasons(item.s.Episodes),
			}, screenSeries)
		}
		return m.load(m.loadDetailCmd(item.s.FullPath, screenSeries))
	}

	var cmd tea.Cmd
	m.seriesList, cmd = m.seriesList.Update(msg)
	return m, cmd
}

func (m Model) openDetail(d *library.Detail, back screen) (tea.Model, tea.Cmd) {
	m.detail = d
	m.detailBack = back
	m.season = 0
	m.overview = d.Series.Overview
	m.screen = screenDetail
	m.episodes.Title = d.Series.Title
	m.episodes.Select(0)

	cmds := []tea.Cmd{m.episodes.SetItems(episodeItems(m.seasonEpisodes()))}
	if m.overview == "" && m.deps.Metadata != nil {
		cmds = append(cmds, m.lookupMetadataCmd(d.Series.Title, m.seriesSection == "animations"))
	}
	return m, tea.Batch(cmds...)
}

func (m Model) seasonEpisodes() []media.Movie {
	if m.detail == nil || m.season >= len(m.detail.Seasons) {
		return nil
	}
	return m.detail.Seasons[m.season].Episodes
}

func (m Model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc":
		m.screen = m.detailBack
		return m, nil
	case "right", "l", "tab":
		if m.detail != nil && len(m.detail.Seasons) > 1 {
			m.season = (m.season + 1) % len(m.detail.Seasons)
			m.episodes.Select(0)
			cmd := m.episodes.SetItems(episodeItems(m.seasonEpisodes()))
			return m, cmd
		}
		return m, nil
	case "left", "h", "shift+tab":
		if m.detail != nil && len(m.detail.Seasons) > 1 {
			m.season = (m.season + len(m.detail.Seasons) - 1) % len(m.detail.Seasons)
			m.episodes.Select(0)
			cmd := m.episodes.SetItems(episodeItems(m.seasonEpisodes()))
			return m, cmd
		}
		return m, nil
	case "enter":
		item, ok := m.episodes.SelectedItem().(episodeItem)
		if !ok {
			return m, nil
		}
		return m.startPlayback(startPlaybackMsg{
			req: playRequest{
				queue:    series.NewQueue(m.detailQueue()),
				startID:  item.m.ID,
				startMs:  resumePosition(m.ctx, m.deps.History, item.m.ID),
				section:  m.seriesSection,
				fullPath: m.detail.Series.FullPath,
			},
			title: item.Title(),
			back:  screenDetail,
		})
	}

	var cmd tea.Cmd
	m.episodes, cmd = m.episodes.Update(msg)
	return m, cmd
}

// detailQueue is every episode of the open series in season order.
func (m Model) detailQueue() []media.Movie {
	var all []media.Movie
	for _, s := range m.detail.Seasons {
		all = append(all, s.Episodes...)
	}
	return all
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.search.Blur()
		m.screen = screenMenu
		return m, nil
	case "tab":
		m.recentFocus = !m.recentFocus
		if m.recentFocus {
			m.search.Blur()
			return m, nil
		}
		cmd := m.search.Focus()
		return m, cmd
	}

	if m.recentFocus {
		switch msg.String() {
		case "enter":
			item, ok := m.recent.SelectedItem().(searchItem)
			if !ok {
				return m, nil
			}
			return m.runSearch(item.q.Query)
		case "d":
			item, ok := m.recent.SelectedItem().(searchItem)
			if !ok || m.deps.History == nil {
				return m, nil
			}
			return m, m.deleteSearchCmd(item.q.Query)
		}
		var cmd tea.Cmd
		m.recent, cmd = m.recent.Update(msg)
		return m, cmd
	}

	if msg.String() == "enter" {
		return m.runSearch(m.search.Value())
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m Model) runSearch(query string) (tea.Model, tea.Cmd) {
	query = strings.TrimSpace(query)
	if query == "" {
		return m, nil
	}
	m.search.Blur()
	m.search.SetValue(query)

	lib := m.deps.Library
	store := m.deps.History
	title := fmt.Sprintf("검색: %s", query)
	load := func(ctx context.Context) []series.Series {
		if store != nil {
			if err := store.AddSearch(ctx, query); err != nil {
				log.Warn("Failed to save search", "query", query, "error", err)
			}
		}
		return lib.Search(ctx, query, "")
	}
	return m.load(m.loadSeriesCmd(title, "search", screenSearch, load))
}

func (m Model) updateHistory(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc":
		m.screen = screenMenu
		return m, nil
	case "d":
		item, ok := m.historyList.SelectedItem().(watchItem)
		if !ok {
			return m, nil
		}
		return m, m.deleteWatchCmd(item.e.ID)
	case "enter":
		item, ok := m.historyList.SelectedItem().(watchItem)
		if !ok || m.deps.NewPlayer == nil {
			return m, nil
		}
		return m.load(m.resumeCmd(item.e))
	}

	var cmd tea.Cmd
	m.historyList, cmd = m.historyList.Update(msg)
	return m, cmd
}

func (m Model) startPlayback(msg startPlaybackMsg) (tea.Model, tea.Cmd) {
	if m.deps.NewPlayer == nil {
		m.err = fmt.Errorf("플레이어가 설정되지 않았습니다")
		return m, nil
	}
	ctx, cancel := context.WithCancel(m.ctx)
	m.stopPlayback = cancel
	m.playingTitle = msg.title
	m.playingBack = msg.back
	m.screen = screenPlaying
	return m, tea.Batch(m.spinner.Tick, playCmd(ctx, m.deps.NewPlayer, m.deps.History, msg.req))
}

// load shows the spinner while cmd runs.
func (m Model) load(cmd tea.Cmd) (tea.Model, tea.Cmd) {
	m.loading = true
	return m, tea.Batch(m.spinner.Tick, cmd)
}

func (m *Model) resize() {
	h := m.height - 4
	if h < 3 {
		h = 3
	}
	m.menu.SetSize(m.width, max(m.height-asciiHeight-3, 3))
	m.seriesList.SetSize(m.width, h-1)
	m.episodes.SetSize(m.width, max(h-detailHeaderHeight, 3))
	m.recent.SetSize(m.width, max(h-3, 3))
	m.historyList.SetSize(m.width, h)
}

// Commands

func (m Model) loadSeriesCmd(title, section string, back screen, fetch func(context.Context) []series.Series) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return seriesLoadedMsg{title: title, section: section, series: fetch(ctx), back: back}
	}
}

func (m Model) loadDetailCmd(path string, back screen) tea.Cmd {
	ctx, lib := m.ctx, m.deps.Library
	return func() tea.Msg {
		return detailLoadedMsg{detail: lib.SeriesDetail(ctx, path), back: back}
	}
}

func (m Model) lookupMetadataCmd(title string, isAnimation bool) tea.Cmd {
	ctx, svc := m.ctx, m.deps.Metadata
	return func() tea.Msg {
		meta, err := svc.Lookup(ctx, title, "", isAnimation)
		if err != nil {
			// Lookup already logged it; a partial result is still shown
			log.Debug("Metadata lookup incomplete", "title", title, "error", err)
		}
		return metadataMsg{title: title, meta: meta}
	}
}

func (m Model) loadHistoryCmd() tea.Cmd {
	ctx, store := m.ctx, m.deps.History
	return func() tea.Msg {
		entries, err := store.WatchHistory(ctx, 0)
		if err != nil {
			return errMsg{err: err}
		}
		return historyLoadedMsg{entries: entries}
	}
}

func (m Model) deleteWatchCmd(id string) tea.Cmd {
	ctx, store := m.ctx, m.deps.History
	return func() tea.Msg {
		if err := store.DeleteWatch(ctx, id); err != nil {
			return errMsg{err: err}
		}
		entries, err := store.WatchHistory(ctx, 0)
		if err != nil {
			return errMsg{err: err}
		}
		return historyLoadedMsg{entries: entries}
	}
}

func (m Model) loadRecentSearchesCmd() tea.Cmd {
	ctx, store := m.ctx, m.deps.History
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		entries, err := store.RecentSearches(ctx, recentSearchLimit)
		if err != nil {
			return errMsg{err: err}
		}
		return recentSearchesMsg{entries: entries}
	}
}

func (m Model) deleteSearchCmd(query string) tea.Cmd {
	ctx, store := m.ctx, m.deps.History
	return func() tea.Msg {
		if err := store.DeleteSearch(ctx, query); err != nil {
			return errMsg{err: err}
		}
		entries, err := store.RecentSearches(ctx, recentSearchLimit)
		if err != nil {
			return errMsg{err: err}
		}
		return recentSearchesMsg{entries: entries}
	}
}

// resumeCmd reopens the series a history entry was watched from and
// queues playback at the saved position. Entries whose series can no
// longer be loaded play on their own.
func (m Model) resumeCmd(e history.WatchEntry) tea.Cmd {
	ctx, lib := m.ctx, m.deps.Library
	return func() tea.Msg {
		section, path := "", ""
		if len(e.PathStack) > 0 {
			section = e.PathStack[0]
		}
		if len(e.PathStack) > 1 {
			path = e.PathStack[1]
		}

		queue := []media.Movie{{ID: e.ID, Title: e.Title, VideoURL: e.VideoURL, ThumbnailURL: e.ThumbnailURL}}
		if path != "" {
			if d := lib.SeriesDetail(ctx, path); d != nil {
				var all []media.Movie
				for _, s := range d.Seasons {
					all = append(all, s.Episodes...)
				}
				if series.NewQueue(all).Index(e.ID) >= 0 {
					queue = all
				}
			}
		}

		return startPlaybackMsg{
			req: playRequest{
				queue:    series.NewQueue(queue),
				startID:  e.ID,
				startMs:  e.PositionMs,
				section:  section,
				fullPath: path,
			},
			title: watchItem{e: e}.Title(),
			back:  screenHistory,
		}
	}
}

// Run starts the browser on the alternate screen and blocks until the
// user quits or ctx is cancelled.
func Run(ctx context.Context, deps Deps) error {
	p := tea.NewProgram(NewModel(ctx, deps), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("browser: %w", err)
	}
	return nil
}
