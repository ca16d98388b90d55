package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// detailHeaderHeight is the lines above the episode list: title row,
// info row, overview and season tabs.
const detailHeaderHeight = 6

const overviewWidth = 100

// View renders the TUI
func (m Model) View() string {
	var b strings.Builder

	switch m.screen {
	case screenMenu:
		b.WriteString(FormatASCIIHeaderWithSubtext("NAS 미디어 브라우저"))
		b.WriteString("\n\n")
		b.WriteString(m.menu.View())
	case screenSeries:
		b.WriteString(m.seriesList.View())
		if m.filtering || m.filter.Value() != "" {
			b.WriteString("\n")
			b.WriteString(m.filter.View())
		}
	case screenDetail:
		b.WriteString(m.renderDetailHeader())
		b.WriteString(m.episodes.View())
	case screenSearch:
		b.WriteString(TitleStyle.Render("검색"))
		b.WriteString("\n")
		b.WriteString(m.search.View())
		b.WriteString("\n\n")
		b.WriteString(m.recent.View())
	case screenHistory:
		b.WriteString(m.historyList.View())
	case screenPlaying:
		b.WriteString(m.renderPlaying())
	}

	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) renderDetailHeader() string {
	if m.detail == nil {
		return ""
	}
	s := m.detail.Series

	var b strings.Builder
	b.WriteString(HeaderStyle.Render(s.Title))
	b.WriteString("\n")

	var info []string
	if s.Year != "" {
		info = append(info, s.Year)
	}
	if s.Rating != "" {
		info = append(info, "★ "+s.Rating)
	}
	if len(s.GenreNames) > 0 {
		info = append(info, strings.Join(s.GenreNames, ", "))
	}
	if s.Director != "" {
		info = append(info, "감독 "+s.Director)
	}
	info = append(info, fmt.Sprintf("%d편", len(m.detailQueue())))
	b.WriteString(MutedStyle.Render(strings.Join(info, " · ")))
	b.WriteString("\n")

	overview := strings.Join(strings.Fields(m.overview), " ")
	if overview == "" {
		overview = "줄거리 정보가 없습니다"
	}
	b.WriteString(ContentStyle.Render(runewidth.Truncate(overview, m.textWidth(), "…")))
	b.WriteString("\n\n")

	b.WriteString(m.renderSeasonTabs())
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderSeasonTabs() string {
	tabs := make([]string, len(m.detail.Seasons))
	for i, s := range m.detail.Seasons {
		if i == m.season {
			tabs[i] = TabActiveStyle.Render(s.Name)
		} else {
			tabs[i] = TabStyle.Render(s.Name)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) renderPlaying() string {
	title := runewidth.Truncate(m.playingTitle, m.textWidth(), "…")
	body := fmt.Sprintf("%s 재생 중\n\n%s", m.spinner.View(), ContentStyle.Render(title))
	return PanelStyle.Render(body)
}

func (m Model) renderStatus() string {
	switch {
	case m.loading:
		return m.spinner.View() + " " + InfoStyle.Render("불러오는 중...")
	case m.err != nil:
		return ErrorStyle.Render("오류: " + m.err.Error())
	case m.status != "":
		return SuccessStyle.Render(m.status)
	}
	return ""
}

func (m Model) renderFooter() string {
	switch m.screen {
	case screenMenu:
		return FormatFooter(
			FormatKeybinding("↑↓", "이동"),
			FormatKeybinding("enter", "선택"),
			FormatKeybinding("q", "종료"),
		)
	case screenSeries:
		if m.filtering {
			return FormatFooter(
				FormatKeybinding("enter", "적용"),
				FormatKeybinding("esc", "취소"),
			)
		}
		return FormatFooter(
			FormatKeybinding("enter", "열기"),
			FormatKeybinding("/", "필터"),
			FormatKeybinding("esc", "뒤로"),
		)
	case screenDetail:
		return FormatFooter(
			FormatKeybinding("enter", "재생"),
			FormatKeybinding("←→", "시즌"),
			FormatKeybinding("esc", "뒤로"),
		)
	case screenSearch:
		return FormatFooter(
			FormatKeybinding("enter", "검색"),
			FormatKeybinding("tab", "최근 검색"),
			FormatKeybinding("d", "삭제"),
			FormatKeybinding("esc", "뒤로"),
		)
	case screenHistory:
		return FormatFooter(
			FormatKeybinding("enter", "이어보기"),
			FormatKeybinding("d", "삭제"),
			FormatKeybinding("esc", "뒤로"),
		)
	case screenPlaying:
		return FormatFooter(FormatKeybinding("esc", "정지"))
	}
	return ""
}

func (m Model) textWidth() int {
	if m.width <= 0 {
		return overviewWidth
	}
	return min(m.width, overviewWidth)
}
