package ui

import "github.com/charmbracelet/lipgloss"

// Single string so the block keeps its exact spacing.
const nasflixASCII = `███╗   ██╗ █████╗ ███████╗███████╗██╗     ██╗██╗  ██╗
████╗  ██║██╔══██╗██╔════╝██╔════╝██║     ██║╚██╗██╔╝
██╔██╗ ██║███████║███████╗█████╗  ██║     ██║ ╚███╔╝
██║╚██╗██║██╔══██║╚════██║██╔══╝  ██║     ██║ ██╔██╗
██║ ╚████║██║  ██║███████║██║     ███████╗██║██╔╝ ██╗
╚═╝  ╚═══╝╚═╝  ╚═╝╚══════╝╚═╝     ╚══════╝╚═╝╚═╝  ╚═╝`

// asciiHeight is the rendered height of the banner plus its gap.
const asciiHeight = 8

// FormatASCIIHeader renders the banner in the brand color
func FormatASCIIHeader() string {
	return lipgloss.NewStyle().
		Foreground(BrandRed).
		Bold(true).
		Render(nasflixASCII)
}

// FormatASCIIHeaderWithSubtext renders the banner with a subtitle
func FormatASCIIHeaderWithSubtext(subtext string) string {
	return FormatASCIIHeader() + "\n" + MutedStyle.Render(subtext)
}
