// Package overlay composites popup boxes over the main view.
package overlay

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Compose overlays content on top of a base view. Non-space characters in
// the overlay replace the base at the same position. The splice is ANSI
// aware, so styled base and overlay text survive intact.
func Compose(base, overlay string, width, _ int) string {
	baseLines := strings.Split(base, "\n")
	overlayLines := strings.Split(overlay, "\n")

	for i, overlayLine := range overlayLines {
		if i >= len(baseLines) {
			break
		}

		// Strip ANSI to find visible content bounds
		plainOverlay := ansi.Strip(overlayLine)
		if strings.TrimSpace(plainOverlay) == "" {
			continue // visually empty line
		}

		// Visible start and end positions, in display columns
		startCol := 0
		for _, r := range plainOverlay {
			if r != ' ' {
				break
			}
			startCol++
		}

		trimmed := strings.TrimRight(plainOverlay, " ")
		endCol := startCol + ansi.StringWidth(trimmed[startCol:])

		// Overlay content with its ANSI codes intact
		overlayContent := ansi.Cut(overlayLine, startCol, endCol)

		baseLine := baseLines[i]
		baseWidth := ansi.StringWidth(ansi.Strip(baseLine))
		if baseWidth < width {
			baseLine += strings.Repeat(" ", width-baseWidth)
		}

		// base[0:startCol] + overlay + base[endCol:]
		result := ansi.Cut(baseLine, 0, startCol) + overlayContent
		if endCol < width {
			result += ansi.Cut(baseLine, endCol, width)
		}

		baseLines[i] = result
	}

	return strings.Join(baseLines, "\n")
}

// Center pads a box with spaces so it lands in the middle of a
// width x height area, ready to be passed to Compose.
func Center(box string, width, height int) string {
	lines := strings.Split(box, "\n")
	boxHeight := len(lines)
	boxWidth := 0
	for _, line := range lines {
		if w := lipgloss.Width(line); w > boxWidth {
			boxWidth = w
		}
	}

	padTop := max((height-boxHeight)/2, 0)
	padLeft := max((width-boxWidth)/2, 0)

	var b strings.Builder
	for range padTop {
		b.WriteString("\n")
	}
	for i, line := range lines {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(strings.Repeat(" ", padLeft))
		b.WriteString(line)
	}
	return b.String()
}
