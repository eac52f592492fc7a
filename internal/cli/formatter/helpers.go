package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

const dateLayout = "2006-01-02"

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		return boxStyle.Render(StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// FormatDate renders an optional calendar date, or a dim placeholder.
func FormatDate(t *time.Time) string {
	if t == nil {
		return Dim("--")
	}
	return t.Format(dateLayout)
}

// FormatWeeks renders a week count such as "156w".
func FormatWeeks(w int) string {
	return fmt.Sprintf("%dw", w)
}

// FormatFloat renders total float in weeks. Zero float is highlighted.
func FormatFloat(f *int) string {
	switch {
	case f == nil:
		return Dim("--")
	case *f == 0:
		return StyleRed.Render("0w")
	default:
		return FormatWeeks(*f)
	}
}

// FormatDelta renders a signed week delta. Earlier is green, later is red.
func FormatDelta(weeks int) string {
	switch {
	case weeks < 0:
		return StyleGreen.Render(fmt.Sprintf("%dw", weeks))
	case weeks > 0:
		return StyleRed.Render(fmt.Sprintf("+%dw", weeks))
	default:
		return Dim("±0w")
	}
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

// label renders a dim, fixed-width field label for metadata panels.
func label(name string) string {
	return StyleDim.Render(fmt.Sprintf("%-13s", strings.ToUpper(name)))
}
