package cliui

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/papercomputeco/aiscore/pkg/detect"
)

const barWidth = 30

var (
	humanStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true)
	mixedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	aiStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	emptyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
)

// VerdictStyle returns the color used for a verdict band.
func VerdictStyle(v detect.Verdict) lipgloss.Style {
	switch v {
	case detect.VerdictAI:
		return aiStyle
	case detect.VerdictMixed:
		return mixedStyle
	default:
		return humanStyle
	}
}

// ScoreBar renders a fixed width bar filled in proportion to score.
func ScoreBar(score float64) string {
	filled := detect.Percent(score) * barWidth / 100
	style := VerdictStyle(detect.VerdictFor(score))
	return style.Render(strings.Repeat("█", filled)) +
		emptyStyle.Render(strings.Repeat("░", barWidth-filled))
}

// RenderResult writes a human readable summary of a detection result.
func RenderResult(w io.Writer, r *detect.Result, displayName string) {
	verdict := r.Verdict()
	style := VerdictStyle(verdict)

	fmt.Fprintf(w, "\n  %s %s\n", style.Render(fmt.Sprintf("%d%%", r.Percent())), DimStyle.Render("AI probability"))
	fmt.Fprintf(w, "  %s\n", ScoreBar(r.AIScore))
	fmt.Fprintf(w, "  %s\n\n", style.Render(string(verdict)))
	fmt.Fprintf(w, "  %s %s\n", DimStyle.Render("provider"), NameStyle.Render(displayName))
	fmt.Fprintf(w, "  %s %d  %s %d\n\n",
		DimStyle.Render("words"), r.WordCount,
		DimStyle.Render("characters"), r.CharCount,
	)
}

// RenderError writes the user facing message for a failed analysis.
func RenderError(w io.Writer, err error) {
	fmt.Fprintf(w, "\n  %s %s\n", FailMark, ErrorStyle.Render(detect.Message(err)))

	var derr *detect.Error
	if errors.As(err, &derr) && derr.Stats != nil {
		fmt.Fprintf(w, "  %s %d  %s %d\n",
			DimStyle.Render("words"), derr.Stats.WordCount,
			DimStyle.Render("characters"), derr.Stats.CharCount,
		)
	}
	fmt.Fprintln(w)
}
