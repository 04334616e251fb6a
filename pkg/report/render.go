package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-centrality/pkg/engine"
)

// Output formats
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ErrUnknownFormat is returned by Render for an unsupported format.
var ErrUnknownFormat = errors.New("unknown report format")

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF00FF"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FFFF")).
			MarginTop(1)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))
)

// Render writes rep to w in the given format.
func Render(w io.Writer, rep *Report, format string) error {
	switch format {
	case FormatText, "":
		return renderText(w, rep)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rep); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func renderText(w io.Writer, rep *Report) error {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("Centrality report: %d nodes, %d edges", rep.Nodes, rep.Edges)))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("run " + rep.RunID))
	b.WriteString("\n")

	for _, s := range rep.Sections {
		b.WriteString(headerStyle.Render(fmt.Sprintf("Top %d %s centrality:", len(s.Top), s.Metric)))
		b.WriteString("\n")
		for _, rn := range s.Top {
			b.WriteString(formatRow(s.Metric, rn))
			b.WriteString("\n")
		}
		b.WriteString(mutedStyle.Render(fmt.Sprintf("computed in %s", s.Duration)))
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func formatRow(metric string, rn RankedNode) string {
	if metric == string(engine.Degree) {
		return fmt.Sprintf("Node %d: degree = %d", rn.NodeID, int(rn.Score))
	}
	return fmt.Sprintf("Node %d: %s = %.6f", rn.NodeID, metric, rn.Score)
}
