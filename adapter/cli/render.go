package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/felixgeelhaar/triage/internal/ranking/application"
	"github.com/felixgeelhaar/triage/internal/ranking/domain"
	"gopkg.in/yaml.v3"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))

	levelStyles = map[string]lipgloss.Style{
		string(domain.PriorityHigh):   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
		string(domain.PriorityMedium): lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		string(domain.PriorityLow):    lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
	}
)

// column widths for the task table
const (
	colRank  = 4
	colScore = 9
	colLevel = 8
	colID    = 8
	colTitle = 34
)

func checkFormat(format string) error {
	switch format {
	case formatTable, formatJSON, formatYAML:
		return nil
	}
	return fmt.Errorf("unknown output format %q (want table, json or yaml)", format)
}

// writeStructured handles the json and yaml formats; it reports false for table.
func writeStructured(w io.Writer, format string, v any) (bool, error) {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return true, enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return true, err
		}
		return true, enc.Close()
	}
	return false, nil
}

func cell(width int, text string) string {
	if lipgloss.Width(text) > width-1 {
		runes := []rune(text)
		if len(runes) > width-2 {
			text = string(runes[:width-2]) + "…"
		}
	}
	return lipgloss.NewStyle().Width(width).Render(text)
}

func levelStyle(level string) lipgloss.Style {
	if style, ok := levelStyles[level]; ok {
		return style
	}
	return lipgloss.NewStyle()
}

func levelCell(level string) string {
	return levelStyle(level).Width(colLevel).Render(level)
}

func formatID(id any) string {
	if id == nil {
		return "-"
	}
	return fmt.Sprint(id)
}

func taskHeader() string {
	return headerStyle.Render(cell(colRank, "#") + cell(colScore, "SCORE") + cell(colLevel, "LEVEL") +
		cell(colID, "ID") + cell(colTitle, "TITLE") + "EXPLANATION")
}

func taskRow(rank int, t application.TaskResult) string {
	return cell(colRank, fmt.Sprint(rank)) +
		cell(colScore, fmt.Sprintf("%.2f", t.Score)) +
		levelCell(t.PriorityLevel) +
		cell(colID, formatID(t.ID)) +
		cell(colTitle, t.Title) +
		mutedStyle.Render(t.Explanation)
}

func renderWarnings(b *strings.Builder, warnings []string) {
	if len(warnings) == 0 {
		return
	}
	b.WriteString("\n")
	for _, w := range warnings {
		b.WriteString(warningStyle.Render("! " + w))
		b.WriteString("\n")
	}
}

func renderAnalysis(w io.Writer, result *application.AnalysisResult, description string) error {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("%d tasks ranked with %s", result.TotalTasks, result.StrategyUsed)))
	if description != "" {
		b.WriteString(mutedStyle.Render(" (" + description + ")"))
	}
	b.WriteString("\n\n")
	b.WriteString(taskHeader())
	b.WriteString("\n")
	for i, t := range result.Tasks {
		b.WriteString(taskRow(i+1, t))
		b.WriteString("\n")
		for _, warning := range t.ValidationWarnings {
			b.WriteString(cell(colRank, "") + mutedStyle.Render("  "+warning))
			b.WriteString("\n")
		}
	}
	renderWarnings(&b, result.Warnings)
	_, err := io.WriteString(w, b.String())
	return err
}

func renderSuggestions(w io.Writer, result *application.SuggestionResult) error {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Top %d tasks to work on", len(result.Suggestions))))
	b.WriteString("\n\n")
	for _, s := range result.Suggestions {
		b.WriteString(fmt.Sprintf("%d. %s ", s.Rank, headerStyle.Render(s.Title)))
		b.WriteString(levelStyle(s.PriorityLevel).Render(fmt.Sprintf("[%s %.2f]", s.PriorityLevel, s.Score)))
		b.WriteString("\n")
		for _, reason := range s.WhyWorkOnThis {
			b.WriteString("   - " + reason + "\n")
		}
		b.WriteString(mutedStyle.Render("   " + s.Explanation))
		b.WriteString("\n")
	}
	renderWarnings(&b, result.Warnings)
	_, err := io.WriteString(w, b.String())
	return err
}

func renderCycles(w io.Writer, warnings []string) error {
	if len(warnings) == 0 {
		_, err := fmt.Fprintln(w, "No circular dependencies found.")
		return err
	}
	var b strings.Builder
	for _, warning := range warnings {
		b.WriteString(warningStyle.Render("! " + warning))
		b.WriteString("\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func renderStrategies(w io.Writer, strategies []application.StrategyInfo) error {
	var b strings.Builder
	for _, s := range strategies {
		b.WriteString(headerStyle.Render(cell(18, s.Name)))
		b.WriteString(s.Description)
		b.WriteString("\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}
