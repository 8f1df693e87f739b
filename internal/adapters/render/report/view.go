package report

import (
	"fmt"
	"strings"

	"github.com/bnema/indexdiff/internal/application"
	"github.com/bnema/indexdiff/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Render draws the outcome of a full comparison run.
func Render(report application.Report) (string, error) {
	return run(func(s styles) string {
		return renderRun(report, s)
	})
}

// RenderNames draws a titled list of index names, used for the divergent set
// and for differences read back from the cache.
func RenderNames(title string, names []string) (string, error) {
	return run(func(s styles) string {
		return renderNames(title, names, s)
	})
}

// RenderIndexList draws the cached index list of one account.
func RenderIndexList(account domain.AccountName, indices []domain.IndexSummary) (string, error) {
	return run(func(s styles) string {
		return renderIndexList(account, indices, s)
	})
}

func renderRun(report application.Report, s styles) string {
	lines := []string{
		s.title.Render(fmt.Sprintf("Index comparison: %s vs %s", report.Baseline, report.Candidate)),
		s.header.Render(fmt.Sprintf(
			"divergent: %d  downloaded: %d  cached: %d  failed: %d",
			len(report.Divergent),
			report.Count(domain.UnitDownloaded),
			report.Count(domain.UnitCached),
			report.Count(domain.UnitFailed),
		)),
	}

	if failures := failureLines(report.Units, s); len(failures) > 0 {
		lines = append(lines, s.section.Render(lipgloss.JoinVertical(lipgloss.Left, failures...)))
	}

	lines = append(lines, s.section.Render(renderNames("Genuinely different indices", report.Different, s)))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func failureLines(units []domain.UnitResult, s styles) []string {
	var lines []string
	for _, unit := range units {
		if unit.Outcome != domain.UnitFailed {
			continue
		}

		message := "unknown error"
		if unit.Err != nil {
			message = unit.Err.Error()
		}
		lines = append(lines, s.warning.Render("failed: ")+s.detail.Render(fmt.Sprintf("%s (%s)", unit.Key, message)))
	}

	return lines
}

func renderNames(title string, names []string, s styles) string {
	lines := []string{
		s.title.Render(title),
		s.header.Render(fmt.Sprintf("indices: %d", len(names))),
	}

	if len(names) == 0 {
		lines = append(lines, s.empty.Render("No indices."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, name := range names {
		lines = append(lines, "  "+s.index.Render(name))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderIndexList(account domain.AccountName, indices []domain.IndexSummary, s styles) string {
	lines := []string{
		s.title.Render(fmt.Sprintf("Indices of %s", account)),
		s.header.Render(fmt.Sprintf("indices: %d", len(indices))),
	}

	if len(indices) == 0 {
		lines = append(lines, s.empty.Render("No indices."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	width := 0
	for _, index := range indices {
		width = max(width, lipgloss.Width(index.Name))
	}

	nameColumn := lipgloss.NewStyle().Width(width + 2)
	lines = append(lines, s.header.Render(lipgloss.JoinHorizontal(
		lipgloss.Top,
		nameColumn.Render("name"),
		s.column.Render("entries"),
		s.column.Render("data size"),
		s.column.Render("file size"),
	)))
	for _, index := range indices {
		lines = append(lines, lipgloss.JoinHorizontal(
			lipgloss.Top,
			s.index.Inherit(nameColumn).Render(index.Name),
			s.column.Render(fmt.Sprintf("%d", index.Entries)),
			s.column.Render(formatBytes(index.DataSize)),
			s.column.Render(formatBytes(index.FileSize)),
		))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}

	value := float64(n)
	suffixes := []string{"KiB", "MiB", "GiB", "TiB"}
	suffix := ""
	for _, next := range suffixes {
		value /= unit
		suffix = next
		if value < unit {
			break
		}
	}

	return strings.TrimSuffix(strings.TrimSuffix(fmt.Sprintf("%.1f", value), "0"), ".") + " " + suffix
}
