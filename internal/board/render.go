package board

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dt-pm-tools/jsm-panel/internal/aggregate"
	"github.com/dt-pm-tools/jsm-panel/internal/config"
	"github.com/dt-pm-tools/jsm-panel/internal/status"
)

var (
	colorDone = lipgloss.AdaptiveColor{Light: "#86b300", Dark: "#c2d94c"}
	colorWait = lipgloss.AdaptiveColor{Light: "#f2ae49", Dark: "#ffb454"}
	colorWork = lipgloss.AdaptiveColor{Light: "#399ee6", Dark: "#59c2ff"}
	colorFail = lipgloss.AdaptiveColor{Light: "#f07171", Dark: "#f07178"}
	colorMute = lipgloss.AdaptiveColor{Light: "#828c99", Dark: "#6c7680"}

	titleStyle  = lipgloss.NewStyle().Bold(true)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(colorWork)
	mutedStyle  = lipgloss.NewStyle().Foreground(colorMute)
	errorStyle  = lipgloss.NewStyle().Foreground(colorFail)
)

const barWidth = 40

// RenderOptions control the terminal rendering.
type RenderOptions struct {
	Panel config.PanelConfig
	// Details adds descriptions, comments and attachments under each subtask.
	Details bool
}

// Render writes the board in its current state.
func Render(w io.Writer, m *Model, opts RenderOptions) error {
	switch m.State() {
	case Loading:
		_, err := fmt.Fprintln(w, mutedStyle.Render("Loading subtasks..."))
		return err
	case Failed:
		_, err := fmt.Fprintln(w, errorStyle.Render("Error: "+m.Err().Error()))
		return err
	}
	board, _ := m.Board()
	_, err := io.WriteString(w, RenderBoard(board, opts))
	return err
}

// RenderBoard formats a loaded board.
func RenderBoard(b *aggregate.Board, opts RenderOptions) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s %s\n", titleStyle.Render(b.MainIssue.Key), b.MainIssue.Summary)
	if b.Empty() {
		sb.WriteString(mutedStyle.Render("There are no sub-tasks associated with this request.") + "\n")
		return sb.String()
	}

	p := ComputeProgress(b.SubTasks)
	fmt.Fprintf(&sb, "%s %d%% Done\n\n", progressBar(p, barWidth), p.Percent())

	for _, g := range Groups(b.SubTasks) {
		fmt.Fprintf(&sb, "%s (%d)\n", headerStyle.Render(strings.ToUpper(g.Bucket.String())), len(g.SubTasks))
		for _, st := range g.SubTasks {
			writeSubTask(&sb, st, opts)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func writeSubTask(sb *strings.Builder, st aggregate.SubTask, opts RenderOptions) {
	badge := statusStyle(st.Category).Render("[" + status.Label(st.Status) + "]")
	fmt.Fprintf(sb, "  %s %s %s\n", titleStyle.Render(st.Key), st.Summary, badge)

	meta := "Team: " + Team(opts.Panel, st)
	if CanDecide(st) {
		meta += "  (approve/reject available)"
	}
	if !st.Enriched {
		meta += "  (details unavailable)"
	}
	sb.WriteString("    " + mutedStyle.Render(meta) + "\n")

	if !opts.Details {
		return
	}
	if st.Description != "" {
		for _, line := range strings.Split(strings.TrimRight(st.Description, "\n"), "\n") {
			sb.WriteString("    " + line + "\n")
		}
	}
	for _, a := range st.Attachments {
		fmt.Fprintf(sb, "    📎 %s %s\n", a.Filename, mutedStyle.Render("("+FormatFileSize(a.Size)+")"))
	}
	for _, c := range st.Comments {
		fmt.Fprintf(sb, "    💬 %s %s\n", titleStyle.Render(c.Author.DisplayName), mutedStyle.Render(c.Created))
		for _, line := range strings.Split(strings.TrimRight(c.BodyText, "\n"), "\n") {
			sb.WriteString("       " + line + "\n")
		}
	}
}

// progressBar draws one segment per Progress count, each sized by its own
// share of the total.
func progressBar(p Progress, width int) string {
	if p.Total == 0 {
		return mutedStyle.Render(strings.Repeat("░", width))
	}
	segments := []struct {
		count int
		style lipgloss.Style
		fill  string
	}{
		{p.Completed, lipgloss.NewStyle().Foreground(colorDone), "█"},
		{p.Waiting, lipgloss.NewStyle().Foreground(colorWait), "█"},
		{p.InProgress, lipgloss.NewStyle().Foreground(colorWork), "█"},
		{p.Neutral, mutedStyle, "░"},
	}

	// The rounding remainder goes to the largest segment so empty ones stay empty.
	cells := make([]int, len(segments))
	used, largest := 0, 0
	for i, seg := range segments {
		cells[i] = seg.count * width / p.Total
		used += cells[i]
		if seg.count > segments[largest].count {
			largest = i
		}
	}
	cells[largest] += width - used

	var sb strings.Builder
	for i, seg := range segments {
		if cells[i] > 0 {
			sb.WriteString(seg.style.Render(strings.Repeat(seg.fill, cells[i])))
		}
	}
	return sb.String()
}

func statusStyle(c status.Category) lipgloss.Style {
	switch c {
	case status.Completed:
		return lipgloss.NewStyle().Foreground(colorDone)
	case status.WaitingForApproval, status.WaitingForCustomer, status.Pending:
		return lipgloss.NewStyle().Foreground(colorWait)
	case status.InProgress:
		return lipgloss.NewStyle().Foreground(colorWork)
	case status.Reopened:
		return lipgloss.NewStyle().Foreground(colorFail)
	}
	return mutedStyle
}
