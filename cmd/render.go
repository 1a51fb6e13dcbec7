package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/scatterbrainlabs/scatterbrain/types"
)

var (
	styleHeading   = lipgloss.NewStyle().Bold(true)
	styleIndex     = lipgloss.NewStyle().Faint(true)
	styleCompleted = lipgloss.NewStyle().Strikethrough(true).Faint(true)
	styleCurrent   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	styleReminder  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	styleFollowup  = lipgloss.NewStyle().Faint(true)
)

// renderTree renders the distilled-context tree snapshot, one node per
// line, current node highlighted.
func renderTree(nodes []types.TreeNode) string {
	var b strings.Builder
	writeTreeNodes(&b, nodes, 0)
	if b.Len() == 0 {
		return styleIndex.Render("(no tasks yet)") + "\n"
	}
	return b.String()
}

func writeTreeNodes(b *strings.Builder, nodes []types.TreeNode, depth int) {
	for _, node := range nodes {
		line := fmt.Sprintf("%s[%s] %s", strings.Repeat("  ", depth), node.Index, node.Description)
		switch {
		case node.IsCurrent:
			line = styleCurrent.Render("> " + line)
		case node.Completed:
			line = "  " + styleCompleted.Render(line+" (done)")
		default:
			line = "  " + line
		}
		b.WriteString(line + "\n")
		writeTreeNodes(b, node.Children, depth+1)
	}
}

// renderContext renders the full distilled context: tree, current task,
// level ladder, and the history newest-first.
func renderContext(ctx *types.DistilledContext) string {
	var b strings.Builder
	b.WriteString(styleHeading.Render("Task tree") + "\n")
	b.WriteString(renderTree(ctx.TaskTree))

	if ctx.CurrentTask != nil {
		b.WriteString("\n" + styleHeading.Render("Current task") + "\n")
		fmt.Fprintf(&b, "  [%s] %s\n", ctx.CurrentTask.Index, ctx.CurrentTask.Description)
	}

	b.WriteString("\n" + styleHeading.Render("Levels") + "\n")
	for i, level := range ctx.Levels {
		fmt.Fprintf(&b, "  %d. %s — %s\n", i, level.Name, level.Focus)
	}

	if len(ctx.TransitionHistory) > 0 {
		b.WriteString("\n" + styleHeading.Render("History (newest first)") + "\n")
		for i := len(ctx.TransitionHistory) - 1; i >= 0; i-- {
			tr := ctx.TransitionHistory[i]
			line := fmt.Sprintf("  %s  %s", tr.Timestamp.Format("15:04:05"), tr.Action)
			if tr.Details != "" {
				line += " " + styleIndex.Render(tr.Details)
			}
			b.WriteString(line + "\n")
		}
	}
	return b.String()
}

// printEnvelope prints the headline plus the envelope's reminder and
// follow-up suggestions.
func printEnvelope[T any](headline string, resp *types.PlanResponse[T]) {
	if headline != "" {
		fmt.Println(headline)
	}
	if resp.Reminder != "" {
		fmt.Println(styleReminder.Render("Reminder: " + resp.Reminder))
	}
	for _, followup := range resp.SuggestedFollowups {
		fmt.Println(styleFollowup.Render("  next: " + followup))
	}
}
