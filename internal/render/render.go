// Package render prints a committed schedule for the terminal.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/derekprior/triplettes/internal/config"
	"github.com/derekprior/triplettes/internal/roster"
	"github.com/derekprior/triplettes/internal/schedule"
)

var (
	roundTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5B8DEF"))
	sectionTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#AAAAAA"))
	roundBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)
)

// Round renders the teams and matches of one round.
func Round(r schedule.Round, labels config.RoleLabels) string {
	var b strings.Builder

	b.WriteString(roundTitle.Render(fmt.Sprintf("Round %d", r.Number)))
	b.WriteString("\n\n")
	b.WriteString(sectionTitle.Render("Teams"))
	b.WriteString("\n")
	for _, t := range r.Teams {
		b.WriteString("  " + teamLine(t, labels) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(sectionTitle.Render("Matches"))
	for _, m := range r.Matches {
		fmt.Fprintf(&b, "\n  Court %d: Team %d vs Team %d  (%s vs %s)",
			m.Court, m.A.ID, m.B.ID, m.A.Primary.Name, m.B.Primary.Name)
	}

	return roundBox.Render(b.String())
}

func teamLine(t schedule.Team, labels config.RoleLabels) string {
	parts := make([]string, 0, len(roster.Roles))
	for _, role := range roster.Roles {
		parts = append(parts, fmt.Sprintf("%s: %s", labels.Label(role), t.Player(role).Name))
	}
	return fmt.Sprintf("Team %-3d %s", t.ID, strings.Join(parts, ", "))
}

// Tournament writes every round of a complete tournament to w.
func Tournament(w io.Writer, t *schedule.Tournament, labels config.RoleLabels) error {
	if !t.Complete() {
		return fmt.Errorf("tournament %s is incomplete", t.ID())
	}
	rounds := t.Rounds()
	blocks := make([]string, len(rounds))
	for i, r := range rounds {
		blocks[i] = Round(r, labels)
	}
	_, err := fmt.Fprintln(w, lipgloss.JoinVertical(lipgloss.Left, blocks...))
	return err
}
