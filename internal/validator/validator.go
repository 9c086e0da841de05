package validator

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/derekprior/triplettes/internal/excel"
	"github.com/derekprior/triplettes/internal/roster"
	"github.com/derekprior/triplettes/internal/schedule"
)

// Violation represents a constraint violation found during validation.
type Violation struct {
	Round   int    // 0 when the violation spans the whole tournament
	Type    string // "error" or "warning"
	Message string
}

// Check verifies a schedule against the tournament rules: round count,
// team and match counts, full participation, role slots, and the two
// tournament-wide no-repeat rules.
func Check(r *roster.Roster, rounds []schedule.Round) []Violation {
	var violations []Violation

	violations = append(violations, checkRoundCount(r, rounds)...)
	for _, round := range rounds {
		violations = append(violations, checkTeams(r, round)...)
		violations = append(violations, checkMatches(r, round)...)
	}
	violations = append(violations, checkCompositions(rounds)...)
	violations = append(violations, checkPrimaryRematches(rounds)...)

	return violations
}

// Errors counts violations of type "error".
func Errors(violations []Violation) int {
	n := 0
	for _, v := range violations {
		if v.Type == "error" {
			n++
		}
	}
	return n
}

// Validate reads an exported workbook and checks it against the roster.
func Validate(path string, r *roster.Roster) ([]Violation, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	rounds, err := readRounds(f, r)
	if err != nil {
		return nil, fmt.Errorf("reading rounds: %w", err)
	}
	return Check(r, rounds), nil
}

func checkRoundCount(r *roster.Roster, rounds []schedule.Round) []Violation {
	want := schedule.NumRoundsFor(r.NumTeams())
	if len(rounds) != want {
		return []Violation{{
			Type:    "error",
			Message: fmt.Sprintf("%d rounds scheduled, want %d for %d teams", len(rounds), want, r.NumTeams()),
		}}
	}
	return nil
}

func checkTeams(r *roster.Roster, round schedule.Round) []Violation {
	var violations []Violation
	errorf := func(format string, args ...any) {
		violations = append(violations, Violation{
			Round:   round.Number,
			Type:    "error",
			Message: fmt.Sprintf("round %d: ", round.Number) + fmt.Sprintf(format, args...),
		})
	}

	if len(round.Teams) != r.NumTeams() {
		errorf("%d teams, want %d", len(round.Teams), r.NumTeams())
	}

	counts := make(map[int]int)
	for _, t := range round.Teams {
		for _, role := range roster.Roles {
			p := t.Player(role)
			if p.Role != role {
				errorf("team %d has %s in the %s slot", t.ID, p.Name, role)
			}
			counts[p.ID]++
		}
	}
	for _, p := range r.Players() {
		switch counts[p.ID] {
		case 1:
		case 0:
			errorf("%s does not play", p.Name)
		default:
			errorf("%s is on %d teams", p.Name, counts[p.ID])
		}
	}
	return violations
}

func checkMatches(r *roster.Roster, round schedule.Round) []Violation {
	var violations []Violation

	if len(round.Matches) != r.NumCourts() {
		violations = append(violations, Violation{
			Round:   round.Number,
			Type:    "error",
			Message: fmt.Sprintf("round %d: %d matches, want %d", round.Number, len(round.Matches), r.NumCourts()),
		})
	}

	playing := make(map[int]int)
	for _, m := range round.Matches {
		playing[m.A.ID]++
		playing[m.B.ID]++
	}
	var ids []int
	for id := range playing {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		if playing[id] > 1 {
			violations = append(violations, Violation{
				Round:   round.Number,
				Type:    "error",
				Message: fmt.Sprintf("round %d: team %d plays %d matches", round.Number, id, playing[id]),
			})
		}
	}

	if idle := len(round.Teams) - len(playing); idle > 0 && len(round.Teams)%2 == 1 {
		violations = append(violations, Violation{
			Round:   round.Number,
			Type:    "warning",
			Message: fmt.Sprintf("round %d: %d team(s) sit out", round.Number, idle),
		})
	}
	return violations
}

func checkCompositions(rounds []schedule.Round) []Violation {
	first := make(map[schedule.Composition]int)
	var violations []Violation
	for _, round := range rounds {
		for _, t := range round.Teams {
			c := t.Composition()
			if prev, ok := first[c]; ok {
				violations = append(violations, Violation{
					Round: round.Number,
					Type:  "error",
					Message: fmt.Sprintf("team %s/%s/%s already formed in round %d, again in round %d",
						t.Primary.Name, t.Secondary.Name, t.Tertiary.Name, prev, round.Number),
				})
				continue
			}
			first[c] = round.Number
		}
	}
	return violations
}

func checkPrimaryRematches(rounds []schedule.Round) []Violation {
	type matchup struct{ a, b string }
	first := make(map[matchup]int)
	var violations []Violation
	for _, round := range rounds {
		for _, m := range round.Matches {
			a, b := m.A.Primary.Name, m.B.Primary.Name
			if a > b {
				a, b = b, a
			}
			mk := matchup{a, b}
			if prev, ok := first[mk]; ok {
				violations = append(violations, Violation{
					Round:   round.Number,
					Type:    "error",
					Message: fmt.Sprintf("%s vs %s rematch: rounds %d and %d", a, b, prev, round.Number),
				})
				continue
			}
			first[mk] = round.Number
		}
	}
	return violations
}

// readRounds rebuilds the schedule from the per-round sheets, resolving
// player names against the roster.
func readRounds(f *excelize.File, r *roster.Roster) ([]schedule.Round, error) {
	var rounds []schedule.Round
	for n := 1; ; n++ {
		idx, err := f.GetSheetIndex(excel.RoundSheet(n))
		if err != nil {
			return nil, err
		}
		if idx < 0 {
			break
		}
		round, err := readRound(f, r, n)
		if err != nil {
			return nil, err
		}
		rounds = append(rounds, round)
	}
	if len(rounds) == 0 {
		return nil, fmt.Errorf("no round sheets found")
	}
	return rounds, nil
}

func readRound(f *excelize.File, r *roster.Roster, n int) (schedule.Round, error) {
	sheet := excel.RoundSheet(n)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return schedule.Round{}, fmt.Errorf("reading %s: %w", sheet, err)
	}

	round := schedule.Round{Number: n}
	for i, row := range rows {
		if i == 0 || len(row) == 0 || row[0] == "" {
			continue
		}
		a, err := parseTeam(r, row, 1)
		if err != nil {
			return round, fmt.Errorf("%s row %d: %w", sheet, i+1, err)
		}
		round.Teams = append(round.Teams, a)

		if row[0] == excel.ByeCourt {
			continue
		}
		court, err := strconv.Atoi(row[0])
		if err != nil {
			return round, fmt.Errorf("%s row %d: invalid court %q", sheet, i+1, row[0])
		}
		b, err := parseTeam(r, row, 5)
		if err != nil {
			return round, fmt.Errorf("%s row %d: %w", sheet, i+1, err)
		}
		round.Teams = append(round.Teams, b)
		round.Matches = append(round.Matches, schedule.Match{Court: court, A: a, B: b})
	}

	sort.Slice(round.Teams, func(i, j int) bool {
		return round.Teams[i].ID < round.Teams[j].ID
	})
	return round, nil
}

// parseTeam reads a team id followed by one player name per role, starting
// at column index col.
func parseTeam(r *roster.Roster, row []string, col int) (schedule.Team, error) {
	if len(row) < col+4 {
		return schedule.Team{}, fmt.Errorf("expected %d columns, got %d", col+4, len(row))
	}
	id, err := strconv.Atoi(row[col])
	if err != nil {
		return schedule.Team{}, fmt.Errorf("invalid team id %q", row[col])
	}

	var players [3]roster.Player
	for i := range roster.Roles {
		name := row[col+1+i]
		p, ok := r.Lookup(name)
		if !ok {
			return schedule.Team{}, fmt.Errorf("unknown player %q", name)
		}
		players[i] = p
	}
	return schedule.Team{ID: id, Primary: players[0], Secondary: players[1], Tertiary: players[2]}, nil
}
