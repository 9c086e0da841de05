package schedule

import (
	"fmt"
	"math/rand"

	"github.com/derekprior/triplettes/internal/roster"
)

// Composition identifies a team by who plays which role. It is the key for
// the no-repeat-team rule; the round-scoped team id plays no part in it.
type Composition [3]int

// Team is one player per role plus an id that is unique only within its round.
type Team struct {
	ID        int
	Primary   roster.Player
	Secondary roster.Player
	Tertiary  roster.Player
}

// Composition returns the (primary, secondary, tertiary) id triple.
func (t Team) Composition() Composition {
	return Composition{t.Primary.ID, t.Secondary.ID, t.Tertiary.ID}
}

// Player returns the team member holding role.
func (t Team) Player(role roster.Role) roster.Player {
	switch role {
	case roster.Secondary:
		return t.Secondary
	case roster.Tertiary:
		return t.Tertiary
	default:
		return t.Primary
	}
}

func (t Team) String() string {
	return fmt.Sprintf("Team %d: [%s, %s, %s]", t.ID, t.Primary.Name, t.Secondary.Name, t.Tertiary.Name)
}

// Match pairs two teams of the same round on a court.
type Match struct {
	Court int
	A     Team
	B     Team
}

func (m Match) String() string {
	return fmt.Sprintf("%s vs %s", m.A, m.B)
}

// Round is a committed set of teams and the matches drawn from them.
type Round struct {
	Number   int
	Teams    []Team
	Matches  []Match
	Attempts int // attempts needed before this round committed
}

func (r Round) clone() Round {
	out := r
	out.Teams = append([]Team(nil), r.Teams...)
	out.Matches = append([]Match(nil), r.Matches...)
	return out
}

// assembleTeams shuffles each role independently and zips them by position.
// Every player lands in exactly one team.
func assembleTeams(r *roster.Roster, rng *rand.Rand) []Team {
	var shuffled [3][]roster.Player
	for _, role := range roster.Roles {
		players := r.ByRole(role)
		rng.Shuffle(len(players), func(i, j int) {
			players[i], players[j] = players[j], players[i]
		})
		shuffled[role] = players
	}

	teams := make([]Team, r.NumTeams())
	for i := range teams {
		teams[i] = Team{
			ID:        i + 1,
			Primary:   shuffled[roster.Primary][i],
			Secondary: shuffled[roster.Secondary][i],
			Tertiary:  shuffled[roster.Tertiary][i],
		}
	}
	return teams
}
