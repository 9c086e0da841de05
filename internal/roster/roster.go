package roster

import (
	"errors"
	"fmt"
)

// Role is the fixed specialization a player holds for the whole tournament.
type Role int

const (
	Primary Role = iota
	Secondary
	Tertiary
)

// Roles lists every role in team order.
var Roles = []Role{Primary, Secondary, Tertiary}

func (r Role) String() string {
	switch r {
	case Primary:
		return "primary"
	case Secondary:
		return "secondary"
	case Tertiary:
		return "tertiary"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// ParseRole is the inverse of Role.String.
func ParseRole(s string) (Role, error) {
	for _, r := range Roles {
		if r.String() == s {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown role %q", s)
}

// Player is immutable once created.
type Player struct {
	ID   int
	Name string
	Role Role
}

func (p Player) String() string {
	return fmt.Sprintf("%s (%s)", p.Name, p.Role)
}

// ErrInvalidRoster is matched by every ConfigError.
var ErrInvalidRoster = errors.New("invalid roster")

// ConfigError reports a roster that cannot be scheduled at all. It is
// returned before any round is attempted.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid roster: %s", e.Reason)
}

func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidRoster
}

func configErrorf(format string, args ...any) error {
	return &ConfigError{Reason: fmt.Sprintf(format, args...)}
}

// Roster is the immutable set of players for one tournament, partitioned by role.
type Roster struct {
	players []Player
	byRole  [3][]Player
}

// New builds a roster from explicit players. Each role must hold the same
// number of players and there must be enough players for at least one court.
func New(players []Player) (*Roster, error) {
	r := &Roster{players: make([]Player, len(players))}
	copy(r.players, players)

	seen := make(map[int]bool)
	for _, p := range players {
		if p.Role < Primary || p.Role > Tertiary {
			return nil, configErrorf("player %q has unknown role %d", p.Name, int(p.Role))
		}
		if seen[p.ID] {
			return nil, configErrorf("duplicate player id %d", p.ID)
		}
		seen[p.ID] = true
		r.byRole[p.Role] = append(r.byRole[p.Role], p)
	}

	n := len(r.byRole[Primary])
	for _, role := range Roles[1:] {
		if len(r.byRole[role]) != n {
			return nil, configErrorf("role groups must be equal: %d primary, %d %s",
				n, len(r.byRole[role]), role)
		}
	}
	if n/2 == 0 {
		return nil, configErrorf("%d players is not enough for a single court", len(players))
	}
	return r, nil
}

// Build generates a roster of playerCount players with deterministic names.
// Player ids are assigned primary block first, then secondary, then tertiary.
func Build(playerCount int) (*Roster, error) {
	if playerCount <= 0 || playerCount%6 != 0 {
		return nil, configErrorf("player count must be a positive multiple of 6, got %d", playerCount)
	}
	perRole := playerCount / 3
	width := len(fmt.Sprint(perRole))
	if width < 2 {
		width = 2
	}

	players := make([]Player, 0, playerCount)
	id := 1
	for _, role := range Roles {
		for i := 1; i <= perRole; i++ {
			players = append(players, Player{
				ID:   id,
				Name: fmt.Sprintf("%s-%0*d", role, width, i),
				Role: role,
			})
			id++
		}
	}
	return New(players)
}

// FromNames builds a roster from per-role name lists, numbering ids in the
// same block order as Build.
func FromNames(primary, secondary, tertiary []string) (*Roster, error) {
	var players []Player
	id := 1
	for i, names := range [][]string{primary, secondary, tertiary} {
		for _, name := range names {
			players = append(players, Player{ID: id, Name: name, Role: Roles[i]})
			id++
		}
	}
	return New(players)
}

// Players returns a copy of all players in input order.
func (r *Roster) Players() []Player {
	out := make([]Player, len(r.players))
	copy(out, r.players)
	return out
}

// ByRole returns a copy of the players holding role.
func (r *Roster) ByRole(role Role) []Player {
	out := make([]Player, len(r.byRole[role]))
	copy(out, r.byRole[role])
	return out
}

// Len is the total number of players.
func (r *Roster) Len() int { return len(r.players) }

// NumTeams is the number of teams formed each round.
func (r *Roster) NumTeams() int { return len(r.byRole[Primary]) }

// NumCourts is the number of matches played each round.
func (r *Roster) NumCourts() int { return r.NumTeams() / 2 }

// Lookup finds a player by name.
func (r *Roster) Lookup(name string) (Player, bool) {
	for _, p := range r.players {
		if p.Name == name {
			return p, true
		}
	}
	return Player{}, false
}
