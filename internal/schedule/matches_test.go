package schedule

import (
	"testing"

	"github.com/derekprior/triplettes/internal/roster"
)

func TestAssembleTeams(t *testing.T) {
	r := mustRoster(t, 30)
	rng := seeded(5)

	for i := 0; i < 20; i++ {
		teams := assembleTeams(r, rng)
		if len(teams) != 10 {
			t.Fatalf("got %d teams, want 10", len(teams))
		}
		seen := make(map[int]bool)
		for idx, team := range teams {
			if team.ID != idx+1 {
				t.Errorf("team %d has id %d", idx, team.ID)
			}
			for _, role := range roster.Roles {
				p := team.Player(role)
				if p.Role != role {
					t.Errorf("team %d holds %s in the %s slot", team.ID, p, role)
				}
				if seen[p.ID] {
					t.Errorf("player %s placed twice", p.Name)
				}
				seen[p.ID] = true
			}
		}
		if len(seen) != 30 {
			t.Errorf("%d players placed, want 30", len(seen))
		}
	}
}

func TestAssembleTeamsShuffles(t *testing.T) {
	r := mustRoster(t, 36)
	rng := seeded(1)
	first := assembleTeams(r, rng)
	for i := 0; i < 10; i++ {
		next := assembleTeams(r, rng)
		for j := range next {
			if next[j].Composition() != first[j].Composition() {
				return
			}
		}
	}
	t.Error("eleven assemblies produced identical teams")
}

func TestCompositionLedger(t *testing.T) {
	team := func(id, p, s, x int) Team {
		return Team{
			ID:        id,
			Primary:   roster.Player{ID: p, Role: roster.Primary},
			Secondary: roster.Player{ID: s, Role: roster.Secondary},
			Tertiary:  roster.Player{ID: x, Role: roster.Tertiary},
		}
	}

	l := newCompositionLedger()
	round1 := []Team{team(1, 1, 3, 5), team(2, 2, 4, 6)}
	if !l.validateAndCommit(round1) {
		t.Fatal("first round rejected")
	}

	t.Run("any reuse rejects the whole batch", func(t *testing.T) {
		candidate := []Team{team(1, 1, 4, 5), team(2, 2, 4, 6)}
		if l.validateAndCommit(candidate) {
			t.Fatal("candidate with a reused composition accepted")
		}
		if l.used[Composition{1, 4, 5}] {
			t.Error("fresh composition from a rejected batch was committed")
		}
		if l.len() != 2 {
			t.Errorf("ledger len = %d, want 2", l.len())
		}
	})

	t.Run("round-scoped id is not part of the key", func(t *testing.T) {
		if !l.conflicts([]Team{team(7, 2, 4, 6)}) {
			t.Error("same players under another team id not detected")
		}
	})

	t.Run("same players in other roles is a new composition", func(t *testing.T) {
		if l.conflicts([]Team{team(1, 1, 5, 3)}) {
			t.Error("swapped secondary/tertiary treated as reuse")
		}
	})

	t.Run("fresh batch commits every composition", func(t *testing.T) {
		candidate := []Team{team(1, 1, 4, 6), team(2, 2, 3, 5)}
		if !l.validateAndCommit(candidate) {
			t.Fatal("fresh batch rejected")
		}
		if l.len() != 4 {
			t.Errorf("ledger len = %d, want 4", l.len())
		}
	})
}

func TestNormalizePairing(t *testing.T) {
	if normalizePairing(5, 2) != normalizePairing(2, 5) {
		t.Error("pairing is order sensitive")
	}
	if p := normalizePairing(9, 4); p.a != 4 || p.b != 9 {
		t.Errorf("normalizePairing(9, 4) = %+v", p)
	}
}

// teamsWithPrimaries builds one team per primary id; other roles are filler.
func teamsWithPrimaries(ids ...int) []Team {
	teams := make([]Team, len(ids))
	for i, id := range ids {
		teams[i] = Team{
			ID:        i + 1,
			Primary:   roster.Player{ID: id, Role: roster.Primary},
			Secondary: roster.Player{ID: 100 + id, Role: roster.Secondary},
			Tertiary:  roster.Player{ID: 200 + id, Role: roster.Tertiary},
		}
	}
	return teams
}

func TestScheduleMatches(t *testing.T) {
	t.Run("empty history fills every court", func(t *testing.T) {
		teams := teamsWithPrimaries(1, 2, 3, 4, 5, 6, 7, 8)
		for seed := int64(0); seed < 20; seed++ {
			matches, pending := scheduleMatches(teams, newPairingHistory(), 4, seeded(seed))
			if len(matches) != 4 {
				t.Fatalf("seed %d: %d matches, want 4", seed, len(matches))
			}
			if len(pending) != 4 {
				t.Fatalf("seed %d: %d pending pairings, want 4", seed, len(pending))
			}
			used := make(map[int]bool)
			for i, m := range matches {
				if m.Court != i+1 {
					t.Errorf("match %d on court %d", i, m.Court)
				}
				if used[m.A.ID] || used[m.B.ID] {
					t.Errorf("team reused in %s", m)
				}
				used[m.A.ID], used[m.B.ID] = true, true
			}
		}
	})

	t.Run("pairings already played are skipped", func(t *testing.T) {
		h := newPairingHistory()
		h.commit([]pairing{normalizePairing(1, 2), normalizePairing(3, 4)})
		teams := teamsWithPrimaries(1, 2, 3, 4)
		for seed := int64(0); seed < 20; seed++ {
			matches, _ := scheduleMatches(teams, h, 2, seeded(seed))
			for _, m := range matches {
				if h.has(matchPairing(m.A, m.B)) {
					t.Fatalf("seed %d: rematch %s", seed, m)
				}
			}
			if len(matches) != 2 {
				t.Fatalf("seed %d: %d matches, want 2", seed, len(matches))
			}
		}
	})

	t.Run("fallback drops colliding teams", func(t *testing.T) {
		// Only 1-2 is still open. Greedy takes it; the fallback pops 3 and 4,
		// whose pairing is spent, and drops them.
		h := newPairingHistory()
		h.commit([]pairing{
			normalizePairing(1, 3), normalizePairing(1, 4),
			normalizePairing(2, 3), normalizePairing(2, 4),
			normalizePairing(3, 4),
		})
		matches, pending := scheduleMatches(teamsWithPrimaries(1, 2, 3, 4), h, 2, seeded(2))
		if len(matches) != 1 {
			t.Fatalf("%d matches, want 1", len(matches))
		}
		if len(pending) != 1 || pending[0] != normalizePairing(1, 2) {
			t.Errorf("pending = %v, want [{1 2}]", pending)
		}
	})

	t.Run("no open pairing yields nothing", func(t *testing.T) {
		h := newPairingHistory()
		h.commit([]pairing{normalizePairing(1, 2)})
		matches, pending := scheduleMatches(teamsWithPrimaries(1, 2), h, 1, seeded(0))
		if len(matches) != 0 || len(pending) != 0 {
			t.Errorf("got %d matches and %d pending, want none", len(matches), len(pending))
		}
	})

	t.Run("odd team count leaves one team out", func(t *testing.T) {
		matches, _ := scheduleMatches(teamsWithPrimaries(1, 2, 3), newPairingHistory(), 1, seeded(4))
		if len(matches) != 1 {
			t.Errorf("%d matches, want 1", len(matches))
		}
	})

	t.Run("history is not modified", func(t *testing.T) {
		h := newPairingHistory()
		scheduleMatches(teamsWithPrimaries(1, 2, 3, 4), h, 2, seeded(9))
		if h.len() != 0 {
			t.Errorf("history len = %d, want 0", h.len())
		}
	})
}
