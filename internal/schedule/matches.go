package schedule

import "math/rand"

type teamPair struct {
	a, b int // indices into the round's teams
}

// scheduleMatches pairs teams into at most numCourts matches without
// repeating any primary pairing found in history. It returns the matches it
// accepted and the pairings those matches introduce; the caller decides
// when the pairings are committed.
//
// A greedy pass walks every team pair in random order. Teams it leaves
// unused are then popped two at a time from the tail; a popped pair whose
// primaries already met is dropped, so this pass can strand teams and leave
// the round short of numCourts.
func scheduleMatches(teams []Team, history *pairingHistory, numCourts int, rng *rand.Rand) ([]Match, []pairing) {
	pairs := make([]teamPair, 0, len(teams)*(len(teams)-1)/2)
	for i := 0; i < len(teams); i++ {
		for j := i + 1; j < len(teams); j++ {
			pairs = append(pairs, teamPair{i, j})
		}
	}
	rng.Shuffle(len(pairs), func(i, j int) {
		pairs[i], pairs[j] = pairs[j], pairs[i]
	})

	var matches []Match
	var pending []pairing
	used := make(map[int]bool)

	accept := func(a, b Team) {
		matches = append(matches, Match{Court: len(matches) + 1, A: a, B: b})
		pending = append(pending, matchPairing(a, b))
	}

	for _, p := range pairs {
		if len(matches) == numCourts {
			break
		}
		a, b := teams[p.a], teams[p.b]
		if used[a.ID] || used[b.ID] {
			continue
		}
		if history.has(matchPairing(a, b)) {
			continue
		}
		accept(a, b)
		used[a.ID] = true
		used[b.ID] = true
	}

	var remaining []Team
	for _, t := range teams {
		if !used[t.ID] {
			remaining = append(remaining, t)
		}
	}
	for len(remaining) >= 2 && len(matches) < numCourts {
		a := remaining[len(remaining)-1]
		b := remaining[len(remaining)-2]
		remaining = remaining[:len(remaining)-2]
		// Checked against history only, not against this pass.
		if !history.has(matchPairing(a, b)) {
			accept(a, b)
		}
	}

	return matches, pending
}
