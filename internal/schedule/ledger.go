package schedule

// compositionLedger records every team composition committed so far.
// Entries are never removed.
type compositionLedger struct {
	used map[Composition]bool
}

func newCompositionLedger() *compositionLedger {
	return &compositionLedger{used: make(map[Composition]bool)}
}

// conflicts reports whether any of teams has been formed before.
func (l *compositionLedger) conflicts(teams []Team) bool {
	for _, t := range teams {
		if l.used[t.Composition()] {
			return true
		}
	}
	return false
}

func (l *compositionLedger) commit(teams []Team) {
	for _, t := range teams {
		l.used[t.Composition()] = true
	}
}

// validateAndCommit adds every composition in teams, or none of them if any
// one was already used.
func (l *compositionLedger) validateAndCommit(teams []Team) bool {
	if l.conflicts(teams) {
		return false
	}
	l.commit(teams)
	return true
}

func (l *compositionLedger) len() int { return len(l.used) }

// pairing is an unordered pair of primary-role player ids.
type pairing struct {
	a, b int
}

func normalizePairing(a, b int) pairing {
	if a > b {
		a, b = b, a
	}
	return pairing{a, b}
}

func matchPairing(a, b Team) pairing {
	return normalizePairing(a.Primary.ID, b.Primary.ID)
}

// pairingHistory records every primary-role pairing ever scheduled.
type pairingHistory struct {
	played map[pairing]bool
}

func newPairingHistory() *pairingHistory {
	return &pairingHistory{played: make(map[pairing]bool)}
}

func (h *pairingHistory) has(p pairing) bool {
	return h.played[p]
}

func (h *pairingHistory) commit(pending []pairing) {
	for _, p := range pending {
		h.played[p] = true
	}
}

func (h *pairingHistory) len() int { return len(h.played) }
