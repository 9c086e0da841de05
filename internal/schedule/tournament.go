package schedule

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/derekprior/triplettes/internal/roster"
)

// DefaultMaxAttempts bounds the attempts spent on a single round.
const DefaultMaxAttempts = 1000

// CommitMode controls when a round's compositions and pairings enter the
// tournament-wide history.
type CommitMode int

const (
	// Speculative commits compositions as soon as they validate and
	// pairings after every match pass, even when the attempt then fails.
	Speculative CommitMode = iota
	// Staged holds both back until the round commits. Failed attempts
	// leave no trace, which changes which schedules are reachable.
	Staged
)

func (m CommitMode) String() string {
	switch m {
	case Speculative:
		return "speculative"
	case Staged:
		return "staged"
	default:
		return fmt.Sprintf("commit_mode(%d)", int(m))
	}
}

// ParseCommitMode returns a CommitMode by name.
func ParseCommitMode(name string) (CommitMode, error) {
	switch name {
	case "", "speculative":
		return Speculative, nil
	case "staged":
		return Staged, nil
	default:
		return 0, fmt.Errorf("unknown commit mode: %q", name)
	}
}

// NumRoundsFor is the fixed round-count policy keyed off the team count.
func NumRoundsFor(numTeams int) int {
	switch numTeams {
	case 8:
		return 4
	case 10:
		return 5
	default:
		return 6
	}
}

// rejectionReason categorizes why an attempt was discarded.
type rejectionReason int

const (
	rejectCompositionReused rejectionReason = iota
	rejectCourtsUnfilled
)

func (r rejectionReason) String() string {
	switch r {
	case rejectCompositionReused:
		return "composition reused"
	case rejectCourtsUnfilled:
		return "courts unfilled"
	default:
		return "unknown"
	}
}

// ErrRoundExhausted is matched by every ExhaustedError.
var ErrRoundExhausted = errors.New("round exhausted")

// ExhaustedError reports a round that could not be built within the attempt
// cap. The tournament cannot be completed.
type ExhaustedError struct {
	Round      int
	Attempts   int
	Rejections map[string]int
}

func (e *ExhaustedError) Error() string {
	msg := fmt.Sprintf("could not schedule round %d after %d attempts", e.Round, e.Attempts)
	reasons := make([]string, 0, len(e.Rejections))
	for r := range e.Rejections {
		reasons = append(reasons, r)
	}
	sort.Strings(reasons)
	for _, r := range reasons {
		msg += fmt.Sprintf("; %s: %d", r, e.Rejections[r])
	}
	return msg
}

func (e *ExhaustedError) Is(target error) bool {
	return target == ErrRoundExhausted
}

// Options tunes a Tournament. The zero value is usable.
type Options struct {
	MaxAttempts int        // per round; 0 means DefaultMaxAttempts
	CommitMode  CommitMode // defaults to Speculative
	Rand        *rand.Rand // nil means seeded from the clock
	Logger      *zap.Logger
}

// Tournament owns the schedule and every piece of cross-round state for one
// run. Separate Tournaments share nothing.
type Tournament struct {
	id          uuid.UUID
	roster      *roster.Roster
	maxAttempts int
	commitMode  CommitMode
	rng         *rand.Rand
	logger      *zap.Logger

	numTeams  int
	numCourts int
	numRounds int

	rounds       []Round
	compositions *compositionLedger
	pairings     *pairingHistory
	ran          bool
}

// New validates the roster and options and returns a Tournament ready to Run.
func New(r *roster.Roster, opts Options) (*Tournament, error) {
	if r == nil {
		return nil, &roster.ConfigError{Reason: "no roster"}
	}
	if r.NumCourts() == 0 {
		return nil, &roster.ConfigError{Reason: "zero courts"}
	}
	if opts.MaxAttempts < 0 {
		return nil, fmt.Errorf("max attempts must be positive, got %d", opts.MaxAttempts)
	}
	if opts.MaxAttempts == 0 {
		opts.MaxAttempts = DefaultMaxAttempts
	}
	if opts.CommitMode != Speculative && opts.CommitMode != Staged {
		return nil, fmt.Errorf("unknown commit mode %d", int(opts.CommitMode))
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	id := uuid.New()
	return &Tournament{
		id:           id,
		roster:       r,
		maxAttempts:  opts.MaxAttempts,
		commitMode:   opts.CommitMode,
		rng:          opts.Rand,
		logger:       opts.Logger.With(zap.String("tournament", id.String())),
		numTeams:     r.NumTeams(),
		numCourts:    r.NumCourts(),
		numRounds:    NumRoundsFor(r.NumTeams()),
		compositions: newCompositionLedger(),
		pairings:     newPairingHistory(),
	}, nil
}

// Run plays every round in order and stops at the first one that exhausts
// its attempts. A nil error means the whole schedule committed. Rounds
// committed before a failure stay in history but must not be published.
func (t *Tournament) Run() error {
	if t.ran {
		return errors.New("tournament has already been run")
	}
	t.ran = true

	t.logger.Info("Starting tournament",
		zap.Int("players", t.roster.Len()),
		zap.Int("teams", t.numTeams),
		zap.Int("courts", t.numCourts),
		zap.Int("rounds", t.numRounds),
		zap.Stringer("commit_mode", t.commitMode))

	for n := 1; n <= t.numRounds; n++ {
		if err := t.playRound(n); err != nil {
			t.logger.Warn("Tournament cannot be completed", zap.Error(err))
			return err
		}
	}
	return nil
}

// playRound retries attempts until one commits or the cap is reached.
func (t *Tournament) playRound(number int) error {
	rejections := make(map[rejectionReason]int)

	for attempt := 1; attempt <= t.maxAttempts; attempt++ {
		round, reason, ok := t.attempt()
		if !ok {
			rejections[reason]++
			t.logger.Debug("Attempt rejected",
				zap.Int("round", number),
				zap.Int("attempt", attempt),
				zap.Stringer("reason", reason))
			continue
		}

		round.Number = number
		round.Attempts = attempt
		t.rounds = append(t.rounds, round)
		t.logger.Info("Round committed",
			zap.Int("round", number),
			zap.Int("attempts", attempt),
			zap.Int("compositions", t.compositions.len()),
			zap.Int("pairings", t.pairings.len()))
		return nil
	}

	counts := make(map[string]int, len(rejections))
	for r, n := range rejections {
		counts[r.String()] = n
	}
	return &ExhaustedError{Round: number, Attempts: t.maxAttempts, Rejections: counts}
}

// attempt runs team assembly, composition validation and match scheduling
// once. Side effects on the ledgers depend on the commit mode.
func (t *Tournament) attempt() (Round, rejectionReason, bool) {
	teams := assembleTeams(t.roster, t.rng)

	if t.commitMode == Speculative {
		if !t.compositions.validateAndCommit(teams) {
			return Round{}, rejectCompositionReused, false
		}
		matches, pending := scheduleMatches(teams, t.pairings, t.numCourts, t.rng)
		t.pairings.commit(pending)
		if len(matches) != t.numCourts {
			return Round{}, rejectCourtsUnfilled, false
		}
		return Round{Teams: teams, Matches: matches}, 0, true
	}

	if t.compositions.conflicts(teams) {
		return Round{}, rejectCompositionReused, false
	}
	matches, pending := scheduleMatches(teams, t.pairings, t.numCourts, t.rng)
	if len(matches) != t.numCourts {
		return Round{}, rejectCourtsUnfilled, false
	}
	t.compositions.commit(teams)
	t.pairings.commit(pending)
	return Round{Teams: teams, Matches: matches}, 0, true
}

// ID identifies this run in logs and exports.
func (t *Tournament) ID() uuid.UUID { return t.id }

// Roster returns the players being scheduled.
func (t *Tournament) Roster() *roster.Roster { return t.roster }

func (t *Tournament) NumTeams() int  { return t.numTeams }
func (t *Tournament) NumCourts() int { return t.numCourts }
func (t *Tournament) NumRounds() int { return t.numRounds }

// Rounds returns a copy of the committed rounds in order.
func (t *Tournament) Rounds() []Round {
	out := make([]Round, len(t.rounds))
	for i, r := range t.rounds {
		out[i] = r.clone()
	}
	return out
}

// Complete reports whether every round committed. Only a complete
// tournament may be exported or displayed.
func (t *Tournament) Complete() bool {
	return t.ran && len(t.rounds) == t.numRounds
}

// TotalAttempts sums attempts over committed rounds.
func (t *Tournament) TotalAttempts() int {
	total := 0
	for _, r := range t.rounds {
		total += r.Attempts
	}
	return total
}
