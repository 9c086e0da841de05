// Package simulate estimates how often the randomized scheduler completes a
// tournament for a given roster and settings.
package simulate

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"runtime"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/derekprior/triplettes/internal/roster"
	"github.com/derekprior/triplettes/internal/schedule"
)

// Options controls a simulation.
type Options struct {
	Runs        int
	Parallel    int   // 0 means GOMAXPROCS
	Seed        int64 // run i is seeded with Seed+i
	MaxAttempts int
	CommitMode  schedule.CommitMode
	Logger      *zap.Logger
}

// Report summarizes a simulation.
type Report struct {
	Runs      int
	Successes int
	// FailedRounds counts, per round number, the runs that exhausted there.
	FailedRounds map[int]int
	// Attempts holds the total attempts of each successful run, sorted.
	Attempts []int
}

// SuccessRate is the fraction of runs that completed.
func (r *Report) SuccessRate() float64 {
	if r.Runs == 0 {
		return 0
	}
	return float64(r.Successes) / float64(r.Runs)
}

// MeanAttempts averages total attempts over successful runs.
func (r *Report) MeanAttempts() float64 {
	if len(r.Attempts) == 0 {
		return 0
	}
	total := 0
	for _, a := range r.Attempts {
		total += a
	}
	return float64(total) / float64(len(r.Attempts))
}

// MaxAttempts is the largest total attempts of any successful run.
func (r *Report) MaxAttempts() int {
	if len(r.Attempts) == 0 {
		return 0
	}
	return r.Attempts[len(r.Attempts)-1]
}

type outcome struct {
	ok          bool
	failedRound int
	attempts    int
}

// Run plays opts.Runs independent tournaments over the same roster. Each
// run owns its own Tournament and random source; only the outcome slice is
// shared, one slot per run.
func Run(ctx context.Context, r *roster.Roster, opts Options) (*Report, error) {
	if opts.Runs <= 0 {
		return nil, fmt.Errorf("runs must be positive, got %d", opts.Runs)
	}
	if opts.Parallel <= 0 {
		opts.Parallel = runtime.GOMAXPROCS(0)
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	outcomes := make([]outcome, opts.Runs)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Parallel)

	for i := 0; i < opts.Runs; i++ {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			t, err := schedule.New(r, schedule.Options{
				MaxAttempts: opts.MaxAttempts,
				CommitMode:  opts.CommitMode,
				Rand:        rand.New(rand.NewSource(opts.Seed + int64(i))),
			})
			if err != nil {
				return err
			}

			err = t.Run()
			var ex *schedule.ExhaustedError
			switch {
			case err == nil:
				outcomes[i] = outcome{ok: true, attempts: t.TotalAttempts()}
			case errors.As(err, &ex):
				outcomes[i] = outcome{failedRound: ex.Round}
				logger.Debug("Simulated run failed", zap.Int("run", i), zap.Int("round", ex.Round))
			default:
				return err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &Report{Runs: opts.Runs, FailedRounds: make(map[int]int)}
	for _, o := range outcomes {
		if o.ok {
			report.Successes++
			report.Attempts = append(report.Attempts, o.attempts)
		} else {
			report.FailedRounds[o.failedRound]++
		}
	}
	sort.Ints(report.Attempts)

	logger.Info("Simulation finished",
		zap.Int("runs", report.Runs),
		zap.Int("successes", report.Successes),
		zap.Float64("success_rate", report.SuccessRate()))
	return report, nil
}
