package main

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/derekprior/triplettes/internal/config"
	"github.com/derekprior/triplettes/internal/excel"
	"github.com/derekprior/triplettes/internal/render"
	"github.com/derekprior/triplettes/internal/schedule"
	"github.com/derekprior/triplettes/internal/simulate"
	"github.com/derekprior/triplettes/internal/validator"
)

const defaultConfigFile = "config.yaml"

var logger = zap.NewNop()

// resolveConfigPath returns "" when no config file is given or found; the
// defaults are used then.
func resolveConfigPath(configFlag string) (string, error) {
	if configFlag != "" {
		return configFlag, nil
	}
	if _, err := os.Stat(defaultConfigFile); err == nil {
		return defaultConfigFile, nil
	}
	return "", nil
}

// overrides are command-line values that take precedence over the file.
type overrides struct {
	players     int
	seed        int64
	maxAttempts int
	commitMode  string
}

func (o overrides) apply(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("players") {
		cfg.Players = o.players
		cfg.Roster = config.Roster{}
	}
	if cmd.Flags().Changed("seed") {
		seed := o.seed
		cfg.Seed = &seed
	}
	if cmd.Flags().Changed("max-attempts") {
		cfg.MaxAttempts = o.maxAttempts
	}
	if cmd.Flags().Changed("commit-mode") {
		cfg.CommitMode = o.commitMode
	}
}

func loadConfig(cmd *cobra.Command, configFlag string, o overrides) (*config.Config, error) {
	path, err := resolveConfigPath(configFlag)
	if err != nil {
		return nil, err
	}
	cfg := config.Default()
	if path != "" {
		cfg, err = config.LoadFromFile(path)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	}
	o.apply(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func newRootCmd(stdout io.Writer) *cobra.Command {
	var verbose bool
	rootCmd := &cobra.Command{
		Use:   "triplettes",
		Short: "Triplette tournament schedule generator",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			zcfg := zap.NewProductionConfig()
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
			if verbose {
				zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			l, err := zcfg.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			logger = l
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log every scheduling attempt")
	rootCmd.SetOut(stdout)

	var initOutputPath string
	initCmd := &cobra.Command{
		Use:          "init",
		Short:        "Create a starter config.yaml in the current directory",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd.OutOrStdout(), initOutputPath)
		},
	}
	initCmd.Flags().StringVarP(&initOutputPath, "output", "o", defaultConfigFile, "Output path for the config file")

	scheduleCmd := &cobra.Command{
		Use:   "schedule",
		Short: "Generate, validate and simulate tournament schedules",
	}

	var configFile string
	var o overrides
	pf := scheduleCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "Path to config file (default: config.yaml in current directory, if present)")
	pf.IntVarP(&o.players, "players", "p", 24, "Number of players (multiple of 6); replaces any named roster")
	pf.Int64Var(&o.seed, "seed", 0, "Random seed")
	pf.IntVar(&o.maxAttempts, "max-attempts", schedule.DefaultMaxAttempts, "Attempts allowed per round")
	pf.StringVar(&o.commitMode, "commit-mode", "speculative", "When failed attempts are committed: speculative or staged")

	var outputFile string
	var quiet bool
	generateCmd := &cobra.Command{
		Use:          "generate",
		Short:        "Generate a tournament and export it to Excel",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, configFile, o)
			if err != nil {
				return err
			}
			return runGenerate(cmd.OutOrStdout(), cfg, outputFile, quiet)
		},
	}
	generateCmd.Flags().StringVarP(&outputFile, "output", "o", "tournament.xlsx", "Output Excel file path")
	generateCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Do not print the schedule")

	validateCmd := &cobra.Command{
		Use:          "validate <tournament.xlsx>",
		Short:        "Validate an exported tournament against the rules",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, configFile, o)
			if err != nil {
				return err
			}
			return runValidate(cmd.OutOrStdout(), cfg, args[0])
		},
	}

	var runs, parallel int
	simulateCmd := &cobra.Command{
		Use:          "simulate",
		Short:        "Estimate how often a tournament can be completed",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, configFile, o)
			if err != nil {
				return err
			}
			return runSimulate(cmd.Context(), cmd.OutOrStdout(), cfg, runs, parallel)
		},
	}
	simulateCmd.Flags().IntVar(&runs, "runs", 200, "Number of tournaments to generate")
	simulateCmd.Flags().IntVar(&parallel, "parallel", 0, "Concurrent runs (default: GOMAXPROCS)")

	scheduleCmd.AddCommand(generateCmd, validateCmd, simulateCmd)
	rootCmd.AddCommand(initCmd, scheduleCmd)
	return rootCmd
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

func runInit(w io.Writer, outputPath string) error {
	if _, err := os.Stat(outputPath); err == nil {
		return fmt.Errorf("%s already exists; remove it first or use -o to write elsewhere", outputPath)
	}

	if err := os.WriteFile(outputPath, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Fprintf(w, "✓ Created %s\n", outputPath)
	return nil
}

const configTemplate = `# Triplettes Tournament Configuration
# ==================================
# Every team has one player in each of three roles. Each round all players
# are split into new teams, and the teams are paired onto courts. Across the
# tournament no team is formed twice and no two primary players meet twice.

# Number of players. Must be a multiple of 6: players/3 teams play on
# players/6 courts. The round count follows from the team count:
# 8 teams play 4 rounds, 10 teams play 5, anything else plays 6.
players: 24

# Optional named roster. When present it replaces the generated players
# (primary-01, secondary-01, ...). Each role needs the same number of names.
#
# roster:
#   primary: [Alice, Bob, ...]
#   secondary: [Carol, Dan, ...]
#   tertiary: [Erin, Frank, ...]

# Role names used in the export and on screen.
role_labels:
  primary: Shooter
  secondary: Pointer
  tertiary: Middle

# The scheduler retries random team draws until a round satisfies every
# rule. If a round still fails after this many attempts the tournament
# cannot be completed and nothing is exported.
max_attempts: 1000

# speculative: a failed attempt still uses up the teams and primary
#   pairings it drew (the classic behavior).
# staged: only committed rounds use them up. Completes far more often.
commit_mode: speculative

# Fix the random seed to get the same schedule on every run.
# seed: 42
`

func newTournament(cfg *config.Config) (*schedule.Tournament, error) {
	r, err := cfg.BuildRoster()
	if err != nil {
		return nil, err
	}
	mode, err := schedule.ParseCommitMode(cfg.CommitMode)
	if err != nil {
		return nil, err
	}
	seed := time.Now().UnixNano()
	if cfg.Seed != nil {
		seed = *cfg.Seed
	}
	return schedule.New(r, schedule.Options{
		MaxAttempts: cfg.MaxAttempts,
		CommitMode:  mode,
		Rand:        rand.New(rand.NewSource(seed)),
		Logger:      logger.With(zap.Int64("seed", seed)),
	})
}

func runGenerate(w io.Writer, cfg *config.Config, outputPath string, quiet bool) error {
	t, err := newTournament(cfg)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "Configuration:")
	fmt.Fprintf(w, "  Players: %d\n", t.Roster().Len())
	fmt.Fprintf(w, "  Teams:   %d\n", t.NumTeams())
	fmt.Fprintf(w, "  Courts:  %d\n", t.NumCourts())
	fmt.Fprintf(w, "  Rounds:  %d\n", t.NumRounds())

	if err := t.Run(); err != nil {
		return fmt.Errorf("the tournament cannot be completed with these constraints: %w", err)
	}
	fmt.Fprintf(w, "\n✓ All %d rounds scheduled in %d attempts\n", t.NumRounds(), t.TotalAttempts())

	if !quiet {
		fmt.Fprintln(w)
		if err := render.Tournament(w, t, cfg.RoleLabels); err != nil {
			return err
		}
	}

	violations := validator.Check(t.Roster(), t.Rounds())
	if n := validator.Errors(violations); n > 0 {
		for _, v := range violations {
			fmt.Fprintf(w, "✗ %s\n", v.Message)
		}
		return fmt.Errorf("generated schedule breaks %d rules", n)
	}
	fmt.Fprintln(w, "✓ Unique teams, no repeated primary matchups, every player in every round")

	f, err := excel.Generate(cfg, t)
	if err != nil {
		return fmt.Errorf("generating Excel: %w", err)
	}
	if err := f.SaveAs(outputPath); err != nil {
		return fmt.Errorf("saving file: %w", err)
	}

	fmt.Fprintf(w, "\n✓ Tournament saved to %s\n", outputPath)
	return nil
}

func runValidate(w io.Writer, cfg *config.Config, path string) error {
	r, err := cfg.BuildRoster()
	if err != nil {
		return err
	}

	violations, err := validator.Validate(path, r)
	if err != nil {
		return fmt.Errorf("validating: %w", err)
	}

	errors := 0
	warnings := 0
	for _, v := range violations {
		switch v.Type {
		case "error":
			errors++
			fmt.Fprintf(w, "✗ Rule violation: %s\n", v.Message)
		case "warning":
			warnings++
			fmt.Fprintf(w, "⚠ %s\n", v.Message)
		}
	}

	fmt.Fprintf(w, "\nValidation complete: %d rule violations, %d warnings\n", errors, warnings)
	if errors > 0 {
		return fmt.Errorf("%d constraint violations found", errors)
	}
	return nil
}

func runSimulate(ctx context.Context, w io.Writer, cfg *config.Config, runs, parallel int) error {
	r, err := cfg.BuildRoster()
	if err != nil {
		return err
	}
	mode, err := schedule.ParseCommitMode(cfg.CommitMode)
	if err != nil {
		return err
	}
	seed := time.Now().UnixNano()
	if cfg.Seed != nil {
		seed = *cfg.Seed
	}
	if ctx == nil {
		ctx = context.Background()
	}

	report, err := simulate.Run(ctx, r, simulate.Options{
		Runs:        runs,
		Parallel:    parallel,
		Seed:        seed,
		MaxAttempts: cfg.MaxAttempts,
		CommitMode:  mode,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("simulating: %w", err)
	}

	fmt.Fprintf(w, "Simulated %d tournaments of %d players (%s commits, %d attempts per round)\n",
		report.Runs, r.Len(), mode, cfg.MaxAttempts)
	fmt.Fprintf(w, "  Completed:     %d (%.1f%%)\n", report.Successes, 100*report.SuccessRate())
	if report.Successes > 0 {
		fmt.Fprintf(w, "  Attempts:      mean %.1f, max %d\n", report.MeanAttempts(), report.MaxAttempts())
	}
	if len(report.FailedRounds) > 0 {
		rounds := make([]int, 0, len(report.FailedRounds))
		for n := range report.FailedRounds {
			rounds = append(rounds, n)
		}
		sort.Ints(rounds)
		fmt.Fprintln(w, "  Failed in round:")
		for _, n := range rounds {
			fmt.Fprintf(w, "    %d: %d\n", n, report.FailedRounds[n])
		}
	}
	return nil
}
