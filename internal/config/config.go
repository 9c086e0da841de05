package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/derekprior/triplettes/internal/roster"
	"github.com/derekprior/triplettes/internal/schedule"
)

// Roster lists players by name for each role. When set it replaces the
// generated roster.
type Roster struct {
	Primary   []string `yaml:"primary"`
	Secondary []string `yaml:"secondary"`
	Tertiary  []string `yaml:"tertiary"`
}

func (r Roster) empty() bool {
	return len(r.Primary) == 0 && len(r.Secondary) == 0 && len(r.Tertiary) == 0
}

// RoleLabels are the display names used in exports and terminal output.
type RoleLabels struct {
	Primary   string `yaml:"primary"`
	Secondary string `yaml:"secondary"`
	Tertiary  string `yaml:"tertiary"`
}

// Label returns the display name for role.
func (l RoleLabels) Label(role roster.Role) string {
	switch role {
	case roster.Secondary:
		return l.Secondary
	case roster.Tertiary:
		return l.Tertiary
	default:
		return l.Primary
	}
}

type Config struct {
	Players     int        `yaml:"players"`
	Roster      Roster     `yaml:"roster"`
	RoleLabels  RoleLabels `yaml:"role_labels"`
	MaxAttempts int        `yaml:"max_attempts"`
	CommitMode  string     `yaml:"commit_mode"`
	Seed        *int64     `yaml:"seed"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Players: 24,
		RoleLabels: RoleLabels{
			Primary:   "Shooter",
			Secondary: "Pointer",
			Tertiary:  "Middle",
		},
		MaxAttempts: schedule.DefaultMaxAttempts,
		CommitMode:  schedule.Speculative.String(),
	}
}

// LoadFromBytes parses YAML bytes over the defaults and validates the result.
func LoadFromBytes(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromFile reads and parses a YAML config file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return LoadFromBytes(data)
}

// Validate checks the values a caller may have set after loading.
func (c *Config) Validate() error {
	if c.Roster.empty() {
		if c.Players <= 0 || c.Players%6 != 0 {
			return fmt.Errorf("players must be a positive multiple of 6, got %d", c.Players)
		}
	} else {
		seen := make(map[string]bool)
		for _, names := range [][]string{c.Roster.Primary, c.Roster.Secondary, c.Roster.Tertiary} {
			for _, name := range names {
				if name == "" {
					return fmt.Errorf("roster contains an empty player name")
				}
				if seen[name] {
					return fmt.Errorf("player %q appears more than once in the roster", name)
				}
				seen[name] = true
			}
		}
	}

	if c.MaxAttempts <= 0 {
		return fmt.Errorf("max_attempts must be positive, got %d", c.MaxAttempts)
	}
	if _, err := schedule.ParseCommitMode(c.CommitMode); err != nil {
		return err
	}

	for _, role := range roster.Roles {
		if c.RoleLabels.Label(role) == "" {
			return fmt.Errorf("role_labels.%s must not be empty", role)
		}
	}
	return nil
}

// BuildRoster returns the named roster if one is configured, otherwise a
// generated roster of Players players.
func (c *Config) BuildRoster() (*roster.Roster, error) {
	if !c.Roster.empty() {
		return roster.FromNames(c.Roster.Primary, c.Roster.Secondary, c.Roster.Tertiary)
	}
	return roster.Build(c.Players)
}
