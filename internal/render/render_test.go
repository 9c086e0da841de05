package render

import (
	"bytes"
	"math/rand"
	"strings"
	"testing"

	"github.com/derekprior/triplettes/internal/config"
	"github.com/derekprior/triplettes/internal/roster"
	"github.com/derekprior/triplettes/internal/schedule"
)

func TestTournament(t *testing.T) {
	r, err := roster.Build(24)
	if err != nil {
		t.Fatal(err)
	}
	tour, err := schedule.New(r, schedule.Options{CommitMode: schedule.Staged, Rand: rand.New(rand.NewSource(8))})
	if err != nil {
		t.Fatal(err)
	}
	if err := tour.Run(); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := Tournament(&buf, tour, config.Default().RoleLabels); err != nil {
		t.Fatalf("Tournament() error: %v", err)
	}
	out := buf.String()

	for _, want := range []string{"Round 1", "Round 4", "Court 4", "Shooter: ", "Middle: "} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
	for _, p := range r.Players() {
		if !strings.Contains(out, p.Name) {
			t.Errorf("output missing player %s", p.Name)
		}
	}
}

func TestTournamentIncomplete(t *testing.T) {
	r, err := roster.Build(6)
	if err != nil {
		t.Fatal(err)
	}
	tour, err := schedule.New(r, schedule.Options{MaxAttempts: 5, Rand: rand.New(rand.NewSource(1))})
	if err != nil {
		t.Fatal(err)
	}
	_ = tour.Run()

	var buf bytes.Buffer
	if err := Tournament(&buf, tour, config.Default().RoleLabels); err == nil {
		t.Error("expected an error for an incomplete tournament")
	}
	if buf.Len() != 0 {
		t.Error("incomplete tournament was rendered")
	}
}
