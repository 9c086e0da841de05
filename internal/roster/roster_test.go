package roster

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBuild(t *testing.T) {
	r, err := Build(24)
	if err != nil {
		t.Fatalf("Build(24) error: %v", err)
	}

	t.Run("role partitions", func(t *testing.T) {
		for _, role := range Roles {
			if got := len(r.ByRole(role)); got != 8 {
				t.Errorf("%s players = %d, want 8", role, got)
			}
		}
		if r.NumTeams() != 8 {
			t.Errorf("NumTeams = %d, want 8", r.NumTeams())
		}
		if r.NumCourts() != 4 {
			t.Errorf("NumCourts = %d, want 4", r.NumCourts())
		}
	})

	t.Run("naming", func(t *testing.T) {
		var names []string
		for _, p := range r.ByRole(Secondary)[:3] {
			names = append(names, p.Name)
		}
		want := []string{"secondary-01", "secondary-02", "secondary-03"}
		if diff := cmp.Diff(want, names); diff != "" {
			t.Errorf("secondary names mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("ids are unique and block ordered", func(t *testing.T) {
		players := r.Players()
		for i, p := range players {
			if p.ID != i+1 {
				t.Fatalf("player %d has id %d", i, p.ID)
			}
		}
		if players[8].Role != Secondary || players[16].Role != Tertiary {
			t.Errorf("unexpected role order: %v, %v", players[8], players[16])
		}
	})

	t.Run("stable under re-invocation", func(t *testing.T) {
		again, err := Build(24)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(r.Players(), again.Players()); diff != "" {
			t.Errorf("Build is not stable (-first +second):\n%s", diff)
		}
	})
}

func TestBuildPadsWideRosters(t *testing.T) {
	r, err := Build(300)
	if err != nil {
		t.Fatal(err)
	}
	if got := r.ByRole(Primary)[0].Name; got != "primary-001" {
		t.Errorf("first name = %q, want primary-001", got)
	}
}

func TestBuildRejectsBadCounts(t *testing.T) {
	for _, n := range []int{0, -6, 3, 9, 25} {
		_, err := Build(n)
		if !errors.Is(err, ErrInvalidRoster) {
			t.Errorf("Build(%d) err = %v, want ErrInvalidRoster", n, err)
		}
	}
}

func TestNew(t *testing.T) {
	t.Run("unequal roles", func(t *testing.T) {
		_, err := FromNames([]string{"a", "b"}, []string{"c", "d"}, []string{"e"})
		var cerr *ConfigError
		if !errors.As(err, &cerr) {
			t.Fatalf("err = %v, want *ConfigError", err)
		}
	})

	t.Run("zero courts", func(t *testing.T) {
		_, err := FromNames([]string{"a"}, []string{"b"}, []string{"c"})
		if !errors.Is(err, ErrInvalidRoster) {
			t.Fatalf("err = %v, want ErrInvalidRoster", err)
		}
	})

	t.Run("duplicate ids", func(t *testing.T) {
		_, err := New([]Player{
			{ID: 1, Name: "a", Role: Primary},
			{ID: 1, Name: "b", Role: Secondary},
		})
		if !errors.Is(err, ErrInvalidRoster) {
			t.Fatalf("err = %v, want ErrInvalidRoster", err)
		}
	})

	t.Run("odd team count", func(t *testing.T) {
		r, err := FromNames([]string{"a", "b", "c"}, []string{"d", "e", "f"}, []string{"g", "h", "i"})
		if err != nil {
			t.Fatal(err)
		}
		if r.NumCourts() != 1 {
			t.Errorf("NumCourts = %d, want 1", r.NumCourts())
		}
		if p, ok := r.Lookup("e"); !ok || p.Role != Secondary || p.ID != 5 {
			t.Errorf("Lookup(e) = %v, %v", p, ok)
		}
	})
}

func TestParseRole(t *testing.T) {
	for _, role := range Roles {
		got, err := ParseRole(role.String())
		if err != nil || got != role {
			t.Errorf("ParseRole(%q) = %v, %v", role, got, err)
		}
	}
	if _, err := ParseRole("captain"); err == nil {
		t.Error("expected error for unknown role")
	}
}
